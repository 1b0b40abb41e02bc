package canvas

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"github.com/alnah/go-md2book/internal/fonts"
)

// Sentinel errors for canvas operations.
var (
	ErrPageSize       = errors.New("invalid page size")
	ErrMargin         = errors.New("invalid margin")
	ErrNoFonts        = errors.New("no font set configured")
	ErrRender         = errors.New("PDF rendering failed")
	ErrAlreadyPatched = errors.New("reserved pages already patched")
	ErrImageDecode    = errors.New("image could not be decoded")
)

// PageSize is a named physical page size in millimetres.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

// Supported page sizes.
var (
	A4     = PageSize{Name: "a4", Width: 210, Height: 297}
	Letter = PageSize{Name: "letter", Width: 215.9, Height: 279.4}
	Legal  = PageSize{Name: "legal", Width: 215.9, Height: 355.6}
)

// ParsePageSize resolves a page size name. Empty means A4.
func ParsePageSize(name string) (PageSize, error) {
	switch name {
	case "", "a4", "A4":
		return A4, nil
	case "letter", "Letter":
		return Letter, nil
	case "legal", "Legal":
		return Legal, nil
	default:
		return PageSize{}, fmt.Errorf("%w: %q (must be a4, letter, or legal)", ErrPageSize, name)
	}
}

// Default layout values.
const (
	DefaultMargin       = 10.0
	DefaultBottomMargin = 20.0
	DefaultBodySize     = 12.0
)

// Family selects the body or monospace font family.
type Family int

const (
	Body Family = iota
	Mono
)

// RGB is an 8-bit colour.
type RGB struct{ R, G, B int }

// Common colours.
var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
)

// CellStyle controls how a cell is drawn.
type CellStyle struct {
	Border  string // "", "1", or any of "L", "T", "R", "B"
	Fill    bool
	Align   string // "L" (default), "C", "R"
	NewLine bool   // move the cursor to the start of the next line afterwards
	Link    int    // internal link id from AddLink, 0 for none
}

// Options configures a Canvas.
type Options struct {
	Size         PageSize
	Margin       float64 // left, top and right
	BottomMargin float64 // auto page-break threshold
	Fonts        *fonts.Set
	PageNumbers  bool
	Title        string
	Author       string
	Creator      string
	CreationDate time.Time // zero means now
}

// Canvas is an append-only sequence of PDF pages with a drawing cursor.
type Canvas struct {
	pdf          *fpdf.Fpdf
	opts         Options
	bodyFamily   string
	monoFamily   string
	noFooter     map[int]bool
	reservations []*Reservation
}

// New creates an empty Canvas with fonts registered. No page exists until
// NewPage or Reserve is called.
func New(opts Options) (*Canvas, error) {
	if opts.Fonts == nil {
		return nil, ErrNoFonts
	}
	if err := opts.Fonts.Validate(); err != nil {
		return nil, err
	}
	if opts.Size.Width <= 0 || opts.Size.Height <= 0 {
		opts.Size = A4
	}
	if opts.Margin == 0 {
		opts.Margin = DefaultMargin
	}
	if opts.BottomMargin == 0 {
		opts.BottomMargin = DefaultBottomMargin
	}
	if opts.Margin < 0 || opts.Margin*2 >= opts.Size.Width || opts.BottomMargin < 0 {
		return nil, fmt.Errorf("%w: margin %.1f, bottom %.1f", ErrMargin, opts.Margin, opts.BottomMargin)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: opts.Size.Width, Ht: opts.Size.Height},
	})
	pdf.SetMargins(opts.Margin, opts.Margin, opts.Margin)
	pdf.SetAutoPageBreak(true, opts.BottomMargin)
	pdf.SetTitle(opts.Title, true)
	pdf.SetAuthor(opts.Author, true)
	pdf.SetCreator(opts.Creator, true)
	if !opts.CreationDate.IsZero() {
		pdf.SetCreationDate(opts.CreationDate)
		pdf.SetModificationDate(opts.CreationDate)
	}

	c := &Canvas{
		pdf:        pdf,
		opts:       opts,
		bodyFamily: opts.Fonts.Family,
		monoFamily: opts.Fonts.Family,
		noFooter:   make(map[int]bool),
	}

	for _, style := range fonts.Styles {
		face := opts.Fonts.Faces[style]
		pdf.AddUTF8FontFromBytes(c.bodyFamily, string(style), face.Data)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", fonts.ErrFontInvalid, face.Name, err)
		}
	}
	if opts.Fonts.Mono != nil {
		c.monoFamily = opts.Fonts.Family + "Mono"
		pdf.AddUTF8FontFromBytes(c.monoFamily, "", opts.Fonts.Mono.Data)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", fonts.ErrFontInvalid, opts.Fonts.Mono.Name, err)
		}
	}

	if opts.PageNumbers {
		pdf.SetFooterFunc(c.footer)
	}
	pdf.SetFont(c.bodyFamily, "", DefaultBodySize)
	return c, nil
}

func (c *Canvas) footer() {
	page := c.pdf.PageNo()
	if c.noFooter[page] {
		return
	}
	c.pdf.SetY(-c.opts.BottomMargin + 5)
	c.pdf.SetFont(c.bodyFamily, "", 9)
	c.pdf.SetTextColor(Black.R, Black.G, Black.B)
	c.pdf.CellFormat(0, 10, strconv.Itoa(page), "", 0, "C", false, 0, "")
}

// SuppressFooter disables the page-number footer on the current page.
func (c *Canvas) SuppressFooter() {
	c.noFooter[c.pdf.PageNo()] = true
}

// NewPage appends a page and moves the cursor to its top-left content corner.
// It returns the 1-based number of the new page.
func (c *Canvas) NewPage() int {
	c.pdf.AddPage()
	return c.pdf.PageNo()
}

// Page returns the current page number, 0 before the first page.
func (c *Canvas) Page() int { return c.pdf.PageNo() }

// PageCount returns the number of pages created so far.
func (c *Canvas) PageCount() int { return c.pdf.PageCount() }

// LeftMargin returns the fixed left page margin, independent of SetTextIndent.
func (c *Canvas) LeftMargin() float64 { return c.opts.Margin }

// ContentRight returns the x coordinate of the right margin.
func (c *Canvas) ContentRight() float64 { return c.opts.Size.Width - c.opts.Margin }

// X returns the cursor's horizontal position.
func (c *Canvas) X() float64 { return c.pdf.GetX() }

// Y returns the cursor's vertical position.
func (c *Canvas) Y() float64 { return c.pdf.GetY() }

// SetX moves the cursor horizontally.
func (c *Canvas) SetX(x float64) { c.pdf.SetX(x) }

// SetTextIndent sets where wrapped and new lines start, relative to the
// left margin.
func (c *Canvas) SetTextIndent(d float64) {
	if d < 0 {
		d = 0
	}
	c.pdf.SetLeftMargin(c.opts.Margin + d)
}

// breakTrigger is the y position past which content no longer fits.
func (c *Canvas) breakTrigger() float64 {
	return c.opts.Size.Height - c.opts.BottomMargin
}

// AdvanceLine moves the cursor down by h and back to the line start.
// If that would cross the bottom margin, a new page is started instead.
func (c *Canvas) AdvanceLine(h float64) {
	if c.pdf.GetY()+h > c.breakTrigger() {
		c.NewPage()
		return
	}
	c.pdf.Ln(h)
}

// EnsureSpace starts a new page when less than h remains above the bottom
// margin. The horizontal position is kept.
func (c *Canvas) EnsureSpace(h float64) {
	if c.pdf.GetY()+h <= c.breakTrigger() {
		return
	}
	x := c.pdf.GetX()
	c.NewPage()
	c.pdf.SetX(x)
}

// SetFont selects a family, style ("", "B", "I", "BI", optionally with "U")
// and size in points.
func (c *Canvas) SetFont(fam Family, style string, size float64) {
	family := c.bodyFamily
	if fam == Mono {
		family = c.monoFamily
		if c.monoFamily != c.bodyFamily {
			// Only the regular mono face is registered.
			style = underlineOnly(style)
		}
	}
	c.pdf.SetFont(family, style, size)
}

func underlineOnly(style string) string {
	for _, r := range style {
		if r == 'U' || r == 'u' {
			return "U"
		}
	}
	return ""
}

// SetTextColor sets the text colour.
func (c *Canvas) SetTextColor(rgb RGB) { c.pdf.SetTextColor(rgb.R, rgb.G, rgb.B) }

// SetFillColor sets the fill colour used by filled cells and boxes.
func (c *Canvas) SetFillColor(rgb RGB) { c.pdf.SetFillColor(rgb.R, rgb.G, rgb.B) }

// SetDrawColor sets the stroke colour used by borders.
func (c *Canvas) SetDrawColor(rgb RGB) { c.pdf.SetDrawColor(rgb.R, rgb.G, rgb.B) }

// Cell draws text in a w by h rectangle at the cursor. A zero width extends
// to the right margin. Without NewLine the cursor moves right by w.
func (c *Canvas) Cell(text string, w, h float64, style CellStyle) {
	ln := 0
	if style.NewLine {
		ln = 1
	}
	c.pdf.CellFormat(w, h, text, style.Border, ln, style.Align, style.Fill, style.Link, "")
}

// MultiCell draws text wrapped to width w, one cell per embedded newline
// or wrapped line, and leaves the cursor below it.
func (c *Canvas) MultiCell(text string, w, h float64, style CellStyle) {
	c.pdf.MultiCell(w, h, text, style.Border, style.Align, style.Fill)
}

// Box draws an empty cell of width w and height h at x on the current line,
// then restores the horizontal position.
func (c *Canvas) Box(x, w, h float64, border string, fill bool) {
	saved := c.pdf.GetX()
	c.pdf.SetX(x)
	c.pdf.CellFormat(w, h, "", border, 0, "", fill, 0, "")
	c.pdf.SetX(saved)
}

// Write flows text from the cursor, wrapping at the right margin and
// continuing at the current text indent.
func (c *Canvas) Write(h float64, text string) { c.pdf.Write(h, text) }

// WriteLink flows text like Write and makes it a hyperlink to url.
func (c *Canvas) WriteLink(h float64, text, url string) { c.pdf.WriteLinkString(h, text, url) }

// StringWidth returns the width of s in the current font.
func (c *Canvas) StringWidth(s string) float64 { return c.pdf.GetStringWidth(s) }

// AddLink returns an internal link id that targets the top of the current page.
func (c *Canvas) AddLink() int {
	id := c.pdf.AddLink()
	c.pdf.SetLink(id, 0, c.pdf.PageNo())
	return id
}

// Err returns the first error recorded by the underlying document, if any.
func (c *Canvas) Err() error {
	if err := c.pdf.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return nil
}

// Finish serializes the document to w. The canvas must not be used afterwards.
func (c *Canvas) Finish(w io.Writer) error {
	if err := c.Err(); err != nil {
		return err
	}
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return nil
}
