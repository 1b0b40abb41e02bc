// Package assemble drives PDF book layout: cover, reserved table of
// contents, one fresh page per chapter, then the back-filled contents.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-md2book/internal/canvas"
	"github.com/alnah/go-md2book/internal/pipeline"
	"github.com/alnah/go-md2book/internal/render"
)

// Sentinel errors for assembly.
var (
	ErrNoChapters = errors.New("no chapters to assemble")
	ErrConversion = errors.New("chapter conversion failed")
)

// Table of contents layout.
const (
	DefaultTOCTitle = "Table of Contents"
	tocTitleSize    = 18.0
	tocTitleHeight  = 10.0
	tocTitleGap     = 8.0
	tocEntrySize    = 12.0
	tocEntryHeight  = 8.0
	tocLeader       = " .......... "
)

// Chapter is one unit of book content.
type Chapter struct {
	Index  int    // 1-based position in the book
	Title  string // display title used in the contents
	Source string // raw Markdown
}

// Input is everything needed to lay out a book.
type Input struct {
	CoverPath string // optional; an unreadable cover is skipped
	Chapters  []Chapter
}

// TOCEntry is one line of the table of contents.
type TOCEntry struct {
	Title string
	Page  int
	link  int
}

// Result describes a finished layout.
type Result struct {
	Pages    int
	TOCPages []int
	TOC      []TOCEntry
	Cover    bool
	CoverErr error // set when a cover was configured but could not be drawn
}

// Assembler lays out chapters onto a fresh canvas per call.
type Assembler struct {
	canvasOpts   canvas.Options
	preprocessor pipeline.MarkdownPreprocessor
	converter    pipeline.HTMLConverter
	log          *zap.Logger
	tocTitle     string
	renderOpts   []render.Option
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.log = l
		}
	}
}

// WithTOCTitle sets the contents heading.
func WithTOCTitle(title string) Option {
	return func(a *Assembler) {
		if title != "" {
			a.tocTitle = title
		}
	}
}

// WithConverter replaces the Markdown to HTML converter.
func WithConverter(c pipeline.HTMLConverter) Option {
	return func(a *Assembler) { a.converter = c }
}

// WithRenderOptions passes options to each chapter renderer.
func WithRenderOptions(opts ...render.Option) Option {
	return func(a *Assembler) { a.renderOpts = append(a.renderOpts, opts...) }
}

// New returns an Assembler producing canvases configured by opts.
func New(opts canvas.Options, options ...Option) *Assembler {
	a := &Assembler{
		canvasOpts:   opts,
		preprocessor: &pipeline.ChapterPreprocessor{},
		converter:    pipeline.NewPlainConverter(),
		log:          zap.NewNop(),
		tocTitle:     DefaultTOCTitle,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Assemble lays out the book and writes the PDF to w.
func (a *Assembler) Assemble(ctx context.Context, in Input, w io.Writer) (*Result, error) {
	if len(in.Chapters) == 0 {
		return nil, ErrNoChapters
	}

	c, err := canvas.New(a.canvasOpts)
	if err != nil {
		return nil, err
	}
	res := &Result{}

	if in.CoverPath != "" {
		a.placeCover(c, in.CoverPath, res)
	}

	reservation := c.Reserve(a.tocPagesFor(len(in.Chapters)))
	res.TOCPages = reservation.Pages()

	r := render.New(c, append([]render.Option{render.WithLogger(a.log)}, a.renderOpts...)...)
	for _, ch := range in.Chapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, err := a.renderChapter(ctx, c, r, ch)
		if err != nil {
			return nil, err
		}
		res.TOC = append(res.TOC, entry)
	}

	if err := c.Patch(reservation, func(p *canvas.Patcher) error {
		return a.writeTOC(p, res.TOC)
	}); err != nil {
		return nil, err
	}

	res.Pages = c.PageCount()
	if err := c.Finish(w); err != nil {
		return nil, err
	}
	return res, nil
}

func (a *Assembler) placeCover(c *canvas.Canvas, path string, res *Result) {
	img, err := c.LoadImage(path)
	if err != nil {
		res.CoverErr = err
		a.log.Warn("cover skipped", zap.String("path", path), zap.Error(err))
		return
	}
	c.NewPage()
	c.SuppressFooter()
	c.PlaceCover(img)
	res.Cover = true
}

func (a *Assembler) renderChapter(ctx context.Context, c *canvas.Canvas, r *render.Renderer, ch Chapter) (TOCEntry, error) {
	page := c.NewPage()
	entry := TOCEntry{Title: ch.Title, Page: page, link: c.AddLink()}

	md := a.preprocessor.PreprocessMarkdown(ctx, ch.Source)
	html, err := a.converter.ToHTML(ctx, md)
	if err != nil {
		if ctx.Err() != nil {
			return entry, ctx.Err()
		}
		return entry, fmt.Errorf("%w: chapter %d (%s): %v", ErrConversion, ch.Index, ch.Title, err)
	}
	html = pipeline.StripPresentationMarkup(pipeline.Sanitize(html))

	r.BeginChapter()
	if err := r.Render(ctx, html); err != nil {
		return entry, fmt.Errorf("rendering chapter %d (%s): %w", ch.Index, ch.Title, err)
	}
	if unhandled := r.Unhandled(); len(unhandled) > 0 {
		a.log.Debug("tags rendered as plain text", zap.Strings("tags", unhandled))
	}
	if err := c.Err(); err != nil {
		return entry, fmt.Errorf("rendering chapter %d (%s): %w", ch.Index, ch.Title, err)
	}

	a.log.Debug("chapter rendered",
		zap.Int("index", ch.Index),
		zap.String("title", ch.Title),
		zap.Int("first_page", page),
		zap.Int("last_page", c.Page()))
	return entry, nil
}

// tocPagesFor returns how many reserved pages n entries need.
func (a *Assembler) tocPagesFor(n int) int {
	size := a.canvasOpts.Size
	if size.Height <= 0 {
		size = canvas.A4
	}
	margin := a.canvasOpts.Margin
	if margin == 0 {
		margin = canvas.DefaultMargin
	}
	bottom := a.canvasOpts.BottomMargin
	if bottom == 0 {
		bottom = canvas.DefaultBottomMargin
	}
	usable := size.Height - bottom - margin
	first := int((usable - tocTitleHeight - tocTitleGap) / tocEntryHeight)
	rest := int(usable / tocEntryHeight)
	if first < 1 || rest < 1 || n <= first {
		return 1
	}
	return 1 + (n-first+rest-1)/rest
}

func (a *Assembler) writeTOC(p *canvas.Patcher, entries []TOCEntry) error {
	p.SetFont(canvas.Body, "B", tocTitleSize)
	p.MultiCell(a.tocTitle, 0, tocTitleHeight, canvas.CellStyle{})
	p.AdvanceLine(tocTitleGap)
	p.SetFont(canvas.Body, "", tocEntrySize)

	for i, e := range entries {
		if !p.Fits(tocEntryHeight) && !p.NextPage() {
			a.log.Warn("table of contents truncated",
				zap.Int("written", i), zap.Int("total", len(entries)))
			return nil
		}
		p.Cell(TOCLine(e.Title, e.Page), 0, tocEntryHeight, canvas.CellStyle{NewLine: true, Link: e.link})
	}
	return nil
}

var bulletStripper = strings.NewReplacer("\u0095", "", "\u2022", "")

// TOCLine formats one contents line, with bullet characters removed from
// the title.
func TOCLine(title string, page int) string {
	return bulletStripper.Replace(title) + tocLeader + strconv.Itoa(page)
}
