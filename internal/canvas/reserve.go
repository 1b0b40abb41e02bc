package canvas

import (
	"fmt"
)

// Reservation is a run of pages allocated in sequence but filled in later.
type Reservation struct {
	pages   []int
	patched bool
}

// Pages returns the reserved page numbers in order.
func (r *Reservation) Pages() []int {
	out := make([]int, len(r.pages))
	copy(out, r.pages)
	return out
}

// First returns the first reserved page number.
func (r *Reservation) First() int {
	if len(r.pages) == 0 {
		return 0
	}
	return r.pages[0]
}

// Patched reports whether Patch has already run for this reservation.
func (r *Reservation) Patched() bool { return r.patched }

// Reserve appends n blank pages (at least one) to be filled by Patch.
func (c *Canvas) Reserve(n int) *Reservation {
	if n < 1 {
		n = 1
	}
	r := &Reservation{pages: make([]int, 0, n)}
	for range n {
		r.pages = append(r.pages, c.NewPage())
	}
	c.reservations = append(c.reservations, r)
	return r
}

// Patcher draws onto reserved pages. It never triggers page breaks: content
// that does not fit is reported through Fits and must be moved with NextPage.
type Patcher struct {
	c     *Canvas
	r     *Reservation
	index int
}

// Patch runs fn against the reserved pages, starting at the top of the
// first one. Cursor, page and page-break state are restored afterwards.
// A Reservation can be patched only once.
func (c *Canvas) Patch(r *Reservation, fn func(p *Patcher) error) error {
	if r.patched {
		return ErrAlreadyPatched
	}
	r.patched = true

	pdf := c.pdf
	savedPage := pdf.PageNo()
	savedX, savedY := pdf.GetX(), pdf.GetY()
	savedLeft, _, _, _ := pdf.GetMargins()
	auto, bottom := pdf.GetAutoPageBreak()

	pdf.SetAutoPageBreak(false, bottom)
	pdf.SetLeftMargin(c.opts.Margin)
	p := &Patcher{c: c, r: r}
	p.moveTo(0)

	err := fn(p)

	pdf.SetPage(savedPage)
	pdf.SetAutoPageBreak(auto, bottom)
	pdf.SetLeftMargin(savedLeft)
	pdf.SetXY(savedX, savedY)

	if err != nil {
		return err
	}
	return c.Err()
}

func (p *Patcher) moveTo(i int) {
	p.index = i
	p.c.pdf.SetPage(p.r.pages[i])
	p.c.pdf.SetXY(p.c.opts.Margin, p.c.opts.Margin)
}

// Page returns the reserved page currently being written.
func (p *Patcher) Page() int { return p.r.pages[p.index] }

// Fits reports whether a line of height h fits on the current reserved page.
func (p *Patcher) Fits(h float64) bool {
	return p.c.pdf.GetY()+h <= p.c.breakTrigger()
}

// NextPage moves to the top of the next reserved page. It returns false
// when no reserved page is left.
func (p *Patcher) NextPage() bool {
	if p.index+1 >= len(p.r.pages) {
		return false
	}
	p.moveTo(p.index + 1)
	return true
}

// SetFont selects the font, as Canvas.SetFont.
func (p *Patcher) SetFont(fam Family, style string, size float64) {
	p.c.SetFont(fam, style, size)
}

// Cell draws a cell, as Canvas.Cell.
func (p *Patcher) Cell(text string, w, h float64, style CellStyle) {
	p.c.Cell(text, w, h, style)
}

// MultiCell draws wrapped text, as Canvas.MultiCell. Lines past the bottom
// margin are clipped rather than moved to a new page.
func (p *Patcher) MultiCell(text string, w, h float64, style CellStyle) {
	p.c.MultiCell(text, w, h, style)
}

// AdvanceLine moves down by h without breaking the page.
func (p *Patcher) AdvanceLine(h float64) {
	p.c.pdf.Ln(h)
}

// String describes the patcher position for diagnostics.
func (p *Patcher) String() string {
	return fmt.Sprintf("reserved page %d of %d (page %d)", p.index+1, len(p.r.pages), p.Page())
}
