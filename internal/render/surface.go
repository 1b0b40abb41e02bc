package render

import "github.com/alnah/go-md2book/internal/canvas"

// Surface is the drawing contract the renderer needs from a page canvas.
type Surface interface {
	SetFont(fam canvas.Family, style string, size float64)
	SetTextColor(rgb canvas.RGB)
	SetFillColor(rgb canvas.RGB)
	SetDrawColor(rgb canvas.RGB)

	LeftMargin() float64
	ContentRight() float64
	X() float64
	SetX(x float64)
	SetTextIndent(d float64)

	AdvanceLine(h float64)
	EnsureSpace(h float64)

	Cell(text string, w, h float64, style canvas.CellStyle)
	Box(x, w, h float64, border string, fill bool)
	Write(h float64, text string)
	WriteLink(h float64, text, url string)
	StringWidth(s string) float64
}

// Compile-time interface check.
var _ Surface = (*canvas.Canvas)(nil)
