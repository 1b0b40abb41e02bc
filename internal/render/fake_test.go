package render

import (
	"unicode/utf8"

	"github.com/alnah/go-md2book/internal/canvas"
)

// cellOp records one Cell call with the drawing state at that moment.
type cellOp struct {
	text  string
	x, w  float64
	style canvas.CellStyle
	fam   canvas.Family
	size  float64
	color canvas.RGB
	fill  canvas.RGB
}

type boxOp struct {
	x, w, h float64
	border  string
	fill    bool
}

type writeOp struct {
	text  string
	x     float64
	style string
	link  string
}

// fakeSurface tracks the cursor like a canvas without producing a PDF.
// Text is 2mm per rune wide.
type fakeSurface struct {
	x, y      float64
	indent    float64
	fam       canvas.Family
	style     string
	size      float64
	textColor canvas.RGB
	fillColor canvas.RGB
	drawColor canvas.RGB

	cells    []cellOp
	boxes    []boxOp
	writes   []writeOp
	advances []float64
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{x: 10, y: 10}
}

func (f *fakeSurface) SetFont(fam canvas.Family, style string, size float64) {
	f.fam, f.style, f.size = fam, style, size
}
func (f *fakeSurface) SetTextColor(rgb canvas.RGB) { f.textColor = rgb }
func (f *fakeSurface) SetFillColor(rgb canvas.RGB) { f.fillColor = rgb }
func (f *fakeSurface) SetDrawColor(rgb canvas.RGB) { f.drawColor = rgb }
func (f *fakeSurface) LeftMargin() float64 { return 10 }
func (f *fakeSurface) ContentRight() float64 { return 200 }
func (f *fakeSurface) X() float64 { return f.x }
func (f *fakeSurface) SetX(x float64) { f.x = x }
func (f *fakeSurface) SetTextIndent(d float64) { f.indent = d }
func (f *fakeSurface) EnsureSpace(float64) {}

func (f *fakeSurface) AdvanceLine(h float64) {
	f.advances = append(f.advances, h)
	f.y += h
	f.x = 10 + f.indent
}

func (f *fakeSurface) Cell(text string, w, h float64, style canvas.CellStyle) {
	f.cells = append(f.cells, cellOp{
		text: text, x: f.x, w: w, style: style,
		fam: f.fam, size: f.size, color: f.textColor, fill: f.fillColor,
	})
	if style.NewLine {
		f.x = 10 + f.indent
		f.y += h
		return
	}
	if w == 0 {
		w = f.ContentRight() - f.x
	}
	f.x += w
}

func (f *fakeSurface) Box(x, w, h float64, border string, fill bool) {
	f.boxes = append(f.boxes, boxOp{x: x, w: w, h: h, border: border, fill: fill})
}

func (f *fakeSurface) Write(_ float64, text string) {
	f.writes = append(f.writes, writeOp{text: text, x: f.x, style: f.style})
	f.x += f.StringWidth(text)
}

func (f *fakeSurface) WriteLink(_ float64, text, url string) {
	f.writes = append(f.writes, writeOp{text: text, x: f.x, style: f.style, link: url})
	f.x += f.StringWidth(text)
}

func (f *fakeSurface) StringWidth(s string) float64 {
	return 2 * float64(utf8.RuneCountInString(s))
}

var _ Surface = (*fakeSurface)(nil)
