package render

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-md2book/internal/canvas"
	"github.com/alnah/go-md2book/internal/tagstream"
)

// Layout constants, in millimetres unless noted.
const (
	PreGap        = 3.0
	ParaOpenGap   = 2.0
	ParaCloseGap  = 4.0
	ListGap       = 2.0
	ItemOpenGap   = 1.0
	ItemCloseGap  = 2.0
	IndentStep    = 6.0
	MarkerWidth   = 6.0
	LineHeight    = 6.0
	CodeSize      = 11.0 // points
	BodySize      = 12.0 // points
	Bullet        = "•"
	StrayArtifact = "\u00C2" // left behind by double-encoded Latin-1
	tabWidth      = 8
	preBoxInset   = 2.0
	preTextInset  = 4.0
	preBoxPadding = 2.0
)

// Colours for code.
var (
	PreFill  = canvas.RGB{R: 245, G: 245, B: 245}
	PreDraw  = canvas.RGB{R: 200, G: 200, B: 200}
	PreText  = canvas.RGB{R: 40, G: 40, B: 40}
	CodeFill = canvas.RGB{R: 235, G: 235, B: 235}
	CodeDraw = canvas.RGB{R: 200, G: 200, B: 200}
	CodeText = canvas.RGB{R: 60, G: 60, B: 60}
	LinkText = canvas.RGB{R: 0, G: 0, B: 238}
)

var headingSizes = [7]float64{0, 22, 18, 16, 14, 12, 12}

// listKind distinguishes bullet and numbered lists.
type listKind int

const (
	bulleted listKind = iota
	numbered
)

type listFrame struct {
	kind    listKind
	counter int
}

// state is the renderer's mutable layout state. It is reset per chapter.
type state struct {
	inPre        bool
	inInlineCode bool
	preBuf       strings.Builder
	indent       float64
	lists        []listFrame
	inItem       int
	afterMarker  bool
	quoteDepth   int
	bold         int
	italic       int
	heading      int
	link         string
}

// Renderer consumes tag events and draws them onto a Surface.
type Renderer struct {
	s         Surface
	log       *zap.Logger
	bodySize  float64
	codeSize  float64
	rules     map[string]rule
	st        state
	unhandled map[string]int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// WithBodySize sets the body text size in points.
func WithBodySize(pt float64) Option {
	return func(r *Renderer) {
		if pt > 0 {
			r.bodySize = pt
		}
	}
}

// WithCodeSize sets the monospace text size in points.
func WithCodeSize(pt float64) Option {
	return func(r *Renderer) {
		if pt > 0 {
			r.codeSize = pt
		}
	}
}

// New returns a Renderer drawing onto s.
func New(s Surface, opts ...Option) *Renderer {
	r := &Renderer{
		s:         s,
		log:       zap.NewNop(),
		bodySize:  BodySize,
		codeSize:  CodeSize,
		rules:     defaultRules(),
		unhandled: make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BeginChapter discards all layout state left by a previous chapter and
// selects the body font.
func (r *Renderer) BeginChapter() {
	r.st = state{}
	r.s.SetTextIndent(0)
	r.resetColors()
	r.applyFont()
}

// Render walks html and draws every event.
func (r *Renderer) Render(ctx context.Context, html string) error {
	return tagstream.Walk(ctx, html, r)
}

// HandleEvent implements tagstream.Handler.
func (r *Renderer) HandleEvent(ev tagstream.Event) error {
	switch ev.Kind {
	case tagstream.StartTag:
		r.startTag(ev)
	case tagstream.EndTag:
		r.endTag(ev)
	case tagstream.TextData:
		r.text(ev.Text)
	default:
		return fmt.Errorf("unknown event kind %v", ev.Kind)
	}
	return nil
}

// Unhandled returns the tag names seen without a rule, sorted.
func (r *Renderer) Unhandled() []string {
	names := make([]string, 0, len(r.unhandled))
	for n := range r.unhandled {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Indent returns the current list indent.
func (r *Renderer) Indent() float64 { return r.st.indent }

func (r *Renderer) startTag(ev tagstream.Event) {
	if r.st.inPre && ev.Name != "pre" {
		return
	}
	rl, ok := r.rules[ev.Name]
	if !ok || rl.open == nil {
		if !ok {
			r.unhandled[ev.Name]++
		}
		return
	}
	rl.open(r, ev)
}

func (r *Renderer) endTag(ev tagstream.Event) {
	if r.st.inPre && ev.Name != "pre" {
		return
	}
	if rl, ok := r.rules[ev.Name]; ok && rl.close != nil {
		rl.close(r, ev)
	}
}

func (r *Renderer) text(data string) {
	switch {
	case r.st.inPre:
		r.st.preBuf.WriteString(data)
	case r.st.inInlineCode:
		r.inlineCode(data)
	default:
		r.flow(data)
	}
}

// textIndent is the offset of wrapped lines from the left margin.
func (r *Renderer) textIndent() float64 {
	d := r.st.indent + float64(r.st.quoteDepth)*IndentStep
	if r.st.inItem > 0 {
		d += MarkerWidth
	}
	return d
}

func (r *Renderer) lineLeft() float64 {
	return r.s.LeftMargin() + r.textIndent()
}

func (r *Renderer) atLineStart() bool {
	return r.s.X() <= r.lineLeft()+0.01
}

func (r *Renderer) lineHeight() float64 {
	if r.st.heading > 0 {
		return headingSizes[r.st.heading] * 0.5
	}
	return LineHeight
}

// endLine finishes a partly written line.
func (r *Renderer) endLine() {
	if !r.atLineStart() {
		r.s.AdvanceLine(r.lineHeight())
	}
}

// blockBreak finishes the current line and adds a vertical gap. Directly
// after a list marker the gap is skipped so the block starts beside it.
func (r *Renderer) blockBreak(gap float64) {
	if r.st.afterMarker {
		return
	}
	r.endLine()
	r.s.AdvanceLine(gap)
}

func (r *Renderer) applyFont() {
	style := ""
	if r.st.bold > 0 || r.st.heading > 0 {
		style += "B"
	}
	if r.st.italic > 0 {
		style += "I"
	}
	if r.st.link != "" {
		style += "U"
	}
	size := r.bodySize
	if r.st.heading > 0 {
		size = headingSizes[r.st.heading]
	}
	r.s.SetFont(canvas.Body, style, size)
}

func (r *Renderer) resetColors() {
	r.s.SetTextColor(canvas.Black)
	r.s.SetFillColor(canvas.White)
	r.s.SetDrawColor(canvas.Black)
	if r.st.link != "" {
		r.s.SetTextColor(LinkText)
	}
}

// flow writes word-wrapped text with collapsed whitespace and without
// StrayArtifact.
func (r *Renderer) flow(data string) {
	text := collapseSpace(strings.ReplaceAll(data, StrayArtifact, ""))
	if text == "" {
		return
	}
	if r.atLineStart() {
		text = strings.TrimLeft(text, " ")
		if text == "" {
			return
		}
	}
	r.st.afterMarker = false
	if r.st.link != "" && !strings.HasPrefix(r.st.link, "#") {
		r.s.WriteLink(r.lineHeight(), text, r.st.link)
		return
	}
	r.s.Write(r.lineHeight(), text)
}

// inlineCode draws data as one bordered, filled cell that never wraps.
// A span that does not fit on the rest of the line moves to the next one.
func (r *Renderer) inlineCode(data string) {
	text := strings.ReplaceAll(data, "\n", " ")
	if text == "" {
		return
	}
	r.st.afterMarker = false
	w := r.s.StringWidth(text) + 2
	if r.s.X()+w > r.s.ContentRight() && !r.atLineStart() {
		r.s.AdvanceLine(LineHeight)
	}
	r.s.Cell(text, w, LineHeight, canvas.CellStyle{Border: "1", Fill: true})
}

// flushPre draws the buffered code block lines.
func (r *Renderer) flushPre() {
	body := strings.TrimSuffix(r.st.preBuf.String(), "\n")
	r.st.preBuf.Reset()

	boxX := r.s.LeftMargin() + r.st.indent + preBoxInset
	textX := r.s.LeftMargin() + r.st.indent + preTextInset
	boxW := r.s.ContentRight() - boxX
	for _, line := range strings.Split(body, "\n") {
		r.s.EnsureSpace(LineHeight)
		r.s.Box(boxX, boxW, LineHeight, "LR", true)
		r.s.SetX(textX)
		r.s.Cell(ExpandTabs(line, tabWidth), 0, LineHeight, canvas.CellStyle{NewLine: true})
	}
}

func (r *Renderer) marker() string {
	top := &r.st.lists[len(r.st.lists)-1]
	top.counter++
	if top.kind == numbered {
		return strconv.Itoa(top.counter) + "."
	}
	return Bullet
}

// collapseSpace replaces every run of whitespace with a single space.
func collapseSpace(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// ExpandTabs replaces tabs with spaces up to the next multiple of width.
func ExpandTabs(line string, width int) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var b strings.Builder
	col := 0
	for _, c := range line {
		if c == '\t' {
			n := width - col%width
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(c)
		col++
	}
	return b.String()
}
