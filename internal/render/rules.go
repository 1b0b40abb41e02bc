package render

import (
	"strconv"

	"github.com/alnah/go-md2book/internal/canvas"
	"github.com/alnah/go-md2book/internal/tagstream"
)

// rule holds the start and end handlers for one tag name.
type rule struct {
	open  func(r *Renderer, ev tagstream.Event)
	close func(r *Renderer, ev tagstream.Event)
}

func defaultRules() map[string]rule {
	rules := map[string]rule{
		"pre":        {open: openPre, close: closePre},
		"code":       {open: openCode, close: closeCode},
		"p":          {open: openParagraph, close: closeParagraph},
		"ul":         {open: openList(bulleted), close: closeList},
		"ol":         {open: openList(numbered), close: closeList},
		"li":         {open: openItem, close: closeItem},
		"b":          {open: openBold, close: closeBold},
		"strong":     {open: openBold, close: closeBold},
		"i":          {open: openItalic, close: closeItalic},
		"em":         {open: openItalic, close: closeItalic},
		"a":          {open: openLink, close: closeLink},
		"br":         {open: lineBreak},
		"hr":         {open: separate},
		"blockquote": {open: openQuote, close: closeQuote},
		"table":      {open: separate, close: separate},
		"tr":         {close: endRow},
		"td":         {open: openCell},
		"th":         {open: openHeaderCell, close: closeBold},
		"img":        {},
		"mark":       {},
		"sup":        {},
		"section":    {},
		"div":        {},
		"span":       {},
	}
	for level := 1; level <= 6; level++ {
		rules["h"+strconv.Itoa(level)] = rule{open: openHeading(level), close: closeHeading}
	}
	return rules
}

func openPre(r *Renderer, _ tagstream.Event) {
	if r.st.afterMarker {
		r.st.afterMarker = false
		r.s.AdvanceLine(LineHeight)
	}
	r.blockBreak(PreGap)
	r.s.SetFont(canvas.Mono, "", r.codeSize)
	r.s.SetFillColor(PreFill)
	r.s.SetDrawColor(PreDraw)
	r.s.SetTextColor(PreText)

	boxX := r.s.LeftMargin() + r.st.indent + preBoxInset
	r.s.EnsureSpace(preBoxPadding + LineHeight)
	r.s.Box(boxX, r.s.ContentRight()-boxX, preBoxPadding, "TLR", true)
	r.s.AdvanceLine(preBoxPadding)
	r.st.inPre = true
	r.st.preBuf.Reset()
}

func closePre(r *Renderer, _ tagstream.Event) {
	if !r.st.inPre {
		return
	}
	r.flushPre()
	r.st.inPre = false

	boxX := r.s.LeftMargin() + r.st.indent + preBoxInset
	r.s.EnsureSpace(preBoxPadding)
	r.s.Box(boxX, r.s.ContentRight()-boxX, preBoxPadding, "BLR", true)
	r.s.AdvanceLine(preBoxPadding)
	r.s.SetX(r.s.LeftMargin() + r.st.indent)
	r.resetColors()
	r.applyFont()
	r.s.AdvanceLine(PreGap)
}

func openCode(r *Renderer, _ tagstream.Event) {
	r.st.inInlineCode = true
	r.s.SetFont(canvas.Mono, "", r.codeSize)
	r.s.SetFillColor(CodeFill)
	r.s.SetDrawColor(CodeDraw)
	r.s.SetTextColor(CodeText)
	r.s.SetX(r.s.X() + 1)
}

func closeCode(r *Renderer, _ tagstream.Event) {
	if !r.st.inInlineCode {
		return
	}
	r.st.inInlineCode = false
	r.resetColors()
	r.applyFont()
}

func openParagraph(r *Renderer, _ tagstream.Event) {
	r.blockBreak(ParaOpenGap)
}

func closeParagraph(r *Renderer, _ tagstream.Event) {
	r.st.afterMarker = false
	r.blockBreak(ParaCloseGap)
}

func openList(kind listKind) func(*Renderer, tagstream.Event) {
	return func(r *Renderer, _ tagstream.Event) {
		r.st.afterMarker = false
		r.blockBreak(ListGap)
		r.st.lists = append(r.st.lists, listFrame{kind: kind})
		r.st.indent += IndentStep
		r.s.SetTextIndent(r.textIndent())
	}
}

func closeList(r *Renderer, _ tagstream.Event) {
	r.st.afterMarker = false
	r.endLine()
	if n := len(r.st.lists); n > 0 {
		r.st.lists = r.st.lists[:n-1]
	}
	r.st.indent -= IndentStep
	if r.st.indent < 0 {
		r.st.indent = 0
	}
	r.s.SetTextIndent(r.textIndent())
	r.s.AdvanceLine(ListGap)
}

func openItem(r *Renderer, _ tagstream.Event) {
	if len(r.st.lists) == 0 {
		// Stray <li>: treat as a bulleted item at the current indent.
		r.st.lists = append(r.st.lists, listFrame{kind: bulleted})
	}
	r.st.afterMarker = false
	r.endLine()
	r.s.AdvanceLine(ItemOpenGap)
	r.s.SetX(r.s.LeftMargin() + r.st.indent)
	r.s.Cell(r.marker(), MarkerWidth, LineHeight, canvas.CellStyle{})
	r.st.inItem++
	r.s.SetTextIndent(r.textIndent())
	r.st.afterMarker = true
}

func closeItem(r *Renderer, _ tagstream.Event) {
	r.st.afterMarker = false
	r.endLine()
	if r.st.inItem > 0 {
		r.st.inItem--
	}
	r.s.SetTextIndent(r.textIndent())
	r.s.AdvanceLine(ItemCloseGap)
}

func openBold(r *Renderer, _ tagstream.Event) {
	r.st.bold++
	r.applyFont()
}

func closeBold(r *Renderer, _ tagstream.Event) {
	if r.st.bold > 0 {
		r.st.bold--
	}
	r.applyFont()
}

func openItalic(r *Renderer, _ tagstream.Event) {
	r.st.italic++
	r.applyFont()
}

func closeItalic(r *Renderer, _ tagstream.Event) {
	if r.st.italic > 0 {
		r.st.italic--
	}
	r.applyFont()
}

func openLink(r *Renderer, ev tagstream.Event) {
	href, ok := ev.Attr("href")
	if !ok || href == "" {
		return
	}
	r.st.link = href
	r.s.SetTextColor(LinkText)
	r.applyFont()
}

func closeLink(r *Renderer, _ tagstream.Event) {
	if r.st.link == "" {
		return
	}
	r.st.link = ""
	r.resetColors()
	r.applyFont()
}

func lineBreak(r *Renderer, _ tagstream.Event) {
	r.s.AdvanceLine(r.lineHeight())
}

// separate sets a block apart from its surroundings.
func separate(r *Renderer, _ tagstream.Event) {
	r.st.afterMarker = false
	r.blockBreak(ListGap)
}

func openHeading(level int) func(*Renderer, tagstream.Event) {
	return func(r *Renderer, _ tagstream.Event) {
		r.st.afterMarker = false
		r.blockBreak(ParaCloseGap)
		r.st.heading = level
		r.applyFont()
	}
}

func closeHeading(r *Renderer, _ tagstream.Event) {
	if r.st.heading == 0 {
		return
	}
	h := r.lineHeight()
	r.st.heading = 0
	r.s.AdvanceLine(h)
	r.applyFont()
}

func openQuote(r *Renderer, _ tagstream.Event) {
	r.st.afterMarker = false
	r.blockBreak(ParaOpenGap)
	r.st.quoteDepth++
	r.st.italic++
	r.s.SetTextIndent(r.textIndent())
	r.s.SetX(r.lineLeft())
	r.applyFont()
}

func closeQuote(r *Renderer, _ tagstream.Event) {
	if r.st.quoteDepth == 0 {
		return
	}
	r.endLine()
	r.st.quoteDepth--
	if r.st.italic > 0 {
		r.st.italic--
	}
	r.s.SetTextIndent(r.textIndent())
	r.applyFont()
}

func endRow(r *Renderer, _ tagstream.Event) {
	r.endLine()
}

func openCell(r *Renderer, _ tagstream.Event) {
	if !r.atLineStart() {
		r.s.Write(r.lineHeight(), " | ")
	}
}

func openHeaderCell(r *Renderer, ev tagstream.Event) {
	openCell(r, ev)
	openBold(r, ev)
}
