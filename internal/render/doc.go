// Package render lays out a stream of HTML tag events onto a page surface.
//
// The Renderer is a small state machine driven by a dispatch table keyed by
// tag name. Block tags (p, pre, ul, ol, li, headings, blockquote) open and
// close vertical gaps and indentation; inline tags (b, strong, i, em, a,
// code) change the current font and colours; text is either flowed with
// word wrapping, drawn line by line inside a shaded code block, or drawn as
// a single bordered inline-code cell.
//
// Gaps are measured from the end of the current line: closing a paragraph
// that ends mid-line first finishes that line, then advances by the gap.
package render
