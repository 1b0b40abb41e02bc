// Package pipeline implements the text stages that run before layout.
//
// The stages are:
//   - Markdown preprocessing (line normalization, ==highlight== syntax)
//   - Markdown to HTML conversion via Goldmark
//   - Text sanitization (typographic punctuation, decorative emoji, mojibake)
//   - Presentation markup stripping for the PDF path
//   - HTML fragment to XHTML normalization for EPUB packaging
//
// Layout is handled elsewhere: the PDF path feeds the stripped HTML to the
// tag-stream walker and renderer, while the EPUB and HTML writers in the root
// md2book package embed the fragments directly.
package pipeline
