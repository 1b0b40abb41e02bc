// Package canvas is the page model for PDF output.
//
// A Canvas owns an ordered sequence of pages, a drawing cursor, a current
// font and colour state, and automatic page breaking at the bottom margin.
// Content is only ever appended to the current (last) page, with one
// exception: pages obtained through Reserve may be written exactly once,
// later, through Patch. This is what lets a table of contents occupy an
// early page while its entries are only known after the chapters are laid
// out.
//
// Canvas wraps codeberg.org/go-pdf/fpdf. All measurements are millimetres.
package canvas
