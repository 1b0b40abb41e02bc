// Package md2book turns a directory of Markdown chapters into a book:
// EPUB, a single HTML page, a PDF, or one combined Markdown file.
//
// # Quick Start
//
// Load the chapters, create a converter, and build:
//
//	book, err := md2book.LoadBook("book", "cover.png", md2book.Metadata{
//	    Title:  "My Book",
//	    Author: "Jane Doe",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	conv, err := md2book.NewConverter(md2book.WithEmbeddedFonts())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	artifacts, err := conv.Build(ctx, book, md2book.FormatAll, "output", "")
//
// Chapters are the .md files of the directory in byte order of their
// names; "01_getting_started.md" becomes "Chapter 1: 01 Getting Started".
//
// # PDF Layout
//
// The PDF is laid out directly with fpdf, without a browser:
//
//  1. Optional cover page (the cover image fitted to the page)
//  2. Table of contents, reserved up front and filled in last
//  3. Each chapter on a fresh page, rendered tag by tag from HTML
//
// Contents entries link to the first page of their chapter. Fonts come
// from a directory of DejaVu files (WithFontDir) or from the Go fonts
// compiled into the binary (WithEmbeddedFonts).
//
// # Other Formats
//
// WriteEPUB, WriteHTML and WriteCombined each write one format to an
// io.Writer. Build writes files atomically, named after the book title
// unless a base name is given. SplitCombined reads a combined Markdown
// file back into chapters.
//
// # Custom Assets
//
// Styles for HTML and EPUB are a built-in name ("book", "serif", "epub"),
// a CSS file path, or inline CSS. WithAssetPath points at a directory
// that overrides built-in files:
//
//	assets/
//	├── styles/
//	│   └── book.css
//	└── templates/
//	    └── book.html
package md2book
