package md2book

import (
	"fmt"
	"strings"
)

// Format is an output format.
type Format string

// Output formats. FormatAll expands to the four concrete formats.
const (
	FormatEPUB     Format = "epub"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "md"
	FormatAll      Format = "all"
)

// concreteFormats is the order in which FormatAll writes files.
var concreteFormats = []Format{FormatEPUB, FormatHTML, FormatPDF, FormatMarkdown}

// menuChoices maps interactive menu numbers to formats.
var menuChoices = map[string]Format{
	"1": FormatEPUB,
	"2": FormatHTML,
	"3": FormatPDF,
	"4": FormatMarkdown,
	"5": FormatAll,
}

// ParseFormat accepts a format name (case-insensitive) or its menu number.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if f, ok := menuChoices[s]; ok {
		return f, nil
	}
	switch f := Format(s); f {
	case FormatEPUB, FormatHTML, FormatPDF, FormatMarkdown, FormatAll:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (use epub, html, pdf, md, or all)", ErrInvalidFormat, s)
}

// Formats returns the concrete formats f stands for.
func (f Format) Formats() []Format {
	if f == FormatAll {
		return append([]Format(nil), concreteFormats...)
	}
	return []Format{f}
}

// FileName returns the output file name for base in this format.
// FormatAll has no single file and returns base unchanged.
func (f Format) FileName(base string) string {
	switch f {
	case FormatEPUB:
		return base + ".epub"
	case FormatHTML:
		return base + ".html"
	case FormatPDF:
		return base + ".pdf"
	case FormatMarkdown:
		return base + "_combined.md"
	default:
		return base
	}
}

// Label is the human name shown in menus and progress messages.
func (f Format) Label() string {
	switch f {
	case FormatEPUB:
		return "EPUB"
	case FormatHTML:
		return "HTML"
	case FormatPDF:
		return "PDF"
	case FormatMarkdown:
		return "Combined Markdown"
	case FormatAll:
		return "All formats"
	default:
		return string(f)
	}
}

// Metadata describes the book as a whole.
type Metadata struct {
	Title      string
	Author     string
	Language   string
	Identifier string
	Publisher  string
	Date       string // display form, may be empty
	ISODate    string // machine form for dc:date, may be empty
}

// Metadata defaults.
const (
	DefaultTitle     = "Untitled Book"
	DefaultAuthor    = "Anonymous"
	DefaultLanguage  = "en"
	DefaultPublisher = "Independent Publishing"
)

// Chapter is one Markdown source file.
type Chapter struct {
	Index  int    // 1-based position in the book
	Title  string // derived from the file name
	Path   string // source file, empty for chapters built in memory
	Source string // raw Markdown
}

// Heading is the chapter title as shown in EPUB, HTML and combined outputs.
func (c Chapter) Heading() string {
	return fmt.Sprintf("Chapter %d: %s", c.Index, c.Title)
}

// Book is a loaded book ready for conversion.
type Book struct {
	Metadata  Metadata
	Chapters  []Chapter
	CoverPath string // empty when the book has no cover
}
