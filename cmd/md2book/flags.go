package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	input   string
	quiet   bool
	verbose bool
}

// bookFlags override book metadata from the config file.
type bookFlags struct {
	title  string
	author string
	date   string
}

// pdfFlags hold PDF layout flags.
type pdfFlags struct {
	pageSize      string
	pageNumbers   bool
	fontsDir      string
	embeddedFonts bool
}

// styleFlags select stylesheets and asset overrides.
type styleFlags struct {
	html      string
	epub      string
	assetPath string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common    commonFlags
	format    string
	output    string // base name, extension optional
	outputDir string
	noOpen    bool
	book      bookFlags
	pdf       pdfFlags
	style     styleFlags

	// changed reports whether a flag was set on the command line.
	changed func(name string) bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.input, "input", "i", "", "chapter directory")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logging")
}

func addBookFlags(fs *flag.FlagSet, f *bookFlags) {
	fs.StringVar(&f.title, "title", "", "book title")
	fs.StringVar(&f.author, "author", "", "book author")
	fs.StringVar(&f.date, "date", "", "publication date: \"auto\", \"auto:FORMAT\", or literal")
}

func addPDFFlags(fs *flag.FlagSet, f *pdfFlags) {
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "PDF page size: a4, letter, legal")
	fs.BoolVar(&f.pageNumbers, "page-numbers", false, "number PDF pages")
	fs.StringVar(&f.fontsDir, "fonts", "", "directory holding the DejaVu fonts")
	fs.BoolVar(&f.embeddedFonts, "embedded-fonts", false, "use the built-in Go fonts for the PDF")
}

func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.html, "style", "", "HTML style name, CSS file, or inline CSS")
	fs.StringVar(&f.epub, "epub-style", "", "EPUB style name, CSS file, or inline CSS")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding built-in styles and templates")
}

// newConvertFlagSet registers every convert flag into f.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	fs.StringVarP(&f.format, "format", "f", "", "output format: epub, html, pdf, md, all (menu if omitted)")
	fs.StringVarP(&f.output, "output", "o", "", "output base name (default from the book title)")
	fs.StringVar(&f.outputDir, "output-dir", "", "output directory")
	fs.BoolVar(&f.noOpen, "no-open", false, "do not open the HTML output in a browser")

	addCommonFlags(fs, &f.common)
	addBookFlags(fs, &f.book)
	addPDFFlags(fs, &f.pdf)
	addStyleFlags(fs, &f.style)

	f.changed = fs.Changed
	return fs
}

// parseConvertFlags parses convert flags and returns remaining positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
