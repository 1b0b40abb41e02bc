package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2book [command] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Build the book (default when no command is given)")
	fmt.Fprintln(w, "  doctor      Check fonts, chapters, cover and browser")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2book help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2book [convert] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert the Markdown chapters of a directory into a book.")
	fmt.Fprintln(w, "Chapters are the .md files of the directory, ordered by file name.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -f, --format <s>          epub, html, pdf, md, or all (menu if omitted)")
	fmt.Fprintln(w, "  -o, --output <name>       Output base name (default from the title)")
	fmt.Fprintln(w, "      --output-dir <dir>    Output directory (default: output)")
	fmt.Fprintln(w, "      --no-open             Do not open the HTML output")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input:")
	fmt.Fprintln(w, "  -i, --input <dir>         Chapter directory (default: book)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default: book.yaml)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Book:")
	fmt.Fprintln(w, "      --title <s>           Book title")
	fmt.Fprintln(w, "      --author <s>          Book author")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w, "                            Use [text] to escape literals: [Date]: YYYY")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: a4, letter, legal")
	fmt.Fprintln(w, "      --page-numbers        Number pages")
	fmt.Fprintln(w, "      --fonts <dir>         Directory holding the DejaVu fonts")
	fmt.Fprintln(w, "      --embedded-fonts      Use the built-in Go fonts")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>           HTML style name, CSS file, or inline CSS")
	fmt.Fprintln(w, "      --epub-style <s>      EPUB style name, CSS file, or inline CSS")
	fmt.Fprintln(w, "      --asset-path <dir>    Override built-in styles and templates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logging")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2BOOK_CONFIG, MD2BOOK_INPUT_DIR, MD2BOOK_OUTPUT_DIR, MD2BOOK_TITLE,")
	fmt.Fprintln(w, "  MD2BOOK_AUTHOR, MD2BOOK_LANGUAGE, MD2BOOK_PUBLISHER, MD2BOOK_DATE,")
	fmt.Fprintln(w, "  MD2BOOK_PAGE_SIZE, MD2BOOK_FONTS_SOURCE, MD2BOOK_FONTS_DIR,")
	fmt.Fprintln(w, "  MD2BOOK_HTML_STYLE, MD2BOOK_EPUB_STYLE, MD2BOOK_PAGE_NUMBERS, MD2BOOK_NO_OPEN")
	fmt.Fprintln(w, "  override the config file; flags override both.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2book doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that a book can be built here.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -i, --input <dir>         Chapter directory")
	fmt.Fprintln(w, "      --json                Machine-readable output")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2book version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
	}
}
