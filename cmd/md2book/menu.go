package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	md2book "github.com/alnah/go-md2book"
)

// menuExit is the menu choice that leaves without converting.
const menuExit = "0"

// showFormatMenu lists the formats and reads a choice from in until it is
// valid. ok is false when the user picks Exit or input ends.
func showFormatMenu(in io.Reader, out io.Writer) (f md2book.Format, ok bool) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Available Output Formats:")
	fmt.Fprintln(out, "1. EPUB (eBook format for Kindle, etc.)")
	fmt.Fprintln(out, "2. HTML (Web format, opens in browser)")
	fmt.Fprintln(out, "3. PDF (Portable Document Format)")
	fmt.Fprintln(out, "4. Combined Markdown (Single markdown file)")
	fmt.Fprintln(out, "5. All formats")
	fmt.Fprintln(out, "0. Exit")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nSelect format (0-5): ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\nGoodbye!")
			return "", false
		}
		choice := strings.TrimSpace(scanner.Text())
		if choice == menuExit {
			return "", false
		}
		// Only digits are accepted here; names go through --format.
		if len(choice) == 1 {
			if f, err := md2book.ParseFormat(choice); err == nil {
				return f, true
			}
		}
		fmt.Fprintln(out, "Please enter a number between 0-5")
	}
}
