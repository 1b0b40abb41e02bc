package pipeline

import (
	"regexp"
	"strings"
)

// Fixed substitution table. Pairs are applied in a single pass, so no
// replacement can feed another and Sanitize stays idempotent.
var sanitizeReplacer = strings.NewReplacer(
	"\u2018", "'",    // left single quote
	"\u2019", "'",    // right single quote
	"\u201C", `"`,    // left double quote
	"\u201D", `"`,    // right double quote
	"\u2013", "-",    // en dash
	"\u2014", "--",   // em dash
	"\u2705", "",     // white heavy check mark
	"\u274C", "",     // cross mark
	"\u26A0", "",     // warning sign
	"\U0001F4D6", "", // open book
	"\U0001F310", "", // globe with meridians
	"\U0001F4C4", "", // page facing up
	"\U0001F44B", "", // waving hand
	"\uFE0F", "",     // emoji presentation selector
	"\u00C2", "",     // debris from double-encoded Latin-1
)

var (
	styleBlockPattern = regexp.MustCompile(`(?is)<style.*?>.*?</style>`)
	hrPattern         = regexp.MustCompile(`(?i)<hr\s*/?>`)
)

// Sanitize maps typographic punctuation to ASCII and removes decorative
// emoji and encoding debris. Invalid UTF-8 sequences are dropped.
// Sanitize(Sanitize(s)) == Sanitize(s) for every s.
func Sanitize(s string) string {
	s = strings.ToValidUTF8(s, "")
	return sanitizeReplacer.Replace(s)
}

// StripPresentationMarkup removes <style> blocks and horizontal rules from
// HTML destined for the PDF renderer. Matching is case-insensitive and
// style blocks may span lines.
func StripPresentationMarkup(html string) string {
	html = styleBlockPattern.ReplaceAllString(html, "")
	return hrPattern.ReplaceAllString(html, "")
}
