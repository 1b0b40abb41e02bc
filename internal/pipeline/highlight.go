package pipeline

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// HighlightCSS returns the stylesheet for the classes emitted by
// NewGoldmarkConverter. Unknown style names fall back to chroma's default.
func HighlightCSS(styleName string) (string, error) {
	if styleName == "" {
		styleName = DefaultHighlightStyle
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return writeCSS(style)
}

func writeCSS(style *chroma.Style) (string, error) {
	var b strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, style); err != nil {
		return "", fmt.Errorf("writing highlight stylesheet: %w", err)
	}
	return b.String(), nil
}
