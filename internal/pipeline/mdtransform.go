package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Private Use Area runes stand in for <mark> while goldmark runs, so the
// ==highlight== syntax survives conversion without emitting raw HTML.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

const byteOrderMark = "\uFEFF"

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(.*?)==`)
)

// MarkdownPreprocessor prepares chapter Markdown for conversion.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// ChapterPreprocessor normalizes chapter sources before goldmark sees them.
type ChapterPreprocessor struct{}

// PreprocessMarkdown strips a leading BOM, normalizes line endings,
// rewrites ==text== highlights and caps blank runs at one empty line.
func (p *ChapterPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = strings.TrimPrefix(content, byteOrderMark)
	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = highlightPattern.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// ConvertMarkPlaceholders turns highlight placeholders into <mark> elements.
func ConvertMarkPlaceholders(content string) string {
	return markReplacer.Replace(content)
}

var markReplacer = strings.NewReplacer(
	MarkStartPlaceholder, "<mark>",
	MarkEndPlaceholder, "</mark>",
)
