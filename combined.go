package md2book

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Combined Markdown layout markers.
const (
	combinedRule          = "\n\n---\n\n"
	combinedChapterPrefix = "## Chapter "
	combinedBylineOpen    = "\n\n*By "
	combinedBylineClose   = "*" + combinedRule
)

// Combined is a combined Markdown file split back into its parts.
type Combined struct {
	Title    string
	Author   string
	Chapters []Chapter
}

// WriteCombined writes every chapter into one Markdown document: a title
// and byline, then each chapter under a "## Chapter N: Title" heading,
// each followed by a horizontal rule. Chapter text is copied unchanged.
func WriteCombined(book *Book, w io.Writer) error {
	if len(book.Chapters) == 0 {
		return ErrNoChapters
	}
	meta := book.Metadata.WithDefaults()

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s%s%s%s", meta.Title, combinedBylineOpen, meta.Author, combinedBylineClose)
	for _, ch := range book.Chapters {
		fmt.Fprintf(bw, "## %s\n\n%s%s", ch.Heading(), ch.Source, combinedRule)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing combined markdown: %w", err)
	}
	return nil
}

// SplitCombined parses output of WriteCombined. Each chapter's Source is
// the original chapter text byte for byte.
func SplitCombined(s string) (*Combined, error) {
	rest, ok := strings.CutPrefix(s, "# ")
	if !ok {
		return nil, fmt.Errorf("%w: missing title line", ErrMalformedCombined)
	}
	title, rest, ok := strings.Cut(rest, combinedBylineOpen)
	if !ok {
		return nil, fmt.Errorf("%w: missing byline", ErrMalformedCombined)
	}
	author, rest, ok := strings.Cut(rest, combinedBylineClose)
	if !ok {
		return nil, fmt.Errorf("%w: unterminated byline", ErrMalformedCombined)
	}

	out := &Combined{Title: title, Author: author}
	for n := 1; rest != ""; n++ {
		heading := combinedChapterPrefix + strconv.Itoa(n) + ": "
		body, ok := strings.CutPrefix(rest, heading)
		if !ok {
			return nil, fmt.Errorf("%w: expected %q", ErrMalformedCombined, strings.TrimSpace(heading))
		}
		chTitle, body, ok := strings.Cut(body, "\n\n")
		if !ok {
			return nil, fmt.Errorf("%w: chapter %d has no body", ErrMalformedCombined, n)
		}

		next := combinedRule + combinedChapterPrefix + strconv.Itoa(n+1) + ": "
		var source string
		if i := strings.Index(body, next); i >= 0 {
			source, rest = body[:i], body[i+len(combinedRule):]
		} else {
			src, ok := strings.CutSuffix(body, combinedRule)
			if !ok {
				return nil, fmt.Errorf("%w: chapter %d is not followed by a rule", ErrMalformedCombined, n)
			}
			source, rest = src, ""
		}
		out.Chapters = append(out.Chapters, Chapter{Index: n, Title: chTitle, Source: source})
	}

	if len(out.Chapters) == 0 {
		return nil, fmt.Errorf("%w: no chapters", ErrMalformedCombined)
	}
	return out, nil
}
