package md2book

import (
	"context"
	"fmt"
	"html/template"
	"io"

	"go.uber.org/zap"

	"github.com/alnah/go-md2book/internal/assets"
)

// htmlPage is the data passed to the book template.
type htmlPage struct {
	Language string
	Title    string
	Author   string
	Date     string
	CSS      template.CSS
	Chapters []htmlChapter
}

type htmlChapter struct {
	Index int
	Title string
	Body  template.HTML
}

// WriteHTML writes book as a single standalone HTML page with embedded CSS.
// Chapter bodies are emitted as converted; raw HTML in the Markdown is kept.
func (c *Converter) WriteHTML(ctx context.Context, book *Book, w io.Writer) (err error) {
	defer recoverPanic(&err)

	if len(book.Chapters) == 0 {
		return ErrNoChapters
	}

	src, err := c.assetLoader.LoadTemplate(assets.BookTemplateName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
	}
	tmpl, err := template.New(assets.BookTemplateName).Parse(src)
	if err != nil {
		return fmt.Errorf("%w: parsing book template: %v", ErrTemplateNotFound, err)
	}

	meta := book.Metadata.WithDefaults()
	page := htmlPage{
		Language: meta.Language,
		Title:    meta.Title,
		Author:   meta.Author,
		Date:     meta.Date,
		CSS:      template.CSS(c.htmlCSS), // #nosec G203 -- stylesheet is chosen by the user
		Chapters: make([]htmlChapter, 0, len(book.Chapters)),
	}
	for _, ch := range book.Chapters {
		if err := ctx.Err(); err != nil {
			return err
		}
		body, err := c.chapterHTML(ctx, ch)
		if err != nil {
			return err
		}
		page.Chapters = append(page.Chapters, htmlChapter{
			Index: ch.Index,
			Title: ch.Title,
			Body:  template.HTML(body), // #nosec G203 -- converted from the author's own Markdown
		})
		c.log.Debug("chapter converted", zap.Int("index", ch.Index), zap.String("title", ch.Title))
	}

	if err := tmpl.Execute(w, page); err != nil {
		return fmt.Errorf("executing book template: %w", err)
	}
	return nil
}
