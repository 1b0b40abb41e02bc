package md2book

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-md2book/internal/assemble"
	"github.com/alnah/go-md2book/internal/assets"
	"github.com/alnah/go-md2book/internal/canvas"
	"github.com/alnah/go-md2book/internal/fileutil"
	"github.com/alnah/go-md2book/internal/fonts"
	"github.com/alnah/go-md2book/internal/pipeline"
	"github.com/alnah/go-md2book/internal/render"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.ChapterPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ render.Surface                = (*canvas.Canvas)(nil)
)

// Creator is recorded in the PDF document information.
const Creator = "go-md2book"

// Font size bounds in points.
const (
	MinFontSize = 6.0
	MaxFontSize = 24.0
)

// converterConfig holds option values before NewConverter validates them.
type converterConfig struct {
	pageSize       string
	margin         float64
	pageNumbers    bool
	tocTitle       string
	bodySize       float64
	codeSize       float64
	htmlStyle      string
	epubStyle      string
	highlightStyle string
	assetPath      string
}

// Converter turns a Book into EPUB, HTML, PDF or combined Markdown.
// A Converter holds no per-book state and may be reused.
type Converter struct {
	cfg          converterConfig
	log          *zap.Logger
	now          func() time.Time
	fontProvider fonts.Provider
	assetLoader  assets.AssetLoader
	preprocessor pipeline.MarkdownPreprocessor
	screenHTML   pipeline.HTMLConverter // highlighted, for HTML and EPUB
	printHTML    pipeline.HTMLConverter // plain, for PDF
	pageSize     canvas.PageSize
	htmlCSS      string
	epubCSS      string
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock sets the time source used for "auto" dates and timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.now = now
		}
	}
}

// WithFontProvider sets where PDF fonts come from. The default reads the
// DejaVu files from fonts/DejaVu Sans.
func WithFontProvider(p fonts.Provider) Option {
	return func(c *Converter) { c.fontProvider = p }
}

// WithEmbeddedFonts renders PDFs with the Go fonts compiled into the binary.
func WithEmbeddedFonts() Option {
	return WithFontProvider(fonts.EmbeddedProvider{})
}

// WithFontDir reads the DejaVu font files from dir.
func WithFontDir(dir string) Option {
	return WithFontProvider(fonts.NewDirProvider(dir))
}

// WithPageSize sets the PDF page size: a4 (default), letter or legal.
func WithPageSize(name string) Option {
	return func(c *Converter) { c.cfg.pageSize = name }
}

// WithMargin sets the PDF left, top and right margin in millimetres.
func WithMargin(mm float64) Option {
	return func(c *Converter) { c.cfg.margin = mm }
}

// WithPageNumbers adds centered page numbers to every PDF page but the cover.
func WithPageNumbers(on bool) Option {
	return func(c *Converter) { c.cfg.pageNumbers = on }
}

// WithTOCTitle sets the PDF table of contents heading.
func WithTOCTitle(title string) Option {
	return func(c *Converter) { c.cfg.tocTitle = title }
}

// WithFontSizes sets the PDF body and code font sizes in points.
// Zero keeps the default.
func WithFontSizes(body, code float64) Option {
	return func(c *Converter) {
		c.cfg.bodySize = body
		c.cfg.codeSize = code
	}
}

// WithHTMLStyle sets the HTML stylesheet: a style name, a CSS file path, or
// inline CSS.
func WithHTMLStyle(style string) Option {
	return func(c *Converter) { c.cfg.htmlStyle = style }
}

// WithEPUBStyle sets the EPUB stylesheet, resolved like WithHTMLStyle.
func WithEPUBStyle(style string) Option {
	return func(c *Converter) { c.cfg.epubStyle = style }
}

// WithHighlightStyle sets the chroma style for code in HTML and EPUB.
func WithHighlightStyle(name string) Option {
	return func(c *Converter) { c.cfg.highlightStyle = name }
}

// WithAssetPath overrides built-in styles and templates with files from
// dir, falling back to the built-in copy for anything missing.
func WithAssetPath(dir string) Option {
	return func(c *Converter) { c.cfg.assetPath = dir }
}

// withHTMLConverters replaces the Markdown converters (tests).
func withHTMLConverters(screen, printer pipeline.HTMLConverter) Option {
	return func(c *Converter) {
		c.screenHTML = screen
		c.printHTML = printer
	}
}

// NewConverter creates a Converter. It fails on invalid options or when a
// configured style cannot be loaded; fonts are only read when a PDF is made.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			tocTitle:       assemble.DefaultTOCTitle,
			htmlStyle:      assets.DefaultStyleName,
			epubStyle:      assets.EPUBStyleName,
			highlightStyle: pipeline.DefaultHighlightStyle,
		},
		log:          zap.NewNop(),
		now:          time.Now,
		fontProvider: fonts.NewDirProvider(fonts.DefaultDir),
		preprocessor: &pipeline.ChapterPreprocessor{},
		screenHTML:   pipeline.NewGoldmarkConverter(),
		printHTML:    pipeline.NewPlainConverter(),
	}
	for _, opt := range opts {
		opt(c)
	}

	size, err := canvas.ParsePageSize(strings.ToLower(c.cfg.pageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPageSize, err)
	}
	c.pageSize = size

	for _, s := range []float64{c.cfg.bodySize, c.cfg.codeSize} {
		if s != 0 && (s < MinFontSize || s > MaxFontSize) {
			return nil, fmt.Errorf("%w: %.1f (must be between %.0f and %.0f)", ErrInvalidFontSize, s, MinFontSize, MaxFontSize)
		}
	}

	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	c.assetLoader = resolver
	if resolver.HasCustomLoader() {
		c.log.Debug("custom assets enabled", zap.String("path", c.cfg.assetPath))
	}

	highlight, err := pipeline.HighlightCSS(c.cfg.highlightStyle)
	if err != nil {
		return nil, err
	}
	if c.htmlCSS, err = c.resolveStyle(c.cfg.htmlStyle); err != nil {
		return nil, err
	}
	if c.epubCSS, err = c.resolveStyle(c.cfg.epubStyle); err != nil {
		return nil, err
	}
	c.htmlCSS += "\n" + highlight
	c.epubCSS += "\n" + highlight

	return c, nil
}

// resolveStyle turns a style name, CSS file path, or inline CSS into CSS.
func (c *Converter) resolveStyle(input string) (string, error) {
	if input == "" {
		return "", nil
	}

	if fileutil.IsCSS(input) {
		return input, nil
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: loading style file %q: %v", ErrStyleNotFound, input, err)
		}
		return string(content), nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrStyleNotFound, input, err)
	}
	return css, nil
}

// recoverPanic turns a panic in a conversion into an error. fpdf panics on
// some misuse; callers get an error instead of a crash.
func recoverPanic(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: internal error: %v", ErrConversion, r)
	}
}

// chapterHTML converts one chapter for the screen formats.
func (c *Converter) chapterHTML(ctx context.Context, ch Chapter) (string, error) {
	md := c.preprocessor.PreprocessMarkdown(ctx, ch.Source)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := c.screenHTML.ToHTML(ctx, md)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: chapter %d (%s): %v", ErrConversion, ch.Index, ch.Title, err)
	}
	return html, nil
}

// PDFResult describes a produced PDF.
type PDFResult struct {
	Pages    int
	TOCPages []int
	// ChapterPages holds each chapter's first page, in order.
	ChapterPages []int
	// CoverErr is set when the book has a cover that could not be drawn.
	// The PDF is still produced, without a cover page.
	CoverErr error
}

// WritePDF lays out the book as a PDF and writes it to w.
func (c *Converter) WritePDF(ctx context.Context, book *Book, w io.Writer) (result *PDFResult, err error) {
	defer recoverPanic(&err)

	if len(book.Chapters) == 0 {
		return nil, ErrNoChapters
	}

	set, err := c.fontProvider.Fonts()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFontMissing, err)
	}

	meta := book.Metadata.WithDefaults()
	canvasOpts := canvas.Options{
		Size:         c.pageSize,
		Margin:       c.cfg.margin,
		Fonts:        set,
		PageNumbers:  c.cfg.pageNumbers,
		Title:        meta.Title,
		Author:       meta.Author,
		Creator:      Creator,
		CreationDate: c.now(),
	}

	var renderOpts []render.Option
	if c.cfg.bodySize != 0 {
		renderOpts = append(renderOpts, render.WithBodySize(c.cfg.bodySize))
	}
	if c.cfg.codeSize != 0 {
		renderOpts = append(renderOpts, render.WithCodeSize(c.cfg.codeSize))
	}

	asm := assemble.New(canvasOpts,
		assemble.WithLogger(c.log),
		assemble.WithTOCTitle(c.cfg.tocTitle),
		assemble.WithConverter(c.printHTML),
		assemble.WithRenderOptions(renderOpts...),
	)

	in := assemble.Input{CoverPath: book.CoverPath}
	for _, ch := range book.Chapters {
		in.Chapters = append(in.Chapters, assemble.Chapter{Index: ch.Index, Title: ch.Title, Source: ch.Source})
	}

	res, err := asm.Assemble(ctx, in, w)
	if err != nil {
		switch {
		case errors.Is(err, assemble.ErrConversion):
			return nil, fmt.Errorf("%w: %v", ErrConversion, err)
		case errors.Is(err, assemble.ErrNoChapters):
			return nil, fmt.Errorf("%w: %v", ErrNoChapters, err)
		case errors.Is(err, fonts.ErrFontMissing), errors.Is(err, fonts.ErrFontInvalid):
			return nil, fmt.Errorf("%w: %w", ErrFontMissing, err)
		case errors.Is(err, canvas.ErrMargin):
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		return nil, err
	}

	out := &PDFResult{Pages: res.Pages, TOCPages: res.TOCPages}
	for _, e := range res.TOC {
		out.ChapterPages = append(out.ChapterPages, e.Page)
	}
	if res.CoverErr != nil {
		out.CoverErr = fmt.Errorf("%w: %w", ErrCoverImage, res.CoverErr)
	}
	return out, nil
}

// Artifact is one file written by Build.
type Artifact struct {
	Format Format
	Path   string
	// Warning is a non-fatal problem, such as a skipped cover.
	Warning error
}

// Build writes book in format f to outDir, naming files after base
// (OutputBaseName of the title when base is empty). FormatAll writes all
// four files. Each file is written atomically.
func (c *Converter) Build(ctx context.Context, book *Book, f Format, outDir, base string) ([]Artifact, error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return nil, err
	}
	if base == "" {
		base = OutputBaseName(book.Metadata.WithDefaults().Title)
	}
	if outDir == "" {
		outDir = "."
	}
	if err := fileutil.EnsureDir(outDir); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	var artifacts []Artifact
	for _, format := range f.Formats() {
		if err := ctx.Err(); err != nil {
			return artifacts, err
		}
		path := filepath.Join(outDir, format.FileName(base))
		warning, err := c.writeFile(ctx, book, format, path)
		if err != nil {
			return artifacts, err
		}
		c.log.Info("output written", zap.String("format", string(format)), zap.String("path", path))
		artifacts = append(artifacts, Artifact{Format: format, Path: path, Warning: warning})
	}
	return artifacts, nil
}

func (c *Converter) writeFile(ctx context.Context, book *Book, f Format, path string) (warning error, err error) {
	var inner error
	err = fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		switch f {
		case FormatEPUB:
			inner = c.WriteEPUB(ctx, book, w)
		case FormatHTML:
			inner = c.WriteHTML(ctx, book, w)
		case FormatPDF:
			var res *PDFResult
			res, inner = c.WritePDF(ctx, book, w)
			if res != nil {
				warning = res.CoverErr
			}
		case FormatMarkdown:
			inner = WriteCombined(book, w)
		default:
			inner = fmt.Errorf("%w: %q", ErrInvalidFormat, f)
		}
		return inner
	})
	if inner != nil {
		return nil, inner
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
	}
	return warning, nil
}
