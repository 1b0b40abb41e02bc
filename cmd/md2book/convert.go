package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	md2book "github.com/alnah/go-md2book"
	"github.com/alnah/go-md2book/internal/assets"
	"github.com/alnah/go-md2book/internal/config"
	"github.com/alnah/go-md2book/internal/fonts"
	"github.com/alnah/go-md2book/internal/hints"
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("usage error")

// runConvert loads the configuration and the book, asks for a format when
// none was given, and writes the outputs.
func runConvert(ctx context.Context, flags *convertFlags, env *Environment) error {
	log := newLogger(flags.common.quiet, flags.common.verbose, env.Stderr)
	defer func() { _ = log.Sync() }()

	cfg, err := resolveConfig(flags, env)
	if err != nil {
		return err
	}

	display, iso, err := md2book.ResolveDate(cfg.Book.Date, env.Now())
	if err != nil {
		return err
	}
	meta := md2book.Metadata{
		Title:      cfg.Book.Title,
		Author:     cfg.Book.Author,
		Language:   cfg.Book.Language,
		Identifier: cfg.Book.Identifier,
		Publisher:  cfg.Book.Publisher,
		Date:       display,
		ISODate:    iso,
	}

	book, err := md2book.LoadBook(cfg.Input.Dir, cfg.Input.Cover, meta)
	if err != nil {
		return inputError(err, cfg.Input.Dir, env)
	}

	if !flags.common.quiet {
		printBookSummary(env, book)
	}

	format, err := chooseFormat(flags.format, env)
	if err != nil || format == "" {
		return err
	}

	opts, err := converterOptions(cfg, log, env.Now)
	if err != nil {
		return err
	}
	conv, err := md2book.NewConverter(opts...)
	if err != nil {
		if errors.Is(err, md2book.ErrStyleNotFound) {
			return fmt.Errorf("%w%s", err, hints.ForStyleNotFound(assets.Styles()))
		}
		return err
	}

	base := outputBase(flags.output, format)
	artifacts, err := conv.Build(ctx, book, format, cfg.Output.Dir, base)
	reportArtifacts(env, flags.common.quiet, artifacts)
	if err != nil {
		return buildError(err, cfg)
	}

	if format == md2book.FormatAll && !flags.common.quiet && len(artifacts) > 0 {
		name := strings.TrimSuffix(filepath.Base(artifacts[0].Path), filepath.Ext(artifacts[0].Path))
		fmt.Fprintf(env.Stdout, "All formats created with base name: %s\n", name)
	}

	if cfg.HTML.ShouldOpen() {
		openHTML(env, flags.common.quiet, artifacts)
	}
	return nil
}

// resolveConfig layers defaults < config file < MD2BOOK_* env < flags.
func resolveConfig(flags *convertFlags, env *Environment) (*config.Config, error) {
	environ := env.Environ()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr, environ)
	}
	envCfg := loadEnvConfig(environ)

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfig loads the named config, or book.yaml when one exists nearby.
// Having no config at all is fine; naming a missing one is not.
func loadConfig(flagValue, envValue string) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = envValue
	}
	if name == "" {
		if name = config.Find(); name == "" {
			return &config.Config{}, nil
		}
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(searchedConfigPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func searchedConfigPaths(name string) []string {
	paths := []string{name + ".yaml", name + ".yml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "go-md2book", name+".yaml"))
	}
	return paths
}

// mergeFlags applies command-line flags over cfg. Flags always win.
func mergeFlags(f *convertFlags, cfg *config.Config) {
	set := func(field *string, value string) {
		if value != "" {
			*field = value
		}
	}
	set(&cfg.Input.Dir, f.common.input)
	set(&cfg.Output.Dir, f.outputDir)
	set(&cfg.Book.Title, f.book.title)
	set(&cfg.Book.Author, f.book.author)
	set(&cfg.Book.Date, f.book.date)
	set(&cfg.PDF.PageSize, f.pdf.pageSize)
	set(&cfg.HTML.Style, f.style.html)
	set(&cfg.EPUB.Style, f.style.epub)
	set(&cfg.Assets.BasePath, f.style.assetPath)

	if f.pdf.fontsDir != "" {
		cfg.PDF.Fonts.Source = fonts.SourceDir
		cfg.PDF.Fonts.Dir = f.pdf.fontsDir
	}
	if f.pdf.embeddedFonts {
		cfg.PDF.Fonts.Source = fonts.SourceEmbedded
	}
	if f.changed != nil && f.changed("page-numbers") {
		cfg.PDF.PageNumbers = f.pdf.pageNumbers
	}
	if f.noOpen {
		open := false
		cfg.HTML.Open = &open
	}
}

// inputError prints the chapter-directory diagnostics and adds a hint.
func inputError(err error, dir string, env *Environment) error {
	switch {
	case errors.Is(err, md2book.ErrInputDirNotFound):
		fmt.Fprintf(env.Stderr, "Book directory '%s' not found!\n", dir)
		fmt.Fprintf(env.Stderr, "Please ensure you have a '%s' folder with your markdown files.\n", dir)
		return fmt.Errorf("%w%s", err, hints.ForInputDir(dir))
	case errors.Is(err, md2book.ErrNoChapters):
		fmt.Fprintf(env.Stderr, "No markdown files found in '%s'!\n", dir)
		return fmt.Errorf("%w%s", err, hints.ForNoChapters(dir))
	default:
		return err
	}
}

func printBookSummary(env *Environment, book *md2book.Book) {
	fmt.Fprintf(env.Stdout, "Found %d chapters:\n", len(book.Chapters))
	for _, ch := range book.Chapters {
		fmt.Fprintf(env.Stdout, "   - %s\n", filepath.Base(ch.Path))
	}
	if book.CoverPath != "" {
		fmt.Fprintf(env.Stdout, "Cover image: %s\n", book.CoverPath)
	}
}

// chooseFormat parses the --format value, or shows the menu without one.
// An empty format with a nil error means the user chose to exit.
func chooseFormat(value string, env *Environment) (md2book.Format, error) {
	if value != "" {
		f, err := md2book.ParseFormat(value)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return f, nil
	}
	f, ok := showFormatMenu(env.Stdin, env.Stdout)
	if !ok {
		return "", nil
	}
	return f, nil
}

func converterOptions(cfg *config.Config, log *zap.Logger, now func() time.Time) ([]md2book.Option, error) {
	provider, err := fonts.ForSource(cfg.PDF.Fonts.Source, cfg.PDF.Fonts.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return []md2book.Option{
		md2book.WithLogger(log),
		md2book.WithClock(now),
		md2book.WithFontProvider(provider),
		md2book.WithPageSize(cfg.PDF.PageSize),
		md2book.WithMargin(cfg.PDF.Margin),
		md2book.WithPageNumbers(cfg.PDF.PageNumbers),
		md2book.WithTOCTitle(cfg.PDF.TOCTitle),
		md2book.WithFontSizes(cfg.PDF.BodySize, cfg.PDF.CodeSize),
		md2book.WithHTMLStyle(cfg.HTML.Style),
		md2book.WithEPUBStyle(cfg.EPUB.Style),
		md2book.WithAssetPath(cfg.Assets.BasePath),
	}, nil
}

// outputBase turns the -o value into a base name. An extension belonging
// to the chosen format is dropped, so "-o novel.pdf" and "-o novel" agree.
func outputBase(value string, f md2book.Format) string {
	if value == "" {
		return ""
	}
	for _, format := range f.Formats() {
		if suffix := format.FileName(""); strings.HasSuffix(value, suffix) && value != suffix {
			return strings.TrimSuffix(value, suffix)
		}
	}
	return value
}

func reportArtifacts(env *Environment, quiet bool, artifacts []md2book.Artifact) {
	for _, a := range artifacts {
		if a.Warning != nil {
			fmt.Fprintf(env.Stderr, "warning: %v%s\n", a.Warning, hints.ForCover())
		}
		if !quiet {
			fmt.Fprintf(env.Stdout, "%s created: %s\n", a.Format.Label(), a.Path)
		}
	}
}

func buildError(err error, cfg *config.Config) error {
	switch {
	case errors.Is(err, md2book.ErrFontMissing):
		dir := cfg.PDF.Fonts.Dir
		return fmt.Errorf("%w%s", err, hints.ForFonts(dir, fonts.NewDirProvider(dir).Missing()))
	case errors.Is(err, md2book.ErrWriteOutput):
		return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
	default:
		return err
	}
}

// openHTML opens the HTML artifact, if any. Failure is only a warning.
func openHTML(env *Environment, quiet bool, artifacts []md2book.Artifact) {
	for _, a := range artifacts {
		if a.Format != md2book.FormatHTML {
			continue
		}
		if err := env.Open(a.Path); err != nil {
			fmt.Fprintf(env.Stderr, "warning: could not open %s: %v%s\n", a.Path, err, hints.ForBrowserOpen())
			return
		}
		if !quiet {
			fmt.Fprintln(env.Stdout, "Opened in browser")
		}
		return
	}
}
