// Package config loads the book configuration file (book.yaml).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-md2book/internal/canvas"
	"github.com/alnah/go-md2book/internal/dateutil"
	"github.com/alnah/go-md2book/internal/fonts"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidConfig   = errors.New("invalid config value")
	ErrInputTooLarge   = errors.New("config file exceeds maximum size")
)

// MaxInputSize limits config files to 1 MiB.
const MaxInputSize = 1 << 20

// Field length limits.
const (
	MaxTitleLength      = 200
	MaxNameLength       = 100
	MaxLanguageLength   = 35 // BCP 47 tags stay well below this
	MaxIdentifierLength = 200
	MaxPublisherLength  = 100
	MaxDateLength       = 50
	MaxPathLength       = 4096
	MaxStyleLength      = 4096
)

// Font size bounds in points.
const (
	MinFontSize = 6.0
	MaxFontSize = 24.0
	MaxMargin   = 50.0 // mm
)

// Defaults applied by ApplyDefaults.
const (
	DefaultTitle     = "Untitled Book"
	DefaultAuthor    = "Anonymous"
	DefaultLanguage  = "en"
	DefaultPublisher = "Independent Publishing"
	DefaultInputDir  = "book"
	DefaultCover     = "cover.png"
	DefaultOutputDir = "output"
	DefaultPageSize  = "a4"
	DefaultTOCTitle  = "Table of Contents"
	DefaultBodySize  = 12.0
	DefaultCodeSize  = 11.0
	DefaultHTMLStyle = "book"
	DefaultEPUBStyle = "epub"
	DefaultName      = "book"
)

// Config holds everything needed to build a book.
type Config struct {
	Book   BookConfig   `yaml:"book"`
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	PDF    PDFConfig    `yaml:"pdf"`
	HTML   HTMLConfig   `yaml:"html"`
	EPUB   EPUBConfig   `yaml:"epub"`
	Assets AssetsConfig `yaml:"assets"`
}

// BookConfig is the book metadata shared by every output format.
type BookConfig struct {
	Title      string `yaml:"title"`
	Author     string `yaml:"author"`
	Language   string `yaml:"language"`
	Identifier string `yaml:"identifier"` // empty = urn:uuid generated per build
	Publisher  string `yaml:"publisher"`
	Date       string `yaml:"date"` // literal, "auto" or "auto:FORMAT"
}

// InputConfig locates the chapter sources.
type InputConfig struct {
	Dir   string `yaml:"dir"`
	Cover string `yaml:"cover"` // file name inside Dir, or a path
}

// OutputConfig locates the generated files.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// PDFConfig controls PDF layout.
type PDFConfig struct {
	PageSize    string      `yaml:"pageSize"`
	Margin      float64     `yaml:"margin"` // mm, 0 = default
	Fonts       FontsConfig `yaml:"fonts"`
	PageNumbers bool        `yaml:"pageNumbers"`
	TOCTitle    string      `yaml:"tocTitle"`
	BodySize    float64     `yaml:"bodySize"`
	CodeSize    float64     `yaml:"codeSize"`
}

// FontsConfig selects the PDF font set.
type FontsConfig struct {
	Source string `yaml:"source"` // "dir" or "embedded"
	Dir    string `yaml:"dir"`
}

// HTMLConfig controls the single-file HTML output.
type HTMLConfig struct {
	Style string `yaml:"style"`
	Open  *bool  `yaml:"open"` // nil = open
}

// EPUBConfig controls the EPUB output.
type EPUBConfig struct {
	Style string `yaml:"style"`
}

// AssetsConfig points at a directory overriding the built-in styles.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"`
}

// ShouldOpen reports whether the HTML output is opened after writing.
func (h HTMLConfig) ShouldOpen() bool {
	return h.Open == nil || *h.Open
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every empty field with its default value.
func (c *Config) ApplyDefaults() {
	setDefault(&c.Book.Title, DefaultTitle)
	setDefault(&c.Book.Author, DefaultAuthor)
	setDefault(&c.Book.Language, DefaultLanguage)
	setDefault(&c.Book.Publisher, DefaultPublisher)
	setDefault(&c.Input.Dir, DefaultInputDir)
	setDefault(&c.Input.Cover, DefaultCover)
	setDefault(&c.Output.Dir, DefaultOutputDir)
	setDefault(&c.PDF.PageSize, DefaultPageSize)
	setDefault(&c.PDF.Fonts.Source, fonts.SourceDir)
	setDefault(&c.PDF.Fonts.Dir, fonts.DefaultDir)
	setDefault(&c.PDF.TOCTitle, DefaultTOCTitle)
	setDefault(&c.HTML.Style, DefaultHTMLStyle)
	setDefault(&c.EPUB.Style, DefaultEPUBStyle)
	if c.PDF.Margin == 0 {
		c.PDF.Margin = canvas.DefaultMargin
	}
	if c.PDF.BodySize == 0 {
		c.PDF.BodySize = DefaultBodySize
	}
	if c.PDF.CodeSize == 0 {
		c.PDF.CodeSize = DefaultCodeSize
	}
}

func setDefault(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}

// Validate checks field lengths and value ranges. Zero values are accepted
// since ApplyDefaults replaces them.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"book.title", c.Book.Title, MaxTitleLength},
		{"book.author", c.Book.Author, MaxNameLength},
		{"book.language", c.Book.Language, MaxLanguageLength},
		{"book.identifier", c.Book.Identifier, MaxIdentifierLength},
		{"book.publisher", c.Book.Publisher, MaxPublisherLength},
		{"book.date", c.Book.Date, MaxDateLength},
		{"input.dir", c.Input.Dir, MaxPathLength},
		{"input.cover", c.Input.Cover, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"pdf.fonts.dir", c.PDF.Fonts.Dir, MaxPathLength},
		{"pdf.tocTitle", c.PDF.TOCTitle, MaxTitleLength},
		{"html.style", c.HTML.Style, MaxStyleLength},
		{"epub.style", c.EPUB.Style, MaxStyleLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.PDF.PageSize != "" {
		if _, err := canvas.ParsePageSize(strings.ToLower(c.PDF.PageSize)); err != nil {
			return fmt.Errorf("%w: pdf.pageSize: %v", ErrInvalidConfig, err)
		}
	}
	if c.PDF.Margin < 0 || c.PDF.Margin > MaxMargin {
		return fmt.Errorf("%w: pdf.margin: must be between 0 and %.0f mm, got %.2f", ErrInvalidConfig, MaxMargin, c.PDF.Margin)
	}
	switch c.PDF.Fonts.Source {
	case "", fonts.SourceDir, fonts.SourceEmbedded:
	default:
		return fmt.Errorf("%w: pdf.fonts.source: %q (must be %s or %s)", ErrInvalidConfig, c.PDF.Fonts.Source, fonts.SourceDir, fonts.SourceEmbedded)
	}
	if err := validateFontSize("pdf.bodySize", c.PDF.BodySize); err != nil {
		return err
	}
	if err := validateFontSize("pdf.codeSize", c.PDF.CodeSize); err != nil {
		return err
	}
	if _, err := dateutil.Resolve(c.Book.Date, time.Now()); err != nil {
		return fmt.Errorf("%w: book.date: %v", ErrInvalidConfig, err)
	}
	return nil
}

func validateFontSize(name string, size float64) error {
	if size == 0 {
		return nil
	}
	if size < MinFontSize || size > MaxFontSize {
		return fmt.Errorf("%w: %s: must be between %.0f and %.0f, got %.1f", ErrInvalidConfig, name, MinFontSize, MaxFontSize, size)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator is a file path; anything else is a
// name searched in the standard locations. Defaults are not applied, so
// callers can layer environment and flag overrides before ApplyDefaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}

	var cfg Config
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Find returns the path of the default config if one exists, or "".
func Find() string {
	path, err := resolveConfigPath(DefaultName)
	if err != nil {
		return ""
	}
	return path
}

func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath tries NAME.yaml and NAME.yml in the current directory,
// then in the user config directory under go-md2book/.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-md2book", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
