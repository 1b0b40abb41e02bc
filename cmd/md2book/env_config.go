package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/alnah/go-md2book/internal/config"
)

// envPrefix starts every environment variable the CLI reads.
const envPrefix = "MD2BOOK_"

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath  string // MD2BOOK_CONFIG
	InputDir    string // MD2BOOK_INPUT_DIR
	OutputDir   string // MD2BOOK_OUTPUT_DIR
	Title       string // MD2BOOK_TITLE
	Author      string // MD2BOOK_AUTHOR
	Language    string // MD2BOOK_LANGUAGE
	Publisher   string // MD2BOOK_PUBLISHER
	Date        string // MD2BOOK_DATE
	PageSize    string // MD2BOOK_PAGE_SIZE
	FontsSource string // MD2BOOK_FONTS_SOURCE
	FontsDir    string // MD2BOOK_FONTS_DIR
	HTMLStyle   string // MD2BOOK_HTML_STYLE
	EPUBStyle   string // MD2BOOK_EPUB_STYLE
	PageNumbers *bool  // MD2BOOK_PAGE_NUMBERS
	NoOpen      *bool  // MD2BOOK_NO_OPEN
}

// knownEnvVars lists valid MD2BOOK_* environment variables.
var knownEnvVars = map[string]bool{
	"MD2BOOK_CONFIG":       true,
	"MD2BOOK_INPUT_DIR":    true,
	"MD2BOOK_OUTPUT_DIR":   true,
	"MD2BOOK_TITLE":        true,
	"MD2BOOK_AUTHOR":       true,
	"MD2BOOK_LANGUAGE":     true,
	"MD2BOOK_PUBLISHER":    true,
	"MD2BOOK_DATE":         true,
	"MD2BOOK_PAGE_SIZE":    true,
	"MD2BOOK_FONTS_SOURCE": true,
	"MD2BOOK_FONTS_DIR":    true,
	"MD2BOOK_HTML_STYLE":   true,
	"MD2BOOK_EPUB_STYLE":   true,
	"MD2BOOK_PAGE_NUMBERS": true,
	"MD2BOOK_NO_OPEN":      true,
}

// envMap turns KEY=VALUE pairs into a map of MD2BOOK_* variables.
func envMap(environ []string) map[string]string {
	vars := make(map[string]string)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(name, envPrefix) {
			vars[name] = value
		}
	}
	return vars
}

// loadEnvConfig reads the MD2BOOK_* variables. Unparseable booleans are
// ignored.
func loadEnvConfig(environ []string) *envConfig {
	vars := envMap(environ)
	return &envConfig{
		ConfigPath:  vars["MD2BOOK_CONFIG"],
		InputDir:    vars["MD2BOOK_INPUT_DIR"],
		OutputDir:   vars["MD2BOOK_OUTPUT_DIR"],
		Title:       vars["MD2BOOK_TITLE"],
		Author:      vars["MD2BOOK_AUTHOR"],
		Language:    vars["MD2BOOK_LANGUAGE"],
		Publisher:   vars["MD2BOOK_PUBLISHER"],
		Date:        vars["MD2BOOK_DATE"],
		PageSize:    vars["MD2BOOK_PAGE_SIZE"],
		FontsSource: vars["MD2BOOK_FONTS_SOURCE"],
		FontsDir:    vars["MD2BOOK_FONTS_DIR"],
		HTMLStyle:   vars["MD2BOOK_HTML_STYLE"],
		EPUBStyle:   vars["MD2BOOK_EPUB_STYLE"],
		PageNumbers: parseEnvBool(vars["MD2BOOK_PAGE_NUMBERS"]),
		NoOpen:      parseEnvBool(vars["MD2BOOK_NO_OPEN"]),
	}
}

func parseEnvBool(s string) *bool {
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &b
}

// warnUnknownEnvVars writes a warning for each unrecognized MD2BOOK_*
// variable, catching typos like MD2BOOK_AUTOR.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	var unknown []string
	for name := range envMap(environ) {
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig applies set environment variables over the config file.
// Precedence: flags > env vars > config file > defaults; flags are
// applied afterwards by mergeFlags.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	set := func(field *string, value string) {
		if value != "" {
			*field = value
		}
	}
	set(&cfg.Input.Dir, env.InputDir)
	set(&cfg.Output.Dir, env.OutputDir)
	set(&cfg.Book.Title, env.Title)
	set(&cfg.Book.Author, env.Author)
	set(&cfg.Book.Language, env.Language)
	set(&cfg.Book.Publisher, env.Publisher)
	set(&cfg.Book.Date, env.Date)
	set(&cfg.PDF.PageSize, env.PageSize)
	set(&cfg.PDF.Fonts.Source, env.FontsSource)
	set(&cfg.PDF.Fonts.Dir, env.FontsDir)
	set(&cfg.HTML.Style, env.HTMLStyle)
	set(&cfg.EPUB.Style, env.EPUBStyle)

	if env.PageNumbers != nil {
		cfg.PDF.PageNumbers = *env.PageNumbers
	}
	if env.NoOpen != nil {
		open := !*env.NoOpen
		cfg.HTML.Open = &open
	}
}
