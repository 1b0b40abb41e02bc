package main

import (
	"bytes"
	"testing"

	"github.com/alnah/go-md2book/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Reading MD2BOOK_* Variables
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	env := loadEnvConfig([]string{
		"MD2BOOK_TITLE=Env Title",
		"MD2BOOK_INPUT_DIR=chapters",
		"MD2BOOK_PAGE_NUMBERS=true",
		"MD2BOOK_NO_OPEN=maybe",
		"OTHER_TITLE=ignored",
		"MD2BOOK_DATE=a=b",
	})

	if env.Title != "Env Title" || env.InputDir != "chapters" {
		t.Errorf("strings not read: %+v", env)
	}
	if env.Date != "a=b" {
		t.Errorf("Date = %q, values may contain '='", env.Date)
	}
	if env.PageNumbers == nil || !*env.PageNumbers {
		t.Error("PageNumbers should be true")
	}
	if env.NoOpen != nil {
		t.Error("unparseable boolean should be ignored")
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Environment Overrides the Config File
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Book.Title = "Yaml Title"
	cfg.Book.Author = "Yaml Author"
	cfg.PDF.PageNumbers = true

	off := false
	yes := true
	applyEnvConfig(&envConfig{Title: "Env Title", PageNumbers: &off, NoOpen: &yes}, cfg)

	if cfg.Book.Title != "Env Title" {
		t.Errorf("Title = %q, env should override", cfg.Book.Title)
	}
	if cfg.Book.Author != "Yaml Author" {
		t.Errorf("Author = %q, unset env must not clear it", cfg.Book.Author)
	}
	if cfg.PDF.PageNumbers {
		t.Error("PageNumbers should be turned off by env")
	}
	if cfg.HTML.ShouldOpen() {
		t.Error("MD2BOOK_NO_OPEN=true should disable opening")
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, []string{
		"MD2BOOK_TITLE=ok",
		"MD2BOOK_TITEL=typo",
		"MD2BOOK_AUTOR=typo",
		"HOME=/root",
	})

	want := "warning: unknown environment variable MD2BOOK_AUTOR (typo?)\n" +
		"warning: unknown environment variable MD2BOOK_TITEL (typo?)\n"
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}
