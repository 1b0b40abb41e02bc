package main

// Notes:
// - Conversions go through run() so flag parsing, config layering and
//   output reporting are exercised together.
// - PDF output always uses --embedded-fonts; the default font directory
//   does not exist in the test environment.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	md2book "github.com/alnah/go-md2book"
	"github.com/alnah/go-md2book/internal/config"
)

var sampleChapters = map[string]string{
	"01_intro.md":   "# Welcome\n\nFirst chapter.\n",
	"02_details.md": "## Details\n\n- one\n- two\n",
	"notes.txt":     "not a chapter",
}

// ---------------------------------------------------------------------------
// TestRunConvert_Markdown - Single Format from Flags
// ---------------------------------------------------------------------------

func TestRunConvert_Markdown(t *testing.T) {
	t.Parallel()

	in := writeBook(t, sampleChapters)
	out := t.TempDir()
	env := testEnv("")

	code := run(context.Background(), []string{
		"-i", in, "--output-dir", out, "-f", "md", "--title", "My Book",
	}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr: %s", code, env.stderr)
	}

	stdout := env.stdout.String()
	for _, want := range []string{
		"Found 2 chapters:\n   - 01_intro.md\n   - 02_details.md\n",
		"Combined Markdown created: " + filepath.Join(out, "my_book_combined.md"),
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}

	data, err := os.ReadFile(filepath.Join(out, "my_book_combined.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# My Book\n\n*By Anonymous*") {
		t.Errorf("combined output starts with %q", firstLine(string(data)))
	}
	if !strings.Contains(string(data), "## Chapter 2: 02 Details") {
		t.Error("second chapter heading missing")
	}
	if len(env.opened) != 0 {
		t.Errorf("nothing should be opened for markdown, got %v", env.opened)
	}
}

// ---------------------------------------------------------------------------
// TestRunConvert_All - Every Format and the Browser
// ---------------------------------------------------------------------------

func TestRunConvert_All(t *testing.T) {
	t.Parallel()

	in := writeBook(t, sampleChapters)
	writeCoverPNG(t, in)
	out := t.TempDir()
	env := testEnv("")

	code := run(context.Background(), []string{
		"-i", in, "--output-dir", out, "-f", "all", "--embedded-fonts", "-o", "draft",
	}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr: %s", code, env.stderr)
	}

	want := []string{"draft.epub", "draft.html", "draft.pdf", "draft_combined.md"}
	if got := listDir(t, out); !slices.Equal(got, want) {
		t.Errorf("output files = %v, want %v", got, want)
	}

	stdout := env.stdout.String()
	for _, s := range []string{
		"Cover image: " + filepath.Join(in, "cover.png"),
		"EPUB created:",
		"PDF created:",
		"All formats created with base name: draft\n",
		"Opened in browser",
	} {
		if !strings.Contains(stdout, s) {
			t.Errorf("stdout missing %q:\n%s", s, stdout)
		}
	}
	if want := []string{filepath.Join(out, "draft.html")}; !slices.Equal(env.opened, want) {
		t.Errorf("opened = %v, want %v", env.opened, want)
	}
}

func TestRunConvert_NoOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		environ []string
	}{
		{name: "flag", args: []string{"--no-open"}},
		{name: "env", environ: []string{"MD2BOOK_NO_OPEN=1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := writeBook(t, sampleChapters)
			env := testEnv("", tt.environ...)
			args := append([]string{"-i", in, "--output-dir", t.TempDir(), "-f", "html"}, tt.args...)

			if code := run(context.Background(), args, env.Environment); code != ExitSuccess {
				t.Fatalf("exit = %d, stderr: %s", code, env.stderr)
			}
			if len(env.opened) != 0 {
				t.Errorf("opened = %v, want nothing", env.opened)
			}
		})
	}
}

func TestRunConvert_OpenFailureIsWarning(t *testing.T) {
	t.Parallel()

	in := writeBook(t, sampleChapters)
	env := testEnv("")
	env.Open = func(string) error { return errNoBrowser }

	code := run(context.Background(), []string{"-i", in, "--output-dir", t.TempDir(), "-f", "html"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr: %s", code, env.stderr)
	}
	if !strings.Contains(env.stderr.String(), "warning: could not open") {
		t.Errorf("stderr = %q", env.stderr)
	}
	if strings.Contains(env.stdout.String(), "Opened in browser") {
		t.Error("success message printed after a failed open")
	}
}

// ---------------------------------------------------------------------------
// TestRunConvert_InputErrors - Missing Directory and Empty Book
// ---------------------------------------------------------------------------

func TestRunConvert_InputErrors(t *testing.T) {
	t.Parallel()

	empty := writeBook(t, map[string]string{"readme.txt": "x"})
	missing := filepath.Join(t.TempDir(), "nowhere")

	tests := []struct {
		name       string
		dir        string
		wantStderr string
	}{
		{
			name:       "missing directory",
			dir:        missing,
			wantStderr: "Book directory '" + missing + "' not found!\nPlease ensure you have a '" + missing + "' folder with your markdown files.\n",
		},
		{
			name:       "no markdown files",
			dir:        empty,
			wantStderr: "No markdown files found in '" + empty + "'!\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := testEnv("")
			code := run(context.Background(), []string{"-i", tt.dir, "-f", "md"}, env.Environment)
			if code != ExitUsage {
				t.Errorf("exit = %d, want %d", code, ExitUsage)
			}
			if !strings.HasPrefix(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want prefix %q", env.stderr, tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunConvert_Menu - Interactive Format Choice
// ---------------------------------------------------------------------------

func TestRunConvert_Menu(t *testing.T) {
	t.Parallel()

	t.Run("choice", func(t *testing.T) {
		t.Parallel()

		in := writeBook(t, sampleChapters)
		out := t.TempDir()
		env := testEnv("7\n4\n")

		if code := run(context.Background(), []string{"-i", in, "--output-dir", out}, env.Environment); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr: %s", code, env.stderr)
		}
		if got := listDir(t, out); !slices.Equal(got, []string{"untitled_book_combined.md"}) {
			t.Errorf("output files = %v", got)
		}
		if !strings.Contains(env.stdout.String(), "Please enter a number between 0-5") {
			t.Error("invalid choice not reported")
		}
	})

	t.Run("exit", func(t *testing.T) {
		t.Parallel()

		in := writeBook(t, sampleChapters)
		out := filepath.Join(t.TempDir(), "out")
		env := testEnv("0\n")

		if code := run(context.Background(), []string{"-i", in, "--output-dir", out}, env.Environment); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr: %s", code, env.stderr)
		}
		if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
			t.Error("output directory should not be created when exiting")
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunConvert_Layering - Config File, Environment, Flags
// ---------------------------------------------------------------------------

func TestRunConvert_Layering(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, "book:\n  title: Yaml Title\n  author: Yaml Author\n")

	tests := []struct {
		name     string
		args     []string
		environ  []string
		wantFile string
	}{
		{name: "config file", wantFile: "yaml_title_combined.md"},
		{name: "env over file", environ: []string{"MD2BOOK_TITLE=Env Title"}, wantFile: "env_title_combined.md"},
		{
			name:     "flag over env",
			args:     []string{"--title", "Flag Title"},
			environ:  []string{"MD2BOOK_TITLE=Env Title"},
			wantFile: "flag_title_combined.md",
		},
		{
			name:     "config from env",
			environ:  []string{"MD2BOOK_CONFIG=" + cfgPath},
			wantFile: "yaml_title_combined.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := writeBook(t, sampleChapters)
			out := t.TempDir()
			args := []string{"-i", in, "--output-dir", out, "-f", "md"}
			if !slices.Contains(tt.environ, "MD2BOOK_CONFIG="+cfgPath) {
				args = append(args, "-c", cfgPath)
			}
			args = append(args, tt.args...)
			env := testEnv("", tt.environ...)

			if code := run(context.Background(), args, env.Environment); code != ExitSuccess {
				t.Fatalf("exit = %d, stderr: %s", code, env.stderr)
			}
			if got := listDir(t, out); !slices.Equal(got, []string{tt.wantFile}) {
				t.Errorf("output files = %v, want [%s]", got, tt.wantFile)
			}
		})
	}
}

func TestRunConvert_ConfigErrors(t *testing.T) {
	t.Parallel()

	in := writeBook(t, sampleChapters)

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{name: "missing config", args: []string{"-c", "./missing.yaml"}, wantCode: ExitUsage},
		{name: "bad format", args: []string{"-f", "docx"}, wantCode: ExitUsage},
		{name: "bad page size", args: []string{"-f", "md", "-p", "b9"}, wantCode: ExitUsage},
		{name: "missing style", args: []string{"-f", "html", "--style", "nope"}, wantCode: ExitAsset},
		{name: "positional argument", args: []string{"-f", "md", "extra"}, wantCode: ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := testEnv("")
			args := append([]string{"-i", in, "--output-dir", t.TempDir()}, tt.args...)
			if code := run(context.Background(), args, env.Environment); code != tt.wantCode {
				t.Errorf("exit = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr)
			}
			if !strings.Contains(env.stderr.String(), "error: ") {
				t.Errorf("stderr = %q, want an error line", env.stderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestOutputBase - Base Name from -o
// ---------------------------------------------------------------------------

func TestOutputBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value  string
		format md2book.Format
		want   string
	}{
		{"", md2book.FormatPDF, ""},
		{"novel", md2book.FormatPDF, "novel"},
		{"novel.pdf", md2book.FormatPDF, "novel"},
		{"novel.pdf", md2book.FormatEPUB, "novel.pdf"},
		{"novel.epub", md2book.FormatAll, "novel"},
		{"novel_combined.md", md2book.FormatMarkdown, "novel"},
		{".pdf", md2book.FormatPDF, ".pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.value+"/"+string(tt.format), func(t *testing.T) {
			t.Parallel()

			if got := outputBase(tt.value, tt.format); got != tt.want {
				t.Errorf("outputBase(%q, %q) = %q, want %q", tt.value, tt.format, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMergeFlags - Flags Override the Configuration
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("page numbers only when given", func(t *testing.T) {
		t.Parallel()

		f, _, err := parseConvertFlags([]string{"--title", "T"}, &strings.Builder{})
		if err != nil {
			t.Fatal(err)
		}
		cfg := &config.Config{}
		cfg.PDF.PageNumbers = true
		mergeFlags(f, cfg)
		if !cfg.PDF.PageNumbers {
			t.Error("unset --page-numbers cleared the config value")
		}
		if cfg.Book.Title != "T" {
			t.Errorf("Title = %q", cfg.Book.Title)
		}
	})

	t.Run("page numbers off", func(t *testing.T) {
		t.Parallel()

		f, _, err := parseConvertFlags([]string{"--page-numbers=false"}, &strings.Builder{})
		if err != nil {
			t.Fatal(err)
		}
		cfg := &config.Config{}
		cfg.PDF.PageNumbers = true
		mergeFlags(f, cfg)
		if cfg.PDF.PageNumbers {
			t.Error("--page-numbers=false should win")
		}
	})

	t.Run("fonts", func(t *testing.T) {
		t.Parallel()

		f, _, err := parseConvertFlags([]string{"--fonts", "/opt/fonts"}, &strings.Builder{})
		if err != nil {
			t.Fatal(err)
		}
		cfg := &config.Config{}
		cfg.PDF.Fonts.Source = "embedded"
		mergeFlags(f, cfg)
		if cfg.PDF.Fonts.Source != "dir" || cfg.PDF.Fonts.Dir != "/opt/fonts" {
			t.Errorf("Fonts = %+v", cfg.PDF.Fonts)
		}
	})
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
