package md2book

import (
	"errors"
	"reflect"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseFormat - Format Names and Menu Numbers
// ---------------------------------------------------------------------------

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr error
	}{
		{name: "epub", input: "epub", want: FormatEPUB},
		{name: "html", input: "html", want: FormatHTML},
		{name: "pdf", input: "pdf", want: FormatPDF},
		{name: "markdown", input: "md", want: FormatMarkdown},
		{name: "all", input: "all", want: FormatAll},
		{name: "uppercase with spaces", input: "  PDF ", want: FormatPDF},
		{name: "menu 1", input: "1", want: FormatEPUB},
		{name: "menu 4", input: "4", want: FormatMarkdown},
		{name: "menu 5", input: "5", want: FormatAll},
		{name: "menu 0 is not a format", input: "0", wantErr: ErrInvalidFormat},
		{name: "unknown", input: "docx", wantErr: ErrInvalidFormat},
		{name: "empty", input: "", wantErr: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseFormat(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				if !errors.Is(err, ErrConfiguration) {
					t.Errorf("ParseFormat(%q) error should be a configuration error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFormat_Formats - Expansion of "all"
// ---------------------------------------------------------------------------

func TestFormat_Formats(t *testing.T) {
	t.Parallel()

	want := []Format{FormatEPUB, FormatHTML, FormatPDF, FormatMarkdown}
	if got := FormatAll.Formats(); !reflect.DeepEqual(got, want) {
		t.Errorf("FormatAll.Formats() = %v, want %v", got, want)
	}

	got := FormatAll.Formats()
	got[0] = FormatPDF
	if FormatAll.Formats()[0] != FormatEPUB {
		t.Error("Formats() must return a copy")
	}

	if got := FormatHTML.Formats(); !reflect.DeepEqual(got, []Format{FormatHTML}) {
		t.Errorf("FormatHTML.Formats() = %v", got)
	}
}

// ---------------------------------------------------------------------------
// TestFormat_FileName - Output File Names
// ---------------------------------------------------------------------------

func TestFormat_FileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		want   string
	}{
		{FormatEPUB, "my_book.epub"},
		{FormatHTML, "my_book.html"},
		{FormatPDF, "my_book.pdf"},
		{FormatMarkdown, "my_book_combined.md"},
		{FormatAll, "my_book"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			if got := tt.format.FileName("my_book"); got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat_Label(t *testing.T) {
	t.Parallel()

	if got := FormatMarkdown.Label(); got != "Combined Markdown" {
		t.Errorf("Label() = %q, want %q", got, "Combined Markdown")
	}
	if got := Format("odt").Label(); got != "odt" {
		t.Errorf("Label() of unknown format = %q, want %q", got, "odt")
	}
}

func TestChapter_Heading(t *testing.T) {
	t.Parallel()

	ch := Chapter{Index: 3, Title: "03 Data Sources"}
	if got, want := ch.Heading(), "Chapter 3: 03 Data Sources"; got != want {
		t.Errorf("Heading() = %q, want %q", got, want)
	}
}
