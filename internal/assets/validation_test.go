package assets

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestValidateAssetName - Names Must Stay Inside the Asset Directories
// ---------------------------------------------------------------------------

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	valid := []string{"book", "epub", "serif", "dark-mode", "print_v2", "Book2024"}
	for _, name := range valid {
		t.Run("valid/"+name, func(t *testing.T) {
			t.Parallel()

			if err := ValidateAssetName(name); err != nil {
				t.Errorf("ValidateAssetName(%q) = %v, want nil", name, err)
			}
		})
	}

	invalid := []string{
		"",
		".",
		"..",
		".hidden",
		"book.css",
		"book.css.bak",
		"styles/book",
		`styles\book`,
		"../book",
		`..\book`,
		"../../etc/passwd",
		"/etc/passwd",
		`C:\fonts`,
		"dark mode",
		" book",
		"book\t",
		"book\x00",
	}
	for _, name := range invalid {
		t.Run("invalid/"+name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(name)
			if !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("ValidateAssetName(%q) = %v, want ErrInvalidAssetName", name, err)
			}
		})
	}
}

func TestValidateAssetName_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want []string
	}{
		{name: "", want: []string{"empty name", `"book"`}},
		{name: "../book", want: []string{`"../book"`, "bare name"}},
		{name: "dark mode", want: []string{`"dark mode"`, "whitespace"}},
	}
	for _, tt := range tests {
		msg := ValidateAssetName(tt.name).Error()
		for _, want := range tt.want {
			if !strings.Contains(msg, want) {
				t.Errorf("ValidateAssetName(%q) = %q, want it to mention %s", tt.name, msg, want)
			}
		}
	}
}
