// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-md2book/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// inCI reports whether a common CI environment variable is set.
func inCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForBrowserOpen returns hints when the HTML output could not be opened.
func ForBrowserOpen() string {
	var hints []string
	if inCI() || IsInContainer() {
		hints = append(hints, "use --no-open in CI or containers")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to choose the browser")
	}
	return formatHints(hints)
}

// ForFonts returns hints when the PDF font set is incomplete.
func ForFonts(dir string, missing []string) string {
	hint := "place the DejaVu TTF files in " + quote(dir)
	if len(missing) > 0 {
		hint += " (missing: " + strings.Join(missing, ", ") + ")"
	}
	return formatHints([]string{hint, "or use --embedded-fonts"})
}

// ForInputDir returns hints when the chapter directory does not exist.
func ForInputDir(dir string) string {
	return format("create " + quote(dir) + " with your Markdown chapters or pass --input")
}

// ForNoChapters returns hints when the chapter directory has no Markdown files.
func ForNoChapters(dir string) string {
	return format("add .md files to " + quote(dir) + "; they are ordered by file name")
}

// ForCover returns hints when the cover image could not be used.
func ForCover() string {
	return format("supported cover formats: PNG, JPEG, GIF")
}

// ForConfigNotFound returns hints for config file not found errors.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/book.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, "go-md2book") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

func quote(s string) string {
	return "'" + s + "'"
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
