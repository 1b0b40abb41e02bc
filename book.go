package md2book

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alnah/go-md2book/internal/dateutil"
	"github.com/alnah/go-md2book/internal/fileutil"
)

// ChapterExt is the extension of chapter source files.
const ChapterExt = ".md"

// WithDefaults returns a copy of m with empty fields filled in. An empty
// identifier becomes a random urn:uuid.
func (m Metadata) WithDefaults() Metadata {
	if strings.TrimSpace(m.Title) == "" {
		m.Title = DefaultTitle
	}
	if strings.TrimSpace(m.Author) == "" {
		m.Author = DefaultAuthor
	}
	if strings.TrimSpace(m.Language) == "" {
		m.Language = DefaultLanguage
	}
	if strings.TrimSpace(m.Publisher) == "" {
		m.Publisher = DefaultPublisher
	}
	if strings.TrimSpace(m.Identifier) == "" {
		m.Identifier = "urn:uuid:" + uuid.NewString()
	}
	return m
}

// ResolveDate interprets a configured date: "auto", "auto:FORMAT", a
// preset such as "auto:long", or a literal kept as written. It returns the
// display form and, when recognizable, the ISO form.
func ResolveDate(value string, now time.Time) (display, iso string, err error) {
	d, err := dateutil.Resolve(value, now)
	if err != nil {
		return "", "", fmt.Errorf("%w: date %q: %v", ErrConfiguration, value, err)
	}
	return d.Display, d.ISO, nil
}

// ChapterFiles lists the chapter sources in dir: regular files ending in
// .md, not recursive, sorted by byte-order file name.
func ChapterFiles(dir string) ([]string, error) {
	if !fileutil.DirExists(dir) {
		return nil, fmt.Errorf("%w: %s", ErrInputDirNotFound, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ChapterExt) {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoChapters, dir)
	}
	sort.Strings(names)
	return names, nil
}

// ChapterTitle derives a display title from a chapter file name:
// "02_data_sources.md" becomes "02 Data Sources".
func ChapterTitle(fileName string) string {
	base := filepath.Base(fileName)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return titleWords(strings.ReplaceAll(stem, "_", " "))
}

// titleWords capitalizes every maximal run of cased letters and lowercases
// the rest of the run. Any other character, digits and apostrophes
// included, ends a run: "chapter1intro" becomes "Chapter1Intro".
func titleWords(s string) string {
	caser := cases.Title(language.Und)
	var b strings.Builder
	b.Grow(len(s))
	start := -1
	for i, r := range s {
		if isCased(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.WriteString(caser.String(s[start:i]))
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		b.WriteString(caser.String(s[start:]))
	}
	return b.String()
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

var baseNameReplacer = strings.NewReplacer(
	" ", "_",
	":", "",
	"-", "_",
	"/", "_",
	`\`, "_",
)

// OutputBaseName derives the default output name from a book title:
// lowercase, spaces and hyphens become underscores, colons are dropped.
func OutputBaseName(title string) string {
	name := baseNameReplacer.Replace(strings.ToLower(strings.TrimSpace(title)))
	if name == "" {
		return "book"
	}
	return name
}

// LoadBook reads every chapter in dir. cover is a file name inside dir or
// a path; a missing cover is not an error, the book simply has none.
func LoadBook(dir, cover string, meta Metadata) (*Book, error) {
	names, err := ChapterFiles(dir)
	if err != nil {
		return nil, err
	}

	book := &Book{
		Metadata:  meta.WithDefaults(),
		Chapters:  make([]Chapter, 0, len(names)),
		CoverPath: resolveCover(dir, cover),
	}
	for i, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path) // #nosec G304 -- chapter dir is user-provided
		if err != nil {
			return nil, fmt.Errorf("reading chapter %s: %w", name, err)
		}
		book.Chapters = append(book.Chapters, Chapter{
			Index:  i + 1,
			Title:  ChapterTitle(name),
			Path:   path,
			Source: string(data),
		})
	}
	return book, nil
}

func resolveCover(dir, cover string) string {
	if cover == "" {
		return ""
	}
	path := cover
	if !filepath.IsAbs(cover) && !fileutil.IsFilePath(cover) {
		path = filepath.Join(dir, cover)
	}
	if !fileutil.FileExists(path) {
		return ""
	}
	return path
}
