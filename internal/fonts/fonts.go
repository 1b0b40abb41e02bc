// Package fonts resolves the TrueType font sets used by the PDF canvas.
//
// A Set always carries the four variants of the body family (regular, bold,
// italic, bold-italic). A monospace face is optional; without one, code is
// set in the regular body face.
package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// Sentinel errors for font resolution.
var (
	ErrFontMissing = errors.New("font file missing")
	ErrFontInvalid = errors.New("font file is not a usable TrueType font")
)

// Style selects a font variant.
type Style string

const (
	Regular    Style = ""
	Bold       Style = "B"
	Italic     Style = "I"
	BoldItalic Style = "BI"
)

// Styles lists the variants a Set must provide, in registration order.
var Styles = []Style{Regular, Bold, Italic, BoldItalic}

// Face is one font file's content.
type Face struct {
	Name string // file name or identifier, for diagnostics
	Data []byte
}

// Validate parses the face and fails with ErrFontInvalid when the data is
// not an sfnt font.
func (f Face) Validate() error {
	if _, err := sfnt.Parse(f.Data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFontInvalid, f.Name, err)
	}
	return nil
}

// Set is a complete font family plus an optional monospace face.
type Set struct {
	Family string
	Faces  map[Style]Face
	Mono   *Face
}

// Validate checks that every style is present and that every face,
// the monospace one included, parses.
func (s *Set) Validate() error {
	for _, style := range Styles {
		face, ok := s.Faces[style]
		if !ok {
			return fmt.Errorf("%w: no face for style %q in %s", ErrFontMissing, style, s.Family)
		}
		if err := face.Validate(); err != nil {
			return err
		}
	}
	if s.Mono != nil {
		return s.Mono.Validate()
	}
	return nil
}

// Provider resolves a font Set.
type Provider interface {
	Fonts() (*Set, error)
}

// DirFiles names the files a DirProvider expects.
type DirFiles struct {
	Regular    string
	Bold       string
	Italic     string
	BoldItalic string
	Mono       string // optional
}

// DejaVuFiles is the DejaVu Sans layout.
var DejaVuFiles = DirFiles{
	Regular:    "DejaVuSans.ttf",
	Bold:       "DejaVuSans-Bold.ttf",
	Italic:     "DejaVuSans-Oblique.ttf",
	BoldItalic: "DejaVuSans-BoldOblique.ttf",
	Mono:       "DejaVuSansMono.ttf",
}

// DefaultDir is where DejaVu fonts are looked up when no directory is configured.
const DefaultDir = "fonts/DejaVu Sans"

// DirProvider loads a font family from a directory on disk.
type DirProvider struct {
	Dir    string
	Family string
	Files  DirFiles
}

// NewDirProvider returns a DirProvider for the DejaVu layout in dir.
func NewDirProvider(dir string) *DirProvider {
	if dir == "" {
		dir = DefaultDir
	}
	return &DirProvider{Dir: dir, Family: "DejaVu", Files: DejaVuFiles}
}

// Missing returns the required files that do not exist in the directory.
func (p *DirProvider) Missing() []string {
	var missing []string
	for _, name := range p.required() {
		info, err := os.Stat(filepath.Join(p.Dir, name))
		if err != nil || info.IsDir() {
			missing = append(missing, name)
		}
	}
	return missing
}

func (p *DirProvider) required() []string {
	return []string{p.Files.Regular, p.Files.Bold, p.Files.Italic, p.Files.BoldItalic}
}

// Fonts reads all required faces. A missing required face is fatal;
// a missing mono face is not. Any face present must parse.
func (p *DirProvider) Fonts() (*Set, error) {
	if missing := p.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrFontMissing, strings.Join(missing, ", "), p.Dir)
	}

	set := &Set{Family: p.Family, Faces: make(map[Style]Face, len(Styles))}
	for i, name := range p.required() {
		data, err := os.ReadFile(filepath.Join(p.Dir, name)) // #nosec G304 -- font dir is user-provided
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFontMissing, name, err)
		}
		set.Faces[Styles[i]] = Face{Name: name, Data: data}
	}

	if p.Files.Mono != "" {
		if data, err := os.ReadFile(filepath.Join(p.Dir, p.Files.Mono)); err == nil { // #nosec G304
			set.Mono = &Face{Name: p.Files.Mono, Data: data}
		}
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, p.Dir)
	}
	return set, nil
}

// EmbeddedProvider serves the Go font family compiled into the binary.
type EmbeddedProvider struct{}

// Fonts returns the Go fonts. It never fails.
func (EmbeddedProvider) Fonts() (*Set, error) {
	return &Set{
		Family: "Go",
		Faces: map[Style]Face{
			Regular:    {Name: "goregular", Data: goregular.TTF},
			Bold:       {Name: "gobold", Data: gobold.TTF},
			Italic:     {Name: "goitalic", Data: goitalic.TTF},
			BoldItalic: {Name: "gobolditalic", Data: gobolditalic.TTF},
		},
		Mono: &Face{Name: "gomono", Data: gomono.TTF},
	}, nil
}

// Source names accepted by ForSource.
const (
	SourceDir      = "dir"
	SourceEmbedded = "embedded"
)

// ErrUnknownSource indicates an unrecognized font source name.
var ErrUnknownSource = errors.New("unknown font source")

// ForSource returns the provider for a configured source name.
// An empty source means "dir".
func ForSource(source, dir string) (Provider, error) {
	switch strings.ToLower(source) {
	case "", SourceDir:
		return NewDirProvider(dir), nil
	case SourceEmbedded:
		return EmbeddedProvider{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (use %s or %s)", ErrUnknownSource, source, SourceDir, SourceEmbedded)
	}
}

// Compile-time interface checks.
var (
	_ Provider = (*DirProvider)(nil)
	_ Provider = EmbeddedProvider{}
)
