// Package dateutil resolves the book publication date, including the
// "auto" and "auto:FORMAT" forms.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// ISOLayout is the layout used for machine-readable dates (EPUB dc:date).
const ISOLayout = "2006-01-02"

// tokens maps user-facing tokens to Go layout fragments, longest first.
var tokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named shortcuts usable as auto:NAME.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// literalLayouts are tried, in order, to recognise a literal date.
var literalLayouts = []string{
	ISOLayout,
	"2006-01",
	"2006",
	"January 2, 2006",
	"2 January 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// Date is a resolved publication date.
type Date struct {
	Display string // what readers see
	ISO     string // YYYY-MM-DD or a shorter ISO form; empty when unrecognised
}

// IsZero reports whether no date was configured.
func (d Date) IsZero() bool { return d.Display == "" }

// ToLayout converts a token format such as "DD/MM/YYYY" to a Go layout.
// Text inside brackets is copied literally: "[Date:] YYYY" keeps "Date:".
func ToLayout(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	b.Grow(len(format) + 8)

	for rest := format; rest != ""; {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest))
			}
			b.WriteString(rest[1:end])
			rest = rest[end+1:]
			continue
		}
		if layout, n := matchToken(rest); n > 0 {
			b.WriteString(layout)
			rest = rest[n:]
			continue
		}
		b.WriteByte(rest[0])
		rest = rest[1:]
	}
	return b.String(), nil
}

func matchToken(s string) (string, int) {
	for _, t := range tokens {
		if strings.HasPrefix(s, t.token) {
			return t.layout, len(t.token)
		}
	}
	return "", 0
}

// Resolve interprets a configured date value:
//   - "" resolves to the zero Date
//   - "auto" is now in YYYY-MM-DD
//   - "auto:FORMAT" is now in FORMAT, which may be a preset name
//   - anything else is kept as written; ISO is filled when it parses
func Resolve(value string, now time.Time) (Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Date{}, nil
	}

	lower := strings.ToLower(value)
	switch {
	case lower == "auto":
		iso := now.Format(ISOLayout)
		return Date{Display: iso, ISO: iso}, nil
	case strings.HasPrefix(lower, "auto:"):
		format := value[len("auto:"):]
		if preset, ok := Presets[strings.ToLower(format)]; ok {
			format = preset
		}
		layout, err := ToLayout(format)
		if err != nil {
			return Date{}, err
		}
		return Date{Display: now.Format(layout), ISO: now.Format(ISOLayout)}, nil
	default:
		return Date{Display: value, ISO: literalISO(value)}, nil
	}
}

func literalISO(value string) string {
	for _, layout := range literalLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		switch layout {
		case "2006":
			return t.Format("2006")
		case "2006-01":
			return t.Format("2006-01")
		default:
			return t.Format(ISOLayout)
		}
	}
	return ""
}
