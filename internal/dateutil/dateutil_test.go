package dateutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestToLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{name: "full year", format: "YYYY", want: "2006"},
		{name: "short year", format: "YY", want: "06"},
		{name: "full month name", format: "MMMM", want: "January"},
		{name: "short month name", format: "MMM", want: "Jan"},
		{name: "padded month", format: "MM", want: "01"},
		{name: "month", format: "M", want: "1"},
		{name: "padded day", format: "DD", want: "02"},
		{name: "day", format: "D", want: "2"},
		{name: "iso", format: "YYYY-MM-DD", want: "2006-01-02"},
		{name: "long", format: "MMMM D, YYYY", want: "January 2, 2006"},
		{name: "bracket literal", format: "[Day] D", want: "Day 2"},
		{name: "literal only", format: "---", want: "---"},
		{name: "empty", format: "", wantErr: ErrInvalidDateFormat},
		{name: "unclosed bracket", format: "[Date YYYY", wantErr: ErrInvalidDateFormat},
		{name: "too long", format: strings.Repeat("x", MaxDateFormatLength+1), wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ToLayout(tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ToLayout(%q) error = %v, want %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToLayout(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("ToLayout(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		value   string
		want    Date
		wantErr error
	}{
		{name: "empty", value: "", want: Date{}},
		{name: "auto", value: "auto", want: Date{Display: "2024-03-15", ISO: "2024-03-15"}},
		{name: "auto is case insensitive", value: "AUTO", want: Date{Display: "2024-03-15", ISO: "2024-03-15"}},
		{name: "auto with format", value: "auto:DD/MM/YYYY", want: Date{Display: "15/03/2024", ISO: "2024-03-15"}},
		{name: "auto with preset", value: "auto:long", want: Date{Display: "March 15, 2024", ISO: "2024-03-15"}},
		{name: "preset is case insensitive", value: "auto:US", want: Date{Display: "03/15/2024", ISO: "2024-03-15"}},
		{name: "literal iso", value: "2023-11-02", want: Date{Display: "2023-11-02", ISO: "2023-11-02"}},
		{name: "literal long", value: "November 2, 2023", want: Date{Display: "November 2, 2023", ISO: "2023-11-02"}},
		{name: "literal year", value: "2023", want: Date{Display: "2023", ISO: "2023"}},
		{name: "literal month", value: "2023-11", want: Date{Display: "2023-11", ISO: "2023-11"}},
		{name: "free text has no iso", value: "Spring 2024", want: Date{Display: "Spring 2024"}},
		{name: "word starting with auto is literal", value: "automne 2024", want: Date{Display: "automne 2024"}},
		{name: "auto with empty format", value: "auto:", wantErr: ErrInvalidDateFormat},
		{name: "auto with unclosed bracket", value: "auto:[YYYY", wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Resolve(tt.value, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Resolve(%q) error = %v, want %v", tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.value, got, tt.want)
			}
		})
	}
}

func TestDate_IsZero(t *testing.T) {
	t.Parallel()

	if !(Date{}).IsZero() {
		t.Error("zero Date should report IsZero")
	}
	if (Date{Display: "2024"}).IsZero() {
		t.Error("configured Date should not report IsZero")
	}
}
