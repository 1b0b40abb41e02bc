package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	md2book "github.com/alnah/go-md2book"
	"github.com/alnah/go-md2book/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to Exit Code Mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"unknown error", errors.New("boom"), ExitGeneral},
		{"conversion", md2book.ErrConversion, ExitGeneral},
		{"usage", fmt.Errorf("%w: bad flag", ErrUsage), ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},
		{"no chapters", md2book.ErrNoChapters, ExitUsage},
		{"input dir", fmt.Errorf("wrapped: %w", md2book.ErrInputDirNotFound), ExitUsage},
		{"invalid format", md2book.ErrInvalidFormat, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"invalid config", config.ErrInvalidConfig, ExitUsage},
		{"write output", fmt.Errorf("%w: disk full", md2book.ErrWriteOutput), ExitIO},
		{"not exist", fmt.Errorf("open: %w", os.ErrNotExist), ExitIO},
		{"permission", os.ErrPermission, ExitIO},
		{"font missing", md2book.ErrFontMissing, ExitAsset},
		{"font missing wrapping not exist", fmt.Errorf("%w: %w", md2book.ErrFontMissing, os.ErrNotExist), ExitAsset},
		{"style", md2book.ErrStyleNotFound, ExitAsset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
