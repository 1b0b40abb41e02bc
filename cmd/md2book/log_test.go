package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		quiet     bool
		verbose   bool
		wantDebug bool
		wantWarn  bool
	}{
		{name: "quiet", quiet: true},
		{name: "default", wantWarn: true},
		{name: "verbose", verbose: true, wantDebug: true, wantWarn: true},
		{name: "quiet wins", quiet: true, verbose: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := newLogger(tt.quiet, tt.verbose, &buf)
			log.Debug("debug line")
			log.Warn("warn line")
			_ = log.Sync()

			if got := strings.Contains(buf.String(), "debug line"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(buf.String(), "warn line"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}
