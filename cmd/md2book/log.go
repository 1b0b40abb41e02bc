package main

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the CLI logger: silent with --quiet, debug with
// --verbose, warnings only otherwise.
func newLogger(quiet, verbose bool, w io.Writer) *zap.Logger {
	if quiet {
		return zap.NewNop()
	}
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}
