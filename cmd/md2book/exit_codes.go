package main

import (
	"errors"
	"os"

	md2book "github.com/alnah/go-md2book"
	"github.com/alnah/go-md2book/internal/config"
)

// Exit codes for the md2book CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or input layout
	ExitIO      = 3 // File not found, permission denied, write failure
	ExitAsset   = 4 // Fonts, cover, styles or templates unusable
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Asset errors first: a missing font file also wraps os.ErrNotExist.
	if errors.Is(err, md2book.ErrAsset) {
		return ExitAsset
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, md2book.ErrConfiguration) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrInputTooLarge) {
		return ExitUsage
	}

	if errors.Is(err, md2book.ErrWriteOutput) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	return ExitGeneral
}
