package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod/lib/launcher"
)

// errNoBrowser is returned by the default opener when no browser is found.
var errNoBrowser = errors.New("no browser found")

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Environ lists the process environment as KEY=VALUE pairs.
	Environ func() []string
	// Open shows a local file in a browser.
	Open func(path string) error
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Environ: os.Environ,
		Open:    openInBrowser,
	}
}

// openInBrowser opens path with the browser rod would launch.
func openInBrowser(path string) error {
	if _, found := launcher.LookPath(); !found {
		return errNoBrowser
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	launcher.Open("file://" + filepath.ToSlash(abs))
	return nil
}
