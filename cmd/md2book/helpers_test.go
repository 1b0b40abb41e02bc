package main

// Notes:
// - testEnv captures stdout/stderr and records browser opens; Environ is
//   explicit so tests never see the real MD2BOOK_* variables.
// - writeBook creates a chapter directory in t.TempDir().

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type testEnvironment struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	opened []string
}

func testEnv(stdin string, environ ...string) *testEnvironment {
	te := &testEnvironment{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	te.Environment = &Environment{
		Now:     func() time.Time { return time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC) },
		Stdin:   strings.NewReader(stdin),
		Stdout:  te.stdout,
		Stderr:  te.stderr,
		Environ: func() []string { return environ },
		Open: func(path string) error {
			te.opened = append(te.opened, path)
			return nil
		},
	}
	return te
}

// writeBook creates a chapter directory holding files and returns it.
func writeBook(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "book")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func writeCoverPNG(t *testing.T, dir string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 30))
	for x := range 20 {
		for y := range 30 {
			img.Set(x, y, color.RGBA{R: 90, G: 90, B: 200, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, "cover.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
