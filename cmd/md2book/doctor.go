package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF covers
	_ "image/jpeg" // register JPEG covers
	_ "image/png"  // register PNG covers
	"io"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	md2book "github.com/alnah/go-md2book"
	"github.com/alnah/go-md2book/internal/config"
	"github.com/alnah/go-md2book/internal/fonts"
	"github.com/alnah/go-md2book/internal/hints"
)

// lookBrowser finds a browser for opening HTML output.
var lookBrowser = launcher.LookPath

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Fonts    fontsInfo   `json:"fonts"`
	Input    inputInfo   `json:"input"`
	Cover    coverInfo   `json:"cover"`
	Browser  browserInfo `json:"browser"`
	Env      envInfo     `json:"environment"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// fontsInfo describes the PDF font set.
type fontsInfo struct {
	Source  string   `json:"source"`
	Dir     string   `json:"dir,omitempty"`
	Missing []string `json:"missing,omitempty"`
	OK      bool     `json:"ok"`
}

// inputInfo describes the chapter directory.
type inputInfo struct {
	Dir      string `json:"dir"`
	Found    bool   `json:"found"`
	Chapters int    `json:"chapters"`
}

// coverInfo describes the cover image.
type coverInfo struct {
	Path   string `json:"path,omitempty"`
	Found  bool   `json:"found"`
	Type   string `json:"type,omitempty"`
	Usable bool   `json:"usable"`
}

// browserInfo holds browser detection results for opening HTML output.
type browserInfo struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Container  bool   `json:"container"`
	CI         bool   `json:"ci"`
	BrowserBin string `json:"rod_browser_bin"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad usage.
func runDoctorCmd(args []string, env *Environment) int {
	var (
		jsonOutput bool
		cf         = &convertFlags{}
	)
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	fs.StringVarP(&cf.common.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&cf.common.input, "input", "i", "", "chapter directory")
	fs.BoolVar(&jsonOutput, "json", false, "machine-readable output")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return reportError(env.Stderr, fmt.Errorf("%w: %v", ErrUsage, err))
	}

	cf.common.quiet = true
	cfg, err := resolveConfig(cf, env)
	if err != nil {
		return reportError(env.Stderr, err)
	}

	result := runDoctor(cfg, env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config, env *Environment) *doctorResult {
	environ := env.Environ()
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			Container:  hints.IsInContainer(),
			CI:         inCI(environ),
			BrowserBin: envValue(environ, "ROD_BROWSER_BIN"),
		},
	}
	var unknown []string
	for name := range envMap(environ) {
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		result.Warnings = append(result.Warnings, "unknown environment variable "+name)
	}

	checkFonts(result, cfg)
	checkInput(result, cfg)
	checkBrowser(result, cfg)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

func envValue(environ []string, name string) string {
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == name {
			return v
		}
	}
	return ""
}

func inCI(environ []string) bool {
	for _, name := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if envValue(environ, name) != "" {
			return true
		}
	}
	return false
}

// checkFonts verifies the PDF font set can be loaded.
func checkFonts(result *doctorResult, cfg *config.Config) {
	result.Fonts.Source = cfg.PDF.Fonts.Source
	if result.Fonts.Source == "" {
		result.Fonts.Source = fonts.SourceDir
	}

	provider, err := fonts.ForSource(cfg.PDF.Fonts.Source, cfg.PDF.Fonts.Dir)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	if dp, ok := provider.(*fonts.DirProvider); ok {
		result.Fonts.Dir = cfg.PDF.Fonts.Dir
		result.Fonts.Missing = dp.Missing()
	}
	if _, err := provider.Fonts(); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("PDF fonts unusable: %v (use --embedded-fonts or add the DejaVu files)", err))
		return
	}
	result.Fonts.OK = true
}

// checkInput counts chapters and checks the cover.
func checkInput(result *doctorResult, cfg *config.Config) {
	result.Input.Dir = cfg.Input.Dir
	book, err := md2book.LoadBook(cfg.Input.Dir, cfg.Input.Cover, md2book.Metadata{})
	switch {
	case errors.Is(err, md2book.ErrInputDirNotFound):
		result.Errors = append(result.Errors, fmt.Sprintf("Book directory '%s' not found", cfg.Input.Dir))
		return
	case err != nil:
		result.Input.Found = true
		result.Errors = append(result.Errors, err.Error())
		return
	}
	result.Input.Found = true
	result.Input.Chapters = len(book.Chapters)

	if book.CoverPath == "" {
		result.Warnings = append(result.Warnings, fmt.Sprintf("No cover image %q in %s", cfg.Input.Cover, cfg.Input.Dir))
		return
	}
	checkCover(result, book.CoverPath)
}

// checkCover verifies the cover decodes as an image fpdf can embed.
func checkCover(result *doctorResult, path string) {
	result.Cover.Path = path
	result.Cover.Found = true

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Cover unreadable: %v", err))
		return
	}
	result.Cover.Type = mt.String()

	f, err := os.Open(path) // #nosec G304 -- cover path comes from the config
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Cover unreadable: %v", err))
		return
	}
	defer f.Close()
	if _, _, err := image.DecodeConfig(f); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Cover %s (%s) cannot be decoded; it will be skipped", path, mt.String()))
		return
	}
	result.Cover.Usable = true
}

// checkBrowser looks for a browser when HTML output would be opened.
func checkBrowser(result *doctorResult, cfg *config.Config) {
	path, found := lookBrowser()
	result.Browser.Found = found
	if found {
		result.Browser.Path = path
		return
	}
	if cfg.HTML.ShouldOpen() {
		result.Warnings = append(result.Warnings,
			"No browser found to open HTML output. Use --no-open or set ROD_BROWSER_BIN")
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2book doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Fonts")
	switch {
	case r.Fonts.OK && r.Fonts.Source == fonts.SourceEmbedded:
		fmt.Fprintln(w, "  [OK] Embedded Go fonts")
	case r.Fonts.OK:
		fmt.Fprintf(w, "  [OK] DejaVu fonts in %s\n", r.Fonts.Dir)
	case len(r.Fonts.Missing) > 0:
		fmt.Fprintf(w, "  [ERROR] Missing in %s: %s\n", r.Fonts.Dir, strings.Join(r.Fonts.Missing, ", "))
	default:
		fmt.Fprintln(w, "  [ERROR] Not usable")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Book")
	if r.Input.Found {
		fmt.Fprintf(w, "  [OK] Directory: %s\n", r.Input.Dir)
		fmt.Fprintf(w, "  [OK] Chapters: %d\n", r.Input.Chapters)
	} else {
		fmt.Fprintf(w, "  [ERROR] Directory not found: %s\n", r.Input.Dir)
	}
	switch {
	case r.Cover.Usable:
		fmt.Fprintf(w, "  [OK] Cover: %s (%s)\n", r.Cover.Path, r.Cover.Type)
	case r.Cover.Found:
		fmt.Fprintf(w, "  [WARN] Cover not usable: %s\n", r.Cover.Path)
	default:
		fmt.Fprintln(w, "  [--] Cover: none")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Browser")
	if r.Browser.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Browser.Path)
	} else {
		fmt.Fprintln(w, "  [--] Not found (HTML output will not be opened)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to build")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
