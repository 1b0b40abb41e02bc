package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"format":    {Values: []string{"epub", "html", "pdf", "md", "all"}},
	"page-size": {Values: []string{"a4", "letter", "legal"}},

	"config":     {FileGlob: "*.yaml,*.yml"},
	"style":      {FileGlob: "*.css"},
	"epub-style": {FileGlob: "*.css"},

	"input":      {IsDir: true},
	"output-dir": {IsDir: true},
	"fonts":      {IsDir: true},
	"asset-path": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Convert flags are extracted from the real FlagSet.
func getCommands() []commandDef {
	return []commandDef{
		{Name: "convert", Desc: "Build the book", Flags: extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{}))},
		{Name: "doctor", Desc: "Check fonts, chapters, cover and browser", Flags: []flagDef{
			{Long: "config", Short: "c", Type: flagFile, Desc: "config file name or path", FileGlob: "*.yaml,*.yml"},
			{Long: "input", Short: "i", Type: flagDir, Desc: "chapter directory"},
			{Long: "json", Type: flagBool, Desc: "machine-readable output"},
		}},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	bw := bufio.NewWriter(w)
	switch shell {
	case ShellBash:
		generateBash(bw, getCommands())
	case ShellZsh:
		generateZsh(bw, getCommands())
	case ShellFish:
		generateFish(bw, getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	return bw.Flush()
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func flagWords(flags []flagDef) string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return strings.Join(words, " ")
}

// globExtensions turns "*.yaml,*.yml" into ["yaml", "yml"].
func globExtensions(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		exts = append(exts, strings.TrimPrefix(strings.TrimSpace(g), "*."))
	}
	return exts
}

func generateBash(w io.Writer, cmds []commandDef) {
	fmt.Fprintln(w, "# bash completion for md2book")
	fmt.Fprintln(w, "_md2book() {")
	fmt.Fprintln(w, `    local cur prev cmd`)
	fmt.Fprintln(w, `    cur="${COMP_WORDS[COMP_CWORD]}"`)
	fmt.Fprintln(w, `    prev="${COMP_WORDS[COMP_CWORD-1]}"`)
	fmt.Fprintln(w, `    cmd="convert"`)
	fmt.Fprintln(w, `    if [[ ${COMP_CWORD} -gt 1 && "${COMP_WORDS[1]}" != -* ]]; then cmd="${COMP_WORDS[1]}"; fi`)
	fmt.Fprintln(w)
	fmt.Fprintln(w, `    case "$prev" in`)
	for _, c := range cmds {
		for _, f := range c.Flags {
			pattern := "--" + f.Long
			if f.Short != "" {
				pattern += "|-" + f.Short
			}
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(w, "        %s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", pattern, strings.Join(f.Values, " "))
			case flagFile:
				exts := strings.Join(globExtensions(f.FileGlob), "|")
				fmt.Fprintf(w, "        %s) COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"$cur\")); return ;;\n", pattern, exts)
			case flagDir:
				fmt.Fprintf(w, "        %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", pattern)
			}
		}
	}
	fmt.Fprintln(w, `    esac`)
	fmt.Fprintln(w)
	fmt.Fprintln(w, `    case "$cmd" in`)
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(w, "        %s) COMPREPLY=($(compgen -W %q -- \"$cur\")) ;;\n", c.Name, flagWords(c.Flags))
	}
	fmt.Fprintln(w, `        completion) COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur")) ;;`)
	fmt.Fprintln(w, `    esac`)
	fmt.Fprintf(w, "    if [[ ${COMP_CWORD} -eq 1 && \"$cur\" != -* ]]; then COMPREPLY=($(compgen -W %q -- \"$cur\")); fi\n", commandNames(cmds))
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w, "complete -o filenames -F _md2book md2book")
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

func generateZsh(w io.Writer, cmds []commandDef) {
	fmt.Fprintln(w, "#compdef md2book")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "_md2book() {")
	fmt.Fprintln(w, "    local -a commands")
	fmt.Fprintln(w, "    commands=(")
	for _, c := range cmds {
		fmt.Fprintf(w, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	fmt.Fprintln(w, "    )")
	fmt.Fprintln(w)
	fmt.Fprintln(w, `    if (( CURRENT == 2 )) && [[ ${words[2]} != -* ]]; then`)
	fmt.Fprintln(w, "        _describe 'command' commands")
	fmt.Fprintln(w, "        return")
	fmt.Fprintln(w, "    fi")
	fmt.Fprintln(w)
	fmt.Fprintln(w, `    local cmd=convert`)
	fmt.Fprintln(w, `    [[ ${words[2]} != -* ]] && cmd=${words[2]}`)
	fmt.Fprintln(w, `    case $cmd in`)
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(w, "        %s)\n", c.Name)
		fmt.Fprintln(w, "            _arguments \\")
		for _, f := range c.Flags {
			fmt.Fprintf(w, "                %s \\\n", zshSpec(f))
		}
		fmt.Fprintln(w, "            ;;")
	}
	fmt.Fprintln(w, `        completion) _values 'shell' bash zsh fish ;;`)
	fmt.Fprintln(w, "    esac")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)
	fmt.Fprintln(w, `_md2book "$@"`)
}

func zshSpec(f flagDef) string {
	names := "--" + f.Long
	if f.Short != "" {
		names = "{-" + f.Short + ",--" + f.Long + "}"
	}
	desc := "[" + zshEscape(f.Desc) + "]"
	var action string
	switch f.Type {
	case flagBool:
		return "'" + names + desc + "'"
	case flagEnum:
		action = ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":file:_files -g \"" + strings.Join(strings.Split(f.FileGlob, ","), " ") + "\""
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":value:"
	}
	if f.Short != "" {
		return names + "'" + desc + action + "'"
	}
	return "'" + names + desc + action + "'"
}

func generateFish(w io.Writer, cmds []commandDef) {
	fmt.Fprintln(w, "# fish completion for md2book")
	fmt.Fprintln(w, "complete -c md2book -f")
	for _, c := range cmds {
		fmt.Fprintf(w, "complete -c md2book -n '__fish_use_subcommand' -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	for _, c := range cmds {
		cond := "__fish_seen_subcommand_from " + c.Name
		if c.Name == "convert" {
			cond = "not __fish_seen_subcommand_from doctor completion version help"
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c md2book -n '%s' -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += " -x -a '" + strings.Join(f.Values, " ") + "'"
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			default:
				line += " -r"
			}
			line += " -d '" + fishEscape(f.Desc) + "'"
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w, "complete -c md2book -n '__fish_seen_subcommand_from completion' -x -a 'bash zsh fish'")
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2book completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(md2book completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(md2book completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    md2book completion fish > ~/.config/fish/completions/md2book.fish")
}
