package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}

// hasVerboseFlag scans raw arguments before any flag set exists.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// run dispatches a command and returns the process exit code. Without a
// command name the arguments go to convert.
func run(ctx context.Context, args []string, env *Environment) int {
	cmd, rest := "convert", args
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, rest = args[0], args[1:]
	}

	switch cmd {
	case "convert":
		flags, positional, err := parseConvertFlags(rest, env.Stderr)
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		if err != nil {
			return reportError(env.Stderr, fmt.Errorf("%w: %v", ErrUsage, err))
		}
		if len(positional) > 0 {
			return reportError(env.Stderr, fmt.Errorf("%w: unexpected argument %q", ErrUsage, positional[0]))
		}
		return reportError(env.Stderr, runConvert(ctx, flags, env))
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		return reportError(env.Stderr, runCompletion(rest, env))
	case "version":
		fmt.Fprintf(env.Stdout, "md2book %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		printUsage(env.Stderr)
		return reportError(env.Stderr, fmt.Errorf("%w: unknown command %q", ErrUsage, cmd))
	}
}

// reportError prints err, if any, and returns its exit code.
func reportError(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return exitCodeFor(err)
}
