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

// Command names.
const (
	cmdBuild   = "build"
	cmdHTML    = "html"
	cmdPDF     = "pdf"
	cmdDoctor  = "doctor"
	cmdVersion = "version"
	cmdHelp    = "help"
)

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches the command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case cmdVersion, "--version":
		fmt.Fprintf(env.Stdout, "docbuild %s\n", Version)
		return ExitSuccess
	case cmdHelp, "-h", "--help":
		return runHelp(rest, env)
	case cmdDoctor:
		return runDoctorCmd(rest, env)
	case cmdBuild, cmdHTML, cmdPDF:
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	flags, positional, err := parseBuildFlags(cmd, rest, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}
	if len(positional) > 0 {
		fmt.Fprintf(env.Stderr, "%v: unexpected arguments: %s\n", ErrUsage, strings.Join(positional, " "))
		fmt.Fprintln(env.Stderr, "  hint: documents are listed in the manifest, see 'docbuild help "+cmd+"'")
		return ExitUsage
	}

	setMaxProcs(flags.verbose, env.Stderr)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runBuild(ctx, stagesFor(cmd), flags, env); err != nil {
		var be *BuildError
		if errors.As(err, &be) {
			// Each failure was already reported with its hint.
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
		} else {
			fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// setMaxProcs tunes GOMAXPROCS to the container CPU quota.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(verbose bool, w io.Writer) {
	logf := func(string, ...any) {}
	if verbose {
		logf = func(format string, args ...any) {
			fmt.Fprintf(w, format+"\n", args...)
		}
	}
	_, _ = maxprocs.Set(maxprocs.Logger(logf))
}
