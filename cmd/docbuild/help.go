package main

import (
	"fmt"
	"io"
)

// commandSummaries describes the build commands, in display order.
var commandSummaries = []struct{ name, summary string }{
	{"build", "Build the HTML site, its index page and the PDFs"},
	{"html", "Build the HTML site and its index page only"},
	{"pdf", "Build the PDFs only"},
}

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docbuild <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commandSummaries {
		fmt.Fprintf(w, "  %-9s  %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w, "  doctor     Check the system and manifest before a build")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docbuild help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for build, html or pdf.
func printBuildUsage(w io.Writer, cmd string) {
	fmt.Fprintf(w, "Usage: docbuild %s [flags]\n", cmd)
	fmt.Fprintln(w)
	for _, c := range commandSummaries {
		if c.name == cmd {
			fmt.Fprintln(w, c.summary+" listed in the manifest.")
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Manifest:")
	fmt.Fprintln(w, "  -c, --config <name>       Manifest name or path (default: docbuild)")
	fmt.Fprintln(w, "                            Names are searched in . and the user config dir")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        HTML output directory (default: docs)")
	fmt.Fprintln(w, "      --pdf-dir <dir>       PDF output directory (default: docs/pdf)")
	fmt.Fprintln(w, "      --force               Rebuild documents even when unchanged")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --diagrams <mode>     static or live, for every output")
	fmt.Fprintln(w, "                            (default: live for HTML, static for PDF)")
	fmt.Fprintln(w, "      --page-size <s>       PDF page size: a4, letter, legal")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-document timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show timing and skipped documents")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  %-25s Manifest name or path\n", envConfig)
	fmt.Fprintf(w, "  %-25s Parallel workers\n", envWorkers)
	fmt.Fprintf(w, "  %-25s Per-document timeout\n", envTimeout)
	fmt.Fprintf(w, "  %-25s Chrome binary to use for PDFs\n", "ROD_BROWSER_BIN")
	fmt.Fprintf(w, "  %-25s Set to 1 to disable the Chrome sandbox\n", "ROD_NO_SANDBOX")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case cmdBuild, cmdHTML, cmdPDF:
		printBuildUsage(env.Stdout, args[0])
	case cmdDoctor:
		printDoctorUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: docbuild version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: docbuild help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
