package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// buildFlags holds the flags shared by build, html and pdf.
type buildFlags struct {
	config   string
	output   string
	pdfDir   string
	workers  int
	timeout  string
	diagrams string
	pageSize string
	force    bool
	quiet    bool
	verbose  bool
}

// parseBuildFlags parses the flags of a build command and returns the
// remaining positional arguments.
func parseBuildFlags(cmd string, args []string, usage io.Writer) (*buildFlags, []string, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &buildFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "manifest name or path (default \"docbuild\")")
	fs.StringVarP(&f.output, "output", "o", "", "HTML output directory")
	fs.StringVar(&f.pdfDir, "pdf-dir", "", "PDF output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document timeout (e.g. 30s, 2m)")
	fs.StringVar(&f.diagrams, "diagrams", "", "diagram mode for every output: static, live")
	fs.StringVar(&f.pageSize, "page-size", "", "PDF page size: a4, letter, legal")
	fs.BoolVar(&f.force, "force", false, "rebuild documents even when unchanged")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing and skipped documents")

	fs.Usage = func() { printBuildUsage(usage, cmd) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
