package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-docbuild"
	"github.com/alnah/go-docbuild/internal/buildcache"
	"github.com/alnah/go-docbuild/internal/config"
	"github.com/alnah/go-docbuild/internal/dateutil"
	"github.com/alnah/go-docbuild/internal/diagram"
	"github.com/alnah/go-docbuild/internal/yamlutil"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrOutputDir          = errors.New("failed to create output directory")
	ErrBuildFailed        = errors.New("build failed")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: pages and PDFs are meant to be read
)

const indexFileName = "index.html"

// stages selects the outputs of a command.
type stages struct {
	site bool // HTML pages and index
	pdf  bool
}

func stagesFor(cmd string) stages {
	switch cmd {
	case cmdHTML:
		return stages{site: true}
	case cmdPDF:
		return stages{pdf: true}
	default:
		return stages{site: true, pdf: true}
	}
}

// BuildError reports documents that failed. It unwraps to ErrBuildFailed and
// to the first failure so the exit code reflects its category.
type BuildError struct {
	Failed int
	Total  int
	First  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%v: %d of %d output(s) failed", ErrBuildFailed, e.Failed, e.Total)
}

func (e *BuildError) Unwrap() []error {
	return []error{ErrBuildFailed, e.First}
}

// builder holds everything shared by the documents of one build.
type builder struct {
	cfg      *config.Config
	stamp    dateutil.Stamp
	htmlDir  string
	pdfDir   string
	jobs     []docJob
	cache    *buildcache.Cache
	manifest string // fingerprint salt covering every manifest setting
	force    bool
}

// runBuild loads the manifest, builds the requested outputs and reports them.
func runBuild(ctx context.Context, st stages, flags *buildFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	warnUnknownEnvVars(env.Environ(), env.Stderr)
	overrides := loadEnvOverrides(env.Getenv, env.Stderr)

	cfg, err := loadManifest(flags, overrides)
	if err != nil {
		return err
	}

	stamp, err := dateutil.NewStamp(cfg.Project.Date, env.Now())
	if err != nil {
		return fmt.Errorf("project.date: %w", err)
	}

	opts, err := converterOptions(cfg)
	if err != nil {
		return err
	}

	poolSize := docbuild.ResolvePoolSize(cfg.Build.Workers)
	if flags.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := env.NewPool(poolSize, opts...)
	defer func() { _ = pool.Close() }()

	jobs, results := discoverDocuments(cfg)

	b := &builder{
		cfg:      cfg,
		stamp:    stamp,
		htmlDir:  cfg.HTMLDir(),
		pdfDir:   cfg.PDFDir(),
		jobs:     jobs,
		cache:    buildcache.Load(cfg.HTMLDir()),
		manifest: manifestFingerprint(cfg, stamp),
		force:    flags.force,
	}

	if st.site {
		if err := ensureDir(b.htmlDir); err != nil {
			return err
		}
		results = append(results, convertBatch(ctx, pool, jobs, b.buildPage)...)
	}

	if st.pdf {
		if err := ensureDir(b.pdfDir); err != nil {
			return err
		}
		results = append(results, convertBatch(ctx, pool, jobs, b.buildPDF)...)
	}

	if st.site {
		results = append(results, b.buildIndex(ctx, pool))
	}

	if err := b.cache.Save(); err != nil {
		fmt.Fprintf(env.Stderr, "warning: saving build cache: %v\n", err)
	}
	if flags.verbose {
		fmt.Fprintf(env.Stderr, "Build cache: %d entries in %s\n", b.cache.Len(), b.cache.Path())
	}

	summary := printResults(results, flags.quiet, flags.verbose, env.Stdout, env.Stderr)
	if summary.Failed > 0 {
		return &BuildError{Failed: summary.Failed, Total: len(results), First: firstError(results)}
	}
	return nil
}

// loadManifest loads the manifest and applies overrides.
// Precedence: CLI flags > environment > manifest > defaults.
func loadManifest(flags *buildFlags, env envOverrides) (*config.Config, error) {
	name := config.DefaultConfigName
	if env.ConfigPath != "" {
		name = env.ConfigPath
	}
	if flags.config != "" {
		name = flags.config
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}

	if err := mergeOverrides(cfg, flags, env); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeOverrides applies environment values, then flags, on top of cfg.
// Directories from the command line are relative to the working directory.
func mergeOverrides(cfg *config.Config, flags *buildFlags, env envOverrides) error {
	if env.Workers > 0 {
		cfg.Build.Workers = env.Workers
	}
	if env.Timeout > 0 {
		cfg.Build.Timeout = env.Timeout.String()
	}

	if flags.workers > 0 {
		cfg.Build.Workers = flags.workers
	}
	if flags.timeout != "" {
		cfg.Build.Timeout = flags.timeout
	}
	if flags.output != "" {
		abs, err := filepath.Abs(flags.output)
		if err != nil {
			return fmt.Errorf("%w: --output: %v", ErrUsage, err)
		}
		cfg.Output.HTMLDir = abs
	}
	if flags.pdfDir != "" {
		abs, err := filepath.Abs(flags.pdfDir)
		if err != nil {
			return fmt.Errorf("%w: --pdf-dir: %v", ErrUsage, err)
		}
		cfg.Output.PDFDir = abs
	}
	if flags.diagrams != "" {
		if _, err := diagram.ParseMode(flags.diagrams); err != nil {
			return fmt.Errorf("%w: --diagrams: %v", ErrUsage, err)
		}
		cfg.Diagrams.Site = flags.diagrams
		cfg.Diagrams.PDF = flags.diagrams
	}
	if flags.pageSize != "" {
		cfg.Page.Size = flags.pageSize
	}
	return nil
}

// validateWorkers checks the --workers value.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > docbuild.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, docbuild.MaxPoolSize)
	}
	return nil
}

// converterOptions maps the manifest to converter options.
func converterOptions(cfg *config.Config) ([]docbuild.Option, error) {
	opts := []docbuild.Option{
		docbuild.WithStyle(cfg.SiteStyle()),
		docbuild.WithPrintStyle(cfg.Style.Print),
		docbuild.WithHighlightStyle(cfg.Style.Highlight),
	}
	if d := cfg.BuildTimeout(); d > 0 {
		opts = append(opts, docbuild.WithTimeout(d))
	}
	if d := cfg.WaitTimeout(); d > 0 {
		opts = append(opts, docbuild.WithDiagramWait(d))
	}
	if dir := cfg.AssetsDir(); dir != "" {
		loader, err := docbuild.NewAssetLoader(dir)
		if err != nil {
			return nil, fmt.Errorf("assets.basePath: %w", err)
		}
		opts = append(opts, docbuild.WithAssetLoader(loader))
	}
	return opts, nil
}

// manifestFingerprint digests every setting that shapes the outputs, so a
// manifest edit rebuilds every document.
func manifestFingerprint(cfg *config.Config, stamp dateutil.Stamp) string {
	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		// Unmarshalable manifest: a salt that never matches forces a rebuild.
		return time.Now().String()
	}
	return buildcache.Fingerprint(data, Version, stamp.Date)
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("%w %s: %w", ErrOutputDir, dir, err)
	}
	return nil
}

func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

func toDiagramMode(m diagram.Mode) docbuild.DiagramMode {
	if m == diagram.ModeLive {
		return docbuild.DiagramsLive
	}
	return docbuild.DiagramsStatic
}
