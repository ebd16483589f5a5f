// Package config loads the YAML manifest that lists the documents of a build
// and the settings used to render them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-docbuild/internal/diagram"
	"github.com/alnah/go-docbuild/internal/fileutil"
	"github.com/alnah/go-docbuild/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidConfig   = errors.New("invalid config")
)

// DefaultConfigName is looked up when no --config is given.
const DefaultConfigName = "docbuild"

// appDirName is the directory under os.UserConfigDir searched for manifests.
const appDirName = "go-docbuild"

// Field length limits.
const (
	MaxNameLength        = 100
	MaxTitleLength       = 200
	MaxDescriptionLength = 500
	MaxPathLength        = 4096
	MaxURLLength         = 2048
	MaxTextLength        = 200 // header/footer/notice text
	MaxDateLength        = 50
	MaxStyleNameLength   = 64
	MaxDocuments         = 500
	MaxMarginMM          = 100
)

// Defaults applied to fields left empty in the manifest.
const (
	DefaultHTMLDir         = "docs"
	DefaultPDFDir          = "docs/pdf"
	DefaultPageSize        = "a4"
	DefaultOrientation     = "portrait"
	DefaultMarginTop       = 20.0
	DefaultMarginRight     = 15.0
	DefaultMarginBottom    = 20.0
	DefaultMarginLeft      = 15.0
	DefaultSiteDiagrams    = "live"
	DefaultPDFDiagrams     = "static"
	DefaultWaitTimeout     = "10s"
	DefaultBuildTimeout    = "60s"
	DefaultSiteStyle       = "site"
	DefaultPrintStyle      = "print"
	DefaultHighlightStyle  = "github"
	DefaultProjectDateSpec = "auto"
)

// Config is the build manifest.
type Config struct {
	Project   ProjectConfig    `yaml:"project"`
	Documents []DocumentConfig `yaml:"documents"`
	Output    OutputConfig     `yaml:"output"`
	Page      PageConfig       `yaml:"page"`
	Diagrams  DiagramsConfig   `yaml:"diagrams"`
	Header    HeaderConfig     `yaml:"header"`
	Footer    FooterConfig     `yaml:"footer"`
	Cover     CoverConfig      `yaml:"cover"`
	Style     StyleConfig      `yaml:"style"`
	Assets    AssetsConfig     `yaml:"assets"`
	Build     BuildConfig      `yaml:"build"`

	// Dir is the manifest's directory. Relative sources and output
	// directories resolve against it. Empty means the working directory.
	Dir string `yaml:"-"`
}

// ProjectConfig describes the documentation set as a whole.
type ProjectConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Copyright   string `yaml:"copyright"` // defaults to Name in page footers
	Date        string `yaml:"date"`      // "auto", "auto:FORMAT" or a literal
}

// DocumentConfig is one Markdown source of the build.
type DocumentConfig struct {
	Source      string `yaml:"source"`
	Title       string `yaml:"title"`
	Section     string `yaml:"section"`     // groups documents on the index page
	Description string `yaml:"description"` // shown on the index card
	Nav         bool   `yaml:"nav"`         // listed in the site navigation bar
}

// OutputConfig defines where generated files go.
type OutputConfig struct {
	HTMLDir string `yaml:"htmlDir"`
	PDFDir  string `yaml:"pdfDir"`
}

// PageConfig defines PDF page settings. Margins are in millimetres; zero
// selects the default.
type PageConfig struct {
	Size         string  `yaml:"size"`        // "a4", "letter", "legal"
	Orientation  string  `yaml:"orientation"` // "portrait", "landscape"
	MarginTop    float64 `yaml:"marginTop"`
	MarginRight  float64 `yaml:"marginRight"`
	MarginBottom float64 `yaml:"marginBottom"`
	MarginLeft   float64 `yaml:"marginLeft"`
}

// DiagramsConfig selects how diagram blocks are rendered per output.
type DiagramsConfig struct {
	Site        string `yaml:"site"`        // "live" or "static"
	PDF         string `yaml:"pdf"`         // "live" or "static"
	WaitTimeout string `yaml:"waitTimeout"` // how long printing waits for live diagrams
}

// HeaderConfig defines the PDF running header.
type HeaderConfig struct {
	Text string `yaml:"text"`
}

// FooterConfig defines the PDF running footer.
type FooterConfig struct {
	Text        string `yaml:"text"`        // e.g. "Confidential"
	PageNumbers *bool  `yaml:"pageNumbers"` // "Page N of M", default on
}

// CoverConfig defines the PDF cover page.
type CoverConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Title    string `yaml:"title"` // empty uses the document title
	Subtitle string `yaml:"subtitle"`
	Logo     string `yaml:"logo"` // path relative to the manifest, or URL
	Notice   string `yaml:"notice"`
}

// StyleConfig names the stylesheets used for each output.
type StyleConfig struct {
	Site      string `yaml:"site"`
	Print     string `yaml:"print"`
	Highlight string `yaml:"highlight"` // chroma style for code blocks
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty uses embedded assets only
}

// BuildConfig defines concurrency and time limits.
type BuildConfig struct {
	Workers int    `yaml:"workers"` // 0 = auto
	Timeout string `yaml:"timeout"` // per document
}

// ShowPageNumbers reports whether the footer prints "Page N of M".
func (f FooterConfig) ShowPageNumbers() bool {
	return f.PageNumbers == nil || *f.PageNumbers
}

// DisplayTitle returns the document title, derived from its source when unset.
func (d DocumentConfig) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return fileutil.OutputStem(d.Source)
}

// OutputStem is the file name, without extension, of the document's outputs.
func (d DocumentConfig) OutputStem() string {
	return fileutil.OutputStem(d.Source)
}

// SourcePath resolves a document source against the manifest directory.
func (c *Config) SourcePath(d DocumentConfig) string {
	return c.resolve(d.Source)
}

// HTMLDir returns the site output directory resolved against the manifest directory.
func (c *Config) HTMLDir() string {
	return c.resolve(c.Output.HTMLDir)
}

// PDFDir returns the PDF output directory resolved against the manifest directory.
func (c *Config) PDFDir() string {
	return c.resolve(c.Output.PDFDir)
}

// LogoPath returns the cover logo as a URL or a path resolved against the
// manifest directory. Empty when no logo is configured.
func (c *Config) LogoPath() string {
	if c.Cover.Logo == "" || fileutil.IsURL(c.Cover.Logo) {
		return c.Cover.Logo
	}
	return c.resolve(c.Cover.Logo)
}

// AssetsDir returns the custom asset directory, empty when unset.
func (c *Config) AssetsDir() string {
	return c.resolve(c.Assets.BasePath)
}

// SiteStyle returns the site style name, or the style file resolved against
// the manifest directory when it is a path.
func (c *Config) SiteStyle() string {
	if fileutil.IsFilePath(c.Style.Site) {
		return c.resolve(c.Style.Site)
	}
	return c.Style.Site
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// SiteDiagramMode returns the diagram mode of HTML pages.
func (c *Config) SiteDiagramMode() diagram.Mode {
	m, _ := diagram.ParseMode(c.Diagrams.Site)
	return m
}

// PDFDiagramMode returns the diagram mode of PDFs.
func (c *Config) PDFDiagramMode() diagram.Mode {
	m, _ := diagram.ParseMode(c.Diagrams.PDF)
	return m
}

// WaitTimeout returns how long printing waits for live diagrams.
func (c *Config) WaitTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Diagrams.WaitTimeout)
	return d
}

// BuildTimeout returns the per-document conversion timeout.
func (c *Config) BuildTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Build.Timeout)
	return d
}

// ApplyDefaults fills empty fields with their defaults.
func (c *Config) ApplyDefaults() {
	setDefault(&c.Project.Date, DefaultProjectDateSpec)
	setDefault(&c.Output.HTMLDir, DefaultHTMLDir)
	setDefault(&c.Output.PDFDir, DefaultPDFDir)
	setDefault(&c.Page.Size, DefaultPageSize)
	setDefault(&c.Page.Orientation, DefaultOrientation)
	setDefaultFloat(&c.Page.MarginTop, DefaultMarginTop)
	setDefaultFloat(&c.Page.MarginRight, DefaultMarginRight)
	setDefaultFloat(&c.Page.MarginBottom, DefaultMarginBottom)
	setDefaultFloat(&c.Page.MarginLeft, DefaultMarginLeft)
	setDefault(&c.Diagrams.Site, DefaultSiteDiagrams)
	setDefault(&c.Diagrams.PDF, DefaultPDFDiagrams)
	setDefault(&c.Diagrams.WaitTimeout, DefaultWaitTimeout)
	setDefault(&c.Style.Site, DefaultSiteStyle)
	setDefault(&c.Style.Print, DefaultPrintStyle)
	setDefault(&c.Style.Highlight, DefaultHighlightStyle)
	setDefault(&c.Build.Timeout, DefaultBuildTimeout)
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func setDefaultFloat(field *float64, value float64) {
	if *field == 0 {
		*field = value
	}
}

// Validate checks required fields, enumerations, durations and field lengths.
// Called by LoadConfig after ApplyDefaults; manifests built in code should
// call both as well.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Project.Name) == "" {
		return fmt.Errorf("%w: project.name is required", ErrInvalidConfig)
	}

	checks := []struct {
		field string
		value string
		max   int
	}{
		{"project.name", c.Project.Name, MaxNameLength},
		{"project.description", c.Project.Description, MaxDescriptionLength},
		{"project.copyright", c.Project.Copyright, MaxNameLength},
		{"project.date", c.Project.Date, MaxDateLength},
		{"output.htmlDir", c.Output.HTMLDir, MaxPathLength},
		{"output.pdfDir", c.Output.PDFDir, MaxPathLength},
		{"header.text", c.Header.Text, MaxTextLength},
		{"footer.text", c.Footer.Text, MaxTextLength},
		{"cover.title", c.Cover.Title, MaxTitleLength},
		{"cover.subtitle", c.Cover.Subtitle, MaxTitleLength},
		{"cover.logo", c.Cover.Logo, MaxURLLength},
		{"cover.notice", c.Cover.Notice, MaxTextLength},
		{"style.site", c.Style.Site, MaxStyleNameLength},
		{"style.print", c.Style.Print, MaxStyleNameLength},
		{"style.highlight", c.Style.Highlight, MaxStyleNameLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, chk := range checks {
		if err := validateFieldLength(chk.field, chk.value, chk.max); err != nil {
			return err
		}
	}

	if err := c.validateDocuments(); err != nil {
		return err
	}
	if err := c.validatePage(); err != nil {
		return err
	}

	for field, value := range map[string]string{"diagrams.site": c.Diagrams.Site, "diagrams.pdf": c.Diagrams.PDF} {
		if _, err := diagram.ParseMode(value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, field, err)
		}
	}

	for field, value := range map[string]string{"diagrams.waitTimeout": c.Diagrams.WaitTimeout, "build.timeout": c.Build.Timeout} {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not a duration", ErrInvalidConfig, field, value)
		}
		if d <= 0 {
			return fmt.Errorf("%w: %s: must be positive, got %s", ErrInvalidConfig, field, value)
		}
	}

	if c.Build.Workers < 0 {
		return fmt.Errorf("%w: build.workers: must be >= 0, got %d", ErrInvalidConfig, c.Build.Workers)
	}

	return nil
}

func (c *Config) validateDocuments() error {
	if len(c.Documents) == 0 {
		return fmt.Errorf("%w: documents: at least one document is required", ErrInvalidConfig)
	}
	if len(c.Documents) > MaxDocuments {
		return fmt.Errorf("%w: documents: %d entries (max %d)", ErrInvalidConfig, len(c.Documents), MaxDocuments)
	}

	sources := make(map[string]int, len(c.Documents))
	stems := make(map[string]int, len(c.Documents))

	for i, doc := range c.Documents {
		prefix := fmt.Sprintf("documents[%d]", i)

		if strings.TrimSpace(doc.Source) == "" {
			return fmt.Errorf("%w: %s.source is required", ErrInvalidConfig, prefix)
		}
		for _, chk := range []struct {
			field string
			value string
			max   int
		}{
			{prefix + ".source", doc.Source, MaxPathLength},
			{prefix + ".title", doc.Title, MaxTitleLength},
			{prefix + ".section", doc.Section, MaxNameLength},
			{prefix + ".description", doc.Description, MaxDescriptionLength},
		} {
			if err := validateFieldLength(chk.field, chk.value, chk.max); err != nil {
				return err
			}
		}

		key := filepath.ToSlash(filepath.Clean(doc.Source))
		if j, dup := sources[key]; dup {
			return fmt.Errorf("%w: %s.source duplicates documents[%d]: %s", ErrInvalidConfig, prefix, j, doc.Source)
		}
		sources[key] = i

		stem := doc.OutputStem()
		if j, dup := stems[stem]; dup {
			return fmt.Errorf("%w: %s and documents[%d] both write %q", ErrInvalidConfig, prefix, j, stem)
		}
		stems[stem] = i
	}
	return nil
}

func (c *Config) validatePage() error {
	switch strings.ToLower(c.Page.Size) {
	case "a4", "letter", "legal":
	default:
		return fmt.Errorf("%w: page.size: invalid value %q (must be a4, letter, or legal)", ErrInvalidConfig, c.Page.Size)
	}

	switch strings.ToLower(c.Page.Orientation) {
	case "portrait", "landscape":
	default:
		return fmt.Errorf("%w: page.orientation: invalid value %q (must be portrait or landscape)", ErrInvalidConfig, c.Page.Orientation)
	}

	margins := []struct {
		field string
		value float64
	}{
		{"page.marginTop", c.Page.MarginTop},
		{"page.marginRight", c.Page.MarginRight},
		{"page.marginBottom", c.Page.MarginBottom},
		{"page.marginLeft", c.Page.MarginLeft},
	}
	for _, m := range margins {
		if m.value < 0 || m.value > MaxMarginMM {
			return fmt.Errorf("%w: %s: must be between 0 and %d mm, got %.1f", ErrInvalidConfig, m.field, MaxMarginMM, m.value)
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads a manifest from a file path or config name.
// A value containing a path separator is a file path. Otherwise it is a name
// searched in the working directory and the user config directory.
// There is no silent fallback: a missing manifest is an error.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yamlutil.DecodeFile(configPath, &cfg, true); err != nil {
		var pathErr *fs.PathError
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		case errors.As(err, &pathErr):
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	cfg.Dir = filepath.Dir(absPath)

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveConfigPath searches for a manifest by name.
// Tries extensions .yaml then .yml, in the working directory first and then
// in the user config directory (e.g. ~/.config/go-docbuild/).
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	dirs := []string{"."}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userConfigDir, appDirName))
	}

	tried := make([]string, 0, len(extensions)*len(dirs))
	for _, dir := range dirs {
		for _, ext := range extensions {
			candidate := name + ext
			if dir != "." {
				candidate = filepath.Join(dir, candidate)
			}
			if fileutil.FileExists(candidate) {
				return candidate, nil
			}
			tried = append(tried, candidate)
		}
	}

	return "", &NotFoundError{Name: name, Tried: tried}
}

// NotFoundError lists the paths searched for a named manifest.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %q (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Tried, ", "))
}

// Unwrap lets errors.Is match ErrConfigNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrConfigNotFound
}
