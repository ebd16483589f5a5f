package docbuild

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-docbuild/internal/fileutil"
)

// Page size constants.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds and defaults in millimetres.
const (
	MinMarginMM = 0.0
	MaxMarginMM = 100.0

	DefaultMarginTopMM    = 20.0
	DefaultMarginRightMM  = 15.0
	DefaultMarginBottomMM = 20.0
	DefaultMarginLeftMM   = 15.0
)

// Margins holds page margins in millimetres.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string // "a4", "letter", "legal"
	Orientation string // "portrait", "landscape"
	Margins     Margins
}

// DefaultPageSettings returns A4 portrait with the default margins.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margins: Margins{
			Top:    DefaultMarginTopMM,
			Right:  DefaultMarginRightMM,
			Bottom: DefaultMarginBottomMM,
			Left:   DefaultMarginLeftMM,
		},
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	sides := []struct {
		name  string
		value float64
	}{
		{"top", p.Margins.Top},
		{"right", p.Margins.Right},
		{"bottom", p.Margins.Bottom},
		{"left", p.Margins.Left},
	}
	for _, s := range sides {
		if s.value < MinMarginMM || s.value > MaxMarginMM {
			return fmt.Errorf("%w: %s %.1fmm (must be between %.0f and %.0f)", ErrInvalidMargin, s.name, s.value, MinMarginMM, MaxMarginMM)
		}
	}

	return nil
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Header configures the PDF running header.
type Header struct {
	Text string
}

// Footer configures the PDF running footer.
type Footer struct {
	Text        string // left-aligned, e.g. "Confidential"
	PageNumbers bool   // right-aligned "Page N of M"
}

// Cover configures the PDF cover page.
type Cover struct {
	Title    string // empty uses Input.Title
	Subtitle string
	Logo     string // file path or URL, empty for a text logo
	Notice   string
	Date     string
}

// Validate checks that a local logo file exists.
// Returns nil if c is nil (nil means no cover).
func (c *Cover) Validate() error {
	if c == nil || c.Logo == "" || fileutil.IsURL(c.Logo) || strings.HasPrefix(c.Logo, "file://") {
		return nil
	}
	if !fileutil.FileExists(c.Logo) {
		return fmt.Errorf("%w: %q", ErrCoverLogoNotFound, c.Logo)
	}
	return nil
}

// NavLink is one entry of the site navigation bar.
type NavLink struct {
	Title  string
	Href   string
	Active bool
}

// DiagramMode selects how diagram blocks are rendered.
type DiagramMode int

const (
	// DiagramsDefault uses the converter's mode (see WithDiagramMode).
	DiagramsDefault DiagramMode = iota
	// DiagramsStatic replaces diagrams with a labelled source preview.
	DiagramsStatic
	// DiagramsLive keeps diagrams for mermaid.js to draw in the browser.
	DiagramsLive
)

// String returns "static", "live" or "default".
func (m DiagramMode) String() string {
	switch m {
	case DiagramsStatic:
		return "static"
	case DiagramsLive:
		return "live"
	default:
		return "default"
	}
}

// Input contains conversion parameters.
type Input struct {
	Markdown  string // Markdown content (required)
	Title     string // page <title>, cover title fallback
	Project   string
	Copyright string // footer owner, defaults to Project
	Generated string // human-readable build date
	Year      int    // copyright year, 0 = current

	// SourceDir resolves relative images and links. With OutputDir set they
	// become relative to it (site pages), otherwise file:// URLs (PDFs).
	SourceDir string
	OutputDir string
	// Links maps document sources ("guide.md") to their output ("guide.html").
	Links map[string]string

	CSS      string      // appended after the built-in styles
	Nav      []NavLink   // site navigation bar
	Diagrams DiagramMode // DiagramsDefault = converter's mode

	Cover  *Cover        // PDF cover page (optional)
	Page   *PageSettings // nil = defaults
	Header *Header       // PDF running header (optional)
	Footer *Footer       // PDF running footer (optional)

	HTMLOnly bool // skip PDF generation
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	HTML     []byte
	PDF      []byte // nil when Input.HTMLOnly
	Diagrams int    // diagram blocks rewritten
	Images   int    // placeholder images rewritten
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout        time.Duration
	diagramWait    time.Duration
	diagramMode    DiagramMode
	styleInput     string // name or path of the site style
	printStyle     string
	highlightStyle string
	resolvedStyle  string // CSS injected into every page
}

// Defaults used when no option overrides them.
const (
	defaultTimeout     = 60 * time.Second
	defaultDiagramWait = 10 * time.Second
)

// WithTimeout sets the conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("docbuild: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithDiagramWait bounds how long printing waits for live diagrams.
// Panics if d <= 0.
func WithDiagramWait(d time.Duration) Option {
	if d <= 0 {
		panic("docbuild: WithDiagramWait duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.diagramWait = d
	}
}

// WithDiagramMode sets the default diagram mode (static unless set).
func WithDiagramMode(m DiagramMode) Option {
	return func(c *Converter) {
		c.cfg.diagramMode = m
	}
}

// WithStyle sets the site style by name or file path (default "site").
func WithStyle(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = nameOrPath
	}
}

// WithPrintStyle sets the print style name (default "print").
func WithPrintStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.printStyle = name
	}
}

// WithHighlightStyle sets the chroma style used for code blocks (default "github").
func WithHighlightStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.highlightStyle = name
	}
}

// WithAssetLoader overrides where styles and templates come from.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.assetLoader = loader
	}
}
