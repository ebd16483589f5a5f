package docbuild

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-docbuild/internal/assets"
	"github.com/alnah/go-docbuild/internal/diagram"
	"github.com/alnah/go-docbuild/internal/fileutil"
	"github.com/alnah/go-docbuild/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pipeline.CoverInjector        = (*pipeline.CoverInjection)(nil)
	_ pdfConverter                  = (*rodConverter)(nil)
	_ pdfRenderer                   = (*rodRenderer)(nil)
	_ assets.AssetLoader            = (AssetLoader)(nil)
)

// Converter orchestrates the Markdown to HTML page to PDF pipeline.
// Create with NewConverter(), use Convert() for documents, RenderIndex() for
// the site landing page, and Close() when done.
type Converter struct {
	cfg           converterConfig
	assetLoader   AssetLoader
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	cssInjector   pipeline.CSSInjector
	coverInjector pipeline.CoverInjector
	pageRenderer  *pipeline.PageRenderer
	indexRenderer *pipeline.IndexRenderer
	pdfConverter  pdfConverter
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithStyle, WithDiagramMode).
// Returns error if asset loading or template parsing fails.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:        defaultTimeout,
			diagramWait:    defaultDiagramWait,
			diagramMode:    DiagramsStatic,
			printStyle:     DefaultPrintStyle,
			highlightStyle: pipeline.DefaultHighlightStyle,
		},
		preprocessor:  pipeline.NewCommonMarkPreprocessor(),
		htmlConverter: pipeline.NewGoldmarkConverter(),
		cssInjector:   &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.assetLoader == nil {
		loader, err := NewAssetLoader("")
		if err != nil {
			return nil, err
		}
		c.assetLoader = loader
	}
	if c.cfg.diagramMode == DiagramsDefault {
		c.cfg.diagramMode = DiagramsStatic
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	templates, err := assets.LoadTemplateSet(c.assetLoader)
	if err != nil {
		return nil, err
	}

	if c.coverInjector == nil {
		if c.coverInjector, err = pipeline.NewCoverInjection(templates.Cover); err != nil {
			return nil, fmt.Errorf("initializing cover injector: %w", err)
		}
	}
	if c.pageRenderer, err = pipeline.NewPageRenderer(templates.Page); err != nil {
		return nil, fmt.Errorf("initializing page renderer: %w", err)
	}
	if c.indexRenderer, err = pipeline.NewIndexRenderer(templates.Index); err != nil {
		return nil, fmt.Errorf("initializing index renderer: %w", err)
	}

	// Create PDF converter if not injected (e.g., by tests)
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}

	return c, nil
}

// Convert runs the full pipeline and returns the page HTML and, unless
// input.HTMLOnly is set, the PDF printed from it.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	mode := c.cfg.diagramMode
	if input.Diagrams != DiagramsDefault {
		mode = input.Diagrams
	}

	pre := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown, toDiagramMode(mode))
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	body, err := c.htmlConverter.ToHTML(ctx, pre.Markdown)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	if input.SourceDir != "" || len(input.Links) > 0 {
		body, err = pipeline.RewriteRelativePaths(body, pipeline.PathRewrite{
			SourceDir: input.SourceDir,
			OutputDir: input.OutputDir,
			Links:     input.Links,
		})
		if err != nil {
			return nil, fmt.Errorf("rewriting relative paths: %w", err)
		}
	}

	liveDiagrams := mode == DiagramsLive && pre.Diagrams > 0

	htmlContent, err := c.pageRenderer.RenderPage(ctx, pipeline.PageData{
		Title:        input.Title,
		Project:      input.Project,
		Copyright:    input.Copyright,
		Content:      body,
		Generated:    input.Generated,
		Year:         yearOrNow(input.Year),
		Nav:          toNavLinks(input.Nav),
		LiveDiagrams: liveDiagrams,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}

	// Built-in styles first, user CSS last so it can override them.
	cssContent := c.cfg.resolvedStyle
	if input.CSS != "" {
		cssContent += "\n" + input.CSS
	}
	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, cssContent)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	htmlContent, err = c.coverInjector.InjectCover(ctx, htmlContent, toCoverData(input))
	if err != nil {
		return nil, fmt.Errorf("injecting cover: %w", err)
	}

	res := &ConvertResult{
		HTML:     []byte(htmlContent),
		Diagrams: pre.Diagrams,
		Images:   pre.Images,
	}

	if input.HTMLOnly {
		return res, nil
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, &pdfOptions{
		Page:         input.Page,
		Header:       input.Header,
		Footer:       input.Footer,
		WaitDiagrams: liveDiagrams,
		DiagramWait:  c.cfg.diagramWait,
	})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}

	res.PDF = pdfBytes
	return res, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// resolveStyle builds the stylesheet injected into every page: the site
// style (by name or file path), the print style and the code highlighting CSS.
func (c *Converter) resolveStyle() error {
	site := c.cfg.styleInput
	if site == "" {
		site = DefaultStyle
	}

	var parts []string

	if fileutil.IsFilePath(site) {
		content, err := os.ReadFile(site) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", site, err)
		}
		parts = append(parts, string(content))
	} else {
		css, err := c.assetLoader.LoadStyle(site)
		if err != nil {
			return fmt.Errorf("loading style %q: %w", site, err)
		}
		parts = append(parts, css)
	}

	if c.cfg.printStyle != "" {
		css, err := c.assetLoader.LoadStyle(c.cfg.printStyle)
		if err != nil {
			return fmt.Errorf("loading print style %q: %w", c.cfg.printStyle, err)
		}
		parts = append(parts, css)
	}

	highlight, err := pipeline.HighlightCSS(c.cfg.highlightStyle)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnknownHighlightStyle) {
			return fmt.Errorf("%w: %q", ErrUnknownHighlightStyle, c.cfg.highlightStyle)
		}
		return err
	}
	parts = append(parts, highlight)

	c.cfg.resolvedStyle = strings.Join(parts, "\n")
	return nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI users have their manifest validated earlier by Config.Validate().
func (c *Converter) validateInput(input Input) error {
	if strings.TrimSpace(input.Markdown) == "" {
		return ErrEmptyMarkdown
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	if err := input.Cover.Validate(); err != nil {
		return err
	}
	return nil
}

// toDiagramMode maps the public mode to the rewriter's mode.
func toDiagramMode(m DiagramMode) diagram.Mode {
	if m == DiagramsLive {
		return diagram.ModeLive
	}
	return diagram.ModeStatic
}

// toNavLinks converts the public NavLink type to pipeline.NavLink.
func toNavLinks(links []NavLink) []pipeline.NavLink {
	if len(links) == 0 {
		return nil
	}
	out := make([]pipeline.NavLink, len(links))
	for i, l := range links {
		out[i] = pipeline.NavLink(l)
	}
	return out
}

// toCoverData converts the public Cover type to pipeline.CoverData.
// Local logo paths become file:// URLs so the printed page can load them.
func toCoverData(input Input) *pipeline.CoverData {
	cv := input.Cover
	if cv == nil {
		return nil
	}
	title := cv.Title
	if title == "" {
		title = input.Title
	}
	return &pipeline.CoverData{
		Title:    title,
		Subtitle: cv.Subtitle,
		Logo:     logoURL(cv.Logo),
		Notice:   cv.Notice,
		Project:  input.Project,
		Date:     cv.Date,
	}
}

// logoURL returns URLs unchanged and turns file paths into file:// URLs.
func logoURL(logo string) string {
	if logo == "" || fileutil.IsURL(logo) || strings.HasPrefix(logo, "file://") {
		return logo
	}
	abs, err := filepath.Abs(logo)
	if err != nil {
		return logo
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // Windows drive letters
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

func yearOrNow(year int) int {
	if year > 0 {
		return year
	}
	return time.Now().Year()
}
