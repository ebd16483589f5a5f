package docbuild

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-docbuild/internal/fileutil"
	"github.com/alnah/go-docbuild/internal/process"
)

// pdfConverter abstracts HTML to PDF conversion to allow different backends.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfOptions holds options for PDF generation.
type pdfOptions struct {
	Page   *PageSettings
	Header *Header
	Footer *Footer

	// WaitDiagrams makes the renderer wait for mermaid.js to draw every
	// .mermaid block, then scale the SVGs to the page.
	WaitDiagrams bool
	DiagramWait  time.Duration
}

const mmPerInch = 25.4

// pageDimensions holds portrait sizes in inches.
var pageDimensions = map[string]struct{ width, height float64 }{
	PageSizeA4:     {8.27, 11.69},
	PageSizeLetter: {8.5, 11.0},
	PageSizeLegal:  {8.5, 14.0},
}

// diagramsReadyJS reports whether every live diagram holds its SVG.
const diagramsReadyJS = `() => Array.from(document.querySelectorAll('.mermaid')).every(el => el.querySelector('svg') !== null)`

// fontFamily styles Chrome's header and footer, which do not see page CSS.
const fontFamily = "-apple-system, 'Segoe UI', Roboto, sans-serif"

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	timeout time.Duration

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// newRodRenderer creates a rodRenderer with the given timeout.
func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New().Headless(true)

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		killLauncher(l)
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = browser
	r.launcher = l
	return browser, nil
}

// Close releases browser resources. Safe to call more than once.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		killLauncher(r.launcher)
		r.launcher = nil
	}
	return err
}

// killLauncher takes down Chrome and its helper processes.
func killLauncher(l *launcher.Launcher) {
	process.KillProcessGroup(l.PID())
	l.Kill()
	l.Cleanup()
}

// RenderFromFile opens a local HTML file in headless Chrome and renders it to PDF.
// Returns explicit errors instead of panicking when browser operations fail.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	page = page.Context(ctx)

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if opts != nil && opts.WaitDiagrams {
		if err := waitForDiagrams(ctx, page, opts.DiagramWait); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// waitForDiagrams blocks until mermaid.js has drawn every diagram, then
// scales the SVGs with the tier table.
func waitForDiagrams(ctx context.Context, page *rod.Page, wait time.Duration) error {
	if wait <= 0 {
		wait = defaultDiagramWait
	}

	if err := page.Timeout(wait).Wait(rod.Eval(diagramsReadyJS)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: after %s", ErrDiagramTimeout, wait)
		}
		return fmt.Errorf("%w: %v", ErrDiagramTimeout, err)
	}

	if _, err := page.Eval(scaleDiagramsJS, scaleTiers); err != nil {
		return fmt.Errorf("%w: scaling diagrams: %v", ErrPDFGeneration, err)
	}
	return nil
}

// resolvePageDimensions returns paper width and height in inches, honouring orientation.
func resolvePageDimensions(page *PageSettings) (width, height float64) {
	if page == nil {
		page = DefaultPageSettings()
	}

	dims, ok := pageDimensions[strings.ToLower(page.Size)]
	if !ok {
		dims = pageDimensions[PageSizeA4]
	}

	if strings.ToLower(page.Orientation) == OrientationLandscape {
		return dims.height, dims.width
	}
	return dims.width, dims.height
}

// buildPDFOptions constructs proto.PagePrintToPDF from page, header and footer settings.
func buildPDFOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	var page *PageSettings
	var header *Header
	var footer *Footer
	if opts != nil {
		page, header, footer = opts.Page, opts.Header, opts.Footer
	}
	if page == nil {
		page = DefaultPageSettings()
	}

	width, height := resolvePageDimensions(page)

	pdfOpts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(page.Margins.Top / mmPerInch),
		MarginRight:     floatPtr(page.Margins.Right / mmPerInch),
		MarginBottom:    floatPtr(page.Margins.Bottom / mmPerInch),
		MarginLeft:      floatPtr(page.Margins.Left / mmPerInch),
		PrintBackground: true,
	}

	if header != nil || footer != nil {
		pdfOpts.DisplayHeaderFooter = true
		pdfOpts.HeaderTemplate = buildHeaderTemplate(header, page.Margins.Left)
		pdfOpts.FooterTemplate = buildFooterTemplate(footer, page.Margins.Left)
	}

	return pdfOpts
}

// buildHeaderTemplate generates the centred header line.
func buildHeaderTemplate(h *Header, paddingMM float64) string {
	if h == nil || h.Text == "" {
		return "<span></span>"
	}
	return fmt.Sprintf(`<div style="font-size: 8pt; font-family: %s; color: #718096; width: 100%%; text-align: center; padding: 5px %.0fmm;">%s</div>`,
		fontFamily, paddingMM, html.EscapeString(h.Text))
}

// buildFooterTemplate generates the footer: text on the left, "Page N of M" on the right.
// Chrome fills the pageNumber and totalPages classes.
func buildFooterTemplate(f *Footer, paddingMM float64) string {
	if f == nil || (f.Text == "" && !f.PageNumbers) {
		return "<span></span>"
	}

	var left, right string
	if f.Text != "" {
		left = html.EscapeString(f.Text)
	}
	if f.PageNumbers {
		right = `Page <span class="pageNumber"></span> of <span class="totalPages"></span>`
	}

	return fmt.Sprintf(`<div style="font-size: 8pt; font-family: %s; color: #718096; width: 100%%; padding: 5px %.0fmm; display: flex; justify-content: space-between;"><span>%s</span><span>%s</span></div>`,
		fontFamily, paddingMM, left, right)
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter converts HTML to PDF using headless Chrome via go-rod.
type rodConverter struct {
	renderer pdfRenderer
}

// newRodConverter creates a rodConverter with production renderer.
func newRodConverter(timeout time.Duration) *rodConverter {
	return &rodConverter{
		renderer: newRodRenderer(timeout),
	}
}

// ToPDF writes the HTML to a temporary file and prints it.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath, opts)
}

// Close releases browser resources.
func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
