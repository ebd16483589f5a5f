package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrCoverRender indicates the cover template failed to execute.
var ErrCoverRender = errors.New("cover template rendering failed")

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized so it cannot close the style element.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if pos := afterBodyOpen(htmlContent, lowerHTML); pos != -1 {
		return htmlContent[:pos] + styleBlock + htmlContent[pos:]
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so the stylesheet cannot terminate its <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// CoverData holds the cover page of a printed document.
type CoverData struct {
	Title    string
	Subtitle string
	Logo     string // URL or file:// path, empty for none
	Notice   string // e.g. "Confidential - for internal use only"
	Project  string
	Date     string
}

// coverView is what the cover template sees. Logos come from the manifest
// and are often file:// URLs, which html/template rejects by default.
type coverView struct {
	CoverData
	Logo template.URL
}

// CoverInjector defines the contract for cover injection into HTML.
type CoverInjector interface {
	InjectCover(ctx context.Context, htmlContent string, data *CoverData) (string, error)
}

// CoverInjection renders and injects a cover page into HTML content.
type CoverInjection struct {
	tmpl *template.Template
}

// NewCoverInjection creates a CoverInjection from template content.
func NewCoverInjection(tmplContent string) (*CoverInjection, error) {
	tmpl, err := template.New("cover").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing cover template: %w", err)
	}
	return &CoverInjection{tmpl: tmpl}, nil
}

// InjectCover renders the cover template and injects it right after <body>.
// If data is nil, returns htmlContent unchanged.
func (c *CoverInjection) InjectCover(ctx context.Context, htmlContent string, data *CoverData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	view := coverView{
		CoverData: *data,
		// #nosec G203 -- file:// logos would otherwise be filtered as unsafe URLs
		Logo: template.URL(data.Logo),
	}

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCoverRender, err)
	}

	coverHTML := buf.String()
	if pos := afterBodyOpen(htmlContent, strings.ToLower(htmlContent)); pos != -1 {
		return htmlContent[:pos] + coverHTML + htmlContent[pos:], nil
	}
	return coverHTML + htmlContent, nil
}

// afterBodyOpen returns the offset just past the opening <body ...> tag, or -1.
func afterBodyOpen(htmlContent, lowerHTML string) int {
	idx := strings.Index(lowerHTML, "<body")
	if idx == -1 {
		return -1
	}
	closeIdx := strings.Index(htmlContent[idx:], ">")
	if closeIdx == -1 {
		return -1
	}
	return idx + closeIdx + 1
}
