package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
)

// Sentinel errors for page assembly.
var (
	ErrPageRender  = errors.New("page template rendering failed")
	ErrIndexRender = errors.New("index template rendering failed")
)

// NavLink is one entry of the site navigation bar.
type NavLink struct {
	Title  string
	Href   string
	Active bool
}

// PageData fills the document page template.
type PageData struct {
	Title     string
	Project   string
	Copyright string
	Content   string // HTML body fragment produced by goldmark
	Generated string // human-readable build date
	Year      int
	Nav       []NavLink

	// LiveDiagrams includes mermaid.js so live diagram blocks render in the browser.
	LiveDiagrams bool
}

// pageView is what the template sees: Content is trusted HTML.
type pageView struct {
	PageData
	Content template.HTML
}

// PageRenderer wraps converted Markdown in the page shell.
type PageRenderer struct {
	tmpl *template.Template
}

// NewPageRenderer parses the page template.
func NewPageRenderer(tmplContent string) (*PageRenderer, error) {
	tmpl, err := template.New("page").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &PageRenderer{tmpl: tmpl}, nil
}

// RenderPage renders a complete HTML document.
func (r *PageRenderer) RenderPage(ctx context.Context, data PageData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	view := pageView{
		PageData: data,
		// #nosec G203 -- content is the converter's own output
		Content: template.HTML(data.Content),
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

// IndexEntry is one document card on the index page.
type IndexEntry struct {
	Title       string
	Description string
	HTML        string // href of the site page, empty when not built
	PDF         string // href of the PDF, empty when not built
}

// IndexSection groups index entries under an optional heading.
type IndexSection struct {
	Name      string
	Documents []IndexEntry
}

// IndexData fills the index template.
type IndexData struct {
	Project     string
	Description string
	Copyright   string
	Generated   string
	Year        int
	Sections    []IndexSection
}

// IndexRenderer renders the site landing page.
type IndexRenderer struct {
	tmpl *template.Template
}

// NewIndexRenderer parses the index template.
func NewIndexRenderer(tmplContent string) (*IndexRenderer, error) {
	tmpl, err := template.New("index").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing index template: %w", err)
	}
	return &IndexRenderer{tmpl: tmpl}, nil
}

// RenderIndex renders the index page.
func (r *IndexRenderer) RenderIndex(ctx context.Context, data IndexData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrIndexRender, err)
	}
	return buf.String(), nil
}
