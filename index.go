package docbuild

import (
	"context"
	"fmt"

	"github.com/alnah/go-docbuild/internal/pipeline"
)

// IndexDocument is one card of the site index page.
type IndexDocument struct {
	Title       string
	Description string
	HTML        string // href of the page, empty when not built
	PDF         string // href of the PDF, empty when not built
}

// IndexSection groups documents under an optional heading.
type IndexSection struct {
	Name      string
	Documents []IndexDocument
}

// Index describes the site landing page.
type Index struct {
	Project     string
	Description string
	Copyright   string
	Generated   string
	Year        int
	Sections    []IndexSection
	CSS         string // appended after the built-in styles
}

// RenderIndex renders the landing page linking every document, styled like
// the document pages.
func (c *Converter) RenderIndex(ctx context.Context, idx Index) ([]byte, error) {
	sections := make([]pipeline.IndexSection, len(idx.Sections))
	for i, s := range idx.Sections {
		docs := make([]pipeline.IndexEntry, len(s.Documents))
		for j, d := range s.Documents {
			docs[j] = pipeline.IndexEntry(d)
		}
		sections[i] = pipeline.IndexSection{Name: s.Name, Documents: docs}
	}

	htmlContent, err := c.indexRenderer.RenderIndex(ctx, pipeline.IndexData{
		Project:     idx.Project,
		Description: idx.Description,
		Copyright:   idx.Copyright,
		Generated:   idx.Generated,
		Year:        yearOrNow(idx.Year),
		Sections:    sections,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering index: %w", err)
	}

	cssContent := c.cfg.resolvedStyle
	if idx.CSS != "" {
		cssContent += "\n" + idx.CSS
	}
	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, cssContent)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return []byte(htmlContent), nil
}
