// Package pipeline implements the Markdown-to-HTML stages of a documentation build.
//
// Stages, in the order the root docbuild package runs them:
//   - Markdown preprocessing (line normalization, diagram and placeholder rewriting)
//   - Markdown to HTML conversion via Goldmark with chroma highlighting
//   - Relative path and cross-document link rewriting
//   - Page assembly: page and index templates, CSS and cover injection
//
// PDF generation lives in the root package, which drives headless Chrome
// (go-rod). The pipeline only deals with document structure and markup.
package pipeline
