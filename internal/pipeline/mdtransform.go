package pipeline

import (
	"context"
	"regexp"

	"github.com/alnah/go-docbuild/internal/diagram"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
)

// Preprocessed is the Markdown handed to the HTML converter, with rewrite counts.
type Preprocessed struct {
	Markdown string
	Diagrams int
	Images   int
}

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string, mode diagram.Mode) Preprocessed
}

// CommonMarkPreprocessor applies transformations before CommonMark conversion.
type CommonMarkPreprocessor struct {
	static *diagram.Rewriter
	live   *diagram.Rewriter
}

// NewCommonMarkPreprocessor creates a preprocessor able to rewrite diagrams in either mode.
func NewCommonMarkPreprocessor() *CommonMarkPreprocessor {
	return &CommonMarkPreprocessor{
		static: diagram.NewRewriter(diagram.WithMode(diagram.ModeStatic)),
		live:   diagram.NewRewriter(diagram.WithMode(diagram.ModeLive)),
	}
}

// PreprocessMarkdown normalizes line endings, rewrites diagram blocks and
// placeholder images, then compresses blank lines.
// Line endings are normalized first: the diagram fence pattern expects \n.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string, mode diagram.Mode) Preprocessed {
	// Check for cancellation before processing
	if ctx.Err() != nil {
		return Preprocessed{Markdown: content}
	}

	content = normalizeLineEndings(content)

	rw := p.static
	if mode == diagram.ModeLive {
		rw = p.live
	}
	res := rw.Rewrite(content)

	return Preprocessed{
		Markdown: compressBlankLines(res.Text),
		Diagrams: res.Diagrams,
		Images:   res.Images,
	}
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}
