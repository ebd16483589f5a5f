package diagram

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
)

// ErrUnknownMode indicates a diagram mode name that ParseMode does not recognize.
var ErrUnknownMode = errors.New("unknown diagram mode")

// Mode selects how diagram blocks are rewritten.
type Mode int

const (
	// ModeStatic replaces diagrams with a labelled box and a source preview.
	// Used for print output, where no script runs.
	ModeStatic Mode = iota

	// ModeLive replaces diagrams with <div class="mermaid"> for in-browser rendering.
	ModeLive
)

// String returns the mode name accepted by ParseMode.
func (m Mode) String() string {
	if m == ModeLive {
		return "live"
	}
	return "static"
}

// ParseMode converts "static" or "live" (case-insensitive) to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "static":
		return ModeStatic, nil
	case "live":
		return ModeLive, nil
	default:
		return ModeStatic, fmt.Errorf("%w: %q (must be static or live)", ErrUnknownMode, name)
	}
}

// Preview limits for static fragments.
const (
	maxPreviewLines  = 10
	previewIndent    = "    "
	truncationMarker = previewIndent + "..."
)

// PlaceholderPrefix is the URL prefix of the placeholder image service.
const PlaceholderPrefix = "https://via.placeholder.com/"

var (
	// A fence line ```mermaid, possibly indented inside a list item, then the
	// payload up to the first closing ```. Payloads containing ``` are cut
	// short at that point.
	fencedDiagram = regexp.MustCompile("(?ms)^([ \\t]*)```mermaid[ \\t]*\\n(.*?)```")

	placeholderImage = regexp.MustCompile(`!\[([^\]]*)\]\(` + regexp.QuoteMeta(PlaceholderPrefix) + `[^)]+\)`)
)

// Fragment templates. Every line is non-blank so CommonMark parsers keep each
// fragment inside a single raw HTML block.
const (
	staticFragment = `
<div class="diagram-placeholder" style="background: #f0f7ff; border: 2px solid #0066CC; border-radius: 8px; padding: 15px; margin: 15px 0; page-break-inside: avoid;">
    <h4 style="color: #0066CC; margin-top: 0;">📊 %s #%d</h4>
    <p style="font-style: italic; color: #666; margin: 5px 0;">Architecture visualization - refer to interactive HTML version for full diagram</p>
    <pre style="background: #fff; padding: 10px; border-left: 3px solid #0066CC; margin: 10px 0; font-size: 8pt; overflow: hidden;">
%s
    </pre>
</div>
`

	liveFragment = `
<div class="mermaid" data-diagram="%s" data-diagram-index="%d">
%s
</div>
`

	imageFragment = `<div class="image-placeholder" style="background: #e8f4f8; border: 2px dashed #0066CC; padding: 20px; text-align: center; margin: 10px 0; border-radius: 5px;"><strong>🖼️ %s</strong></div>`
)

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithMode sets the diagram rewrite mode (default ModeStatic).
func WithMode(m Mode) Option {
	return func(r *Rewriter) {
		r.mode = m
	}
}

// Rewriter replaces diagram fences and placeholder images in a document.
// A Rewriter holds no per-document state and is safe for concurrent use.
type Rewriter struct {
	mode Mode
}

// NewRewriter creates a Rewriter. Without options it produces static fragments.
func NewRewriter(opts ...Option) *Rewriter {
	r := &Rewriter{mode: ModeStatic}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is the outcome of rewriting one document.
type Result struct {
	Text     string
	Diagrams int // diagram blocks replaced
	Images   int // placeholder images replaced
}

// counter numbers diagram blocks within one document, starting at 1.
type counter struct {
	n int
}

func (c *counter) next() int {
	c.n++
	return c.n
}

// Rewrite replaces every diagram fence and placeholder image in text.
func (r *Rewriter) Rewrite(text string) Result {
	seq := &counter{}

	out := replaceSubmatches(fencedDiagram, text, func(groups []string) string {
		indent := groups[1]
		fragment := r.renderDiagram(dedent(groups[2], indent), seq)
		return indentLines(fragment, indent)
	})

	images := 0
	out = replaceSubmatches(placeholderImage, out, func(groups []string) string {
		images++
		return renderImage(groups[1])
	})

	return Result{Text: out, Diagrams: seq.n, Images: images}
}

var defaultRewriter = NewRewriter()

// Rewrite replaces diagram fences with static fragments and placeholder images
// with caption boxes, leaving all other text unchanged.
func Rewrite(text string) string {
	return defaultRewriter.Rewrite(text).Text
}

func (r *Rewriter) renderDiagram(payload string, seq *counter) string {
	kind := classifyPayload(payload)
	n := seq.next()

	if r.mode == ModeLive {
		lines := strings.Split(strings.TrimSpace(payload), "\n")
		for i, line := range lines {
			lines[i] = keepNonBlank(html.EscapeString(line))
		}
		return fmt.Sprintf(liveFragment, kindSlug(kind), n, strings.Join(lines, "\n"))
	}

	return fmt.Sprintf(staticFragment, kind.Label(), n, strings.Join(preview(payload), "\n"))
}

// preview returns at most maxPreviewLines lines of the trimmed payload, each
// indented and HTML-escaped, followed by a truncation marker when lines were cut.
func preview(payload string) []string {
	lines := strings.Split(strings.TrimSpace(payload), "\n")
	truncated := len(lines) > maxPreviewLines
	if truncated {
		lines = lines[:maxPreviewLines]
	}

	out := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		out = append(out, keepNonBlank(previewIndent+html.EscapeString(line)))
	}
	if truncated {
		out = append(out, truncationMarker)
	}
	return out
}

// keepNonBlank turns a whitespace-only line into one holding an encoded space,
// which renders the same but does not end a raw HTML block.
func keepNonBlank(line string) string {
	if strings.TrimSpace(line) == "" {
		return line + "&#32;"
	}
	return line
}

func renderImage(caption string) string {
	return fmt.Sprintf(imageFragment, html.EscapeString(caption))
}

// dedent strips the fence's indentation from every payload line that has it.
func dedent(payload, indent string) string {
	if indent == "" {
		return payload
	}
	lines := strings.Split(payload, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, indent)
	}
	return strings.Join(lines, "\n")
}

// indentLines prefixes every non-empty line of fragment with indent, keeping
// the fragment inside the list item the fence belonged to.
func indentLines(fragment, indent string) string {
	if indent == "" {
		return fragment
	}
	lines := strings.Split(fragment, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

// kindSlug is the data-diagram attribute value for a subtype.
func kindSlug(k Kind) string {
	switch k {
	case KindFlow:
		return "flow"
	case KindSequence:
		return "sequence"
	case KindEntityRelationship:
		return "er"
	case KindClass:
		return "class"
	case KindPie:
		return "pie"
	default:
		return "generic"
	}
}

// replaceSubmatches is regexp.ReplaceAllStringFunc with access to capture groups.
func replaceSubmatches(re *regexp.Regexp, text string, fn func(groups []string) string) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	last := 0
	for _, m := range matches {
		groups := make([]string, len(m)/2)
		for i := range groups {
			if m[2*i] >= 0 {
				groups[i] = text[m[2*i]:m[2*i+1]]
			}
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(fn(groups))
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
