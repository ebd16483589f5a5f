package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-docbuild/internal/assets"
)

// ---------------------------------------------------------------------------
// sanitizeCSS
// ---------------------------------------------------------------------------

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no escape needed", input: "body { color: red; }", expected: "body { color: red; }"},
		{name: "escapes style close", input: "</style>", expected: `<\/style>`},
		{name: "escapes script close", input: "</script>", expected: `<\/script>`},
		{name: "multiple occurrences", input: "</a></b>", expected: `<\/a><\/b>`},
		{name: "case variation", input: "</STYLE>", expected: `<\/STYLE>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizeCSS(tt.input); got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// InjectCSS
// ---------------------------------------------------------------------------

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		css      string
		expected string
	}{
		{
			name:     "empty CSS returns HTML unchanged",
			html:     "<html><head></head><body>Hello</body></html>",
			css:      "",
			expected: "<html><head></head><body>Hello</body></html>",
		},
		{
			name:     "injects before </head>",
			html:     "<html><head></head><body>Hello</body></html>",
			css:      ".mermaid { margin: 0; }",
			expected: "<html><head><style>.mermaid { margin: 0; }</style></head><body>Hello</body></html>",
		},
		{
			name:     "injects before </HEAD> mixed case",
			html:     "<html><HEAD></HEAD><body>Hello</body></html>",
			css:      "p{}",
			expected: "<html><HEAD><style>p{}</style></HEAD><body>Hello</body></html>",
		},
		{
			name:     "injects after <body> with attributes when no head",
			html:     `<html><body class="doc">Hello</body></html>`,
			css:      "p{}",
			expected: `<html><body class="doc"><style>p{}</style>Hello</body></html>`,
		},
		{
			name:     "prepends to bare fragment",
			html:     "<p>Hello</p>",
			css:      "p{}",
			expected: "<style>p{}</style><p>Hello</p>",
		},
		{
			name:     "sanitizes CSS with closing tags",
			html:     "<html><head></head><body></body></html>",
			css:      "</style><script>x()</script>",
			expected: `<html><head><style><\/style><script>x()<\/script></style></head><body></body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			injector := &CSSInjection{}
			got := injector.InjectCSS(context.Background(), tt.html, tt.css)
			if got != tt.expected {
				t.Errorf("InjectCSS() =\n%s\nwant\n%s", got, tt.expected)
			}
		})
	}
}

func TestInjectCSS_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	html := "<html><head></head><body></body></html>"
	got := (&CSSInjection{}).InjectCSS(ctx, html, "p{}")
	if got != html {
		t.Errorf("InjectCSS() with cancelled context = %q, want unchanged", got)
	}
}

// ---------------------------------------------------------------------------
// InjectCover
// ---------------------------------------------------------------------------

func newEmbeddedCover(t *testing.T) *CoverInjection {
	t.Helper()

	tmpl, err := assets.LoadTemplate(assets.CoverTemplateName)
	if err != nil {
		t.Fatalf("loading cover template: %v", err)
	}
	cover, err := NewCoverInjection(tmpl)
	if err != nil {
		t.Fatalf("NewCoverInjection() error = %v", err)
	}
	return cover
}

func TestInjectCover(t *testing.T) {
	t.Parallel()

	const page = `<html><head></head><body class="doc"><main>content</main></body></html>`

	tests := []struct {
		name         string
		data         *CoverData
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "nil data leaves HTML unchanged",
			data:         nil,
			wantContains: []string{page},
			wantExcludes: []string{"cover-page"},
		},
		{
			name: "title and subtitle",
			data: &CoverData{Title: "Information Security Policies", Subtitle: "Comprehensive Security Framework"},
			wantContains: []string{
				"Information Security Policies",
				"Comprehensive Security Framework",
				`class="cover-subtitle"`,
			},
			wantExcludes: []string{`class="cover-notice"`, "<img"},
		},
		{
			name:         "project name used as text logo",
			data:         &CoverData{Title: "T", Project: "ACME"},
			wantContains: []string{`<div class="cover-logo"`, ">ACME</div>"},
		},
		{
			name:         "logo image wins over text logo",
			data:         &CoverData{Title: "T", Project: "ACME", Logo: "file:///docs/logo.png"},
			wantContains: []string{`<img class="cover-logo" src="file:///docs/logo.png"`},
			wantExcludes: []string{">ACME</div>"},
		},
		{
			name:         "notice and date",
			data:         &CoverData{Title: "T", Notice: "Confidential", Date: "October 19, 2026"},
			wantContains: []string{">Confidential</p>", ">October 19, 2026</p>"},
		},
		{
			name:         "title is escaped",
			data:         &CoverData{Title: "<script>x</script>"},
			wantContains: []string{"&lt;script&gt;"},
			wantExcludes: []string{"<script>x</script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := newEmbeddedCover(t).InjectCover(context.Background(), page, tt.data)
			if err != nil {
				t.Fatalf("InjectCover() unexpected error: %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\ngot: %s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("output should not contain %q\ngot: %s", exclude, got)
				}
			}
		})
	}
}

func TestInjectCover_PlacedAfterBody(t *testing.T) {
	t.Parallel()

	cover, err := NewCoverInjection(`<section class="cover-page">{{.Title}}</section>`)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "after body open tag",
			html: `<html><body id="x"><p>c</p></body></html>`,
			want: `<html><body id="x"><section class="cover-page">T</section><p>c</p></body></html>`,
		},
		{
			name: "prepended to fragment",
			html: `<p>c</p>`,
			want: `<section class="cover-page">T</section><p>c</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := cover.InjectCover(context.Background(), tt.html, &CoverData{Title: "T"})
			if err != nil {
				t.Fatalf("InjectCover() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("InjectCover() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInjectCover_TemplateErrors(t *testing.T) {
	t.Parallel()

	t.Run("parse error", func(t *testing.T) {
		t.Parallel()

		if _, err := NewCoverInjection("{{.Title"); err == nil {
			t.Error("NewCoverInjection() expected parse error")
		}
	})

	t.Run("execution error", func(t *testing.T) {
		t.Parallel()

		cover, err := NewCoverInjection("{{.Missing.Field}}")
		if err != nil {
			t.Fatal(err)
		}
		_, err = cover.InjectCover(context.Background(), "<body></body>", &CoverData{})
		if !errors.Is(err, ErrCoverRender) {
			t.Errorf("InjectCover() error = %v, want ErrCoverRender", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newEmbeddedCover(t).InjectCover(ctx, "<body></body>", &CoverData{Title: "T"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("InjectCover() error = %v, want context.Canceled", err)
		}
	})
}
