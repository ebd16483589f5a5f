package pipeline

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PathRewrite controls how RewriteRelativePaths resolves img and link targets.
type PathRewrite struct {
	// SourceDir is the directory of the Markdown source. Relative paths are
	// resolved against it. Empty disables path resolution.
	SourceDir string

	// OutputDir, when set, makes resolved paths relative to the directory the
	// HTML is written to. When empty, resolved paths become file:// URLs, which
	// is what the browser needs when printing from a temporary file.
	OutputDir string

	// Links maps sibling document sources (slash-separated, relative to
	// SourceDir) to the href that replaces them, e.g. "guide.md" -> "guide.html".
	// Fragments are kept: "guide.md#setup" -> "guide.html#setup".
	Links map[string]string
}

// RewriteRelativePaths rewrites relative img[src] and a[href] attributes.
// Links to other manifest documents are mapped through rw.Links first; the
// remaining relative paths are resolved against rw.SourceDir.
//
// Never rewritten:
//   - URLs (http, https, file, data, protocol-relative) and anchors
//   - absolute paths
//   - paths escaping SourceDir
//   - media elements, srcset and CSS url() references
func RewriteRelativePaths(htmlContent string, rw PathRewrite) (string, error) {
	if rw.SourceDir == "" && len(rw.Links) == 0 {
		return htmlContent, nil
	}

	var absSourceDir, absOutputDir string
	if rw.SourceDir != "" {
		var err error
		if absSourceDir, err = filepath.Abs(rw.SourceDir); err != nil {
			return "", err
		}
	}
	if rw.OutputDir != "" {
		var err error
		if absOutputDir, err = filepath.Abs(rw.OutputDir); err != nil {
			return "", err
		}
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	r := &pathRewriter{sourceDir: absSourceDir, outputDir: absOutputDir, links: rw.Links}
	r.walk(doc)

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}

	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

type pathRewriter struct {
	sourceDir string
	outputDir string
	links     map[string]string
}

func (r *pathRewriter) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			r.rewriteAttr(n, "src", false)
		case atom.A:
			r.rewriteAttr(n, "href", true)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}
}

func (r *pathRewriter) rewriteAttr(n *html.Node, key string, isLink bool) {
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelativePath(attr.Val) {
			continue
		}

		if isLink {
			if target, ok := r.documentLink(attr.Val); ok {
				n.Attr[i].Val = target
				continue
			}
		}

		if resolved, ok := r.resolve(attr.Val); ok {
			n.Attr[i].Val = resolved
		}
	}
}

// documentLink maps a link to another manifest document, keeping any fragment.
func (r *pathRewriter) documentLink(href string) (string, bool) {
	if len(r.links) == 0 {
		return "", false
	}
	target, fragment, _ := strings.Cut(href, "#")
	mapped, ok := r.links[path.Clean(strings.TrimPrefix(target, "./"))]
	if !ok {
		return "", false
	}
	if fragment != "" {
		mapped += "#" + fragment
	}
	return mapped, true
}

// resolve turns a source-relative path into an output-relative path or a file:// URL.
func (r *pathRewriter) resolve(rel string) (string, bool) {
	if r.sourceDir == "" {
		return "", false
	}

	absPath := filepath.Join(r.sourceDir, filepath.FromSlash(rel))
	if !isPathUnderDir(absPath, r.sourceDir) {
		return "", false
	}

	if r.outputDir == "" {
		return pathToFileURL(absPath), true
	}

	out, err := filepath.Rel(r.outputDir, absPath)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(out), true
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(p string) bool {
	if p == "" || strings.HasPrefix(p, "#") || strings.HasPrefix(p, "//") {
		return false
	}

	for _, scheme := range []string{"http:", "https:", "file:", "data:", "mailto:"} {
		if strings.HasPrefix(strings.ToLower(p), scheme) {
			return false
		}
	}

	return !filepath.IsAbs(p) && !strings.HasPrefix(p, "/")
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
