// Package diagram rewrites embedded diagram markup before Markdown conversion.
//
// Two micro-syntaxes are recognized inside a document:
//
//   - fenced ```mermaid blocks, replaced by a static HTML box holding the
//     diagram subtype, a per-document sequence number and a short source
//     preview (ModeStatic), or by a <div class="mermaid"> that mermaid.js can
//     render in a browser (ModeLive)
//   - placeholder images such as ![Caption](https://via.placeholder.com/800x400),
//     replaced by a dashed box showing the caption
//
// Everything else passes through byte-for-byte. Malformed markup (an unclosed
// fence, an unknown diagram type) degrades to pass-through or to the generic
// "Diagram" label; the rewriter never returns an error.
//
// The output of a rewrite no longer contains fence or placeholder syntax, so
// rewriting it again is a no-op for the fragments already produced.
package diagram
