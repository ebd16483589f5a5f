// Package docbuild turns Markdown design documents into styled HTML pages and
// print-ready PDFs, with diagram blocks rewritten for each output.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv, err := docbuild.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, docbuild.Input{
//	    Markdown: "# Hello\n\n```mermaid\ngraph TD\n  A-->B\n```\n",
//	    Title:    "Hello",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("hello.pdf", result.PDF, 0o644)
//
// The result holds the page HTML and the PDF printed from it. Set
// Input.HTMLOnly to skip the browser entirely.
//
// # Conversion Pipeline
//
//  1. Markdown preprocessing: line endings, diagram blocks, placeholder images
//  2. Markdown to HTML via Goldmark (GFM, footnotes, chroma highlighting)
//  3. Relative image and document links resolved for the output location
//  4. Page shell, stylesheets and optional cover page
//  5. PDF rendering via headless Chrome (go-rod)
//
// # Diagram Modes
//
// DiagramsStatic replaces each mermaid block with a labelled, numbered box
// showing the first lines of its source. DiagramsLive keeps the source for
// mermaid.js; when printing, the renderer waits for every diagram and scales
// it to fit the page.
//
//	conv, err := docbuild.NewConverter(
//	    docbuild.WithDiagramMode(docbuild.DiagramsLive),
//	    docbuild.WithDiagramWait(15*time.Second),
//	)
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool to manage multiple browser instances:
//
//	pool := docbuild.NewConverterPool(docbuild.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, input)
//
// # Custom Assets
//
// Override built-in styles and templates using AssetLoader:
//
//	loader, err := docbuild.NewAssetLoader("/path/to/assets")
//	conv, err := docbuild.NewConverter(docbuild.WithAssetLoader(loader))
//
// Asset directory structure:
//
//	assets/
//	├── styles/
//	│   ├── site.css
//	│   └── print.css
//	└── templates/
//	    ├── page.html
//	    ├── cover.html
//	    └── index.html
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package docbuild
