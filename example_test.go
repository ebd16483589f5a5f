package docbuild_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alnah/go-docbuild"
)

// Example demonstrates markdown to HTML conversion with a static diagram.
// For PDF output, leave HTMLOnly false (requires Chrome).
func Example() {
	conv, err := docbuild.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Convert(context.Background(), docbuild.Input{
		Markdown: "# Hello\n\n```mermaid\ngraph TD\n  A-->B\n```\n",
		Title:    "Hello",
		HTMLOnly: true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("diagrams:", result.Diagrams)
	fmt.Println("placeholder:", strings.Contains(string(result.HTML), "📊 Flow Diagram #1"))
	// Output:
	// diagrams: 1
	// placeholder: true
}

// Example_liveDiagrams keeps diagram sources for mermaid.js.
func Example_liveDiagrams() {
	conv, err := docbuild.NewConverter(docbuild.WithDiagramMode(docbuild.DiagramsLive))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Convert(context.Background(), docbuild.Input{
		Markdown: "```mermaid\nsequenceDiagram\n  A->>B: hi\n```\n",
		HTMLOnly: true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	html := string(result.HTML)
	fmt.Println(strings.Contains(html, `class="mermaid"`), strings.Contains(html, "mermaid.min.js"))
	// Output: true true
}

// Example_withCover demonstrates adding a cover page.
func Example_withCover() {
	conv, err := docbuild.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Convert(context.Background(), docbuild.Input{
		Markdown: "# Introduction\n\nDocument content here.",
		Title:    "Security Policies",
		Project:  "Orbit",
		Cover: &docbuild.Cover{
			Subtitle: "Security Framework",
			Notice:   "Confidential",
			Date:     "October 19, 2026",
		},
		HTMLOnly: true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(string(result.HTML), "Security Framework") {
		fmt.Println("Cover page included")
	}
	// Output: Cover page included
}

// ExampleConverter_RenderIndex renders the site landing page.
func ExampleConverter_RenderIndex() {
	conv, err := docbuild.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	page, err := conv.RenderIndex(context.Background(), docbuild.Index{
		Project: "Orbit",
		Sections: []docbuild.IndexSection{{
			Name: "Design",
			Documents: []docbuild.IndexDocument{
				{Title: "Process Manager", HTML: "design-process-manager.html", PDF: "pdf/design-process-manager.pdf"},
			},
		}},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(strings.Contains(string(page), `href="pdf/design-process-manager.pdf"`))
	// Output: true
}

// ExampleConverterPool demonstrates parallel batch processing.
func ExampleConverterPool() {
	pool := docbuild.NewConverterPool(2)

	docs := []string{
		"# Document 1\n\nFirst document.",
		"# Document 2\n\nSecond document.",
	}

	results := make(chan bool, len(docs))
	var wg sync.WaitGroup

	for _, doc := range docs {
		wg.Add(1)
		go func(markdown string) {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err != nil {
				results <- false
				return
			}
			defer pool.Release(conv)

			result, err := conv.Convert(context.Background(), docbuild.Input{
				Markdown: markdown,
				HTMLOnly: true,
			})
			results <- err == nil && strings.Contains(string(result.HTML), "Document")
		}(doc)
	}

	wg.Wait()
	_ = pool.Close()

	success := 0
	for range docs {
		if <-results {
			success++
		}
	}
	fmt.Printf("Processed %d documents\n", success)
	// Output: Processed 2 documents
}

// ExampleNewAssetLoader demonstrates loading custom assets.
func ExampleNewAssetLoader() {
	// An empty path uses embedded assets only.
	loader, err := docbuild.NewAssetLoader("")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	css, err := loader.LoadStyle(docbuild.DefaultStyle)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(css != "")
	// Output: true
}
