package main

// Notes:
// - Test infrastructure shared by the CLI tests: a fake converter and pool
//   so builds run without a browser, and helpers that lay out a manifest
//   with its sources in a temp directory.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-docbuild"
)

// ---------------------------------------------------------------------------
// Fake converter and pool
// ---------------------------------------------------------------------------

// fakeConverter records inputs and returns deterministic outputs.
type fakeConverter struct {
	mu      sync.Mutex
	inputs  []docbuild.Input
	indexes []docbuild.Index
	err     error // returned by Convert
}

func (f *fakeConverter) Convert(_ context.Context, in docbuild.Input) (*docbuild.ConvertResult, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, in)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	res := &docbuild.ConvertResult{
		HTML:     []byte("<html><title>" + in.Title + "</title></html>"),
		Diagrams: strings.Count(in.Markdown, "```mermaid"),
	}
	if !in.HTMLOnly {
		res.PDF = []byte("%PDF-1.4 " + in.Title)
	}
	return res, nil
}

func (f *fakeConverter) RenderIndex(_ context.Context, idx docbuild.Index) ([]byte, error) {
	f.mu.Lock()
	f.indexes = append(f.indexes, idx)
	f.mu.Unlock()
	return []byte("<html>index of " + idx.Project + "</html>"), nil
}

func (f *fakeConverter) convertCalls() []docbuild.Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]docbuild.Input(nil), f.inputs...)
}

func (f *fakeConverter) lastIndex() (docbuild.Index, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.indexes) == 0 {
		return docbuild.Index{}, false
	}
	return f.indexes[len(f.indexes)-1], true
}

// fakePool hands out a single shared fakeConverter.
type fakePool struct {
	conv       *fakeConverter
	size       int
	acquireErr error

	mu       sync.Mutex
	acquired int
	released int
	closed   bool
}

func newFakePool(size int) *fakePool {
	return &fakePool{conv: &fakeConverter{}, size: size}
}

func (p *fakePool) Acquire() (Converter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.mu.Lock()
	p.acquired++
	p.mu.Unlock()
	return p.conv, nil
}

func (p *fakePool) Release(Converter) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *fakePool) Size() int { return p.size }

func (p *fakePool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// ---------------------------------------------------------------------------
// Environment and workspace helpers
// ---------------------------------------------------------------------------

// testEnv returns an Environment with captured output, an empty process
// environment, a fixed clock and pool as the converter pool.
func testEnv(pool *fakePool) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Now:     func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) },
		Stdout:  stdout,
		Stderr:  stderr,
		Getenv:  func(string) string { return "" },
		Environ: func() []string { return nil },
		NewPool: func(size int, _ ...docbuild.Option) Pool {
			if pool.size == 0 {
				pool.size = size
			}
			return pool
		},
	}
	return env, stdout, stderr
}

// testManifest is a two-document manifest with one diagram document.
const testManifest = `project:
  name: Handbook
  description: Team handbook
  date: "2026-03-01"
documents:
  - source: guide.md
    title: Guide
    section: Basics
    nav: true
  - source: arch.md
    section: Design
output:
  htmlDir: site
  pdfDir: site/pdf
`

// writeWorkspace writes files under a temp dir and returns the dir.
func writeWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// defaultWorkspace lays out testManifest with both sources.
func defaultWorkspace(t *testing.T) string {
	t.Helper()
	return writeWorkspace(t, map[string]string{
		"docbuild.yaml": testManifest,
		"guide.md":      "# Guide\n\nSee [architecture](arch.md).\n",
		"arch.md":       "# Architecture\n\n```mermaid\ngraph TD; A-->B\n```\n",
	})
}

// buildArgs returns CLI args for cmd using the manifest in dir.
func buildArgs(cmd, dir string, extra ...string) []string {
	args := []string{"docbuild", cmd, "--config", filepath.Join(dir, "docbuild.yaml")}
	return append(args, extra...)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) // #nosec G304 -- test path
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
