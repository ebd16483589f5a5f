package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/alnah/go-docbuild"
	"github.com/alnah/go-docbuild/internal/config"
)

// docJob is one manifest document found on disk.
type docJob struct {
	Doc    config.DocumentConfig
	Source string // resolved against the manifest directory
	Stem   string // output file name without extension
}

// discoverDocuments resolves every manifest document. Documents whose source
// is missing are returned as failed results so they are reported and
// counted, never skipped.
func discoverDocuments(cfg *config.Config) (jobs []docJob, missing []ConversionResult) {
	for _, d := range cfg.Documents {
		src := cfg.SourcePath(d)
		info, err := os.Stat(src)
		switch {
		case err != nil && os.IsNotExist(err):
			missing = append(missing, ConversionResult{InputPath: d.Source, Err: docbuild.ErrSourceNotFound})
			continue
		case err != nil:
			missing = append(missing, ConversionResult{InputPath: d.Source, Err: fmt.Errorf("%w: %v", ErrReadMarkdown, err)})
			continue
		case info.IsDir():
			missing = append(missing, ConversionResult{InputPath: d.Source, Err: fmt.Errorf("%w: is a directory", ErrReadMarkdown)})
			continue
		}
		jobs = append(jobs, docJob{Doc: d, Source: src, Stem: d.OutputStem()})
	}
	return jobs, missing
}

// documentLinks maps the sources of all jobs, relative to from's directory,
// to stem+ext. Pages and PDFs are written flat, so the target is a sibling.
func documentLinks(from docJob, jobs []docJob, ext string) map[string]string {
	dir := filepath.Dir(from.Source)
	links := make(map[string]string, len(jobs))
	for _, j := range jobs {
		rel, err := filepath.Rel(dir, j.Source)
		if err != nil {
			continue
		}
		links[path.Clean(filepath.ToSlash(rel))] = j.Stem + ext
	}
	return links
}

// navLinks builds the site navigation: the index page, then every document
// marked nav in manifest order, with current marked active.
func navLinks(current docJob, jobs []docJob) []docbuild.NavLink {
	nav := []docbuild.NavLink{{Title: "Home", Href: indexFileName}}
	for _, j := range jobs {
		if !j.Doc.Nav {
			continue
		}
		nav = append(nav, docbuild.NavLink{
			Title:  j.Doc.DisplayTitle(),
			Href:   j.Stem + ".html",
			Active: j.Source == current.Source,
		})
	}
	return nav
}
