package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-docbuild"
	"github.com/alnah/go-docbuild/internal/buildcache"
	"github.com/alnah/go-docbuild/internal/fileutil"
)

// Cache key prefixes, one per output kind.
const (
	keyPage = "html:"
	keyPDF  = "pdf:"
)

// buildPage renders one document as a site page with live diagrams.
func (b *builder) buildPage(ctx context.Context, conv Converter, job docJob) ConversionResult {
	outPath := filepath.Join(b.htmlDir, job.Stem+".html")
	return b.build(ctx, conv, job, keyPage, outPath, func(in *docbuild.Input) {
		in.HTMLOnly = true
		in.Diagrams = toDiagramMode(b.cfg.SiteDiagramMode())
		in.OutputDir = b.htmlDir
		in.Links = documentLinks(job, b.jobs, ".html")
		in.Nav = navLinks(job, b.jobs)
	})
}

// buildPDF prints one document with the manifest's page layout.
func (b *builder) buildPDF(ctx context.Context, conv Converter, job docJob) ConversionResult {
	outPath := filepath.Join(b.pdfDir, job.Stem+".pdf")
	return b.build(ctx, conv, job, keyPDF, outPath, func(in *docbuild.Input) {
		in.Diagrams = toDiagramMode(b.cfg.PDFDiagramMode())
		in.OutputDir = b.pdfDir
		in.Links = documentLinks(job, b.jobs, ".pdf")
		in.Page = b.pageSettings()
		in.Cover = b.cover()
		if b.cfg.Header.Text != "" {
			in.Header = &docbuild.Header{Text: b.cfg.Header.Text}
		}
		in.Footer = &docbuild.Footer{
			Text:        b.cfg.Footer.Text,
			PageNumbers: b.cfg.Footer.ShowPageNumbers(),
		}
	})
}

// build reads the source, skips it when its output is fresh, converts it
// and writes the output atomically.
func (b *builder) build(ctx context.Context, conv Converter, job docJob, keyPrefix, outPath string, configure func(*docbuild.Input)) ConversionResult {
	start := time.Now()
	result := ConversionResult{InputPath: job.Doc.Source, OutputPath: outPath}

	content, err := os.ReadFile(job.Source) // #nosec G304 -- path comes from the manifest
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrReadMarkdown, err)
		return result
	}

	key := keyPrefix + job.Doc.Source
	fp := buildcache.Fingerprint(content, b.manifest, keyPrefix)
	if !b.force && b.cache.Fresh(key, fp) && fileutil.FileExists(outPath) {
		result.Skipped = true
		return result
	}

	input := docbuild.Input{
		Markdown:  string(content),
		Title:     job.Doc.DisplayTitle(),
		Project:   b.cfg.Project.Name,
		Copyright: b.cfg.Project.Copyright,
		Generated: b.stamp.Date,
		Year:      b.stamp.Year,
		SourceDir: filepath.Dir(job.Source),
	}
	configure(&input)

	res, err := conv.Convert(ctx, input)
	if err != nil {
		b.cache.Forget(key)
		result.Err = err
		return result
	}

	data := res.HTML
	if !input.HTMLOnly {
		data = res.PDF
	}
	if err := fileutil.WriteFileAtomic(outPath, data, filePermissions); err != nil {
		b.cache.Forget(key)
		result.Err = fmt.Errorf("%w: %w", ErrWriteOutput, err)
		return result
	}

	b.cache.Put(key, fp)
	result.Diagrams = res.Diagrams
	result.Duration = time.Since(start)
	return result
}

// buildIndex writes the landing page. It links the outputs found on disk,
// so a pdf-only build leaves earlier pages reachable.
func (b *builder) buildIndex(ctx context.Context, pool Pool) ConversionResult {
	start := time.Now()
	outPath := filepath.Join(b.htmlDir, indexFileName)
	result := ConversionResult{InputPath: indexFileName, OutputPath: outPath}

	conv, err := pool.Acquire()
	if err != nil {
		result.Err = err
		return result
	}
	defer pool.Release(conv)

	html, err := conv.RenderIndex(ctx, b.index())
	if err != nil {
		result.Err = err
		return result
	}
	if err := fileutil.WriteFileAtomic(outPath, html, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrWriteOutput, err)
		return result
	}

	result.Duration = time.Since(start)
	return result
}

// index groups documents by section in order of first appearance.
// Documents without a section form a section without heading.
func (b *builder) index() docbuild.Index {
	idx := docbuild.Index{
		Project:     b.cfg.Project.Name,
		Description: b.cfg.Project.Description,
		Copyright:   b.cfg.Project.Copyright,
		Generated:   b.stamp.Date,
		Year:        b.stamp.Year,
	}

	pos := make(map[string]int)
	for _, j := range b.jobs {
		doc := docbuild.IndexDocument{
			Title:       j.Doc.DisplayTitle(),
			Description: j.Doc.Description,
		}
		if fileutil.FileExists(filepath.Join(b.htmlDir, j.Stem+".html")) {
			doc.HTML = j.Stem + ".html"
		}
		pdfPath := filepath.Join(b.pdfDir, j.Stem+".pdf")
		if fileutil.FileExists(pdfPath) {
			doc.PDF = relativeHref(b.htmlDir, pdfPath)
		}

		i, ok := pos[j.Doc.Section]
		if !ok {
			i = len(idx.Sections)
			pos[j.Doc.Section] = i
			idx.Sections = append(idx.Sections, docbuild.IndexSection{Name: j.Doc.Section})
		}
		idx.Sections[i].Documents = append(idx.Sections[i].Documents, doc)
	}
	return idx
}

// relativeHref returns target relative to dir as a slash path, or a file URL
// when no relative path exists (different volumes).
func relativeHref(dir, target string) string {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		abs, _ := filepath.Abs(target)
		return "file://" + filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

func (b *builder) pageSettings() *docbuild.PageSettings {
	p := b.cfg.Page
	return &docbuild.PageSettings{
		Size:        p.Size,
		Orientation: p.Orientation,
		Margins: docbuild.Margins{
			Top:    p.MarginTop,
			Right:  p.MarginRight,
			Bottom: p.MarginBottom,
			Left:   p.MarginLeft,
		},
	}
}

func (b *builder) cover() *docbuild.Cover {
	if !b.cfg.Cover.Enabled {
		return nil
	}
	return &docbuild.Cover{
		Title:    b.cfg.Cover.Title,
		Subtitle: b.cfg.Cover.Subtitle,
		Logo:     b.cfg.LogoPath(),
		Notice:   b.cfg.Cover.Notice,
		Date:     b.stamp.Date,
	}
}
