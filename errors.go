package docbuild

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrRenderTool is the umbrella for every failure of the external renderer
// (headless Chrome). Match it with errors.Is to treat them alike.
var ErrRenderTool = errors.New("render tool failed")

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = errors.New("HTML conversion failed")

	// Renderer errors. All of them match ErrRenderTool.
	ErrBrowserConnect = fmt.Errorf("%w: failed to connect to browser", ErrRenderTool)
	ErrPageCreate     = fmt.Errorf("%w: failed to create browser page", ErrRenderTool)
	ErrPageLoad       = fmt.Errorf("%w: failed to load page", ErrRenderTool)
	ErrDiagramTimeout = fmt.Errorf("%w: diagrams did not finish rendering", ErrRenderTool)
	ErrPDFGeneration  = fmt.Errorf("%w: PDF generation failed", ErrRenderTool)

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Cover validation errors.
	ErrCoverLogoNotFound = errors.New("cover logo file not found")

	// Asset loading errors.
	ErrStyleNotFound         = errors.New("style not found")
	ErrTemplateNotFound      = errors.New("template not found")
	ErrInvalidAssetPath      = errors.New("invalid asset path")
	ErrUnknownHighlightStyle = errors.New("unknown highlight style")
)

// ErrSourceNotFound reports a manifest entry whose file is missing.
// It matches fs.ErrNotExist.
var ErrSourceNotFound error = sourceNotFoundError{}

type sourceNotFoundError struct{}

func (sourceNotFoundError) Error() string { return "source not found" }

func (sourceNotFoundError) Is(target error) bool { return target == fs.ErrNotExist }
