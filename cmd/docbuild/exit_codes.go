package main

import (
	"context"
	"errors"
	"os"

	"github.com/alnah/go-docbuild"
	"github.com/alnah/go-docbuild/internal/config"
	"github.com/alnah/go-docbuild/internal/dateutil"
	"github.com/alnah/go-docbuild/internal/hints"
)

// Exit codes for the docbuild CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every document built
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, manifest, or validation
	ExitIO      = 3 // Source missing, permission denied, unwritable output
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, docbuild.ErrRenderTool) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrOutputDir) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, docbuild.ErrEmptyMarkdown) ||
		errors.Is(err, docbuild.ErrInvalidPageSize) ||
		errors.Is(err, docbuild.ErrInvalidOrientation) ||
		errors.Is(err, docbuild.ErrInvalidMargin) ||
		errors.Is(err, docbuild.ErrCoverLogoNotFound) ||
		errors.Is(err, docbuild.ErrStyleNotFound) ||
		errors.Is(err, docbuild.ErrTemplateNotFound) ||
		errors.Is(err, docbuild.ErrInvalidAssetPath) ||
		errors.Is(err, docbuild.ErrUnknownHighlightStyle) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "" when none applies.
func hintFor(err error) string {
	var notFound *config.NotFoundError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(notFound.Tried)
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, docbuild.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, docbuild.ErrDiagramTimeout):
		return hints.ForDiagramWait()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, docbuild.ErrSourceNotFound):
		return hints.ForSourceNotFound()
	case errors.Is(err, ErrOutputDir):
		return hints.ForOutputDirectory()
	case errors.Is(err, docbuild.ErrStyleNotFound):
		return hints.ForStyleNotFound([]string{docbuild.DefaultStyle, docbuild.DefaultPrintStyle})
	case errors.Is(err, docbuild.ErrUnknownHighlightStyle):
		return hints.ForHighlightStyle()
	}
	return ""
}
