package assets

import (
	"fmt"
	"regexp"
)

// maxAssetNameLength bounds names taken from manifests and flags.
const maxAssetNameLength = 64

// assetNamePattern admits letters, digits, hyphen and underscore only, which
// rules out separators, dots and drive letters in one check.
var assetNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateAssetName checks that an asset name is safe for use as a filename.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > maxAssetNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidAssetName, maxAssetNameLength)
	}
	if !assetNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
