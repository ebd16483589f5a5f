package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "built-in site style", input: "site"},
		{name: "hyphen", input: "dark-site"},
		{name: "underscore", input: "print_a3"},
		{name: "digits and mixed case", input: "Print2"},
		{name: "max length", input: strings.Repeat("a", maxAssetNameLength)},

		{name: "empty", input: "", wantErr: ErrInvalidAssetName},
		{name: "too long", input: strings.Repeat("a", maxAssetNameLength+1), wantErr: ErrInvalidAssetName},
		{name: "forward slash", input: "path/to/style", wantErr: ErrInvalidAssetName},
		{name: "backslash", input: `path\to\style`, wantErr: ErrInvalidAssetName},
		{name: "parent traversal", input: "../secret", wantErr: ErrInvalidAssetName},
		{name: "extension", input: "site.css", wantErr: ErrInvalidAssetName},
		{name: "hidden file", input: ".hidden", wantErr: ErrInvalidAssetName},
		{name: "windows drive", input: `C:\Windows`, wantErr: ErrInvalidAssetName},
		{name: "space", input: "my style", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateAssetName(%q) unexpected error: %v", tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAssetName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAssetName_MessageNamesInput(t *testing.T) {
	t.Parallel()

	err := ValidateAssetName("../evil")
	if err == nil || !strings.Contains(err.Error(), `"../evil"`) {
		t.Errorf("ValidateAssetName() error = %v, want message quoting the name", err)
	}
}
