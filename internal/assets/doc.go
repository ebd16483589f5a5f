// Package assets provides the CSS styles and HTML templates used to build the
// documentation site and its PDFs.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem
//	    ├── FilesystemLoader  - loads from a directory on disk
//	    └── AssetResolver     - custom directory first, embedded as fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   ├── site.css      # screen stylesheet for HTML pages
//	│   └── print.css     # injected before printing to PDF
//	└── templates/
//	    ├── page.html     # document page shell
//	    ├── cover.html    # PDF cover page
//	    └── index.html    # site index
//
// Overriding a single file is enough: everything else falls back to the
// embedded copy.
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
