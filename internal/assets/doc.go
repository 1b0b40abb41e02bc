// Package assets provides the CSS styles and HTML templates used by the
// HTML and EPUB outputs.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in styles)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the converter. It tries the custom
// directory first and falls back to the embedded assets when an asset is
// missing there, so a directory can override a single stylesheet.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css     # book.css, serif.css, epub.css
//	└── templates/
//	    └── {name}.html    # book.html (single-file HTML book)
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
