package md2book

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations. Children wrap their category, so
// errors.Is(err, ErrConfiguration) matches ErrNoChapters as well.
var (
	ErrConfiguration    = errors.New("configuration error")
	ErrInputDirNotFound = fmt.Errorf("%w: input directory not found", ErrConfiguration)
	ErrNoChapters       = fmt.Errorf("%w: no chapters found", ErrConfiguration)
	ErrInvalidFormat    = fmt.Errorf("%w: invalid output format", ErrConfiguration)
	ErrInvalidPageSize  = fmt.Errorf("%w: invalid page size", ErrConfiguration)
	ErrInvalidFontSize  = fmt.Errorf("%w: invalid font size", ErrConfiguration)

	ErrAsset            = errors.New("asset error")
	ErrCoverImage       = fmt.Errorf("%w: cover image unusable", ErrAsset)
	ErrFontMissing      = fmt.Errorf("%w: font missing", ErrAsset)
	ErrStyleNotFound    = fmt.Errorf("%w: style not found", ErrAsset)
	ErrTemplateNotFound = fmt.Errorf("%w: template not found", ErrAsset)
	ErrInvalidAssetPath = fmt.Errorf("%w: invalid asset path", ErrAsset)

	ErrConversion  = errors.New("conversion failed")
	ErrWriteOutput = errors.New("writing output failed")

	ErrMalformedCombined = errors.New("malformed combined markdown")
)
