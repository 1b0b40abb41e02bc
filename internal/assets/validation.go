package assets

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateAssetName accepts bare style and template names such as "book" or
// "epub". The loaders add the directory and extension themselves, so a name
// carrying a separator, a dot, whitespace or a control character is refused
// with ErrInvalidAssetName.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name (expected a style or template name like %q)", ErrInvalidAssetName, "book")
	}
	if strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%w: %q must be a bare name, without directory or extension", ErrInvalidAssetName, name)
	}
	if strings.IndexFunc(name, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return fmt.Errorf("%w: %q contains whitespace or control characters", ErrInvalidAssetName, name)
	}
	return nil
}
