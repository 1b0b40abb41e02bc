package assets

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in CSS file by name, without the .css extension.
// Returns ErrStyleNotFound if the style does not exist.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads a built-in HTML template by name, without the .html
// extension. Returns ErrTemplateNotFound if the template does not exist.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// Styles lists the built-in style names.
func Styles() []string {
	return defaultLoader.Styles()
}
