package level

import _ "embed"

//go:embed levels.toml
var defaultCatalog []byte

// Default returns the built-in catalog
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}
