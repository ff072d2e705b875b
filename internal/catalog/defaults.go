package catalog

import _ "embed"

//go:embed default_catalog.json
var defaultCatalogJSON []byte

// Default returns the built-in demo catalog. It is used when no catalog
// file is configured and by tests that need realistic data. The embedded
// document is fixed at build time, so a parse failure is a programming
// error and panics.
func Default() *Catalog {
	cat, err := Parse(defaultCatalogJSON)
	if err != nil {
		panic(err)
	}
	return cat
}
