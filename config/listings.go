package config

import "strings"

// CatalogConfig locates the category and continent vocabularies.
type CatalogConfig struct {
	// TaxonomyPath is a YAML file replacing the embedded catalog. Empty uses the embedded one.
	TaxonomyPath string `env:"CATALOG_TAXONOMY_PATH"`
}

// Sanitize trims the path.
func (c *CatalogConfig) Sanitize() {
	c.TaxonomyPath = strings.TrimSpace(c.TaxonomyPath)
}

// ListingsConfig controls startup checks on the listing store.
type ListingsConfig struct {
	// RequireFixedPosted refuses to start while any row's posted value is
	// not fixed-width YYYY-MM-DDTHH:MM:SSZ. Ordering and the hours window
	// compare posted as text, so malformed rows sort and filter wrongly.
	RequireFixedPosted bool `env:"LISTINGS_REQUIRE_FIXED_POSTED" envDefault:"true"`
}
