// Package taxonomy holds the static category taxonomy and continent table
// used to expand listing filters.
package taxonomy

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

//go:embed default.yaml
var defaultCatalog []byte

// Catalog is the process-wide filter configuration. Build it once at startup.
type Catalog struct {
	Categories *Table
	Continents *Continents
}

type catalogDoc struct {
	Groups     []Group             `koanf:"groups"`
	Continents map[string][]string `koanf:"continents"`
}

// Load reads the catalog from a YAML file, or from the embedded default when
// path is empty. A missing, malformed or empty catalog is an error.
func Load(path string) (*Catalog, error) {
	var p koanf.Provider = rawbytes.Provider(defaultCatalog)
	source := "embedded default"
	if strings.TrimSpace(path) != "" {
		p = file.Provider(path)
		source = path
	}

	k := koanf.New(".")
	if err := k.Load(p, yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load taxonomy %s: %w", source, err)
	}

	var doc catalogDoc
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode taxonomy %s: %w", source, err)
	}
	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("invalid taxonomy %s: %w", source, err)
	}

	return &Catalog{
		Categories: NewTable(doc.Groups),
		Continents: NewContinents(doc.Continents),
	}, nil
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Load("")
}

func (d catalogDoc) validate() error {
	if len(d.Groups) == 0 {
		return errors.New("no category groups defined")
	}
	for i, g := range d.Groups {
		if Normalize(g.Name) == "" {
			return fmt.Errorf("group %d has no name", i)
		}
	}
	if len(d.Continents) == 0 {
		return errors.New("no continents defined")
	}
	for k, codes := range d.Continents {
		for _, c := range codes {
			if len(strings.TrimSpace(c)) != 2 {
				return fmt.Errorf("continent %q: %q is not an alpha-2 code", k, c)
			}
		}
	}
	return nil
}
