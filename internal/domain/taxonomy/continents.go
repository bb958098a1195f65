package taxonomy

import (
	"sort"
	"strings"
)

// Continents maps continent keys to ISO 3166-1 alpha-2 country codes.
type Continents struct {
	codes map[string][]string
	keys  []string
}

// NewContinents lower-cases keys, upper-cases codes and drops duplicates.
func NewContinents(m map[string][]string) *Continents {
	c := &Continents{codes: make(map[string][]string, len(m))}
	for k, list := range m {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		seen := make(map[string]struct{}, len(c.codes[key])+len(list))
		for _, existing := range c.codes[key] {
			seen[existing] = struct{}{}
		}
		for _, code := range list {
			code = strings.ToUpper(strings.TrimSpace(code))
			if code == "" {
				continue
			}
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			c.codes[key] = append(c.codes[key], code)
		}
	}
	for k := range c.codes {
		c.keys = append(c.keys, k)
	}
	sort.Strings(c.keys)
	return c
}

// Codes returns the country codes of a continent key. Lookup is exact; callers
// normalize the key first.
func (c *Continents) Codes(key string) ([]string, bool) {
	codes, ok := c.codes[key]
	if !ok {
		return nil, false
	}
	return append([]string(nil), codes...), true
}

// Keys returns the known continent keys, sorted.
func (c *Continents) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Map returns a copy of the full table.
func (c *Continents) Map() map[string][]string {
	out := make(map[string][]string, len(c.codes))
	for k, v := range c.codes {
		out[k] = append([]string(nil), v...)
	}
	return out
}
