// Package search turns raw listing query parameters into a normalized
// model.ListingFilter. Parsing never fails: malformed values fall back to
// defaults or are ignored.
package search

import (
	"net/url"
	"strings"
	"time"

	"github.com/target/jobboard-api/internal/domain/model"
	"github.com/target/jobboard-api/internal/domain/taxonomy"
)

// Query parameter names.
const (
	ParamBank         = "bank"
	ParamKeyword      = "keyword"
	ParamHours        = "hours"
	ParamCategory     = "category"
	ParamContractType = "contractType"
	ParamCountry      = "country"
	ParamContinent    = "continent"
	ParamHasCountry   = "hasCountry"
	ParamSortBy       = "sortBy"
	ParamSortDir      = "sortDir"
	ParamLimit        = "limit"
	ParamOffset       = "offset"
)

var knownParams = map[string]struct{}{
	ParamBank: {}, ParamKeyword: {}, ParamHours: {}, ParamCategory: {},
	ParamContractType: {}, ParamCountry: {}, ParamContinent: {}, ParamHasCountry: {},
	ParamSortBy: {}, ParamSortDir: {}, ParamLimit: {}, ParamOffset: {},
}

// IsParam reports whether name is a listing search parameter.
func IsParam(name string) bool {
	_, ok := knownParams[name]
	return ok
}

// maxHours bounds the freshness window so the cutoff never overflows.
const maxHours = 24 * 365 * 100

// ParserOptions groups dependencies for NewParser.
type ParserOptions struct {
	Catalog *taxonomy.Catalog
	// Now defaults to time.Now.
	Now func() time.Time
}

// Parser normalizes listing search parameters. It holds only read-only
// state and is safe for concurrent use.
type Parser struct {
	categories *taxonomy.Table
	continents *taxonomy.Continents
	now        func() time.Time
}

// NewParser constructs a Parser. It panics when the catalog is missing.
func NewParser(opts ParserOptions) *Parser {
	if opts.Catalog == nil || opts.Catalog.Categories == nil || opts.Catalog.Continents == nil {
		panic("search: catalog is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Parser{
		categories: opts.Catalog.Categories,
		continents: opts.Catalog.Continents,
		now:        now,
	}
}

// Parse builds the filter for one request. The freshness cutoff is computed
// once from the parser clock.
func (p *Parser) Parse(q url.Values) model.ListingFilter {
	f := model.DefaultListingFilter()

	f.Sources = collect(q[ParamBank], strings.ToUpper)
	// The keyword is matched as given; trimming only decides whether it is blank.
	if kw := q.Get(ParamKeyword); strings.TrimSpace(kw) != "" {
		f.Keyword = kw
	}
	f.Categories = p.categories.ExpandAll(q[ParamCategory])
	f.ContractTypes = collect(q[ParamContractType], nil)
	f.Countries = collect(q[ParamCountry], strings.ToUpper)
	f.ContinentCountries = p.continentCodes(q[ParamContinent])

	if hours, ok := leadingInt(q.Get(ParamHours)); ok {
		hours = clamp(hours, -maxHours, maxHours)
		cutoff := p.now().UTC().Add(-time.Duration(hours) * time.Hour).Truncate(time.Second)
		f.PostedSince = &cutoff
	}

	switch q.Get(ParamHasCountry) {
	case "true":
		v := true
		f.HasCountry = &v
	case "false":
		v := false
		f.HasCountry = &v
	}

	if col, ok := model.ParseSortColumn(q.Get(ParamSortBy)); ok {
		f.SortBy = col
	}
	f.SortDir = f.SortBy.DefaultDirection()
	if dir := strings.ToLower(strings.TrimSpace(q.Get(ParamSortDir))); dir != "" {
		if dir == string(model.SortAsc) {
			f.SortDir = model.SortAsc
		} else {
			f.SortDir = model.SortDesc
		}
	}

	if n, ok := leadingInt(q.Get(ParamLimit)); ok {
		f.Limit = clamp(n, 1, model.MaxListingLimit)
	}
	if n, ok := leadingInt(q.Get(ParamOffset)); ok {
		f.Offset = clamp(n, 0, model.MaxListingOffset)
	}
	return f
}

func (p *Parser) continentCodes(keys []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, k := range keys {
		codes, ok := p.continents.Codes(strings.ToLower(strings.TrimSpace(k)))
		if !ok {
			continue
		}
		for _, c := range codes {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// collect trims values, drops blanks and duplicates, and applies fold.
func collect(values []string, fold func(string) string) []string {
	var out []string
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if fold != nil {
			v = fold(v)
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// leadingInt reads an optionally signed run of leading digits, so "24h" is 24
// and "abc" is not a number. Values too large for int saturate.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	const limit = model.MaxListingOffset * 100
	n, digits := 0, 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		if n < limit {
			n = n*10 + int(s[digits]-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if n > limit {
		n = limit
	}
	if neg {
		n = -n
	}
	return n, true
}

func clamp(n, lo, hi int) int {
	switch {
	case n < lo:
		return lo
	case n > hi:
		return hi
	default:
		return n
	}
}
