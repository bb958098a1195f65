//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
)

// Paging bounds for listing searches.
const (
	DefaultListingLimit = 20
	MaxListingLimit     = 200
	MaxListingOffset    = 1_000_000
)

// SortColumn is the closed set of columns a listing search may order by.
type SortColumn int

const (
	SortPosted SortColumn = iota
	SortTitle
	SortCompany
	SortLocation
	SortSource
	SortCategory
	SortContractType
	SortCountryCode
	SortCountryName
)

var sortColumnNames = map[string]SortColumn{
	"posted":        SortPosted,
	"title":         SortTitle,
	"company":       SortCompany,
	"location":      SortLocation,
	"source":        SortSource,
	"category":      SortCategory,
	"contract_type": SortContractType,
	"contracttype":  SortContractType,
	"country":       SortCountryCode,
	"country_code":  SortCountryCode,
	"country_name":  SortCountryName,
}

// ParseSortColumn resolves an external sortBy value, case-insensitively.
func ParseSortColumn(s string) (SortColumn, bool) {
	c, ok := sortColumnNames[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// Column returns the physical column name.
func (c SortColumn) Column() string {
	switch c {
	case SortTitle:
		return "title"
	case SortCompany:
		return "company"
	case SortLocation:
		return "location"
	case SortSource:
		return "source"
	case SortCategory:
		return "category"
	case SortContractType:
		return "contract_type"
	case SortCountryCode:
		return "country_code"
	case SortCountryName:
		return "country_name"
	default:
		return "posted"
	}
}

// IsText reports whether the column sorts case-insensitively with blanks last.
func (c SortColumn) IsText() bool {
	return c != SortPosted
}

func (c SortColumn) String() string { return c.Column() }

// SortDirection is asc or desc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// DefaultDirection is desc for posted and asc for every other column.
func (c SortColumn) DefaultDirection() SortDirection {
	if c == SortPosted {
		return SortDesc
	}
	return SortAsc
}

// ListingFilter is the normalized form of a listing search request.
// Empty slices and nil pointers mean "no constraint".
type ListingFilter struct {
	Sources       []string
	Keyword       string
	PostedSince   *time.Time
	Categories    []string
	ContractTypes []string
	// Countries are explicit country filters; ContinentCountries come from
	// continent expansion. Both feed one country_code predicate.
	Countries          []string
	ContinentCountries []string
	HasCountry         *bool
	SortBy             SortColumn
	SortDir            SortDirection
	Limit              int
	Offset             int
}

// CountryCodes returns the union of explicit and continent-derived codes,
// de-duplicated in first-seen order.
func (f ListingFilter) CountryCodes() []string {
	var out []string
	seen := make(map[string]struct{}, len(f.Countries)+len(f.ContinentCountries))
	for _, list := range [][]string{f.Countries, f.ContinentCountries} {
		for _, c := range list {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// DefaultListingFilter returns the filter used when no parameters are given.
func DefaultListingFilter() ListingFilter {
	return ListingFilter{
		SortBy:  SortPosted,
		SortDir: SortDesc,
		Limit:   DefaultListingLimit,
	}
}
