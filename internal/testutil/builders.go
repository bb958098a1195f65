// Package testutil provides database, Redis and fixture helpers for tests.
package testutil

import "github.com/target/jobboard-api/internal/domain/model"

// ListingBuilder builds model.Listing fixtures.
type ListingBuilder struct {
	l model.Listing
}

// NewListing starts a listing with required fields filled in.
func NewListing(id string) *ListingBuilder {
	return &ListingBuilder{l: model.Listing{
		ID:     id,
		Title:  "Listing " + id,
		Link:   "https://jobs.example.com/" + id,
		Posted: "2024-01-01T00:00:00Z",
		Source: "BNP",
	}}
}

// WithTitle sets the title.
func (b *ListingBuilder) WithTitle(title string) *ListingBuilder {
	b.l.Title = title
	return b
}

// WithCompany sets the company; empty stores NULL.
func (b *ListingBuilder) WithCompany(company string) *ListingBuilder {
	b.l.Company = optional(company)
	return b
}

// WithPosted sets the posted timestamp.
func (b *ListingBuilder) WithPosted(posted string) *ListingBuilder {
	b.l.Posted = posted
	return b
}

// WithSource sets the source code.
func (b *ListingBuilder) WithSource(source string) *ListingBuilder {
	b.l.Source = source
	return b
}

// WithCategory sets the category; empty stores NULL.
func (b *ListingBuilder) WithCategory(category string) *ListingBuilder {
	b.l.Category = optional(category)
	return b
}

// WithContractType sets the contract type; empty stores NULL.
func (b *ListingBuilder) WithContractType(ct string) *ListingBuilder {
	b.l.ContractType = optional(ct)
	return b
}

// WithCountry sets the country code; empty stores NULL.
func (b *ListingBuilder) WithCountry(code string) *ListingBuilder {
	b.l.CountryCode = optional(code)
	return b
}

// WithRawCountry stores code as-is, including the empty string.
func (b *ListingBuilder) WithRawCountry(code string) *ListingBuilder {
	b.l.CountryCode = &code
	return b
}

// Build returns the listing.
func (b *ListingBuilder) Build() model.Listing {
	return b.l
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
