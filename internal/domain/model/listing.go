//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// PostedLayout is the fixed-width timestamp format of Listing.Posted.
// Lexicographic order on this format equals chronological order.
const PostedLayout = "2006-01-02T15:04:05Z"

// ErrListingNotFound is returned when no listing has the requested id.
var ErrListingNotFound = errors.New("listing not found")

var postedPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)

// ValidPosted reports whether s is in PostedLayout form and is a real instant.
func ValidPosted(s string) bool {
	if !postedPattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(PostedLayout, s)
	return err == nil
}

// FormatPosted renders t in PostedLayout (UTC, second precision).
func FormatPosted(t time.Time) string {
	return t.UTC().Format(PostedLayout)
}

// Listing is one job posting. Rows are written by ingestion and only read here.
type Listing struct {
	ID           string  `json:"id"            db:"id"`
	Title        string  `json:"title"         db:"title"`
	Company      *string `json:"company"       db:"company"`
	Location     *string `json:"location"      db:"location"`
	Link         string  `json:"link"          db:"link"`
	Posted       string  `json:"posted"        db:"posted"`
	Source       string  `json:"source"        db:"source"`
	Keyword      *string `json:"keyword"       db:"keyword"`
	Category     *string `json:"category"      db:"category"`
	ContractType *string `json:"contract_type" db:"contract_type"`
	CountryCode  *string `json:"country_code"  db:"country_code"`
	CountryName  *string `json:"country_name"  db:"country_name"`
}

// Normalize canonicalizes a listing before it is stored: trimmed id and
// title, upper-case source and country code, blank optional fields as NULL,
// and a date-only posted value widened to midnight UTC. It fails when a
// required field is missing or posted is still malformed.
func (l *Listing) Normalize() error {
	l.ID = strings.TrimSpace(l.ID)
	l.Title = strings.TrimSpace(l.Title)
	l.Link = strings.TrimSpace(l.Link)
	l.Source = strings.ToUpper(strings.TrimSpace(l.Source))
	l.Posted = strings.TrimSpace(l.Posted)
	if len(l.Posted) == len("2006-01-02") {
		l.Posted += "T00:00:00Z"
	}

	for _, p := range []**string{&l.Company, &l.Location, &l.Keyword, &l.Category, &l.ContractType, &l.CountryCode, &l.CountryName} {
		*p = trimmedOrNil(*p)
	}
	if l.CountryCode != nil {
		cc := strings.ToUpper(*l.CountryCode)
		l.CountryCode = &cc
	}

	switch {
	case l.ID == "":
		return errors.New("id is required")
	case l.Title == "":
		return errors.New("title is required")
	case l.Source == "":
		return errors.New("source is required")
	case !ValidPosted(l.Posted):
		return fmt.Errorf("posted %q must use %s", l.Posted, PostedLayout)
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// ListingPage is one page of search results plus the total match count.
type ListingPage struct {
	Listings []Listing
	Total    int
}
