//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxAlertNameLen = 120
	// MaxAlertsPerUser caps saved alerts per user.
	MaxAlertsPerUser = 50
)

// ListingAlert is a saved listing search. Query holds the raw search
// parameters so evaluation always goes through the same translation as
// GET /api/listings.
type ListingAlert struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Query          map[string][]string `json:"query"`
	CreatedAt      time.Time           `json:"created_at"`
	LastRunAt      *time.Time          `json:"last_run_at,omitempty"`
	LastMatchCount int                 `json:"last_match_count"`
}

// AlertBook is the alerts document of one user.
type AlertBook struct {
	Alerts []ListingAlert `json:"alerts"`
}

// Find returns the index of the alert with id, or -1.
func (b AlertBook) Find(id string) int {
	for i := range b.Alerts {
		if b.Alerts[i].ID == id {
			return i
		}
	}
	return -1
}

// CreateListingAlertRequest is the payload to save an alert.
type CreateListingAlertRequest struct {
	Name  string              `json:"name"`
	Query map[string][]string `json:"query"`
}

// Normalize trims the name.
func (r *CreateListingAlertRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// Validate checks the name. Query values are never rejected: the search
// translation degrades malformed parameters to defaults.
func (r *CreateListingAlertRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(r.Name) > maxAlertNameLen {
		return errors.New("name is too long")
	}
	return nil
}

// AlertRunResult is the outcome of evaluating one alert.
type AlertRunResult struct {
	UserID     string `json:"user_id"`
	AlertID    string `json:"alert_id"`
	MatchCount int    `json:"match_count"`
}

// AlertDigestSummary aggregates one digest run.
type AlertDigestSummary struct {
	Users   int `json:"users"`
	Alerts  int `json:"alerts"`
	Matches int `json:"matches"`
	Failed  int `json:"failed"`
}
