//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxInterviewTitleLen = 200

// Interview is a calendar entry.
type Interview struct {
	ID        string    `json:"id"`
	ListingID *string   `json:"listing_id,omitempty"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Location  *string   `json:"location,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
}

// InterviewCalendar is the interviews document of one user.
type InterviewCalendar struct {
	Interviews []Interview `json:"interviews"`
}

// CreateInterviewRequest is the payload to schedule an interview.
type CreateInterviewRequest struct {
	ListingID *string   `json:"listing_id,omitempty"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Location  *string   `json:"location,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
}

// Normalize trims text fields.
func (r *CreateInterviewRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

// Validate checks required fields and the time window.
func (r *CreateInterviewRequest) Validate() error {
	return validateInterview(r.Title, r.StartsAt, r.EndsAt)
}

// UpdateInterviewRequest carries optional field updates.
type UpdateInterviewRequest struct {
	ListingID *string    `json:"listing_id,omitempty"`
	Title     *string    `json:"title,omitempty"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	Location  *string    `json:"location,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// HasUpdates reports whether any field is set.
func (r UpdateInterviewRequest) HasUpdates() bool {
	return r.ListingID != nil || r.Title != nil || r.StartsAt != nil ||
		r.EndsAt != nil || r.Location != nil || r.Notes != nil
}

// Apply returns iv with the requested changes, validated.
func (r UpdateInterviewRequest) Apply(iv Interview) (Interview, error) {
	if r.ListingID != nil {
		iv.ListingID = r.ListingID
	}
	if r.Title != nil {
		iv.Title = strings.TrimSpace(*r.Title)
	}
	if r.StartsAt != nil {
		iv.StartsAt = *r.StartsAt
	}
	if r.EndsAt != nil {
		iv.EndsAt = *r.EndsAt
	}
	if r.Location != nil {
		iv.Location = r.Location
	}
	if r.Notes != nil {
		iv.Notes = r.Notes
	}
	return iv, validateInterview(iv.Title, iv.StartsAt, iv.EndsAt)
}

func validateInterview(title string, start, end time.Time) error {
	if title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(title) > maxInterviewTitleLen {
		return errors.New("title is too long")
	}
	if start.IsZero() || end.IsZero() {
		return errors.New("starts_at and ends_at are required")
	}
	if !end.After(start) {
		return errors.New("ends_at must be after starts_at")
	}
	return nil
}
