//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
)

// TrackerStatus is the application stage of a tracked listing.
type TrackerStatus string

const (
	TrackerToApply   TrackerStatus = "TO_APPLY"
	TrackerApplied   TrackerStatus = "APPLIED"
	TrackerInterview TrackerStatus = "INTERVIEW"
	TrackerOffer     TrackerStatus = "OFFER"
	TrackerHired     TrackerStatus = "HIRED"
	TrackerRejected  TrackerStatus = "REJECTED"
)

// trackerNext lists the forward transitions. Every non-terminal status may
// also move to REJECTED.
var trackerNext = map[TrackerStatus]TrackerStatus{
	TrackerToApply:   TrackerApplied,
	TrackerApplied:   TrackerInterview,
	TrackerInterview: TrackerOffer,
	TrackerOffer:     TrackerHired,
}

// ParseTrackerStatus normalizes s and reports whether it is a known status.
func ParseTrackerStatus(s string) (TrackerStatus, bool) {
	st := TrackerStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

// Valid reports whether s is a known status.
func (s TrackerStatus) Valid() bool {
	switch s {
	case TrackerToApply, TrackerApplied, TrackerInterview, TrackerOffer, TrackerHired, TrackerRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is allowed.
func (s TrackerStatus) Terminal() bool {
	return s == TrackerHired || s == TrackerRejected
}

// CanTransition reports whether a tracked listing may move from s to next.
// Staying in the same status is allowed so notes can be edited.
func (s TrackerStatus) CanTransition(next TrackerStatus) bool {
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	if next == TrackerRejected {
		return true
	}
	return trackerNext[s] == next
}

// TrackerEntry is the application state of one listing.
type TrackerEntry struct {
	ListingID string        `json:"listing_id"`
	Status    TrackerStatus `json:"status"`
	Note      string        `json:"note,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TrackerBoard is the tracker document of one user.
type TrackerBoard struct {
	Entries []TrackerEntry `json:"entries"`
}

// Find returns the index of the entry for listingID, or -1.
func (b TrackerBoard) Find(listingID string) int {
	for i := range b.Entries {
		if b.Entries[i].ListingID == listingID {
			return i
		}
	}
	return -1
}

// TrackListingRequest moves a listing to a status, creating the entry when
// it is not tracked yet.
type TrackListingRequest struct {
	ListingID string        `json:"listing_id"`
	Status    TrackerStatus `json:"status"`
	Note      *string       `json:"note,omitempty"`
}
