package service

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/target/jobboard-api/internal/core"
	"github.com/target/jobboard-api/internal/data"
	"github.com/target/jobboard-api/internal/domain/model"
	apperrors "github.com/target/jobboard-api/internal/errors"
	"github.com/target/jobboard-api/internal/observability/metrics"
)

const maxTrackerNoteLen = 2000

// TrackerServiceOptions groups dependencies for TrackerService.
type TrackerServiceOptions struct {
	Store        core.UserDataStore // Required
	Listings     listingChecker     // Optional: rejects unknown listing ids when set
	TimeProvider data.TimeProvider  // Optional: defaults to real time
	Metrics      *metrics.Registry  // Optional
}

// TrackerService tracks the application stage of listings per user.
type TrackerService struct {
	docs     documentStore[model.TrackerBoard]
	listings listingChecker
	clock    data.TimeProvider
}

// NewTrackerService constructs a new TrackerService.
func NewTrackerService(opts TrackerServiceOptions) *TrackerService {
	if opts.Store == nil {
		panic("UserDataStore is required")
	}
	clock := opts.TimeProvider
	if clock == nil {
		clock = &data.RealTimeProvider{}
	}
	return &TrackerService{
		docs:     documentStore[model.TrackerBoard]{store: opts.Store, key: model.DocTracker, metrics: opts.Metrics},
		listings: opts.Listings,
		clock:    clock,
	}
}

// Board returns all tracked listings, most recently updated first.
func (s *TrackerService) Board(ctx context.Context, userID string) ([]model.TrackerEntry, error) {
	b, _, err := s.docs.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries := append([]model.TrackerEntry{}, b.Entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	return entries, nil
}

// Track moves a listing to req.Status. A listing that is not tracked yet may
// start in any status; afterwards only the allowed transitions are accepted.
func (s *TrackerService) Track(ctx context.Context, userID string, req model.TrackListingRequest) (*model.TrackerEntry, error) {
	req.ListingID = strings.TrimSpace(req.ListingID)
	if req.ListingID == "" {
		return nil, apperrors.ValidationField("listing_id", "listing id is required")
	}
	status, ok := model.ParseTrackerStatus(string(req.Status))
	if !ok {
		return nil, apperrors.ValidationField("status", "unknown tracker status")
	}
	var note *string
	if req.Note != nil {
		n := strings.TrimSpace(*req.Note)
		if utf8.RuneCountInString(n) > maxTrackerNoteLen {
			return nil, apperrors.ValidationField("note", "note is too long")
		}
		note = &n
	}
	if s.listings != nil {
		exists, err := s.listings.Exists(ctx, req.ListingID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.NotFoundf("listing %s not found", req.ListingID)
		}
	}

	now := s.clock.Now().UTC()
	var out model.TrackerEntry
	_, err := s.docs.update(ctx, userID, func(b *model.TrackerBoard) error {
		i := b.Find(req.ListingID)
		if i < 0 {
			entry := model.TrackerEntry{ListingID: req.ListingID, Status: status, UpdatedAt: now}
			if note != nil {
				entry.Note = *note
			}
			b.Entries = append(b.Entries, entry)
			out = entry
			return nil
		}

		entry := &b.Entries[i]
		if !entry.Status.CanTransition(status) {
			return apperrors.ValidationField("status",
				"cannot move from "+string(entry.Status)+" to "+string(status))
		}
		entry.Status = status
		if note != nil {
			entry.Note = *note
		}
		entry.UpdatedAt = now
		out = *entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Untrack removes a listing from the board and reports whether it was tracked.
func (s *TrackerService) Untrack(ctx context.Context, userID, listingID string) (bool, error) {
	removed := false
	_, err := s.docs.update(ctx, userID, func(b *model.TrackerBoard) error {
		i := b.Find(listingID)
		if i < 0 {
			removed = false
			return errUnchanged
		}
		b.Entries = append(b.Entries[:i], b.Entries[i+1:]...)
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}
