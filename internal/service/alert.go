package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/target/jobboard-api/internal/core"
	"github.com/target/jobboard-api/internal/data"
	"github.com/target/jobboard-api/internal/domain/model"
	"github.com/target/jobboard-api/internal/domain/search"
	apperrors "github.com/target/jobboard-api/internal/errors"
	"github.com/target/jobboard-api/internal/observability/metrics"
)

// listingSearcher is the slice of ListingService that alert evaluation needs.
type listingSearcher interface {
	Parse(q url.Values) model.ListingFilter
	Search(ctx context.Context, f model.ListingFilter) (*model.ListingPage, error)
}

// AlertServiceOptions groups dependencies for AlertService.
type AlertServiceOptions struct {
	Store        core.UserDataStore // Required
	Listings     listingSearcher    // Required
	TimeProvider data.TimeProvider  // Optional: defaults to real time
	Metrics      *metrics.Registry  // Optional
}

// AlertService manages saved listing searches and evaluates them.
type AlertService struct {
	docs     documentStore[model.AlertBook]
	listings listingSearcher
	clock    data.TimeProvider
}

// NewAlertService constructs a new AlertService.
func NewAlertService(opts AlertServiceOptions) *AlertService {
	if opts.Store == nil {
		panic("UserDataStore is required")
	}
	if opts.Listings == nil {
		panic("listing searcher is required")
	}
	clock := opts.TimeProvider
	if clock == nil {
		clock = &data.RealTimeProvider{}
	}
	return &AlertService{
		docs:     documentStore[model.AlertBook]{store: opts.Store, key: model.DocAlerts, metrics: opts.Metrics},
		listings: opts.Listings,
		clock:    clock,
	}
}

// List returns the user's saved alerts in creation order.
func (s *AlertService) List(ctx context.Context, userID string) ([]model.ListingAlert, error) {
	book, _, err := s.docs.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if book.Alerts == nil {
		return []model.ListingAlert{}, nil
	}
	return book.Alerts, nil
}

// Get returns one saved alert.
func (s *AlertService) Get(ctx context.Context, userID, id string) (*model.ListingAlert, error) {
	book, _, err := s.docs.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := book.Find(id)
	if i < 0 {
		return nil, apperrors.NotFoundf("alert %s not found", id)
	}
	return &book.Alerts[i], nil
}

// Create saves a new alert. Only listing search parameters are kept from
// req.Query, and paging parameters are dropped.
func (s *AlertService) Create(ctx context.Context, userID string, req model.CreateListingAlertRequest) (*model.ListingAlert, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.ValidationField("name", err.Error())
	}

	alert := model.ListingAlert{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Query:     alertQuery(req.Query),
		CreatedAt: s.clock.Now().UTC(),
	}
	_, err := s.docs.update(ctx, userID, func(b *model.AlertBook) error {
		if len(b.Alerts) >= model.MaxAlertsPerUser {
			return apperrors.Validationf("at most %d alerts are allowed", model.MaxAlertsPerUser)
		}
		b.Alerts = append(b.Alerts, alert)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func alertQuery(q map[string][]string) map[string][]string {
	out := make(map[string][]string, len(q))
	for k, vs := range q {
		if !search.IsParam(k) || k == search.ParamLimit || k == search.ParamOffset {
			continue
		}
		var kept []string
		for _, v := range vs {
			if strings.TrimSpace(v) != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			out[k] = kept
		}
	}
	return out
}

// Delete removes an alert and reports whether it existed.
func (s *AlertService) Delete(ctx context.Context, userID, id string) (bool, error) {
	removed := false
	_, err := s.docs.update(ctx, userID, func(b *model.AlertBook) error {
		i := b.Find(id)
		if i < 0 {
			removed = false
			return errUnchanged
		}
		b.Alerts = append(b.Alerts[:i], b.Alerts[i+1:]...)
		removed = true
		return nil
	})
	return removed, err
}

// Matches runs a saved alert as a listing search. limit and offset override
// the defaults when positive.
func (s *AlertService) Matches(ctx context.Context, userID, id string, limit, offset int) (*model.ListingPage, error) {
	alert, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	f := s.listings.Parse(url.Values(alert.Query))
	if limit > 0 {
		f.Limit = min(limit, model.MaxListingLimit)
	}
	if offset > 0 {
		f.Offset = min(offset, model.MaxListingOffset)
	}
	return s.listings.Search(ctx, f)
}

// RunForUser counts the new listings of every alert of userID and records
// the outcome on each alert. New means posted after the alert last ran, or
// within fallback for an alert that never ran. An alert whose search fails
// keeps its previous run state and is counted in failed.
func (s *AlertService) RunForUser(ctx context.Context, userID string, fallback time.Duration) ([]model.AlertRunResult, int, error) {
	book, _, err := s.docs.load(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if len(book.Alerts) == 0 {
		return nil, 0, nil
	}

	now := s.clock.Now().UTC().Truncate(time.Second)
	counts := make(map[string]int, len(book.Alerts))
	var results []model.AlertRunResult
	failed := 0
	for _, a := range book.Alerts {
		if ctx.Err() != nil {
			return nil, failed, ctx.Err()
		}
		f := s.listings.Parse(url.Values(a.Query))
		since := now.Add(-fallback)
		if a.LastRunAt != nil {
			// posted has second precision, so this excludes listings posted
			// at the previous run.
			since = a.LastRunAt.UTC().Truncate(time.Second).Add(time.Second)
		}
		if f.PostedSince == nil || since.After(*f.PostedSince) {
			f.PostedSince = &since
		}
		f.Limit, f.Offset = 1, 0

		page, searchErr := s.listings.Search(ctx, f)
		if searchErr != nil {
			failed++
			continue
		}
		counts[a.ID] = page.Total
		results = append(results, model.AlertRunResult{UserID: userID, AlertID: a.ID, MatchCount: page.Total})
	}
	if len(counts) == 0 {
		return results, failed, nil
	}

	_, err = s.docs.update(ctx, userID, func(b *model.AlertBook) error {
		for i := range b.Alerts {
			n, ok := counts[b.Alerts[i].ID]
			if !ok {
				continue
			}
			ran := now
			b.Alerts[i].LastRunAt = &ran
			b.Alerts[i].LastMatchCount = n
		}
		return nil
	})
	if err != nil {
		return nil, failed, err
	}
	return results, failed, nil
}
