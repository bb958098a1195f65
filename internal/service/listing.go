package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/target/jobboard-api/internal/core"
	"github.com/target/jobboard-api/internal/domain/model"
	"github.com/target/jobboard-api/internal/domain/search"
	"github.com/target/jobboard-api/internal/domain/taxonomy"
	apperrors "github.com/target/jobboard-api/internal/errors"
	"github.com/target/jobboard-api/internal/observability/metrics"
)

// ListingServiceOptions groups dependencies for ListingService.
type ListingServiceOptions struct {
	Repo    core.ListingRepository // Required
	Catalog *taxonomy.Catalog      // Required: category and continent vocabularies
	Now     func() time.Time       // Optional: defaults to time.Now
	Logger  *slog.Logger           // Optional
	Metrics *metrics.Registry      // Optional
}

// ListingService answers listing searches. Every store failure surfaces as
// the generic query_failed error; details only reach the log.
type ListingService struct {
	repo    core.ListingRepository
	catalog *taxonomy.Catalog
	parser  *search.Parser
	logger  *slog.Logger
	metrics *metrics.Registry
}

// NewListingService constructs a new ListingService.
func NewListingService(opts ListingServiceOptions) *ListingService {
	if opts.Repo == nil {
		panic("ListingRepository is required")
	}
	if opts.Catalog == nil {
		panic("taxonomy catalog is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingService{
		repo:    opts.Repo,
		catalog: opts.Catalog,
		parser:  search.NewParser(search.ParserOptions{Catalog: opts.Catalog, Now: opts.Now}),
		logger:  logger.With("component", "listing_service"),
		metrics: opts.Metrics,
	}
}

// Parse normalizes raw query parameters into a filter.
func (s *ListingService) Parse(q url.Values) model.ListingFilter {
	return s.parser.Parse(q)
}

// SearchQuery parses q and runs the search.
func (s *ListingService) SearchQuery(ctx context.Context, q url.Values) (*model.ListingPage, error) {
	return s.Search(ctx, s.parser.Parse(q))
}

// Search runs f against the listing store.
func (s *ListingService) Search(ctx context.Context, f model.ListingFilter) (*model.ListingPage, error) {
	start := time.Now()
	page, err := s.repo.Search(ctx, f)
	elapsed := time.Since(start)

	if err != nil {
		s.metrics.ObserveSearch(elapsed, 0, err)
		s.logger.ErrorContext(ctx, "listing search failed",
			"error", err,
			"sort_by", f.SortBy.String(),
			"limit", f.Limit,
			"offset", f.Offset,
			"duration", elapsed,
		)
		return nil, apperrors.QueryFailed(err)
	}

	s.metrics.ObserveSearch(elapsed, page.Total, nil)
	if page.Listings == nil {
		page.Listings = []model.Listing{}
	}
	return page, nil
}

// Get returns one listing by id.
func (s *ListingService) Get(ctx context.Context, id string) (*model.Listing, error) {
	if id == "" {
		return nil, apperrors.ValidationField("id", "listing id is required")
	}
	l, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, model.ErrListingNotFound) {
		return nil, apperrors.NotFoundf("listing %s not found", id)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "listing lookup failed", "error", err, "listing_id", id)
		return nil, apperrors.QueryFailed(err)
	}
	return l, nil
}

// Exists reports whether a listing with id is stored.
func (s *ListingService) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.Get(ctx, id)
	if apperrors.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

// Categories lists the category groups with their leaf labels.
func (s *ListingService) Categories() []taxonomy.GroupLabels {
	return s.catalog.Categories.Groups()
}

// Continents maps each continent key to its country codes.
func (s *ListingService) Continents() map[string][]string {
	return s.catalog.Continents.Map()
}

// CheckPostedFormat returns the number of rows whose posted value would
// break text range filters and ordering.
func (s *ListingService) CheckPostedFormat(ctx context.Context) (int, error) {
	return s.repo.CheckPostedFormat(ctx)
}

// Import upserts listings, upper-casing their source.
func (s *ListingService) Import(ctx context.Context, listings []model.Listing) (int, error) {
	for i := range listings {
		if err := listings[i].Normalize(); err != nil {
			return 0, apperrors.Validationf("listing %d: %v", i, err)
		}
	}
	n, err := s.repo.Upsert(ctx, listings)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "listings imported", "count", n)
	return n, nil
}
