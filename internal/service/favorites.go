package service

import (
	"context"
	"strings"

	"github.com/target/jobboard-api/internal/core"
	"github.com/target/jobboard-api/internal/domain/model"
	apperrors "github.com/target/jobboard-api/internal/errors"
	"github.com/target/jobboard-api/internal/observability/metrics"
)

// listingChecker is the slice of ListingService that user-data services need.
type listingChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// FavoritesServiceOptions groups dependencies for FavoritesService.
type FavoritesServiceOptions struct {
	Store    core.UserDataStore // Required
	Listings listingChecker     // Optional: rejects unknown listing ids when set
	Metrics  *metrics.Registry  // Optional
}

// FavoritesService manages each user's starred listings.
type FavoritesService struct {
	docs     documentStore[model.Favorites]
	listings listingChecker
}

// NewFavoritesService constructs a new FavoritesService.
func NewFavoritesService(opts FavoritesServiceOptions) *FavoritesService {
	if opts.Store == nil {
		panic("UserDataStore is required")
	}
	return &FavoritesService{
		docs:     documentStore[model.Favorites]{store: opts.Store, key: model.DocFavorites, metrics: opts.Metrics},
		listings: opts.Listings,
	}
}

// List returns the user's favorite listing ids, newest first.
func (s *FavoritesService) List(ctx context.Context, userID string) ([]string, error) {
	fav, _, err := s.docs.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if fav.ListingIDs == nil {
		return []string{}, nil
	}
	return fav.ListingIDs, nil
}

// Add stars a listing. Adding an existing favorite is a no-op.
func (s *FavoritesService) Add(ctx context.Context, userID, listingID string) ([]string, error) {
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return nil, apperrors.ValidationField("listing_id", "listing id is required")
	}
	if s.listings != nil {
		ok, err := s.listings.Exists(ctx, listingID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.NotFoundf("listing %s not found", listingID)
		}
	}

	fav, err := s.docs.update(ctx, userID, func(f *model.Favorites) error {
		if f.Contains(listingID) {
			return errUnchanged
		}
		if len(f.ListingIDs) >= model.MaxFavorites {
			return apperrors.Validationf("at most %d favorites are allowed", model.MaxFavorites)
		}
		f.ListingIDs = append([]string{listingID}, f.ListingIDs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fav.ListingIDs, nil
}

// Remove unstars a listing. Removing an unknown id is a no-op.
func (s *FavoritesService) Remove(ctx context.Context, userID, listingID string) ([]string, error) {
	fav, err := s.docs.update(ctx, userID, func(f *model.Favorites) error {
		if !f.Contains(listingID) {
			return errUnchanged
		}
		kept := f.ListingIDs[:0:0]
		for _, id := range f.ListingIDs {
			if id != listingID {
				kept = append(kept, id)
			}
		}
		f.ListingIDs = kept
		return nil
	})
	if err != nil {
		return nil, err
	}
	if fav.ListingIDs == nil {
		return []string{}, nil
	}
	return fav.ListingIDs, nil
}
