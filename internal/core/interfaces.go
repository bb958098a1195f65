// Package core defines the ports between the service layer and its storage adapters.
package core

import (
	"context"
	"time"

	"github.com/target/jobboard-api/internal/domain/model"
)

// ListingRepository reads and seeds the listings table.
type ListingRepository interface {
	// Search returns the total match count and the requested page for f.
	// Both come from the same snapshot.
	Search(ctx context.Context, f model.ListingFilter) (*model.ListingPage, error)
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	// CheckPostedFormat counts rows whose posted value is not fixed-width UTC.
	CheckPostedFormat(ctx context.Context) (int, error)
	Upsert(ctx context.Context, listings []model.Listing) (int, error)
}

// UserDataStore persists versioned per-user documents.
type UserDataStore interface {
	Get(ctx context.Context, userID string, key model.DocumentKey) (*model.UserDocument, error)
	// Put fails with a version conflict when the stored version differs from
	// params.ExpectedVersion.
	Put(ctx context.Context, params model.PutUserDocumentParams) (*model.UserDocument, error)
	Delete(ctx context.Context, userID string, key model.DocumentKey) (bool, error)
	ListUsersWithKey(ctx context.Context, key model.DocumentKey) ([]string, error)
}

// CacheRepository is a byte-valued cache with TTLs.
type CacheRepository interface {
	// Set stores value under key. A zero ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns nil when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete reports whether the key existed.
	Delete(ctx context.Context, key string) (bool, error)

	// SetIfNotExists atomically sets key only when absent and reports whether it did.
	SetIfNotExists(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	Health(ctx context.Context) error
}
