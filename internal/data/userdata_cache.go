package data

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/target/jobboard-api/internal/core"
	"github.com/target/jobboard-api/internal/domain/model"
)

// DefaultUserDataCacheTTL bounds how long a cached document may be served.
const DefaultUserDataCacheTTL = 5 * time.Minute

// CachedUserDataStoreOptions bundles dependencies for NewCachedUserDataStore.
type CachedUserDataStoreOptions struct {
	Store  core.UserDataStore
	Cache  core.CacheRepository
	TTL    time.Duration
	Logger *slog.Logger
}

// CachedUserDataStore is a read-through cache in front of a UserDataStore.
// Writes go to the store first and then drop the cached copy. Cache failures
// are logged and never fail the call.
type CachedUserDataStore struct {
	store  core.UserDataStore
	cache  core.CacheRepository
	ttl    time.Duration
	logger *slog.Logger
}

var _ core.UserDataStore = (*CachedUserDataStore)(nil)

// NewCachedUserDataStore creates a CachedUserDataStore.
func NewCachedUserDataStore(opts CachedUserDataStoreOptions) *CachedUserDataStore {
	if opts.Store == nil {
		panic("CachedUserDataStore requires a Store")
	}
	if opts.Cache == nil {
		panic("CachedUserDataStore requires a Cache")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultUserDataCacheTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedUserDataStore{
		store:  opts.Store,
		cache:  opts.Cache,
		ttl:    ttl,
		logger: logger.With("component", "userdata_cache"),
	}
}

func userDocumentCacheKey(userID string, key model.DocumentKey) string {
	return "userdata:" + string(key) + ":" + userID
}

// Get serves from cache when possible and fills the cache on a miss.
func (s *CachedUserDataStore) Get(ctx context.Context, userID string, key model.DocumentKey) (*model.UserDocument, error) {
	ck := userDocumentCacheKey(userID, key)

	raw, err := s.cache.Get(ctx, ck)
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "user data cache read failed", "key", key, "error", err)
	case raw != nil:
		var doc model.UserDocument
		if jsonErr := json.Unmarshal(raw, &doc); jsonErr == nil {
			return &doc, nil
		}
		s.invalidate(ctx, ck)
	}

	doc, err := s.store.Get(ctx, userID, key)
	if err != nil {
		return nil, err
	}
	if b, jsonErr := json.Marshal(doc); jsonErr == nil {
		if setErr := s.cache.Set(ctx, ck, b, s.ttl); setErr != nil {
			s.logger.WarnContext(ctx, "user data cache write failed", "key", key, "error", setErr)
		}
	}
	return doc, nil
}

// Put writes through to the store. The cached copy is dropped whether or not
// the write succeeded, since a version conflict means the cache may be stale.
func (s *CachedUserDataStore) Put(ctx context.Context, params model.PutUserDocumentParams) (*model.UserDocument, error) {
	doc, err := s.store.Put(ctx, params)
	s.invalidate(ctx, userDocumentCacheKey(params.UserID, params.Key))
	return doc, err
}

// Delete removes the document and its cached copy.
func (s *CachedUserDataStore) Delete(ctx context.Context, userID string, key model.DocumentKey) (bool, error) {
	deleted, err := s.store.Delete(ctx, userID, key)
	s.invalidate(ctx, userDocumentCacheKey(userID, key))
	return deleted, err
}

// ListUsersWithKey is not cached.
func (s *CachedUserDataStore) ListUsersWithKey(ctx context.Context, key model.DocumentKey) ([]string, error) {
	return s.store.ListUsersWithKey(ctx, key)
}

func (s *CachedUserDataStore) invalidate(ctx context.Context, ck string) {
	if _, err := s.cache.Delete(ctx, ck); err != nil {
		s.logger.WarnContext(ctx, "user data cache invalidation failed", "cache_key", ck, "error", err)
	}
}
