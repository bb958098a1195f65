// Package mocks provides gomock implementations of the core ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockListingRepository(ctrl)
//	repo.EXPECT().Search(gomock.Any(), gomock.Any()).Return(page, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=listing_repository_mock.go github.com/target/jobboard-api/internal/core ListingRepository

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_data_store_mock.go github.com/target/jobboard-api/internal/core UserDataStore

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/target/jobboard-api/internal/core CacheRepository
