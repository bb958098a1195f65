package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/jobboard-api/internal/domain/model"
	apperrors "github.com/target/jobboard-api/internal/errors"
	"github.com/target/jobboard-api/internal/mocks"
	"github.com/target/jobboard-api/internal/observability/metrics"
)

func favoritesDoc(t *testing.T, version int64, ids ...string) *model.UserDocument {
	t.Helper()
	raw, err := json.Marshal(model.Favorites{ListingIDs: ids})
	require.NoError(t, err)
	return &model.UserDocument{UserID: "u1", Key: model.DocFavorites, Value: raw, Version: version}
}

func TestDocumentStore_LoadMissingIsZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockUserDataStore(ctrl)
	d := documentStore[model.Favorites]{store: store, key: model.DocFavorites}

	store.EXPECT().Get(gomock.Any(), "u1", model.DocFavorites).Return(nil, model.ErrDocumentNotFound)

	fav, version, err := d.load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)
	assert.Empty(t, fav.ListingIDs)
}

func TestDocumentStore_LoadErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockUserDataStore(ctrl)
	d := documentStore[model.Favorites]{store: store, key: model.DocFavorites}

	_, _, err := d.load(context.Background(), "")
	assert.True(t, apperrors.IsValidation(err))

	store.EXPECT().Get(gomock.Any(), "u1", model.DocFavorites).Return(nil, errors.New("conn reset"))
	_, _, err = d.load(context.Background(), "u1")
	assert.True(t, apperrors.IsInternal(err))

	store.EXPECT().Get(gomock.Any(), "u1", model.DocFavorites).
		Return(&model.UserDocument{Value: json.RawMessage(`{"listing_ids":`), Version: 2}, nil)
	_, _, err = d.load(context.Background(), "u1")
	assert.True(t, apperrors.IsInternal(err))
}

func TestDocumentStore_UpdateRetriesOnConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockUserDataStore(ctrl)
	reg := metrics.New()
	d := documentStore[model.Favorites]{store: store, key: model.DocFavorites, metrics: reg}

	gomock.InOrder(
		store.EXPECT().Get(gomock.Any(), "u1", model.DocFavorites).Return(favoritesDoc(t, 3, "a"), nil),
		store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil, model.ErrDocumentVersionConflict),
		store.EXPECT().Get(gomock.Any(), "u1", model.DocFavorites).Return(favoritesDoc(t, 4, "a", "b"), nil),
		store.EXPECT().Put(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p model.PutUserDocumentParams) (*model.UserDocument, error) {
				assert.Equal(t, int64(4), p.ExpectedVersion)
				assert.JSONEq(t, `{"listing_ids":["c","a","b"]}`, string(p.Value))
				return &model.UserDocument{Version: 5}, nil
			}),
	)

	calls := 0
	got, err := d.update(context.Background(), "u1", func(f *model.Favorites) error {
		calls++
		f.ListingIDs = append([]string{"c"}, f.ListingIDs...)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"c", "a", "b"}, got.ListingIDs)
}

func TestDocumentStore_UpdateGivesUpAfterMaxAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockUserDataStore(ctrl)
	d := documentStore[model.Favorites]{store: store, key: model.DocFavorites}

	store.EXPECT().Get(gomock.Any(), "u1", model.DocFavorites).
		Return(favoritesDoc(t, 1), nil).Times(maxDocumentWriteAttempts)
	store.EXPECT().Put(gomock.Any(), gomock.Any()).
		Return(nil, model.ErrDocumentVersionConflict).Times(maxDocumentWriteAttempts)

	_, err := d.update(context.Background(), "u1", func(f *model.Favorites) error {
		f.ListingIDs = []string{"x"}
		return nil
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.ErrorIs(t, err, model.ErrDocumentVersionConflict)
}

func TestDocumentStore_UpdateUnchangedSkipsWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockUserDataStore(ctrl)
	d := documentStore[model.Favorites]{store: store, key: model.DocFavorites}

	store.EXPECT().Get(gomock.Any(), "u1", model.DocFavorites).Return(favoritesDoc(t, 2, "a"), nil)

	got, err := d.update(context.Background(), "u1", func(*model.Favorites) error { return errUnchanged })
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.ListingIDs)
}

func TestDocumentStore_UpdatePropagatesErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockUserDataStore(ctrl)
	d := documentStore[model.Favorites]{store: store, key: model.DocFavorites}

	store.EXPECT().Get(gomock.Any(), "u1", model.DocFavorites).Return(favoritesDoc(t, 1), nil).Times(2)

	mutateErr := apperrors.Validation("nope")
	_, err := d.update(context.Background(), "u1", func(*model.Favorites) error { return mutateErr })
	assert.ErrorIs(t, err, mutateErr)

	store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil, errors.New("disk full"))
	_, err = d.update(context.Background(), "u1", func(f *model.Favorites) error {
		f.ListingIDs = []string{"x"}
		return nil
	})
	assert.True(t, apperrors.IsInternal(err))
}
