package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/jobboard-api/internal/domain/model"
	apperrors "github.com/target/jobboard-api/internal/errors"
)

type fakeFavorites struct {
	ids     map[string][]string
	lastUID string
	err     error
}

func (f *fakeFavorites) List(_ context.Context, uid string) ([]string, error) {
	f.lastUID = uid
	return append([]string{}, f.ids[uid]...), f.err
}

func (f *fakeFavorites) Add(_ context.Context, uid, id string) ([]string, error) {
	f.lastUID = uid
	if f.err != nil {
		return nil, f.err
	}
	if id == "ghost" {
		return nil, apperrors.NotFoundf("listing %s not found", id)
	}
	f.ids[uid] = append([]string{id}, f.ids[uid]...)
	return f.ids[uid], nil
}

func (f *fakeFavorites) Remove(_ context.Context, uid, id string) ([]string, error) {
	out := f.ids[uid][:0]
	for _, v := range f.ids[uid] {
		if v != id {
			out = append(out, v)
		}
	}
	f.ids[uid] = out
	return out, nil
}

type fakeTracker struct {
	got     model.TrackListingRequest
	removed bool
}

func (f *fakeTracker) Board(context.Context, string) ([]model.TrackerEntry, error) {
	return []model.TrackerEntry{{ListingID: "a", Status: model.TrackerStatus("APPLIED"), UpdatedAt: testNow}}, nil
}

func (f *fakeTracker) Track(_ context.Context, _ string, req model.TrackListingRequest) (*model.TrackerEntry, error) {
	f.got = req
	if req.Status == "HIRED" {
		return nil, apperrors.ValidationField("status", "cannot move from TO_APPLY to HIRED")
	}
	return &model.TrackerEntry{ListingID: req.ListingID, Status: req.Status, UpdatedAt: testNow}, nil
}

func (f *fakeTracker) Untrack(context.Context, string, string) (bool, error) {
	return f.removed, nil
}

type fakeInterviews struct {
	created model.CreateInterviewRequest
}

func (f *fakeInterviews) List(context.Context, string) ([]model.Interview, error) {
	return []model.Interview{}, nil
}

func (f *fakeInterviews) Create(_ context.Context, _ string, req model.CreateInterviewRequest) (*model.Interview, error) {
	f.created = req
	return &model.Interview{ID: "iv-1", Title: req.Title, StartsAt: req.StartsAt, EndsAt: req.EndsAt}, nil
}

func (f *fakeInterviews) Update(_ context.Context, _, id string, _ model.UpdateInterviewRequest) (*model.Interview, error) {
	return nil, apperrors.NotFoundf("interview %s not found", id)
}

func (f *fakeInterviews) Delete(context.Context, string, string) (bool, error) {
	return true, nil
}

type fakeAlerts struct {
	limit, offset int
}

func (f *fakeAlerts) List(context.Context, string) ([]model.ListingAlert, error) {
	return []model.ListingAlert{}, nil
}

func (f *fakeAlerts) Get(_ context.Context, _, id string) (*model.ListingAlert, error) {
	return &model.ListingAlert{ID: id, Name: "Paris quant"}, nil
}

func (f *fakeAlerts) Create(_ context.Context, _ string, req model.CreateListingAlertRequest) (*model.ListingAlert, error) {
	return &model.ListingAlert{ID: "al-1", Name: req.Name, Query: req.Query, CreatedAt: testNow}, nil
}

func (f *fakeAlerts) Delete(context.Context, string, string) (bool, error) {
	return false, nil
}

func (f *fakeAlerts) Matches(_ context.Context, _, id string, limit, offset int) (*model.ListingPage, error) {
	if id == "broken" {
		return nil, apperrors.QueryFailed(errors.New("timeout"))
	}
	f.limit, f.offset = limit, offset
	return &model.ListingPage{Total: 12, Listings: []model.Listing{{ID: "a"}}}, nil
}

type meFixture struct {
	handler    http.Handler
	favorites  *fakeFavorites
	tracker    *fakeTracker
	interviews *fakeInterviews
	alerts     *fakeAlerts
}

func newMeFixture(t *testing.T) meFixture {
	t.Helper()
	svc, _ := newListingService(t)
	fx := meFixture{
		favorites:  &fakeFavorites{ids: map[string][]string{"u-1": {"b"}}},
		tracker:    &fakeTracker{},
		interviews: &fakeInterviews{},
		alerts:     &fakeAlerts{},
	}
	fx.handler = NewRouter(RouterServices{
		Listings:   svc,
		Auth:       newFakeAuth(),
		Favorites:  fx.favorites,
		Tracker:    fx.tracker,
		Interviews: fx.interviews,
		Alerts:     fx.alerts,
		Logger:     discardLogger(),
	})
	return fx
}

func (fx meFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	fx.handler.ServeHTTP(rec, req)
	return rec
}

func TestMeRoutes_RequireUserRole(t *testing.T) {
	fx := newMeFixture(t)

	rec := fx.do(newRequest(http.MethodGet, "/api/me/favorites", "", ""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = fx.do(newRequest(http.MethodGet, "/api/me/favorites", "", "expired-or-unknown"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = fx.do(newRequest(http.MethodGet, "/api/me/favorites", "", "guest-session"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = fx.do(newRequest(http.MethodGet, "/api/me/favorites", "", "admin-session"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMeHandlers_Favorites(t *testing.T) {
	fx := newMeFixture(t)

	rec := fx.do(newRequest(http.MethodGet, "/api/me/favorites", "", "user-session"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"listing_ids":["b"]}`, rec.Body.String())
	assert.Equal(t, "u-1", fx.favorites.lastUID)

	rec = fx.do(newRequest(http.MethodPut, "/api/me/favorites/a", "", "user-session"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"listing_ids":["a","b"]}`, rec.Body.String())

	rec = fx.do(newRequest(http.MethodPut, "/api/me/favorites/ghost", "", "user-session"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = fx.do(newRequest(http.MethodDelete, "/api/me/favorites/b", "", "user-session"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"listing_ids":["a"]}`, rec.Body.String())
}

func TestMeHandlers_Favorites_StoreFailureIsGeneric(t *testing.T) {
	fx := newMeFixture(t)
	fx.favorites.err = errors.New("dial tcp 10.1.2.3:5432: i/o timeout")

	rec := fx.do(newRequest(http.MethodGet, "/api/me/favorites", "", "user-session"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.1.2.3")
}

func TestMeHandlers_Tracker(t *testing.T) {
	fx := newMeFixture(t)

	rec := fx.do(newRequest(http.MethodPut, "/api/me/tracker/a", `{"status":"APPLIED","note":"sent CV"}`, "user-session"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a", fx.tracker.got.ListingID)
	require.NotNil(t, fx.tracker.got.Note)
	assert.Equal(t, "sent CV", *fx.tracker.got.Note)

	rec = fx.do(newRequest(http.MethodPut, "/api/me/tracker/a", `{"status":"HIRED"}`, "user-session"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"status"`)

	rec = fx.do(newRequest(http.MethodPut, "/api/me/tracker/a", `{"state":"APPLIED"}`, "user-session"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"invalid_json"`)

	rec = fx.do(newRequest(http.MethodDelete, "/api/me/tracker/a", "", "user-session"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	fx.tracker.removed = true
	rec = fx.do(newRequest(http.MethodDelete, "/api/me/tracker/a", "", "user-session"))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = fx.do(newRequest(http.MethodGet, "/api/me/tracker", "", "user-session"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"APPLIED"`)
}

func TestMeHandlers_Interviews(t *testing.T) {
	fx := newMeFixture(t)

	body := `{"title":"Onsite","starts_at":"2025-03-12T09:00:00Z","ends_at":"2025-03-12T10:00:00Z"}`
	rec := fx.do(newRequest(http.MethodPost, "/api/me/interviews", body, "user-session"))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Onsite", fx.interviews.created.Title)
	assert.True(t, fx.interviews.created.EndsAt.Equal(time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)))

	rec = fx.do(newRequest(http.MethodPatch, "/api/me/interviews/nope", `{"title":"x"}`, "user-session"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = fx.do(newRequest(http.MethodDelete, "/api/me/interviews/iv-1", "", "user-session"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMeHandlers_Alerts(t *testing.T) {
	fx := newMeFixture(t)

	rec := fx.do(newRequest(http.MethodPost, "/api/me/alerts",
		`{"name":"Paris quant","query":{"country":["FR"],"keyword":["quant"]}}`, "user-session"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.ListingAlert
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, []string{"FR"}, created.Query["country"])

	rec = fx.do(newRequest(http.MethodGet, "/api/me/alerts/al-1/listings?limit=5&offset=10", "", "user-session"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12", rec.Header().Get("X-Total-Count"))
	assert.JSONEq(t, `[{"id":"a","title":"","company":null,"location":null,"link":"","posted":"","source":"","keyword":null,"category":null,"contract_type":null,"country_code":null,"country_name":null}]`, rec.Body.String())
	assert.Equal(t, 5, fx.alerts.limit)
	assert.Equal(t, 10, fx.alerts.offset)

	rec = fx.do(newRequest(http.MethodGet, "/api/me/alerts/broken/listings", "", "user-session"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"query_failed","message":"query failed"}`, rec.Body.String())

	rec = fx.do(newRequest(http.MethodDelete, "/api/me/alerts/al-9", "", "user-session"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
