package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/target/jobboard-api/internal/domain/model"
)

// FavoritesAPI is the favorites surface of the user data services.
type FavoritesAPI interface {
	List(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, listingID string) ([]string, error)
	Remove(ctx context.Context, userID, listingID string) ([]string, error)
}

// TrackerAPI is the application tracker surface.
type TrackerAPI interface {
	Board(ctx context.Context, userID string) ([]model.TrackerEntry, error)
	Track(ctx context.Context, userID string, req model.TrackListingRequest) (*model.TrackerEntry, error)
	Untrack(ctx context.Context, userID, listingID string) (bool, error)
}

// InterviewsAPI is the interview calendar surface.
type InterviewsAPI interface {
	List(ctx context.Context, userID string) ([]model.Interview, error)
	Create(ctx context.Context, userID string, req model.CreateInterviewRequest) (*model.Interview, error)
	Update(ctx context.Context, userID, id string, req model.UpdateInterviewRequest) (*model.Interview, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}

// AlertsAPI is the saved search surface.
type AlertsAPI interface {
	List(ctx context.Context, userID string) ([]model.ListingAlert, error)
	Get(ctx context.Context, userID, id string) (*model.ListingAlert, error)
	Create(ctx context.Context, userID string, req model.CreateListingAlertRequest) (*model.ListingAlert, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	Matches(ctx context.Context, userID, id string, limit, offset int) (*model.ListingPage, error)
}

// MeHandlers serves /api/me/*. Every route runs behind RequireRole, so the
// session is always present in the request context.
type MeHandlers struct {
	Favorites  FavoritesAPI
	Tracker    TrackerAPI
	Interviews InterviewsAPI
	Alerts     AlertsAPI
	Logger     *slog.Logger
}

func (h *MeHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeServiceError(w, r, h.Logger, err)
}

func writeNotFound(w http.ResponseWriter, msg string) {
	WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New(msg)})
}

type favoritesResponse struct {
	ListingIDs []string `json:"listing_ids"`
}

// ListFavorites handles GET /api/me/favorites.
func (h *MeHandlers) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Favorites.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, favoritesResponse{ListingIDs: ids})
}

// AddFavorite handles PUT /api/me/favorites/{listingID}.
func (h *MeHandlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Favorites.Add(r.Context(), userIDFromContext(r.Context()), r.PathValue("listingID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, favoritesResponse{ListingIDs: ids})
}

// RemoveFavorite handles DELETE /api/me/favorites/{listingID}.
func (h *MeHandlers) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Favorites.Remove(r.Context(), userIDFromContext(r.Context()), r.PathValue("listingID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, favoritesResponse{ListingIDs: ids})
}

// Board handles GET /api/me/tracker.
func (h *MeHandlers) Board(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Tracker.Board(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, entries)
}

type trackBody struct {
	Status model.TrackerStatus `json:"status"`
	Note   *string             `json:"note,omitempty"`
}

// Track handles PUT /api/me/tracker/{listingID}.
func (h *MeHandlers) Track(w http.ResponseWriter, r *http.Request) {
	var body trackBody
	if !DecodeJSON(w, r, &body) {
		return
	}
	entry, err := h.Tracker.Track(r.Context(), userIDFromContext(r.Context()), model.TrackListingRequest{
		ListingID: r.PathValue("listingID"),
		Status:    body.Status,
		Note:      body.Note,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, entry)
}

// Untrack handles DELETE /api/me/tracker/{listingID}.
func (h *MeHandlers) Untrack(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Tracker.Untrack(r.Context(), userIDFromContext(r.Context()), r.PathValue("listingID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !removed {
		writeNotFound(w, "listing is not tracked")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListInterviews handles GET /api/me/interviews.
func (h *MeHandlers) ListInterviews(w http.ResponseWriter, r *http.Request) {
	ivs, err := h.Interviews.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, ivs)
}

// CreateInterview handles POST /api/me/interviews.
func (h *MeHandlers) CreateInterview(w http.ResponseWriter, r *http.Request) {
	var req model.CreateInterviewRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	iv, err := h.Interviews.Create(r.Context(), userIDFromContext(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, iv)
}

// UpdateInterview handles PATCH /api/me/interviews/{id}.
func (h *MeHandlers) UpdateInterview(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateInterviewRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	iv, err := h.Interviews.Update(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, iv)
}

// DeleteInterview handles DELETE /api/me/interviews/{id}.
func (h *MeHandlers) DeleteInterview(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Interviews.Delete(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !deleted {
		writeNotFound(w, "interview not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAlerts handles GET /api/me/alerts.
func (h *MeHandlers) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.Alerts.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, alerts)
}

// CreateAlert handles POST /api/me/alerts.
func (h *MeHandlers) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var req model.CreateListingAlertRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	alert, err := h.Alerts.Create(r.Context(), userIDFromContext(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, alert)
}

// GetAlert handles GET /api/me/alerts/{id}.
func (h *MeHandlers) GetAlert(w http.ResponseWriter, r *http.Request) {
	alert, err := h.Alerts.Get(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, alert)
}

// DeleteAlert handles DELETE /api/me/alerts/{id}.
func (h *MeHandlers) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Alerts.Delete(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !deleted {
		writeNotFound(w, "alert not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AlertListings handles GET /api/me/alerts/{id}/listings. The response has
// the same shape as GET /api/listings.
func (h *MeHandlers) AlertListings(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, defaultMatchesLimit, maxMatchesLimit)
	page, err := h.Alerts.Matches(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"), limit, offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set(totalCountHeader, strconv.Itoa(page.Total))
	WriteJSON(w, http.StatusOK, page.Listings)
}
