package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/target/jobboard-api/internal/domain/model"
	"github.com/target/jobboard-api/internal/domain/taxonomy"
)

// ListingsService is the listing surface the HTTP layer needs.
type ListingsService interface {
	SearchQuery(ctx context.Context, q url.Values) (*model.ListingPage, error)
	Get(ctx context.Context, id string) (*model.Listing, error)
	Categories() []taxonomy.GroupLabels
	Continents() map[string][]string
}

// ListingHandlers serves the public listing endpoints.
type ListingHandlers struct {
	Svc    ListingsService
	Logger *slog.Logger
}

// List handles GET /api/listings. Malformed parameters fall back to
// defaults, so the only error response is a failed query. The body is a
// bare array; the total match count travels in X-Total-Count.
func (h *ListingHandlers) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.Svc.SearchQuery(r.Context(), r.URL.Query())
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}

	w.Header().Set(totalCountHeader, strconv.Itoa(page.Total))
	w.Header().Set("Access-Control-Expose-Headers", totalCountHeader)
	WriteJSON(w, http.StatusOK, page.Listings)
}

// Get handles GET /api/listings/{id}.
func (h *ListingHandlers) Get(w http.ResponseWriter, r *http.Request) {
	listing, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, listing)
}

// Categories handles GET /api/categories.
func (h *ListingHandlers) Categories(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.Svc.Categories())
}

// Continents handles GET /api/continents.
func (h *ListingHandlers) Continents(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.Svc.Continents())
}
