// Package httpx serves the job board JSON API: listing search, per-user
// documents, the login flow and operational endpoints.
package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/target/jobboard-api/internal/domain/auth"
	"github.com/target/jobboard-api/internal/observability/metrics"
)

// RouterServices holds all the services needed by the HTTP router. Listings
// is required; every other group is registered only when present.
type RouterServices struct {
	Listings   ListingsService
	Auth       AuthServiceInterface
	Favorites  FavoritesAPI
	Tracker    TrackerAPI
	Interviews InterviewsAPI
	Alerts     AlertsAPI
	Digest     DigestRunner

	// Health checks run by /readyz, keyed by dependency name.
	Readiness map[string]HealthCheck
	Metrics   *metrics.Registry

	CookieDomain string
	LogoutURL    string
	Logger       *slog.Logger // Optional
}

// NewRouter creates the API handler with the logging, recovery and metrics
// middleware applied.
func NewRouter(services RouterServices) http.Handler {
	if services.Listings == nil {
		panic("NewRouter: Listings service is required") //nolint:forbidigo // Fail fast during server setup.
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)
	mux.Handle("GET /readyz", readinessHandler(services.Readiness))
	if services.Metrics != nil {
		mux.Handle("GET /metrics", services.Metrics.Handler())
	}

	registerListingRoutes(mux, &ListingHandlers{Svc: services.Listings, Logger: logger})

	if services.Auth != nil {
		registerAuthRoutes(mux, &AuthHandlers{
			Svc:          services.Auth,
			CookieDomain: services.CookieDomain,
			LogoutURL:    services.LogoutURL,
			Logger:       logger,
		})
		registerMeRoutes(mux, &MeHandlers{
			Favorites:  services.Favorites,
			Tracker:    services.Tracker,
			Interviews: services.Interviews,
			Alerts:     services.Alerts,
			Logger:     logger,
		}, services.Auth)
		if services.Digest != nil {
			adminOnly := RequireRole(services.Auth, domainauth.RoleAdmin)
			admin := &AdminHandlers{Digest: services.Digest, Logger: logger}
			mux.Handle("POST /api/admin/alert-digest/run", adminOnly(http.HandlerFunc(admin.RunDigest)))
		}
	}

	return Chain(mux, Recover(logger), Logging(logger), Metrics(services.Metrics))
}

func registerListingRoutes(mux *http.ServeMux, h *ListingHandlers) {
	mux.HandleFunc("GET /api/listings", h.List)
	mux.HandleFunc("GET /api/listings/{id}", h.Get)
	mux.HandleFunc("GET /api/categories", h.Categories)
	mux.HandleFunc("GET /api/continents", h.Continents)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.Handle("GET /api/auth/me", RequireAuth(h.Svc)(http.HandlerFunc(h.Me)))
}

// registerMeRoutes wires the per-user document endpoints. Guests hold a
// session but may not keep user data, so these require RoleUser.
func registerMeRoutes(mux *http.ServeMux, h *MeHandlers, auth SessionResolver) {
	wrap := func(fn http.HandlerFunc) http.Handler {
		return RequireRole(auth, domainauth.RoleUser)(fn)
	}

	if h.Favorites != nil {
		mux.Handle("GET /api/me/favorites", wrap(h.ListFavorites))
		mux.Handle("PUT /api/me/favorites/{listingID}", wrap(h.AddFavorite))
		mux.Handle("DELETE /api/me/favorites/{listingID}", wrap(h.RemoveFavorite))
	}
	if h.Tracker != nil {
		mux.Handle("GET /api/me/tracker", wrap(h.Board))
		mux.Handle("PUT /api/me/tracker/{listingID}", wrap(h.Track))
		mux.Handle("DELETE /api/me/tracker/{listingID}", wrap(h.Untrack))
	}
	if h.Interviews != nil {
		mux.Handle("GET /api/me/interviews", wrap(h.ListInterviews))
		mux.Handle("POST /api/me/interviews", wrap(h.CreateInterview))
		mux.Handle("PATCH /api/me/interviews/{id}", wrap(h.UpdateInterview))
		mux.Handle("DELETE /api/me/interviews/{id}", wrap(h.DeleteInterview))
	}
	if h.Alerts != nil {
		mux.Handle("GET /api/me/alerts", wrap(h.ListAlerts))
		mux.Handle("POST /api/me/alerts", wrap(h.CreateAlert))
		mux.Handle("GET /api/me/alerts/{id}", wrap(h.GetAlert))
		mux.Handle("DELETE /api/me/alerts/{id}", wrap(h.DeleteAlert))
		mux.Handle("GET /api/me/alerts/{id}/listings", wrap(h.AlertListings))
	}
}
