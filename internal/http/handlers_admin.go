package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/target/jobboard-api/internal/domain/model"
)

// DigestRunner triggers one alert digest run.
type DigestRunner interface {
	RunOnce(ctx context.Context) (model.AlertDigestSummary, error)
}

// AdminHandlers serves /api/admin/*.
type AdminHandlers struct {
	Digest DigestRunner
	Logger *slog.Logger
}

// RunDigest handles POST /api/admin/alert-digest/run. A run already held by
// another replica answers 409.
func (h *AdminHandlers) RunDigest(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if s, ok := GetUserSessionFromContext(r.Context()); ok {
		logger.InfoContext(r.Context(), "alert digest triggered", "user_id", s.UserID)
	}

	summary, err := h.Digest.RunOnce(r.Context())
	if err != nil {
		writeServiceError(w, r, logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}
