package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/target/jobboard-api/internal/errors"
	"github.com/target/jobboard-api/internal/service"
)

// errGeneric replaces messages of errors that carry no public text.
var errGeneric = errors.New("internal error")

// DetermineErrorStatus maps a service error to an HTTP status and the value
// of the "error" field. Raw database errors are classified through
// MapDBError first.
//
//	status, code := DetermineErrorStatus(apperrors.NotFound("x")) // 404, "not_found"
func DetermineErrorStatus(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}
	if errors.Is(err, service.ErrUnauthenticated) {
		return http.StatusUnauthorized, "authentication_required"
	}
	err = apperrors.MapDBError(err)

	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound, string(apperrors.ErrCodeNotFound)
	case apperrors.ErrCodeConflict:
		return http.StatusConflict, string(apperrors.ErrCodeConflict)
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest, string(apperrors.ErrCodeValidation)
	case apperrors.ErrCodeQueryFailed:
		return http.StatusInternalServerError, string(apperrors.ErrCodeQueryFailed)
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, string(apperrors.ErrCodeTimeout)
	case apperrors.ErrCodeCanceled:
		// nginx convention for a client that went away
		return 499, string(apperrors.ErrCodeCanceled)
	default:
		return http.StatusInternalServerError, string(apperrors.ErrCodeInternal)
	}
}

// writeServiceError renders err with the status DetermineErrorStatus picks.
// Server-side failures are logged with their cause and answered with a
// message that does not include it.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := DetermineErrorStatus(err)
	if status >= http.StatusInternalServerError {
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			err = errGeneric
		}
	}
	WriteError(w, ErrorParams{Code: status, ErrCode: code, Err: err})
}
