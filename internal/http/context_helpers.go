package httpx

import (
	"context"

	domainauth "github.com/target/jobboard-api/internal/domain/auth"
)

type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the session placed by the auth middleware.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// userIDFromContext returns the subject that keys per-user documents, or ""
// when the request is anonymous.
func userIDFromContext(ctx context.Context) string {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s.UserID
	}
	return ""
}
