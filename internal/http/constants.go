package httpx

import "time"

// Cookie names shared by the auth handlers and middleware.
const (
	sessionCookie       = "session_id"
	stateCookie         = "oauth_state"
	nonceCookie         = "oauth_nonce"
	postLoginCookie     = "post_login_redirect"
	loginCookieLifetime = 10 * time.Minute
)

// Header carrying the total match count of GET /api/listings. The body stays
// a bare JSON array.
const totalCountHeader = "X-Total-Count"

const (
	// defaultMatchesLimit and maxMatchesLimit bound /api/me/alerts/{id}/listings.
	defaultMatchesLimit = 20
	maxMatchesLimit     = 100
)
