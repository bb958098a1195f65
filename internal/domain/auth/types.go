// Package auth holds the principal and session types shared by the auth
// adapters, the auth service and the HTTP layer.
package auth

import (
	"strings"
	"time"
)

// Role is the authorization level attached to a session.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// CanUseUserData reports whether the role may read and write its own
// favorites, tracker, interviews and alerts.
func (r Role) CanUseUserData() bool { return r == RoleAdmin || r == RoleUser }

// Identity is what an identity provider hands back after a successful login.
type Identity struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time
}

// DisplayName joins first and last name, falling back to the email and then
// the user id.
func (i Identity) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(i.FirstName) + " " + strings.TrimSpace(i.LastName))
	switch {
	case name != "":
		return name
	case i.Email != "":
		return i.Email
	default:
		return i.UserID
	}
}

// Session is the server-side record behind the session cookie. UserID is
// the subject every per-user document is keyed by.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAdmin reports whether the session carries the admin role.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }
