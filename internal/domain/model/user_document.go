//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrDocumentNotFound = errors.New("user document not found")
	// ErrDocumentVersionConflict is returned when a versioned write lost a race.
	ErrDocumentVersionConflict = errors.New("user document version conflict")
	ErrInvalidDocumentKey      = errors.New("unknown user document key")
)

// DocumentKey names one per-user document.
type DocumentKey string

const (
	DocFavorites  DocumentKey = "favorites"
	DocTracker    DocumentKey = "tracker"
	DocInterviews DocumentKey = "interviews"
	DocAlerts     DocumentKey = "alerts"
)

// Valid reports whether k is a known document key.
func (k DocumentKey) Valid() bool {
	switch k {
	case DocFavorites, DocTracker, DocInterviews, DocAlerts:
		return true
	default:
		return false
	}
}

// UserDocument is a versioned JSON value stored per user and key.
type UserDocument struct {
	UserID    string          `json:"user_id"    db:"user_id"`
	Key       DocumentKey     `json:"key"        db:"doc_key"`
	Value     json.RawMessage `json:"value"      db:"value"`
	Version   int64           `json:"version"    db:"version"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// PutUserDocumentParams groups the arguments of a versioned write.
// ExpectedVersion 0 means the document must not exist yet.
type PutUserDocumentParams struct {
	UserID          string
	Key             DocumentKey
	Value           json.RawMessage
	ExpectedVersion int64
}
