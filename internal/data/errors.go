package data

import (
	"errors"

	"github.com/target/jobboard-api/internal/domain/model"
)

// Sentinel errors returned by data-layer repositories. The model package owns
// the ones services match on.
var (
	ErrListingNotFound         = model.ErrListingNotFound
	ErrDocumentNotFound        = model.ErrDocumentNotFound
	ErrDocumentVersionConflict = model.ErrDocumentVersionConflict
	ErrInvalidDocumentKey      = model.ErrInvalidDocumentKey

	ErrInvalidPosted = errors.New("posted must use the YYYY-MM-DDTHH:MM:SSZ format")
)
