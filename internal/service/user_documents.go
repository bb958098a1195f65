package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/target/jobboard-api/internal/core"
	"github.com/target/jobboard-api/internal/domain/model"
	apperrors "github.com/target/jobboard-api/internal/errors"
	"github.com/target/jobboard-api/internal/observability/metrics"
)

// maxDocumentWriteAttempts bounds read-modify-write retries on version conflicts.
const maxDocumentWriteAttempts = 3

// errUnchanged lets a mutation report that nothing needs writing.
var errUnchanged = errors.New("document unchanged")

// documentStore reads and writes one typed per-user document.
type documentStore[T any] struct {
	store   core.UserDataStore
	key     model.DocumentKey
	metrics *metrics.Registry
}

// load returns the decoded document and its version. A missing document is
// the zero T at version 0.
func (d documentStore[T]) load(ctx context.Context, userID string) (T, int64, error) {
	var out T
	if userID == "" {
		return out, 0, apperrors.Validation("user id is required")
	}
	doc, err := d.store.Get(ctx, userID, d.key)
	if errors.Is(err, model.ErrDocumentNotFound) {
		return out, 0, nil
	}
	if err != nil {
		return out, 0, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "failed to load %s", d.key)
	}
	if len(doc.Value) > 0 {
		if err := json.Unmarshal(doc.Value, &out); err != nil {
			return out, 0, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "stored %s document is corrupt", d.key)
		}
	}
	return out, doc.Version, nil
}

// update applies mutate to the current document and stores the result. On a
// version conflict the document is reloaded and mutate runs again, so mutate
// must only depend on its argument. Errors from mutate are returned as is,
// except errUnchanged which skips the write.
func (d documentStore[T]) update(ctx context.Context, userID string, mutate func(*T) error) (T, error) {
	var zero T
	for attempt := 1; ; attempt++ {
		cur, version, err := d.load(ctx, userID)
		if err != nil {
			return zero, err
		}

		err = mutate(&cur)
		if errors.Is(err, errUnchanged) {
			return cur, nil
		}
		if err != nil {
			return zero, err
		}

		raw, err := json.Marshal(cur)
		if err != nil {
			return zero, fmt.Errorf("encode %s: %w", d.key, err)
		}
		_, err = d.store.Put(ctx, model.PutUserDocumentParams{
			UserID:          userID,
			Key:             d.key,
			Value:           raw,
			ExpectedVersion: version,
		})
		if err == nil {
			return cur, nil
		}
		if !errors.Is(err, model.ErrDocumentVersionConflict) {
			return zero, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "failed to save %s", d.key)
		}

		d.metrics.CountVersionConflict(string(d.key))
		if attempt >= maxDocumentWriteAttempts {
			return zero, apperrors.Wrap(err, apperrors.ErrCodeConflict,
				"your data was changed elsewhere; please retry")
		}
	}
}
