package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/target/jobboard-api/internal/data/pgxutil"
	"github.com/target/jobboard-api/internal/domain/model"
)

const userDocumentColumns = `user_id, doc_key, value, version, updated_at`

// UserDataRepo stores versioned per-user JSON documents.
type UserDataRepo struct {
	DB *sql.DB
}

// NewUserDataRepo creates a new UserDataRepo.
func NewUserDataRepo(db *sql.DB) *UserDataRepo {
	return &UserDataRepo{DB: db}
}

func validateDocumentRef(userID string, key model.DocumentKey) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("user id is required")
	}
	if !key.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDocumentKey, key)
	}
	return nil
}

func (r *UserDataRepo) queryOne(ctx context.Context, query string, args ...any) (*model.UserDocument, error) {
	var doc model.UserDocument
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		doc, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.UserDocument])
		return err
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Get returns the document stored under userID and key, or ErrDocumentNotFound.
func (r *UserDataRepo) Get(ctx context.Context, userID string, key model.DocumentKey) (*model.UserDocument, error) {
	if err := validateDocumentRef(userID, key); err != nil {
		return nil, err
	}
	doc, err := r.queryOne(ctx,
		`SELECT `+userDocumentColumns+` FROM user_documents WHERE user_id = $1 AND doc_key = $2`,
		userID, string(key),
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user document: %w", err)
	}
	return doc, nil
}

// Put writes a document if its stored version still equals
// params.ExpectedVersion. ExpectedVersion 0 creates the document. A lost race
// returns ErrDocumentVersionConflict.
func (r *UserDataRepo) Put(ctx context.Context, params model.PutUserDocumentParams) (*model.UserDocument, error) {
	if err := validateDocumentRef(params.UserID, params.Key); err != nil {
		return nil, err
	}
	if params.ExpectedVersion < 0 {
		return nil, fmt.Errorf("expected version must not be negative: %d", params.ExpectedVersion)
	}
	if !json.Valid(params.Value) {
		return nil, errors.New("document value must be valid JSON")
	}

	var (
		doc *model.UserDocument
		err error
	)
	if params.ExpectedVersion == 0 {
		doc, err = r.queryOne(ctx, `
			INSERT INTO user_documents (user_id, doc_key, value, version, updated_at)
			VALUES ($1, $2, $3, 1, now())
			RETURNING `+userDocumentColumns,
			params.UserID, string(params.Key), params.Value,
		)
	} else {
		doc, err = r.queryOne(ctx, `
			UPDATE user_documents
			SET value = $3, version = version + 1, updated_at = now()
			WHERE user_id = $1 AND doc_key = $2 AND version = $4
			RETURNING `+userDocumentColumns,
			params.UserID, string(params.Key), params.Value, params.ExpectedVersion,
		)
	}
	if err = mapDocumentWriteErr(err); err != nil {
		return nil, err
	}
	return doc, nil
}

func mapDocumentWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDocumentVersionConflict
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrDocumentVersionConflict
	}
	return fmt.Errorf("put user document: %w", err)
}

// Delete removes a document. It reports whether a row existed.
func (r *UserDataRepo) Delete(ctx context.Context, userID string, key model.DocumentKey) (bool, error) {
	if err := validateDocumentRef(userID, key); err != nil {
		return false, err
	}
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM user_documents WHERE user_id = $1 AND doc_key = $2`, userID, string(key))
	if err != nil {
		return false, fmt.Errorf("delete user document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete user document rows affected: %w", err)
	}
	return n > 0, nil
}

// ListUsersWithKey returns, in ascending order, every user holding a document under key.
func (r *UserDataRepo) ListUsersWithKey(ctx context.Context, key model.DocumentKey) ([]string, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDocumentKey, key)
	}
	var users []string
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT user_id FROM user_documents WHERE doc_key = $1 ORDER BY user_id`, string(key))
		if err != nil {
			return err
		}
		users, err = pgx.CollectRows(rows, pgx.RowTo[string])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list users with %s: %w", key, err)
	}
	return users, nil
}
