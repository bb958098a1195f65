package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts the column list from "Key (user_id, doc_key)=(...) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// MapDBError maps database errors to AppError instances:
//   - context deadline/cancel → Timeout/Canceled
//   - pgx.ErrNoRows → NotFound
//   - unique violation → Conflict
//   - check and NOT NULL violations → Validation
//   - other PgError codes → Internal
//
// Unrecognized errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &AppError{Code: ErrCodeTimeout, Message: "Request timed out. Please try again.", Cause: err}
	case errors.Is(err, context.Canceled):
		return &AppError{Code: ErrCodeCanceled, Message: "Request was canceled.", Cause: err}
	case errors.Is(err, pgx.ErrNoRows):
		return &AppError{Code: ErrCodeNotFound, Message: "Resource not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}
	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return &AppError{
			Code:    ErrCodeConflict,
			Message: tableLabel(pgErr.TableName) + " already exists.",
			Field:   uniqueField(pgErr),
			Cause:   pgErr,
		}
	case pgerrcode.CheckViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: checkMessage(pgErr.ConstraintName),
			Field:   checkField(pgErr),
			Cause:   pgErr,
		}
	case pgerrcode.NotNullViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "This field is required.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	default:
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred. Please try again.",
			Cause:   pgErr,
		}
	}
}

// uniqueField prefers column metadata, then the Detail key list.
func uniqueField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return strings.ReplaceAll(m[1], " ", "")
	}
	return ""
}

// checkField infers the column from "<table>_<column>_check" constraint names.
func checkField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	name := strings.TrimSuffix(pgErr.ConstraintName, "_check")
	if name == pgErr.ConstraintName {
		return ""
	}
	table := strings.TrimSpace(pgErr.TableName)
	if table != "" && strings.HasPrefix(name, table+"_") {
		return strings.TrimPrefix(name, table+"_")
	}
	return ""
}

func checkMessage(constraint string) string {
	switch constraint {
	case "listings_posted_check":
		return "posted must use the YYYY-MM-DDTHH:MM:SSZ format."
	case "user_documents_version_check":
		return "document version must be positive."
	default:
		return "Invalid data. Please check your input."
	}
}

// tableLabel maps table names to user-facing resource names.
func tableLabel(table string) string {
	switch strings.ToLower(strings.TrimSpace(table)) {
	case "listings":
		return "Listing"
	case "user_documents":
		return "Document"
	case "":
		return "This value"
	default:
		return strings.ReplaceAll(table, "_", " ")
	}
}
