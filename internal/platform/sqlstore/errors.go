package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/studydev/studydev/internal/store"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// constraintKind classifies integrity violations independently of the driver.
type constraintKind int

const (
	constraintNone constraintKind = iota
	constraintUnique
	constraintForeignKey
	constraintCheck
	constraintNotNull
	constraintOther
)

func classify(err error) (constraintKind, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return constraintUnique, pgErr.ConstraintName
		case foreignKeyViolationCode:
			return constraintForeignKey, pgErr.ConstraintName
		case checkViolationCode:
			return constraintCheck, pgErr.ConstraintName
		case notNullViolationCode:
			return constraintNotNull, pgErr.ColumnName
		}
		return constraintNone, ""
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		switch code {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return constraintUnique, ""
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return constraintForeignKey, ""
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return constraintCheck, ""
		case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return constraintNotNull, ""
		}
		if code&0xff == sqlite3.SQLITE_CONSTRAINT {
			return constraintOther, ""
		}
	}

	return constraintNone, ""
}

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context for debugging.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	switch kind, name := classify(err); kind {
	case constraintUnique:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case constraintForeignKey:
		return fmt.Errorf("%w: foreign key violation (%s): %v", store.ErrInvalidEntity, name, err)
	case constraintCheck:
		return fmt.Errorf("%w: check constraint violation (%s): %v", store.ErrInvalidEntity, name, err)
	case constraintNotNull:
		return fmt.Errorf("%w: not null violation (%s): %v", store.ErrInvalidEntity, name, err)
	case constraintOther:
		return fmt.Errorf("%w: constraint violation: %v", store.ErrInvalidEntity, err)
	}

	return err
}

// IsForeignKeyViolation reports whether err is a foreign key violation on either backend.
func IsForeignKeyViolation(err error) bool {
	kind, _ := classify(err)
	return kind == constraintForeignKey
}

// IsUniqueViolation reports whether err is a unique or primary key violation on either backend.
func IsUniqueViolation(err error) bool {
	kind, _ := classify(err)
	return kind == constraintUnique
}

// CheckRowsAffected returns notFound when an UPDATE or DELETE touched no rows.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
