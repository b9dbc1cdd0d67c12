package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/phrazzld/tasktrack/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"

	// checkViolationCode is the PostgreSQL error code for check constraint violations
	checkViolationCode = "23514"

	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"
)

// MapError maps a driver error to the matching store error, wrapping the
// original for debugging. It understands pgx, lib/pq and SQLite errors.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	code, constraint := constraintCode(err)
	switch code {
	case uniqueViolationCode:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case checkViolationCode:
		return fmt.Errorf("%w: check constraint violation (%s): %v", store.ErrInvalidEntity, constraint, err)
	case notNullViolationCode:
		return fmt.Errorf("%w: not null violation (%s): %v", store.ErrInvalidEntity, constraint, err)
	}

	return err
}

// constraintCode extracts a PostgreSQL-style SQLSTATE from any supported
// driver error. SQLite constraint codes are translated to their SQLSTATE
// equivalents.
func constraintCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		name := pgErr.ConstraintName
		if name == "" {
			name = pgErr.ColumnName
		}
		return pgErr.Code, name
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		name := pqErr.Constraint
		if name == "" {
			name = pqErr.Column
		}
		return string(pqErr.Code), name
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return uniqueViolationCode, ""
		case sqlite3.ErrConstraintCheck:
			return checkViolationCode, ""
		case sqlite3.ErrConstraintNotNull:
			return notNullViolationCode, ""
		}
	}
	return "", ""
}

// IsUniqueViolation checks if the given error is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	code, _ := constraintCode(err)
	return code == uniqueViolationCode
}

// IsCheckConstraintViolation checks if the given error is a check constraint violation.
func IsCheckConstraintViolation(err error) bool {
	code, _ := constraintCode(err)
	return code == checkViolationCode
}

// CheckRowsAffected returns store.ErrNotFound wrapped with entityName when
// result reports no affected rows.
func CheckRowsAffected(result sql.Result, entityName string) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if entityName == "" {
			return store.ErrNotFound
		}
		return fmt.Errorf("%w: %s not found", store.ErrNotFound, entityName)
	}

	return nil
}
