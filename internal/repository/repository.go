package repository

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx, so repository methods
// that take one can run inside or outside a transaction.
type Querier interface {
	sqlx.ExtContext
}

// isUniqueViolation checks for unique constraint violation (works for both SQLite and PostgreSQL)
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}

// violatesConstraint reports whether a unique violation names the given column or constraint.
func violatesConstraint(err error, name string) bool {
	return isUniqueViolation(err) && strings.Contains(err.Error(), name)
}
