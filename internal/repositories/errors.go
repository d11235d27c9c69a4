package repositories

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres error codes the repositories care about.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

func isPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == code
	}
	return false
}

func isUniqueViolation(err error) bool     { return isPQCode(err, pqUniqueViolation) }
func isForeignKeyViolation(err error) bool { return isPQCode(err, pqForeignKeyViolation) }
func isCheckViolation(err error) bool      { return isPQCode(err, pqCheckViolation) }
