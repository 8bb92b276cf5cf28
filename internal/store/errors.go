package store

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a unique constraint.
var ErrConflict = errors.New("conflict")

// ErrTokenConflict is returned when a new user's api token is already held
// by another user.
var ErrTokenConflict = errors.New("api token conflict")

const (
	uniqueViolation     pq.ErrorCode = "23505"
	foreignKeyViolation pq.ErrorCode = "23503"
)

func isUniqueViolation(err error) bool {
	_, ok := uniqueConstraint(err)
	return ok
}

// uniqueConstraint returns the name of the violated unique index.
func uniqueConstraint(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}

type rowScanner interface {
	Scan(dest ...any) error
}
