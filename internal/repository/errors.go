package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicate signals a unique-index violation. Duplicate detection
// happens at the storage layer so two concurrent inserts for the same
// (course, student) pair cannot both succeed; services translate this
// sentinel into the entity-specific conflict error.
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolation = "23505"

func translateUnique(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}
