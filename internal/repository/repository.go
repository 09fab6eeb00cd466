// Package repository implements the entity store over PostgreSQL. It is the
// sole owner of persisted records; services operate read/write through it.
package repository

import (
	"errors"

	"github.com/lib/pq"

	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
)

const pgUniqueViolation = "23505"

// translateUniqueViolation maps a PostgreSQL unique-constraint violation to
// the typed duplicate error. Services pre-check uniqueness; the database
// constraint stays as the backstop under concurrent writes.
func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return appErrors.Wrap(err, appErrors.ErrDuplicateEntity.Code, appErrors.ErrDuplicateEntity.Status, appErrors.ErrDuplicateEntity.Message)
	}
	return err
}
