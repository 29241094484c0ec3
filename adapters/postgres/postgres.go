// Package postgres implements the repository ports over PostgreSQL using
// sqlx. Adapters translate driver errors into the application error taxonomy
// so memory and postgres backends are interchangeable to the services.
package postgres

import (
	"database/sql"
	stderrors "errors"

	"github.com/lib/pq"

	"healthmini/internal/errors"
)

const uniqueViolation = "23505"

// translate maps driver errors onto application codes. sql.ErrNoRows becomes
// NOT_FOUND for the named resource, unique violations become CONFLICT,
// anything else is a persistence failure.
func translate(err error, resource string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NotFound(resource)
	}
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return errors.Conflict(resource + " already exists")
	}
	return errors.PersistenceFailure(err)
}
