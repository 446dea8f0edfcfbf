package postgres

import (
	"database/sql"
	stderrors "errors"

	"worklog/internal/errors"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// notFoundOr maps sql.ErrNoRows to NOT_FOUND and anything else to a
// database error.
func notFoundOr(err error, resource, message string) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NotFound(resource)
	}
	return errors.DatabaseError(message, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// expectOneRow turns a zero-row mutation into NOT_FOUND
func expectOneRow(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.DatabaseError("failed to read affected rows", err)
	}
	if n == 0 {
		return errors.NotFound(resource)
	}
	return nil
}
