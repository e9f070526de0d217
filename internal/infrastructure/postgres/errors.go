package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgconn"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// translate maps driver errors onto domain errors.
func translate(err error, notFound, conflict error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows) && notFound != nil:
		return notFound
	case isUniqueViolation(err) && conflict != nil:
		return conflict
	}
	return err
}
