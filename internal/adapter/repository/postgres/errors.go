package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/partytreasury/internal/domain"
)

const pgErrUniqueViolation = "23505"

func storeErr(op string, err error) error {
	return domain.NewStoreError(op, err)
}

// uniqueOr returns target when err is a unique violation, else a store error.
func uniqueOr(op string, err error, target error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return target
	}
	return storeErr(op, err)
}
