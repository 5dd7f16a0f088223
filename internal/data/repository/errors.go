package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrWrite           = errors.New("write failed")
	ErrVersionConflict = errors.New("movie was modified concurrently")
	ErrAlreadyPaid     = errors.New("booking is already paid")
	ErrDuplicate       = errors.New("duplicate record")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
