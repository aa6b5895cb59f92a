package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("user not found")

// DuplicateError: insert ditolak karena email / nik sudah ada.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s", e.Field)
}

const uniqueViolation = "23505"

func asDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	field := "email"
	if strings.Contains(pgErr.ConstraintName, "nik") {
		field = "nik"
	}
	return &DuplicateError{Field: field}
}
