package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres hata kodları (Class 23, Integrity Constraint Violation)
const (
	PgErrForeignKeyViolation = "23503"
	PgErrUniqueViolation     = "23505"
	PgErrNotNullViolation    = "23502"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == PgErrUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == PgErrForeignKeyViolation
}
