package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// Postgres error codes the repositories translate into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// toPgUUID converts a domain id to a pgtype.UUID.
func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// toNullUUID converts an optional reference to a pgtype.UUID.
// A nil pointer is stored as NULL.
func toNullUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

// fromNullUUID converts a pgtype.UUID to an optional reference.
func fromNullUUID(id pgtype.UUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	value := uuid.UUID(id.Bytes)
	return &value
}

// fromNullText converts a pgtype.Text to a string.
// A NULL value is converted to an empty string ("").
func fromNullText(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

// constraintViolation reports the violated constraint when err is a
// Postgres error with the given code.
func constraintViolation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func isUniqueViolation(err error) bool {
	_, ok := constraintViolation(err, pgUniqueViolation)
	return ok
}
