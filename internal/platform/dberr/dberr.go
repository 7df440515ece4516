// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Classification
//
// Beyond the pgx.ErrNoRows mapping, it inspects the Postgres SQLSTATE so that
// constraint races surface exactly like their pre-check counterparts:
//
//   - 23505 unique_violation    -> VALIDATION_ERROR (the loser of a concurrent
//     duplicate write must see the same error as a synchronous duplicate check)
//   - 23503 foreign_key_violation -> CONFLICT (restrict-deletes of referenced rows)
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkazennov/kritika/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violation mapping via SQLSTATE
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return apperr.ValidationError("Duplicate value violates a uniqueness constraint",
				apperr.FieldError{Field: constraintField(pgError.ConstraintName), Message: "Already exists"})
		case pgerrcode.ForeignKeyViolation:
			return apperr.Conflict("Operation violates a relationship constraint")
		case pgerrcode.CheckViolation:
			return apperr.ValidationError("Value violates a range constraint")
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// constraintField maps well-known constraint names to the JSON field a client
// should attribute the failure to. Unknown constraints fall back to a generic
// field so the response shape stays stable.
func constraintField(constraint string) string {
	switch constraint {
	case "account_username_key":
		return "username"
	case "account_email_key":
		return "email"
	case "category_slug_key", "genre_slug_key":
		return "slug"
	case "review_author_title_key":
		return "title"
	}
	return "non_field_errors"
}
