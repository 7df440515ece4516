// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/dberr"
	"github.com/mkazennov/kritika/internal/users/auth"
)

// # Account Repository

// PostgresAccountRepository implements the AccountRepository interface using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

const accountColumns = "id, username, email, firstname, lastname, bio, role, issuperuser, createdat, updatedat"

/*
List returns a page of accounts filtered by a username substring.

Description: A NULL-tolerant ILIKE filter; an empty search matches everything.
The total count runs against the same predicate for pagination metadata.

Parameters:
  - context: context.Context
  - search: string
  - limit: int
  - offset: int

Returns:
  - []*auth.User: Page ordered by username
  - int: Total matching accounts
  - error: Retrieval failures
*/
func (repository *PostgresAccountRepository) List(context context.Context, search string, limit, offset int) ([]*auth.User, int, error) {
	const query = `
		SELECT id, username, email, firstname, lastname, bio, role, issuperuser, createdat, updatedat
		FROM users.account
		WHERE ($1 = '' OR username ILIKE '%' || $1 || '%')
		ORDER BY username
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := []*auth.User{}
	for rows.Next() {
		user := &auth.User{}
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.Bio,
			&user.Role,
			&user.IsSuperuser,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_rows_failed: %w", err)
	}

	const countQuery = `
		SELECT COUNT(*)
		FROM users.account
		WHERE ($1 = '' OR username ILIKE '%' || $1 || '%')`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_count_failed: %w", err)
	}

	return users, total, nil
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := "SELECT " + accountColumns + " FROM users.account WHERE id = $1"
	return repository.scanOne(repository.pool.QueryRow(context, query, id), "postgres_account_repo_find_by_id")
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	query := "SELECT " + accountColumns + " FROM users.account WHERE username = $1"
	return repository.scanOne(repository.pool.QueryRow(context, query, username), "postgres_account_repo_find_by_username")
}

/*
FindByEmail retrieves a user record by their unique email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*auth.User, error) {
	query := "SELECT " + accountColumns + " FROM users.account WHERE email = $1"
	return repository.scanOne(repository.pool.QueryRow(context, query, email), "postgres_account_repo_find_by_email")
}

/*
Create persists an administratively provisioned account.

Description: Unique violations on username or email are mapped by dberr to
field-scoped validation errors.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: Constraint or connectivity errors
*/
func (repository *PostgresAccountRepository) Create(context context.Context, user *auth.User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, firstname, lastname, bio, role, issuperuser, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.IsSuperuser,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_account_repo_create")
	}

	return nil
}

/*
Update persists changes to a user's mutable fields.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: Constraint or execution errors
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	const query = `
		UPDATE users.account
		SET username = $2, email = $3, firstname = $4, lastname = $5, bio = $6, role = $7, updatedat = $8
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_account_repo_update")
	}

	return nil
}

/*
Delete permanently removes an account by username.

Description: Authored reviews and comments go with it via the schema's
cascading foreign keys.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: apperr.NotFound when no row matched, or execution errors
*/
func (repository *PostgresAccountRepository) Delete(context context.Context, username string) error {
	const query = "DELETE FROM users.account WHERE username = $1"

	tag, err := repository.pool.Exec(context, query, username)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// scanOne hydrates a single account row from the standard column list.
func (repository *PostgresAccountRepository) scanOne(row pgx.Row, action string) (*auth.User, error) {
	user := &auth.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.IsSuperuser,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("%s_failed: %w", action, err)
	}

	return user, nil
}
