// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

/*
Package account handles user administration and self-service profile management.

It provides the admin-only user directory (list, create, inspect, modify,
remove) and the authenticated self endpoints under /users/me.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Security: The admin surface is gated at the routing layer; the `me`
    endpoints only ever operate on the authenticated caller's own account.
*/
package account

import (
	"context"

	"github.com/mkazennov/kritika/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user administration.
type AccountRepository interface {
	/*
		List returns a page of accounts, optionally filtered by a username
		substring, together with the total count of matches.

		Parameters:
		  - context: context.Context
		  - search: string (Empty means no filter)
		  - limit: int
		  - offset: int

		Returns:
		  - []*auth.User: Page of accounts ordered by username
		  - int: Total number of matching accounts
		  - error: Retrieval failures
	*/
	List(context context.Context, search string, limit, offset int) ([]*auth.User, int, error)

	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		FindByUsername retrieves a user record by their unique username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		FindByEmail retrieves a user record by their unique email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*auth.User, error)

	/*
		Create persists a new administratively provisioned account.

		Parameters:
		  - context: context.Context
		  - user: *auth.User

		Returns:
		  - error: Storage or constraint failures
	*/
	Create(context context.Context, user *auth.User) error

	/*
		Update modifies the mutable fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		Delete permanently removes an account by username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	Delete(context context.Context, username string) error
}
