// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error
}

// # Volatile Data Access

// ConfirmationCodeRepository defines the contract for storing volatile
// confirmation-code hashes keyed by user ID.
//
// A user holds at most one live code at a time: a repeated signup overwrites
// the previous record, which invalidates any earlier code still in flight.
type ConfirmationCodeRepository interface {

	/*
		Set stores the code hash for a userID for a limited duration,
		replacing any existing record.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - codeHash: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, userID string, codeHash string, ttl time.Duration) error

	/*
		Get retrieves the stored code hash for a userID.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - string: Code hash
		  - error: apperr.NotFound when absent or expired
	*/
	Get(context context.Context, userID string) (string, error)

	/*
		Delete removes the code record after successful exchange.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, userID string) error
}
