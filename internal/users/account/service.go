// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/sec"
	"github.com/mkazennov/kritika/internal/users/auth"
	"github.com/mkazennov/kritika/pkg/uuid"
)

// # Service Layer

// Service orchestrates user administration and self-service profile updates.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		logger:            logger,
	}
}

// # User Administration

/*
List returns a page of accounts matching an optional username search.

Parameters:
  - context: context.Context
  - search: string
  - limit: int
  - offset: int

Returns:
  - []*auth.User: Page of accounts
  - int: Total matches
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, search string, limit, offset int) ([]*auth.User, int, error) {
	users, total, err := service.accountRepository.List(context, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

// CreateInput defines the fields an administrator provisions an account with.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      sec.UserRole
}

/*
Create provisions a new account with an administrator-chosen role.

Description: Mirrors the signup identity checks so an admin cannot silently
steal an identity pair that is already half-bound.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *auth.User: Created entity
  - error: Validation (identity conflict) or storage errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {

	// Verify username uniqueness
	if _, err := service.accountRepository.FindByUsername(context, input.Username); err == nil {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   auth.FieldUsername,
			Message: "Username is already taken",
		})
	}

	// Verify email uniqueness
	if _, err := service.accountRepository.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   auth.FieldEmail,
			Message: "Email is already registered to another user",
		})
	}

	user := &auth.User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	}

	if err := service.accountRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_provisioned",
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

/*
GetByUsername retrieves a single account for the admin surface.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *auth.User: The hydrated account
  - error: Not found or execution failures
*/
func (service *Service) GetByUsername(context context.Context, username string) (*auth.User, error) {
	return service.accountRepository.FindByUsername(context, username)
}

// UpdateInput defines the mutable subset of fields on the admin surface.
// Nil pointers leave the current value untouched.
type UpdateInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *sec.UserRole
}

/*
Update applies a partial set of changes to an account by username.

Parameters:
  - context: context.Context
  - username: string
  - input: UpdateInput

Returns:
  - *auth.User: The updated account
  - error: Not found, constraint, or storage failures
*/
func (service *Service) Update(context context.Context, username string, input UpdateInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Role != nil {
		user.Role = *input.Role
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_updated", slog.String("username", user.Username))

	return user, nil
}

/*
Delete permanently removes an account by username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: Not found or execution failures
*/
func (service *Service) Delete(context context.Context, username string) error {
	if err := service.accountRepository.Delete(context, username); err != nil {
		return err
	}

	service.logger.Warn("user_deleted", slog.String("username", username))

	return nil
}

// # Self Service

/*
GetSelf retrieves the authenticated caller's own account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated account
  - error: Not found or execution failures
*/
func (service *Service) GetSelf(context context.Context, userID string) (*auth.User, error) {
	return service.accountRepository.FindByID(context, userID)
}

// UpdateSelfInput defines the fields a user may change on their own account.
// Role and the superuser flag are deliberately absent.
type UpdateSelfInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
}

/*
UpdateSelf applies a partial update to the caller's own account.

Description: The role and superuser flag are immutable through this path no
matter what the request carries; privilege changes go through the admin
surface only.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateSelfInput

Returns:
  - *auth.User: The updated account
  - error: Not found, constraint, or storage failures
*/
func (service *Service) UpdateSelf(context context.Context, userID string, input UpdateSelfInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}
