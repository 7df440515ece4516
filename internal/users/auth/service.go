// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/mailer"
	"github.com/mkazennov/kritika/internal/platform/sec"
	"github.com/mkazennov/kritika/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - superuser: Whether the account carries the superuser flag.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username, role string, superuser bool, timeToLive time.Duration) (string, error)
}

// Service implements the signup and token-exchange use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to code issuance or
// exchange logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	codeRepository ConfirmationCodeRepository
	tokenProvider  TokenProvider
	mail           mailer.Mailer
	logger         *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	codeRepo ConfirmationCodeRepository,
	tokenProv TokenProvider,
	mail mailer.Mailer,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		codeRepository: codeRepo,
		tokenProvider:  tokenProv,
		mail:           mail,
		logger:         logger,
	}
}

// # Signup Flow

// SignupInput holds the identity pair a signup request binds.
type SignupInput struct {
	Username string
	Email    string
}

/*
Signup gets or creates the account for a (username, email) pair and issues a
fresh confirmation code.

Description: Idempotent enrollment. A repeated signup with the same pair
re-sends a new code and invalidates the previous one. A pair that would steal
an identity already bound to someone else is rejected with a field-scoped
validation error.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *User: Existing or freshly created entity
  - error: Validation (identity conflict) or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, error) {

	// Resolve both sides of the identity pair. Only a NotFound means the
	// side is free; any other error is an infrastructure failure.
	byUsername, usernameErr := service.userRepository.FindByUsername(context, input.Username)
	if usernameErr != nil && !apperr.IsNotFound(usernameErr) {
		return nil, fmt.Errorf("auth_service_username_lookup_failed: %w", usernameErr)
	}

	byEmail, emailErr := service.userRepository.FindByEmail(context, input.Email)
	if emailErr != nil && !apperr.IsNotFound(emailErr) {
		return nil, fmt.Errorf("auth_service_email_lookup_failed: %w", emailErr)
	}

	// The email belongs to a different username.
	if emailErr == nil && byEmail.Username != input.Username {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldEmail,
			Message: "Email is already registered to another user",
		})
	}

	// The username is held under a different email.
	if usernameErr == nil && byUsername.Email != input.Email {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldUsername,
			Message: "Username is already taken",
		})
	}

	user := byUsername
	if user == nil {
		// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
		user = &User{
			ID:       uuid.New(),
			Username: input.Username,
			Email:    input.Email,
			Role:     sec.RoleUser,
		}

		// Persist the user. A concurrent signup losing the race surfaces the
		// same field-scoped validation error as the checks above.
		if err := service.userRepository.Create(context, user); err != nil {
			return nil, err
		}
	}

	// Generate the plain code; only its hash is ever stored.
	code, err := sec.NewConfirmationCode()
	if err != nil {
		return nil, fmt.Errorf("auth_service_code_generation_failed: %w", err)
	}

	codeHash, err := sec.HashCode(code)
	if err != nil {
		return nil, fmt.Errorf("auth_service_code_hash_failed: %w", err)
	}

	if err := service.codeRepository.Set(context, user.ID, codeHash, ConfirmationCodeTTL); err != nil {
		return nil, fmt.Errorf("auth_service_code_store_failed: %w", err)
	}

	// Deliver the code. Delivery failure never fails the signup: the code is
	// stored and a repeated signup re-sends a fresh one.
	body := fmt.Sprintf("Hello %s,\n\nYour confirmation code: %s\n", user.Username, code)
	if err := service.mail.Send(context, user.Email, ConfirmationEmailSubject, body); err != nil {
		service.logger.Warn("confirmation_email_failed",
			slog.String("username", user.Username),
			slog.String("error", err.Error()),
		)
	}

	return user, nil
}

// # Token Exchange Flow

/*
ExchangeCode trades a valid confirmation code for a signed access token.

Description: Resolves the username, verifies the presented code against the
stored hash, consumes the code, and issues an RS256 JWT carrying the user's
identity and role. Claims are a snapshot: role changes are not retroactive on
already-issued tokens.

Parameters:
  - context: context.Context
  - username: string
  - code: string

Returns:
  - string: Signed JWT access token
  - error: NotFound (unknown username), Validation (bad code) or internal failures
*/
func (service *Service) ExchangeCode(context context.Context, username, code string) (string, error) {

	// Unknown usernames are a 404, not a validation failure.
	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		return "", err
	}

	invalidCode := apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   FieldConfirmationCode,
		Message: "Confirmation code is invalid or expired",
	})

	codeHash, err := service.codeRepository.Get(context, user.ID)
	if err != nil {
		if apperr.IsAppError(err) {
			return "", invalidCode
		}
		return "", fmt.Errorf("auth_service_code_lookup_failed: %w", err)
	}

	// Constant-time comparison via bcrypt.
	if !sec.CheckCode(code, codeHash) {
		return "", invalidCode
	}

	// Single-use: consume the code. Best-effort, the TTL is the backstop.
	_ = service.codeRepository.Delete(context, user.ID)

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), user.IsSuperuser, AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return token, nil
}
