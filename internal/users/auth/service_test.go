// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/sec"
	"github.com/mkazennov/kritika/internal/users/auth"
)

// # Fakes

type fakeUserRepository struct {
	users map[string]*auth.User // keyed by username

	// lookupFailure, when set, is returned by every Find method to simulate
	// an unreachable database.
	lookupFailure error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*auth.User{}}
}

func (repository *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	for _, user := range repository.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	if repository.lookupFailure != nil {
		return nil, repository.lookupFailure
	}
	for _, user := range repository.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	if repository.lookupFailure != nil {
		return nil, repository.lookupFailure
	}
	if user, ok := repository.users[username]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	repository.users[user.Username] = user
	return nil
}

type fakeCodeRepository struct {
	hashes map[string]string // keyed by userID
}

func newFakeCodeRepository() *fakeCodeRepository {
	return &fakeCodeRepository{hashes: map[string]string{}}
}

func (repository *fakeCodeRepository) Set(_ context.Context, userID, codeHash string, _ time.Duration) error {
	repository.hashes[userID] = codeHash
	return nil
}

func (repository *fakeCodeRepository) Get(_ context.Context, userID string) (string, error) {
	if hash, ok := repository.hashes[userID]; ok {
		return hash, nil
	}
	return "", apperr.NotFound("Confirmation code")
}

func (repository *fakeCodeRepository) Delete(_ context.Context, userID string) error {
	delete(repository.hashes, userID)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, username, role string, superuser bool, _ time.Duration) (string, error) {
	return "token:" + username + ":" + role, nil
}

type recordingMailer struct {
	to      []string
	bodies  []string
	failure error
}

func (mailer *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	if mailer.failure != nil {
		return mailer.failure
	}
	mailer.to = append(mailer.to, to)
	mailer.bodies = append(mailer.bodies, body)
	return nil
}

func newService(users *fakeUserRepository, codes *fakeCodeRepository, mail *recordingMailer) *auth.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewService(users, codes, fakeTokenProvider{}, mail, logger)
}

// # Signup

/*
TestService_Signup_CreatesUserAndStoresCode covers the first-time enrollment path.
*/
func TestService_Signup_CreatesUserAndStoresCode(t *testing.T) {
	users := newFakeUserRepository()
	codes := newFakeCodeRepository()
	mail := &recordingMailer{}
	service := newService(users, codes, mail)

	user, err := service.Signup(context.Background(), auth.SignupInput{
		Username: "reader",
		Email:    "reader@example.com",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.False(t, user.IsSuperuser)

	// A code hash is stored and an email went out
	assert.Contains(t, codes.hashes, user.ID)
	require.Len(t, mail.to, 1)
	assert.Equal(t, "reader@example.com", mail.to[0])
}

/*
TestService_Signup_Idempotent verifies a repeated signup reuses the account and
replaces the code.
*/
func TestService_Signup_Idempotent(t *testing.T) {
	users := newFakeUserRepository()
	codes := newFakeCodeRepository()
	mail := &recordingMailer{}
	service := newService(users, codes, mail)

	first, err := service.Signup(context.Background(), auth.SignupInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)
	firstHash := codes.hashes[first.ID]

	second, err := service.Signup(context.Background(), auth.SignupInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, users.users, 1)
	assert.NotEqual(t, firstHash, codes.hashes[first.ID], "repeated signup must issue a fresh code")
	assert.Len(t, mail.to, 2)
}

/*
TestService_Signup_IdentityConflicts covers cross-binding of taken identities.
*/
func TestService_Signup_IdentityConflicts(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		email         string
		expectedField string
	}{
		{"email_bound_to_other_username", "someoneelse", "reader@example.com", "email"},
		{"username_bound_to_other_email", "reader", "other@example.com", "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newFakeUserRepository()
			codes := newFakeCodeRepository()
			service := newService(users, codes, &recordingMailer{})

			_, err := service.Signup(context.Background(), auth.SignupInput{Username: "reader", Email: "reader@example.com"})
			require.NoError(t, err)

			_, err = service.Signup(context.Background(), auth.SignupInput{Username: tt.username, Email: tt.email})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			require.Len(t, ae.Details, 1)
			assert.Equal(t, tt.expectedField, ae.Details[0].Field)
		})
	}
}

/*
TestService_Signup_MailFailureDoesNotFail verifies delivery failure is swallowed
and the code stays exchangeable.
*/
func TestService_Signup_MailFailureDoesNotFail(t *testing.T) {
	users := newFakeUserRepository()
	codes := newFakeCodeRepository()
	mail := &recordingMailer{failure: assert.AnError}
	service := newService(users, codes, mail)

	user, err := service.Signup(context.Background(), auth.SignupInput{Username: "reader", Email: "reader@example.com"})

	require.NoError(t, err)
	assert.Contains(t, codes.hashes, user.ID)
}

// # Token Exchange

/*
TestService_ExchangeCode covers the code-for-token exchange outcomes.
*/
func TestService_ExchangeCode(t *testing.T) {
	setup := func(t *testing.T) (*auth.Service, *fakeCodeRepository, *auth.User) {
		t.Helper()
		users := newFakeUserRepository()
		codes := newFakeCodeRepository()
		service := newService(users, codes, &recordingMailer{})

		user, err := service.Signup(context.Background(), auth.SignupInput{Username: "reader", Email: "reader@example.com"})
		require.NoError(t, err)
		return service, codes, user
	}

	t.Run("unknown_username_is_not_found", func(t *testing.T) {
		service, _, _ := setup(t)

		_, err := service.ExchangeCode(context.Background(), "ghost", "whatever")
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
	})

	t.Run("wrong_code_is_validation_error", func(t *testing.T) {
		service, _, _ := setup(t)

		_, err := service.ExchangeCode(context.Background(), "reader", "definitely-wrong")
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		require.Len(t, ae.Details, 1)
		assert.Equal(t, "confirmation_code", ae.Details[0].Field)
	})

	t.Run("missing_code_is_validation_error", func(t *testing.T) {
		service, codes, user := setup(t)
		delete(codes.hashes, user.ID)

		_, err := service.ExchangeCode(context.Background(), "reader", "anything")
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	})

	t.Run("valid_code_issues_token_and_is_single_use", func(t *testing.T) {
		service, codes, user := setup(t)

		// Plant a known code hash
		hash, err := sec.HashCode("known-code")
		require.NoError(t, err)
		codes.hashes[user.ID] = hash

		token, err := service.ExchangeCode(context.Background(), "reader", "known-code")
		require.NoError(t, err)
		assert.Equal(t, "token:reader:user", token)

		// The code is consumed
		assert.NotContains(t, codes.hashes, user.ID)

		_, err = service.ExchangeCode(context.Background(), "reader", "known-code")
		require.Error(t, err)
	})
}

func TestService_Signup_LookupFailure(t *testing.T) {
	users := newFakeUserRepository()
	users.lookupFailure = errors.New("connection refused")
	codes := newFakeCodeRepository()
	mail := &recordingMailer{}
	service := newService(users, codes, mail)

	_, err := service.Signup(context.Background(), auth.SignupInput{
		Username: "reader",
		Email:    "reader@example.com",
	})

	// An unreachable repository surfaces as-is, never as a validation error,
	// and nothing downstream runs.
	require.Error(t, err)
	assert.False(t, apperr.IsAppError(err))
	assert.Empty(t, users.users)
	assert.Empty(t, codes.hashes)
	assert.Empty(t, mail.to)
}
