// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/sec"
	"github.com/mkazennov/kritika/internal/users/account"
	"github.com/mkazennov/kritika/internal/users/auth"
	"github.com/mkazennov/kritika/pkg/pointer"
)

// # Fakes

type fakeAccountRepository struct {
	users map[string]*auth.User // keyed by username
}

func newFakeAccountRepository(seed ...*auth.User) *fakeAccountRepository {
	repository := &fakeAccountRepository{users: map[string]*auth.User{}}
	for _, user := range seed {
		repository.users[user.Username] = user
	}
	return repository
}

func (repository *fakeAccountRepository) List(_ context.Context, search string, limit, offset int) ([]*auth.User, int, error) {
	matched := []*auth.User{}
	for _, user := range repository.users {
		matched = append(matched, user)
	}
	return matched, len(matched), nil
}

func (repository *fakeAccountRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	for _, user := range repository.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeAccountRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	if user, ok := repository.users[username]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeAccountRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repository.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeAccountRepository) Create(_ context.Context, user *auth.User) error {
	repository.users[user.Username] = user
	return nil
}

func (repository *fakeAccountRepository) Update(_ context.Context, user *auth.User) error {
	repository.users[user.Username] = user
	return nil
}

func (repository *fakeAccountRepository) Delete(_ context.Context, username string) error {
	if _, ok := repository.users[username]; !ok {
		return apperr.NotFound("User")
	}
	delete(repository.users, username)
	return nil
}

func newService(repository *fakeAccountRepository) *account.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return account.NewService(repository, logger)
}

// # Tests

/*
TestService_Create_IdentityConflicts verifies provisioning rejects identities
already bound elsewhere.
*/
func TestService_Create_IdentityConflicts(t *testing.T) {
	existing := &auth.User{ID: "u1", Username: "reader", Email: "reader@example.com", Role: sec.RoleUser}

	tests := []struct {
		name          string
		username      string
		email         string
		expectedField string
	}{
		{"taken_username", "reader", "new@example.com", "username"},
		{"taken_email", "fresh", "reader@example.com", "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(newFakeAccountRepository(existing))

			_, err := service.Create(context.Background(), account.CreateInput{
				Username: tt.username,
				Email:    tt.email,
				Role:     sec.RoleUser,
			})

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
TestService_Create_AdminRole verifies an administrator can provision elevated roles.
*/
func TestService_Create_AdminRole(t *testing.T) {
	repository := newFakeAccountRepository()
	service := newService(repository)

	user, err := service.Create(context.Background(), account.CreateInput{
		Username: "mod",
		Email:    "mod@example.com",
		Role:     sec.RoleModerator,
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, user.Role)
	assert.NotEmpty(t, user.ID)
}

/*
TestService_Update_ChangesRole verifies the admin surface can promote a user.
*/
func TestService_Update_ChangesRole(t *testing.T) {
	existing := &auth.User{ID: "u1", Username: "reader", Email: "reader@example.com", Role: sec.RoleUser}
	service := newService(newFakeAccountRepository(existing))

	role := sec.RoleModerator
	user, err := service.Update(context.Background(), "reader", account.UpdateInput{Role: &role})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, user.Role)
}

/*
TestService_UpdateSelf_CannotEscalate verifies the self-service path leaves
role and superuser untouched.
*/
func TestService_UpdateSelf_CannotEscalate(t *testing.T) {
	existing := &auth.User{ID: "u1", Username: "reader", Email: "reader@example.com", Role: sec.RoleUser}
	service := newService(newFakeAccountRepository(existing))

	user, err := service.UpdateSelf(context.Background(), "u1", account.UpdateSelfInput{
		Bio:       pointer.To("I review things."),
		FirstName: pointer.To("Rea"),
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.False(t, user.IsSuperuser)
	assert.Equal(t, "I review things.", user.Bio)
}

/*
TestService_Delete covers removal and the not-found path.
*/
func TestService_Delete(t *testing.T) {
	existing := &auth.User{ID: "u1", Username: "reader", Email: "reader@example.com", Role: sec.RoleUser}
	repository := newFakeAccountRepository(existing)
	service := newService(repository)

	require.NoError(t, service.Delete(context.Background(), "reader"))
	assert.Empty(t, repository.users)

	err := service.Delete(context.Background(), "reader")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
