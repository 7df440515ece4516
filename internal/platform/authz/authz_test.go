// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package authz_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/authz"
	"github.com/mkazennov/kritika/internal/platform/sec"
)

var (
	anonymous *authz.Actor
	user      = &authz.Actor{ID: "u1", Username: "reader", Role: sec.RoleUser}
	moderator = &authz.Actor{ID: "m1", Username: "mod", Role: sec.RoleModerator}
	admin     = &authz.Actor{ID: "adm", Username: "boss", Role: sec.RoleAdmin}
	superuser = &authz.Actor{ID: "s1", Username: "root", Role: sec.RoleUser, Superuser: true}
)

func TestCan_ReadsAreOpen(t *testing.T) {
	for _, resource := range []authz.Resource{
		authz.ResourceCategory, authz.ResourceGenre, authz.ResourceTitle,
		authz.ResourceReview, authz.ResourceComment,
	} {
		assert.NoError(t, authz.Can(anonymous, authz.ActionList, resource, ""))
		assert.NoError(t, authz.Can(anonymous, authz.ActionRetrieve, resource, ""))
		assert.NoError(t, authz.Can(user, authz.ActionList, resource, ""))
	}
}

func TestCan_Matrix(t *testing.T) {
	const (
		allowed      = 0
		unauthorized = http.StatusUnauthorized
		forbidden    = http.StatusForbidden
	)

	tests := []struct {
		name     string
		actor    *authz.Actor
		action   authz.Action
		resource authz.Resource
		ownerID  string
		want     int
	}{
		// Catalog writes are admin territory.
		{name: "anon_create_category", actor: anonymous, action: authz.ActionCreate, resource: authz.ResourceCategory, want: unauthorized},
		{name: "user_create_category", actor: user, action: authz.ActionCreate, resource: authz.ResourceCategory, want: forbidden},
		{name: "moderator_create_category", actor: moderator, action: authz.ActionCreate, resource: authz.ResourceCategory, want: forbidden},
		{name: "admin_create_category", actor: admin, action: authz.ActionCreate, resource: authz.ResourceCategory, want: allowed},
		{name: "superuser_create_category", actor: superuser, action: authz.ActionCreate, resource: authz.ResourceCategory, want: allowed},
		{name: "user_destroy_genre", actor: user, action: authz.ActionDestroy, resource: authz.ResourceGenre, want: forbidden},
		{name: "admin_update_title", actor: admin, action: authz.ActionUpdate, resource: authz.ResourceTitle, want: allowed},
		{name: "moderator_destroy_title", actor: moderator, action: authz.ActionDestroy, resource: authz.ResourceTitle, want: forbidden},

		// User management mirrors the catalog policy.
		{name: "user_create_user", actor: user, action: authz.ActionCreate, resource: authz.ResourceUser, want: forbidden},
		{name: "superuser_destroy_user", actor: superuser, action: authz.ActionDestroy, resource: authz.ResourceUser, want: allowed},

		// Any identity may publish a review or comment.
		{name: "anon_create_review", actor: anonymous, action: authz.ActionCreate, resource: authz.ResourceReview, want: unauthorized},
		{name: "user_create_review", actor: user, action: authz.ActionCreate, resource: authz.ResourceReview, want: allowed},
		{name: "user_create_comment", actor: user, action: authz.ActionCreate, resource: authz.ResourceComment, want: allowed},

		// Editing content belongs to the author or the staff.
		{name: "author_update_review", actor: user, action: authz.ActionUpdate, resource: authz.ResourceReview, ownerID: "u1", want: allowed},
		{name: "stranger_update_review", actor: user, action: authz.ActionUpdate, resource: authz.ResourceReview, ownerID: "other", want: forbidden},
		{name: "moderator_update_review", actor: moderator, action: authz.ActionUpdate, resource: authz.ResourceReview, ownerID: "other", want: allowed},
		{name: "admin_destroy_review", actor: admin, action: authz.ActionDestroy, resource: authz.ResourceReview, ownerID: "other", want: allowed},
		{name: "superuser_destroy_comment", actor: superuser, action: authz.ActionDestroy, resource: authz.ResourceComment, ownerID: "other", want: allowed},
		{name: "author_destroy_comment", actor: user, action: authz.ActionDestroy, resource: authz.ResourceComment, ownerID: "u1", want: allowed},
		{name: "stranger_destroy_comment", actor: user, action: authz.ActionDestroy, resource: authz.ResourceComment, ownerID: "other", want: forbidden},
		{name: "anon_destroy_comment", actor: anonymous, action: authz.ActionDestroy, resource: authz.ResourceComment, ownerID: "other", want: unauthorized},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := authz.Can(test.actor, test.action, test.resource, test.ownerID)

			if test.want == allowed {
				assert.NoError(t, err)
				return
			}

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, test.want, ae.HTTPStatus)
		})
	}
}

func TestActor_RoleHelpers(t *testing.T) {
	assert.False(t, anonymous.IsAdmin())
	assert.False(t, anonymous.IsModerator())
	assert.True(t, admin.IsAdmin())
	assert.True(t, superuser.IsAdmin(), "the superuser flag grants admin powers regardless of role")
	assert.True(t, moderator.IsModerator())
	assert.False(t, moderator.IsAdmin())
}
