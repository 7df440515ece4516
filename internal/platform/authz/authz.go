// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

/*
Package authz implements the authorization policy as one pure decision function.

Every endpoint asks the same question — may this actor perform this action on
this resource? — and the answer lives in a single table here instead of being
duplicated across handlers.

Decision matrix:

  - Read actions are open to everyone, including anonymous actors.
  - Catalog resources (category, genre, title) and the user-management surface
    accept writes only from admins and superusers.
  - Reviews and comments accept creation from any authenticated actor; editing
    and deletion require the author, a moderator, an admin, or a superuser.

Denials distinguish a missing identity (401) from an insufficient one (403).
*/
package authz

import (
	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/sec"
)

// # Vocabulary

// Action is a normalized operation name, mirroring REST verbs.
type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDestroy  Action = "destroy"
)

// Resource identifies the kind of entity an action targets.
type Resource string

const (
	ResourceCategory Resource = "category"
	ResourceGenre    Resource = "genre"
	ResourceTitle    Resource = "title"
	ResourceReview   Resource = "review"
	ResourceComment  Resource = "comment"
	ResourceUser     Resource = "user"
)

// Actor is the authenticated principal extracted from a verified token.
// A nil *Actor means the request is anonymous.
type Actor struct {
	ID        string
	Username  string
	Role      sec.UserRole
	Superuser bool
}

// IsAdmin reports whether the actor holds the admin role or the superuser flag.
func (a *Actor) IsAdmin() bool {
	return a != nil && (a.Role == sec.RoleAdmin || a.Superuser)
}

// IsModerator reports whether the actor holds the moderator role.
func (a *Actor) IsModerator() bool {
	return a != nil && a.Role == sec.RoleModerator
}

// # Policy Table

// writePolicy names the rule applied to create/update/destroy per resource.
type writePolicy int

const (
	// adminOnly: every write requires an admin or superuser.
	adminOnly writePolicy = iota

	// authorOrStaff: creation is open to any authenticated actor; updates and
	// deletes require the resource author, a moderator, an admin, or a superuser.
	authorOrStaff
)

var policies = map[Resource]writePolicy{
	ResourceCategory: adminOnly,
	ResourceGenre:    adminOnly,
	ResourceTitle:    adminOnly,
	ResourceUser:     adminOnly,
	ResourceReview:   authorOrStaff,
	ResourceComment:  authorOrStaff,
}

// # Decision Function

// Can decides whether actor may perform action on a resource owned by ownerID.
//
// ownerID is the author of the targeted resource and is only consulted for
// update/destroy under the authorOrStaff policy; pass "" when irrelevant.
//
// Returns nil when permitted, an UNAUTHORIZED error when the actor is
// anonymous, and a FORBIDDEN error when authenticated but not allowed.
func Can(actor *Actor, action Action, resource Resource, ownerID string) error {

	// Reads are open to the world.
	if action == ActionList || action == ActionRetrieve {
		return nil
	}

	// Every write requires an identity.
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}

	switch policies[resource] {
	case adminOnly:
		if actor.IsAdmin() {
			return nil
		}

	case authorOrStaff:
		if action == ActionCreate {
			return nil
		}
		if actor.ID == ownerID || actor.IsModerator() || actor.IsAdmin() {
			return nil
		}
	}

	return apperr.Forbidden("You do not have permission to perform this action")
}
