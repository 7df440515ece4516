// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

/*
Package auth implements the signup and token-exchange identity flow.

There are no passwords: a signup request binds a (username, email) pair and
emails a single-use confirmation code, which is later exchanged for a signed
access token. The confirmation code is the sole credential.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/mkazennov/kritika/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Kritika platform.
//
// The JSON shape is the public user representation: internal identifiers,
// the superuser flag, and timestamps are never serialized.
type User struct {
	ID          string       `json:"-"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Bio         string       `json:"bio"`
	Role        sec.UserRole `json:"role"`
	IsSuperuser bool         `json:"-"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

// IsAdmin reports whether the user holds the admin role or the superuser flag.
func (u *User) IsAdmin() bool {
	return u.Role == sec.RoleAdmin || u.IsSuperuser
}

// IsModerator reports whether the user holds the moderator role.
func (u *User) IsModerator() bool {
	return u.Role == sec.RoleModerator
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldToken            = "token"
)
