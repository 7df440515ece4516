// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// A full day: there is no refresh-token surface in this API, and
	// re-issuing costs the user another round-trip through their inbox.
	AccessTokenTTL = 24 * time.Hour

	// ConfirmationCodeTTL is the duration a confirmation code remains
	// exchangeable. Long-lived (24 hours) as users might not check email
	// immediately.
	ConfirmationCodeTTL = 24 * time.Hour

	// ConfirmationEmailSubject is the subject line of the code email.
	ConfirmationEmailSubject = "Your Kritika confirmation code"
)
