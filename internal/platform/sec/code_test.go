// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkazennov/kritika/internal/platform/sec"
)

func TestNewConfirmationCode(t *testing.T) {
	code, err := sec.NewConfirmationCode()
	require.NoError(t, err)

	// 20 random bytes hex-encoded.
	assert.Len(t, code, sec.ConfirmationCodeBytes*2)
	assert.Regexp(t, "^[0-9a-f]+$", code)

	// Two generations must never collide.
	other, err := sec.NewConfirmationCode()
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func TestHashCode_RoundTrip(t *testing.T) {
	code, err := sec.NewConfirmationCode()
	require.NoError(t, err)

	hash, err := sec.HashCode(code)
	require.NoError(t, err)

	assert.NotEqual(t, code, hash, "the plain code is never stored")
	assert.True(t, sec.CheckCode(code, hash))
	assert.False(t, sec.CheckCode("wrong-code", hash))
	assert.False(t, sec.CheckCode(code, "not-a-bcrypt-hash"))
}
