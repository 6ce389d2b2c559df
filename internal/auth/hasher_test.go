// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceremo/partnerauth/internal/auth"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := auth.NewBcryptHasher()

	hash, err := hasher.Hash("password123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"), "expected bcrypt format, got %q", hash)

	valid, err := hasher.Verify("password123", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = hasher.Verify("wrongpassword", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestBcryptHasher_SamePasswordDifferentHashes(t *testing.T) {
	hasher := auth.NewBcryptHasher()

	hash1, err := hasher.Hash("password123")
	require.NoError(t, err)
	hash2, err := hasher.Hash("password123")
	require.NoError(t, err)

	// Random per-call salt means the encodings differ.
	assert.NotEqual(t, hash1, hash2)

	for _, hash := range []string{hash1, hash2} {
		valid, err := hasher.Verify("password123", hash)
		require.NoError(t, err)
		assert.True(t, valid)

		valid, err = hasher.Verify("password124", hash)
		require.NoError(t, err)
		assert.False(t, valid)
	}
}

func TestBcryptHasher_EmptyPassword(t *testing.T) {
	hasher := auth.NewBcryptHasher()

	hash, err := hasher.Hash("")
	require.Error(t, err)
	assert.Empty(t, hash)
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	hasher := auth.NewBcryptHasher()

	valid, err := hasher.Verify("password123", "not-a-bcrypt-hash")
	require.Error(t, err)
	assert.False(t, valid)
}
