package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "Sup3rSecret", hash)

	// Hashing is salted, two hashes of the same password differ.
	other, err := HashPassword("Sup3rSecret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("Sup3rSecret", hash))
	assert.False(t, CheckPasswordHash("sup3rsecret", hash))
	assert.False(t, CheckPasswordHash("", hash))
	assert.False(t, CheckPasswordHash("Sup3rSecret", "not-a-hash"))
}
