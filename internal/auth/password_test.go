package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Secret1")
	require.NoError(t, err)
	assert.True(t, IsArgon2Hash(hash))
	assert.False(t, NeedsRehash(hash))

	ok, err := VerifyPassword("Secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("secret1", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	other, err := HashPassword("Secret1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salt must differ")
}

func TestVerifyPassword_Bcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("Secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, NeedsRehash(string(legacy)))

	ok, err := VerifyPassword("Secret1", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("nope", string(legacy))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	for _, h := range []string{"", "plain", "$argon2id$v=19$m=1$x", "$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA", "$argon2id$v=19$m=8,t=1,p=1$!!$aGFzaA"} {
		ok, err := VerifyPassword("Secret1", h)
		assert.False(t, ok, h)
		assert.ErrorIs(t, err, ErrMalformedHash, h)
	}
}

func TestPolicy(t *testing.T) {
	assert.NoError(t, ValidatePassword("Abcdef"))
	assert.ErrorIs(t, ValidatePassword("Abcde"), ErrWeakPassword)
	assert.ErrorIs(t, ValidatePassword("abcdefgh"), ErrWeakPassword)

	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}
