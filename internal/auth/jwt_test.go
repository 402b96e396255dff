package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petshop_back_end/internal/models"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss := NewIssuer("test-secret", time.Hour)
	user := models.User{ID: 7, Email: "alice@example.com", Role: models.RoleAdmin}

	token, issued, err := iss.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), claims.Remaining(time.Now()).Seconds(), 5)
}

func TestIssuer_Rejects(t *testing.T) {
	iss := NewIssuer("test-secret", time.Hour)
	user := models.User{ID: 7, Role: models.RoleCustomer}
	good, _, err := iss.Issue(user)
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := iss.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		_, err := NewIssuer("other", time.Hour).Parse(good)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewIssuer("test-secret", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Parse(good)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("alg none", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 7, RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}})
		s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = iss.Parse(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing user id", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}})
		s, err := tok.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = iss.Parse(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
