package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessToken(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		tok, err := NewAccessToken("s3cret", 42, "alice", 15)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), tok.Exp, 5*time.Second)

		claims, err := ParseAccessToken("s3cret", tok.Token)
		require.NoError(t, err)
		id, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, uint64(42), id)
		assert.Equal(t, "alice", claims.Username)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok, err := NewAccessToken("s3cret", 42, "alice", 15)
		require.NoError(t, err)
		_, err = ParseAccessToken("other", tok.Token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := NewAccessToken("s3cret", 42, "alice", -1)
		require.NoError(t, err)
		_, err = ParseAccessToken("s3cret", tok.Token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("non numeric subject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "bob",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
		require.NoError(t, err)
		_, err = ParseAccessToken("s3cret", raw)
		assert.Error(t, err)
	})

	t.Run("other algorithm", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("s3cret"))
		require.NoError(t, err)
		_, err = ParseAccessToken("s3cret", raw)
		assert.Error(t, err)
	})
}

func TestRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Len(t, HashRefreshRaw(a.Raw), 64)
	assert.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("pa55word", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "pa55word"))
	assert.False(t, VerifyPassword(hash, "password"))
}
