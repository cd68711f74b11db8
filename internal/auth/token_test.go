package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	tokens := NewTokens("s3cret")

	tok, err := tokens.Sign(Identity{UserID: "u1", Role: "admin"}, time.Hour)
	require.NoError(t, err)

	id, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "u1", Role: "admin"}, id)
}

func TestVerifyRejects(t *testing.T) {
	tokens := NewTokens("s3cret")

	t.Run("wrong secret", func(t *testing.T) {
		tok, err := NewTokens("other").Sign(Identity{UserID: "u1"}, time.Hour)
		require.NoError(t, err)
		_, err = tokens.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		old := NewTokens("s3cret")
		old.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		tok, err := old.Sign(Identity{UserID: "u1"}, time.Hour)
		require.NoError(t, err)
		_, err = tokens.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no user", func(t *testing.T) {
		_, err := tokens.Sign(Identity{}, time.Hour)
		assert.Error(t, err)
	})
}
