package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestTokenSigner_RoundTrip(t *testing.T) {
	signer := NewTokenSigner(testKey, time.Hour)
	id := uuid.New()

	token, issued, err := signer.CreateToken(id, true)
	require.NoError(t, err)

	claims, err := signer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.Subject)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, issued.ID, claims.ID)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenSigner_UniqueIDs(t *testing.T) {
	signer := NewTokenSigner(testKey, time.Hour)
	_, a, err := signer.CreateToken(uuid.New(), false)
	require.NoError(t, err)
	_, b, err := signer.CreateToken(uuid.New(), false)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestTokenSigner_Rejects(t *testing.T) {
	signer := NewTokenSigner(testKey, time.Hour)
	token, _, err := signer.CreateToken(uuid.New(), false)
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		other := NewTokenSigner([]byte("another-key-another-key-another!!"), time.Hour)
		_, err := other.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenSigner(testKey, time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := signer.ValidateToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := signer.ValidateToken(token + "x")
		assert.Error(t, err)
	})
}
