package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	for _, pw := range []string{"s3cret", "", "pässwörd with spaces"} {
		hash, err := h.Hash(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, hash)
		assert.Equal(t, VerifySuccess, h.Verify(hash, pw))
		assert.Equal(t, VerifyFail, h.Verify(hash, pw+"x"))
	}
}

func TestPasswordHasher_SaltedPerCall(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	assert.NotPanics(t, func() {
		assert.Equal(t, VerifyFail, h.Verify("not-a-bcrypt-hash", "pw"))
		assert.Equal(t, VerifyFail, h.Verify("", "pw"))
	})
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).Cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).Cost)
	assert.Equal(t, 12, NewPasswordHasher(12).Cost)
	assert.Equal(t, "success", VerifySuccess.String())
	assert.Equal(t, "fail", VerifyFail.String())
}
