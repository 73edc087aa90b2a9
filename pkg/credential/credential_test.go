package credential

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", digest)

	assert.True(t, h.Verify("s3cret", digest))
	assert.False(t, h.Verify("wrong", digest))
	assert.False(t, h.Verify("s3cret", "not-a-digest"))
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(bcrypt.MinCost).cost)
}

func TestBcryptHasher_RejectsLongPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("p", MaxPasswordBytes+1))
	require.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)

	_, err = h.Hash(strings.Repeat("p", MaxPasswordBytes))
	require.NoError(t, err)
}
