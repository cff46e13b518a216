package hub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser(1, "alice", "s3cret", time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, u.Salt)
	assert.NotEmpty(t, u.HashedPassword)
	assert.NotEqual(t, "s3cret", u.HashedPassword)

	assert.True(t, u.VerifyPassword("s3cret"))
	assert.False(t, u.VerifyPassword("wrong"))
}

func TestNewUserValidation(t *testing.T) {
	_, err := NewUser(1, "", "s3cret", time.Now())
	assert.Error(t, err)

	_, err = NewUser(1, "alice", "abc", time.Now())
	assert.Error(t, err, "password shorter than 4 characters must be rejected")
}

func TestChangePasswordRotatesSalt(t *testing.T) {
	u, err := NewUser(1, "alice", "s3cret", time.Now())
	require.NoError(t, err)
	oldSalt, oldHash := u.Salt, u.HashedPassword

	require.NoError(t, u.ChangePassword("n3wpass"))
	assert.NotEqual(t, oldSalt, u.Salt)
	assert.NotEqual(t, oldHash, u.HashedPassword)
	assert.True(t, u.VerifyPassword("n3wpass"))
	assert.False(t, u.VerifyPassword("s3cret"))

	assert.Error(t, u.ChangePassword("ab"))
}
