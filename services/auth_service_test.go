package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticateByUsernameOrEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	u, err := env.auth.Authenticate(ctx, "alice", "pw-alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)

	u, err = env.auth.Authenticate(ctx, "Alice@Example.com", "pw-alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)
}

func TestAuthenticateFailuresLookAlike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	_, wrongPassword := env.auth.Authenticate(ctx, "alice", "nope")
	_, unknownUser := env.auth.Authenticate(ctx, "mallory", "pw-alice")
	_, empty := env.auth.Authenticate(ctx, "", "")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.ErrorIs(t, empty, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestAuthenticateEmailFallbackWhenUsernameLooksLikeEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	// bob's username is alice's email address
	_, err := env.accounts.Register(ctx, RegisterInput{Username: "alice@example.com", Email: "bob@example.com", Password: "bob", Confirmation: "bob"})
	require.NoError(t, err)
	alice := env.register(t, "alice")

	u, err := env.auth.Authenticate(ctx, "alice@example.com", "pw-alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)
}
