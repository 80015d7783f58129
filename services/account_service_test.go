package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/network/models"
)

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ok := RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw", Confirmation: "pw"}

	cases := []struct {
		name   string
		mutate func(in *RegisterInput)
		want   error
	}{
		{"empty username", func(in *RegisterInput) { in.Username = " " }, ErrInvalidUsername},
		{"bad characters", func(in *RegisterInput) { in.Username = "al ice" }, ErrInvalidUsername},
		{"too long", func(in *RegisterInput) { in.Username = strings.Repeat("a", MaxUsernameLength+1) }, ErrInvalidUsername},
		{"route word", func(in *RegisterInput) { in.Username = "Following" }, ErrReservedUsername},
		{"sentinel", func(in *RegisterInput) { in.Username = models.SentinelUsername }, ErrReservedUsername},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, ErrInvalidEmail},
		{"empty password", func(in *RegisterInput) { in.Password, in.Confirmation = "", "" }, ErrEmptyPassword},
		{"mismatch", func(in *RegisterInput) { in.Confirmation = "other" }, ErrPasswordMismatch},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := ok
			c.mutate(&in)
			_, err := env.accounts.Register(ctx, in)
			assert.ErrorIs(t, err, c.want)
		})
	}

	u, err := env.accounts.Register(ctx, ok)
	require.NoError(t, err)
	assert.NotEqual(t, "pw", u.PasswordHash)
	require.NotNil(t, u.Email)
	assert.Equal(t, "alice@example.com", *u.Email)
}

func TestRegisterDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	_, err := env.accounts.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "pw", Confirmation: "pw"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = env.accounts.Register(ctx, RegisterInput{Username: "alice2", Email: "ALICE@example.com", Password: "pw", Confirmation: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRaceReportsClashingEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accounts := NewAccountService(env.db.Session(&gorm.Session{SkipDefaultTransaction: true}))

	// another registration claims the email between the check and the insert
	raced := false
	err := env.db.Callback().Create().Before("gorm:create").Register("test:concurrent_signup", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "users" {
			return
		}
		raced = true
		email := "shared@example.com"
		rival := models.User{Username: "rival", Email: &email, PasswordHash: "x"}
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error)
	})
	require.NoError(t, err)

	_, err = accounts.Register(ctx, RegisterInput{Username: "carol", Email: "shared@example.com", Password: "pw", Confirmation: "pw"})
	assert.True(t, raced)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestDeleteAccountTransfersContent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	carol := env.register(t, "carol")
	ap := env.post(t, alice, "alice post")
	bp := env.post(t, bob, "bob post")
	cp := env.post(t, carol, "carol post")

	_, err := env.likes.Like(ctx, alice.ID, bp.ID)
	require.NoError(t, err)
	_, err = env.likes.Like(ctx, bob.ID, ap.ID)
	require.NoError(t, err)
	_, err = env.social.Follow(ctx, alice.ID, "bob")
	require.NoError(t, err)
	_, err = env.social.Follow(ctx, bob.ID, "alice")
	require.NoError(t, err)

	require.NoError(t, env.accounts.Delete(ctx, alice.ID))

	_, err = env.accounts.GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, ErrUserNotFound)

	sentinel, err := env.accounts.GetByUsername(ctx, models.SentinelUsername)
	require.NoError(t, err)
	assert.Nil(t, sentinel.Email)

	moved, err := env.posts.Get(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, sentinel.ID, moved.UserID)
	assert.Equal(t, models.SentinelUsername, moved.User.Username)

	liked, err := env.likes.HasLiked(ctx, sentinel.ID, bp.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	n, err := env.likes.Count(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "likes on transferred posts survive")

	followers, following, err := env.social.Counts(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, followers)
	assert.Zero(t, following)

	// a second deletion reuses the sentinel and drops colliding likes
	_, err = env.likes.Like(ctx, carol.ID, bp.ID)
	require.NoError(t, err)
	_, err = env.likes.Like(ctx, carol.ID, cp.ID)
	require.NoError(t, err)
	require.NoError(t, env.accounts.Delete(ctx, carol.ID))

	n, err = env.likes.Count(ctx, bp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	var sentinels int64
	require.NoError(t, env.db.Model(&models.User{}).Where("username = ?", models.SentinelUsername).Count(&sentinels).Error)
	assert.Equal(t, int64(1), sentinels)
}

func TestSentinelCannotBeDeletedOrUsed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	require.NoError(t, env.accounts.Delete(ctx, alice.ID))

	sentinel, err := env.accounts.GetByUsername(ctx, models.SentinelUsername)
	require.NoError(t, err)
	assert.ErrorIs(t, env.accounts.Delete(ctx, sentinel.ID), ErrSentinelAccount)

	_, err = env.auth.Authenticate(ctx, models.SentinelUsername, "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Authenticate(ctx, models.SentinelUsername, "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.ErrorIs(t, env.accounts.Delete(ctx, 9999), ErrUserNotFound)
}
