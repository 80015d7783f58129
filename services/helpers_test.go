package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/network/config"
	"github.com/cppla/network/models"
)

type testEnv struct {
	db       *gorm.DB
	accounts *AccountService
	auth     *AuthService
	posts    *PostService
	likes    *LikeService
	feeds    *FeedService
	social   *SocialService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := config.OpenDatabase(config.AppConfig{DBDriver: "sqlite", DBPath: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	env := &testEnv{db: db}
	env.accounts = NewAccountService(db)
	env.auth = NewAuthService(db)
	env.posts = NewPostService(db)
	env.likes = NewLikeService(db, env.posts)
	env.feeds = NewFeedService(db)
	env.social = NewSocialService(db, env.accounts, env.feeds)

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	env.posts.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return env
}

func (e *testEnv) register(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := e.accounts.Register(context.Background(), RegisterInput{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "pw-" + username,
		Confirmation: "pw-" + username,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) post(t *testing.T, author *models.User, content string) *models.Post {
	t.Helper()
	p, err := e.posts.Create(context.Background(), author.ID, content)
	require.NoError(t, err)
	return p
}
