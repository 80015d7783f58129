package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// SentinelUsername owns posts and likes whose author deleted their account.
const SentinelUsername = "Unknown"

// User represents a network account. Passwords are stored as bcrypt hashes only.
// Email is nil only for the sentinel account.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        *string   `gorm:"size:254;uniqueIndex" json:"-"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Posts        []Post    `json:"-"`
}

// BeforeCreate normalizes identity fields so lookups stay exact.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Username = strings.TrimSpace(u.Username)
	if u.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*u.Email))
		u.Email = &e
	}
	return nil
}

// IsSentinel reports whether u is the placeholder owner of orphaned content.
func (u *User) IsSentinel() bool {
	return u.Username == SentinelUsername
}

// Follow is a directed edge: FollowerID follows FolloweeID.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false" json:"follower_id"`
	FolloweeID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Like links a user to a post they liked. The pair (UserID, PostID) is unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// All returns every model for auto migration.
func All() []interface{} {
	return []interface{}{&User{}, &Follow{}, &Post{}, &Like{}}
}
