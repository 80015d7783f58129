package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/cppla/network/models"
	"github.com/cppla/network/utils"
)

// MaxUsernameLength bounds usernames, counted in runes.
const MaxUsernameLength = 150

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)
	validate        = validator.New()

	// Usernames double as URL segments; these would shadow a route.
	reservedUsernames = map[string]struct{}{
		"login": {}, "logout": {}, "register": {}, "post": {}, "posts": {},
		"following": {}, "like": {}, "unlike": {}, "follow": {}, "unfollow": {},
		"account": {}, "health": {}, "static": {},
	}
)

// RegisterInput carries a registration request.
type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	Confirmation string
}

// AccountService handles registration, lookups and account deletion.
type AccountService struct {
	db *gorm.DB
}

// NewAccountService creates an AccountService.
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// ValidateUsername checks the format of a username and that it is not reserved.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n == 0 || n > MaxUsernameLength || !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	if _, ok := reservedUsernames[strings.ToLower(username)]; ok {
		return ErrReservedUsername
	}
	if strings.EqualFold(username, models.SentinelUsername) {
		return ErrReservedUsername
	}
	return nil
}

// Register validates in and stores a new user with a hashed password.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validate.Var(email, "required,email,max=254"); err != nil {
		return nil, ErrInvalidEmail
	}
	if in.Password == "" {
		return nil, ErrEmptyPassword
	}
	if in.Password != in.Confirmation {
		return nil, ErrPasswordMismatch
	}

	if err := s.checkAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Username: username, Email: &email, PasswordHash: hash}
	err = s.db.WithContext(ctx).Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent registration won the insert; report the column it took
		if err := s.checkAvailable(ctx, username, email); err != nil {
			return nil, err
		}
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// checkAvailable returns ErrUsernameTaken or ErrEmailTaken when either is in use.
func (s *AccountService) checkAvailable(ctx context.Context, username, email string) error {
	taken, err := s.exists(ctx, "username = ?", username)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}
	if taken, err = s.exists(ctx, "email = ?", email); err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	return nil
}

func (s *AccountService) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where(query, arg).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return n > 0, nil
}

// GetByUsername loads a user by exact username.
func (s *AccountService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// GetByID loads a user by primary key.
func (s *AccountService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// Delete removes an account. Its posts and likes move to the sentinel user,
// likes that would duplicate a sentinel like are dropped, and every follow
// edge touching the account is removed.
func (s *AccountService) Delete(ctx context.Context, userID uint) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsSentinel() {
		return ErrSentinelAccount
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sentinel, err := sentinelUser(tx)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Post{}).Where("user_id = ?", user.ID).Update("user_id", sentinel.ID).Error; err != nil {
			return fmt.Errorf("transfer posts: %w", err)
		}

		held := tx.Model(&models.Like{}).Select("post_id").Where("user_id = ?", sentinel.ID)
		if err := tx.Where("user_id = ? AND post_id IN (?)", user.ID, held).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("drop colliding likes: %w", err)
		}
		if err := tx.Model(&models.Like{}).Where("user_id = ?", user.ID).Update("user_id", sentinel.ID).Error; err != nil {
			return fmt.Errorf("transfer likes: %w", err)
		}

		if err := tx.Where("follower_id = ? OR followee_id = ?", user.ID, user.ID).Delete(&models.Follow{}).Error; err != nil {
			return fmt.Errorf("delete follows: %w", err)
		}
		if err := tx.Delete(&models.User{}, user.ID).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

// sentinelUser returns the placeholder owner, creating it on first use.
// Its empty password hash never verifies.
func sentinelUser(tx *gorm.DB) (*models.User, error) {
	var sentinel models.User
	err := tx.Where(models.User{Username: models.SentinelUsername}).
		FirstOrCreate(&sentinel).Error
	if err != nil {
		return nil, fmt.Errorf("get sentinel user: %w", err)
	}
	return &sentinel, nil
}
