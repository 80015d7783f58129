package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/network/models"
	"github.com/cppla/network/utils"
)

// AuthService resolves login credentials. The identifier may be a username
// or an email address.
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates an AuthService.
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Authenticate returns the user matching credential and password. Username
// lookup is tried first, then email. Every failure yields ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, credential, password string) (*models.User, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" || password == "" {
		utils.BurnPasswordCheck(password)
		return nil, ErrInvalidCredentials
	}

	matched := false
	candidates := []struct {
		query string
		arg   string
	}{
		{"username = ?", credential},
		{"email = ?", strings.ToLower(credential)},
	}
	for _, c := range candidates {
		var user models.User
		err := s.db.WithContext(ctx).Where(c.query, c.arg).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		matched = true
		if user.PasswordHash != "" && utils.CheckPassword(user.PasswordHash, password) {
			return &user, nil
		}
	}

	if !matched {
		utils.BurnPasswordCheck(password)
	}
	return nil, ErrInvalidCredentials
}
