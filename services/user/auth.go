package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	userRepo "lexbook/database/repository/user"
	"lexbook/models"
	"lexbook/utils"
)

// ErrInvalidCredentials is returned when the email is unknown or the
// password does not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService authenticates registered accounts and mints session tokens.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, string, error)
}

// DefaultAuthService implements AuthService over the user repository.
type DefaultAuthService struct {
	Repo     userRepo.UserRepository
	TokenTTL time.Duration
}

func (s *DefaultAuthService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("auth: fetching user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	ttl := s.TokenTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	token, err := utils.GenerateToken(u.ID, u.Role, ttl)
	if err != nil {
		return nil, "", fmt.Errorf("auth: signing token: %w", err)
	}
	u.PasswordHash = ""
	return u, token, nil
}
