package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iliyamo/blog-system/internal/model"
	"github.com/iliyamo/blog-system/internal/repository"
	"github.com/iliyamo/blog-system/internal/utils"
)

// UserByEmail finds a user by email address.
type UserByEmail interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService checks admin credentials.
type AuthService struct {
	users  UserByEmail
	hasher utils.PasswordHasher
	log    *slog.Logger
}

func NewAuthService(users UserByEmail, hasher utils.PasswordHasher, log *slog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, log: log}
}

// Login returns the user owning email when password matches its hash. An
// unknown email and a wrong password both yield ErrAuthentication.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrAuthentication
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuthentication
		}
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	if s.hasher.Verify(u.Password, password) != utils.VerifySuccess {
		s.log.InfoContext(ctx, "login rejected", "user_id", u.ID)
		return nil, ErrAuthentication
	}
	return u, nil
}
