package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iliyamo/blog-system/internal/model"
	"github.com/iliyamo/blog-system/internal/repository"
	"github.com/iliyamo/blog-system/internal/utils"
)

// ErrDuplicate means the username or email is already used by another account.
var ErrDuplicate = errors.New("username or email already in use")

// ProfileUsers is the slice of the user repository profile edits need.
type ProfileUsers interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	First(ctx context.Context) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	UpdateProfile(ctx context.Context, u *model.User) error
}

// ProfileInput carries the editable account fields. An empty NewPassword
// keeps the current one.
type ProfileInput struct {
	Username    string
	Firstname   string
	Lastname    string
	Email       string
	NewPassword string
}

// ProfileService edits and provisions the admin account.
type ProfileService struct {
	users  ProfileUsers
	hasher utils.PasswordHasher
}

func NewProfileService(users ProfileUsers, hasher utils.PasswordHasher) *ProfileService {
	return &ProfileService{users: users, hasher: hasher}
}

// Get loads the account with id.
func (s *ProfileService) Get(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	return u, mapUserErr(err)
}

// Update writes in over the account with id.
func (s *ProfileService) Update(ctx context.Context, id uint64, in ProfileInput) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapUserErr(err)
	}
	u.Username = capitalize(strings.TrimSpace(in.Username))
	u.Firstname = strings.TrimSpace(in.Firstname)
	u.Lastname = strings.TrimSpace(in.Lastname)
	u.Email = strings.TrimSpace(in.Email)
	if in.NewPassword != "" {
		if u.Password, err = s.hasher.Hash(in.NewPassword); err != nil {
			return nil, err
		}
	}
	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return nil, mapUserErr(err)
	}
	return u, nil
}

// Provision creates the admin account, or resets the existing admin's
// profile and password. The site has exactly one user.
func (s *ProfileService) Provision(ctx context.Context, in ProfileInput) (*model.User, bool, error) {
	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return nil, false, err
	}
	u, err := s.users.First(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		u = &model.User{}
	case err != nil:
		return nil, false, mapUserErr(err)
	}
	created := u.ID == 0
	u.Username = capitalize(strings.TrimSpace(in.Username))
	u.Firstname = strings.TrimSpace(in.Firstname)
	u.Lastname = strings.TrimSpace(in.Lastname)
	u.Email = strings.TrimSpace(in.Email)
	u.Password = hash

	if created {
		err = s.users.Create(ctx, u)
	} else {
		err = s.users.UpdateProfile(ctx, u)
	}
	if err != nil {
		return nil, false, mapUserErr(err)
	}
	return u, created, nil
}

func mapUserErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicate
	default:
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
}

// capitalize upper-cases the first letter of s.
func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
