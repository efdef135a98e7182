package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/iliyamo/blog-system/internal/mail"
	"github.com/iliyamo/blog-system/internal/model"
	"github.com/iliyamo/blog-system/internal/repository"
	"github.com/iliyamo/blog-system/internal/utils"
)

// ResetSubject is the subject line of the reset email.
const ResetSubject = "Password reset link."

// ResetBody renders the body of the reset email around link.
func ResetBody(link string) string {
	return "Navigate to the following link to reset your user password. The link is valid for 30 minutes:\n\r" +
		link + "\n\r(If you did not request this link, you can ignore this email.)"
}

// ResetUsers is the slice of the user repository the reset flow needs.
type ResetUsers interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	UpdatePassword(ctx context.Context, id uint64, hash string) error
}

// ResetOptions configures the sender of reset emails.
type ResetOptions struct {
	From     string
	FromName string
	// HideUnknownEmail makes RequestReset succeed for addresses that have
	// no account, so the response does not reveal which emails exist.
	HideUnknownEmail bool
}

// ResetService runs password recovery: a signed link is emailed to the
// admin and later redeemed for a new password.
type ResetService struct {
	users  ResetUsers
	tokens *TokenService
	hasher utils.PasswordHasher
	mailer mail.Sender
	opts   ResetOptions
	log    *slog.Logger
}

func NewResetService(users ResetUsers, tokens *TokenService, hasher utils.PasswordHasher, mailer mail.Sender, opts ResetOptions, log *slog.Logger) *ResetService {
	return &ResetService{users: users, tokens: tokens, hasher: hasher, mailer: mailer, opts: opts, log: log}
}

// RequestReset emails a reset link to the user owning email. linkFor turns
// the signed token into the absolute URL placed in the email.
func (s *ResetService) RequestReset(ctx context.Context, email string, linkFor func(token string) string) error {
	email = strings.TrimSpace(email)
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if s.opts.HideUnknownEmail {
				s.log.InfoContext(ctx, "reset requested for unknown email")
				return nil
			}
			return ErrNotFound
		}
		return fmt.Errorf("%w: %w", ErrStore, err)
	}

	token, exp, err := s.tokens.Issue(u.ID)
	if err != nil {
		return err
	}
	msg := mail.Message{
		To:       u.Email,
		From:     s.opts.From,
		FromName: s.opts.FromName,
		Subject:  ResetSubject,
		Body:     ResetBody(linkFor(token)),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	s.log.InfoContext(ctx, "reset link sent", "user_id", u.ID, "expires_at", exp)
	return nil
}

// RedeemInput is a submitted reset form.
type RedeemInput struct {
	Token    string
	Password string
	Confirm  string
	Email    string
}

// Redeem sets a new password when the token is valid and belongs to the
// user owning Email. Checks run in order and stop at the first failure:
// confirmation, non-empty password, token, user lookup, exact email match.
func (s *ResetService) Redeem(ctx context.Context, in RedeemInput) error {
	if in.Password != in.Confirm {
		return ErrPasswordMismatch
	}
	if in.Password == "" {
		return ErrPasswordEmpty
	}

	vt, err := s.tokens.Validate(in.Token)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(s.tokens.Decode(vt), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: subject is not a user id", ErrTokenInvalid)
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	if u.Email != in.Email {
		return ErrNotFound
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	s.log.InfoContext(ctx, "password reset", "user_id", u.ID)
	return nil
}
