package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultResetTokenTTL is the lifetime of a password reset token.
const DefaultResetTokenTTL = 30 * time.Minute

// VerifiedToken is a reset token whose signature, issuer, audience and
// expiry have been checked. Only Validate can produce one.
type VerifiedToken struct {
	subject   string
	expiresAt time.Time
}

// ExpiresAt reports when the token stops being accepted.
func (v VerifiedToken) ExpiresAt() time.Time { return v.expiresAt }

// TokenService signs and checks HS256 reset tokens. Tokens are not stored,
// so one stays valid for its whole lifetime once issued.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenService returns a service signing with secret. A nil now uses
// time.Now and a non-positive ttl uses DefaultResetTokenTTL.
func NewTokenService(secret, issuer, audience string, ttl time.Duration, now func() time.Time) *TokenService {
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{secret: []byte(secret), issuer: issuer, audience: audience, ttl: ttl, now: now}
}

// Issue signs a token whose subject is userID.
func (s *TokenService) Issue(userID uint64) (string, time.Time, error) {
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		Issuer:    s.issuer,
		Audience:  jwt.ClaimStrings{s.audience},
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Validate parses raw and checks it against the configured secret, issuer,
// audience and the current time. Every failure wraps ErrTokenInvalid.
func (s *TokenService) Validate(raw string) (VerifiedToken, error) {
	if raw == "" {
		return VerifiedToken{}, fmt.Errorf("%w: empty", ErrTokenInvalid)
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return VerifiedToken{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if claims.Subject == "" {
		return VerifiedToken{}, fmt.Errorf("%w: %w", ErrTokenInvalid, errors.New("missing subject"))
	}
	return VerifiedToken{subject: claims.Subject, expiresAt: claims.ExpiresAt.Time}, nil
}

// Decode returns the subject claim, the user ID as a decimal string.
func (s *TokenService) Decode(v VerifiedToken) string { return v.subject }
