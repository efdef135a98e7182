// Package service holds the authentication core: login, reset-token
// signing and the password recovery flow. Handlers translate the errors
// below into fixed user-visible messages; wrapped detail is for logs only.
package service

import "errors"

var (
	// ErrAuthentication means the email/password pair was rejected.
	ErrAuthentication = errors.New("authentication failed")
	// ErrAuthorization means a protected resource was requested without
	// an authenticated session. The access gate logs it with every denial.
	ErrAuthorization = errors.New("not authorized")
	// ErrTokenInvalid covers malformed, expired, mis-signed or
	// mis-addressed reset tokens.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrPasswordMismatch means the new password and its confirmation differ.
	ErrPasswordMismatch = errors.New("passwords did not match")
	// ErrPasswordEmpty means no new password was given.
	ErrPasswordEmpty = errors.New("new password required")
	// ErrNotFound means no user matched the given email or id.
	ErrNotFound = errors.New("user not found")
	// ErrStore wraps failures of the record store.
	ErrStore = errors.New("store failure")
	// ErrTransport wraps failures of the email transport.
	ErrTransport = errors.New("transport failure")
)
