package auth

import "errors"

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidPhone       = errors.New("invalid phone format")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrDuplicateUser      = errors.New("email or phone already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
	ErrInvalidReset       = errors.New("invalid or expired reset token")
	ErrUserNotFound       = errors.New("user not found")
)
