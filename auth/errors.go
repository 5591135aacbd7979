package auth

import "errors"

var (
	// ErrNoPendingCode means there is nothing to verify: the user is
	// unknown, already verified, or never had a code issued.
	ErrNoPendingCode = errors.New("invalid verification request")

	ErrInvalidCode     = errors.New("invalid code")
	ErrCodeExpired     = errors.New("code has expired")
	ErrAlreadyVerified = errors.New("user is already verified")
	ErrNotVerified     = errors.New("email not verified")
	ErrInvalidPassword = errors.New("invalid password")
	ErrResetInvalid    = errors.New("invalid or expired reset code")
	ErrTooManyAttempts = errors.New("too many attempts, try again later")
)
