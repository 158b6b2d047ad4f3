package login

import "errors"

var (
	// ErrInvalidFormData is returned when the login form cannot be parsed.
	ErrInvalidFormData = errors.New("invalid form data")

	// ErrInvalidCredentials is returned when the username or password is wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountDisabled is returned when the account exists but is disabled.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrTooManyAttempts is returned when the client IP has a recorded block.
	ErrTooManyAttempts = errors.New("too many failed attempts, try again later")
)
