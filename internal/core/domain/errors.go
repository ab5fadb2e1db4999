package domain

import "errors"

// Sentinel errors for the identity core. Adapters wrap store-level failures
// into these at the boundary; the HTTP error handler maps them to status codes.
var (
	// ErrInvalidInput marks malformed input rejected before any store access.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmailInUse and ErrUsernameTaken are uniqueness conflicts. They are
	// raised both by the advisory pre-checks and by the store's unique index
	// when a concurrent signup wins the race.
	ErrEmailInUse    = errors.New("email already in use")
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is deliberately shared by the "no such account",
	// "no stored credential" and "wrong password" paths so that responses do
	// not reveal which factor failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers malformed, tampered and expired session tokens.
	ErrInvalidToken = errors.New("invalid or expired token")

	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrForbidden       = errors.New("access forbidden")

	// ErrTransactionAborted wraps any failure inside the signup transaction
	// after rollback completed. No partial state survives it.
	ErrTransactionAborted = errors.New("transaction aborted")
)
