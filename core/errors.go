package core

import (
	"errors"
)

var (
	// ErrInvalidToken is returned when an empty or malformed credential is written
	ErrInvalidToken = errors.New("invalid token")

	// ErrMissingToken is returned when a protected call is attempted with no session
	ErrMissingToken = errors.New("no authentication token available")

	// ErrSessionExpired is returned when the server rejects the current session
	ErrSessionExpired = errors.New("session expired")

	// ErrCredentialsExpired is returned when the collected credentials went away before capture
	ErrCredentialsExpired = errors.New("credentials expired before capture")

	// ErrTokenPersistenceFailed is returned when a committed token cannot be read back
	ErrTokenPersistenceFailed = errors.New("token persistence could not be confirmed")

	// ErrExchangeInFlight is returned when a capture fires while an exchange is pending
	ErrExchangeInFlight = errors.New("an exchange is already in flight")

	// ErrStoreOperationFailed is returned when a durable store operation fails
	ErrStoreOperationFailed = errors.New("store operation failed")

	// ErrInvalidSample is returned when a biometric sample cannot be decoded
	ErrInvalidSample = errors.New("invalid biometric sample")
)
