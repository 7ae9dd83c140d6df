package apperrors

import "errors"

// Standard application errors
var (
	// ErrNotFound is returned when a requested contract or token is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when the input provided by the client is invalid.
	ErrInvalidInput = errors.New("invalid input provided")

	// ErrCallReverted is returned when a contract call reverts; callers
	// treat it per entrypoint, since optional entrypoints revert routinely.
	ErrCallReverted = errors.New("contract call reverted")

	// ErrExternalServiceFailure is returned when an interaction with a gateway fails.
	ErrExternalServiceFailure = errors.New("external service interaction failed")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("operation timed out")

	// ErrInternal is returned for unexpected internal system errors.
	ErrInternal = errors.New("internal system error")
)
