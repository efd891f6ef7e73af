package model

import "errors"

// ErrNotFound reports a lookup miss after every reachable tier was consulted.
var ErrNotFound = errors.New("not found")

// ErrUnavailable marks the remote registry as unreachable. It never escapes
// the services; they absorb it and fall back to the local store.
var ErrUnavailable = errors.New("remote registry unavailable")

// InvalidKind classifies user-facing validation failures.
type InvalidKind string

const (
	KindEmptyName          InvalidKind = "empty_name"
	KindUsernameTooShort   InvalidKind = "username_too_short"
	KindPasswordTooShort   InvalidKind = "password_too_short"
	KindPasswordMismatch   InvalidKind = "password_mismatch"
	KindUsernameTaken      InvalidKind = "username_taken"
	KindInvalidCredentials InvalidKind = "invalid_credentials"
	KindMessageTooLong     InvalidKind = "message_too_long"
	KindBadAvailability    InvalidKind = "bad_availability"
	KindBadRating          InvalidKind = "bad_rating"
)

// InvalidError is a validation failure surfaced to the UI as a message, never
// as a fault.
type InvalidError struct {
	Kind    InvalidKind
	Message string
}

func (e *InvalidError) Error() string {
	return e.Message
}

var (
	ErrEmptyName          = &InvalidError{Kind: KindEmptyName, Message: "family name is required"}
	ErrUsernameTooShort   = &InvalidError{Kind: KindUsernameTooShort, Message: "username must be at least 3 characters"}
	ErrPasswordTooShort   = &InvalidError{Kind: KindPasswordTooShort, Message: "password must be at least 4 characters"}
	ErrPasswordMismatch   = &InvalidError{Kind: KindPasswordMismatch, Message: "passwords do not match"}
	ErrUsernameTaken      = &InvalidError{Kind: KindUsernameTaken, Message: "username already exists"}
	ErrInvalidCredentials = &InvalidError{Kind: KindInvalidCredentials, Message: "invalid username or password"}
	ErrMessageTooLong     = &InvalidError{Kind: KindMessageTooLong, Message: "message exceeds 500 characters"}
	ErrBadAvailability    = &InvalidError{Kind: KindBadAvailability, Message: "availability must cover all seven days with known time blocks"}
	ErrBadRating          = &InvalidError{Kind: KindBadRating, Message: "strength ratings must be between 0 and 5"}
)

// IsInvalid reports whether err is a validation failure of any kind.
func IsInvalid(err error) bool {
	var invalid *InvalidError
	return errors.As(err, &invalid)
}
