package domain

import "errors"

// Failure taxonomy surfaced to callers. Authentication-adjacent failures
// are deliberately uniform so that callers cannot distinguish an unknown
// email from a wrong password, or an expired token from a deleted
// account. ErrNotFound covers both absent conversations and conversations
// owned by another user, so existence is never confirmed across users.
var (
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrAuthenticationFailed = errors.New("invalid email or password")
	ErrUnauthenticated      = errors.New("could not validate credentials")
	ErrNotFound             = errors.New("conversation not found")
	ErrGeneratorUnavailable = errors.New("response generator unavailable")
)
