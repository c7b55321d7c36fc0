package service

import (
	"errors"
	"fmt"

	"github.com/iackson05/streakd/internal/model"
)

// Error kinds. Every error a service returns on purpose wraps one of these,
// so callers can classify it with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a classified service error. Msg is safe to show to clients.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

var (
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrGoalNotFound       = newError(ErrNotFound, "goal not found")
	ErrPostNotFound       = newError(ErrNotFound, "post not found")
	ErrFriendRequestGone  = newError(ErrNotFound, "friend request not found")
	ErrFriendshipNotFound = newError(ErrNotFound, "friendship not found")

	ErrInvalidEmoji        = newError(ErrInvalidInput, "invalid reaction emoji")
	ErrSelfFriendship      = newError(ErrInvalidInput, "cannot friend yourself")
	ErrGoalLimitReached    = newError(ErrInvalidInput, "maximum %d active goals allowed", model.MaxActiveGoals)
	ErrInvalidPrivacy      = newError(ErrInvalidInput, "privacy must be one of: public, friends, private")
	ErrUploadsDisabled     = newError(ErrInvalidInput, "image uploads are not available")
	ErrFriendshipExists    = newError(ErrConflict, "friendship already exists")
	ErrEmailAlreadyExists  = newError(ErrConflict, "email already registered")
	ErrUsernameTaken       = newError(ErrConflict, "username already taken")
	ErrInvalidCredentials  = newError(ErrUnauthorized, "invalid email or password")
	ErrInvalidToken        = newError(ErrUnauthorized, "invalid or expired token")
	ErrInvalidRefreshToken = newError(ErrUnauthorized, "invalid refresh token")
)

func invalidInput(format string, args ...any) error {
	return newError(ErrInvalidInput, format, args...)
}
