package api

import (
	"errors"
	"fmt"
)

var (
	// ErrTokenInvalid is returned when the backend rejects the access
	// token (HTTP 401 on an authenticated call). The refresh wrapper
	// recovers from it once before surfacing it.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrNotLoggedIn is returned when an authenticated call is attempted
	// with no access token in the session store. No network I/O happens.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrNoRefreshToken is returned when a refresh is needed but the
	// session store holds no refresh token.
	ErrNoRefreshToken = errors.New("refresh token missing")
)

// Error is a server-reported failure carrying the user-facing message
// extracted from the response body, or a generic description when the
// body has none.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func serverError(status int) *Error {
	return &Error{Status: status, Message: fmt.Sprintf("server error: %d", status)}
}
