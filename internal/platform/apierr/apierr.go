// Package apierr carries an HTTP status and a stable machine-readable
// code alongside a wrapped error. Services return *Error for failures a
// client must distinguish (user_not_found, invalid_credentials); the
// response package unwraps it at the HTTP boundary and falls back to
// 500 internal_error for anything else.
package apierr

import "fmt"

// Error is a status-coded error. Status maps to the HTTP response
// status; Code is the client-facing identifier and stays stable across
// releases.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a status-coded error wrapping err. err may be nil when the
// code alone says enough.
func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}
