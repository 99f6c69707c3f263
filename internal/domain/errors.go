package domain

import "errors"

// Error kinds. Match them with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrAuth        = errors.New("authentication error")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")
)

// Error carries a user-facing message together with its kind and an optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

func Conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

func Auth(msg string) error { return &Error{Kind: ErrAuth, Message: msg} }

func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

// Persistence wraps an unexpected storage failure. Its message is never shown to clients.
func Persistence(msg string, err error) error {
	return &Error{Kind: ErrPersistence, Message: msg, Err: err}
}

// Message returns the user-facing text of err. Persistence failures and foreign
// errors yield fallback so internal details stay server-side.
func Message(err error, fallback string) string {
	var e *Error
	if !errors.As(err, &e) || errors.Is(e.Kind, ErrPersistence) || e.Message == "" {
		return fallback
	}
	return e.Message
}
