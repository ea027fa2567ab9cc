package types

import "errors"

// Kind classifies a failure independently of the transport that reports it.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPersistence:
		return "persistence"
	default:
		return "internal"
	}
}

// Error is a kind-tagged failure. Message is safe to show to clients, Err is not.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusError pairs an error with the HTTP status it is reported as.
type StatusError struct {
	Error  error
	Status int
}

func (e StatusError) Unwrap() error {
	return e.Error
}

func (e StatusError) HTTPStatus() int {
	return e.Status
}

// Message returns the client-facing text for the wrapped error.
func (e StatusError) Message() string {
	var te *Error
	if errors.As(e.Error, &te) && te.Message != "" {
		return te.Message
	}
	return "Internal server error"
}

func NewStatusError(err error, status int) StatusError {
	return StatusError{
		Error:  err,
		Status: status,
	}
}
