package posts

import "encoding/json"

type ErrorKind string

const (
	KindInvalidID    ErrorKind = "InvalidId"
	KindPostNotFound ErrorKind = "PostNotFound"
	KindServerError  ErrorKind = "ServerError"
)

var (
	ErrInvalidID    = &Error{Kind: KindInvalidID}
	ErrPostNotFound = &Error{Kind: KindPostNotFound}
)

// Error keeps the failure category of a post lookup all the way to the
// view layer. Err holds the underlying cause for ServerError, if any.
type Error struct {
	Kind ErrorKind
	Err  error
}

func NewServerError(cause error) *Error {
	return &Error{Kind: KindServerError, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrPostNotFound)
// works regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

// Message is the text shown to readers.
func (e *Error) Message() string {
	return e.Kind.Message()
}

func (k ErrorKind) Message() string {
	switch k {
	case KindInvalidID:
		return "Invalid post ID."
	case KindPostNotFound:
		return "Post not found."
	default:
		return "Server error."
	}
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error   ErrorKind `json:"error"`
		Message string    `json:"message"`
	}{
		Error:   e.Kind,
		Message: e.Message(),
	})
}
