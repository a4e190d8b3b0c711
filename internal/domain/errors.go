package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
)

// ErrorKind classifies failures of cart and catalog operations.
type ErrorKind string

const (
	// KindValidation is bad caller input; nothing was sent to the backend.
	KindValidation ErrorKind = "validation"
	// KindBackend is a transport failure or an error reported by the backend.
	KindBackend ErrorKind = "backend"
	// KindParse is a backend response that did not have the expected shape.
	KindParse ErrorKind = "parse"
)

// UserError is a line-level business error reported by the commerce backend.
type UserError struct {
	Field   []string `json:"field,omitempty"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
}

type Error struct {
	Kind       ErrorKind
	Op         string
	Message    string
	UserErrors []UserError
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case len(e.UserErrors) > 0:
		msgs := make([]string, 0, len(e.UserErrors))
		for _, ue := range e.UserErrors {
			msgs = append(msgs, ue.Message)
		}
		b.WriteString(strings.Join(msgs, "; "))
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(string(e.Kind) + " error")
	}
	if e.Message != "" && e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Display returns the message shown to shoppers, without the operation prefix.
func (e *Error) Display() string {
	if len(e.UserErrors) > 0 && e.Message == "" {
		return e.UserErrors[0].Message
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind) + " error"
}

func NewValidationError(op, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: msg}
}

func NewBackendError(op string, err error) *Error {
	return &Error{Kind: KindBackend, Op: op, Err: err}
}

func NewUserErrors(op string, userErrs []UserError) *Error {
	return &Error{Kind: KindBackend, Op: op, UserErrors: userErrs}
}

func NewParseError(op, msg string) *Error {
	return &Error{Kind: KindParse, Op: op, Message: msg}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsBackend(err error) bool    { return KindOf(err) == KindBackend }
func IsParse(err error) bool      { return KindOf(err) == KindParse }

// UserErrorsOf returns backend user errors carried by err, if any.
func UserErrorsOf(err error) []UserError {
	var e *Error
	if errors.As(err, &e) {
		return e.UserErrors
	}
	return nil
}

// DisplayMessage renders err for shoppers.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Display()
	}
	return err.Error()
}
