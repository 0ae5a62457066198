package domain

import (
	"errors"
	"strings"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidArgument
	KindInvalidTransition
	KindNotFound
	KindBadIdentifier
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindInvalidTransition:
		return "InvalidTransition"
	case KindNotFound:
		return "NotFound"
	case KindBadIdentifier:
		return "BadIdentifier"
	}
	return "Internal"
}

// Error carries a Kind so the transport layer can pick a status code.
// Msgs holds one entry per problem (validation may report several).
type Error struct {
	Kind  Kind
	Title string
	Msgs  []string
	Err   error
}

func (e *Error) Error() string {
	if len(e.Msgs) > 0 {
		return strings.Join(e.Msgs, "; ")
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so callers can write errors.Is(err, domain.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Title == "" && len(t.Msgs) == 0 && t.Err == nil
}

var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrBadIdentifier     = &Error{Kind: KindBadIdentifier}
)

func Validation(title string, msgs ...string) error {
	return &Error{Kind: KindValidation, Title: title, Msgs: msgs}
}

func InvalidArgument(msg string) error {
	return &Error{Kind: KindInvalidArgument, Title: "Bad Request", Msgs: []string{msg}}
}

func InvalidTransition(msg string) error {
	return &Error{Kind: KindInvalidTransition, Title: "Bad Request", Msgs: []string{msg}}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Title: "Not Found", Msgs: []string{msg}}
}

func BadIdentifier(msg string) error {
	return &Error{Kind: KindBadIdentifier, Title: "Bad Request", Msgs: []string{msg}}
}

func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Title: "Internal Server Error", Msgs: []string{msg}, Err: err}
}

// KindOf returns KindInternal for errors that are not *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
