package model

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is; the offending name is available through
// errors.As on *Error.
var (
	ErrUnsupportedFeature  = errors.New("unsupported feature")
	ErrInvalidDefinition   = errors.New("invalid definition")
	ErrReservedName        = errors.New("reserved name")
	ErrDuplicateDefinition = errors.New("duplicate definition")
	ErrTypeResolution      = errors.New("type resolution failed")
)

// Error is a semantic validation failure.
type Error struct {
	Kind error
	Name string
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, name string, format string, args ...any) *Error {
	return &Error{
		Kind: kind,
		Name: name,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func unsupported(name string, format string, args ...any) error {
	return newError(ErrUnsupportedFeature, name, format, args...)
}

func invalid(name string, format string, args ...any) error {
	return newError(ErrInvalidDefinition, name, format, args...)
}

func duplicate(name string, format string, args ...any) error {
	return newError(ErrDuplicateDefinition, name, format, args...)
}
