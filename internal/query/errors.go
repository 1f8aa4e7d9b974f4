package query

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidProperty = errors.New("invalid property")
	ErrInvalidValue    = errors.New("invalid value given")
	ErrParse           = errors.New("could not parse query")
)

// Error describes why a query was rejected during parsing or normalization
type Error struct {
	Err    error  // ErrInvalidProperty, ErrInvalidValue or ErrParse
	Column string // column reference as written, if any
	Value  string // offending literal, if any
	Reason string // human-readable detail (optional)
	Pos    int    // input offset for parse errors (-1 if unknown)
}

func (e *Error) Error() string {
	var parts []string

	parts = append(parts, e.Err.Error())

	if e.Column != "" {
		parts = append(parts, fmt.Sprintf("column=%s", e.Column))
	}
	if e.Value != "" {
		parts = append(parts, fmt.Sprintf("value=%s", e.Value))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	if e.Pos >= 0 {
		parts = append(parts, fmt.Sprintf("at offset %d", e.Pos))
	}

	return strings.Join(parts, " - ")
}

func (e *Error) Unwrap() error { return e.Err }

func NewInvalidProperty(col Column, reason string) *Error {
	return &Error{Err: ErrInvalidProperty, Column: col.String(), Reason: reason, Pos: -1}
}

func NewInvalidValue(col Column, val string, reason string) *Error {
	return &Error{Err: ErrInvalidValue, Column: col.String(), Value: val, Reason: reason, Pos: -1}
}

func NewParseError(pos int, format string, args ...any) *Error {
	return &Error{Err: ErrParse, Reason: fmt.Sprintf(format, args...), Pos: pos}
}
