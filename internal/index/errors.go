package index

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leengari/secindex/internal/domain/changeset"
	"github.com/leengari/secindex/internal/domain/key"
	"github.com/leengari/secindex/internal/domain/value"
)

var (
	ErrArityMismatch = errors.New("value count does not match index arity")
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrNotFound      = errors.New("id not found")
	ErrInvalidValue  = errors.New("invalid value given")
	ErrClosed        = errors.New("index is closed")
	ErrInvalidQuery  = errors.New("invalid query")
)

// ApplyError describes the change that stopped an Apply call
type ApplyError struct {
	Err      error                // one of the sentinels above
	Position int                  // change offset in the changeset (-1 if unknown)
	ID       string               // record id of the change
	Op       changeset.ChangeType // ADD or DELETE
	Column   string               // offending column, if any
	Value    string               // offending value or key, if any
	Reason   string               // human-readable explanation (optional)
}

func (e *ApplyError) Error() string {
	var parts []string

	parts = append(parts, e.Err.Error())
	parts = append(parts, fmt.Sprintf("%s %q", e.Op, e.ID))

	if e.Column != "" {
		parts = append(parts, fmt.Sprintf("column=%s", e.Column))
	}
	if e.Value != "" {
		parts = append(parts, fmt.Sprintf("value=%s", e.Value))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	if e.Position >= 0 {
		parts = append(parts, fmt.Sprintf("at change %d", e.Position))
	}

	return strings.Join(parts, " - ")
}

func (e *ApplyError) Unwrap() error { return e.Err }

func NewArityMismatch(pos int, ch changeset.Change, want int) *ApplyError {
	return &ApplyError{
		Err:      ErrArityMismatch,
		Position: pos,
		ID:       ch.ID,
		Op:       ch.Type,
		Reason:   fmt.Sprintf("expected %d values, got %d", want, len(ch.Values)),
	}
}

func NewDuplicateKey(pos int, ch changeset.Change, k key.MultiKey, holder string) *ApplyError {
	return &ApplyError{
		Err:      ErrDuplicateKey,
		Position: pos,
		ID:       ch.ID,
		Op:       ch.Type,
		Value:    k.String(),
		Reason:   fmt.Sprintf("already held by %q", holder),
	}
}

func NewNotFound(pos int, ch changeset.Change) *ApplyError {
	return &ApplyError{
		Err:      ErrNotFound,
		Position: pos,
		ID:       ch.ID,
		Op:       ch.Type,
	}
}

func NewInvalidValue(pos int, ch changeset.Change, column string, v value.Value, reason string) *ApplyError {
	return &ApplyError{
		Err:      ErrInvalidValue,
		Position: pos,
		ID:       ch.ID,
		Op:       ch.Type,
		Column:   column,
		Value:    v.GoString(),
		Reason:   reason,
	}
}

// CursorError is reported by Find and by Cursor.Err when a query cannot be
// executed
type CursorError struct {
	Err    error // ErrInvalidQuery or ErrClosed
	Query  string
	Reason string
	Cause  error // planner or normalization error, if any
}

func (e *CursorError) Error() string {
	var parts []string

	parts = append(parts, e.Err.Error())

	if e.Query != "" {
		parts = append(parts, fmt.Sprintf("query=%s", e.Query))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, " - ")
}

func (e *CursorError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}
