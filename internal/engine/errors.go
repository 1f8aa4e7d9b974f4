package engine

import (
	"fmt"
	"strings"
)

// Phase names the pipeline step a statement failed in
type Phase string

const (
	PhaseParse     Phase = "parse"
	PhasePlanning  Phase = "planning"
	PhaseExecution Phase = "execution"
)

// PhaseError reports which step of Execute failed. It wraps the cause, so
// errors.Is sees the index and query sentinels through it.
type PhaseError struct {
	Phase     Phase
	TxID      string
	Statement string // statement keyword, empty when parsing failed
	Err       error
}

func (e *PhaseError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%s error", e.Phase))

	if e.Statement != "" {
		parts = append(parts, fmt.Sprintf("(%s)", e.Statement))
	}

	return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

func newParseError(txID string, err error) *PhaseError {
	return &PhaseError{Phase: PhaseParse, TxID: txID, Err: err}
}

func newPlanningError(txID, stmt string, err error) *PhaseError {
	return &PhaseError{Phase: PhasePlanning, TxID: txID, Statement: stmt, Err: err}
}

func newExecutionError(txID, stmt string, err error) *PhaseError {
	return &PhaseError{Phase: PhaseExecution, TxID: txID, Statement: stmt, Err: err}
}
