package engine

import "time"

// EventType represents different lifecycle phases in statement execution
type EventType string

const (
	EventLexStart   EventType = "lex_start"
	EventLexEnd     EventType = "lex_end"
	EventParseStart EventType = "parse_start"
	EventParseEnd   EventType = "parse_end"
	EventPlanStart  EventType = "plan_start"
	EventPlanEnd    EventType = "plan_end"
	EventExecStart  EventType = "exec_start"
	EventExecEnd    EventType = "exec_end"
	EventError      EventType = "error"
)

// Event represents a lifecycle event in statement execution
type Event struct {
	Type      EventType // Type of event
	TxID      string    // Changeset ID for tracing
	Statement string    // Statement keyword (SELECT, INSERT, ...), once parsed
	Timestamp time.Time // When the event occurred
	Data      any       // Phase-specific data (e.g., input, token count, result sizes, error)
}

// ExecStats is the Data of an EventExecEnd
type ExecStats struct {
	RowsAffected int
	RowsReturned int
}

// Observer interface for event subscribers
// Observers receive events at major execution phases
type Observer interface {
	OnEvent(event Event)
}
