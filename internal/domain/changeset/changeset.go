package changeset

import (
	"time"

	"github.com/google/uuid"

	"github.com/leengari/secindex/internal/domain/value"
)

// ChangeType represents the type of modification
type ChangeType string

const (
	Add    ChangeType = "ADD"
	Delete ChangeType = "DELETE"
)

// Change is a single Add or Delete against one record id
type Change struct {
	Type   ChangeType
	ID     string
	Values []value.Value // Add only, one per indexed column
}

// ChangeSet is an ordered batch of changes applied to one index
type ChangeSet struct {
	ID        string    // batch id for tracing
	CreatedAt time.Time // when the batch was built
	Changes   []Change
}

// New builds a change set with a fresh id
func New(changes ...Change) *ChangeSet {
	return &ChangeSet{
		ID:        NewID(),
		CreatedAt: time.Now(),
		Changes:   changes,
	}
}

// NewID returns a tracing id for change sets and statements
func NewID() string {
	return uuid.New().String()
}

// AddChange indexes id under vals, replacing any previous key
func AddChange(id string, vals ...value.Value) Change {
	return Change{Type: Add, ID: id, Values: vals}
}

// DeleteChange removes id from the index
func DeleteChange(id string) Change {
	return Change{Type: Delete, ID: id}
}

// Append adds changes to the batch
func (cs *ChangeSet) Append(changes ...Change) {
	cs.Changes = append(cs.Changes, changes...)
}

func (cs *ChangeSet) Len() int { return len(cs.Changes) }
