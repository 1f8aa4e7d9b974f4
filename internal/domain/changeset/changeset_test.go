package changeset

import (
	"testing"

	"github.com/google/uuid"
	"gotest.tools/v3/assert"

	"github.com/leengari/secindex/internal/domain/value"
)

func TestNewChangeSet(t *testing.T) {
	cs := New(AddChange("id1", value.String("foo"), value.Int32(2)))
	cs.Append(DeleteChange("id2"))

	_, err := uuid.Parse(cs.ID)
	assert.NilError(t, err)
	assert.Assert(t, !cs.CreatedAt.IsZero())
	assert.Equal(t, cs.Len(), 2)

	assert.Equal(t, cs.Changes[0].Type, Add)
	assert.Equal(t, len(cs.Changes[0].Values), 2)
	assert.Equal(t, cs.Changes[1].Type, Delete)
	assert.Equal(t, cs.Changes[1].ID, "id2")
}

func TestIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.Assert(t, !seen[id])
		seen[id] = true
	}
}
