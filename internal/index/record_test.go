package index

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/secindex/internal/domain/spec"
	"github.com/leengari/secindex/internal/domain/value"
	"github.com/leengari/secindex/internal/query"
)

func TestApplyRecord(t *testing.T) {
	ix := people(t, 0)

	assert.NilError(t, ix.ApplyRecord("u1", map[string]string{"Name": "foo", "AGE": "31", "other": "ignored"}))
	assert.NilError(t, ix.ApplyRecord("u2", map[string]string{"name": "bar"}))

	k, ok := ix.KeyOf("u1")
	assert.Assert(t, ok)
	assert.Equal(t, k[0], value.String("foo"))
	assert.Equal(t, k[1], value.Int32(31))

	// a missing field indexes as Null
	k, ok = ix.KeyOf("u2")
	assert.Assert(t, ok)
	assert.Assert(t, k[1].IsNull())
	assert.DeepEqual(t, find(t, ix, query.NullCheck(query.Ordinal(1))), []string{"u2"})

	// re-indexing moves the record
	assert.NilError(t, ix.ApplyRecord("u1", map[string]string{"name": "foo", "age": "32"}))
	assert.Equal(t, ix.Len(), 2)
	assert.DeepEqual(t, find(t, ix, query.Equals(query.Ordinal(1), value.Int64(32))), []string{"u1"})
}

func TestApplyRecordRejectsUnparseableField(t *testing.T) {
	ix := people(t, 0)

	err := ix.ApplyRecord("u1", map[string]string{"name": "foo", "age": "old"})
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.ErrorContains(t, err, "column=age")
	assert.Equal(t, ix.Len(), 0)
}

func TestChangeFromFieldsNeedsNamedSpec(t *testing.T) {
	sp, err := spec.New(0, spec.Property{Type: value.KindString})
	assert.NilError(t, err)

	_, err = ChangeFromFields(sp, "x", map[string]string{"a": "b"})
	assert.ErrorIs(t, err, ErrInvalidValue)
}
