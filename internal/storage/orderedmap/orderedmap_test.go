package orderedmap

import (
	"cmp"
	"fmt"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/secindex/internal/domain/key"
	"github.com/leengari/secindex/internal/domain/value"
)

type pair struct {
	K  int
	ID string
}

func collect[K any](it *Iterator[K], conv func(K) int) []pair {
	var out []pair
	for {
		k, id, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, pair{conv(k), id})
	}
}

func ident(i int) int { return i }

func newIntMap(t *testing.T) *Map[int] {
	t.Helper()
	m := New(cmp.Compare[int])
	for i := 1; i <= 5; i++ {
		assert.Assert(t, m.Insert(i*10, fmt.Sprintf("id%d", i)))
	}
	assert.Assert(t, m.Insert(30, "dup"))
	return m
}

func TestInsertDuplicateBuckets(t *testing.T) {
	m := newIntMap(t)

	assert.Equal(t, m.Len(), 6)
	assert.Equal(t, m.Keys(), 5)
	assert.DeepEqual(t, m.Get(30), []string{"dup", "id3"})
	assert.Assert(t, !m.Insert(30, "dup"), "pair already present")
	assert.Equal(t, m.Len(), 6)
	assert.Assert(t, m.Get(31) == nil)
}

func TestDelete(t *testing.T) {
	m := newIntMap(t)

	assert.Assert(t, m.Delete(30, "id3"))
	assert.DeepEqual(t, m.Get(30), []string{"dup"})
	assert.Assert(t, !m.Delete(30, "id3"))
	assert.Assert(t, !m.Delete(99, "id3"))

	assert.Assert(t, m.Delete(30, "dup"))
	assert.Equal(t, m.Keys(), 4)
	assert.Equal(t, m.Len(), 4)
}

func TestRangeBounds(t *testing.T) {
	tests := []struct {
		name           string
		lo, hi         int
		loExcl, hiExcl bool
		want           []pair
	}{
		{"closed", 20, 40, false, false, []pair{{20, "id2"}, {30, "dup"}, {30, "id3"}, {40, "id4"}}},
		{"exclusive low", 20, 40, true, false, []pair{{30, "dup"}, {30, "id3"}, {40, "id4"}}},
		{"exclusive high", 20, 40, false, true, []pair{{20, "id2"}, {30, "dup"}, {30, "id3"}}},
		{"point", 30, 30, false, false, []pair{{30, "dup"}, {30, "id3"}}},
		{"between keys", 31, 39, false, false, nil},
		{"open ended", 45, 1000, false, false, []pair{{50, "id5"}}},
	}

	m := newIntMap(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(m.Range(tt.lo, tt.hi, tt.loExcl, tt.hiExcl), ident)
			assert.DeepEqual(t, got, tt.want)
		})
	}
}

func TestIterAll(t *testing.T) {
	m := newIntMap(t)
	got := collect(m.Iter(), ident)
	assert.Equal(t, len(got), 6)
	for i := 1; i < len(got); i++ {
		assert.Assert(t, got[i-1].K <= got[i].K)
	}

	var visited int
	m.Ascend(func(k int, id string) bool {
		visited++
		return visited < 3
	})
	assert.Equal(t, visited, 3)

	m.Clear()
	assert.Equal(t, m.Len(), 0)
	assert.Assert(t, collect(m.Iter(), ident) == nil)
}

func TestCloseStopsIteration(t *testing.T) {
	m := newIntMap(t)
	it := m.Range(0, 100, false, false)
	_, _, ok := it.Next()
	assert.Assert(t, ok)
	it.Close()
	_, _, ok = it.Next()
	assert.Assert(t, !ok)
}

func TestPrefixRangeOverMultiKeys(t *testing.T) {
	keyCmp := key.NewComparator([]value.Kind{value.KindString, value.KindInt32})
	m := New(keyCmp.Compare)

	rows := []struct {
		id   string
		name string
		age  int32
	}{
		{"id1", "foo", 2}, {"id2", "bar", 4}, {"id3", "foo", 5}, {"id4", "foxx", 10},
	}
	for _, r := range rows {
		m.Insert(key.New(value.String(r.name), value.Int32(r.age)), r.id)
	}

	ids := func(it *Iterator[key.MultiKey]) []string {
		var out []string
		for {
			_, id, ok := it.Next()
			if !ok {
				return out
			}
			out = append(out, id)
		}
	}

	foo := key.New(value.String("foo"))
	assert.DeepEqual(t, ids(m.Range(foo, foo, false, false)), []string{"id1", "id3"})

	// everything after the "foo" prefix
	assert.DeepEqual(t, ids(m.Range(foo, key.New(value.PosInf()), true, false)), []string{"id4"})

	lo := key.New(value.String("foo"), value.Int32(2))
	hi := key.New(value.String("foo"), value.PosInf())
	assert.DeepEqual(t, ids(m.Range(lo, hi, true, false)), []string{"id3"})
}
