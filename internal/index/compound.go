package index

import (
	"fmt"

	"github.com/leengari/secindex/internal/domain/changeset"
	"github.com/leengari/secindex/internal/domain/key"
	"github.com/leengari/secindex/internal/domain/spec"
	"github.com/leengari/secindex/internal/domain/value"
	"github.com/leengari/secindex/internal/plan"
	"github.com/leengari/secindex/internal/planner"
	"github.com/leengari/secindex/internal/query"
	"github.com/leengari/secindex/internal/storage/orderedmap"
)

// CompoundIndex is an ordered multi-column index over externally owned
// records. It is not safe for concurrent use.
type CompoundIndex struct {
	spec    *spec.Spec
	cmp     key.Comparator
	entries *orderedmap.Map[key.MultiKey]
	reverse map[string]key.MultiKey // id -> owned copy of its current key
	closed  bool
}

// New creates an empty index over sp
func New(sp *spec.Spec) *CompoundIndex {
	cmp := key.NewComparator(sp.Kinds())
	return &CompoundIndex{
		spec:    sp,
		cmp:     cmp,
		entries: orderedmap.New(cmp.Compare),
		reverse: make(map[string]key.MultiKey),
	}
}

func (ix *CompoundIndex) Spec() *spec.Spec { return ix.spec }

// Comparator returns the per-column comparator the index orders keys by
func (ix *CompoundIndex) Comparator() key.Comparator { return ix.cmp }

// Closed reports whether Free has been called
func (ix *CompoundIndex) Closed() bool { return ix.closed }

// Len returns the number of indexed ids
func (ix *CompoundIndex) Len() int {
	if ix.closed {
		return 0
	}
	return ix.entries.Len()
}

// Apply processes the changes in order and stops at the first failure.
// Changes applied before the failure stay applied.
func (ix *CompoundIndex) Apply(cs *changeset.ChangeSet) error {
	if ix.closed {
		return ErrClosed
	}
	if cs == nil {
		return nil
	}

	for pos, ch := range cs.Changes {
		var err error
		switch ch.Type {
		case changeset.Add:
			err = ix.applyAdd(pos, ch)
		case changeset.Delete:
			err = ix.applyDelete(pos, ch)
		default:
			err = &ApplyError{
				Err:      ErrInvalidValue,
				Position: pos,
				ID:       ch.ID,
				Op:       ch.Type,
				Reason:   "unknown change type",
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (ix *CompoundIndex) applyAdd(pos int, ch changeset.Change) error {
	n := ix.spec.NumProps()
	if len(ch.Values) != n {
		return NewArityMismatch(pos, ch, n)
	}

	k := make(key.MultiKey, n)
	for i, v := range ch.Values {
		col := ix.columnName(i)
		if v.IsInf() {
			return NewInvalidValue(pos, ch, col, v, "infinity is only valid in query bounds")
		}
		cast, err := value.Cast(v, ix.spec.Property(i).Type)
		if err != nil {
			return NewInvalidValue(pos, ch, col, v, err.Error())
		}
		k[i] = cast
	}

	if ix.spec.IsUnique() {
		for _, holder := range ix.entries.Get(k) {
			if holder != ch.ID {
				return NewDuplicateKey(pos, ch, k, holder)
			}
			return nil
		}
	}

	if prev, ok := ix.reverse[ch.ID]; ok {
		if ix.cmp.Compare(prev, k) == 0 {
			return nil
		}
		ix.entries.Delete(prev, ch.ID)
	}

	ix.entries.Insert(k, ch.ID)
	ix.reverse[ch.ID] = k.Clone()
	return nil
}

func (ix *CompoundIndex) applyDelete(pos int, ch changeset.Change) error {
	prev, ok := ix.reverse[ch.ID]
	if !ok {
		return NewNotFound(pos, ch)
	}
	ix.entries.Delete(prev, ch.ID)
	delete(ix.reverse, ch.ID)
	return nil
}

// KeyOf returns a copy of the key currently indexed for id
func (ix *CompoundIndex) KeyOf(id string) (key.MultiKey, bool) {
	if ix.closed {
		return nil, false
	}
	k, ok := ix.reverse[id]
	if !ok {
		return nil, false
	}
	return k.Clone(), true
}

// Find plans q and returns a cursor over the matching ids in key order.
// q must already be normalized against Spec(). On failure the returned
// cursor is empty and its Err reports the same error.
func (ix *CompoundIndex) Find(q *query.Query) (*Cursor, error) {
	if ix.closed {
		return failedCursor(&CursorError{Err: ErrClosed})
	}
	if q.NumPredicates() == 0 {
		return failedCursor(&CursorError{Err: ErrInvalidQuery, Reason: "query has no predicates"})
	}

	p, err := planner.BuildPlan(q, ix.spec)
	if err != nil {
		return failedCursor(&CursorError{
			Err:    ErrInvalidQuery,
			Query:  q.String(),
			Reason: "no index scan possible",
			Cause:  err,
		})
	}
	return ix.Scan(p), nil
}

// Scan runs an already built plan
func (ix *CompoundIndex) Scan(p *plan.QueryPlan) *Cursor {
	if ix.closed {
		c, _ := failedCursor(&CursorError{Err: ErrClosed})
		return c
	}
	return &Cursor{ix: ix, ranges: p.Ranges, filter: p.Filter}
}

// Traverse visits every (id, key) pair in key order until visit returns
// false. The key passed to visit must not be modified.
func (ix *CompoundIndex) Traverse(visit func(id string, k key.MultiKey) bool) {
	if ix.closed {
		return
	}
	ix.entries.Ascend(func(k key.MultiKey, id string) bool {
		return visit(id, k)
	})
}

// Free drops all entries. Any later call fails with ErrClosed.
func (ix *CompoundIndex) Free() {
	if ix.closed {
		return
	}
	ix.entries.Clear()
	ix.entries = nil
	ix.reverse = nil
	ix.spec = nil
	ix.closed = true
}

func (ix *CompoundIndex) columnName(i int) string {
	if name := ix.spec.Property(i).Name; name != "" {
		return name
	}
	return fmt.Sprintf("$%d", i+1)
}
