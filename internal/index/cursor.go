package index

import (
	"github.com/leengari/secindex/internal/domain/key"
	"github.com/leengari/secindex/internal/plan"
	"github.com/leengari/secindex/internal/query"
	"github.com/leengari/secindex/internal/storage/orderedmap"
)

// Cursor walks the ranges of a plan one after another and yields the ids
// whose keys pass the residual filter. It sees writes made while it is
// open in an unspecified way.
type Cursor struct {
	ix     *CompoundIndex
	ranges []plan.ScanRange
	filter query.Node
	next   int
	it     *orderedmap.Iterator[key.MultiKey]
	err    error
}

func failedCursor(err *CursorError) (*Cursor, error) {
	return &Cursor{err: err}, err
}

// Next returns the next matching id
func (c *Cursor) Next() (string, bool) {
	id, _, ok := c.advance()
	return id, ok
}

// NextWithKey also returns a copy of the matched key
func (c *Cursor) NextWithKey() (string, key.MultiKey, bool) {
	id, k, ok := c.advance()
	if !ok {
		return "", nil, false
	}
	return id, k.Clone(), true
}

func (c *Cursor) advance() (string, key.MultiKey, bool) {
	if c.err != nil {
		return "", nil, false
	}
	for {
		if c.ix.closed {
			c.err = &CursorError{Err: ErrClosed}
			c.Close()
			return "", nil, false
		}
		if c.it == nil {
			if c.next >= len(c.ranges) {
				return "", nil, false
			}
			r := c.ranges[c.next]
			c.next++
			c.it = c.ix.entries.Range(r.Min, r.Max, r.MinExclusive, r.MaxExclusive)
		}

		k, id, ok := c.it.Next()
		if !ok {
			c.it = nil
			continue
		}
		if query.Eval(c.filter, k, c.ix.cmp) {
			return id, k, true
		}
	}
}

// Err reports why the cursor could not be built, or ErrClosed when the
// index was freed underneath it
func (c *Cursor) Err() error {
	return c.err
}

// Close releases the active iterator. Next returns false afterwards.
func (c *Cursor) Close() {
	if c.it != nil {
		c.it.Close()
		c.it = nil
	}
	c.next = len(c.ranges)
}

// Collect drains the cursor, stopping after limit ids when limit > 0
func (c *Cursor) Collect(limit int) []string {
	var ids []string
	for limit <= 0 || len(ids) < limit {
		id, ok := c.Next()
		if !ok {
			break
		}
		ids = append(ids, id)
	}
	return ids
}
