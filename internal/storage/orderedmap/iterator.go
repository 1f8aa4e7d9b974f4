package orderedmap

// Iterator walks (key, id) pairs in key order. It re-seeks the tree after
// each bucket, so it holds no tree internals between calls; entries inserted
// or removed while iterating may or may not be observed.
type Iterator[K any] struct {
	m       *Map[K]
	min     K
	minExcl bool
	max     K
	maxExcl bool
	bounded bool

	started bool
	done    bool
	cur     *bucket[K]
	ids     []string
	pos     int
}

// Range iterates keys between lo and hi. Either bound may be a prefix key.
func (m *Map[K]) Range(lo, hi K, minExclusive, maxExclusive bool) *Iterator[K] {
	return &Iterator[K]{
		m:       m,
		min:     lo,
		minExcl: minExclusive,
		max:     hi,
		maxExcl: maxExclusive,
		bounded: true,
	}
}

// Iter iterates the whole map
func (m *Map[K]) Iter() *Iterator[K] {
	return &Iterator[K]{m: m}
}

// Next returns the next pair, or ok=false once the iterator is exhausted
func (it *Iterator[K]) Next() (k K, id string, ok bool) {
	for !it.done {
		if it.cur != nil && it.pos < len(it.ids) {
			id = it.ids[it.pos]
			it.pos++
			return it.cur.key, id, true
		}
		it.advance()
	}
	return k, "", false
}

func (it *Iterator[K]) advance() {
	var next *bucket[K]
	switch {
	case it.started:
		next = it.m.seek(it.cur.key, true)
	case it.bounded:
		next = it.m.seek(it.min, it.minExcl)
	default:
		next, _ = it.m.tree.Min()
	}
	it.started = true

	if next == nil || it.pastMax(next.key) {
		it.Close()
		return
	}
	it.cur = next
	it.ids = append(it.ids[:0], next.ids...)
	it.pos = 0
}

func (it *Iterator[K]) pastMax(k K) bool {
	if !it.bounded {
		return false
	}
	c := it.m.cmp(k, it.max)
	return c > 0 || (c == 0 && it.maxExcl)
}

// Close stops the iteration early
func (it *Iterator[K]) Close() {
	it.done = true
	it.cur = nil
	it.ids = nil
}
