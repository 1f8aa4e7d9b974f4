// Package orderedmap is an ordered multimap from keys to string ids, backed
// by a generic B-tree. Each distinct key owns a bucket of ids kept in sorted
// order, so iteration is deterministic.
package orderedmap

import (
	"sort"

	"github.com/google/btree"
)

const degree = 32

type bucket[K any] struct {
	key K
	ids []string

	// bound positions a search probe before (-1) or after (+1) every stored
	// key that compares equal to it. Stored buckets use 0.
	bound int8
}

// Map is not safe for concurrent use
type Map[K any] struct {
	tree *btree.BTreeG[*bucket[K]]
	cmp  func(a, b K) int
	size int
}

// New creates an empty map ordered by cmp. The comparator may treat a
// shorter (prefix) key as equal to longer keys, which Range relies on.
func New[K any](cmp func(a, b K) int) *Map[K] {
	less := func(a, b *bucket[K]) bool {
		if c := cmp(a.key, b.key); c != 0 {
			return c < 0
		}
		return a.bound < b.bound
	}
	return &Map[K]{
		tree: btree.NewG(degree, less),
		cmp:  cmp,
	}
}

// Len returns the number of (key, id) pairs
func (m *Map[K]) Len() int { return m.size }

// Keys returns the number of distinct keys
func (m *Map[K]) Keys() int { return m.tree.Len() }

// Insert adds (k, id). It returns false if the pair was already present.
func (m *Map[K]) Insert(k K, id string) bool {
	if b, ok := m.tree.Get(&bucket[K]{key: k}); ok {
		i := sort.SearchStrings(b.ids, id)
		if i < len(b.ids) && b.ids[i] == id {
			return false
		}
		b.ids = append(b.ids, "")
		copy(b.ids[i+1:], b.ids[i:])
		b.ids[i] = id
		m.size++
		return true
	}
	m.tree.ReplaceOrInsert(&bucket[K]{key: k, ids: []string{id}})
	m.size++
	return true
}

// Delete removes (k, id) and drops the key once its bucket is empty
func (m *Map[K]) Delete(k K, id string) bool {
	b, ok := m.tree.Get(&bucket[K]{key: k})
	if !ok {
		return false
	}
	i := sort.SearchStrings(b.ids, id)
	if i == len(b.ids) || b.ids[i] != id {
		return false
	}
	b.ids = append(b.ids[:i], b.ids[i+1:]...)
	m.size--
	if len(b.ids) == 0 {
		m.tree.Delete(b)
	}
	return true
}

// Get returns the ids stored under k exactly
func (m *Map[K]) Get(k K) []string {
	b, ok := m.tree.Get(&bucket[K]{key: k})
	if !ok {
		return nil
	}
	out := make([]string, len(b.ids))
	copy(out, b.ids)
	return out
}

// Ascend visits every (key, id) pair in order until fn returns false
func (m *Map[K]) Ascend(fn func(k K, id string) bool) {
	m.tree.Ascend(func(b *bucket[K]) bool {
		for _, id := range b.ids {
			if !fn(b.key, id) {
				return false
			}
		}
		return true
	})
}

// Clear drops every entry
func (m *Map[K]) Clear() {
	m.tree.Clear(false)
	m.size = 0
}

// seek returns the first bucket whose key is >= pivot, or > pivot when
// exclusive. A prefix pivot compares equal to many buckets; the probe bound
// places it before or after all of them.
func (m *Map[K]) seek(pivot K, exclusive bool) *bucket[K] {
	probe := &bucket[K]{key: pivot, bound: -1}
	if exclusive {
		probe.bound = 1
	}
	var found *bucket[K]
	m.tree.AscendGreaterOrEqual(probe, func(b *bucket[K]) bool {
		found = b
		return false
	})
	return found
}
