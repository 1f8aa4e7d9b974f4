package key

import (
	"strings"

	"github.com/leengari/secindex/internal/domain/value"
)

// MultiKey is the ordered tuple of column values forming one index row's key.
// Scan boundaries may be shorter than the index arity (prefix keys).
type MultiKey []value.Value

// New copies vals into a fresh key
func New(vals ...value.Value) MultiKey {
	k := make(MultiKey, len(vals))
	copy(k, vals)
	return k
}

func (k MultiKey) Len() int { return len(k) }

// Clone returns an independent copy of k
func (k MultiKey) Clone() MultiKey {
	return New(k...)
}

func (k MultiKey) String() string {
	parts := make([]string, len(k))
	for i, v := range k {
		parts[i] = v.GoString()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Comparator orders MultiKeys with one comparator per column
type Comparator struct {
	cols []value.CompareFunc
}

// NewComparator builds the comparator vector for the declared column kinds
func NewComparator(kinds []value.Kind) Comparator {
	cols := make([]value.CompareFunc, len(kinds))
	for i, k := range kinds {
		cols[i] = value.ComparatorFor(k)
	}
	return Comparator{cols: cols}
}

// Compare compares the first min(len(a), len(b)) columns only, so a prefix
// key compares equal to every full key that starts with it.
func (c Comparator) Compare(a, b MultiKey) int {
	n := min(len(a), len(b), len(c.cols))
	for i := 0; i < n; i++ {
		if r := c.cols[i](a[i], b[i]); r != 0 {
			return r
		}
	}
	return 0
}

// Column compares one column's values with that column's comparator
func (c Comparator) Column(i int, a, b value.Value) int {
	if i < 0 || i >= len(c.cols) {
		return value.Compare(a, b)
	}
	return c.cols[i](a, b)
}

func (c Comparator) Len() int { return len(c.cols) }
