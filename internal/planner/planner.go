package planner

import (
	"errors"
	"slices"

	"github.com/leengari/secindex/internal/domain/key"
	"github.com/leengari/secindex/internal/domain/spec"
	"github.com/leengari/secindex/internal/domain/value"
	"github.com/leengari/secindex/internal/plan"
	"github.com/leengari/secindex/internal/query"
)

// ErrNoIndexScan means no predicate could be folded into a key range
var ErrNoIndexScan = errors.New("query cannot be served by an index scan")

// bound is one column's contribution to a scan range
type bound struct {
	min, max         value.Value
	minExcl, maxExcl bool
}

// BuildPlan turns a normalized query into scan ranges plus a residual filter.
//
// Columns are consumed left to right while each has a usable predicate in
// the AND spine of the tree. Equality and IN keep the chain going; a range
// ends it, since an ordered scan can only extend past an equality prefix.
// The caller's tree is left untouched.
func BuildPlan(q *query.Query, sp *spec.Spec) (*plan.QueryPlan, error) {
	if q == nil || q.Root == nil {
		return nil, ErrNoIndexScan
	}

	root := q.Root
	var columns [][]bound
	for col := 0; col < sp.NumProps(); col++ {
		pred, rest, ok := ExtractPredicate(root, col)
		if !ok {
			break
		}
		root = rest
		columns = append(columns, toBounds(pred, value.ComparatorFor(sp.Property(col).Type)))
		if pred.Kind == query.Range {
			break
		}
	}

	if len(columns) == 0 {
		return nil, ErrNoIndexScan
	}

	return &plan.QueryPlan{
		Kind:   plan.IndexRange,
		Ranges: cartesian(columns),
		Filter: residual(root),
	}, nil
}

// toBounds converts a consumed predicate into per-column tuples. IN values
// are sorted and deduplicated so the ranges come out in key order.
func toBounds(p query.Predicate, cmp value.CompareFunc) []bound {
	switch p.Kind {
	case query.Eq:
		return []bound{{min: p.Value, max: p.Value}}
	case query.IsNull:
		return []bound{{min: value.Null(), max: value.Null()}}
	case query.Range:
		return []bound{{min: p.Min, max: p.Max, minExcl: p.MinExclusive, maxExcl: p.MaxExclusive}}
	case query.In:
		vals := slices.Clone(p.Values)
		slices.SortStableFunc(vals, cmp)
		vals = slices.CompactFunc(vals, func(a, b value.Value) bool { return cmp(a, b) == 0 })
		out := make([]bound, len(vals))
		for i, v := range vals {
			out[i] = bound{min: v, max: v}
		}
		return out
	}
	return nil
}

// cartesian expands the per-column tuples into scan ranges with an
// odometer over the columns, last column fastest. Exclusivity comes from the
// last column; the ones before it are points.
func cartesian(columns [][]bound) []plan.ScanRange {
	for _, c := range columns {
		if len(c) == 0 {
			return nil
		}
	}

	n := len(columns)
	idx := make([]int, n)
	var out []plan.ScanRange
	for {
		lo := make(key.MultiKey, n)
		hi := make(key.MultiKey, n)
		for c, i := range idx {
			lo[c] = columns[c][i].min
			hi[c] = columns[c][i].max
		}
		last := columns[n-1][idx[n-1]]
		out = append(out, plan.ScanRange{
			Min:          lo,
			Max:          hi,
			MinExclusive: last.minExcl,
			MaxExclusive: last.maxExcl,
		})

		c := n - 1
		for ; c >= 0; c-- {
			idx[c]++
			if idx[c] < len(columns[c]) {
				break
			}
			idx[c] = 0
		}
		if c < 0 {
			return out
		}
	}
}

func residual(n query.Node) query.Node {
	cleaned := CleanQueryNode(n)
	if _, ok := cleaned.(query.Passthrough); ok {
		return nil
	}
	return cleaned
}
