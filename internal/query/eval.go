package query

import (
	"github.com/leengari/secindex/internal/domain/key"
	"github.com/leengari/secindex/internal/domain/value"
)

// Eval reports whether k satisfies the tree rooted at n. A nil tree matches
// everything.
func Eval(n Node, k key.MultiKey, cmp key.Comparator) bool {
	switch n := n.(type) {
	case nil:
		return true
	case Passthrough:
		return true
	case *PredicateNode:
		return n.Pred.Match(k, cmp)
	case *LogicNode:
		if n.Op == Or {
			return Eval(n.Left, k, cmp) || Eval(n.Right, k, cmp)
		}
		return Eval(n.Left, k, cmp) && Eval(n.Right, k, cmp)
	}
	return false
}

// Match evaluates the predicate against one key
func (p *Predicate) Match(k key.MultiKey, cmp key.Comparator) bool {
	i, ok := p.Column.Ordinal()
	if !ok || i < 0 || i >= len(k) {
		return false
	}
	v := k[i]

	switch p.Kind {
	case Eq:
		return cmp.Column(i, v, p.Value) == 0
	case Ne:
		return cmp.Column(i, v, p.Value) != 0
	case IsNull:
		return v.IsNull()
	case In:
		for _, want := range p.Values {
			if cmp.Column(i, v, want) == 0 {
				return true
			}
		}
		return false
	case Range:
		return inRange(cmp, i, v, p.Min, p.Max, p.MinExclusive, p.MaxExclusive)
	}
	return false
}

func inRange(cmp key.Comparator, i int, v, lo, hi value.Value, loExcl, hiExcl bool) bool {
	c := cmp.Column(i, v, lo)
	if c < 0 || (c == 0 && loExcl) {
		return false
	}
	c = cmp.Column(i, v, hi)
	return c < 0 || (c == 0 && !hiExcl)
}
