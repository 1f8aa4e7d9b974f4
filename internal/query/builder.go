package query

import "github.com/leengari/secindex/internal/domain/value"

func Equals(col Column, v value.Value) *PredicateNode {
	return &PredicateNode{Pred: Predicate{Kind: Eq, Column: col, Value: v}}
}

func NotEquals(col Column, v value.Value) *PredicateNode {
	return &PredicateNode{Pred: Predicate{Kind: Ne, Column: col, Value: v}}
}

// Between matches lo <= col <= hi; the flags make either side strict.
// Use value.NegInf / value.PosInf for an open side.
func Between(col Column, lo, hi value.Value, loExclusive, hiExclusive bool) *PredicateNode {
	return &PredicateNode{Pred: Predicate{
		Kind:         Range,
		Column:       col,
		Min:          lo,
		Max:          hi,
		MinExclusive: loExclusive,
		MaxExclusive: hiExclusive,
	}}
}

func GreaterThan(col Column, v value.Value) *PredicateNode {
	return Between(col, v, value.PosInf(), true, false)
}

func GreaterOrEqual(col Column, v value.Value) *PredicateNode {
	return Between(col, v, value.PosInf(), false, false)
}

func LessThan(col Column, v value.Value) *PredicateNode {
	return Between(col, value.NegInf(), v, false, true)
}

func LessOrEqual(col Column, v value.Value) *PredicateNode {
	return Between(col, value.NegInf(), v, false, false)
}

// PrefixOf matches strings starting with prefix
func PrefixOf(col Column, prefix string) *PredicateNode {
	return Between(col, value.String(prefix), value.String(prefix+"\xff"), false, false)
}

func InValues(col Column, vals ...value.Value) *PredicateNode {
	owned := make([]value.Value, len(vals))
	copy(owned, vals)
	return &PredicateNode{Pred: Predicate{Kind: In, Column: col, Values: owned}}
}

func NullCheck(col Column) *PredicateNode {
	return &PredicateNode{Pred: Predicate{Kind: IsNull, Column: col}}
}

func NewAnd(left, right Node) *LogicNode {
	return &LogicNode{Op: And, Left: left, Right: right}
}

func NewOr(left, right Node) *LogicNode {
	return &LogicNode{Op: Or, Left: left, Right: right}
}

// AllOf folds nodes into a left-deep AND chain
func AllOf(nodes ...Node) Node {
	return fold(And, nodes)
}

// AnyOf folds nodes into a left-deep OR chain
func AnyOf(nodes ...Node) Node {
	return fold(Or, nodes)
}

func fold(op LogicOp, nodes []Node) Node {
	if len(nodes) == 0 {
		return nil
	}
	root := nodes[0]
	for _, n := range nodes[1:] {
		root = &LogicNode{Op: op, Left: root, Right: n}
	}
	return root
}
