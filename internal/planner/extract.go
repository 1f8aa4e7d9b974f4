package planner

import "github.com/leengari/secindex/internal/query"

// ExtractPredicate finds a predicate on col that can bound a scan. It only
// descends through AND nodes. On success it returns the predicate and a
// copy of the tree with that leaf replaced by Passthrough; untouched
// subtrees are shared with n.
func ExtractPredicate(n query.Node, col int) (query.Predicate, query.Node, bool) {
	switch n := n.(type) {
	case *query.PredicateNode:
		if consumable(n.Pred, col) {
			return n.Pred, query.Passthrough{}, true
		}
	case *query.LogicNode:
		if n.Op != query.And {
			break
		}
		if p, left, ok := ExtractPredicate(n.Left, col); ok {
			clone := *n
			clone.Left = left
			return p, &clone, true
		}
		if p, right, ok := ExtractPredicate(n.Right, col); ok {
			clone := *n
			clone.Right = right
			return p, &clone, true
		}
	}
	return query.Predicate{}, n, false
}

func consumable(p query.Predicate, col int) bool {
	i, ok := p.Column.Ordinal()
	if !ok || i != col {
		return false
	}
	switch p.Kind {
	case query.Eq, query.Range, query.In, query.IsNull:
		return true
	}
	return false
}

// CleanQueryNode prunes Passthrough leaves left behind by extraction. An AND
// with one Passthrough side becomes the other side; an OR with a
// Passthrough side is always true.
func CleanQueryNode(n query.Node) query.Node {
	logic, ok := n.(*query.LogicNode)
	if !ok {
		return n
	}

	left := CleanQueryNode(logic.Left)
	right := CleanQueryNode(logic.Right)
	_, leftPass := left.(query.Passthrough)
	_, rightPass := right.(query.Passthrough)

	switch {
	case leftPass && rightPass:
		return query.Passthrough{}
	case (leftPass || rightPass) && logic.Op == query.Or:
		return query.Passthrough{}
	case leftPass:
		return right
	case rightPass:
		return left
	}

	if left == logic.Left && right == logic.Right {
		return logic
	}
	clone := *logic
	clone.Left, clone.Right = left, right
	return &clone
}
