package query

import (
	"fmt"

	"github.com/leengari/secindex/internal/domain/spec"
	"github.com/leengari/secindex/internal/domain/value"
)

// Normalize resolves column names, annotates logic nodes with their shared
// column and casts every literal to its column's declared type. It edits
// the tree in place and stops at the first invalid predicate.
func Normalize(q *Query, sp *spec.Spec) error {
	if q == nil || q.Root == nil {
		return nil
	}
	resolveColumns(q.Root, sp)
	markSameColumn(q.Root)
	return validate(q.Root, sp)
}

func resolveColumns(n Node, sp *spec.Spec) {
	switch n := n.(type) {
	case *PredicateNode:
		col := &n.Pred.Column
		if col.resolved || col.name == "" || !sp.IsNamed() {
			return
		}
		if i, ok := sp.PropertyByName(col.name); ok {
			col.ordinal = i
			col.resolved = true
		}
	case *LogicNode:
		resolveColumns(n.Left, sp)
		resolveColumns(n.Right, sp)
	}
}

// markSameColumn returns the column shared by every predicate under n.
// Passthrough has no opinion, so it never breaks agreement.
func markSameColumn(n Node) shared {
	switch n := n.(type) {
	case *PredicateNode:
		if i, ok := n.Pred.Column.Ordinal(); ok {
			return shared{state: sharedColumn, ordinal: i}
		}
		return shared{state: sharedMixed}
	case *LogicNode:
		l := markSameColumn(n.Left)
		r := markSameColumn(n.Right)
		switch {
		case l.state == sharedNoOpinion:
			n.shared = r
		case r.state == sharedNoOpinion:
			n.shared = l
		case l.state == sharedColumn && r.state == sharedColumn && l.ordinal == r.ordinal:
			n.shared = l
		default:
			n.shared = shared{state: sharedMixed}
		}
		return n.shared
	}
	return shared{state: sharedNoOpinion}
}

func validate(n Node, sp *spec.Spec) error {
	switch n := n.(type) {
	case *PredicateNode:
		return validatePredicate(&n.Pred, sp)
	case *LogicNode:
		if err := validate(n.Left, sp); err != nil {
			return err
		}
		return validate(n.Right, sp)
	}
	return nil
}

func validatePredicate(p *Predicate, sp *spec.Spec) error {
	i, ok := p.Column.Ordinal()
	if !ok {
		if !sp.IsNamed() {
			return NewInvalidProperty(p.Column, "index columns are positional")
		}
		return NewInvalidProperty(p.Column, "unknown column name")
	}
	if i < 0 || i >= sp.NumProps() {
		return NewInvalidProperty(p.Column, fmt.Sprintf("index has %d columns", sp.NumProps()))
	}
	kind := sp.Property(i).Type

	// Literals take the column type. A floating literal on an integer
	// column truncates toward zero, so age < 9.5 becomes age < 9.
	castInto := func(v *value.Value) error {
		cast, err := value.Cast(*v, kind)
		if err != nil {
			return NewInvalidValue(p.Column, v.String(), err.Error())
		}
		*v = cast
		return nil
	}

	switch p.Kind {
	case Eq, Ne:
		return castInto(&p.Value)
	case Range:
		if err := castInto(&p.Min); err != nil {
			return err
		}
		return castInto(&p.Max)
	case In:
		for j := range p.Values {
			if err := castInto(&p.Values[j]); err != nil {
				return err
			}
		}
	}
	return nil
}
