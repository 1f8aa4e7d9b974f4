package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leengari/secindex/internal/domain/value"
)

// Column references an index column either by 0-based ordinal or by name.
// A name-only reference stays unresolved until Normalize finds it.
type Column struct {
	ordinal  int
	name     string
	resolved bool
}

// Ordinal references the column at 0-based position i
func Ordinal(i int) Column {
	return Column{ordinal: i, resolved: true}
}

// Name references a column by name (NAMED indexes only)
func Name(name string) Column {
	return Column{name: name}
}

// Ordinal returns the resolved 0-based ordinal
func (c Column) Ordinal() (int, bool) {
	return c.ordinal, c.resolved
}

func (c Column) Name() string { return c.name }

func (c Column) String() string {
	if c.name != "" {
		return c.name
	}
	if c.resolved {
		return "$" + strconv.Itoa(c.ordinal+1)
	}
	return "$?"
}

// PredicateKind selects the comparison a predicate performs
type PredicateKind uint8

const (
	Eq PredicateKind = iota
	Ne
	Range
	In
	IsNull
)

func (k PredicateKind) String() string {
	switch k {
	case Eq:
		return "EQ"
	case Ne:
		return "NE"
	case Range:
		return "RANGE"
	case In:
		return "IN"
	case IsNull:
		return "IS NULL"
	}
	return fmt.Sprintf("PredicateKind(%d)", uint8(k))
}

// Predicate is a single column comparison
type Predicate struct {
	Kind   PredicateKind
	Column Column

	Value value.Value // Eq, Ne

	Min, Max     value.Value // Range
	MinExclusive bool
	MaxExclusive bool

	Values []value.Value // In
}

// Node is a query tree node: *PredicateNode, *LogicNode or Passthrough
type Node interface {
	fmt.Stringer
	queryNode()
}

// PredicateNode is a leaf
type PredicateNode struct {
	Pred Predicate
}

// LogicOp combines two subtrees
type LogicOp uint8

const (
	And LogicOp = iota
	Or
)

func (op LogicOp) String() string {
	if op == Or {
		return "OR"
	}
	return "AND"
}

// LogicNode joins two subtrees with AND or OR
type LogicNode struct {
	Op          LogicOp
	Left, Right Node

	shared shared
}

// Passthrough always evaluates to true. Planning leaves it where a
// predicate was consumed into a scan range.
type Passthrough struct{}

func (*PredicateNode) queryNode() {}
func (*LogicNode) queryNode() {}
func (Passthrough) queryNode() {}

func (n *PredicateNode) String() string {
	p := n.Pred
	switch p.Kind {
	case Eq:
		return fmt.Sprintf("%s = %#v", p.Column, p.Value)
	case Ne:
		return fmt.Sprintf("%s != %#v", p.Column, p.Value)
	case IsNull:
		return fmt.Sprintf("%s IS NULL", p.Column)
	case In:
		parts := make([]string, len(p.Values))
		for i, v := range p.Values {
			parts[i] = v.GoString()
		}
		return fmt.Sprintf("%s IN (%s)", p.Column, strings.Join(parts, ", "))
	case Range:
		open, closing := "[", "]"
		if p.MinExclusive {
			open = "("
		}
		if p.MaxExclusive {
			closing = ")"
		}
		return fmt.Sprintf("%s IN RANGE %s%#v, %#v%s", p.Column, open, p.Min, p.Max, closing)
	}
	return "?"
}

func (n *LogicNode) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}

func (Passthrough) String() string { return "TRUE" }

// SharedColumn returns the column every predicate under n refers to, when
// there is one. It is filled in by Normalize.
func (n *LogicNode) SharedColumn() (int, bool) {
	return n.shared.ordinal, n.shared.state == sharedColumn
}

type sharedState uint8

const (
	sharedUnknown sharedState = iota
	sharedColumn
	sharedMixed
	sharedNoOpinion // only passthrough leaves below
)

type shared struct {
	state   sharedState
	ordinal int
}

// Query is a predicate tree ready to be normalized and planned
type Query struct {
	Root Node
}

// New wraps root into a query
func New(root Node) *Query {
	return &Query{Root: root}
}

// NumPredicates counts predicate leaves
func (q *Query) NumPredicates() int {
	if q == nil {
		return 0
	}
	return countPredicates(q.Root)
}

func countPredicates(n Node) int {
	switch n := n.(type) {
	case *PredicateNode:
		return 1
	case *LogicNode:
		return countPredicates(n.Left) + countPredicates(n.Right)
	}
	return 0
}

func (q *Query) String() string {
	if q == nil || q.Root == nil {
		return "<empty>"
	}
	return q.Root.String()
}
