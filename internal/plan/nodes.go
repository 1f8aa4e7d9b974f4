package plan

import (
	"fmt"

	"github.com/leengari/secindex/internal/query"
)

// Node is one step of an explain tree
type Node interface {
	// Children returns child nodes for tree walking
	Children() []Node

	// Metadata returns attached metadata (never nil)
	Metadata() map[string]any

	// NodeType returns the type identifier (for debugging/logging)
	NodeType() string

	// Describe renders the node on one line
	Describe() string
}

// ScanNode is the root of an explain tree: one index, its ranges and filter
type ScanNode struct {
	IndexName string
	Plan      *QueryPlan

	children []Node
	metadata map[string]any
}

// RangeNode is a single range iteration (leaf)
type RangeNode struct {
	Position int
	Range    ScanRange

	metadata map[string]any
}

// FilterNode is the residual predicate tree
type FilterNode struct {
	Filter query.Node

	metadata map[string]any
}

// Explain builds the explain tree for a plan over the named index
func Explain(indexName string, p *QueryPlan) *ScanNode {
	root := &ScanNode{IndexName: indexName, Plan: p}
	for i, r := range p.Ranges {
		root.AddChild(&RangeNode{Position: i, Range: r})
	}
	if p.Filter != nil {
		root.AddChild(&FilterNode{Filter: p.Filter})
	}

	root.Metadata()["index"] = indexName
	root.Metadata()["ranges"] = len(p.Ranges)
	root.Metadata()["has_filter"] = p.Filter != nil
	return root
}

func (n *ScanNode) Children() []Node { return n.children }

func (n *ScanNode) AddChild(child Node) {
	n.children = append(n.children, child)
}

func (n *ScanNode) Metadata() map[string]any {
	if n.metadata == nil {
		n.metadata = make(map[string]any)
	}
	return n.metadata
}

func (n *ScanNode) NodeType() string {
	return string(n.Plan.Kind)
}

func (n *ScanNode) Describe() string {
	return fmt.Sprintf("%s ON %s", n.Plan.Kind, n.IndexName)
}

func (n *RangeNode) Children() []Node { return nil }

func (n *RangeNode) Metadata() map[string]any {
	if n.metadata == nil {
		n.metadata = make(map[string]any)
	}
	return n.metadata
}

func (n *RangeNode) NodeType() string { return "RANGE" }

func (n *RangeNode) Describe() string {
	return fmt.Sprintf("RANGE #%d %s", n.Position+1, n.Range)
}

func (n *FilterNode) Children() []Node { return nil }

func (n *FilterNode) Metadata() map[string]any {
	if n.metadata == nil {
		n.metadata = make(map[string]any)
	}
	return n.metadata
}

func (n *FilterNode) NodeType() string { return "FILTER" }

func (n *FilterNode) Describe() string {
	return "FILTER " + n.Filter.String()
}
