package plan

import (
	"fmt"
	"strings"

	"github.com/leengari/secindex/internal/domain/key"
	"github.com/leengari/secindex/internal/query"
)

// ScanKind tells how a plan reaches its candidates
type ScanKind string

const (
	// IndexRange scans only the listed key ranges
	IndexRange ScanKind = "INDEX RANGE"
	// FullScan walks every entry and relies on the filter alone
	FullScan ScanKind = "FULL SCAN"
)

// ScanRange is one contiguous interval of the ordered map. Min and Max may be
// shorter than the index arity, which makes it a prefix scan.
type ScanRange struct {
	Min, Max     key.MultiKey
	MinExclusive bool
	MaxExclusive bool
}

func (r ScanRange) String() string {
	open, closing := "[", "]"
	if r.MinExclusive {
		open = "("
	}
	if r.MaxExclusive {
		closing = ")"
	}
	return fmt.Sprintf("%s%s .. %s%s", open, r.Min, r.Max, closing)
}

// QueryPlan is the scan ranges plus the residual filter re-checked per
// candidate. Filter is nil when every predicate was folded into the ranges.
type QueryPlan struct {
	Kind   ScanKind
	Ranges []ScanRange
	Filter query.Node
}

// NewFullScan builds a plan that visits every entry. An empty key compares
// equal to every key, so one empty range covers the whole map.
func NewFullScan(filter query.Node) *QueryPlan {
	return &QueryPlan{
		Kind:   FullScan,
		Ranges: []ScanRange{{Min: key.MultiKey{}, Max: key.MultiKey{}}},
		Filter: filter,
	}
}

func (p *QueryPlan) String() string {
	var b strings.Builder
	b.WriteString(string(p.Kind))
	for _, r := range p.Ranges {
		b.WriteString(" ")
		b.WriteString(r.String())
	}
	if p.Filter != nil {
		b.WriteString(" FILTER ")
		b.WriteString(p.Filter.String())
	}
	return b.String()
}
