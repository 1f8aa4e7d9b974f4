package planner

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/secindex/internal/plan"
)

func TestCostEstimate(t *testing.T) {
	two := &plan.QueryPlan{Kind: plan.IndexRange, Ranges: make([]plan.ScanRange, 2)}

	tests := []struct {
		name    string
		plan    *plan.QueryPlan
		entries int
		want    float64
	}{
		{"full scan", plan.NewFullScan(nil), 1000, 1000},
		{"empty full scan", plan.NewFullScan(nil), 0, 0},
		{"two ranges", two, 1023, 20},
		{"two ranges over nothing", two, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := plan.Explain("ix", tt.plan)
			assert.Equal(t, AttachCostEstimate(root, tt.entries), tt.want)
			assert.Equal(t, root.Metadata()["estimated_cost"], tt.want)
			assert.Equal(t, root.Metadata()["entries"], tt.entries)

			// the total is the sum over the range nodes
			var sum float64
			for _, child := range root.Children() {
				sum += child.Metadata()["estimated_cost"].(float64)
			}
			assert.Equal(t, sum, tt.want)
		})
	}
}
