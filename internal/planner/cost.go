package planner

import (
	"math"

	"github.com/leengari/secindex/internal/plan"
)

// seekCost is the cost of positioning one range in the ordered map
func seekCost(entries int) float64 {
	return math.Max(1, math.Ceil(math.Log2(float64(entries)+1)))
}

// AttachCostEstimate estimates how many entries the explain tree rooted at
// node touches, records it on every range node and the root, and returns
// the total. A full scan visits every entry; each range of an index range
// scan costs one seek.
func AttachCostEstimate(node *plan.ScanNode, entries int) float64 {
	var cost float64
	_ = plan.WalkTree(node, func(n plan.Node) error {
		r, ok := n.(*plan.RangeNode)
		if !ok {
			return nil
		}
		step := seekCost(entries)
		if node.Plan.Kind == plan.FullScan {
			step = float64(entries)
		}
		r.Metadata()["estimated_cost"] = step
		cost += step
		return nil
	})

	node.Metadata()["estimated_cost"] = cost
	node.Metadata()["entries"] = entries
	return cost
}
