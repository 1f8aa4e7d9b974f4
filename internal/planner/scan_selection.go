package planner

import (
	"errors"

	"github.com/leengari/secindex/internal/domain/spec"
	"github.com/leengari/secindex/internal/plan"
	"github.com/leengari/secindex/internal/query"
)

// SelectScan determines whether to use an index range scan or a full scan.
// Queries with no usable prefix (an OR across columns, a NE, a predicate
// only on a later column) fall back to visiting every entry with the whole
// tree as filter. A nil query scans everything unfiltered.
func SelectScan(q *query.Query, sp *spec.Spec) (*plan.QueryPlan, error) {
	if q == nil || q.Root == nil {
		return plan.NewFullScan(nil), nil
	}

	p, err := BuildPlan(q, sp)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNoIndexScan) {
		return nil, err
	}
	return plan.NewFullScan(residual(q.Root)), nil
}
