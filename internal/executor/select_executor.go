package executor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leengari/secindex/internal/index"
	"github.com/leengari/secindex/internal/parser/ast"
	"github.com/leengari/secindex/internal/plan"
	"github.com/leengari/secindex/internal/planner"
	"github.com/leengari/secindex/internal/planner/predicate"
	"github.com/leengari/secindex/internal/query"
	"github.com/leengari/secindex/internal/storage/manager"
)

// compile builds and normalizes a WHERE clause, reusing the entry's
// cached query for the same text
func compile(e *manager.Entry, where ast.Expression) (*query.Query, error) {
	if where == nil {
		return nil, nil
	}
	return e.Query(where.String(), func() (*query.Query, error) {
		root, err := predicate.Build(where)
		if err != nil {
			return nil, err
		}
		return query.New(root), nil
	})
}

// open returns a cursor for q. Queries the index cannot narrow down to
// ranges are answered with a filtered full scan.
func open(ix *index.CompoundIndex, q *query.Query) (*index.Cursor, error) {
	if q != nil {
		cur, err := ix.Find(q)
		if err == nil {
			return cur, nil
		}
		if !errors.Is(err, planner.ErrNoIndexScan) {
			return nil, err
		}
	}

	p, err := planner.SelectScan(q, ix.Spec())
	if err != nil {
		return nil, err
	}
	return ix.Scan(p), nil
}

// executeSelect lists (id, key) pairs in key order
func executeSelect(stmt *ast.SelectStatement, ctx *ExecutionContext) (*Result, error) {
	res := &Result{}

	err := ctx.Registry.With(stmt.Index.Value, func(e *manager.Entry) error {
		q, err := compile(e, stmt.Where)
		if err != nil {
			return err
		}

		ix := e.Index()
		cur, err := open(ix, q)
		if err != nil {
			return err
		}
		defer cur.Close()

		res.Columns, res.Metadata = keyColumns(ix.Spec())
		for stmt.Limit <= 0 || len(res.Rows) < stmt.Limit {
			id, k, ok := cur.NextWithKey()
			if !ok {
				break
			}
			res.Rows = append(res.Rows, renderRow(id, k))
		}
		return cur.Err()
	})
	if err != nil {
		return nil, err
	}

	res.Message = fmt.Sprintf("Returned %d rows", len(res.Rows))
	return res, nil
}

// executeCount reports the number of indexed ids
func executeCount(stmt *ast.CountStatement, ctx *ExecutionContext) (*Result, error) {
	var n int
	err := ctx.Registry.With(stmt.Index.Value, func(e *manager.Entry) error {
		n = e.Index().Len()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Columns:  []string{"count"},
		Metadata: []ColumnMetadata{{Name: "count", Type: "INT64"}},
		Rows:     [][]string{{strconv.Itoa(n)}},
		Message:  fmt.Sprintf("COUNT %d", n),
	}, nil
}

// executeExplain prints the plan a SELECT would run, one tree line per row
func executeExplain(stmt *ast.ExplainStatement, ctx *ExecutionContext) (*Result, error) {
	sel := stmt.Select
	var tree string
	var cost float64
	var nodes int

	err := ctx.Registry.With(sel.Index.Value, func(e *manager.Entry) error {
		q, err := compile(e, sel.Where)
		if err != nil {
			return err
		}
		p, err := planner.SelectScan(q, e.Index().Spec())
		if err != nil {
			return err
		}
		root := plan.Explain(sel.Index.Value, p)
		cost = planner.AttachCostEstimate(root, e.Index().Len())
		tree = plan.PrintTree(root)
		nodes = plan.CountNodes(root)
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		Columns:  []string{"plan"},
		Metadata: []ColumnMetadata{{Name: "plan", Type: "STRING"}},
		Message:  fmt.Sprintf("QUERY PLAN (estimated cost %.1f)", cost),
		Rows:     make([][]string, 0, nodes),
	}
	for _, line := range strings.Split(strings.TrimRight(tree, "\n"), "\n") {
		res.Rows = append(res.Rows, []string{line})
	}
	return res, nil
}
