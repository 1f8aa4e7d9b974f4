package executor

import (
	"github.com/leengari/secindex/internal/parser/ast"
	"github.com/leengari/secindex/internal/storage/manager"
)

// executeSet re-indexes a record from its raw field values. Fields the
// statement leaves out are indexed as NULL.
func executeSet(stmt *ast.SetStatement, ctx *ExecutionContext) (*Result, error) {
	fields := make(map[string]string, len(stmt.Fields))
	for _, f := range stmt.Fields {
		if text, ok := literalText(f.Value); ok {
			fields[f.Field] = text
		}
	}

	err := ctx.Registry.With(stmt.Index.Value, func(e *manager.Entry) error {
		return e.Index().ApplyRecord(stmt.ID, fields)
	})
	if err != nil {
		return nil, err
	}

	return &Result{Message: "SET 1", RowsAffected: 1}, nil
}
