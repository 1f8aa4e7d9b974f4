package executor

import (
	"github.com/leengari/secindex/internal/domain/changeset"
	"github.com/leengari/secindex/internal/parser/ast"
	"github.com/leengari/secindex/internal/storage/manager"
)

// executeInsert indexes (or re-indexes) one id
func executeInsert(stmt *ast.InsertStatement, ctx *ExecutionContext) (*Result, error) {
	vals, err := convertLiterals(stmt.Values)
	if err != nil {
		return nil, err
	}

	cs := changeset.New(changeset.AddChange(stmt.ID, vals...))
	err = ctx.Registry.With(stmt.Index.Value, func(e *manager.Entry) error {
		return e.Index().Apply(cs)
	})
	if err != nil {
		return nil, err
	}

	return &Result{Message: "INSERT 1", RowsAffected: 1}, nil
}
