package executor

import (
	"github.com/leengari/secindex/internal/domain/changeset"
	"github.com/leengari/secindex/internal/parser/ast"
	"github.com/leengari/secindex/internal/storage/manager"
)

// executeDelete removes one id from the index
func executeDelete(stmt *ast.DeleteStatement, ctx *ExecutionContext) (*Result, error) {
	cs := changeset.New(changeset.DeleteChange(stmt.ID))
	err := ctx.Registry.With(stmt.Index.Value, func(e *manager.Entry) error {
		return e.Index().Apply(cs)
	})
	if err != nil {
		return nil, err
	}

	return &Result{Message: "DELETE 1", RowsAffected: 1}, nil
}
