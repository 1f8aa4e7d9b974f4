package executor

import (
	"fmt"
	"strconv"

	"github.com/leengari/secindex/internal/domain/spec"
	"github.com/leengari/secindex/internal/domain/value"
	"github.com/leengari/secindex/internal/parser/ast"
	"github.com/leengari/secindex/internal/storage/manager"
)

func executeCreateIndex(stmt *ast.CreateIndexStatement, ctx *ExecutionContext) (*Result, error) {
	props := make([]spec.Property, len(stmt.Columns))
	for i, col := range stmt.Columns {
		k, err := value.ParseKind(col.Type)
		if err != nil {
			return nil, err
		}
		props[i] = spec.Property{Name: col.Name, Type: k}
	}

	var flags spec.Flags
	if stmt.Unique {
		flags |= spec.Unique
	}
	sp, err := spec.New(flags, props...)
	if err != nil {
		return nil, fmt.Errorf("invalid index definition: %w", err)
	}

	if err := ctx.Registry.Create(stmt.Name.Value, sp); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("CREATE INDEX %s %s", stmt.Name.Value, sp)}, nil
}

func executeDropIndex(stmt *ast.DropIndexStatement, ctx *ExecutionContext) (*Result, error) {
	if err := ctx.Registry.Drop(stmt.Name.Value); err != nil {
		return nil, err
	}
	return &Result{Message: "DROP INDEX " + stmt.Name.Value}, nil
}

func executeShowIndexes(ctx *ExecutionContext) (*Result, error) {
	res := &Result{
		Columns: []string{"name", "spec", "entries"},
		Metadata: []ColumnMetadata{
			{Name: "name", Type: "STRING"},
			{Name: "spec", Type: "STRING"},
			{Name: "entries", Type: "INT64"},
		},
	}

	for _, name := range ctx.Registry.List() {
		err := ctx.Registry.With(name, func(e *manager.Entry) error {
			ix := e.Index()
			res.Rows = append(res.Rows, []string{name, ix.Spec().String(), strconv.Itoa(ix.Len())})
			return nil
		})
		// dropped concurrently
		if err != nil {
			continue
		}
	}

	res.Message = fmt.Sprintf("%d indexes", len(res.Rows))
	return res, nil
}

func executeSave(stmt *ast.SaveStatement, ctx *ExecutionContext) (*Result, error) {
	if err := ctx.Registry.Save(stmt.Index.Value); err != nil {
		return nil, err
	}
	return &Result{Message: "SAVE " + stmt.Index.Value}, nil
}

func executeLoad(stmt *ast.LoadStatement, ctx *ExecutionContext) (*Result, error) {
	if err := ctx.Registry.Load(stmt.Index.Value); err != nil {
		return nil, err
	}

	var n int
	err := ctx.Registry.With(stmt.Index.Value, func(e *manager.Entry) error {
		n = e.Index().Len()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("LOAD %s (%d entries)", stmt.Index.Value, n), RowsAffected: n}, nil
}
