package executor

import (
	"fmt"

	"github.com/leengari/secindex/internal/parser/ast"
	"github.com/leengari/secindex/internal/storage/manager"
)

// ColumnMetadata describes one result column
type ColumnMetadata struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Result is what a statement produces. Row cells are rendered text.
type Result struct {
	Columns      []string         `json:"columns,omitempty"`
	Metadata     []ColumnMetadata `json:"metadata,omitempty"`
	Rows         [][]string       `json:"rows,omitempty"`
	Message      string           `json:"message,omitempty"`
	RowsAffected int              `json:"rows_affected"`
	Error        string           `json:"error,omitempty"` // set only on the wire
}

// ExecutionContext provides resources for execution
type ExecutionContext struct {
	Registry *manager.Registry
	TxID     string // changeset id of the statement, for logging
}

// Execute runs one parsed statement
func Execute(stmt ast.Statement, ctx *ExecutionContext) (*Result, error) {
	if ctx == nil || ctx.Registry == nil {
		return nil, fmt.Errorf("execution context has no registry")
	}

	switch s := stmt.(type) {
	case *ast.CreateIndexStatement:
		return executeCreateIndex(s, ctx)
	case *ast.DropIndexStatement:
		return executeDropIndex(s, ctx)
	case *ast.ShowIndexesStatement:
		return executeShowIndexes(ctx)
	case *ast.InsertStatement:
		return executeInsert(s, ctx)
	case *ast.DeleteStatement:
		return executeDelete(s, ctx)
	case *ast.SetStatement:
		return executeSet(s, ctx)
	case *ast.SelectStatement:
		return executeSelect(s, ctx)
	case *ast.CountStatement:
		return executeCount(s, ctx)
	case *ast.ExplainStatement:
		return executeExplain(s, ctx)
	case *ast.SaveStatement:
		return executeSave(s, ctx)
	case *ast.LoadStatement:
		return executeLoad(s, ctx)
	default:
		return nil, fmt.Errorf("unsupported statement type: %T", stmt)
	}
}
