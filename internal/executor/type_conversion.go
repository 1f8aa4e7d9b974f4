package executor

import (
	"fmt"

	"github.com/leengari/secindex/internal/domain/key"
	"github.com/leengari/secindex/internal/domain/spec"
	"github.com/leengari/secindex/internal/domain/value"
	"github.com/leengari/secindex/internal/parser/ast"
	"github.com/leengari/secindex/internal/planner/predicate"
)

// convertLiterals turns an INSERT value list into index values. Casting to
// the column types happens in Apply, which reports the failing column.
func convertLiterals(lits []*ast.Literal) ([]value.Value, error) {
	vals := make([]value.Value, len(lits))
	for i, lit := range lits {
		v, err := predicate.Literal(lit)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i+1, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// literalText returns the raw field text a SET assignment carries.
// NULL means the field is absent.
func literalText(lit *ast.Literal) (string, bool) {
	if lit.Kind == ast.NullLiteral {
		return "", false
	}
	return lit.TokenLiteralValue, true
}

// keyColumns returns the result header of an (id, key) listing
func keyColumns(sp *spec.Spec) ([]string, []ColumnMetadata) {
	columns := []string{"id"}
	metadata := []ColumnMetadata{{Name: "id", Type: "STRING"}}
	for i, p := range sp.Properties() {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("$%d", i+1)
		}
		columns = append(columns, name)
		metadata = append(metadata, ColumnMetadata{Name: name, Type: p.Type.String()})
	}
	return columns, metadata
}

func renderRow(id string, k key.MultiKey) []string {
	row := make([]string, 0, len(k)+1)
	row = append(row, id)
	for _, v := range k {
		row = append(row, v.String())
	}
	return row
}
