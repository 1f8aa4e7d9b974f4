package predicate

import (
	"fmt"
	"strings"

	"github.com/leengari/secindex/internal/domain/value"
	"github.com/leengari/secindex/internal/parser/ast"
	"github.com/leengari/secindex/internal/query"
)

// Build converts a WHERE expression into a query tree.
// Supports:
//   - Comparison operators: =, <, >, <=, >=, !=, <>
//   - IN lists, LIKE 'prefix%' and IS NULL
//   - Logical operators: AND, OR
//
// Literals keep their parsed Go type; Normalize casts them to the
// column types later.
func Build(expr ast.Expression) (query.Node, error) {
	switch e := expr.(type) {
	case *ast.BinaryExpression:
		return buildComparison(e)

	case *ast.LogicalExpression:
		return buildLogical(e)

	case *ast.InExpression:
		vals := make([]value.Value, len(e.Values))
		for i, lit := range e.Values {
			v, err := Literal(lit)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return query.InValues(column(e.Column), vals...), nil

	case *ast.LikeExpression:
		prefix, ok := likePrefix(e.Pattern)
		if !ok {
			return nil, query.NewParseError(-1, "unsupported LIKE pattern '%s', only a single trailing %% is allowed", e.Pattern)
		}
		return query.PrefixOf(column(e.Column), prefix), nil

	case *ast.IsNullExpression:
		return query.NullCheck(column(e.Column)), nil

	default:
		return nil, query.NewParseError(-1, "unsupported expression type in WHERE clause: %T", expr)
	}
}

// buildComparison maps col op literal onto Eq, Ne or a half-open Range
func buildComparison(e *ast.BinaryExpression) (query.Node, error) {
	v, err := Literal(e.Right)
	if err != nil {
		return nil, err
	}
	col := column(e.Left)

	switch e.Operator {
	case "=":
		return query.Equals(col, v), nil
	case "!=", "<>":
		return query.NotEquals(col, v), nil
	case ">":
		return query.GreaterThan(col, v), nil
	case ">=":
		return query.GreaterOrEqual(col, v), nil
	case "<":
		return query.LessThan(col, v), nil
	case "<=":
		return query.LessOrEqual(col, v), nil
	}
	return nil, query.NewParseError(-1, "unsupported operator %s", e.Operator)
}

// buildLogical recursively builds both sides of an AND/OR
func buildLogical(e *ast.LogicalExpression) (query.Node, error) {
	left, err := Build(e.Left)
	if err != nil {
		return nil, fmt.Errorf("failed to build left predicate: %w", err)
	}

	right, err := Build(e.Right)
	if err != nil {
		return nil, fmt.Errorf("failed to build right predicate: %w", err)
	}

	switch e.Operator {
	case "AND":
		return query.NewAnd(left, right), nil
	case "OR":
		return query.NewOr(left, right), nil
	}
	return nil, query.NewParseError(-1, "unsupported logical operator: %s", e.Operator)
}

// Literal converts a parsed literal into an untyped-by-column value
func Literal(lit *ast.Literal) (value.Value, error) {
	switch lit.Kind {
	case ast.StringLiteral:
		return value.String(lit.Value.(string)), nil
	case ast.IntLiteral:
		switch n := lit.Value.(type) {
		case int64:
			return value.Int64(n), nil
		case uint64:
			return value.Uint(n), nil
		}
	case ast.FloatLiteral:
		return value.Double(lit.Value.(float64)), nil
	case ast.BoolLiteral:
		return value.Bool(lit.Value.(bool)), nil
	case ast.NullLiteral:
		return value.Null(), nil
	}
	return value.Value{}, query.NewParseError(-1, "unsupported literal %s", lit)
}

func column(ref *ast.ColumnRef) query.Column {
	if ref.Name != "" {
		return query.Name(ref.Name)
	}
	return query.Ordinal(ref.Ordinal - 1)
}

// likePrefix accepts only 'prefix%' with no other wildcard, % or _
func likePrefix(pattern string) (string, bool) {
	prefix, found := strings.CutSuffix(pattern, "%")
	if !found || strings.ContainsAny(prefix, "%_") {
		return "", false
	}
	return prefix, true
}
