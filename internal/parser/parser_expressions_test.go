package parser

import (
	"testing"

	"github.com/leengari/secindex/internal/parser/ast"
)

func where(t *testing.T, input string) ast.Expression {
	t.Helper()
	sel, ok := parse(t, input).(*ast.SelectStatement)
	if !ok {
		t.Fatalf("Expected SelectStatement")
	}
	if sel.Where == nil {
		t.Fatal("Expected WHERE clause, got nil")
	}
	return sel.Where
}

// TestParseComparisonExpressions tests parsing of all comparison operators
func TestParseComparisonExpressions(t *testing.T) {
	tests := []struct {
		name             string
		input            string
		expectedOperator string
	}{
		{name: "=", input: "SELECT FROM users WHERE age = 25;", expectedOperator: "="},
		{name: "<", input: "SELECT FROM users WHERE age < 30;", expectedOperator: "<"},
		{name: ">", input: "SELECT FROM users WHERE age > 18;", expectedOperator: ">"},
		{name: "<=", input: "SELECT FROM users WHERE age <= 65;", expectedOperator: "<="},
		{name: ">=", input: "SELECT FROM users WHERE age >= 21;", expectedOperator: ">="},
		{name: "!=", input: "SELECT FROM users WHERE status != 'inactive';", expectedOperator: "!="},
		{name: "<>", input: "SELECT FROM users WHERE status <> 'deleted';", expectedOperator: "<>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			binExpr, ok := where(t, tt.input).(*ast.BinaryExpression)
			if !ok {
				t.Fatalf("Expected BinaryExpression in WHERE")
			}
			if binExpr.Operator != tt.expectedOperator {
				t.Errorf("Expected operator %s, got %s", tt.expectedOperator, binExpr.Operator)
			}
		})
	}
}

// TestParseLogicalPrecedence checks that AND binds tighter than OR
func TestParseLogicalPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"SELECT FROM t WHERE a = 1 AND b = 2",
			"((a = 1) AND (b = 2))",
		},
		{
			"SELECT FROM t WHERE a = 1 OR b = 2 AND c = 3",
			"((a = 1) OR ((b = 2) AND (c = 3)))",
		},
		{
			"SELECT FROM t WHERE (a = 1 OR b = 2) AND c = 3",
			"(((a = 1) OR (b = 2)) AND (c = 3))",
		},
		{
			"SELECT FROM t WHERE a = 1 AND b = 2 AND c = 3",
			"(((a = 1) AND (b = 2)) AND (c = 3))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := where(t, tt.input).String()
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestParsePredicateForms(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"SELECT FROM t WHERE $2 IN (1, 2, 3)", "($2 IN (1, 2, 3))"},
		{"SELECT FROM t WHERE name LIKE 'f%'", "(name LIKE 'f%')"},
		{"SELECT FROM t WHERE name IS NULL", "(name IS NULL)"},
		{"SELECT FROM t WHERE $1 = 'it''s'", "($1 = 'it''s')"},
		{"SELECT FROM t WHERE id = 'x'", "(id = 'x')"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := where(t, tt.input).String()
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestParseInExpression(t *testing.T) {
	in, ok := where(t, "SELECT FROM t WHERE $1 IN ('a', NULL)").(*ast.InExpression)
	if !ok {
		t.Fatalf("Expected InExpression")
	}
	if in.Column.Ordinal != 1 || in.Column.Name != "" {
		t.Errorf("unexpected column %+v", in.Column)
	}
	if len(in.Values) != 2 || in.Values[1].Kind != ast.NullLiteral {
		t.Errorf("unexpected values %s", in)
	}
}
