package parser

import (
	"github.com/leengari/secindex/internal/parser/ast"
	"github.com/leengari/secindex/internal/parser/lexer"
	"github.com/leengari/secindex/internal/query"
)

// isSoftKeyword checks if a keyword may also name a column or field
func isSoftKeyword(t lexer.TokenType) bool {
	switch t {
	case lexer.ID, lexer.COUNT, lexer.INDEX, lexer.INDEXES, lexer.LIMIT, lexer.SAVE, lexer.LOAD, lexer.SHOW:
		return true
	}
	return false
}

// isIdentifierOrKeyword checks if a token can be used as a column name
func isIdentifierOrKeyword(t lexer.TokenType) bool {
	return t == lexer.IDENTIFIER || isSoftKeyword(t)
}

// isComparisonOperator checks if a token type is a comparison operator
func isComparisonOperator(t lexer.TokenType) bool {
	return t == lexer.EQUALS ||
		t == lexer.LESS_THAN ||
		t == lexer.GREATER_THAN ||
		t == lexer.LESS_EQUAL ||
		t == lexer.GREATER_EQUAL ||
		t == lexer.NOT_EQUAL
}

// Parse lexes and parses a single statement
func Parse(input string) (ast.Statement, error) {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, query.NewParseError(-1, "%v", err)
	}
	return New(tokens).Parse()
}
