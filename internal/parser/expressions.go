package parser

import (
	"strconv"

	"github.com/leengari/secindex/internal/parser/ast"
	"github.com/leengari/secindex/internal/parser/lexer"
)

// parseExpression parses OR chains, the lowest precedence level
//
//	expr   := term { OR term }
//	term   := factor { AND factor }
//	factor := '(' expr ')' | predicate
func (p *Parser) parseExpression() (ast.Expression, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.curTok.Type == lexer.OR {
		p.nextToken()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpression{Left: left, Operator: "OR", Right: right}
	}
	return left, nil
}

func (p *Parser) parseTerm() (ast.Expression, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.curTok.Type == lexer.AND {
		p.nextToken()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpression{Left: left, Operator: "AND", Right: right}
	}
	return left, nil
}

func (p *Parser) parseFactor() (ast.Expression, error) {
	if p.curTok.Type == lexer.PAREN_OPEN {
		p.nextToken()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.PAREN_CLOSE); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return p.parsePredicate()
}

func (p *Parser) parsePredicate() (ast.Expression, error) {
	col, err := p.parseColumnRef()
	if err != nil {
		return nil, err
	}

	switch {
	case isComparisonOperator(p.curTok.Type):
		op := p.curTok.Literal
		p.nextToken()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpression{Left: col, Operator: op, Right: lit}, nil

	case p.curTok.Type == lexer.IN:
		p.nextToken()
		values, err := p.parseLiteralList()
		if err != nil {
			return nil, err
		}
		return &ast.InExpression{Column: col, Values: values}, nil

	case p.curTok.Type == lexer.LIKE:
		p.nextToken()
		if p.curTok.Type != lexer.STRING {
			return nil, p.errorf("expected pattern string after LIKE, got %s", describe(p.curTok))
		}
		pattern := p.curTok.Literal
		p.nextToken()
		return &ast.LikeExpression{Column: col, Pattern: pattern}, nil

	case p.curTok.Type == lexer.IS:
		p.nextToken()
		if p.curTok.Type == lexer.NOT {
			return nil, p.errorf("IS NOT NULL is not supported")
		}
		if err := p.expect(lexer.NULL); err != nil {
			return nil, err
		}
		return &ast.IsNullExpression{Column: col}, nil
	}

	return nil, p.errorf("expected operator after %s, got %s", col, describe(p.curTok))
}

// parseColumnRef reads $N or a column name
func (p *Parser) parseColumnRef() (*ast.ColumnRef, error) {
	tok := p.curTok
	switch {
	case tok.Type == lexer.PARAM:
		n, err := strconv.Atoi(tok.Literal)
		if err != nil || n < 1 {
			return nil, p.errorf("column ordinals start at $1, got $%s", tok.Literal)
		}
		p.nextToken()
		return &ast.ColumnRef{Ordinal: n}, nil
	case isIdentifierOrKeyword(tok.Type):
		p.nextToken()
		return &ast.ColumnRef{Name: tok.Literal}, nil
	}
	return nil, p.errorf("expected column reference, got %s", describe(tok))
}
