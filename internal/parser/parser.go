package parser

import (
	"errors"
	"strconv"

	"github.com/leengari/secindex/internal/parser/ast"
	"github.com/leengari/secindex/internal/parser/lexer"
	"github.com/leengari/secindex/internal/query"
)

type Parser struct {
	tokens  []lexer.Token
	curPos  int
	curTok  lexer.Token
	peekTok lexer.Token
}

func New(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens, curPos: 0}
	// Read two tokens to set curTok and peekTok
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	if p.curPos < len(p.tokens) {
		p.peekTok = p.tokens[p.curPos]
		p.curPos++
	} else {
		p.peekTok = lexer.Token{Type: lexer.EOF, Pos: -1}
	}
}

// errorf builds a parse error positioned at the current token
func (p *Parser) errorf(format string, args ...any) error {
	return query.NewParseError(p.curTok.Pos, format, args...)
}

// expect consumes the current token if it has type t
func (p *Parser) expect(t lexer.TokenType) error {
	if p.curTok.Type != t {
		return p.errorf("expected %s, got %s", t, describe(p.curTok))
	}
	p.nextToken()
	return nil
}

// Parse parses exactly one statement, optionally terminated by a semicolon
func (p *Parser) Parse() (ast.Statement, error) {
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	// Semicolon (Optional)
	if p.curTok.Type == lexer.SEMICOLON {
		p.nextToken()
	}
	if p.curTok.Type != lexer.EOF {
		return nil, p.errorf("unexpected %s after statement", describe(p.curTok))
	}
	return stmt, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curTok.Type {
	case lexer.SELECT:
		return p.parseSelect()
	case lexer.INSERT:
		return p.parseInsert()
	case lexer.DELETE:
		return p.parseDelete()
	case lexer.SET:
		return p.parseSet()
	case lexer.CREATE:
		return p.parseCreateIndex()
	case lexer.DROP:
		p.nextToken()
		if err := p.expect(lexer.INDEX); err != nil {
			return nil, err
		}
		name, err := p.parseIdentifier("index name")
		if err != nil {
			return nil, err
		}
		return &ast.DropIndexStatement{Name: name}, nil
	case lexer.SHOW:
		p.nextToken()
		if err := p.expect(lexer.INDEXES); err != nil {
			return nil, err
		}
		return &ast.ShowIndexesStatement{}, nil
	case lexer.COUNT:
		p.nextToken()
		name, err := p.parseIdentifier("index name")
		if err != nil {
			return nil, err
		}
		return &ast.CountStatement{Index: name}, nil
	case lexer.SAVE:
		p.nextToken()
		name, err := p.parseIdentifier("index name")
		if err != nil {
			return nil, err
		}
		return &ast.SaveStatement{Index: name}, nil
	case lexer.LOAD:
		p.nextToken()
		name, err := p.parseIdentifier("index name")
		if err != nil {
			return nil, err
		}
		return &ast.LoadStatement{Index: name}, nil
	case lexer.EXPLAIN:
		p.nextToken()
		if p.curTok.Type != lexer.SELECT {
			return nil, p.errorf("expected SELECT after EXPLAIN, got %s", describe(p.curTok))
		}
		sel, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		return &ast.ExplainStatement{Select: sel}, nil
	case lexer.EOF:
		return nil, p.errorf("empty statement")
	default:
		return nil, p.errorf("unexpected token %s", describe(p.curTok))
	}
}

func (p *Parser) parseSelect() (*ast.SelectStatement, error) {
	stmt := &ast.SelectStatement{}

	// SELECT
	p.nextToken()

	// FROM
	if err := p.expect(lexer.FROM); err != nil {
		return nil, err
	}

	name, err := p.parseIdentifier("index name")
	if err != nil {
		return nil, err
	}
	stmt.Index = name

	// WHERE (Optional)
	if p.curTok.Type == lexer.WHERE {
		p.nextToken()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Where = expr
	}

	// LIMIT (Optional)
	if p.curTok.Type == lexer.LIMIT {
		p.nextToken()
		if p.curTok.Type != lexer.NUMBER {
			return nil, p.errorf("expected number after LIMIT, got %s", describe(p.curTok))
		}
		n, err := strconv.Atoi(p.curTok.Literal)
		if err != nil || n <= 0 {
			return nil, p.errorf("LIMIT must be a positive integer, got %s", p.curTok.Literal)
		}
		stmt.Limit = n
		p.nextToken()
	}

	return stmt, nil
}

func (p *Parser) parseInsert() (*ast.InsertStatement, error) {
	stmt := &ast.InsertStatement{}

	// INSERT
	p.nextToken()

	// INTO
	if err := p.expect(lexer.INTO); err != nil {
		return nil, err
	}

	name, err := p.parseIdentifier("index name")
	if err != nil {
		return nil, err
	}
	stmt.Index = name

	if stmt.ID, err = p.parseRecordID(); err != nil {
		return nil, err
	}

	// VALUES
	if err := p.expect(lexer.VALUES); err != nil {
		return nil, err
	}

	values, err := p.parseLiteralList()
	if err != nil {
		return nil, err
	}
	stmt.Values = values

	return stmt, nil
}

func (p *Parser) parseDelete() (*ast.DeleteStatement, error) {
	stmt := &ast.DeleteStatement{}

	// DELETE
	p.nextToken()

	// FROM
	if err := p.expect(lexer.FROM); err != nil {
		return nil, err
	}

	name, err := p.parseIdentifier("index name")
	if err != nil {
		return nil, err
	}
	stmt.Index = name

	if stmt.ID, err = p.parseRecordID(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseSet() (*ast.SetStatement, error) {
	stmt := &ast.SetStatement{}

	// SET
	p.nextToken()

	name, err := p.parseIdentifier("index name")
	if err != nil {
		return nil, err
	}
	stmt.Index = name

	if stmt.ID, err = p.parseRecordID(); err != nil {
		return nil, err
	}

	if err := p.expect(lexer.PAREN_OPEN); err != nil {
		return nil, err
	}
	for {
		if !isIdentifierOrKeyword(p.curTok.Type) {
			return nil, p.errorf("expected field name, got %s", describe(p.curTok))
		}
		field := p.curTok.Literal
		p.nextToken()

		if err := p.expect(lexer.EQUALS); err != nil {
			return nil, err
		}
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		stmt.Fields = append(stmt.Fields, ast.Assignment{Field: field, Value: lit})

		if p.curTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}
	if err := p.expect(lexer.PAREN_CLOSE); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseCreateIndex() (*ast.CreateIndexStatement, error) {
	stmt := &ast.CreateIndexStatement{}

	// CREATE
	p.nextToken()

	if p.curTok.Type == lexer.UNIQUE {
		stmt.Unique = true
		p.nextToken()
	}

	if err := p.expect(lexer.INDEX); err != nil {
		return nil, err
	}

	name, err := p.parseIdentifier("index name")
	if err != nil {
		return nil, err
	}
	stmt.Name = name

	if err := p.expect(lexer.PAREN_OPEN); err != nil {
		return nil, err
	}
	for {
		def, err := p.parseColumnDefinition()
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, def)

		if p.curTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}
	if err := p.expect(lexer.PAREN_CLOSE); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseColumnDefinition reads either "name TYPE" or a bare "TYPE"
func (p *Parser) parseColumnDefinition() (ast.ColumnDefinition, error) {
	if !isIdentifierOrKeyword(p.curTok.Type) {
		return ast.ColumnDefinition{}, p.errorf("expected column definition, got %s", describe(p.curTok))
	}

	var def ast.ColumnDefinition
	if p.peekTok.Type == lexer.IDENTIFIER {
		def.Name = p.curTok.Literal
		p.nextToken()
	}

	if err := validateTypeName(p.curTok.Literal); err != nil {
		return ast.ColumnDefinition{}, p.errorf("%v", err)
	}
	def.Type = p.curTok.Literal
	p.nextToken()
	return def, nil
}

func (p *Parser) parseIdentifier(what string) (*ast.Identifier, error) {
	if p.curTok.Type != lexer.IDENTIFIER {
		return nil, p.errorf("expected %s, got %s", what, describe(p.curTok))
	}
	id := &ast.Identifier{TokenLiteralValue: p.curTok.Literal, Value: p.curTok.Literal}
	p.nextToken()
	return id, nil
}

// parseRecordID reads ID 'id'
func (p *Parser) parseRecordID() (string, error) {
	if err := p.expect(lexer.ID); err != nil {
		return "", err
	}
	if p.curTok.Type != lexer.STRING {
		return "", p.errorf("expected quoted record id, got %s", describe(p.curTok))
	}
	id := p.curTok.Literal
	if err := validateRecordID(id); err != nil {
		return "", p.errorf("%v", err)
	}
	p.nextToken()
	return id, nil
}

// parseLiteralList reads ( lit {, lit} )
func (p *Parser) parseLiteralList() ([]*ast.Literal, error) {
	if err := p.expect(lexer.PAREN_OPEN); err != nil {
		return nil, err
	}

	var list []*ast.Literal
	for {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		list = append(list, lit)

		if p.curTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}

	if err := p.expect(lexer.PAREN_CLOSE); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parseLiteral() (*ast.Literal, error) {
	tok := p.curTok
	switch tok.Type {
	case lexer.STRING:
		p.nextToken()
		return &ast.Literal{TokenLiteralValue: tok.Literal, Value: tok.Literal, Kind: ast.StringLiteral}, nil
	case lexer.NUMBER:
		p.nextToken()
		// Try int
		if i, err := strconv.ParseInt(tok.Literal, 10, 64); err == nil {
			return &ast.Literal{TokenLiteralValue: tok.Literal, Value: i, Kind: ast.IntLiteral}, nil
		} else if errors.Is(err, strconv.ErrRange) {
			if u, err := strconv.ParseUint(tok.Literal, 10, 64); err == nil {
				return &ast.Literal{TokenLiteralValue: tok.Literal, Value: u, Kind: ast.IntLiteral}, nil
			}
		}
		// Try float
		if f, err := strconv.ParseFloat(tok.Literal, 64); err == nil {
			return &ast.Literal{TokenLiteralValue: tok.Literal, Value: f, Kind: ast.FloatLiteral}, nil
		}
		return nil, query.NewParseError(tok.Pos, "invalid number: %s", tok.Literal)
	case lexer.TRUE:
		p.nextToken()
		return &ast.Literal{TokenLiteralValue: "TRUE", Value: true, Kind: ast.BoolLiteral}, nil
	case lexer.FALSE:
		p.nextToken()
		return &ast.Literal{TokenLiteralValue: "FALSE", Value: false, Kind: ast.BoolLiteral}, nil
	case lexer.NULL:
		p.nextToken()
		return &ast.Literal{TokenLiteralValue: "NULL", Kind: ast.NullLiteral}, nil
	default:
		return nil, p.errorf("expected literal, got %s", describe(tok))
	}
}

func describe(tok lexer.Token) string {
	if tok.Type == lexer.EOF {
		return "end of input"
	}
	return strconv.Quote(tok.Literal)
}
