package lexer

import (
	"fmt"
	"strings"
)

type TokenType int

const (
	// Special
	ILLEGAL TokenType = iota
	EOF
	WS // Whitespace

	// Literals
	IDENTIFIER // index_name, column_name, type name
	STRING     // 'value'
	NUMBER     // 123, -4, 1.23
	PARAM      // $1

	// Keywords
	SELECT
	FROM
	WHERE
	INSERT
	INTO
	VALUES
	DELETE
	SET
	CREATE
	DROP
	SHOW
	UNIQUE
	INDEX
	INDEXES
	ID
	LIMIT
	COUNT
	EXPLAIN
	SAVE
	LOAD
	AND
	OR
	IN
	LIKE
	IS
	NOT
	NULL
	TRUE
	FALSE

	// Operators & Punctuation
	COMMA         // ,
	PAREN_OPEN    // (
	PAREN_CLOSE   // )
	EQUALS        // =
	NOT_EQUAL     // != or <>
	LESS_THAN     // <
	LESS_EQUAL    // <=
	GREATER_THAN  // >
	GREATER_EQUAL // >=
	SEMICOLON     // ;
)

var keywords = map[string]TokenType{
	"SELECT":  SELECT,
	"FROM":    FROM,
	"WHERE":   WHERE,
	"INSERT":  INSERT,
	"INTO":    INTO,
	"VALUES":  VALUES,
	"DELETE":  DELETE,
	"SET":     SET,
	"CREATE":  CREATE,
	"DROP":    DROP,
	"SHOW":    SHOW,
	"UNIQUE":  UNIQUE,
	"INDEX":   INDEX,
	"INDEXES": INDEXES,
	"ID":      ID,
	"LIMIT":   LIMIT,
	"COUNT":   COUNT,
	"EXPLAIN": EXPLAIN,
	"SAVE":    SAVE,
	"LOAD":    LOAD,
	"AND":     AND,
	"OR":      OR,
	"IN":      IN,
	"LIKE":    LIKE,
	"IS":      IS,
	"NOT":     NOT,
	"NULL":    NULL,
	"TRUE":    TRUE,
	"FALSE":   FALSE,
}

var names = map[TokenType]string{
	ILLEGAL:       "ILLEGAL",
	EOF:           "EOF",
	IDENTIFIER:    "IDENTIFIER",
	STRING:        "STRING",
	NUMBER:        "NUMBER",
	PARAM:         "PARAM",
	COMMA:         ",",
	PAREN_OPEN:    "(",
	PAREN_CLOSE:   ")",
	EQUALS:        "=",
	NOT_EQUAL:     "!=",
	LESS_THAN:     "<",
	LESS_EQUAL:    "<=",
	GREATER_THAN:  ">",
	GREATER_EQUAL: ">=",
	SEMICOLON:     ";",
}

func init() {
	for word, tt := range keywords {
		names[tt] = word
	}
}

func (t TokenType) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
	Pos     int // byte offset into the input
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q)", t.Type, t.Literal)
}

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition += 1
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) NextToken() Token {
	var tok Token

	l.skipWhitespace()

	line, col, pos := l.line, l.column, l.position

	switch l.ch {
	case ',':
		tok = newToken(COMMA, l.ch)
	case '(':
		tok = newToken(PAREN_OPEN, l.ch)
	case ')':
		tok = newToken(PAREN_CLOSE, l.ch)
	case '=':
		tok = newToken(EQUALS, l.ch)
	case ';':
		tok = newToken(SEMICOLON, l.ch)
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: NOT_EQUAL, Literal: "!="}
		} else {
			tok = newToken(ILLEGAL, l.ch)
		}
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = Token{Type: LESS_EQUAL, Literal: "<="}
		case '>':
			l.readChar()
			tok = Token{Type: NOT_EQUAL, Literal: "<>"}
		default:
			tok = newToken(LESS_THAN, l.ch)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: GREATER_EQUAL, Literal: ">="}
		} else {
			tok = newToken(GREATER_THAN, l.ch)
		}
	case '\'':
		lit, ok := l.readString()
		tok = Token{Type: STRING, Literal: lit}
		if !ok {
			tok = Token{Type: ILLEGAL, Literal: "'" + lit}
		}
		return tok.at(line, col, pos)
	case '$':
		l.readChar()
		if !isDigit(l.ch) {
			return Token{Type: ILLEGAL, Literal: "$"}.at(line, col, pos)
		}
		return Token{Type: PARAM, Literal: l.readDigits()}.at(line, col, pos)
	case '-':
		if !isDigit(l.peekChar()) {
			tok = newToken(ILLEGAL, l.ch)
			break
		}
		l.readChar()
		return Token{Type: NUMBER, Literal: "-" + l.readNumber()}.at(line, col, pos)
	case 0:
		tok.Literal = ""
		tok.Type = EOF
	default:
		if isLetter(l.ch) {
			lit := l.readIdentifier()
			return Token{Type: LookupIdent(lit), Literal: lit}.at(line, col, pos)
		} else if isDigit(l.ch) {
			return Token{Type: NUMBER, Literal: l.readNumber()}.at(line, col, pos)
		} else {
			tok = newToken(ILLEGAL, l.ch)
		}
	}

	l.readChar()
	return tok.at(line, col, pos)
}

func (t Token) at(line, col, pos int) Token {
	t.Line, t.Column, t.Pos = line, col, pos
	return t
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readDigits() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() string {
	position := l.position
	l.readDigits()
	// Support simple floats
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		l.readDigits()
	}
	return l.input[position:l.position]
}

// readString consumes a quoted string. A doubled quote inside the string
// stands for one quote. ok is false when the input ends before the
// closing quote.
func (l *Lexer) readString() (string, bool) {
	var b strings.Builder
	for {
		l.readChar()
		switch {
		case l.ch == 0 && l.position >= len(l.input):
			return b.String(), false
		case l.ch == '\'' && l.peekChar() == '\'':
			b.WriteByte('\'')
			l.readChar()
		case l.ch == '\'':
			l.readChar()
			return b.String(), true
		default:
			b.WriteByte(l.ch)
		}
	}
}

func newToken(tokenType TokenType, ch byte) Token {
	return Token{Type: tokenType, Literal: string(ch)}
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[strings.ToUpper(ident)]; ok {
		return tok
	}
	return IDENTIFIER
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// Tokenize lexes the entire input at once
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
		if tok.Type == ILLEGAL {
			if strings.HasPrefix(tok.Literal, "'") {
				return nil, fmt.Errorf("unterminated string at line %d, col %d", tok.Line, tok.Column)
			}
			return nil, fmt.Errorf("illegal token at line %d, col %d: %s", tok.Line, tok.Column, tok.Literal)
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}
