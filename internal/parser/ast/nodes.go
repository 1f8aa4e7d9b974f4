package ast

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Node is the base interface for all AST nodes
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement represents a standalone command (SELECT, INSERT, etc.)
type Statement interface {
	Node
	statementNode()
}

// Expression represents a WHERE clause or one of its parts
type Expression interface {
	Node
	expressionNode()
}

// Identifier represents an index, column or type name
type Identifier struct {
	TokenLiteralValue string // The token literal (e.g. "users")
	Value             string // The value (e.g. "users")
}

func (i *Identifier) TokenLiteral() string { return i.TokenLiteralValue }
func (i *Identifier) String() string       { return i.Value }

// LiteralKind tells which Go type Literal.Value holds
type LiteralKind int

const (
	StringLiteral LiteralKind = iota // string
	IntLiteral                       // int64
	FloatLiteral                     // float64
	BoolLiteral                      // bool
	NullLiteral                      // nil
)

// Literal represents a fixed value
type Literal struct {
	TokenLiteralValue string
	Value             any
	Kind              LiteralKind
}

func (l *Literal) TokenLiteral() string { return l.TokenLiteralValue }
func (l *Literal) String() string {
	if l.Kind == StringLiteral {
		return "'" + strings.ReplaceAll(l.TokenLiteralValue, "'", "''") + "'"
	}
	return l.TokenLiteralValue
}

// ColumnRef is a 1-based positional reference ($2) or a column name
type ColumnRef struct {
	Ordinal int // 1-based; 0 when referenced by name
	Name    string
}

func (c *ColumnRef) TokenLiteral() string { return c.String() }
func (c *ColumnRef) String() string {
	if c.Name != "" {
		return c.Name
	}
	return "$" + strconv.Itoa(c.Ordinal)
}

// BinaryExpression: Column Operator Literal (e.g. age >= 18)
type BinaryExpression struct {
	Left     *ColumnRef
	Operator string
	Right    *Literal
}

func (e *BinaryExpression) expressionNode()      {}
func (e *BinaryExpression) TokenLiteral() string { return e.Operator }
func (e *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Operator, e.Right)
}

// LogicalExpression: Left AND|OR Right
type LogicalExpression struct {
	Left     Expression
	Operator string // "AND" or "OR"
	Right    Expression
}

func (e *LogicalExpression) expressionNode()      {}
func (e *LogicalExpression) TokenLiteral() string { return e.Operator }
func (e *LogicalExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Operator, e.Right)
}

// InExpression: Column IN (lit, lit, ...)
type InExpression struct {
	Column *ColumnRef
	Values []*Literal
}

func (e *InExpression) expressionNode()      {}
func (e *InExpression) TokenLiteral() string { return "IN" }
func (e *InExpression) String() string {
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = v.String()
	}
	return fmt.Sprintf("(%s IN (%s))", e.Column, strings.Join(parts, ", "))
}

// LikeExpression: Column LIKE 'pattern'
type LikeExpression struct {
	Column  *ColumnRef
	Pattern string
}

func (e *LikeExpression) expressionNode()      {}
func (e *LikeExpression) TokenLiteral() string { return "LIKE" }
func (e *LikeExpression) String() string {
	return fmt.Sprintf("(%s LIKE '%s')", e.Column, e.Pattern)
}

// IsNullExpression: Column IS NULL
type IsNullExpression struct {
	Column *ColumnRef
}

func (e *IsNullExpression) expressionNode()      {}
func (e *IsNullExpression) TokenLiteral() string { return "IS" }
func (e *IsNullExpression) String() string {
	return fmt.Sprintf("(%s IS NULL)", e.Column)
}

// ColumnDefinition is one entry of a CREATE INDEX column list. Name is
// empty for positional indexes.
type ColumnDefinition struct {
	Name string
	Type string
}

// CreateIndexStatement: CREATE [UNIQUE] INDEX name (col TYPE, ...)
type CreateIndexStatement struct {
	Name    *Identifier
	Unique  bool
	Columns []ColumnDefinition
}

func (s *CreateIndexStatement) statementNode()       {}
func (s *CreateIndexStatement) TokenLiteral() string { return "CREATE" }
func (s *CreateIndexStatement) String() string {
	var out bytes.Buffer
	out.WriteString("CREATE ")
	if s.Unique {
		out.WriteString("UNIQUE ")
	}
	out.WriteString("INDEX ")
	out.WriteString(s.Name.String())
	out.WriteString(" (")
	for i, c := range s.Columns {
		if i > 0 {
			out.WriteString(", ")
		}
		if c.Name != "" {
			out.WriteString(c.Name)
			out.WriteString(" ")
		}
		out.WriteString(c.Type)
	}
	out.WriteString(")")
	return out.String()
}

// DropIndexStatement: DROP INDEX name
type DropIndexStatement struct {
	Name *Identifier
}

func (s *DropIndexStatement) statementNode()       {}
func (s *DropIndexStatement) TokenLiteral() string { return "DROP" }
func (s *DropIndexStatement) String() string       { return "DROP INDEX " + s.Name.String() }

// ShowIndexesStatement: SHOW INDEXES
type ShowIndexesStatement struct{}

func (s *ShowIndexesStatement) statementNode()       {}
func (s *ShowIndexesStatement) TokenLiteral() string { return "SHOW" }
func (s *ShowIndexesStatement) String() string       { return "SHOW INDEXES" }

// InsertStatement: INSERT INTO name ID 'id' VALUES (lit, ...)
type InsertStatement struct {
	Index  *Identifier
	ID     string
	Values []*Literal
}

func (s *InsertStatement) statementNode()       {}
func (s *InsertStatement) TokenLiteral() string { return "INSERT" }
func (s *InsertStatement) String() string {
	var out bytes.Buffer
	out.WriteString("INSERT INTO ")
	out.WriteString(s.Index.String())
	out.WriteString(" ID '")
	out.WriteString(s.ID)
	out.WriteString("' VALUES (")
	for i, v := range s.Values {
		out.WriteString(v.String())
		if i < len(s.Values)-1 {
			out.WriteString(", ")
		}
	}
	out.WriteString(")")
	return out.String()
}

// DeleteStatement: DELETE FROM name ID 'id'
type DeleteStatement struct {
	Index *Identifier
	ID    string
}

func (s *DeleteStatement) statementNode()       {}
func (s *DeleteStatement) TokenLiteral() string { return "DELETE" }
func (s *DeleteStatement) String() string {
	return fmt.Sprintf("DELETE FROM %s ID '%s'", s.Index, s.ID)
}

// Assignment is one field = 'text' pair of a SET statement
type Assignment struct {
	Field string
	Value *Literal
}

// SetStatement: SET name ID 'id' (field = 'text', ...)
// It re-indexes a record from its raw field values.
type SetStatement struct {
	Index  *Identifier
	ID     string
	Fields []Assignment
}

func (s *SetStatement) statementNode()       {}
func (s *SetStatement) TokenLiteral() string { return "SET" }
func (s *SetStatement) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.Field + " = " + f.Value.String()
	}
	return fmt.Sprintf("SET %s ID '%s' (%s)", s.Index, s.ID, strings.Join(parts, ", "))
}

// SelectStatement: SELECT FROM name [WHERE expr] [LIMIT n]
type SelectStatement struct {
	Index *Identifier
	Where Expression // nil selects everything
	Limit int        // 0 means no limit
}

func (s *SelectStatement) statementNode()       {}
func (s *SelectStatement) TokenLiteral() string { return "SELECT" }
func (s *SelectStatement) String() string {
	var out bytes.Buffer
	out.WriteString("SELECT FROM ")
	out.WriteString(s.Index.String())
	if s.Where != nil {
		out.WriteString(" WHERE ")
		out.WriteString(s.Where.String())
	}
	if s.Limit > 0 {
		out.WriteString(" LIMIT ")
		out.WriteString(strconv.Itoa(s.Limit))
	}
	return out.String()
}

// CountStatement: COUNT name
type CountStatement struct {
	Index *Identifier
}

func (s *CountStatement) statementNode()       {}
func (s *CountStatement) TokenLiteral() string { return "COUNT" }
func (s *CountStatement) String() string       { return "COUNT " + s.Index.String() }

// ExplainStatement: EXPLAIN SELECT ...
type ExplainStatement struct {
	Select *SelectStatement
}

func (s *ExplainStatement) statementNode()       {}
func (s *ExplainStatement) TokenLiteral() string { return "EXPLAIN" }
func (s *ExplainStatement) String() string       { return "EXPLAIN " + s.Select.String() }

// SaveStatement: SAVE name
type SaveStatement struct {
	Index *Identifier
}

func (s *SaveStatement) statementNode()       {}
func (s *SaveStatement) TokenLiteral() string { return "SAVE" }
func (s *SaveStatement) String() string       { return "SAVE " + s.Index.String() }

// LoadStatement: LOAD name
type LoadStatement struct {
	Index *Identifier
}

func (s *LoadStatement) statementNode()       {}
func (s *LoadStatement) TokenLiteral() string { return "LOAD" }
func (s *LoadStatement) String() string       { return "LOAD " + s.Index.String() }
