package ast

import "github.com/lhaig/coffeemaker/internal/lexer"

// Node is the base interface for all syntax tree nodes
type Node interface {
	Pos() (line, col int)
}

// Statement nodes
type Statement interface {
	Node
	stmtNode()
}

// Expression nodes
type Expression interface {
	Node
	exprNode()
}

// Program represents a whole CoffeeMaker source file
type Program struct {
	Statements []Statement
}

func (p *Program) Pos() (int, int) {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return 1, 1
}

// TypeRef represents a written type keyword such as regular or decaf
type TypeRef struct {
	Kind   lexer.TokenType // INT_TYPE, FLOAT_TYPE, STRING_TYPE, BOOL_TYPE or VOID_TYPE
	Name   string          // the spelling used in source
	Line   int
	Column int
}

func (t *TypeRef) Pos() (int, int) { return t.Line, t.Column }

// Param represents a function, method or constructor parameter.
// A nil Type means the parameter is untyped.
type Param struct {
	Name   string
	Type   *TypeRef
	Line   int
	Column int
}

func (p *Param) Pos() (int, int) { return p.Line, p.Column }

// --- Declarations ---

// VarDecl represents `Type name = value`
type VarDecl struct {
	Type   *TypeRef
	Name   string
	Value  Expression
	Line   int
	Column int
}

func (v *VarDecl) Pos() (int, int) { return v.Line, v.Column }
func (v *VarDecl) stmtNode()       {}

// FunctionDecl represents `cup Type name -> (params) { body }`
type FunctionDecl struct {
	Name       string
	ReturnType *TypeRef
	Params     []*Param
	Body       *Block
	Line       int
	Column     int
}

func (f *FunctionDecl) Pos() (int, int) { return f.Line, f.Column }
func (f *FunctionDecl) stmtNode()       {}

// ClassDecl represents `keurig Name { create(...) {...} methods }`
type ClassDecl struct {
	Name        string
	Constructor *ConstructorDecl
	Methods     []*MethodDecl
	Line        int
	Column      int
}

func (c *ClassDecl) Pos() (int, int) { return c.Line, c.Column }
func (c *ClassDecl) stmtNode()       {}

// ConstructorDecl represents `create(self, params) { this.f = e ... }`.
// Params excludes the leading self.
type ConstructorDecl struct {
	Params []*Param
	Fields []*FieldAssign
	Line   int
	Column int
}

func (c *ConstructorDecl) Pos() (int, int) { return c.Line, c.Column }

// FieldAssign represents `this.field = value` inside a constructor
type FieldAssign struct {
	Field  string
	Value  Expression
	Line   int
	Column int
}

func (f *FieldAssign) Pos() (int, int) { return f.Line, f.Column }

// MethodDecl represents `cup Type name -> (self, params) { body }`.
// Params excludes the leading self.
type MethodDecl struct {
	Name       string
	ReturnType *TypeRef
	Params     []*Param
	Body       *Block
	Line       int
	Column     int
}

func (m *MethodDecl) Pos() (int, int) { return m.Line, m.Column }

// --- Statements ---

// Block represents a braced statement list
type Block struct {
	Statements []Statement
	Line       int
	Column     int
}

func (b *Block) Pos() (int, int) { return b.Line, b.Column }
func (b *Block) stmtNode()       {}

// AssignStmt represents `name = value`
type AssignStmt struct {
	Name   string
	Value  Expression
	Line   int
	Column int
}

func (a *AssignStmt) Pos() (int, int) { return a.Line, a.Column }
func (a *AssignStmt) stmtNode()       {}

// IncDecStmt represents `name++` or `name--`
type IncDecStmt struct {
	Name   string
	Op     lexer.TokenType // INC or DEC
	Line   int
	Column int
}

func (i *IncDecStmt) Pos() (int, int) { return i.Line, i.Column }
func (i *IncDecStmt) stmtNode()       {}

// PrintStmt represents `brew value`
type PrintStmt struct {
	Value  Expression
	Line   int
	Column int
}

func (p *PrintStmt) Pos() (int, int) { return p.Line, p.Column }
func (p *PrintStmt) stmtNode()       {}

// ReturnStmt represents `complete value`; Value is nil for a bare return
type ReturnStmt struct {
	Value  Expression
	Line   int
	Column int
}

func (r *ReturnStmt) Pos() (int, int) { return r.Line, r.Column }
func (r *ReturnStmt) stmtNode()       {}

// IfStmt represents an if with an optional else. Else is nil, a *Block, or
// an *IfStmt for else-if chains.
type IfStmt struct {
	Condition Expression
	Then      *Block
	Else      Statement
	Line      int
	Column    int
}

func (i *IfStmt) Pos() (int, int) { return i.Line, i.Column }
func (i *IfStmt) stmtNode()       {}

// WhileStmt represents `while cond { body }`
type WhileStmt struct {
	Condition Expression
	Body      *Block
	Line      int
	Column    int
}

func (w *WhileStmt) Pos() (int, int) { return w.Line, w.Column }
func (w *WhileStmt) stmtNode()       {}

// ExprStmt wraps a call used as a statement
type ExprStmt struct {
	Expr   Expression
	Line   int
	Column int
}

func (e *ExprStmt) Pos() (int, int) { return e.Line, e.Column }
func (e *ExprStmt) stmtNode()       {}

// --- Expressions ---

// BinaryExpr represents `left op right`
type BinaryExpr struct {
	Left   Expression
	Op     lexer.TokenType
	Right  Expression
	Line   int
	Column int
}

func (b *BinaryExpr) Pos() (int, int) { return b.Line, b.Column }
func (b *BinaryExpr) exprNode()       {}

// UnaryExpr represents `-operand` or `!operand`
type UnaryExpr struct {
	Op      lexer.TokenType
	Operand Expression
	Line    int
	Column  int
}

func (u *UnaryExpr) Pos() (int, int) { return u.Line, u.Column }
func (u *UnaryExpr) exprNode()       {}

// ConditionalExpr represents `cond ? then : else`
type ConditionalExpr struct {
	Condition Expression
	Then      Expression
	Else      Expression
	Line      int
	Column    int
}

func (c *ConditionalExpr) Pos() (int, int) { return c.Line, c.Column }
func (c *ConditionalExpr) exprNode()       {}

// CallExpr represents `name(args)`
type CallExpr struct {
	Function string
	Args     []Expression
	Line     int
	Column   int
}

func (c *CallExpr) Pos() (int, int) { return c.Line, c.Column }
func (c *CallExpr) exprNode()       {}

// Identifier represents a name reference; `self` parses as an Identifier too
type Identifier struct {
	Name   string
	Line   int
	Column int
}

func (i *Identifier) Pos() (int, int) { return i.Line, i.Column }
func (i *Identifier) exprNode()       {}

// IntLit represents an integer literal in its source spelling
type IntLit struct {
	Value  string
	Line   int
	Column int
}

func (i *IntLit) Pos() (int, int) { return i.Line, i.Column }
func (i *IntLit) exprNode()       {}

// FloatLit represents a float literal in its source spelling
type FloatLit struct {
	Value  string
	Line   int
	Column int
}

func (f *FloatLit) Pos() (int, int) { return f.Line, f.Column }
func (f *FloatLit) exprNode()       {}

// StringLit represents a string literal; Value is already unescaped
type StringLit struct {
	Value  string
	Line   int
	Column int
}

func (s *StringLit) Pos() (int, int) { return s.Line, s.Column }
func (s *StringLit) exprNode()       {}

// BoolLit represents true or false
type BoolLit struct {
	Value  bool
	Line   int
	Column int
}

func (b *BoolLit) Pos() (int, int) { return b.Line, b.Column }
func (b *BoolLit) exprNode()       {}
