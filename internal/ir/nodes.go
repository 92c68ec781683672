// Package ir defines the typed tree produced by semantic analysis. Every
// expression carries a resolved type and every name reference points at the
// symbol it was bound to, so later stages never consult a scope.
package ir

import (
	"github.com/lhaig/coffeemaker/internal/lexer"
	"github.com/lhaig/coffeemaker/internal/types"
)

// Program is the root of the typed tree.
type Program struct {
	Statements []Stmt
}

// --- Symbols ---

// Symbol is anything a scope can bind a name to.
type Symbol interface {
	SymbolName() string
	symbolNode()
}

// Variable is a declared variable, parameter or method receiver.
type Variable struct {
	Name     string
	ReadOnly bool
	Type     *types.Type
	Receiver bool // the implicit self of a method
}

// Function is a declared function or method.
type Function struct {
	Name   string
	Type   *types.Type // always a function type
	Method bool
}

// Class is a declared class. Fields are in first-assignment order.
type Class struct {
	Name   string
	Fields []*Field
}

// Constructor is the single constructor of a class.
type Constructor struct {
	Name       string
	ParamCount int
}

// Field is an instance field introduced by a constructor assignment.
type Field struct {
	Name string
	Type *types.Type
}

func (v *Variable) SymbolName() string    { return v.Name }
func (f *Function) SymbolName() string    { return f.Name }
func (c *Class) SymbolName() string       { return c.Name }
func (c *Constructor) SymbolName() string { return c.Name }
func (f *Field) SymbolName() string       { return f.Name }

func (*Variable) symbolNode()    {}
func (*Function) symbolNode()    {}
func (*Class) symbolNode()       {}
func (*Constructor) symbolNode() {}
func (*Field) symbolNode()       {}

// FieldNamed returns the class field with the given name, or nil.
func (c *Class) FieldNamed(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// --- Statements ---

// Stmt is the closed set of typed statements.
type Stmt interface {
	stmtNode()
}

// VariableDeclaration declares Variable with an initial value.
type VariableDeclaration struct {
	Variable    *Variable
	Initializer Expr
}

// FunctionDeclaration declares Function with its parameters and body.
type FunctionDeclaration struct {
	Function *Function
	Params   []*Variable
	Body     []Stmt
}

// ClassDeclaration declares Class with its constructor and methods.
type ClassDeclaration struct {
	Class       *Class
	Constructor *ConstructorDeclaration
	Methods     []*MethodDeclaration
}

// ConstructorDeclaration binds Params and runs the field assignments.
type ConstructorDeclaration struct {
	Constructor *Constructor
	Params      []*Variable
	Body        []*FieldAssignment
}

// MethodDeclaration is a function declaration scoped to an instance.
type MethodDeclaration struct {
	Function *Function
	Receiver *Variable
	Params   []*Variable
	Body     []Stmt
}

// Assignment stores Source into Target.
type Assignment struct {
	Target *Variable
	Source Expr
}

// FieldAssignment stores Source into a field of the instance under construction.
type FieldAssignment struct {
	Field  *Field
	Source Expr
}

// PrintStatement prints Argument.
type PrintStatement struct {
	Argument Expr
}

// WhileStatement repeats Body while Test holds.
type WhileStatement struct {
	Test Expr
	Body []Stmt
}

// IfStatement has a consequent and an alternate. An else-if chain nests an
// IfStatement or ShortIfStatement as the alternate.
type IfStatement struct {
	Test       Expr
	Consequent []Stmt
	Alternate  Alternate
}

// ShortIfStatement is an if without an else clause.
type ShortIfStatement struct {
	Test       Expr
	Consequent []Stmt
}

// ReturnStatement returns from the enclosing function. Expression is nil
// for a bare return.
type ReturnStatement struct {
	Expression Expr
}

// Increment adds one to Variable.
type Increment struct {
	Variable *Variable
}

// Decrement subtracts one from Variable.
type Decrement struct {
	Variable *Variable
}

// CallStatement evaluates a call for its effects.
type CallStatement struct {
	Call *FunctionCall
}

func (*VariableDeclaration) stmtNode() {}
func (*FunctionDeclaration) stmtNode() {}
func (*ClassDeclaration) stmtNode()    {}
func (*Assignment) stmtNode()          {}
func (*FieldAssignment) stmtNode()     {}
func (*PrintStatement) stmtNode()      {}
func (*WhileStatement) stmtNode()      {}
func (*IfStatement) stmtNode()         {}
func (*ShortIfStatement) stmtNode()    {}
func (*ReturnStatement) stmtNode()     {}
func (*Increment) stmtNode()           {}
func (*Decrement) stmtNode()           {}
func (*CallStatement) stmtNode()       {}

// Alternate is what may follow an else: a plain block or another if.
type Alternate interface {
	alternateNode()
}

// Block is a final else clause.
type Block struct {
	Statements []Stmt
}

func (*Block) alternateNode()            {}
func (*IfStatement) alternateNode()      {}
func (*ShortIfStatement) alternateNode() {}

// --- Expressions ---

// Expr is the closed set of typed expressions.
type Expr interface {
	ExprType() *types.Type
	exprNode()
}

// BinaryExpression applies Op to Left and Right.
type BinaryExpression struct {
	Op    lexer.TokenType
	Left  Expr
	Right Expr
	Type  *types.Type
}

// UnaryExpression applies Op (MINUS or NOT) to Operand.
type UnaryExpression struct {
	Op      lexer.TokenType
	Operand Expr
	Type    *types.Type
}

// Conditional is the ternary test ? consequent : alternate.
type Conditional struct {
	Test       Expr
	Consequent Expr
	Alternate  Expr
	Type       *types.Type
}

// FunctionCall calls Callee with Args.
type FunctionCall struct {
	Callee *Function
	Args   []Expr
	Type   *types.Type
}

// IntLit is an integer literal.
type IntLit struct{ Value int64 }

// FloatLit is a floating-point literal.
type FloatLit struct{ Value float64 }

// StringLit is a string literal holding the decoded text.
type StringLit struct{ Value string }

// BoolLit is a boolean literal.
type BoolLit struct{ Value bool }

func (e *BinaryExpression) ExprType() *types.Type { return e.Type }
func (e *UnaryExpression) ExprType() *types.Type  { return e.Type }
func (e *Conditional) ExprType() *types.Type      { return e.Type }
func (e *FunctionCall) ExprType() *types.Type     { return e.Type }
func (v *Variable) ExprType() *types.Type         { return v.Type }
func (f *Function) ExprType() *types.Type         { return f.Type }
func (IntLit) ExprType() *types.Type              { return types.Int }
func (FloatLit) ExprType() *types.Type            { return types.Float }
func (StringLit) ExprType() *types.Type           { return types.String }
func (BoolLit) ExprType() *types.Type             { return types.Boolean }

func (*BinaryExpression) exprNode() {}
func (*UnaryExpression) exprNode()  {}
func (*Conditional) exprNode()      {}
func (*FunctionCall) exprNode()     {}
func (*Variable) exprNode()         {}
func (*Function) exprNode()         {}
func (IntLit) exprNode()            {}
func (FloatLit) exprNode()          {}
func (StringLit) exprNode()         {}
func (BoolLit) exprNode()           {}
