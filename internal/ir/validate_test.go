package ir

import (
	"strings"
	"testing"

	"github.com/lhaig/coffeemaker/internal/lexer"
	"github.com/lhaig/coffeemaker/internal/types"
	"github.com/nalgeon/be"
)

func containsMessage(errors []string, want string) bool {
	for _, err := range errors {
		if strings.Contains(err, want) {
			return true
		}
	}
	return false
}

func TestValidateValidProgram(t *testing.T) {
	x := &Variable{Name: "x", Type: types.Int}
	n := &Variable{Name: "n", ReadOnly: true, Type: types.Int}
	double := &Function{Name: "double", Type: types.Function([]*types.Type{types.Int}, types.Int)}

	prog := &Program{Statements: []Stmt{
		&VariableDeclaration{Variable: x, Initializer: IntLit{Value: 1}},
		&FunctionDeclaration{
			Function: double,
			Params:   []*Variable{n},
			Body: []Stmt{
				&ReturnStatement{Expression: &BinaryExpression{Op: lexer.STAR, Left: n, Right: IntLit{Value: 2}, Type: types.Int}},
			},
		},
		&Assignment{Target: x, Source: &FunctionCall{Callee: double, Args: []Expr{x}, Type: types.Int}},
		&IfStatement{
			Test:       &BinaryExpression{Op: lexer.LT, Left: x, Right: IntLit{Value: 3}, Type: types.Boolean},
			Consequent: []Stmt{&Increment{Variable: x}},
			Alternate:  &ShortIfStatement{Test: BoolLit{Value: true}, Consequent: []Stmt{&PrintStatement{Argument: Pi}}},
		},
	}}

	errors := Validate(prog)
	be.Equal(t, len(errors), 0)
}

func TestValidateUntypedExpression(t *testing.T) {
	prog := &Program{Statements: []Stmt{
		&PrintStatement{Argument: &BinaryExpression{Op: lexer.PLUS, Left: IntLit{Value: 1}, Right: IntLit{Value: 2}}},
	}}

	errors := Validate(prog)
	be.True(t, containsMessage(errors, "program statement 0: *ir.BinaryExpression has nil type"))
}

func TestValidateArity(t *testing.T) {
	call := &FunctionCall{Callee: Hypot, Args: []Expr{FloatLit{Value: 3}}, Type: types.Float}
	errors := Validate(&Program{Statements: []Stmt{&PrintStatement{Argument: call}}})
	be.True(t, containsMessage(errors, "call to hypot has 1 args, want 2"))
}

func TestValidateReadOnlyAssignment(t *testing.T) {
	errors := Validate(&Program{Statements: []Stmt{&Assignment{Target: Pi, Source: FloatLit{Value: 3}}}})
	be.True(t, containsMessage(errors, "Assignment to read-only π"))
}

func TestValidateMissingAlternate(t *testing.T) {
	errors := Validate(&Program{Statements: []Stmt{
		&IfStatement{Test: BoolLit{Value: true}},
	}})
	be.True(t, containsMessage(errors, "IfStatement has alternate <nil>"))
}

func TestValidateMethodReceiver(t *testing.T) {
	greet := &Function{Name: "greet", Type: types.Function(nil, types.Void), Method: true}
	class := &ClassDeclaration{
		Class: &Class{Name: "Cup"},
		Constructor: &ConstructorDeclaration{
			Constructor: &Constructor{Name: "Cup", ParamCount: 0},
		},
		Methods: []*MethodDeclaration{{Function: greet}},
	}

	errors := Validate(&Program{Statements: []Stmt{class}})
	be.True(t, containsMessage(errors, "method greet has no receiver"))
}
