package optimizer

import (
	"math"
	"testing"

	"github.com/lhaig/coffeemaker/internal/analyzer"
	"github.com/lhaig/coffeemaker/internal/ir"
	"github.com/lhaig/coffeemaker/internal/lexer"
	"github.com/lhaig/coffeemaker/internal/types"
	"github.com/nalgeon/be"
)

func analyze(t *testing.T, input string) *ir.Program {
	t.Helper()
	prog, err := analyzer.Analyze(input)
	if err != nil {
		t.Fatalf("analyze %q: %v", input, err)
	}
	return prog
}

func intVar(name string) *ir.Variable {
	return &ir.Variable{Name: name, Type: types.Int}
}

func TestLiteralIfCollapses(t *testing.T) {
	a := intVar("a")
	tests := []struct {
		name string
		test bool
		want ir.Stmt
	}{
		{"true takes consequent", true, &ir.Increment{Variable: a}},
		{"false takes alternate", false, &ir.Decrement{Variable: a}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := &ir.Program{Statements: []ir.Stmt{
				&ir.IfStatement{
					Test:       ir.BoolLit{Value: tt.test},
					Consequent: []ir.Stmt{&ir.Increment{Variable: a}},
					Alternate:  &ir.Block{Statements: []ir.Stmt{&ir.Decrement{Variable: a}}},
				},
			}}
			got := Optimize(prog)
			be.Equal(t, got.Statements, []ir.Stmt{tt.want})
		})
	}
}

func TestSelfAssignmentRemoved(t *testing.T) {
	x := intVar("x")
	prog := &ir.Program{Statements: []ir.Stmt{
		&ir.Assignment{Target: x, Source: x},
		&ir.Increment{Variable: x},
	}}
	got := Optimize(prog)
	be.Equal(t, got.Statements, []ir.Stmt{&ir.Increment{Variable: x}})
}

func TestSelfAssignmentAfterSimplification(t *testing.T) {
	prog := analyze(t, `regular x = 1; x = x + 0; x = x * 1; brew x`)
	got := Optimize(prog)
	be.Equal(t, len(got.Statements), 2)
	_, ok := got.Statements[1].(*ir.PrintStatement)
	be.True(t, ok)
}

func TestPrintFoldsToLiteral(t *testing.T) {
	got := Optimize(analyze(t, `print(1 + 3);`))
	be.Equal(t, got.Statements, []ir.Stmt{&ir.PrintStatement{Argument: ir.IntLit{Value: 4}}})
}

func TestConstantFolding(t *testing.T) {
	tests := []struct {
		op    lexer.TokenType
		left  ir.Expr
		right ir.Expr
		want  ir.Expr
	}{
		{lexer.PLUS, ir.IntLit{Value: 2}, ir.IntLit{Value: 3}, ir.IntLit{Value: 5}},
		{lexer.MINUS, ir.IntLit{Value: 2}, ir.IntLit{Value: 3}, ir.IntLit{Value: -1}},
		{lexer.STAR, ir.IntLit{Value: 4}, ir.IntLit{Value: 3}, ir.IntLit{Value: 12}},
		{lexer.SLASH, ir.IntLit{Value: 12}, ir.IntLit{Value: 4}, ir.IntLit{Value: 3}},
		{lexer.PERCENT, ir.IntLit{Value: 7}, ir.IntLit{Value: 4}, ir.IntLit{Value: 3}},
		{lexer.POW, ir.IntLit{Value: 2}, ir.IntLit{Value: 10}, ir.IntLit{Value: 1024}},
		{lexer.LT, ir.IntLit{Value: 2}, ir.IntLit{Value: 3}, ir.BoolLit{Value: true}},
		{lexer.LEQ, ir.IntLit{Value: 3}, ir.IntLit{Value: 3}, ir.BoolLit{Value: true}},
		{lexer.EQ, ir.IntLit{Value: 2}, ir.IntLit{Value: 3}, ir.BoolLit{Value: false}},
		{lexer.NEQ, ir.IntLit{Value: 2}, ir.IntLit{Value: 3}, ir.BoolLit{Value: true}},
		{lexer.GEQ, ir.IntLit{Value: 2}, ir.IntLit{Value: 3}, ir.BoolLit{Value: false}},
		{lexer.GT, ir.IntLit{Value: 4}, ir.IntLit{Value: 3}, ir.BoolLit{Value: true}},
		{lexer.PLUS, ir.FloatLit{Value: 1.5}, ir.FloatLit{Value: 2.25}, ir.FloatLit{Value: 3.75}},
		{lexer.SLASH, ir.FloatLit{Value: 1}, ir.FloatLit{Value: 4}, ir.FloatLit{Value: 0.25}},
		{lexer.POW, ir.FloatLit{Value: 2}, ir.FloatLit{Value: 0.5}, ir.FloatLit{Value: math.Sqrt2}},
		{lexer.LT, ir.FloatLit{Value: 2.5}, ir.FloatLit{Value: 2}, ir.BoolLit{Value: false}},
		{lexer.POW, ir.IntLit{Value: 2}, ir.IntLit{Value: 52}, ir.IntLit{Value: 1 << 52}},
		{lexer.POW, ir.IntLit{Value: -1}, ir.IntLit{Value: 1 << 40}, ir.IntLit{Value: 1}},
		{lexer.POW, ir.IntLit{Value: 0}, ir.IntLit{Value: 0}, ir.IntLit{Value: 1}},
		{lexer.STAR, ir.IntLit{Value: 94906265}, ir.IntLit{Value: -94906265}, ir.IntLit{Value: -9007199136250225}},
		{lexer.STAR, ir.FloatLit{Value: 1e308}, ir.FloatLit{Value: 10}, ir.FloatLit{Value: math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.op.Symbol(), func(t *testing.T) {
			typ := tt.left.ExprType()
			if _, ok := tt.want.(ir.BoolLit); ok {
				typ = types.Boolean
			}
			got := optimizeExpr(&ir.BinaryExpression{Op: tt.op, Left: tt.left, Right: tt.right, Type: typ})
			be.Equal(t, got, tt.want)
		})
	}
}

func TestUnfoldableLiterals(t *testing.T) {
	tests := []struct {
		name  string
		op    lexer.TokenType
		left  ir.Expr
		right ir.Expr
	}{
		{"inexact int division", lexer.SLASH, ir.IntLit{Value: 7}, ir.IntLit{Value: 2}},
		{"int division by zero", lexer.SLASH, ir.IntLit{Value: 0}, ir.IntLit{Value: 0}},
		{"int remainder by zero", lexer.PERCENT, ir.IntLit{Value: 5}, ir.IntLit{Value: 0}},
		{"negative int exponent", lexer.POW, ir.IntLit{Value: 2}, ir.IntLit{Value: -1}},
		{"float division by zero", lexer.SLASH, ir.FloatLit{Value: 1}, ir.FloatLit{Value: 0}},
		{"product beyond safe integers", lexer.STAR, ir.IntLit{Value: 3037000500}, ir.IntLit{Value: 3037000500}},
		{"product overflowing int64", lexer.STAR, ir.IntLit{Value: math.MaxInt64}, ir.IntLit{Value: 2}},
		{"power beyond safe integers", lexer.POW, ir.IntLit{Value: 2}, ir.IntLit{Value: 64}},
		{"odd power beyond safe integers", lexer.POW, ir.IntLit{Value: -3}, ir.IntLit{Value: 35}},
		{"sum beyond safe integers", lexer.PLUS, ir.IntLit{Value: 1 << 52}, ir.IntLit{Value: 1 << 52}},
		{"power reaching 2**53", lexer.POW, ir.IntLit{Value: 2}, ir.IntLit{Value: 53}},
		{"difference beyond safe integers", lexer.MINUS, ir.IntLit{Value: -(1 << 53) + 1}, ir.IntLit{Value: 2}},
		{"unsafe operand", lexer.EQ, ir.IntLit{Value: 1<<53 + 1}, ir.IntLit{Value: 1 << 53}},
		{"min int division", lexer.SLASH, ir.IntLit{Value: math.MinInt64}, ir.IntLit{Value: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &ir.BinaryExpression{Op: tt.op, Left: tt.left, Right: tt.right, Type: tt.left.ExprType()}
			got := optimizeExpr(in)
			be.Equal(t, got, ir.Expr(&ir.BinaryExpression{Op: tt.op, Left: tt.left, Right: tt.right, Type: tt.left.ExprType()}))
			be.True(t, got != ir.Expr(in))
		})
	}
}

func TestFoldedIntegersMatchUnfolded(t *testing.T) {
	prog := Optimize(analyze(t, "regular a = 3037000500\nbrew a * a\nbrew 3037000500 * 3037000500\nbrew 2 ** 64\nbrew 2 ** 51 * 2"))
	for _, stmt := range prog.Statements[1:3] {
		_, folded := stmt.(*ir.PrintStatement).Argument.(ir.IntLit)
		be.True(t, !folded)
	}
	_, folded := prog.Statements[3].(*ir.PrintStatement).Argument.(ir.IntLit)
	be.True(t, !folded)
	be.Equal(t, prog.Statements[4].(*ir.PrintStatement).Argument, ir.Expr(ir.IntLit{Value: 1 << 52}))
}

func TestIdentities(t *testing.T) {
	x := intVar("x")
	f := &ir.Variable{Name: "f", Type: types.Float}
	b := &ir.Variable{Name: "b", Type: types.Boolean}
	zero, one := ir.IntLit{Value: 0}, ir.IntLit{Value: 1}

	bin := func(op lexer.TokenType, l, r ir.Expr, t *types.Type) ir.Expr {
		return &ir.BinaryExpression{Op: op, Left: l, Right: r, Type: t}
	}

	tests := []struct {
		name string
		in   ir.Expr
		want ir.Expr
	}{
		{"x+0", bin(lexer.PLUS, x, zero, types.Int), x},
		{"0+x", bin(lexer.PLUS, zero, x, types.Int), x},
		{"x-0", bin(lexer.MINUS, x, zero, types.Int), x},
		{"0-x", bin(lexer.MINUS, zero, x, types.Int), &ir.UnaryExpression{Op: lexer.MINUS, Operand: x, Type: types.Int}},
		{"x*1", bin(lexer.STAR, x, one, types.Int), x},
		{"1*x", bin(lexer.STAR, one, x, types.Int), x},
		{"x/1", bin(lexer.SLASH, x, one, types.Int), x},
		{"x*0", bin(lexer.STAR, x, zero, types.Int), zero},
		{"0*x", bin(lexer.STAR, zero, x, types.Int), zero},
		{"0/x", bin(lexer.SLASH, zero, x, types.Int), zero},
		{"f*0.0", bin(lexer.STAR, f, ir.FloatLit{Value: 0}, types.Float), ir.FloatLit{Value: 0}},
		{"x**0", bin(lexer.POW, x, zero, types.Int), one},
		{"1**x", bin(lexer.POW, one, x, types.Int), one},
		{"x**1", bin(lexer.POW, x, one, types.Int), bin(lexer.POW, x, one, types.Int)},
		{"true&&b", bin(lexer.AND, ir.BoolLit{Value: true}, b, types.Boolean), b},
		{"b&&true", bin(lexer.AND, b, ir.BoolLit{Value: true}, types.Boolean), b},
		{"false||b", bin(lexer.OR, ir.BoolLit{Value: false}, b, types.Boolean), b},
		{"b||false", bin(lexer.OR, b, ir.BoolLit{Value: false}, types.Boolean), b},
		{"-literal", &ir.UnaryExpression{Op: lexer.MINUS, Operand: ir.IntLit{Value: 5}, Type: types.Int}, ir.IntLit{Value: -5}},
		{"!literal", &ir.UnaryExpression{Op: lexer.NOT, Operand: ir.BoolLit{Value: true}, Type: types.Boolean}, ir.BoolLit{Value: false}},
		{"nested", bin(lexer.PLUS, bin(lexer.STAR, x, one, types.Int), bin(lexer.MINUS, one, one, types.Int), types.Int), x},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, optimizeExpr(tt.in), tt.want)
		})
	}
}

func TestWhileFalseRemoved(t *testing.T) {
	got := Optimize(analyze(t, `regular i = 0; while false { i++ } while i < 1 == true { i++ }`))
	be.Equal(t, len(got.Statements), 2)
	loop := got.Statements[1].(*ir.WhileStatement)
	be.Equal(t, len(loop.Body), 1)
}

func TestWhileTrueKept(t *testing.T) {
	got := Optimize(analyze(t, `regular i = 0; while true { i = i + 0 }`))
	loop := got.Statements[1].(*ir.WhileStatement)
	be.Equal(t, loop.Test, ir.Expr(ir.BoolLit{Value: true}))
	be.Equal(t, len(loop.Body), 0)
}

func TestCollapsedBranchSplices(t *testing.T) {
	got := Optimize(analyze(t, `regular a = 0
sugar 1 < 2 { a++; a++; brew a }
brew a`))
	be.Equal(t, len(got.Statements), 5)
}

func TestElseIfChainRewrites(t *testing.T) {
	prog := analyze(t, `regular x = 0
sugar x < 1 { brew 1 } salt 2 < 1 { brew 2 } cream { brew 3 }
sugar x < 1 { brew 1 } salt false { brew 2 }
sugar x < 1 { brew 1 } salt x < 2 { brew 2 } salt true { brew 3 }`)
	got := Optimize(prog)

	// The dead else-if leaves its else branch as a plain block.
	first := got.Statements[1].(*ir.IfStatement)
	block := first.Alternate.(*ir.Block)
	be.Equal(t, len(block.Statements), 1)

	// Nothing left of the alternate.
	_, ok := got.Statements[2].(*ir.ShortIfStatement)
	be.True(t, ok)

	// The inner short if collapses into a block.
	third := got.Statements[3].(*ir.IfStatement)
	inner := third.Alternate.(*ir.IfStatement)
	be.Equal(t, len(inner.Alternate.(*ir.Block).Statements), 1)
}

func TestOptimizeIsIdempotent(t *testing.T) {
	sources := []string{
		`regular x = 3; x = x; x = 0 - x; brew x * 1 + 0`,
		`decaf r = 2.0; brew π * r ** 2.0; brew hypot(3.0 * 1.0, 4.0)`,
		`cup regular f -> (regular n) { sugar true && n > 0 { complete n } cream { complete 0 - n } }`,
		`regular x = 0
sugar x < 1 { brew 1 } salt false { brew 2 } salt x < 3 { brew 3 } cream { brew 4 }
while false || x < 10 { x++ }
brew x > 1 ? 1 + 1 : 2 * 0`,
		`keurig P { create(self, a) { this.a = a
this.b = 2 ** 3 }
cup regular m -> (self) { complete 1 * 0 } }`,
	}
	for _, src := range sources {
		once := Optimize(analyze(t, src))
		twice := Optimize(once)
		be.Equal(t, twice.Statements, once.Statements)
	}
}

func TestOptimizeLeavesInputUntouched(t *testing.T) {
	x := intVar("x")
	sum := &ir.BinaryExpression{Op: lexer.PLUS, Left: ir.IntLit{Value: 1}, Right: ir.IntLit{Value: 2}, Type: types.Int}
	decl := &ir.VariableDeclaration{Variable: x, Initializer: sum}
	prog := &ir.Program{Statements: []ir.Stmt{decl}}

	got := Optimize(prog)

	be.True(t, decl.Initializer == ir.Expr(sum))
	be.Equal(t, sum.Left, ir.Expr(ir.IntLit{Value: 1}))
	out := got.Statements[0].(*ir.VariableDeclaration)
	be.True(t, out != decl)
	be.True(t, out.Variable == x)
	be.Equal(t, out.Initializer, ir.Expr(ir.IntLit{Value: 3}))
}
