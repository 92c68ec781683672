// Package optimizer rewrites a typed program into a smaller equivalent one.
// Every rewrite builds fresh nodes; symbols and literals are shared with the
// input, so the input tree is never modified.
package optimizer

import (
	"github.com/lhaig/coffeemaker/internal/ir"
)

// Optimize returns an optimized copy of prog. Optimizing the result again
// yields an identical tree.
func Optimize(prog *ir.Program) *ir.Program {
	return &ir.Program{Statements: optimizeStmts(prog.Statements)}
}

// optimizeStmts rewrites a statement list, splicing in whatever each
// statement collapses to.
func optimizeStmts(stmts []ir.Stmt) []ir.Stmt {
	out := make([]ir.Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, optimizeStmt(s)...)
	}
	return out
}

func optimizeStmt(stmt ir.Stmt) []ir.Stmt {
	switch s := stmt.(type) {
	case *ir.VariableDeclaration:
		return one(&ir.VariableDeclaration{Variable: s.Variable, Initializer: optimizeExpr(s.Initializer)})

	case *ir.FunctionDeclaration:
		return one(&ir.FunctionDeclaration{Function: s.Function, Params: s.Params, Body: optimizeStmts(s.Body)})

	case *ir.ClassDeclaration:
		return one(optimizeClass(s))

	case *ir.Assignment:
		source := optimizeExpr(s.Source)
		if v, ok := source.(*ir.Variable); ok && v == s.Target {
			return nil
		}
		return one(&ir.Assignment{Target: s.Target, Source: source})

	case *ir.PrintStatement:
		return one(&ir.PrintStatement{Argument: optimizeExpr(s.Argument)})

	case *ir.WhileStatement:
		test := optimizeExpr(s.Test)
		if b, ok := test.(ir.BoolLit); ok && !b.Value {
			return nil
		}
		return one(&ir.WhileStatement{Test: test, Body: optimizeStmts(s.Body)})

	case *ir.IfStatement:
		return optimizeIf(s)

	case *ir.ShortIfStatement:
		test := optimizeExpr(s.Test)
		if b, ok := test.(ir.BoolLit); ok {
			if b.Value {
				return optimizeStmts(s.Consequent)
			}
			return nil
		}
		return one(&ir.ShortIfStatement{Test: test, Consequent: optimizeStmts(s.Consequent)})

	case *ir.ReturnStatement:
		if s.Expression == nil {
			return one(&ir.ReturnStatement{})
		}
		return one(&ir.ReturnStatement{Expression: optimizeExpr(s.Expression)})

	case *ir.Increment:
		return one(&ir.Increment{Variable: s.Variable})

	case *ir.Decrement:
		return one(&ir.Decrement{Variable: s.Variable})

	case *ir.CallStatement:
		return one(&ir.CallStatement{Call: optimizeCall(s.Call)})
	}
	return one(stmt)
}

func one(s ir.Stmt) []ir.Stmt {
	return []ir.Stmt{s}
}

func optimizeClass(s *ir.ClassDeclaration) *ir.ClassDeclaration {
	ctor := &ir.ConstructorDeclaration{
		Constructor: s.Constructor.Constructor,
		Params:      s.Constructor.Params,
	}
	for _, fa := range s.Constructor.Body {
		ctor.Body = append(ctor.Body, &ir.FieldAssignment{Field: fa.Field, Source: optimizeExpr(fa.Source)})
	}

	out := &ir.ClassDeclaration{Class: s.Class, Constructor: ctor}
	for _, m := range s.Methods {
		out.Methods = append(out.Methods, &ir.MethodDeclaration{
			Function: m.Function,
			Receiver: m.Receiver,
			Params:   m.Params,
			Body:     optimizeStmts(m.Body),
		})
	}
	return out
}

// optimizeIf collapses an if with a literal test to the taken branch.
// Otherwise an else-if alternate stays a chain link when it still is a
// single if, and an alternate that vanished turns the statement into a
// ShortIfStatement.
func optimizeIf(s *ir.IfStatement) []ir.Stmt {
	test := optimizeExpr(s.Test)
	if b, ok := test.(ir.BoolLit); ok {
		if b.Value {
			return optimizeStmts(s.Consequent)
		}
		return optimizeAlternate(s.Alternate)
	}

	consequent := optimizeStmts(s.Consequent)
	alt := optimizeAlternate(s.Alternate)
	if len(alt) == 0 {
		return one(&ir.ShortIfStatement{Test: test, Consequent: consequent})
	}

	if _, isBlock := s.Alternate.(*ir.Block); !isBlock && len(alt) == 1 {
		switch next := alt[0].(type) {
		case *ir.IfStatement:
			return one(&ir.IfStatement{Test: test, Consequent: consequent, Alternate: next})
		case *ir.ShortIfStatement:
			return one(&ir.IfStatement{Test: test, Consequent: consequent, Alternate: next})
		}
	}
	return one(&ir.IfStatement{Test: test, Consequent: consequent, Alternate: &ir.Block{Statements: alt}})
}

func optimizeAlternate(alt ir.Alternate) []ir.Stmt {
	switch a := alt.(type) {
	case *ir.Block:
		return optimizeStmts(a.Statements)
	case *ir.IfStatement:
		return optimizeStmt(a)
	case *ir.ShortIfStatement:
		return optimizeStmt(a)
	}
	return nil
}

func optimizeExpr(expr ir.Expr) ir.Expr {
	switch e := expr.(type) {
	case *ir.BinaryExpression:
		return optimizeBinary(e)
	case *ir.UnaryExpression:
		return optimizeUnary(e)
	case *ir.Conditional:
		test := optimizeExpr(e.Test)
		consequent := optimizeExpr(e.Consequent)
		alternate := optimizeExpr(e.Alternate)
		if b, ok := test.(ir.BoolLit); ok {
			if b.Value {
				return consequent
			}
			return alternate
		}
		return &ir.Conditional{Test: test, Consequent: consequent, Alternate: alternate, Type: e.Type}
	case *ir.FunctionCall:
		return optimizeCall(e)
	}
	// Variables, functions and literals.
	return expr
}

func optimizeCall(call *ir.FunctionCall) *ir.FunctionCall {
	args := make([]ir.Expr, len(call.Args))
	for i, arg := range call.Args {
		args[i] = optimizeExpr(arg)
	}
	return &ir.FunctionCall{Callee: call.Callee, Args: args, Type: call.Type}
}
