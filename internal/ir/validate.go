package ir

import (
	"fmt"
)

// Validate checks a typed program for structural correctness and returns a
// list of error messages. An empty slice indicates the program is valid.
// It checks shape only: every expression typed, every reference bound,
// every call matching its callee's arity.
func Validate(prog *Program) []string {
	return validateStmts(prog.Statements, "program")
}

// validateStmts checks statements for nil nodes and other invariants.
func validateStmts(stmts []Stmt, context string) []string {
	var errors []string
	for i, stmt := range stmts {
		errors = append(errors, validateStmt(stmt, fmt.Sprintf("%s statement %d", context, i))...)
	}
	return errors
}

// validateStmt checks a single statement.
func validateStmt(stmt Stmt, context string) []string {
	var errors []string

	switch s := stmt.(type) {
	case *VariableDeclaration:
		if s.Variable == nil || s.Variable.Type == nil {
			errors = append(errors, fmt.Sprintf("%s: VariableDeclaration has no typed variable", context))
		}
		errors = append(errors, validateExpr(s.Initializer, context)...)

	case *FunctionDeclaration:
		errors = append(errors, validateFunction(s.Function, s.Params, context)...)
		errors = append(errors, validateStmts(s.Body, fmt.Sprintf("%s function %s", context, nameOf(s.Function)))...)

	case *ClassDeclaration:
		if s.Class == nil {
			errors = append(errors, fmt.Sprintf("%s: ClassDeclaration has nil Class", context))
			break
		}
		if s.Constructor == nil {
			errors = append(errors, fmt.Sprintf("%s: class %s has no constructor", context, s.Class.Name))
		} else {
			if s.Constructor.Constructor.ParamCount != len(s.Constructor.Params) {
				errors = append(errors, fmt.Sprintf("%s: class %s constructor ParamCount %d, has %d params",
					context, s.Class.Name, s.Constructor.Constructor.ParamCount, len(s.Constructor.Params)))
			}
			for i, fa := range s.Constructor.Body {
				errors = append(errors, validateStmt(fa, fmt.Sprintf("%s constructor statement %d", context, i))...)
			}
		}
		for _, m := range s.Methods {
			if m.Receiver == nil || !m.Receiver.Receiver {
				errors = append(errors, fmt.Sprintf("%s: method %s has no receiver", context, nameOf(m.Function)))
			}
			if m.Function != nil && !m.Function.Method {
				errors = append(errors, fmt.Sprintf("%s: method %s is not marked as a method", context, m.Function.Name))
			}
			errors = append(errors, validateFunction(m.Function, m.Params, context)...)
			errors = append(errors, validateStmts(m.Body, fmt.Sprintf("%s method %s", context, nameOf(m.Function)))...)
		}

	case *Assignment:
		if s.Target == nil {
			errors = append(errors, fmt.Sprintf("%s: Assignment has nil Target", context))
		} else if s.Target.ReadOnly {
			errors = append(errors, fmt.Sprintf("%s: Assignment to read-only %s", context, s.Target.Name))
		}
		errors = append(errors, validateExpr(s.Source, context)...)

	case *FieldAssignment:
		if s.Field == nil {
			errors = append(errors, fmt.Sprintf("%s: FieldAssignment has nil Field", context))
		}
		errors = append(errors, validateExpr(s.Source, context)...)

	case *PrintStatement:
		errors = append(errors, validateExpr(s.Argument, context)...)

	case *WhileStatement:
		errors = append(errors, validateExpr(s.Test, context)...)
		errors = append(errors, validateStmts(s.Body, context+" while body")...)

	case *IfStatement:
		errors = append(errors, validateExpr(s.Test, context)...)
		errors = append(errors, validateStmts(s.Consequent, context+" then")...)
		switch alt := s.Alternate.(type) {
		case *Block:
			errors = append(errors, validateStmts(alt.Statements, context+" else")...)
		case *IfStatement:
			errors = append(errors, validateStmt(alt, context+" else")...)
		case *ShortIfStatement:
			errors = append(errors, validateStmt(alt, context+" else")...)
		default:
			errors = append(errors, fmt.Sprintf("%s: IfStatement has alternate %T", context, s.Alternate))
		}

	case *ShortIfStatement:
		errors = append(errors, validateExpr(s.Test, context)...)
		errors = append(errors, validateStmts(s.Consequent, context+" then")...)

	case *ReturnStatement:
		if s.Expression != nil {
			errors = append(errors, validateExpr(s.Expression, context)...)
		}

	case *Increment:
		if s.Variable == nil {
			errors = append(errors, fmt.Sprintf("%s: Increment has nil Variable", context))
		}

	case *Decrement:
		if s.Variable == nil {
			errors = append(errors, fmt.Sprintf("%s: Decrement has nil Variable", context))
		}

	case *CallStatement:
		if s.Call == nil {
			errors = append(errors, fmt.Sprintf("%s: CallStatement has nil Call", context))
		} else {
			errors = append(errors, validateExpr(s.Call, context)...)
		}

	case nil:
		errors = append(errors, fmt.Sprintf("%s: nil statement", context))

	default:
		errors = append(errors, fmt.Sprintf("%s: unknown statement type %T", context, stmt))
	}

	return errors
}

func validateFunction(fn *Function, params []*Variable, context string) []string {
	if fn == nil || fn.Type == nil || !fn.Type.IsFunction {
		return []string{fmt.Sprintf("%s: declaration has no function type", context)}
	}
	if len(fn.Type.Params) != len(params) {
		return []string{fmt.Sprintf("%s: function %s type has %d params, declaration has %d",
			context, fn.Name, len(fn.Type.Params), len(params))}
	}
	return nil
}

// validateExpr checks that an expression and its children are typed.
func validateExpr(expr Expr, context string) []string {
	var errors []string

	if expr == nil {
		return []string{fmt.Sprintf("%s: nil expression", context)}
	}
	if expr.ExprType() == nil {
		errors = append(errors, fmt.Sprintf("%s: %T has nil type", context, expr))
	}

	switch e := expr.(type) {
	case *BinaryExpression:
		errors = append(errors, validateExpr(e.Left, context)...)
		errors = append(errors, validateExpr(e.Right, context)...)
	case *UnaryExpression:
		errors = append(errors, validateExpr(e.Operand, context)...)
	case *Conditional:
		errors = append(errors, validateExpr(e.Test, context)...)
		errors = append(errors, validateExpr(e.Consequent, context)...)
		errors = append(errors, validateExpr(e.Alternate, context)...)
	case *FunctionCall:
		if e.Callee == nil {
			errors = append(errors, fmt.Sprintf("%s: FunctionCall has nil Callee", context))
		} else if e.Callee.Type != nil && len(e.Callee.Type.Params) != len(e.Args) {
			errors = append(errors, fmt.Sprintf("%s: call to %s has %d args, want %d",
				context, e.Callee.Name, len(e.Args), len(e.Callee.Type.Params)))
		}
		for _, arg := range e.Args {
			errors = append(errors, validateExpr(arg, context)...)
		}
	}

	return errors
}

func nameOf(fn *Function) string {
	if fn == nil {
		return "<nil>"
	}
	return fn.Name
}
