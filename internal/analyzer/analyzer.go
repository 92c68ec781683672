// Package analyzer resolves names and checks types, turning a syntax tree
// into a typed ir.Program. Analysis stops at the first violation.
package analyzer

import (
	"errors"
	"strconv"

	"github.com/lhaig/coffeemaker/internal/ast"
	"github.com/lhaig/coffeemaker/internal/diagnostic"
	"github.com/lhaig/coffeemaker/internal/ir"
	"github.com/lhaig/coffeemaker/internal/lexer"
	"github.com/lhaig/coffeemaker/internal/parser"
	"github.com/lhaig/coffeemaker/internal/types"
)

// constructorKey is the class-scope name of a class's constructor. It is a
// keyword, so user code can never refer to it.
const constructorKey = "create"

// Analyze parses source and analyzes the result. A syntax error is
// reported as a SyntaxError diagnostic for the first problem found.
func Analyze(source string) (*ir.Program, error) {
	p := parser.New(source)
	prog := p.Parse()
	if err := p.Diagnostics().First(); err != nil {
		return nil, err
	}
	return AnalyzeProgram(prog)
}

// AnalyzeProgram analyzes an already parsed program.
func AnalyzeProgram(prog *ast.Program) (*ir.Program, error) {
	a := &analyzer{scopes: NewScopes()}
	root := a.scopes.Root()
	for _, sym := range ir.Stdlib() {
		if err := a.scopes.Declare(root, sym.SymbolName(), sym); err != nil {
			return nil, err
		}
	}

	stmts, err := a.statements(prog.Statements, root)
	if err != nil {
		return nil, err
	}
	return &ir.Program{Statements: stmts}, nil
}

// analyzer holds the state of one analysis call.
type analyzer struct {
	scopes *Scopes
}

// fail builds a located diagnostic for node.
func fail(node ast.Node, kind diagnostic.Kind, format string, args ...interface{}) error {
	line, col := node.Pos()
	return diagnostic.Newf(kind, line, col, format, args...)
}

// locate attaches node's position to a scope error.
func locate(err error, node ast.Node) error {
	var d *diagnostic.Diagnostic
	if errors.As(err, &d) {
		line, col := node.Pos()
		d.At(line, col)
	}
	return err
}

func (a *analyzer) declare(scope ScopeID, name string, sym ir.Symbol, node ast.Node) error {
	return locate(a.scopes.Declare(scope, name, sym), node)
}

func (a *analyzer) lookup(scope ScopeID, name string, node ast.Node) (ir.Symbol, error) {
	sym, err := a.scopes.Lookup(scope, name)
	if err != nil {
		return nil, locate(err, node)
	}
	return sym, nil
}

// --- Statements ---

func (a *analyzer) statements(list []ast.Statement, scope ScopeID) ([]ir.Stmt, error) {
	out := make([]ir.Stmt, 0, len(list))
	for _, stmt := range list {
		s, err := a.statement(stmt, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (a *analyzer) statement(stmt ast.Statement, scope ScopeID) (ir.Stmt, error) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return a.varDecl(s, scope)
	case *ast.FunctionDecl:
		return a.functionDecl(s, scope)
	case *ast.ClassDecl:
		return a.classDecl(s, scope)
	case *ast.AssignStmt:
		return a.assign(s, scope)
	case *ast.IncDecStmt:
		return a.incDec(s, scope)
	case *ast.PrintStmt:
		arg, err := a.expression(s.Value, scope)
		if err != nil {
			return nil, err
		}
		if arg.ExprType().Equal(types.Void) {
			return nil, fail(s.Value, diagnostic.TypeMismatch, "cannot print a void value")
		}
		return &ir.PrintStatement{Argument: arg}, nil
	case *ast.WhileStmt:
		return a.while(s, scope)
	case *ast.IfStmt:
		return a.ifChain(s, scope)
	case *ast.ReturnStmt:
		return a.returnStmt(s, scope)
	case *ast.ExprStmt:
		call, ok := s.Expr.(*ast.CallExpr)
		if !ok {
			return nil, fail(s, diagnostic.SyntaxError, "only calls may be used as statements")
		}
		fc, err := a.call(call, scope)
		if err != nil {
			return nil, err
		}
		return &ir.CallStatement{Call: fc}, nil
	}
	return nil, fail(stmt, diagnostic.SyntaxError, "unexpected %T", stmt)
}

// resolveType maps a written type. Void is accepted only where allowVoid is set.
func resolveType(ref *ast.TypeRef, allowVoid bool, what string) (*types.Type, error) {
	typ := types.Resolve(ref)
	if typ == nil {
		return nil, fail(ref, diagnostic.SyntaxError, "unknown type %s", ref.Name)
	}
	if typ.Equal(types.Void) && !allowVoid {
		return nil, fail(ref, diagnostic.TypeMismatch, "%s cannot have type void", what)
	}
	return typ, nil
}

func (a *analyzer) varDecl(s *ast.VarDecl, scope ScopeID) (ir.Stmt, error) {
	typ, err := resolveType(s.Type, false, "variable "+s.Name)
	if err != nil {
		return nil, err
	}
	// The initializer is analyzed before the name is bound, so it sees
	// any outer variable of the same name.
	init, err := a.expression(s.Value, scope)
	if err != nil {
		return nil, err
	}
	if !init.ExprType().AssignableTo(typ) {
		return nil, fail(s.Value, diagnostic.TypeMismatch,
			"cannot initialize %s of type %s with a %s value", s.Name, typ, init.ExprType())
	}

	v := &ir.Variable{Name: s.Name, Type: typ}
	if err := a.declare(scope, s.Name, v, s); err != nil {
		return nil, err
	}
	return &ir.VariableDeclaration{Variable: v, Initializer: init}, nil
}

// params builds read-only parameter variables and their types.
func params(list []*ast.Param) ([]*ir.Variable, []*types.Type, error) {
	vars := make([]*ir.Variable, len(list))
	paramTypes := make([]*types.Type, len(list))
	for i, p := range list {
		typ, err := resolveType(p.Type, false, "parameter "+p.Name)
		if err != nil {
			return nil, nil, err
		}
		vars[i] = &ir.Variable{Name: p.Name, ReadOnly: true, Type: typ}
		paramTypes[i] = typ
	}
	return vars, paramTypes, nil
}

func (a *analyzer) bindParams(scope ScopeID, vars []*ir.Variable, list []*ast.Param) error {
	for i, v := range vars {
		if err := a.declare(scope, v.Name, v, list[i]); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) functionDecl(s *ast.FunctionDecl, scope ScopeID) (ir.Stmt, error) {
	ret, err := resolveType(s.ReturnType, true, "")
	if err != nil {
		return nil, err
	}
	vars, paramTypes, err := params(s.Params)
	if err != nil {
		return nil, err
	}

	// Bound before the body so recursive calls resolve.
	fn := &ir.Function{Name: s.Name, Type: types.Function(paramTypes, ret)}
	if err := a.declare(scope, s.Name, fn, s); err != nil {
		return nil, err
	}

	bodyScope := a.scopes.Child(scope, inFunction(fn))
	if err := a.bindParams(bodyScope, vars, s.Params); err != nil {
		return nil, err
	}
	body, err := a.statements(s.Body.Statements, bodyScope)
	if err != nil {
		return nil, err
	}
	return &ir.FunctionDeclaration{Function: fn, Params: vars, Body: body}, nil
}

func (a *analyzer) classDecl(s *ast.ClassDecl, scope ScopeID) (ir.Stmt, error) {
	if s.Constructor == nil {
		return nil, fail(s, diagnostic.SyntaxError, "class %s has no constructor", s.Name)
	}

	class := &ir.Class{Name: s.Name}
	if err := a.declare(scope, s.Name, class, s); err != nil {
		return nil, err
	}
	classScope := a.scopes.Child(scope, inClass(class))

	ctor, err := a.constructorDecl(s.Constructor, class, classScope)
	if err != nil {
		return nil, err
	}

	decl := &ir.ClassDeclaration{Class: class, Constructor: ctor}
	for _, md := range s.Methods {
		m, err := a.methodDecl(md, classScope)
		if err != nil {
			return nil, err
		}
		decl.Methods = append(decl.Methods, m)
	}
	return decl, nil
}

func (a *analyzer) constructorDecl(s *ast.ConstructorDecl, class *ir.Class, classScope ScopeID) (*ir.ConstructorDeclaration, error) {
	vars, _, err := params(s.Params)
	if err != nil {
		return nil, err
	}
	ctor := &ir.Constructor{Name: class.Name, ParamCount: len(vars)}
	if err := a.declare(classScope, constructorKey, ctor, s); err != nil {
		return nil, err
	}

	ctorScope := a.scopes.Child(classScope)
	if err := a.bindParams(ctorScope, vars, s.Params); err != nil {
		return nil, err
	}

	decl := &ir.ConstructorDeclaration{Constructor: ctor, Params: vars}
	for _, fa := range s.Fields {
		src, err := a.expression(fa.Value, ctorScope)
		if err != nil {
			return nil, err
		}
		srcType := src.ExprType()
		if srcType.Equal(types.Void) {
			return nil, fail(fa.Value, diagnostic.TypeMismatch, "cannot assign a void value to field %s", fa.Field)
		}

		field := class.FieldNamed(fa.Field)
		if field == nil {
			field = &ir.Field{Name: fa.Field, Type: srcType}
			class.Fields = append(class.Fields, field)
		} else if !srcType.AssignableTo(field.Type) {
			return nil, fail(fa.Value, diagnostic.TypeMismatch,
				"cannot assign %s to field %s of type %s", srcType, field.Name, field.Type)
		}
		decl.Body = append(decl.Body, &ir.FieldAssignment{Field: field, Source: src})
	}
	return decl, nil
}

func (a *analyzer) methodDecl(s *ast.MethodDecl, classScope ScopeID) (*ir.MethodDeclaration, error) {
	ret, err := resolveType(s.ReturnType, true, "")
	if err != nil {
		return nil, err
	}
	vars, paramTypes, err := params(s.Params)
	if err != nil {
		return nil, err
	}

	fn := &ir.Function{Name: s.Name, Type: types.Function(paramTypes, ret), Method: true}
	if err := a.declare(classScope, s.Name, fn, s); err != nil {
		return nil, err
	}

	bodyScope := a.scopes.Child(classScope, inFunction(fn))
	self := &ir.Variable{Name: "self", ReadOnly: true, Type: types.Any, Receiver: true}
	if err := a.declare(bodyScope, self.Name, self, s); err != nil {
		return nil, err
	}
	if err := a.bindParams(bodyScope, vars, s.Params); err != nil {
		return nil, err
	}
	body, err := a.statements(s.Body.Statements, bodyScope)
	if err != nil {
		return nil, err
	}
	return &ir.MethodDeclaration{Function: fn, Receiver: self, Params: vars, Body: body}, nil
}

// writableVariable resolves the target of an assignment, ++ or --.
func (a *analyzer) writableVariable(name string, scope ScopeID, node ast.Node) (*ir.Variable, error) {
	sym, err := a.lookup(scope, name, node)
	if err != nil {
		return nil, err
	}
	v, ok := sym.(*ir.Variable)
	if !ok {
		return nil, fail(node, diagnostic.ReadOnlyAssignment, "cannot assign to %s %s", describe(sym), name)
	}
	if v.ReadOnly {
		return nil, fail(node, diagnostic.ReadOnlyAssignment, "cannot assign to read-only %s", name)
	}
	return v, nil
}

func (a *analyzer) assign(s *ast.AssignStmt, scope ScopeID) (ir.Stmt, error) {
	target, err := a.writableVariable(s.Name, scope, s)
	if err != nil {
		return nil, err
	}
	src, err := a.expression(s.Value, scope)
	if err != nil {
		return nil, err
	}
	if !src.ExprType().AssignableTo(target.Type) {
		return nil, fail(s.Value, diagnostic.TypeMismatch,
			"cannot assign %s to %s of type %s", src.ExprType(), target.Name, target.Type)
	}
	return &ir.Assignment{Target: target, Source: src}, nil
}

func (a *analyzer) incDec(s *ast.IncDecStmt, scope ScopeID) (ir.Stmt, error) {
	target, err := a.writableVariable(s.Name, scope, s)
	if err != nil {
		return nil, err
	}
	if !target.Type.Equal(types.Int) {
		return nil, fail(s, diagnostic.TypeMismatch, "%s requires an int variable, %s is %s", s.Op.Symbol(), target.Name, target.Type)
	}
	if s.Op == lexer.INC {
		return &ir.Increment{Variable: target}, nil
	}
	return &ir.Decrement{Variable: target}, nil
}

func (a *analyzer) condition(expr ast.Expression, scope ScopeID, what string) (ir.Expr, error) {
	test, err := a.expression(expr, scope)
	if err != nil {
		return nil, err
	}
	if !test.ExprType().Equal(types.Boolean) {
		return nil, fail(expr, diagnostic.TypeMismatch, "%s condition must be boolean, got %s", what, test.ExprType())
	}
	return test, nil
}

func (a *analyzer) while(s *ast.WhileStmt, scope ScopeID) (ir.Stmt, error) {
	test, err := a.condition(s.Condition, scope, "while")
	if err != nil {
		return nil, err
	}
	body, err := a.statements(s.Body.Statements, a.scopes.Child(scope, inLoop))
	if err != nil {
		return nil, err
	}
	return &ir.WhileStatement{Test: test, Body: body}, nil
}

// ifChain builds a right-leaning chain: each else-if becomes the alternate
// of the if before it, and a chain without a final else ends in a
// ShortIfStatement.
func (a *analyzer) ifChain(s *ast.IfStmt, scope ScopeID) (ir.Stmt, error) {
	test, err := a.condition(s.Condition, scope, "if")
	if err != nil {
		return nil, err
	}
	consequent, err := a.statements(s.Then.Statements, a.scopes.Child(scope))
	if err != nil {
		return nil, err
	}

	switch alt := s.Else.(type) {
	case nil:
		return &ir.ShortIfStatement{Test: test, Consequent: consequent}, nil
	case *ast.Block:
		stmts, err := a.statements(alt.Statements, a.scopes.Child(scope))
		if err != nil {
			return nil, err
		}
		return &ir.IfStatement{Test: test, Consequent: consequent, Alternate: &ir.Block{Statements: stmts}}, nil
	case *ast.IfStmt:
		nested, err := a.ifChain(alt, scope)
		if err != nil {
			return nil, err
		}
		return &ir.IfStatement{Test: test, Consequent: consequent, Alternate: nested.(ir.Alternate)}, nil
	}
	return nil, fail(s.Else, diagnostic.SyntaxError, "unexpected else clause %T", s.Else)
}

func (a *analyzer) returnStmt(s *ast.ReturnStmt, scope ScopeID) (ir.Stmt, error) {
	fn := a.scopes.Context(scope).Function
	if fn == nil {
		return nil, fail(s, diagnostic.IllegalReturn, "return can only appear in a function")
	}
	ret := fn.Type.Return

	if s.Value == nil {
		if !ret.Equal(types.Void) {
			return nil, fail(s, diagnostic.IllegalReturn, "%s must return a %s value", fn.Name, ret)
		}
		return &ir.ReturnStatement{}, nil
	}
	if ret.Equal(types.Void) {
		return nil, fail(s, diagnostic.IllegalReturn, "cannot return a value from void function %s", fn.Name)
	}

	value, err := a.expression(s.Value, scope)
	if err != nil {
		return nil, err
	}
	if !value.ExprType().AssignableTo(ret) {
		return nil, fail(s.Value, diagnostic.TypeMismatch,
			"cannot return %s from %s, which returns %s", value.ExprType(), fn.Name, ret)
	}
	return &ir.ReturnStatement{Expression: value}, nil
}

// --- Expressions ---

func (a *analyzer) expression(expr ast.Expression, scope ScopeID) (ir.Expr, error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		v, err := strconv.ParseInt(e.Value, 10, 64)
		if err != nil {
			return nil, fail(e, diagnostic.SyntaxError, "integer literal %s is out of range", e.Value)
		}
		return ir.IntLit{Value: v}, nil
	case *ast.FloatLit:
		v, err := strconv.ParseFloat(e.Value, 64)
		if err != nil {
			return nil, fail(e, diagnostic.SyntaxError, "float literal %s is out of range", e.Value)
		}
		return ir.FloatLit{Value: v}, nil
	case *ast.StringLit:
		return ir.StringLit{Value: e.Value}, nil
	case *ast.BoolLit:
		return ir.BoolLit{Value: e.Value}, nil
	case *ast.Identifier:
		return a.identifier(e, scope)
	case *ast.BinaryExpr:
		return a.binary(e, scope)
	case *ast.UnaryExpr:
		return a.unary(e, scope)
	case *ast.ConditionalExpr:
		return a.conditional(e, scope)
	case *ast.CallExpr:
		return a.call(e, scope)
	}
	return nil, fail(expr, diagnostic.SyntaxError, "unexpected expression %T", expr)
}

func (a *analyzer) identifier(e *ast.Identifier, scope ScopeID) (ir.Expr, error) {
	sym, err := a.lookup(scope, e.Name, e)
	if err != nil {
		return nil, err
	}
	switch s := sym.(type) {
	case *ir.Variable:
		return s, nil
	case *ir.Function:
		return s, nil
	}
	return nil, fail(e, diagnostic.TypeMismatch, "%s %s is not a value", describe(sym), e.Name)
}

func (a *analyzer) binary(e *ast.BinaryExpr, scope ScopeID) (ir.Expr, error) {
	left, err := a.expression(e.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := a.expression(e.Right, scope)
	if err != nil {
		return nil, err
	}
	lt, rt := left.ExprType(), right.ExprType()
	op := e.Op.Symbol()

	if e.Op == lexer.AND || e.Op == lexer.OR {
		if !lt.Equal(types.Boolean) || !rt.Equal(types.Boolean) {
			return nil, fail(e, diagnostic.TypeMismatch, "operator %s requires boolean operands, got %s and %s", op, lt, rt)
		}
		return &ir.BinaryExpression{Op: e.Op, Left: left, Right: right, Type: types.Boolean}, nil
	}

	if !lt.Equal(rt) {
		return nil, fail(e, diagnostic.TypeMismatch, "operator %s requires operands of the same type, got %s and %s", op, lt, rt)
	}

	var result *types.Type
	switch e.Op {
	case lexer.PLUS, lexer.MINUS:
		if lt.IsNumeric() || lt.Equal(types.String) {
			result = lt
		}
	case lexer.STAR, lexer.SLASH, lexer.PERCENT, lexer.POW:
		if lt.IsNumeric() {
			result = lt
		}
	case lexer.LT, lexer.LEQ, lexer.GT, lexer.GEQ:
		if lt.IsNumeric() || lt.Equal(types.String) {
			result = types.Boolean
		}
	case lexer.EQ, lexer.NEQ:
		if !lt.Equal(types.Void) {
			result = types.Boolean
		}
	}
	if result == nil {
		return nil, fail(e, diagnostic.TypeMismatch, "operator %s is not defined for %s", op, lt)
	}
	return &ir.BinaryExpression{Op: e.Op, Left: left, Right: right, Type: result}, nil
}

func (a *analyzer) unary(e *ast.UnaryExpr, scope ScopeID) (ir.Expr, error) {
	operand, err := a.expression(e.Operand, scope)
	if err != nil {
		return nil, err
	}
	typ := operand.ExprType()

	switch e.Op {
	case lexer.MINUS:
		if !typ.IsNumeric() {
			return nil, fail(e, diagnostic.TypeMismatch, "unary - requires a number, got %s", typ)
		}
	case lexer.NOT:
		if !typ.Equal(types.Boolean) {
			return nil, fail(e, diagnostic.TypeMismatch, "unary ! requires a boolean, got %s", typ)
		}
	default:
		return nil, fail(e, diagnostic.SyntaxError, "unknown unary operator %s", e.Op.Symbol())
	}
	return &ir.UnaryExpression{Op: e.Op, Operand: operand, Type: typ}, nil
}

func (a *analyzer) conditional(e *ast.ConditionalExpr, scope ScopeID) (ir.Expr, error) {
	test, err := a.condition(e.Condition, scope, "conditional")
	if err != nil {
		return nil, err
	}
	consequent, err := a.expression(e.Then, scope)
	if err != nil {
		return nil, err
	}
	alternate, err := a.expression(e.Else, scope)
	if err != nil {
		return nil, err
	}
	ct, at := consequent.ExprType(), alternate.ExprType()
	if !ct.Equal(at) {
		return nil, fail(e, diagnostic.TypeMismatch, "conditional branches have different types %s and %s", ct, at)
	}
	return &ir.Conditional{Test: test, Consequent: consequent, Alternate: alternate, Type: ct}, nil
}

func (a *analyzer) call(e *ast.CallExpr, scope ScopeID) (*ir.FunctionCall, error) {
	sym, err := a.lookup(scope, e.Function, e)
	if err != nil {
		return nil, err
	}
	fn, ok := sym.(*ir.Function)
	if !ok {
		return nil, fail(e, diagnostic.NotCallable, "%s %s is not callable", describe(sym), e.Function)
	}

	args := make([]ir.Expr, len(e.Args))
	for i, arg := range e.Args {
		if args[i], err = a.expression(arg, scope); err != nil {
			return nil, err
		}
	}

	paramTypes := fn.Type.Params
	if len(args) != len(paramTypes) {
		return nil, fail(e, diagnostic.ArityMismatch, "%s expects %d argument(s), got %d", fn.Name, len(paramTypes), len(args))
	}
	for i, arg := range args {
		if !arg.ExprType().AssignableTo(paramTypes[i]) {
			return nil, fail(e.Args[i], diagnostic.TypeMismatch,
				"argument %d to %s: cannot pass %s as %s", i+1, fn.Name, arg.ExprType(), paramTypes[i])
		}
	}
	return &ir.FunctionCall{Callee: fn, Args: args, Type: fn.Type.Return}, nil
}

// describe names the kind of a symbol for error messages.
func describe(sym ir.Symbol) string {
	switch s := sym.(type) {
	case *ir.Variable:
		if s.Receiver {
			return "receiver"
		}
		return "variable"
	case *ir.Function:
		if s.Method {
			return "method"
		}
		return "function"
	case *ir.Class:
		return "class"
	case *ir.Constructor:
		return "constructor"
	case *ir.Field:
		return "field"
	}
	return "symbol"
}
