package linter

import (
	"strings"
	"unicode"

	"github.com/lhaig/coffeemaker/internal/ast"
	"github.com/lhaig/coffeemaker/internal/diagnostic"
)

// Linter performs style and best-practice checks on a syntax tree.
// It reports warnings (never errors) using the diagnostic system.
type Linter struct {
	prog *ast.Program
	diag *diagnostic.Diagnostics
}

// Lint runs all lint rules on the given program and returns diagnostics.
func Lint(prog *ast.Program) *diagnostic.Diagnostics {
	l := &Linter{
		prog: prog,
		diag: diagnostic.New(),
	}

	l.lintStmts(prog.Statements, l.collectUsedNames(prog.Statements))
	return l.diag
}

// lintStmts checks a statement list. usedNames holds every name read
// anywhere in the enclosing body, nested declarations included.
func (l *Linter) lintStmts(stmts []ast.Statement, usedNames map[string]bool) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			if !usedNames[s.Name] {
				l.diag.Warningf(s.Line, s.Column,
					"variable '%s' is declared but never used", s.Name)
			}
		case *ast.FunctionDecl:
			l.lintFunction(s.Name, s.Name, s.Params, s.Body, s.Line, s.Column)
		case *ast.ClassDecl:
			l.lintClass(s)
		case *ast.AssignStmt:
			l.checkSelfAssignment(s)
		case *ast.IfStmt:
			l.lintIf(s, usedNames)
		case *ast.WhileStmt:
			if lit, ok := s.Condition.(*ast.BoolLit); ok && !lit.Value {
				l.diag.Warningf(s.Line, s.Column, "loop body never runs")
			}
			if s.Body != nil {
				l.lintStmts(s.Body.Statements, usedNames)
			}
		}
	}
}

func (l *Linter) lintIf(s *ast.IfStmt, usedNames map[string]bool) {
	if lit, ok := s.Condition.(*ast.BoolLit); ok {
		l.diag.Warningf(s.Line, s.Column, "condition is always %t", lit.Value)
	}
	if s.Then != nil {
		l.lintStmts(s.Then.Statements, usedNames)
	}
	switch alt := s.Else.(type) {
	case *ast.IfStmt:
		l.lintIf(alt, usedNames)
	case *ast.Block:
		l.lintStmts(alt.Statements, usedNames)
	}
}

// lintFunction checks a function or method. label names it in messages.
func (l *Linter) lintFunction(name, label string, params []*ast.Param, body *ast.Block, line, col int) {
	l.checkFunctionNaming(name, line, col)
	l.checkEmptyFunctionBody(label, body, line, col)

	if body != nil {
		usedNames := l.collectUsedNames(body.Statements)
		l.checkUnusedParams(label, params, usedNames)
		l.lintStmts(body.Statements, usedNames)
	}
}

func (l *Linter) lintClass(class *ast.ClassDecl) {
	l.checkClassNaming(class.Name, class.Line, class.Column)

	if ctor := class.Constructor; ctor != nil {
		usedNames := make(map[string]bool)
		for _, field := range ctor.Fields {
			l.collectUsedNamesFromExpr(field.Value, usedNames)
		}
		l.checkUnusedParams(class.Name+".create", ctor.Params, usedNames)
	}

	for _, m := range class.Methods {
		l.lintFunction(m.Name, class.Name+"."+m.Name, m.Params, m.Body, m.Line, m.Column)
	}
}

// --- Lint rules ---

// checkEmptyFunctionBody warns if a function/method body has no statements.
func (l *Linter) checkEmptyFunctionBody(name string, body *ast.Block, line, col int) {
	if body == nil || len(body.Statements) == 0 {
		l.diag.Warningf(line, col, "function '%s' has an empty body", name)
	}
}

// checkFunctionNaming warns if a function/method name is not lowerCamelCase.
func (l *Linter) checkFunctionNaming(name string, line, col int) {
	if !isCamelCase(name) {
		l.diag.Warningf(line, col,
			"function '%s' should use lowerCamelCase naming", name)
	}
}

// checkClassNaming warns if a class name is not PascalCase.
func (l *Linter) checkClassNaming(name string, line, col int) {
	if !isPascalCase(name) {
		l.diag.Warningf(line, col,
			"class '%s' should use PascalCase naming", name)
	}
}

// checkUnusedParams warns about parameters that are never read in the body.
func (l *Linter) checkUnusedParams(scopeName string, params []*ast.Param, usedNames map[string]bool) {
	for _, p := range params {
		if !usedNames[p.Name] {
			l.diag.Warningf(p.Line, p.Column,
				"parameter '%s' in '%s' is never used", p.Name, scopeName)
		}
	}
}

// checkSelfAssignment warns about `x = x`.
func (l *Linter) checkSelfAssignment(s *ast.AssignStmt) {
	if ident, ok := s.Value.(*ast.Identifier); ok && ident.Name == s.Name {
		l.diag.Warningf(s.Line, s.Column,
			"assignment of '%s' to itself has no effect", s.Name)
	}
}

// --- Name collection helpers ---

// collectUsedNames walks all expressions in a slice of statements and collects
// all identifier names that are read (referenced). This is used to detect
// unused variables and parameters.
func (l *Linter) collectUsedNames(stmts []ast.Statement) map[string]bool {
	used := make(map[string]bool)
	for _, stmt := range stmts {
		l.collectUsedNamesFromStmt(stmt, used)
	}
	return used
}

func (l *Linter) collectUsedNamesFromStmt(stmt ast.Statement, used map[string]bool) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		// The initializer reads names, but the declared name is not a read
		l.collectUsedNamesFromExpr(s.Value, used)
	case *ast.AssignStmt:
		l.collectUsedNamesFromExpr(s.Value, used)
	case *ast.IncDecStmt:
		used[s.Name] = true
	case *ast.PrintStmt:
		l.collectUsedNamesFromExpr(s.Value, used)
	case *ast.ReturnStmt:
		if s.Value != nil {
			l.collectUsedNamesFromExpr(s.Value, used)
		}
	case *ast.IfStmt:
		l.collectUsedNamesFromExpr(s.Condition, used)
		if s.Then != nil {
			l.collectUsedNamesFromStmt(s.Then, used)
		}
		if s.Else != nil {
			l.collectUsedNamesFromStmt(s.Else, used)
		}
	case *ast.WhileStmt:
		l.collectUsedNamesFromExpr(s.Condition, used)
		if s.Body != nil {
			l.collectUsedNamesFromStmt(s.Body, used)
		}
	case *ast.ExprStmt:
		l.collectUsedNamesFromExpr(s.Expr, used)
	case *ast.FunctionDecl:
		if s.Body != nil {
			l.collectUsedNamesFromStmt(s.Body, used)
		}
	case *ast.ClassDecl:
		if s.Constructor != nil {
			for _, field := range s.Constructor.Fields {
				l.collectUsedNamesFromExpr(field.Value, used)
			}
		}
		for _, m := range s.Methods {
			if m.Body != nil {
				l.collectUsedNamesFromStmt(m.Body, used)
			}
		}
	case *ast.Block:
		for _, inner := range s.Statements {
			l.collectUsedNamesFromStmt(inner, used)
		}
	}
}

func (l *Linter) collectUsedNamesFromExpr(expr ast.Expression, used map[string]bool) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *ast.Identifier:
		used[e.Name] = true
	case *ast.BinaryExpr:
		l.collectUsedNamesFromExpr(e.Left, used)
		l.collectUsedNamesFromExpr(e.Right, used)
	case *ast.UnaryExpr:
		l.collectUsedNamesFromExpr(e.Operand, used)
	case *ast.ConditionalExpr:
		l.collectUsedNamesFromExpr(e.Condition, used)
		l.collectUsedNamesFromExpr(e.Then, used)
		l.collectUsedNamesFromExpr(e.Else, used)
	case *ast.CallExpr:
		for _, arg := range e.Args {
			l.collectUsedNamesFromExpr(arg, used)
		}
	}
}

// --- Naming convention helpers ---

// isCamelCase returns true if the name starts with a lowercase letter and
// contains no underscores.
func isCamelCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	runes := []rune(name)
	if !unicode.IsLower(runes[0]) {
		return false
	}
	return !strings.ContainsRune(name, '_')
}

// isPascalCase returns true if the name starts with an uppercase letter
// and contains no underscores.
func isPascalCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	runes := []rune(name)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	return !strings.ContainsRune(name, '_')
}
