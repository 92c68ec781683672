package formatter

import (
	"fmt"
	"strings"

	"github.com/lhaig/coffeemaker/internal/ast"
	"github.com/lhaig/coffeemaker/internal/lexer"
)

// Format takes a syntax tree and returns canonical CoffeeMaker source.
// Keywords use the CoffeeMaker spelling, blocks are indented four spaces and
// parentheses appear only where precedence requires them.
func Format(prog *ast.Program) string {
	f := &formatter{}
	f.formatStmts(prog.Statements)
	return f.sb.String()
}

type formatter struct {
	sb     strings.Builder
	indent int
}

// --- helpers (same pattern as jsbe.go) ---

func (f *formatter) emit(s string) {
	f.sb.WriteString(s)
}

func (f *formatter) emitf(format string, args ...any) {
	f.sb.WriteString(fmt.Sprintf(format, args...))
}

func (f *formatter) emitLine(s string) {
	if s == "" {
		f.sb.WriteString("\n")
	} else {
		f.sb.WriteString(f.indentStr())
		f.sb.WriteString(s)
		f.sb.WriteString("\n")
	}
}

func (f *formatter) emitLinef(format string, args ...any) {
	f.sb.WriteString(f.indentStr())
	f.sb.WriteString(fmt.Sprintf(format, args...))
	f.sb.WriteString("\n")
}

func (f *formatter) incIndent() { f.indent++ }
func (f *formatter) decIndent() { f.indent-- }

func (f *formatter) indentStr() string {
	return strings.Repeat("    ", f.indent)
}

func (f *formatter) blankLine() {
	f.sb.WriteString("\n")
}

// --- statement lists ---

// formatStmts keeps source order. Function and class declarations are
// separated from their neighbours by a blank line.
func (f *formatter) formatStmts(stmts []ast.Statement) {
	for i, stmt := range stmts {
		if i > 0 && (isDecl(stmt) || isDecl(stmts[i-1])) {
			f.blankLine()
		}
		f.formatStmt(stmt)
	}
}

func isDecl(s ast.Statement) bool {
	switch s.(type) {
	case *ast.FunctionDecl, *ast.ClassDecl:
		return true
	}
	return false
}

func (f *formatter) formatBlock(b *ast.Block) {
	if b == nil {
		return
	}
	f.incIndent()
	f.formatStmts(b.Statements)
	f.decIndent()
}

// --- declarations ---

func (f *formatter) formatFunctionDecl(fn *ast.FunctionDecl) {
	f.emitLinef("cup %s %s -> (%s) {", formatTypeRef(fn.ReturnType), fn.Name, formatParams(fn.Params, false))
	f.formatBlock(fn.Body)
	f.emitLine("}")
}

func (f *formatter) formatClassDecl(c *ast.ClassDecl) {
	f.emitLinef("keurig %s {", c.Name)
	f.incIndent()

	if c.Constructor != nil {
		f.formatConstructorDecl(c.Constructor)
	}
	for i, m := range c.Methods {
		if i > 0 || c.Constructor != nil {
			f.blankLine()
		}
		f.formatMethodDecl(m)
	}

	f.decIndent()
	f.emitLine("}")
}

func (f *formatter) formatConstructorDecl(c *ast.ConstructorDecl) {
	f.emitLinef("create(%s) {", formatParams(c.Params, true))
	f.incIndent()
	for _, field := range c.Fields {
		f.emitLinef("this.%s = %s", field.Field, formatExpr(field.Value))
	}
	f.decIndent()
	f.emitLine("}")
}

func (f *formatter) formatMethodDecl(m *ast.MethodDecl) {
	f.emitLinef("cup %s %s -> (%s) {", formatTypeRef(m.ReturnType), m.Name, formatParams(m.Params, true))
	f.formatBlock(m.Body)
	f.emitLine("}")
}

func formatParams(params []*ast.Param, receiver bool) string {
	parts := make([]string, 0, len(params)+1)
	if receiver {
		parts = append(parts, "self")
	}
	for _, p := range params {
		if p.Type == nil {
			parts = append(parts, p.Name)
			continue
		}
		parts = append(parts, formatTypeRef(p.Type)+" "+p.Name)
	}
	return strings.Join(parts, ", ")
}

// --- statements ---

func (f *formatter) formatStmt(s ast.Statement) {
	switch stmt := s.(type) {
	case *ast.VarDecl:
		f.emitLinef("%s %s = %s", formatTypeRef(stmt.Type), stmt.Name, formatExpr(stmt.Value))

	case *ast.FunctionDecl:
		f.formatFunctionDecl(stmt)

	case *ast.ClassDecl:
		f.formatClassDecl(stmt)

	case *ast.AssignStmt:
		f.emitLinef("%s = %s", stmt.Name, formatExpr(stmt.Value))

	case *ast.IncDecStmt:
		f.emitLinef("%s%s", stmt.Name, stmt.Op.Symbol())

	case *ast.PrintStmt:
		f.emitLinef("brew %s", formatExpr(stmt.Value))

	case *ast.ReturnStmt:
		if stmt.Value != nil {
			f.emitLinef("complete %s", formatExpr(stmt.Value))
		} else {
			f.emitLine("complete")
		}

	case *ast.IfStmt:
		f.formatIfStmt(stmt, false)

	case *ast.WhileStmt:
		f.emitLinef("while %s {", formatExpr(stmt.Condition))
		f.formatBlock(stmt.Body)
		f.emitLine("}")

	case *ast.ExprStmt:
		f.emitLine(formatExpr(stmt.Expr))

	case *ast.Block:
		f.formatStmts(stmt.Statements)
	}
}

func (f *formatter) formatIfStmt(stmt *ast.IfStmt, isElseIf bool) {
	if isElseIf {
		f.emitf(" salt %s {\n", formatExpr(stmt.Condition))
	} else {
		f.emitLinef("sugar %s {", formatExpr(stmt.Condition))
	}
	f.formatBlock(stmt.Then)
	switch alt := stmt.Else.(type) {
	case *ast.IfStmt:
		f.emit(f.indentStr() + "}")
		f.formatIfStmt(alt, true)
	case *ast.Block:
		f.emitLine("} cream {")
		f.formatBlock(alt)
		f.emitLine("}")
	default:
		f.emitLine("}")
	}
}

// --- expressions ---

// Precedence levels (higher binds tighter), mirroring the parser:
//
//	1: ?:
//	2: ||
//	3: &&
//	4: == !=
//	5: < > <= >=
//	6: + -
//	7: * / %
//	8: unary - !
//	9: **
//	10: literals, names, calls
const (
	precConditional = 1
	precUnary       = 8
	precPower       = 9
	precPrimary     = 10
)

func precedence(op lexer.TokenType) int {
	switch op {
	case lexer.OR:
		return 2
	case lexer.AND:
		return 3
	case lexer.EQ, lexer.NEQ:
		return 4
	case lexer.LT, lexer.GT, lexer.LEQ, lexer.GEQ:
		return 5
	case lexer.PLUS, lexer.MINUS:
		return 6
	case lexer.STAR, lexer.SLASH, lexer.PERCENT:
		return 7
	case lexer.POW:
		return precPower
	default:
		return precPrimary
	}
}

func exprPrecedence(e ast.Expression) int {
	switch expr := e.(type) {
	case *ast.ConditionalExpr:
		return precConditional
	case *ast.BinaryExpr:
		return precedence(expr.Op)
	case *ast.UnaryExpr:
		return precUnary
	default:
		return precPrimary
	}
}

func formatExpr(e ast.Expression) string {
	return formatExprPrec(e, 0)
}

// formatExprPrec formats an expression, wrapping it in parens when it binds
// looser than minPrec.
func formatExprPrec(e ast.Expression, minPrec int) string {
	s := formatExprBare(e)
	if exprPrecedence(e) < minPrec {
		return "(" + s + ")"
	}
	return s
}

func formatExprBare(e ast.Expression) string {
	switch expr := e.(type) {
	case *ast.ConditionalExpr:
		return fmt.Sprintf("%s ? %s : %s",
			formatExprPrec(expr.Condition, precConditional+1),
			formatExpr(expr.Then),
			formatExpr(expr.Else))

	case *ast.BinaryExpr:
		prec := precedence(expr.Op)
		if expr.Op == lexer.POW {
			// right-associative; the base must be a primary
			return fmt.Sprintf("%s ** %s",
				formatExprPrec(expr.Left, precPrimary),
				formatExprPrec(expr.Right, precUnary))
		}
		return fmt.Sprintf("%s %s %s",
			formatExprPrec(expr.Left, prec),
			expr.Op.Symbol(),
			formatExprPrec(expr.Right, prec+1)) // +1 for left-associativity

	case *ast.UnaryExpr:
		operand := formatExprPrec(expr.Operand, precUnary)
		if expr.Op == lexer.MINUS && strings.HasPrefix(operand, "-") {
			operand = "(" + operand + ")"
		}
		return expr.Op.Symbol() + operand

	case *ast.CallExpr:
		args := make([]string, len(expr.Args))
		for i, arg := range expr.Args {
			args[i] = formatExpr(arg)
		}
		return fmt.Sprintf("%s(%s)", expr.Function, strings.Join(args, ", "))

	case *ast.Identifier:
		return expr.Name

	case *ast.IntLit:
		return expr.Value

	case *ast.FloatLit:
		return expr.Value

	case *ast.StringLit:
		return quote(expr.Value)

	case *ast.BoolLit:
		if expr.Value {
			return "true"
		}
		return "false"

	default:
		return "<unknown>"
	}
}

// quote renders a string literal using the escapes the lexer accepts.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case 0:
			sb.WriteString(`\0`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// --- type references ---

// formatTypeRef returns the CoffeeMaker spelling of a type keyword.
func formatTypeRef(t *ast.TypeRef) string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case lexer.INT_TYPE:
		return "regular"
	case lexer.FLOAT_TYPE:
		return "decaf"
	case lexer.STRING_TYPE:
		return "put"
	case lexer.BOOL_TYPE:
		return "boolean"
	case lexer.VOID_TYPE:
		return "void"
	default:
		return t.Name
	}
}
