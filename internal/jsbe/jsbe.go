// Package jsbe renders a typed program as JavaScript.
package jsbe

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lhaig/coffeemaker/internal/ir"
	"github.com/lhaig/coffeemaker/internal/lexer"
)

// builtins maps standard library functions to their JavaScript equivalents.
var builtins = map[*ir.Function]string{
	ir.Sqrt:  "Math.sqrt",
	ir.Sin:   "Math.sin",
	ir.Cos:   "Math.cos",
	ir.Exp:   "Math.exp",
	ir.Ln:    "Math.log",
	ir.Hypot: "Math.hypot",
}

// Generate produces JavaScript source code from a typed program. Every
// user symbol is renamed to its source name plus a numeric suffix assigned
// in order of first appearance, so shadowed names never collide.
func Generate(prog *ir.Program) string {
	g := &generator{names: make(map[ir.Symbol]string)}
	g.generateStmts(prog.Statements)
	return g.sb.String()
}

type generator struct {
	sb     strings.Builder
	indent int
	names  map[ir.Symbol]string
	next   int
}

func (g *generator) emit(s string) {
	g.sb.WriteString(s)
}

func (g *generator) emitLinef(format string, args ...any) {
	g.sb.WriteString(g.indentStr())
	g.sb.WriteString(fmt.Sprintf(format, args...))
	g.sb.WriteString("\n")
}

func (g *generator) emitLine(s string) {
	if s == "" {
		g.emit("\n")
		return
	}
	g.emit(g.indentStr())
	g.emit(s)
	g.emit("\n")
}

func (g *generator) incIndent() { g.indent++ }
func (g *generator) decIndent() { g.indent-- }

func (g *generator) indentStr() string {
	return strings.Repeat("  ", g.indent)
}

// name returns the output identifier of sym, assigning one on first use.
func (g *generator) name(sym ir.Symbol) string {
	if n, ok := g.names[sym]; ok {
		return n
	}
	g.next++
	n := fmt.Sprintf("%s_%d", sym.SymbolName(), g.next)
	g.names[sym] = n
	return n
}

// paramList names parameters in order and joins them.
func (g *generator) paramList(params []*ir.Variable) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = g.name(p)
	}
	return strings.Join(names, ", ")
}

// --- Statements ---

func (g *generator) generateStmts(stmts []ir.Stmt) {
	for _, stmt := range stmts {
		g.generateStmt(stmt)
	}
}

func (g *generator) generateBlock(stmts []ir.Stmt) {
	g.incIndent()
	g.generateStmts(stmts)
	g.decIndent()
}

func (g *generator) generateStmt(s ir.Stmt) {
	switch stmt := s.(type) {
	case *ir.VariableDeclaration:
		init := g.generateExpr(stmt.Initializer)
		g.emitLinef("let %s = %s;", g.name(stmt.Variable), init)

	case *ir.FunctionDeclaration:
		params := g.paramList(stmt.Params)
		g.emitLinef("function %s(%s) {", g.name(stmt.Function), params)
		g.generateBlock(stmt.Body)
		g.emitLine("}")

	case *ir.ClassDeclaration:
		g.generateClass(stmt)

	case *ir.Assignment:
		g.emitLinef("%s = %s;", g.name(stmt.Target), g.generateExpr(stmt.Source))

	case *ir.PrintStatement:
		g.emitLinef("console.log(%s);", g.generateExpr(stmt.Argument))

	case *ir.WhileStatement:
		g.emitLinef("while (%s) {", g.generateExpr(stmt.Test))
		g.generateBlock(stmt.Body)
		g.emitLine("}")

	case *ir.IfStatement:
		g.generateIf(stmt.Test, stmt.Consequent, stmt.Alternate, "")

	case *ir.ShortIfStatement:
		g.generateIf(stmt.Test, stmt.Consequent, nil, "")

	case *ir.ReturnStatement:
		if stmt.Expression == nil {
			g.emitLine("return;")
		} else {
			g.emitLinef("return %s;", g.generateExpr(stmt.Expression))
		}

	case *ir.Increment:
		g.emitLinef("%s++;", g.name(stmt.Variable))

	case *ir.Decrement:
		g.emitLinef("%s--;", g.name(stmt.Variable))

	case *ir.CallStatement:
		g.emitLinef("%s;", g.generateExpr(stmt.Call))
	}
}

// generateIf emits an if chain. A nested if alternate continues on the
// closing brace line, giving a flat else-if chain.
func (g *generator) generateIf(test ir.Expr, consequent []ir.Stmt, alt ir.Alternate, prefix string) {
	g.emitLinef("%sif (%s) {", prefix, g.generateExpr(test))
	g.generateBlock(consequent)

	switch a := alt.(type) {
	case *ir.IfStatement:
		g.generateIf(a.Test, a.Consequent, a.Alternate, "} else ")
	case *ir.ShortIfStatement:
		g.generateIf(a.Test, a.Consequent, nil, "} else ")
	case *ir.Block:
		g.emitLine("} else {")
		g.generateBlock(a.Statements)
		g.emitLine("}")
	default:
		g.emitLine("}")
	}
}

// --- Classes ---

func (g *generator) generateClass(stmt *ir.ClassDeclaration) {
	g.emitLinef("class %s {", g.name(stmt.Class))
	g.incIndent()

	ctor := stmt.Constructor
	params := g.paramList(ctor.Params)
	g.emitLinef("constructor(%s) {", params)
	g.incIndent()
	for _, p := range ctor.Params {
		n := g.name(p)
		g.emitLinef("this.%s = %s;", n, n)
	}
	for _, fa := range ctor.Body {
		// A field initialized from its same-named parameter is that
		// parameter's binding above.
		if v, ok := fa.Source.(*ir.Variable); ok && v.Name == fa.Field.Name && isParam(v, ctor.Params) {
			if _, named := g.names[fa.Field]; !named {
				g.names[fa.Field] = g.name(v)
			}
			if g.names[fa.Field] == g.name(v) {
				continue
			}
		}
		g.emitLinef("this.%s = %s;", g.name(fa.Field), g.generateExpr(fa.Source))
	}
	g.decIndent()
	g.emitLine("}")

	for _, m := range stmt.Methods {
		params := g.paramList(m.Params)
		g.emitLinef("%s(%s) {", g.name(m.Function), params)
		g.generateBlock(m.Body)
		g.emitLine("}")
	}

	g.decIndent()
	g.emitLine("}")
}

func isParam(v *ir.Variable, params []*ir.Variable) bool {
	for _, p := range params {
		if p == v {
			return true
		}
	}
	return false
}

// --- Expressions ---

func (g *generator) generateExpr(e ir.Expr) string {
	switch expr := e.(type) {
	case *ir.BinaryExpression:
		left := g.generateExpr(expr.Left)
		if _, ok := expr.Left.(*ir.UnaryExpression); ok && expr.Op == lexer.POW {
			// JS rejects a unary operator directly before **
			left = "(" + left + ")"
		}
		right := g.generateExpr(expr.Right)
		return fmt.Sprintf("(%s %s %s)", left, mapOperator(expr.Op), right)

	case *ir.UnaryExpression:
		return fmt.Sprintf("%s(%s)", mapOperator(expr.Op), g.generateExpr(expr.Operand))

	case *ir.Conditional:
		return fmt.Sprintf("((%s) ? (%s) : (%s))",
			g.generateExpr(expr.Test),
			g.generateExpr(expr.Consequent),
			g.generateExpr(expr.Alternate))

	case *ir.FunctionCall:
		args := make([]string, len(expr.Args))
		for i, arg := range expr.Args {
			args[i] = g.generateExpr(arg)
		}
		return fmt.Sprintf("%s(%s)", g.generateExpr(expr.Callee), strings.Join(args, ", "))

	case *ir.Variable:
		if expr == ir.Pi {
			return "Math.PI"
		}
		if expr.Receiver {
			return "this"
		}
		return g.name(expr)

	case *ir.Function:
		if builtin, ok := builtins[expr]; ok {
			return builtin
		}
		if expr.Method {
			return "this." + g.name(expr)
		}
		return g.name(expr)

	case ir.IntLit:
		return signed(strconv.FormatInt(expr.Value, 10), expr.Value < 0)

	case ir.FloatLit:
		return formatFloat(expr.Value)

	case ir.StringLit:
		return "\"" + escapeJSString(expr.Value) + "\""

	case ir.BoolLit:
		return strconv.FormatBool(expr.Value)
	}
	return "undefined"
}

// signed parenthesizes negative literals so they stay atomic operands.
func signed(s string, negative bool) string {
	if negative {
		return "(" + s + ")"
	}
	return s
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "(-Infinity)"
	}
	return signed(strconv.FormatFloat(v, 'g', -1, 64), math.Signbit(v))
}

func mapOperator(op lexer.TokenType) string {
	switch op {
	case lexer.EQ:
		return "==="
	case lexer.NEQ:
		return "!=="
	}
	return op.Symbol()
}

func escapeJSString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\x00", "\\x00")
	return s
}
