package optimizer

import (
	"math"

	"github.com/lhaig/coffeemaker/internal/ir"
	"github.com/lhaig/coffeemaker/internal/lexer"
	"github.com/lhaig/coffeemaker/internal/types"
)

func optimizeBinary(e *ir.BinaryExpression) ir.Expr {
	left := optimizeExpr(e.Left)
	right := optimizeExpr(e.Right)

	if isNumberLit(left) && isNumberLit(right) {
		if folded, ok := foldNumbers(e.Op, left, right); ok {
			return folded
		}
		return &ir.BinaryExpression{Op: e.Op, Left: left, Right: right, Type: e.Type}
	}
	if simplified, ok := simplify(e.Op, left, right, e.Type); ok {
		return simplified
	}
	return &ir.BinaryExpression{Op: e.Op, Left: left, Right: right, Type: e.Type}
}

func optimizeUnary(e *ir.UnaryExpression) ir.Expr {
	operand := optimizeExpr(e.Operand)
	switch lit := operand.(type) {
	case ir.IntLit:
		if e.Op == lexer.MINUS {
			return ir.IntLit{Value: -lit.Value}
		}
	case ir.FloatLit:
		if e.Op == lexer.MINUS {
			return ir.FloatLit{Value: -lit.Value}
		}
	case ir.BoolLit:
		if e.Op == lexer.NOT {
			return ir.BoolLit{Value: !lit.Value}
		}
	}
	return &ir.UnaryExpression{Op: e.Op, Operand: operand, Type: e.Type}
}

func isNumberLit(e ir.Expr) bool {
	switch e.(type) {
	case ir.IntLit, ir.FloatLit:
		return true
	}
	return false
}

// isNumber reports whether e is a numeric literal equal to v.
func isNumber(e ir.Expr, v float64) bool {
	switch lit := e.(type) {
	case ir.IntLit:
		return float64(lit.Value) == v
	case ir.FloatLit:
		return lit.Value == v
	}
	return false
}

func isBool(e ir.Expr, v bool) bool {
	lit, ok := e.(ir.BoolLit)
	return ok && lit.Value == v
}

// number builds a literal of type t holding v.
func number(t *types.Type, v int64) ir.Expr {
	if t.Equal(types.Float) {
		return ir.FloatLit{Value: float64(v)}
	}
	return ir.IntLit{Value: v}
}

// simplify applies algebraic identities and boolean shortcuts.
func simplify(op lexer.TokenType, left, right ir.Expr, typ *types.Type) (ir.Expr, bool) {
	switch op {
	case lexer.PLUS:
		if isNumber(right, 0) {
			return left, true
		}
		if isNumber(left, 0) {
			return right, true
		}
	case lexer.MINUS:
		if isNumber(right, 0) {
			return left, true
		}
		if isNumber(left, 0) {
			return &ir.UnaryExpression{Op: lexer.MINUS, Operand: right, Type: typ}, true
		}
	case lexer.STAR:
		if isNumber(right, 1) {
			return left, true
		}
		if isNumber(left, 1) {
			return right, true
		}
		if isNumber(left, 0) || isNumber(right, 0) {
			return number(typ, 0), true
		}
	case lexer.SLASH:
		if isNumber(right, 1) {
			return left, true
		}
		if isNumber(left, 0) {
			return number(typ, 0), true
		}
	case lexer.POW:
		if isNumber(right, 0) || isNumber(left, 1) {
			return number(typ, 1), true
		}
	case lexer.AND:
		if isBool(left, true) {
			return right, true
		}
		if isBool(right, true) {
			return left, true
		}
	case lexer.OR:
		if isBool(left, false) {
			return right, true
		}
		if isBool(right, false) {
			return left, true
		}
	}
	return nil, false
}

// foldNumbers evaluates op on two numeric literals of the same type. It
// refuses the folds whose result would differ from evaluating the
// generated code: integer division that is not exact, division or
// remainder by zero, negative integer exponents, and integer operands or
// results outside the range JavaScript numbers hold exactly.
func foldNumbers(op lexer.TokenType, left, right ir.Expr) (ir.Expr, bool) {
	switch l := left.(type) {
	case ir.IntLit:
		r, ok := right.(ir.IntLit)
		if !ok {
			return nil, false
		}
		return foldInts(op, l.Value, r.Value)
	case ir.FloatLit:
		r, ok := right.(ir.FloatLit)
		if !ok {
			return nil, false
		}
		return foldFloats(op, l.Value, r.Value)
	}
	return nil, false
}

// maxSafeInt is Number.MAX_SAFE_INTEGER.
const maxSafeInt = 1<<53 - 1

func isSafeInt(v int64) bool {
	return v >= -maxSafeInt && v <= maxSafeInt
}

func foldInts(op lexer.TokenType, a, b int64) (ir.Expr, bool) {
	if !isSafeInt(a) || !isSafeInt(b) {
		return nil, false
	}
	var v int64
	switch op {
	case lexer.PLUS:
		v = a + b
	case lexer.MINUS:
		v = a - b
	case lexer.STAR:
		if b != 0 && abs(a) > maxSafeInt/abs(b) {
			return nil, false
		}
		v = a * b
	case lexer.SLASH:
		if b == 0 || a%b != 0 {
			return nil, false
		}
		v = a / b
	case lexer.PERCENT:
		if b == 0 {
			return nil, false
		}
		v = a % b
	case lexer.POW:
		if b < 0 {
			return nil, false
		}
		p, ok := intPow(a, b)
		if !ok {
			return nil, false
		}
		v = p
	default:
		if cmp, ok := compare(op, a, b); ok {
			return ir.BoolLit{Value: cmp}, true
		}
		return nil, false
	}
	if !isSafeInt(v) {
		return nil, false
	}
	return ir.IntLit{Value: v}, true
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func foldFloats(op lexer.TokenType, a, b float64) (ir.Expr, bool) {
	switch op {
	case lexer.PLUS:
		return ir.FloatLit{Value: a + b}, true
	case lexer.MINUS:
		return ir.FloatLit{Value: a - b}, true
	case lexer.STAR:
		return ir.FloatLit{Value: a * b}, true
	case lexer.SLASH:
		if b == 0 {
			return nil, false
		}
		return ir.FloatLit{Value: a / b}, true
	case lexer.PERCENT:
		if b == 0 {
			return nil, false
		}
		return ir.FloatLit{Value: math.Mod(a, b)}, true
	case lexer.POW:
		return ir.FloatLit{Value: math.Pow(a, b)}, true
	}
	if cmp, ok := compare(op, a, b); ok {
		return ir.BoolLit{Value: cmp}, true
	}
	return nil, false
}

func compare[T int64 | float64](op lexer.TokenType, a, b T) (bool, bool) {
	switch op {
	case lexer.LT:
		return a < b, true
	case lexer.LEQ:
		return a <= b, true
	case lexer.GT:
		return a > b, true
	case lexer.GEQ:
		return a >= b, true
	case lexer.EQ:
		return a == b, true
	case lexer.NEQ:
		return a != b, true
	}
	return false, false
}

// intPow computes base**exp, reporting false once the magnitude leaves
// the safe integer range.
func intPow(base, exp int64) (int64, bool) {
	switch base {
	case 0:
		if exp == 0 {
			return 1, true
		}
		return 0, true
	case 1:
		return 1, true
	case -1:
		if exp%2 == 0 {
			return 1, true
		}
		return -1, true
	}
	result := int64(1)
	for ; exp > 0; exp-- {
		if abs(result) > maxSafeInt/abs(base) {
			return 0, false
		}
		result *= base
	}
	return result, true
}
