package analyzer

import (
	"strings"
	"testing"

	"github.com/lhaig/coffeemaker/internal/diagnostic"
	"github.com/lhaig/coffeemaker/internal/ir"
	"github.com/lhaig/coffeemaker/internal/types"
	"github.com/nalgeon/be"
)

func mustAnalyze(t *testing.T, input string) *ir.Program {
	t.Helper()
	prog, err := Analyze(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if errs := ir.Validate(prog); len(errs) > 0 {
		t.Fatalf("analyzed tree is malformed:\n%s", strings.Join(errs, "\n"))
	}
	return prog
}

func expectKind(t *testing.T, input string, want diagnostic.Kind) error {
	t.Helper()
	_, err := Analyze(input)
	if err == nil {
		t.Fatalf("expected %s for %q, got none", want, input)
	}
	got, ok := diagnostic.KindOf(err)
	if !ok {
		t.Fatalf("expected a diagnostic, got %T: %v", err, err)
	}
	if got != want {
		t.Fatalf("expected %s, got %s: %v", want, got, err)
	}
	return err
}

func TestAssignmentSharesVariable(t *testing.T) {
	prog := mustAnalyze(t, `int x = 10; x = 20;`)
	be.Equal(t, len(prog.Statements), 2)

	decl := prog.Statements[0].(*ir.VariableDeclaration)
	assign := prog.Statements[1].(*ir.Assignment)
	be.True(t, decl.Variable == assign.Target)
	be.Equal(t, decl.Variable.Type, types.Int)
	be.Equal(t, assign.Source.(ir.IntLit).Value, int64(20))
}

func TestUndeclaredIdentifier(t *testing.T) {
	err := expectKind(t, `print(y);`, diagnostic.UndeclaredIdentifier)
	be.True(t, strings.Contains(err.Error(), "identifier y not declared"))
	be.True(t, strings.Contains(err.Error(), "1:7"))
}

func TestReturnValueFromVoidFunction(t *testing.T) {
	expectKind(t, `function void f() { return 5; }`, diagnostic.IllegalReturn)
}

func TestIllegalReturns(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"top level", `return 1;`},
		{"top level bare", `complete`},
		{"bare in int function", `cup regular f -> () { complete }`},
		{"loop at top level", `while true { complete 1 }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Analyze(tt.input)
			be.True(t, err != nil)
		})
	}

	expectKind(t, `return 1;`, diagnostic.IllegalReturn)
	expectKind(t, `cup regular f -> () { complete }`, diagnostic.IllegalReturn)
}

func TestReturnInsideLoopInsideFunction(t *testing.T) {
	prog := mustAnalyze(t, `cup regular first -> (regular n) {
    while n > 0 {
        sugar n == 3 { complete n }
    }
    complete 0
}`)
	fn := prog.Statements[0].(*ir.FunctionDeclaration)
	be.Equal(t, len(fn.Body), 2)
	loop := fn.Body[0].(*ir.WhileStatement)
	short := loop.Body[0].(*ir.ShortIfStatement)
	ret := short.Consequent[0].(*ir.ReturnStatement)
	be.True(t, ret.Expression == ir.Expr(fn.Params[0]))
}

func TestDuplicateDeclaration(t *testing.T) {
	err := expectKind(t, "regular x = 1\nregular x = 2", diagnostic.DuplicateDeclaration)
	be.True(t, strings.Contains(err.Error(), "2:1"))

	expectKind(t, `cup regular sin -> (decaf x) { complete 1 }`, diagnostic.DuplicateDeclaration)
	expectKind(t, `cup regular f -> (regular a, regular a) { complete a }`, diagnostic.DuplicateDeclaration)
}

func TestShadowingInNestedBlock(t *testing.T) {
	prog := mustAnalyze(t, `regular x = 1
sugar true {
    put x = "inner"
    brew x
}
brew x`)
	outer := prog.Statements[0].(*ir.VariableDeclaration).Variable
	short := prog.Statements[1].(*ir.ShortIfStatement)
	inner := short.Consequent[0].(*ir.VariableDeclaration).Variable
	be.True(t, inner != outer)
	be.Equal(t, inner.Type, types.String)

	be.True(t, short.Consequent[1].(*ir.PrintStatement).Argument == ir.Expr(inner))
	be.True(t, prog.Statements[2].(*ir.PrintStatement).Argument == ir.Expr(outer))
}

func TestInitializerSeesOuterBinding(t *testing.T) {
	prog := mustAnalyze(t, `regular x = 1
sugar true { regular x = x + 1 }`)
	outer := prog.Statements[0].(*ir.VariableDeclaration).Variable
	inner := prog.Statements[1].(*ir.ShortIfStatement).Consequent[0].(*ir.VariableDeclaration)
	bin := inner.Initializer.(*ir.BinaryExpression)
	be.True(t, bin.Left == ir.Expr(outer))
	be.True(t, inner.Variable != outer)
}

func TestTypeMismatches(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"initializer", `regular x = "hi"`},
		{"assignment", `decaf f = 1.0; f = 2`},
		{"mixed arithmetic", `brew 1 + 2.0`},
		{"string times", `brew "a" * "b"`},
		{"logical on ints", `brew 1 && 2`},
		{"not on int", `brew !1`},
		{"negate string", `brew -"a"`},
		{"if condition", `sugar 1 { brew 1 }`},
		{"while condition", `while "yes" { brew 1 }`},
		{"ternary condition", `brew 1 ? 2 : 3`},
		{"ternary branches", `brew true ? 2 : "3"`},
		{"argument", `brew sqrt("four")`},
		{"return value", `cup regular f -> () { complete 1.5 }`},
		{"increment float", `decaf f = 1.0; f++`},
		{"print void", `cup void v -> () { complete } brew v()`},
		{"void variable", `void v = 1`},
		{"class as value", `keurig C { create(self) { } } brew C`},
		{"field retype", `keurig C { create(self) { this.a = 1
this.a = "x" } }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectKind(t, tt.input, diagnostic.TypeMismatch)
		})
	}
}

func TestStringOperators(t *testing.T) {
	prog := mustAnalyze(t, `put s = "a" + "b"; boolean b = "a" < "b"; boolean e = s == "ab";`)
	s := prog.Statements[0].(*ir.VariableDeclaration)
	be.Equal(t, s.Initializer.ExprType(), types.String)
	b := prog.Statements[1].(*ir.VariableDeclaration)
	be.Equal(t, b.Initializer.ExprType(), types.Boolean)
}

func TestUntypedParameterAcceptsAnything(t *testing.T) {
	prog := mustAnalyze(t, `cup void show -> (v) { brew v }
show(1)
show("one")`)
	fn := prog.Statements[0].(*ir.FunctionDeclaration).Function
	be.Equal(t, fn.Type.String(), "(any)->void")
	be.True(t, fn.Type.Params[0] == types.Any)
}

func TestCalls(t *testing.T) {
	prog := mustAnalyze(t, `decaf h = hypot(3.0, 4.0)
brew sqrt(h)`)
	decl := prog.Statements[0].(*ir.VariableDeclaration)
	call := decl.Initializer.(*ir.FunctionCall)
	be.True(t, call.Callee == ir.Hypot)
	be.Equal(t, len(call.Args), 2)
	be.Equal(t, call.ExprType(), types.Float)

	printed := prog.Statements[1].(*ir.PrintStatement).Argument.(*ir.FunctionCall)
	be.True(t, printed.Callee == ir.Sqrt)
	be.True(t, printed.Args[0] == ir.Expr(decl.Variable))
}

func TestRecursiveFunction(t *testing.T) {
	prog := mustAnalyze(t, `cup regular fact -> (regular n) {
    sugar n <= 1 { complete 1 }
    complete n * fact(n - 1)
}
brew fact(5)`)
	fn := prog.Statements[0].(*ir.FunctionDeclaration)
	ret := fn.Body[1].(*ir.ReturnStatement)
	call := ret.Expression.(*ir.BinaryExpression).Right.(*ir.FunctionCall)
	be.True(t, call.Callee == fn.Function)
}

func TestCallErrors(t *testing.T) {
	expectKind(t, `brew sqrt(1.0, 2.0)`, diagnostic.ArityMismatch)
	expectKind(t, `brew hypot(1.0)`, diagnostic.ArityMismatch)
	expectKind(t, `regular x = 1; brew x(2)`, diagnostic.NotCallable)
	expectKind(t, `brew π()`, diagnostic.NotCallable)
	expectKind(t, `brew nothing()`, diagnostic.UndeclaredIdentifier)
}

func TestReadOnlyAssignment(t *testing.T) {
	expectKind(t, `π = 3.0`, diagnostic.ReadOnlyAssignment)
	expectKind(t, `cup void f -> (regular n) { n = 2 }`, diagnostic.ReadOnlyAssignment)
	expectKind(t, `cup void f -> (regular n) { n++ }`, diagnostic.ReadOnlyAssignment)
	expectKind(t, `sqrt = 1.0`, diagnostic.ReadOnlyAssignment)
	expectKind(t, `y = 1`, diagnostic.UndeclaredIdentifier)
}

func TestIfChainShapes(t *testing.T) {
	prog := mustAnalyze(t, `regular x = 2
sugar x < 1 { brew 1 } salt x < 2 { brew 2 } cream { brew 3 }
sugar x < 1 { brew 1 } salt x < 2 { brew 2 }`)

	full := prog.Statements[1].(*ir.IfStatement)
	nested := full.Alternate.(*ir.IfStatement)
	block := nested.Alternate.(*ir.Block)
	be.Equal(t, len(block.Statements), 1)

	open := prog.Statements[2].(*ir.IfStatement)
	tail := open.Alternate.(*ir.ShortIfStatement)
	be.Equal(t, len(tail.Consequent), 1)
}

func TestIncrementDecrement(t *testing.T) {
	prog := mustAnalyze(t, `regular i = 0
while i < 3 { i++ }
i--`)
	v := prog.Statements[0].(*ir.VariableDeclaration).Variable
	loop := prog.Statements[1].(*ir.WhileStatement)
	be.True(t, loop.Body[0].(*ir.Increment).Variable == v)
	be.True(t, prog.Statements[2].(*ir.Decrement).Variable == v)
}

func TestClassDeclaration(t *testing.T) {
	prog := mustAnalyze(t, `keurig Person {
    create(self, name, decaf height) {
        this.name = name
        this.tall = height > 1.9
    }
    cup put greet -> (self, put greeting) {
        complete greeting
    }
    cup put hello -> (self) {
        complete greet("hello")
    }
}`)
	decl := prog.Statements[0].(*ir.ClassDeclaration)
	be.Equal(t, decl.Class.Name, "Person")
	be.Equal(t, decl.Constructor.Constructor.ParamCount, 2)
	be.Equal(t, len(decl.Class.Fields), 2)
	be.Equal(t, decl.Class.Fields[0].Type, types.Any)
	be.Equal(t, decl.Class.Fields[1].Type, types.Boolean)
	be.True(t, decl.Constructor.Body[1].Field == decl.Class.FieldNamed("tall"))

	be.Equal(t, len(decl.Methods), 2)
	greet := decl.Methods[0]
	be.True(t, greet.Function.Method)
	be.True(t, greet.Receiver.Receiver)
	be.Equal(t, greet.Function.Type.String(), "(string)->string")

	call := decl.Methods[1].Body[0].(*ir.ReturnStatement).Expression.(*ir.FunctionCall)
	be.True(t, call.Callee == greet.Function)
}

func TestSelfIsReadOnly(t *testing.T) {
	expectKind(t, `keurig C {
    create(self) { }
    cup void m -> (self) { self = 1 }
}`, diagnostic.ReadOnlyAssignment)
}

func TestMethodsAreNotVisibleOutsideClass(t *testing.T) {
	expectKind(t, `keurig C {
    create(self) { }
    cup void m -> (self) { }
}
m()`, diagnostic.UndeclaredIdentifier)
}

func TestSyntaxErrorSurfacesFirst(t *testing.T) {
	err := expectKind(t, "regular x = \nregular = 3", diagnostic.SyntaxError)
	be.True(t, strings.Contains(err.Error(), "SyntaxError at "))
}

func TestIntegerOutOfRange(t *testing.T) {
	expectKind(t, `brew 99999999999999999999`, diagnostic.SyntaxError)
	expectKind(t, `regular big = 9223372036854775808`, diagnostic.SyntaxError)

	_, err := Analyze(`regular big = 9223372036854775807`)
	be.Err(t, err, nil)
}
