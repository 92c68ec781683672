package compiler

import (
	"strings"
	"testing"

	"github.com/lhaig/coffeemaker/internal/diagnostic"
	"github.com/lhaig/coffeemaker/internal/fixture"
	"github.com/lhaig/coffeemaker/internal/ir"
	"github.com/nalgeon/be"
)

func TestCompileKinds(t *testing.T) {
	source := `regular x = 1 + 3
x = x
brew x`

	analyzed, err := Compile(source, "analyzed")
	be.Err(t, err, nil)
	be.Equal(t, len(analyzed.Program.Statements), 3)
	be.Equal(t, analyzed.JS, "")

	optimized, err := Compile(source, "optimized")
	be.Err(t, err, nil)
	be.Equal(t, len(optimized.Program.Statements), 2)
	decl := optimized.Program.Statements[0].(*ir.VariableDeclaration)
	be.Equal(t, decl.Initializer, ir.Expr(ir.IntLit{Value: 4}))
	be.Equal(t, len(ir.Validate(optimized.Program)), 0)

	want := "let x_1 = 4;\nconsole.log(x_1);\n"
	for _, kind := range []string{"js", "generated"} {
		res, err := Compile(source, kind)
		be.Err(t, err, nil)
		be.Equal(t, res.JS, want)
		text, err := res.Text()
		be.Err(t, err, nil)
		be.Equal(t, text, want)
	}
}

func TestCompileResultTextDumpsProgram(t *testing.T) {
	res, err := Compile(`brew π`, "optimized")
	be.Err(t, err, nil)

	text, err := res.Text()
	be.Err(t, err, nil)
	be.True(t, strings.Contains(text, `"kind": "PrintStatement"`))
	be.True(t, strings.Contains(text, `"name": "π"`))
}

func TestCompileNonFiniteFolds(t *testing.T) {
	tests := []struct {
		source string
		dump   string
		js     string
	}{
		{"brew 1e308 * 10.0", `"value": "Infinity"`, "console.log(Infinity);\n"},
		{"brew (-8.0) ** (1.0 / 3.0)", `"value": "NaN"`, "console.log(NaN);\n"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			res, err := Compile(tt.source, "optimized")
			be.Err(t, err, nil)
			text, err := res.Text()
			be.Err(t, err, nil)
			be.True(t, strings.Contains(text, tt.dump))

			res, err = Compile(tt.source, "js")
			be.Err(t, err, nil)
			be.Equal(t, res.JS, tt.js)
		})
	}
}

func TestCompileUnknownKind(t *testing.T) {
	_, err := Compile(`brew 1`, "wasm")
	kind, ok := diagnostic.KindOf(err)
	be.True(t, ok)
	be.Equal(t, kind, diagnostic.UnknownOutputKind)
	be.True(t, strings.Contains(err.Error(), `"wasm"`))
}

func TestCompileChecksKindBeforeSource(t *testing.T) {
	_, err := Compile(`brew y`, "bogus")
	kind, _ := diagnostic.KindOf(err)
	be.Equal(t, kind, diagnostic.UnknownOutputKind)
}

func TestCompileStopsAtFirstError(t *testing.T) {
	_, err := Compile("cup void f -> () {\n    complete 5\n}", "js")
	kind, ok := diagnostic.KindOf(err)
	be.True(t, ok)
	be.Equal(t, kind, diagnostic.IllegalReturn)
	be.True(t, strings.Contains(err.Error(), "at 2:5"))
	be.True(t, IsDiagnostic(err))
}

func TestCheck(t *testing.T) {
	be.Err(t, Check(`regular x = 1; x++`), nil)

	err := Check(`regular x = `)
	kind, ok := diagnostic.KindOf(err)
	be.True(t, ok)
	be.Equal(t, kind, diagnostic.SyntaxError)
}

func TestCompilePrograms(t *testing.T) {
	cases, err := fixture.Load("testdata/programs.md")
	be.Err(t, err, nil)

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			for _, a := range tc.Assertions {
				switch a.Type {
				case fixture.AssertOptimizedJS:
					res, err := Compile(tc.Source, "js")
					be.Err(t, err, nil)
					be.Equal(t, strings.TrimRight(res.JS, "\n"), a.Content)
				case fixture.AssertError:
					err := Check(tc.Source)
					if err == nil {
						t.Fatalf("expected %s, got none", a.Content)
					}
					kind, _ := diagnostic.KindOf(err)
					be.Equal(t, kind.String(), a.Content)
				default:
					t.Fatalf("line %d: %s assertions are not used for whole programs", a.Line, a.Type)
				}
			}
		})
	}
}
