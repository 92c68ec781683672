package linter

import (
	"strings"
	"testing"

	"github.com/lhaig/coffeemaker/internal/diagnostic"
	"github.com/lhaig/coffeemaker/internal/parser"
	"github.com/nalgeon/be"
)

func parseAndLint(t *testing.T, source string) []string {
	t.Helper()
	p := parser.New(source)
	prog := p.Parse()

	if p.Diagnostics().HasErrors() {
		t.Fatalf("Parser errors: %s", p.Diagnostics().Format("test"))
	}

	diag := Lint(prog)
	var warnings []string
	for _, d := range diag.All() {
		if d.Severity != diagnostic.Warning {
			t.Fatalf("lint produced a non-warning: %s", d.Message)
		}
		warnings = append(warnings, d.Message)
	}
	return warnings
}

func containsWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

// --- Empty function body ---

func TestEmptyFunctionBody(t *testing.T) {
	warnings := parseAndLint(t, `cup void noop -> () {
}
noop()`)
	be.True(t, containsWarning(warnings, "function 'noop' has an empty body"))
}

func TestEmptyMethodBody(t *testing.T) {
	warnings := parseAndLint(t, `keurig Mug {
    create(self) {}
    cup void wash -> (self) {}
}`)
	be.True(t, containsWarning(warnings, "function 'Mug.wash' has an empty body"))
}

func TestNonEmptyFunctionBodyNoWarning(t *testing.T) {
	warnings := parseAndLint(t, `cup regular one -> () {
    complete 1
}
brew one()`)
	be.Equal(t, len(warnings), 0)
}

// --- Naming ---

func TestFunctionNaming(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"brewCoffee", true},
		{"brew_coffee", false},
		{"BrewCoffee", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := parseAndLint(t, "cup void "+tt.name+" -> () { brew 1 }")
			be.Equal(t, !containsWarning(warnings, "lowerCamelCase"), tt.ok)
		})
	}
}

func TestClassNaming(t *testing.T) {
	warnings := parseAndLint(t, `keurig espresso_machine { create(self) {} }`)
	be.True(t, containsWarning(warnings, "class 'espresso_machine' should use PascalCase naming"))

	warnings = parseAndLint(t, `keurig EspressoMachine { create(self) {} }`)
	be.Equal(t, len(warnings), 0)
}

// --- Unused names ---

func TestUnusedVariable(t *testing.T) {
	warnings := parseAndLint(t, `cup regular f -> () {
    regular unused = 1
    complete 2
}
brew f()`)
	be.True(t, containsWarning(warnings, "variable 'unused' is declared but never used"))
}

func TestTopLevelVariableUsedInFunctionNoWarning(t *testing.T) {
	warnings := parseAndLint(t, `regular total = 0
cup void add -> (regular n) {
    total = total + n
}
add(1)`)
	be.Equal(t, len(warnings), 0)
}

func TestIncrementCountsAsUse(t *testing.T) {
	warnings := parseAndLint(t, "regular i = 0\ni++")
	be.Equal(t, len(warnings), 0)
}

func TestUnusedVariableInNestedBlock(t *testing.T) {
	warnings := parseAndLint(t, `regular x = 1
while x < 3 {
    sugar x == 2 {
        put label = "two"
    }
    x++
}`)
	be.True(t, containsWarning(warnings, "variable 'label' is declared but never used"))
	be.True(t, !containsWarning(warnings, "'x'"))
}

func TestUnusedParameter(t *testing.T) {
	warnings := parseAndLint(t, `cup regular first -> (regular a, regular b) {
    complete a
}
brew first(1, 2)`)
	be.True(t, containsWarning(warnings, "parameter 'b' in 'first' is never used"))
	be.True(t, !containsWarning(warnings, "parameter 'a'"))
}

func TestUnusedConstructorAndMethodParameters(t *testing.T) {
	warnings := parseAndLint(t, `keurig Cup {
    create(self, decaf size, put label) {
        this.size = size
    }
    cup decaf scaled -> (self, decaf factor, decaf unused) {
        complete factor * 2.0
    }
}`)
	be.True(t, containsWarning(warnings, "parameter 'label' in 'Cup.create' is never used"))
	be.True(t, containsWarning(warnings, "parameter 'unused' in 'Cup.scaled' is never used"))
	be.True(t, !containsWarning(warnings, "'size'"))
	be.True(t, !containsWarning(warnings, "'factor'"))
}

// --- Dead code ---

func TestConstantConditions(t *testing.T) {
	warnings := parseAndLint(t, `sugar true { brew 1 } salt false { brew 2 }
while false { brew 3 }
while true { brew 4 }`)
	be.True(t, containsWarning(warnings, "condition is always true"))
	be.True(t, containsWarning(warnings, "condition is always false"))
	be.Equal(t, strings.Count(strings.Join(warnings, "\n"), "loop body never runs"), 1)
}

func TestSelfAssignment(t *testing.T) {
	warnings := parseAndLint(t, "regular x = 1\nx = x\nbrew x")
	be.Equal(t, len(warnings), 1)
	be.Equal(t, warnings[0], "assignment of 'x' to itself has no effect")
}

// --- Whole programs ---

func TestLintCleanProgram(t *testing.T) {
	warnings := parseAndLint(t, `keurig Circle {
    create(self, decaf radius) {
        this.radius = radius
    }
    cup decaf area -> (self, decaf r) {
        complete π * r ** 2.0
    }
}

cup regular fact -> (regular n) {
    sugar n <= 1 {
        complete 1
    }
    complete n * fact(n - 1)
}

brew fact(5)`)
	be.Equal(t, len(warnings), 0)
}

func TestWarningPositions(t *testing.T) {
	p := parser.New("brew 1\n  regular lonely = 2")
	diag := Lint(p.Parse())
	all := diag.All()
	be.Equal(t, len(all), 1)
	be.Equal(t, all[0].Line, 2)
	be.Equal(t, all[0].Column, 3)
	be.True(t, !diag.HasErrors())
}

// --- Naming helpers ---

func TestIsCamelCase(t *testing.T) {
	be.True(t, isCamelCase("area"))
	be.True(t, isCamelCase("birthDate"))
	be.True(t, isCamelCase("π"))
	be.True(t, !isCamelCase(""))
	be.True(t, !isCamelCase("Area"))
	be.True(t, !isCamelCase("birth_date"))
}

func TestIsPascalCase(t *testing.T) {
	be.True(t, isPascalCase("Person"))
	be.True(t, isPascalCase("CoffeeCup"))
	be.True(t, !isPascalCase(""))
	be.True(t, !isPascalCase("person"))
	be.True(t, !isPascalCase("Coffee_Cup"))
}
