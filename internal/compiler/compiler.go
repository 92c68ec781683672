package compiler

import (
	"github.com/lhaig/coffeemaker/internal/analyzer"
	"github.com/lhaig/coffeemaker/internal/diagnostic"
	"github.com/lhaig/coffeemaker/internal/ir"
	"github.com/lhaig/coffeemaker/internal/jsbe"
	"github.com/lhaig/coffeemaker/internal/optimizer"
)

// Result holds the output of a compilation. Program is always set; JS is
// set only for the generated kinds.
type Result struct {
	Kind    OutputKind
	Program *ir.Program
	JS      string
}

// Text renders the result: JavaScript for the generated kinds, the JSON
// dump of the typed program otherwise.
func (r *Result) Text() (string, error) {
	if r.Kind.Generates() {
		return r.JS, nil
	}
	return ir.Dump(r.Program)
}

// Compile runs the pipeline up to the stage kind names:
// analyze -> optimize -> generate.
func Compile(source, kind string) (*Result, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}

	prog, err := analyzer.Analyze(source)
	if err != nil {
		return nil, err
	}
	res := &Result{Kind: k, Program: prog}
	if k == Analyzed {
		return res, nil
	}

	res.Program = optimizer.Optimize(prog)
	if k.Generates() {
		res.JS = jsbe.Generate(res.Program)
	}
	return res, nil
}

// Check runs parse + analysis only (no optimization or codegen).
func Check(source string) error {
	_, err := analyzer.Analyze(source)
	return err
}

// IsDiagnostic reports whether err is a located compilation failure rather
// than an I/O or usage problem.
func IsDiagnostic(err error) bool {
	_, ok := diagnostic.KindOf(err)
	return ok
}
