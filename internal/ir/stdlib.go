package ir

import "github.com/lhaig/coffeemaker/internal/types"

var floatToFloat = types.Function([]*types.Type{types.Float}, types.Float)

// Standard library entities. They are bound into the root scope of every
// analysis and never modified.
var (
	Pi    = &Variable{Name: "π", ReadOnly: true, Type: types.Float}
	Sqrt  = &Function{Name: "sqrt", Type: floatToFloat}
	Sin   = &Function{Name: "sin", Type: floatToFloat}
	Cos   = &Function{Name: "cos", Type: floatToFloat}
	Exp   = &Function{Name: "exp", Type: floatToFloat}
	Ln    = &Function{Name: "ln", Type: floatToFloat}
	Hypot = &Function{Name: "hypot", Type: types.Function([]*types.Type{types.Float, types.Float}, types.Float)}
)

// Stdlib returns the standard library in binding order.
func Stdlib() []Symbol {
	return []Symbol{Pi, Sqrt, Sin, Cos, Exp, Ln, Hypot}
}
