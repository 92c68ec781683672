package types

import (
	"strings"

	"github.com/lhaig/coffeemaker/internal/ast"
	"github.com/lhaig/coffeemaker/internal/lexer"
)

// Type represents a type in the CoffeeMaker type system. Primitive types
// are the package-level singletons; function types are built with Function
// and compare structurally by their rendered signature.
type Type struct {
	Name       string // "int", "float", "string", "boolean", "void", "any", or "function"
	IsFunction bool
	Params     []*Type // function parameter types, in order
	Return     *Type   // function return type
}

// Builtin types
var (
	Int     = &Type{Name: "int"}
	Float   = &Type{Name: "float"}
	String  = &Type{Name: "string"}
	Boolean = &Type{Name: "boolean"}
	Void    = &Type{Name: "void"}
	Any     = &Type{Name: "any"}
)

// Function builds a function type.
func Function(params []*Type, ret *Type) *Type {
	return &Type{
		Name:       "function",
		IsFunction: true,
		Params:     params,
		Return:     ret,
	}
}

// String renders the type. Function types render as (p1,p2)->r.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	if !t.IsFunction {
		return t.Name
	}
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ",") + ")->" + t.Return.String()
}

// Equal reports whether two types are the same type.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t == other {
		return true
	}
	if t.IsFunction != other.IsFunction {
		return false
	}
	if t.IsFunction {
		return t.String() == other.String()
	}
	return t.Name == other.Name
}

// IsNumeric reports whether t is int or float.
func (t *Type) IsNumeric() bool {
	return t.Equal(Int) || t.Equal(Float)
}

// AssignableTo reports whether a value of type t may be stored in a
// location of type target. There is no implicit widening.
func (t *Type) AssignableTo(target *Type) bool {
	return target.Equal(Any) || t.Equal(target)
}

// Resolve maps a written type to its Type. A missing annotation means any.
func Resolve(ref *ast.TypeRef) *Type {
	if ref == nil {
		return Any
	}
	switch ref.Kind {
	case lexer.INT_TYPE:
		return Int
	case lexer.FLOAT_TYPE:
		return Float
	case lexer.STRING_TYPE:
		return String
	case lexer.BOOL_TYPE:
		return Boolean
	case lexer.VOID_TYPE:
		return Void
	}
	return nil
}
