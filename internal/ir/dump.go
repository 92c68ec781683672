package ir

import (
	"encoding/json"
	"math"
)

// Dump renders a typed program as indented JSON. Every node becomes an
// object tagged with a "kind" field; symbol references render as small
// symbol objects so shared symbols appear wherever they are used.
func Dump(prog *Program) (string, error) {
	data, err := json.MarshalIndent(ProgramToMap(prog), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ProgramToMap converts a program to a map suitable for JSON serialization.
func ProgramToMap(prog *Program) map[string]interface{} {
	return m("Program", "statements", stmtSlice(prog.Statements))
}

// StmtToMap converts a statement to a map suitable for JSON serialization.
func StmtToMap(stmt Stmt) map[string]interface{} {
	switch s := stmt.(type) {
	case *VariableDeclaration:
		return m("VariableDeclaration", "variable", SymbolToMap(s.Variable), "initializer", ExprToMap(s.Initializer))
	case *FunctionDeclaration:
		return m("FunctionDeclaration",
			"function", SymbolToMap(s.Function),
			"params", variableSlice(s.Params),
			"body", stmtSlice(s.Body))
	case *ClassDeclaration:
		methods := make([]interface{}, len(s.Methods))
		for i, md := range s.Methods {
			methods[i] = m("MethodDeclaration",
				"function", SymbolToMap(md.Function),
				"params", variableSlice(md.Params),
				"body", stmtSlice(md.Body))
		}
		var ctor map[string]interface{}
		if s.Constructor != nil {
			body := make([]interface{}, len(s.Constructor.Body))
			for i, fa := range s.Constructor.Body {
				body[i] = StmtToMap(fa)
			}
			ctor = m("ConstructorDeclaration",
				"constructor", SymbolToMap(s.Constructor.Constructor),
				"params", variableSlice(s.Constructor.Params),
				"body", body)
		}
		return m("ClassDeclaration", "class", SymbolToMap(s.Class), "constructor", ctor, "methods", methods)
	case *Assignment:
		return m("Assignment", "target", SymbolToMap(s.Target), "source", ExprToMap(s.Source))
	case *FieldAssignment:
		return m("FieldAssignment", "field", SymbolToMap(s.Field), "source", ExprToMap(s.Source))
	case *PrintStatement:
		return m("PrintStatement", "argument", ExprToMap(s.Argument))
	case *WhileStatement:
		return m("WhileStatement", "test", ExprToMap(s.Test), "body", stmtSlice(s.Body))
	case *IfStatement:
		var alt interface{}
		switch a := s.Alternate.(type) {
		case *Block:
			alt = stmtSlice(a.Statements)
		case *IfStatement:
			alt = StmtToMap(a)
		case *ShortIfStatement:
			alt = StmtToMap(a)
		}
		return m("IfStatement", "test", ExprToMap(s.Test), "consequent", stmtSlice(s.Consequent), "alternate", alt)
	case *ShortIfStatement:
		return m("ShortIfStatement", "test", ExprToMap(s.Test), "consequent", stmtSlice(s.Consequent))
	case *ReturnStatement:
		if s.Expression == nil {
			return m("ReturnStatement")
		}
		return m("ReturnStatement", "expression", ExprToMap(s.Expression))
	case *Increment:
		return m("Increment", "variable", SymbolToMap(s.Variable))
	case *Decrement:
		return m("Decrement", "variable", SymbolToMap(s.Variable))
	case *CallStatement:
		return m("CallStatement", "call", ExprToMap(s.Call))
	}
	return nil
}

// ExprToMap converts an expression to a map suitable for JSON serialization.
func ExprToMap(expr Expr) map[string]interface{} {
	switch e := expr.(type) {
	case *BinaryExpression:
		return m("BinaryExpression", "op", e.Op.Symbol(),
			"left", ExprToMap(e.Left), "right", ExprToMap(e.Right), "type", e.Type.String())
	case *UnaryExpression:
		return m("UnaryExpression", "op", e.Op.Symbol(), "operand", ExprToMap(e.Operand), "type", e.Type.String())
	case *Conditional:
		return m("Conditional", "test", ExprToMap(e.Test),
			"consequent", ExprToMap(e.Consequent), "alternate", ExprToMap(e.Alternate), "type", e.Type.String())
	case *FunctionCall:
		args := make([]interface{}, len(e.Args))
		for i, a := range e.Args {
			args[i] = ExprToMap(a)
		}
		return m("FunctionCall", "callee", SymbolToMap(e.Callee), "args", args, "type", e.Type.String())
	case *Variable, *Function:
		return SymbolToMap(expr.(Symbol))
	case IntLit:
		return m("IntLit", "value", e.Value)
	case FloatLit:
		return m("FloatLit", "value", floatValue(e.Value))
	case StringLit:
		return m("StringLit", "value", e.Value)
	case BoolLit:
		return m("BoolLit", "value", e.Value)
	}
	return nil
}

// SymbolToMap converts a symbol reference to a map.
func SymbolToMap(sym Symbol) map[string]interface{} {
	switch s := sym.(type) {
	case *Variable:
		out := m("Variable", "name", s.Name, "type", s.Type.String(), "readOnly", s.ReadOnly)
		if s.Receiver {
			out["receiver"] = true
		}
		return out
	case *Function:
		return m("Function", "name", s.Name, "type", s.Type.String(), "method", s.Method)
	case *Class:
		fields := make([]interface{}, len(s.Fields))
		for i, f := range s.Fields {
			fields[i] = SymbolToMap(f)
		}
		return m("Class", "name", s.Name, "fields", fields)
	case *Constructor:
		return m("Constructor", "name", s.Name, "paramCount", s.ParamCount)
	case *Field:
		return m("Field", "name", s.Name, "type", s.Type.String())
	}
	return nil
}

// m builds a map with "kind" set and alternating key-value pairs.
func m(kind string, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{"kind": kind}
	for i := 0; i+1 < len(kvs); i += 2 {
		result[kvs[i].(string)] = kvs[i+1]
	}
	return result
}

func stmtSlice(stmts []Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = StmtToMap(s)
	}
	return result
}

func variableSlice(vars []*Variable) []interface{} {
	result := make([]interface{}, len(vars))
	for i, v := range vars {
		result[i] = SymbolToMap(v)
	}
	return result
}

// floatValue keeps finite floats numeric and spells the others the way
// JavaScript does, since JSON has no literal for them.
func floatValue(v float64) interface{} {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return v
}
