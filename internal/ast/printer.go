package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print returns a tree-like string representation of the syntax tree for debugging
func Print(node Node) string {
	var sb strings.Builder
	printNode(&sb, node, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, node Node, indent int) {
	if node == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *Program:
		sb.WriteString(prefix + "Program\n")
		for _, stmt := range n.Statements {
			printNode(sb, stmt, indent+1)
		}

	case *VarDecl:
		sb.WriteString(fmt.Sprintf("%sVar: %s %s = %s\n", prefix, n.Type.Name, n.Name, FormatExpr(n.Value)))

	case *FunctionDecl:
		sb.WriteString(fmt.Sprintf("%sFunction: %s -> %s\n", prefix, n.Name, n.ReturnType.Name))
		printParams(sb, n.Params, prefix, indent)
		if n.Body != nil {
			sb.WriteString(fmt.Sprintf("%s  Body:\n", prefix))
			printNode(sb, n.Body, indent+2)
		}

	case *Param:
		if n.Type == nil {
			sb.WriteString(fmt.Sprintf("%s%s\n", prefix, n.Name))
		} else {
			sb.WriteString(fmt.Sprintf("%s%s: %s\n", prefix, n.Name, n.Type.Name))
		}

	case *ClassDecl:
		sb.WriteString(fmt.Sprintf("%sClass: %s\n", prefix, n.Name))
		if n.Constructor != nil {
			sb.WriteString(fmt.Sprintf("%s  Constructor:\n", prefix))
			printNode(sb, n.Constructor, indent+2)
		}
		if len(n.Methods) > 0 {
			sb.WriteString(fmt.Sprintf("%s  Methods:\n", prefix))
			for _, m := range n.Methods {
				printNode(sb, m, indent+2)
			}
		}

	case *ConstructorDecl:
		printParams(sb, n.Params, strings.Repeat("  ", indent-1), indent-1)
		for _, f := range n.Fields {
			printNode(sb, f, indent)
		}

	case *FieldAssign:
		sb.WriteString(fmt.Sprintf("%sthis.%s = %s\n", prefix, n.Field, FormatExpr(n.Value)))

	case *MethodDecl:
		sb.WriteString(fmt.Sprintf("%sMethod: %s -> %s\n", prefix, n.Name, n.ReturnType.Name))
		printParams(sb, n.Params, prefix, indent)
		if n.Body != nil {
			sb.WriteString(fmt.Sprintf("%s  Body:\n", prefix))
			printNode(sb, n.Body, indent+2)
		}

	case *Block:
		for _, stmt := range n.Statements {
			printNode(sb, stmt, indent)
		}

	case *AssignStmt:
		sb.WriteString(fmt.Sprintf("%sAssign: %s = %s\n", prefix, n.Name, FormatExpr(n.Value)))

	case *IncDecStmt:
		sb.WriteString(fmt.Sprintf("%s%s%s\n", prefix, n.Name, n.Op.Symbol()))

	case *PrintStmt:
		sb.WriteString(fmt.Sprintf("%sPrint: %s\n", prefix, FormatExpr(n.Value)))

	case *ReturnStmt:
		if n.Value == nil {
			sb.WriteString(prefix + "Return\n")
		} else {
			sb.WriteString(fmt.Sprintf("%sReturn: %s\n", prefix, FormatExpr(n.Value)))
		}

	case *IfStmt:
		sb.WriteString(fmt.Sprintf("%sIf: %s\n", prefix, FormatExpr(n.Condition)))
		sb.WriteString(fmt.Sprintf("%s  Then:\n", prefix))
		printNode(sb, n.Then, indent+2)
		if n.Else != nil {
			sb.WriteString(fmt.Sprintf("%s  Else:\n", prefix))
			printNode(sb, n.Else, indent+2)
		}

	case *WhileStmt:
		sb.WriteString(fmt.Sprintf("%sWhile: %s\n", prefix, FormatExpr(n.Condition)))
		printNode(sb, n.Body, indent+1)

	case *ExprStmt:
		sb.WriteString(fmt.Sprintf("%sExpr: %s\n", prefix, FormatExpr(n.Expr)))

	case Expression:
		sb.WriteString(prefix + FormatExpr(n) + "\n")

	default:
		sb.WriteString(fmt.Sprintf("%sUnknown node type: %T\n", prefix, node))
	}
}

func printParams(sb *strings.Builder, params []*Param, prefix string, indent int) {
	if len(params) == 0 {
		sb.WriteString(fmt.Sprintf("%s  Params: none\n", prefix))
		return
	}
	sb.WriteString(fmt.Sprintf("%s  Params:\n", prefix))
	for _, p := range params {
		printNode(sb, p, indent+2)
	}
}

// FormatExpr renders an expression on one line with every compound
// subexpression parenthesised, which makes grouping visible.
func FormatExpr(expr Expression) string {
	switch e := expr.(type) {
	case nil:
		return "<nil>"
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", FormatExpr(e.Left), e.Op.Symbol(), FormatExpr(e.Right))
	case *UnaryExpr:
		return fmt.Sprintf("(%s%s)", e.Op.Symbol(), FormatExpr(e.Operand))
	case *ConditionalExpr:
		return fmt.Sprintf("(%s ? %s : %s)", FormatExpr(e.Condition), FormatExpr(e.Then), FormatExpr(e.Else))
	case *CallExpr:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = FormatExpr(a)
		}
		return fmt.Sprintf("%s(%s)", e.Function, strings.Join(args, ", "))
	case *Identifier:
		return e.Name
	case *IntLit:
		return e.Value
	case *FloatLit:
		return e.Value
	case *StringLit:
		return strconv.Quote(e.Value)
	case *BoolLit:
		return strconv.FormatBool(e.Value)
	default:
		return fmt.Sprintf("<%T>", expr)
	}
}
