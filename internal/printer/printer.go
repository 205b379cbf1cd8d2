// Package printer implements the pretty printer (spec.md §4.1): a pure
// traversal with no error paths, producing deterministic,
// source-equivalent text for any AST valid by ast's node shapes.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pie-lang/pie/internal/ast"
)

const indentUnit = "    "

// Print renders a full module: "module NAME", then imports, then all
// struct definitions, then all functions, each group in declaration
// order.
func Print(m *ast.Module) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "module %s\n", m.Name)
	for _, imp := range m.Imports {
		printImport(&sb, imp)
	}
	for _, sd := range m.Structs {
		printStructDef(&sb, sd, 0)
	}
	for _, fn := range m.Functions {
		printFunction(&sb, fn, 0)
	}
	return sb.String()
}

func printImport(sb *strings.Builder, imp *ast.Import) {
	if imp.Visibility == ast.Public {
		sb.WriteString("public ")
	}
	sb.WriteString("import ")
	sb.WriteString(imp.ModuleName)
	if imp.ImportAll {
		sb.WriteString(".*")
	}
	sb.WriteString("\n")
}

func printStructDef(sb *strings.Builder, sd *ast.StructDef, depth int) {
	writeIndent(sb, depth)
	fmt.Fprintf(sb, "struct %s {\n", sd.Name)
	for _, f := range sd.Fields {
		writeIndent(sb, depth+1)
		fmt.Fprintf(sb, "%s: %s\n", f.Name, typeString(f.Type))
	}
	writeIndent(sb, depth)
	sb.WriteString("}\n")
}

func printFunction(sb *strings.Builder, fn *ast.Function, depth int) {
	writeIndent(sb, depth)
	if fn.Visibility == ast.Public {
		sb.WriteString("public ")
	}
	sb.WriteString("fn ")
	sb.WriteString(fn.Name)
	sb.WriteString("(")
	for i, p := range fn.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "%s: %s", p.Name, typeString(p.Type))
	}
	sb.WriteString(")")
	if fn.ReturnType != nil {
		sb.WriteString(" : ")
		sb.WriteString(typeString(fn.ReturnType))
	}
	sb.WriteString(" {\n")
	for _, stmt := range fn.Body {
		printStatement(sb, stmt, depth+1)
	}
	writeIndent(sb, depth)
	sb.WriteString("}\n")
}

func typeString(t *ast.TypeAnnotation) string {
	if t == nil {
		return "void"
	}
	if t.IsArray {
		return t.Name + "[]"
	}
	return t.Name
}

func writeIndent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat(indentUnit, depth))
}

func printStatement(sb *strings.Builder, n ast.Node, depth int) {
	writeIndent(sb, depth)
	switch node := n.(type) {
	case *ast.Let:
		sb.WriteString("let ")
		sb.WriteString(node.Name)
		if node.Type != nil {
			sb.WriteString(": ")
			sb.WriteString(typeString(node.Type))
		}
		if node.Init != nil {
			sb.WriteString(" = ")
			sb.WriteString(printExpr(node.Init))
		}
		sb.WriteString("\n")
	case *ast.Assign:
		sb.WriteString(node.Target)
		sb.WriteString(" = ")
		sb.WriteString(printExpr(node.Value))
		sb.WriteString("\n")
	case *ast.Return:
		sb.WriteString("return")
		if node.Value != nil {
			sb.WriteString(" ")
			sb.WriteString(printExpr(node.Value))
		}
		sb.WriteString("\n")
	case *ast.BinaryOp:
		if node.Op == ast.AddAssign || node.Op == ast.SubAssign {
			// Printed as surface compound-assign syntax, not the
			// parenthesised infix form printExpr uses everywhere else:
			// "(a += 2)" is not a statement the parser accepts.
			sb.WriteString(printExpr(node.LHS))
			sb.WriteString(" ")
			sb.WriteString(node.Op.String())
			sb.WriteString(" ")
			sb.WriteString(printExpr(node.RHS))
			sb.WriteString("\n")
			return
		}
		sb.WriteString(printExpr(node))
		sb.WriteString("\n")
	case *ast.If:
		printIf(sb, node, depth)
	case *ast.Block:
		sb.WriteString("{\n")
		for _, stmt := range node.Statements {
			printStatement(sb, stmt, depth+1)
		}
		writeIndent(sb, depth)
		sb.WriteString("}\n")
	default:
		// A bare expression statement (e.g. a call used for its effects).
		sb.WriteString(printExpr(n))
		sb.WriteString("\n")
	}
}

func printIf(sb *strings.Builder, n *ast.If, depth int) {
	sb.WriteString("if (")
	sb.WriteString(printExpr(n.Cond))
	sb.WriteString(") {\n")
	for _, stmt := range n.Then.Statements {
		printStatement(sb, stmt, depth+1)
	}
	writeIndent(sb, depth)
	sb.WriteString("}")
	switch els := n.Else.(type) {
	case nil:
		sb.WriteString("\n")
	case *ast.Block:
		sb.WriteString(" else {\n")
		for _, stmt := range els.Statements {
			printStatement(sb, stmt, depth+1)
		}
		writeIndent(sb, depth)
		sb.WriteString("}\n")
	case *ast.If:
		sb.WriteString(" else ")
		// The nested if continues on this line at the same depth;
		// printIf writes no leading indent of its own (printStatement
		// does), so the trim only guards against a stray one.
		var inner strings.Builder
		printIf(&inner, els, depth)
		sb.WriteString(strings.TrimLeft(inner.String(), " "))
	}
}

// printExpr renders an expression. Binary and unary expressions are
// always parenthesised around the operator by design (spec.md §4.1),
// so round-tripping is unambiguous even though the surface grammar has
// precedence.
func printExpr(n ast.Node) string {
	switch node := n.(type) {
	case *ast.Int:
		return strconv.FormatInt(node.Value, 10)
	case *ast.Double:
		return strconv.FormatFloat(node.Value, 'g', -1, 64)
	case *ast.String:
		return `"` + node.Value + `"`
	case *ast.Identifier:
		return node.Name
	case *ast.BinaryOp:
		return "(" + printExpr(node.LHS) + " " + node.Op.String() + " " + printExpr(node.RHS) + ")"
	case *ast.UnaryOp:
		return "(" + node.Op.String() + printExpr(node.Expr) + ")"
	case *ast.FunctionCall:
		var sb strings.Builder
		sb.WriteString(node.Callee)
		sb.WriteString("(")
		for i, a := range node.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(printExpr(a))
		}
		sb.WriteString(")")
		return sb.String()
	case *ast.StructLiteral:
		var sb strings.Builder
		sb.WriteString(node.StructName)
		sb.WriteString(" { ")
		for i, f := range node.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s: %s", f.Name, printExpr(f.Value))
		}
		sb.WriteString(" }")
		return sb.String()
	case *ast.FieldAccess:
		return printExpr(node.Object) + "." + node.Field
	case *ast.Closure:
		var sb strings.Builder
		sb.WriteString("fn(")
		for i, p := range node.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s: %s", p.Name, typeString(p.Type))
		}
		sb.WriteString(") { ... }")
		return sb.String()
	default:
		return fmt.Sprintf("<%s>", n.Kind())
	}
}

// Describe renders a short one-line summary of a node for the
// debugger (spec.md §4.4): the first non-empty line of its printed
// form, with a dedicated summary for modules, functions, and blocks
// (whose full text would span many lines).
func Describe(n ast.Node) string {
	switch node := n.(type) {
	case *ast.Module:
		return fmt.Sprintf("module %s", node.Name)
	case *ast.Function:
		return fmt.Sprintf("fn %s/%d", node.Name, len(node.Params))
	case *ast.Block:
		return fmt.Sprintf("block (%d statements)", len(node.Statements))
	case *ast.If:
		return fmt.Sprintf("if (%s)", printExpr(node.Cond))
	case *ast.Let:
		return fmt.Sprintf("let %s", node.Name)
	case *ast.Return:
		if node.Value == nil {
			return "return"
		}
		return "return " + printExpr(node.Value)
	default:
		text := printExpr(n)
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) != "" {
				return line
			}
		}
		return n.Kind().String()
	}
}
