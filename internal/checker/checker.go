// Package checker implements the two-pass static type checker
// (spec.md §4.2). It annotates nothing in the tree; it only records an
// ordered list of TypeErrors and yields a pass/fail verdict.
package checker

import (
	"fmt"

	"github.com/pie-lang/pie/internal/ast"
	"github.com/pie-lang/pie/internal/types"
)

// TypeError is one static-checking violation.
type TypeError struct {
	Message string
}

func (e TypeError) Error() string { return e.Message }

// builtinSignatures lists the pre-registered builtins (spec.md §4.2,
// §6.5). Calls to them skip argument checking (variadic / any-type).
var builtinSignatures = map[string]types.Type{
	"print":    types.NewFunction(nil, types.TVoid),
	"io.print": types.NewFunction(nil, types.TVoid),
	"exit":     types.NewFunction(nil, types.TVoid),
	"len":      types.NewFunction(nil, types.TInt),
	"type":     types.NewFunction(nil, types.TString),
}

// Checker runs the two-pass check over one module.
type Checker struct {
	global      *Env
	structTypes map[string]types.Type
	errs        []TypeError
	currentFn   *types.Type // expected return type while inside a function body
}

// New creates a Checker with a fresh global scope pre-populated with builtins.
func New() *Checker {
	c := &Checker{global: NewEnv(), structTypes: map[string]types.Type{}}
	for name, sig := range builtinSignatures {
		c.global.Define(name, sig)
	}
	return c
}

// Check runs both passes over m and returns the collected errors and
// whether the module passes (the error list is empty).
func Check(m *ast.Module) ([]TypeError, bool) {
	c := New()
	c.pass1(m)
	c.pass2(m)
	return c.errs, len(c.errs) == 0
}

func (c *Checker) fail(format string, args ...any) types.Type {
	c.errs = append(c.errs, TypeError{Message: fmt.Sprintf(format, args...)})
	return types.TUnknown
}

// --- Pass 1: top-level signatures -----------------------------------------

func (c *Checker) pass1(m *ast.Module) {
	// Register struct names first so mutually-referencing struct
	// fields and forward function references both resolve.
	for _, sd := range m.Structs {
		c.structTypes[sd.Name] = types.NewStruct(sd.Name, nil, map[string]types.Type{})
	}
	for _, sd := range m.Structs {
		order := make([]string, 0, len(sd.Fields))
		fields := map[string]types.Type{}
		for _, f := range sd.Fields {
			order = append(order, f.Name)
			fields[f.Name] = c.resolveType(f.Type)
		}
		c.structTypes[sd.Name] = types.NewStruct(sd.Name, order, fields)
	}

	for _, fn := range m.Functions {
		params := make([]types.Type, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = c.resolveType(p.Type)
		}
		ret := types.TVoid
		if fn.ReturnType != nil {
			ret = c.resolveType(fn.ReturnType)
		}
		c.global.Define(fn.Name, types.NewFunction(params, ret))
	}
}

func (c *Checker) resolveType(t *ast.TypeAnnotation) types.Type {
	if t == nil {
		return types.TVoid
	}
	var base types.Type
	switch t.Name {
	case "int":
		base = types.TInt
	case "double":
		base = types.TDouble
	case "bool":
		base = types.TBool
	case "string":
		base = types.TString
	case "void":
		base = types.TVoid
	default:
		if st, ok := c.structTypes[t.Name]; ok {
			base = st
		} else {
			return c.fail("unknown type %q", t.Name)
		}
	}
	if t.IsArray {
		return types.NewArray(base)
	}
	return base
}

// --- Pass 2: function bodies ------------------------------------------------

func (c *Checker) pass2(m *ast.Module) {
	for _, fn := range m.Functions {
		c.checkFunction(fn)
	}
}

func (c *Checker) checkFunction(fn *ast.Function) {
	scope := c.global.Child()
	for _, p := range fn.Params {
		scope.Define(p.Name, c.resolveType(p.Type))
	}
	ret := types.TVoid
	if fn.ReturnType != nil {
		ret = c.resolveType(fn.ReturnType)
	}
	prevFn := c.currentFn
	c.currentFn = &ret
	for _, stmt := range fn.Body {
		c.checkStatement(stmt, scope)
	}
	c.currentFn = prevFn
}

func (c *Checker) checkStatement(n ast.Node, scope *Env) {
	switch node := n.(type) {
	case *ast.Let:
		c.checkLet(node, scope)
	case *ast.Assign:
		c.checkAssignStatement(node, scope)
	case *ast.Return:
		c.checkReturn(node, scope)
	case *ast.If:
		c.checkIf(node, scope)
	case *ast.Block:
		c.checkBlock(node, scope)
	default:
		// Bare expression statement (e.g. a call for its side effects).
		c.inferType(n, scope)
	}
}

func (c *Checker) checkLet(n *ast.Let, scope *Env) {
	if n.Type != nil {
		expected := c.resolveType(n.Type)
		if n.Init != nil {
			actual := c.inferType(n.Init, scope)
			if !assignable(actual, expected) {
				c.fail("cannot initialise %q of type %s with %s", n.Name, expected, actual)
			}
		}
		scope.Define(n.Name, expected)
		return
	}
	if n.Init == nil {
		c.fail("let %q requires an initialiser or a type annotation", n.Name)
		scope.Define(n.Name, types.TUnknown)
		return
	}
	actual := c.inferType(n.Init, scope)
	if actual.Tag == types.Unknown {
		c.fail("cannot infer type for %q", n.Name)
	}
	scope.Define(n.Name, actual)
}

func (c *Checker) checkAssignStatement(n *ast.Assign, scope *Env) {
	target, ok := scope.Resolve(n.Target)
	if !ok {
		c.fail("assignment to undeclared variable %q", n.Target)
		c.inferType(n.Value, scope)
		return
	}
	actual := c.inferType(n.Value, scope)
	if !assignable(actual, target) {
		c.fail("cannot assign %s to %q of type %s", actual, n.Target, target)
	}
}

func (c *Checker) checkReturn(n *ast.Return, scope *Env) {
	actual := types.TVoid
	if n.Value != nil {
		actual = c.inferType(n.Value, scope)
	}
	if c.currentFn != nil && !assignable(actual, *c.currentFn) {
		c.fail("return type %s is not assignable to function return type %s", actual, *c.currentFn)
	}
}

func (c *Checker) checkIf(n *ast.If, scope *Env) {
	cond := c.inferType(n.Cond, scope)
	if cond.Tag != types.Bool && cond.Tag != types.Unknown {
		c.fail("if condition must be bool, got %s", cond)
	}
	c.checkBlock(n.Then, scope)
	switch els := n.Else.(type) {
	case nil:
	case *ast.Block:
		c.checkBlock(els, scope)
	case *ast.If:
		c.checkIf(els, scope)
	}
}

func (c *Checker) checkBlock(n *ast.Block, scope *Env) {
	child := scope.Child()
	for _, stmt := range n.Statements {
		c.checkStatement(stmt, child)
	}
}

// assignable implements spec.md §4.2's assignability rule.
func assignable(actual, expected types.Type) bool {
	if actual.Tag == types.Unknown || expected.Tag == types.Unknown {
		return true
	}
	if actual.Equal(expected) {
		return true
	}
	return actual.Tag == types.Int && expected.Tag == types.Double
}

// promote implements spec.md §4.2's numeric promotion rule.
func promote(a, b types.Type) types.Type {
	if a.Tag == types.Double || b.Tag == types.Double {
		return types.TDouble
	}
	return types.TInt
}

func (c *Checker) inferType(n ast.Node, scope *Env) types.Type {
	switch node := n.(type) {
	case *ast.Int:
		return types.TInt
	case *ast.Double:
		return types.TDouble
	case *ast.String:
		return types.TString
	case *ast.Identifier:
		if t, ok := scope.Resolve(node.Name); ok {
			return t
		}
		return c.fail("undefined identifier %q", node.Name)
	case *ast.BinaryOp:
		return c.inferBinaryOp(node, scope)
	case *ast.UnaryOp:
		return c.inferUnaryOp(node, scope)
	case *ast.FunctionCall:
		return c.inferCall(node, scope)
	case *ast.StructLiteral:
		return c.inferStructLiteral(node, scope)
	case *ast.FieldAccess:
		return c.inferFieldAccess(node, scope)
	case *ast.Closure:
		params := make([]types.Type, len(node.Params))
		for i, p := range node.Params {
			params[i] = c.resolveType(p.Type)
		}
		ret := types.TVoid
		if node.ReturnType != nil {
			ret = c.resolveType(node.ReturnType)
		}
		return types.NewFunction(params, ret)
	default:
		return types.TVoid
	}
}

func (c *Checker) inferBinaryOp(n *ast.BinaryOp, scope *Env) types.Type {
	switch n.Op {
	case ast.And, ast.Or:
		lhs := c.inferType(n.LHS, scope)
		rhs := c.inferType(n.RHS, scope)
		if (lhs.Tag != types.Bool && lhs.Tag != types.Unknown) || (rhs.Tag != types.Bool && rhs.Tag != types.Unknown) {
			return c.fail("%s requires bool operands, got %s and %s", n.Op, lhs, rhs)
		}
		return types.TBool
	case ast.AddAssign, ast.SubAssign:
		ident, ok := n.LHS.(*ast.Identifier)
		if !ok {
			return c.fail("%s target must be an identifier", n.Op)
		}
		target, ok := scope.Resolve(ident.Name)
		if !ok {
			return c.fail("assignment to undeclared variable %q", ident.Name)
		}
		if !target.IsNumeric() && target.Tag != types.Unknown {
			return c.fail("%s requires a numeric variable, got %s", n.Op, target)
		}
		rhs := c.inferType(n.RHS, scope)
		if !assignable(rhs, target) {
			c.fail("cannot %s %s to %q of type %s", n.Op, rhs, ident.Name, target)
		}
		return target
	case ast.Add:
		lhs := c.inferType(n.LHS, scope)
		rhs := c.inferType(n.RHS, scope)
		if lhs.Tag == types.String || rhs.Tag == types.String {
			return types.TString
		}
		if !numericOrUnknown(lhs) || !numericOrUnknown(rhs) {
			return c.fail("+ requires numeric or string operands, got %s and %s", lhs, rhs)
		}
		return promote(lhs, rhs)
	case ast.Sub, ast.Mul, ast.Div:
		lhs := c.inferType(n.LHS, scope)
		rhs := c.inferType(n.RHS, scope)
		if !numericOrUnknown(lhs) || !numericOrUnknown(rhs) {
			return c.fail("%s requires numeric operands, got %s and %s", n.Op, lhs, rhs)
		}
		return promote(lhs, rhs)
	case ast.Mod:
		lhs := c.inferType(n.LHS, scope)
		rhs := c.inferType(n.RHS, scope)
		if (lhs.Tag != types.Int && lhs.Tag != types.Unknown) || (rhs.Tag != types.Int && rhs.Tag != types.Unknown) {
			return c.fail("%% requires int operands, got %s and %s", lhs, rhs)
		}
		return types.TInt
	case ast.Lt, ast.Gt, ast.Le, ast.Ge:
		lhs := c.inferType(n.LHS, scope)
		rhs := c.inferType(n.RHS, scope)
		if !numericOrUnknown(lhs) || !numericOrUnknown(rhs) {
			return c.fail("%s requires numeric operands, got %s and %s", n.Op, lhs, rhs)
		}
		return types.TBool
	case ast.Eq, ast.Ne:
		lhs := c.inferType(n.LHS, scope)
		rhs := c.inferType(n.RHS, scope)
		if lhs.Tag == types.Unknown || rhs.Tag == types.Unknown || lhs.Equal(rhs) || (numericOrUnknown(lhs) && numericOrUnknown(rhs)) {
			return types.TBool
		}
		return c.fail("%s requires comparable operands, got %s and %s", n.Op, lhs, rhs)
	case ast.AssignOp:
		return c.inferType(n.RHS, scope)
	default:
		return c.fail("unsupported binary operator %s", n.Op)
	}
}

func numericOrUnknown(t types.Type) bool {
	return t.IsNumeric() || t.Tag == types.Unknown
}

func (c *Checker) inferUnaryOp(n *ast.UnaryOp, scope *Env) types.Type {
	operand := c.inferType(n.Expr, scope)
	switch n.Op {
	case ast.Neg:
		if !numericOrUnknown(operand) {
			return c.fail("unary - requires a numeric operand, got %s", operand)
		}
		return operand
	case ast.Not:
		if operand.Tag != types.Bool && operand.Tag != types.Unknown {
			return c.fail("! requires a bool operand, got %s", operand)
		}
		return types.TBool
	case ast.Inc, ast.Dec:
		if operand.Tag != types.Int && operand.Tag != types.Unknown {
			return c.fail("%s requires an int operand, got %s", n.Op, operand)
		}
		return types.TInt
	default:
		return c.fail("unsupported unary operator %s", n.Op)
	}
}

func (c *Checker) inferCall(n *ast.FunctionCall, scope *Env) types.Type {
	if sig, ok := builtinSignatures[n.Callee]; ok {
		for _, arg := range n.Args {
			c.inferType(arg, scope)
		}
		return *sig.Return
	}
	sig, ok := scope.Resolve(n.Callee)
	if !ok {
		return c.fail("call to undefined function %q", n.Callee)
	}
	if sig.Tag != types.Function {
		return c.fail("%q is not callable", n.Callee)
	}
	if len(n.Args) != len(sig.Params) {
		c.fail("function %q expects %d argument(s), got %d", n.Callee, len(sig.Params), len(n.Args))
	}
	for i, arg := range n.Args {
		actual := c.inferType(arg, scope)
		if i < len(sig.Params) && !assignable(actual, sig.Params[i]) {
			c.fail("argument %d to %q: cannot assign %s to %s", i+1, n.Callee, actual, sig.Params[i])
		}
	}
	return *sig.Return
}

func (c *Checker) inferStructLiteral(n *ast.StructLiteral, scope *Env) types.Type {
	st, ok := c.structTypes[n.StructName]
	if !ok {
		return c.fail("unknown struct %q", n.StructName)
	}
	seen := map[string]bool{}
	for _, f := range n.Fields {
		declared, ok := st.Fields[f.Name]
		if !ok {
			c.fail("struct %q has no field %q", n.StructName, f.Name)
			c.inferType(f.Value, scope)
			continue
		}
		seen[f.Name] = true
		actual := c.inferType(f.Value, scope)
		if !assignable(actual, declared) {
			c.fail("field %q of struct %q: cannot assign %s to %s", f.Name, n.StructName, actual, declared)
		}
	}
	for _, name := range st.Order {
		if !seen[name] {
			c.fail("struct %q literal is missing field %q", n.StructName, name)
		}
	}
	return st
}

func (c *Checker) inferFieldAccess(n *ast.FieldAccess, scope *Env) types.Type {
	objType := c.inferType(n.Object, scope)
	if objType.Tag == types.Unknown {
		return types.TUnknown
	}
	if objType.Tag != types.Struct {
		return c.fail("field access on non-struct type %s", objType)
	}
	ft, ok := objType.Fields[n.Field]
	if !ok {
		return c.fail("struct %q has no field %q", objType.Name, n.Field)
	}
	return ft
}
