package eval

import (
	"github.com/pie-lang/pie/internal/ast"
)

func (e *Evaluator) evalBinaryOp(n *ast.BinaryOp, env *Environment) (Value, error) {
	switch n.Op {
	case ast.And:
		return e.evalShortCircuit(n, env, false)
	case ast.Or:
		return e.evalShortCircuit(n, env, true)
	case ast.AddAssign, ast.SubAssign:
		return e.evalCompoundAssign(n, env)
	}

	lhs, err := e.eval(n.LHS, env)
	if err != nil {
		return nil, err
	}
	rhs, err := e.eval(n.RHS, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case ast.Add:
		return evalAdd(lhs, rhs)
	case ast.Sub:
		return numericOp(lhs, rhs, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case ast.Mul:
		return numericOp(lhs, rhs, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	case ast.Div:
		return evalDiv(lhs, rhs)
	case ast.Mod:
		return evalMod(lhs, rhs)
	case ast.Lt, ast.Gt, ast.Le, ast.Ge:
		return evalOrderComparison(n.Op, lhs, rhs)
	case ast.Eq:
		return Bool(valuesEqual(lhs, rhs)), nil
	case ast.Ne:
		return Bool(!valuesEqual(lhs, rhs)), nil
	case ast.AssignOp:
		return rhs, nil
	default:
		return nil, runtimeErrorf("unsupported binary operator %s", n.Op)
	}
}

// evalShortCircuit implements And/Or: left-to-right, short-circuit,
// producing Bool of the last evaluated operand's truthiness.
func (e *Evaluator) evalShortCircuit(n *ast.BinaryOp, env *Environment, stopOnTrue bool) (Value, error) {
	lhs, err := e.eval(n.LHS, env)
	if err != nil {
		return nil, err
	}
	if Truthy(lhs) == stopOnTrue {
		return Bool(Truthy(lhs)), nil
	}
	rhs, err := e.eval(n.RHS, env)
	if err != nil {
		return nil, err
	}
	return Bool(Truthy(rhs)), nil
}

func (e *Evaluator) evalCompoundAssign(n *ast.BinaryOp, env *Environment) (Value, error) {
	ident, ok := n.LHS.(*ast.Identifier)
	if !ok {
		return nil, runtimeErrorf("assignment target must be an identifier")
	}
	current, ok := env.Get(ident.Name)
	if !ok {
		return nil, runtimeErrorf("undefined variable %q", ident.Name)
	}
	rhs, err := e.eval(n.RHS, env)
	if err != nil {
		return nil, err
	}

	var updated Value
	switch n.Op {
	case ast.AddAssign:
		updated, err = evalAdd(current, rhs)
	case ast.SubAssign:
		updated, err = numericOp(current, rhs, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	}
	if err != nil {
		return nil, err
	}
	if !env.Set(ident.Name, updated) {
		return nil, runtimeErrorf("undefined variable %q", ident.Name)
	}
	return updated, nil
}

func evalAdd(lhs, rhs Value) (Value, error) {
	if isString(lhs) || isString(rhs) {
		return String(lhs.Display() + rhs.Display()), nil
	}
	return numericOp(lhs, rhs, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
}

func isString(v Value) bool {
	_, ok := v.(String)
	return ok
}

// numericOp applies intOp when both operands are Int, widening to
// float64 and applying doubleOp otherwise (spec.md §4.3).
func numericOp(lhs, rhs Value, intOp func(a, b int64) int64, doubleOp func(a, b float64) float64) (Value, error) {
	li, liOK := lhs.(Int)
	ri, riOK := rhs.(Int)
	if liOK && riOK {
		return Int(intOp(int64(li), int64(ri))), nil
	}
	ld, ok1 := toDouble(lhs)
	rd, ok2 := toDouble(rhs)
	if !ok1 || !ok2 {
		return nil, runtimeErrorf("arithmetic on non-numeric operand")
	}
	return Double(doubleOp(ld, rd)), nil
}

func evalDiv(lhs, rhs Value) (Value, error) {
	rd, ok := toDouble(rhs)
	if !ok {
		return nil, runtimeErrorf("arithmetic on non-numeric operand")
	}
	if rd == 0 {
		return nil, runtimeErrorf("Division by zero")
	}
	li, liOK := lhs.(Int)
	ri, riOK := rhs.(Int)
	if liOK && riOK {
		return Int(int64(li) / int64(ri)), nil
	}
	ld, ok := toDouble(lhs)
	if !ok {
		return nil, runtimeErrorf("arithmetic on non-numeric operand")
	}
	return Double(ld / rd), nil
}

func evalMod(lhs, rhs Value) (Value, error) {
	ri := toIntStrict(rhs)
	if ri == 0 {
		return nil, runtimeErrorf("Modulo by zero")
	}
	li := toIntStrict(lhs)
	return Int(li % ri), nil
}

// toIntStrict coerces a numeric value to int64 by truncation, used by
// Mod's "integer modulo after coercion" rule.
func toIntStrict(v Value) int64 {
	switch val := v.(type) {
	case Int:
		return int64(val)
	case Double:
		return int64(val)
	default:
		return 0
	}
}

func evalOrderComparison(op ast.BinaryOpTag, lhs, rhs Value) (Value, error) {
	ls, lsOK := lhs.(String)
	rs, rsOK := rhs.(String)
	if lsOK && rsOK {
		return Bool(compareOrder(op, compareStrings(string(ls), string(rs)))), nil
	}
	ld, ok1 := toDouble(lhs)
	rd, ok2 := toDouble(rhs)
	if !ok1 || !ok2 {
		return nil, runtimeErrorf("comparison on non-numeric, non-string operand")
	}
	return Bool(compareOrder(op, compareFloats(ld, rd))), nil
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareOrder(op ast.BinaryOpTag, cmp int) bool {
	switch op {
	case ast.Lt:
		return cmp < 0
	case ast.Gt:
		return cmp > 0
	case ast.Le:
		return cmp <= 0
	case ast.Ge:
		return cmp >= 0
	default:
		return false
	}
}

// valuesEqual implements Eq/Ne: compare as doubles for numerics, as
// strings for strings, by reference identity for structs, falling
// back to cross-type truthiness comparison as a last resort (spec.md
// §4.3; tightening that last resort is an open question per spec.md §9).
func valuesEqual(lhs, rhs Value) bool {
	if ld, ok1 := toDouble(lhs); ok1 {
		if rd, ok2 := toDouble(rhs); ok2 {
			return ld == rd
		}
	}
	if ls, ok1 := lhs.(String); ok1 {
		if rs, ok2 := rhs.(String); ok2 {
			return ls == rs
		}
	}
	if lb, ok1 := lhs.(Bool); ok1 {
		if rb, ok2 := rhs.(Bool); ok2 {
			return lb == rb
		}
	}
	if _, lNil := lhs.(Nil); lNil {
		_, rNil := rhs.(Nil)
		return rNil
	}
	if ls, ok1 := lhs.(*Struct); ok1 {
		if rs, ok2 := rhs.(*Struct); ok2 {
			// Structs have reference semantics (spec.md §3.1): two
			// struct values are equal iff they are the same shared
			// instance, never by field-by-field comparison.
			return ls == rs
		}
	}
	return Truthy(lhs) == Truthy(rhs)
}

func (e *Evaluator) evalUnaryOp(n *ast.UnaryOp, env *Environment) (Value, error) {
	operand, err := e.eval(n.Expr, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.Neg:
		switch v := operand.(type) {
		case Int:
			return Int(-v), nil
		default:
			d, ok := toDouble(operand)
			if !ok {
				return nil, runtimeErrorf("unary - on non-numeric operand")
			}
			return Double(-d), nil
		}
	case ast.Not:
		return Bool(!Truthy(operand)), nil
	case ast.Inc, ast.Dec:
		// Documented open question (spec.md §9): presently a no-op
		// that returns the operand unchanged.
		return operand, nil
	default:
		return nil, runtimeErrorf("unsupported unary operator %s", n.Op)
	}
}
