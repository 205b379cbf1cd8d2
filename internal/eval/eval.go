package eval

import (
	"io"
	"os"

	"github.com/pie-lang/pie/internal/ast"
)

// Hook lets an interactive step debugger (spec.md §4.4) observe every
// node visited by the evaluator. BeforeVisit is called immediately
// before a node is evaluated; returning an error aborts the run (used
// by the debugger's `quit` command).
type Hook interface {
	BeforeVisit(n ast.Node, env *Environment, depth, step int) error
}

// Evaluator is a tree-walking visitor threading a result value and the
// current environment through the AST (spec.md §4.3).
type Evaluator struct {
	Global *Environment
	Hook   Hook

	depth int
	step  int
}

// New creates an Evaluator with a global environment pre-populated
// with built-ins. Output from print/io.print goes to w (os.Stdout if
// nil).
func New(w io.Writer) *Evaluator {
	if w == nil {
		w = os.Stdout
	}
	global := NewEnvironment()
	registerBuiltins(global, w)
	return &Evaluator{Global: global}
}

// Run registers every top-level function under its name in the global
// environment, then looks up main and calls it with zero arguments
// (spec.md §4.3). The returned Value propagates out; if it is an Int,
// the driver treats it as the process exit code.
func (e *Evaluator) Run(m *ast.Module) (Value, error) {
	for _, fn := range m.Functions {
		e.Global.Define(fn.Name, Function{Node: fn})
	}
	mainFn, ok := e.Global.Get("main")
	if !ok {
		return nil, runtimeErrorf("undefined function %q", "main")
	}
	fv, ok := mainFn.(Function)
	if !ok {
		return nil, runtimeErrorf("%q is not a function", "main")
	}
	return e.callFunction(fv.Node, nil)
}

// callFunction opens a fresh environment parented at the global scope
// (lexical-from-module, not dynamic-from-caller), binds parameters
// positionally, evaluates the body, and catches the non-local return
// at this boundary (spec.md §4.3, §5, §9).
func (e *Evaluator) callFunction(fn *ast.Function, args []Value) (Value, error) {
	frame := e.Global.Child()
	for i, p := range fn.Params {
		var v Value = Nil{}
		if i < len(args) {
			v = args[i]
		}
		frame.Define(p.Name, v)
	}
	for _, stmt := range fn.Body {
		result, err := e.eval(stmt, frame)
		if err != nil {
			if ret, ok := err.(*returnSignal); ok {
				return ret.Value, nil
			}
			return nil, err
		}
		_ = result
	}
	return Nil{}, nil
}

// eval is the single recursive dispatch point: it applies the
// debugger hook (if any) to every node, then switches on the concrete
// type (tagged dispatch, spec.md §9, replacing the source's visitor
// double-dispatch).
func (e *Evaluator) eval(n ast.Node, env *Environment) (Value, error) {
	e.step++
	e.depth++
	defer func() { e.depth-- }()

	if e.Hook != nil {
		if err := e.Hook.BeforeVisit(n, env, e.depth, e.step); err != nil {
			return nil, err
		}
	}

	switch node := n.(type) {
	case *ast.Int:
		return Int(node.Value), nil
	case *ast.Double:
		return Double(node.Value), nil
	case *ast.String:
		return String(node.Value), nil
	case *ast.Identifier:
		v, ok := env.Get(node.Name)
		if !ok {
			return nil, runtimeErrorf("undefined variable %q", node.Name)
		}
		return v, nil
	case *ast.BinaryOp:
		return e.evalBinaryOp(node, env)
	case *ast.UnaryOp:
		return e.evalUnaryOp(node, env)
	case *ast.Let:
		return e.evalLet(node, env)
	case *ast.Assign:
		return e.evalAssign(node, env)
	case *ast.If:
		return e.evalIf(node, env)
	case *ast.Block:
		return e.evalBlock(node, env)
	case *ast.Return:
		return e.evalReturn(node, env)
	case *ast.FunctionCall:
		return e.evalCall(node, env)
	case *ast.StructLiteral:
		return e.evalStructLiteral(node, env)
	case *ast.FieldAccess:
		return e.evalFieldAccess(node, env)
	case *ast.Module, *ast.Import, *ast.TypeAnnotation, *ast.StructDef, *ast.Closure:
		return Nil{}, nil
	default:
		return Nil{}, nil
	}
}

func (e *Evaluator) evalLet(n *ast.Let, env *Environment) (Value, error) {
	var v Value = Nil{}
	if n.Init != nil {
		var err error
		v, err = e.eval(n.Init, env)
		if err != nil {
			return nil, err
		}
	}
	env.Define(n.Name, v)
	return Nil{}, nil
}

func (e *Evaluator) evalAssign(n *ast.Assign, env *Environment) (Value, error) {
	v, err := e.eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	if !env.Set(n.Target, v) {
		return nil, runtimeErrorf("assignment to undefined variable %q", n.Target)
	}
	return v, nil
}

func (e *Evaluator) evalIf(n *ast.If, env *Environment) (Value, error) {
	cond, err := e.eval(n.Cond, env)
	if err != nil {
		return nil, err
	}
	if Truthy(cond) {
		return e.eval(n.Then, env)
	}
	if n.Else != nil {
		return e.eval(n.Else, env)
	}
	return Nil{}, nil
}

func (e *Evaluator) evalBlock(n *ast.Block, env *Environment) (Value, error) {
	child := env.Child()
	var result Value = Nil{}
	for _, stmt := range n.Statements {
		v, err := e.eval(stmt, child)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (e *Evaluator) evalReturn(n *ast.Return, env *Environment) (Value, error) {
	var v Value = Nil{}
	if n.Value != nil {
		var err error
		v, err = e.eval(n.Value, env)
		if err != nil {
			return nil, err
		}
	}
	return nil, &returnSignal{Value: v}
}

func (e *Evaluator) evalCall(n *ast.FunctionCall, env *Environment) (Value, error) {
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.eval(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	callee, ok := env.Get(n.Callee)
	if !ok {
		return nil, runtimeErrorf("call to undefined function %q", n.Callee)
	}

	switch fn := callee.(type) {
	case Function:
		return e.callFunction(fn.Node, args)
	case Builtin:
		return fn.Fn(args)
	default:
		return nil, runtimeErrorf("%q is not callable", n.Callee)
	}
}

func (e *Evaluator) evalStructLiteral(n *ast.StructLiteral, env *Environment) (Value, error) {
	sv := NewStruct(n.StructName)
	for _, f := range n.Fields {
		v, err := e.eval(f.Value, env)
		if err != nil {
			return nil, err
		}
		sv.Fields[f.Name] = v
	}
	return sv, nil
}

func (e *Evaluator) evalFieldAccess(n *ast.FieldAccess, env *Environment) (Value, error) {
	obj, err := e.eval(n.Object, env)
	if err != nil {
		return nil, err
	}
	sv, ok := obj.(*Struct)
	if !ok {
		return nil, runtimeErrorf("field access on non-struct value")
	}
	v, ok := sv.Fields[n.Field]
	if !ok {
		return nil, runtimeErrorf("struct %q has no field %q", sv.TypeName, n.Field)
	}
	return v, nil
}
