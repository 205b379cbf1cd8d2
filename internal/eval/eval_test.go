package eval_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pie-lang/pie/internal/ast"
	"github.com/pie-lang/pie/internal/eval"
)

func mainModule(body ...ast.Node) *ast.Module {
	mod := ast.NewModule("t")
	mod.AddFunction(ast.NewFunction("main", ast.Private, nil, ast.NewTypeAnnotation("int", false), body))
	return mod
}

func TestRun_ReturnsIntFromMain(t *testing.T) {
	mod := mainModule(ast.NewReturn(ast.NewInt(7)))

	ev := eval.New(nil)
	result, err := ev.Run(mod)

	require.NoError(t, err)
	assert.Equal(t, eval.Int(7), result)
}

func TestRun_DivisionByZeroIsRuntimeError(t *testing.T) {
	mod := mainModule(ast.NewReturn(ast.NewBinaryOp(ast.Div, ast.NewInt(1), ast.NewInt(0))))

	ev := eval.New(nil)
	_, err := ev.Run(mod)

	require.Error(t, err)
	assert.Equal(t, "Division by zero", err.Error())
}

func TestRun_ModuloByZeroIsRuntimeError(t *testing.T) {
	mod := mainModule(ast.NewReturn(ast.NewBinaryOp(ast.Mod, ast.NewInt(1), ast.NewInt(0))))

	ev := eval.New(nil)
	_, err := ev.Run(mod)

	require.Error(t, err)
	assert.Equal(t, "Modulo by zero", err.Error())
}

func TestRun_PrintWritesSpaceSeparatedDisplayForms(t *testing.T) {
	var out bytes.Buffer
	mod := mainModule(
		ast.NewFunctionCall("print", []ast.Node{ast.NewString("hi"), ast.NewInt(5)}),
		ast.NewReturn(ast.NewInt(0)),
	)

	ev := eval.New(&out)
	_, err := ev.Run(mod)

	require.NoError(t, err)
	assert.Equal(t, "hi 5\n", out.String())
}

func TestRun_ExitBuiltinSurfacesAsExitSignal(t *testing.T) {
	mod := mainModule(
		ast.NewFunctionCall("exit", []ast.Node{ast.NewInt(9)}),
		ast.NewReturn(ast.NewInt(0)),
	)

	ev := eval.New(nil)
	_, err := ev.Run(mod)

	require.Error(t, err)
	exitErr, ok := err.(*eval.ExitSignal)
	require.True(t, ok, "expected *eval.ExitSignal, got %T", err)
	assert.Equal(t, 9, exitErr.Code)
}

func TestRun_NonLocalReturnUnwindsThroughIf(t *testing.T) {
	thenBlk := ast.NewBlock()
	thenBlk.Push(ast.NewReturn(ast.NewInt(1)))
	ifNode := ast.NewIf(ast.NewBinaryOp(ast.Lt, ast.NewInt(1), ast.NewInt(2)), thenBlk, nil)

	mod := mainModule(ifNode, ast.NewReturn(ast.NewInt(2)))

	ev := eval.New(nil)
	result, err := ev.Run(mod)

	require.NoError(t, err)
	assert.Equal(t, eval.Int(1), result)
}

func TestRun_StructFieldAccess(t *testing.T) {
	lit := ast.NewStructLiteral("Point", []ast.Field{
		{Name: "x", Value: ast.NewInt(3)},
		{Name: "y", Value: ast.NewInt(4)},
	})
	let := ast.NewLet("p", ast.NewTypeAnnotation("Point", false), lit)
	sum := ast.NewBinaryOp(ast.Add,
		ast.NewFieldAccess(ast.NewIdentifier("p"), "x"),
		ast.NewFieldAccess(ast.NewIdentifier("p"), "y"),
	)
	mod := mainModule(let, ast.NewReturn(sum))

	ev := eval.New(nil)
	result, err := ev.Run(mod)

	require.NoError(t, err)
	assert.Equal(t, eval.Int(7), result)
}

func TestLen_NonStringReturnsZero(t *testing.T) {
	mod := mainModule(ast.NewReturn(ast.NewFunctionCall("len", []ast.Node{ast.NewInt(5)})))

	ev := eval.New(nil)
	result, err := ev.Run(mod)

	require.NoError(t, err)
	assert.Equal(t, eval.Int(0), result)
}

func TestTruthy(t *testing.T) {
	assert.False(t, eval.Truthy(eval.Nil{}))
	assert.False(t, eval.Truthy(eval.Int(0)))
	assert.True(t, eval.Truthy(eval.Int(1)))
	assert.False(t, eval.Truthy(eval.String("")))
	assert.True(t, eval.Truthy(eval.String("x")))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "int", eval.TypeName(eval.Int(1)))
	assert.Equal(t, "bool", eval.TypeName(eval.Bool(true)))
	assert.Equal(t, "unknown", eval.TypeName(eval.NewStruct("Point")))
}
