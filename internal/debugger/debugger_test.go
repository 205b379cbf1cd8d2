package debugger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pie-lang/pie/internal/ast"
	"github.com/pie-lang/pie/internal/debugger"
	"github.com/pie-lang/pie/internal/eval"
)

func mainModule(body ...ast.Node) *ast.Module {
	mod := ast.NewModule("t")
	mod.AddFunction(ast.NewFunction("main", ast.Private, nil, ast.NewTypeAnnotation("int", false), body))
	return mod
}

func TestDebugger_ContinueStopsFurtherPrompting(t *testing.T) {
	mod := mainModule(ast.NewLet("a", ast.NewTypeAnnotation("int", false), ast.NewInt(1)), ast.NewReturn(ast.NewIdentifier("a")))

	var out bytes.Buffer
	dbg := debugger.New(strings.NewReader("c\n"), &out)

	ev := eval.New(nil)
	ev.Hook = dbg
	result, err := ev.Run(mod)

	require.NoError(t, err)
	assert.Equal(t, eval.Int(1), result)
	assert.Equal(t, 1, strings.Count(out.String(), "(pie-debug)"))
}

func TestDebugger_QuitRaisesRuntimeError(t *testing.T) {
	mod := mainModule(ast.NewReturn(ast.NewInt(1)))

	var out bytes.Buffer
	dbg := debugger.New(strings.NewReader("q\n"), &out)

	ev := eval.New(nil)
	ev.Hook = dbg
	_, err := ev.Run(mod)

	require.Error(t, err)
	assert.Equal(t, "Debugger stopped execution", err.Error())
}

func TestDebugger_EndOfInputIsEquivalentToContinue(t *testing.T) {
	mod := mainModule(ast.NewReturn(ast.NewInt(3)))

	var out bytes.Buffer
	dbg := debugger.New(strings.NewReader(""), &out)

	ev := eval.New(nil)
	ev.Hook = dbg
	result, err := ev.Run(mod)

	require.NoError(t, err)
	assert.Equal(t, eval.Int(3), result)
}

func TestDebugger_PrintNamePrintsVariable(t *testing.T) {
	mod := mainModule(ast.NewLet("a", ast.NewTypeAnnotation("int", false), ast.NewInt(42)), ast.NewReturn(ast.NewIdentifier("a")))

	var out bytes.Buffer
	// Step past the let and its initialiser so `a` is bound when `p a`
	// is issued at the return statement's prompt.
	dbg := debugger.New(strings.NewReader("s\ns\np a\nc\n"), &out)

	ev := eval.New(nil)
	ev.Hook = dbg
	_, err := ev.Run(mod)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "(pie-debug) a = 42\n")
}
