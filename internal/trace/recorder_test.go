package trace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pie-lang/pie/internal/ast"
	"github.com/pie-lang/pie/internal/eval"
	"github.com/pie-lang/pie/internal/trace"
)

func TestRecorder_RecordsOneStepPerVisit(t *testing.T) {
	store, err := trace.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.CreateRun("run-1", "fn main() : int { return 1 }"))

	mod := ast.NewModule("t")
	mod.AddFunction(ast.NewFunction("main", ast.Private, nil, ast.NewTypeAnnotation("int", false),
		[]ast.Node{ast.NewReturn(ast.NewInt(1))}))

	ev := eval.New(nil)
	ev.Hook = trace.NewRecorder(store, "run-1")
	_, err = ev.Run(mod)
	require.NoError(t, err)

	steps, err := store.ListSteps("run-1")
	require.NoError(t, err)
	// One Return node and its Int operand: two visits.
	require.Len(t, steps, 2)
}
