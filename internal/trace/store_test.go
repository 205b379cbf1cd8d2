package trace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/pie-lang/pie/internal/trace"
)

// Grounded on mcp/apply_handler_test.go's gorm.Open(sqlite.Open(":memory:")) pattern.
func TestStore_CreateRunRecordStepFinishRun(t *testing.T) {
	store, err := trace.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.CreateRun("run-1", "fn main() : int { return 0 }"))
	require.NoError(t, store.RecordStep(trace.Step{
		RunID:       "run-1",
		StepNumber:  1,
		Depth:       1,
		Description: "fn main/0",
		Scope:       datatypes.JSON(`{}`),
	}))
	require.NoError(t, store.RecordStep(trace.Step{
		RunID:       "run-1",
		StepNumber:  2,
		Depth:       2,
		Description: "return 0",
		Scope:       datatypes.JSON(`{}`),
	}))
	require.NoError(t, store.FinishRun("run-1", 0, nil))

	steps, err := store.ListSteps("run-1")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, 1, steps[0].StepNumber)
	assert.Equal(t, "fn main/0", steps[0].Description)
	assert.Equal(t, 2, steps[1].StepNumber)
}

func TestStore_ListStepsScopedToRun(t *testing.T) {
	store, err := trace.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.CreateRun("run-a", "src-a"))
	require.NoError(t, store.CreateRun("run-b", "src-b"))
	require.NoError(t, store.RecordStep(trace.Step{RunID: "run-a", StepNumber: 1, Description: "a"}))
	require.NoError(t, store.RecordStep(trace.Step{RunID: "run-b", StepNumber: 1, Description: "b"}))

	steps, err := store.ListSteps("run-a")
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "a", steps[0].Description)
}
