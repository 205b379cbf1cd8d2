package trace

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/pie-lang/pie/internal/ast"
	"github.com/pie-lang/pie/internal/eval"
	"github.com/pie-lang/pie/internal/printer"
)

// Recorder implements eval.Hook, persisting one Step row per node
// visited. It is meant to be composed with (or substitute for) the
// interactive debugger.Debugger: attach both via eval.Hooks for a
// session that is both interactive and recorded.
type Recorder struct {
	store Store
	runID string
}

// NewRecorder creates a Recorder that appends steps under runID.
// CreateRun must be called by the caller before the first step (the
// driver does this before evaluation starts).
func NewRecorder(store Store, runID string) *Recorder {
	return &Recorder{store: store, runID: runID}
}

// BeforeVisit implements eval.Hook.
func (r *Recorder) BeforeVisit(n ast.Node, env *eval.Environment, depth, step int) error {
	scope := map[string]string{}
	for _, s := range env.Chain() {
		for name, v := range s.Names() {
			if _, exists := scope[name]; !exists {
				scope[name] = v.Display()
			}
		}
	}
	payload, err := json.Marshal(scope)
	if err != nil {
		return err
	}
	return r.store.RecordStep(Step{
		RunID:       r.runID,
		StepNumber:  step,
		Depth:       depth,
		Description: printer.Describe(n),
		Scope:       datatypes.JSON(payload),
	})
}
