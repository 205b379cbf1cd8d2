package eval

import "github.com/pie-lang/pie/internal/ast"

// Hooks composes multiple Hooks into one, calling each in order and
// stopping at the first error (e.g. the interactive debugger's quit
// command alongside a trace.Recorder).
type Hooks []Hook

// BeforeVisit implements Hook.
func (hs Hooks) BeforeVisit(n ast.Node, env *Environment, depth, step int) error {
	for _, h := range hs {
		if err := h.BeforeVisit(n, env, depth, step); err != nil {
			return err
		}
	}
	return nil
}
