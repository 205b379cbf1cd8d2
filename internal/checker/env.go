package checker

import "github.com/pie-lang/pie/internal/types"

// Env is the checker's lexical scope chain: a map from name to
// resolved type and a non-owning link to its parent (spec.md §3.4).
type Env struct {
	vars   map[string]types.Type
	parent *Env
}

// NewEnv creates a root scope with no parent.
func NewEnv() *Env {
	return &Env{vars: map[string]types.Type{}}
}

// Child opens a new scope nested under e.
func (e *Env) Child() *Env {
	return &Env{vars: map[string]types.Type{}, parent: e}
}

// Define always writes to the current scope, shadowing any outer
// binding of the same name.
func (e *Env) Define(name string, t types.Type) {
	e.vars[name] = t
}

// Resolve walks parent links to the root looking for name.
func (e *Env) Resolve(name string) (types.Type, bool) {
	for s := e; s != nil; s = s.parent {
		if t, ok := s.vars[name]; ok {
			return t, true
		}
	}
	return types.Type{}, false
}
