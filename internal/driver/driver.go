// Package driver composes the core language packages (syntax, checker,
// printer, eval, debugger, trace) into the operations cmd/pie exposes:
// run, print, check and debug/replay. None of this is part of the
// certified core spec.md describes — spec.md §7 calls exit-code policy
// "policy of outer driver, not core" — so this package owns exactly
// that policy, grounded on the teacher's internal/cli.Runner.
package driver

import (
	"fmt"
	"io"
	"os"

	"github.com/pie-lang/pie/internal/ast"
	"github.com/pie-lang/pie/internal/checker"
	"github.com/pie-lang/pie/internal/clierr"
	"github.com/pie-lang/pie/internal/debugger"
	"github.com/pie-lang/pie/internal/eval"
	"github.com/pie-lang/pie/internal/printer"
	"github.com/pie-lang/pie/internal/syntax"
	"github.com/pie-lang/pie/internal/trace"
)

// Exit codes, per spec.md §6.1.
const (
	ExitOK           = 0
	ExitBadInput     = 1
	ExitParseFailure = 2
	ExitRuntimeError = 3
)

// Load reads path and parses it into a Module, mapping failures onto
// spec.md §6.1's exit codes via a clierr.CLIError.
func Load(path string) (*ast.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeIO, fmt.Sprintf("reading %s", path), err)
	}
	mod, err := syntax.Parse(path, string(data))
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeParse, "parse failure", err)
	}
	return mod, nil
}

// Print pretty-prints the module's AST (the CLI's --print / `pie print` mode).
func Print(mod *ast.Module, w io.Writer) {
	fmt.Fprint(w, printer.Print(mod))
}

// Check type-checks the module and returns the collected errors (empty
// and true on success), per spec.md §4.2 / §7.
func Check(mod *ast.Module) ([]checker.TypeError, bool) {
	return checker.Check(mod)
}

// RunOptions configures Run's evaluation (debugging and tracing are
// both optional, independent add-ons composed via eval.Hooks).
type RunOptions struct {
	Stdout               io.Writer
	Interactive          bool // attach an interactive debugger.Debugger
	Stdin                io.Reader
	DebuggerAutoContinue bool        // PIE_DEBUGGER_AUTO_CONTINUE: log steps but never prompt
	TraceStore           trace.Store // when set, records every step under RunID
	RunID                string
	Source               string // recorded on the trace.Run row
}

// Run type-checks then evaluates mod's main function, returning the
// process exit code (spec.md §6.1, §7). Runtime errors are printed to
// stderr as "Runtime error: <message>" before mapping to exit code 3;
// type errors are printed one per line before mapping to exit code 2
// (check failures share the parse-failure exit code: both mean "this
// module never reached evaluation").
func Run(mod *ast.Module, opts RunOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	if errs, ok := Check(mod); !ok {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return ExitParseFailure
	}

	ev := eval.New(opts.Stdout)

	var hooks eval.Hooks
	if opts.Interactive {
		stdin := opts.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		dbg := debugger.New(stdin, opts.Stdout)
		dbg.SetAutoContinue(opts.DebuggerAutoContinue)
		hooks = append(hooks, dbg)
	}
	if opts.TraceStore != nil {
		if err := opts.TraceStore.CreateRun(opts.RunID, opts.Source); err != nil {
			fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
			return ExitRuntimeError
		}
		hooks = append(hooks, trace.NewRecorder(opts.TraceStore, opts.RunID))
	}
	if len(hooks) > 0 {
		ev.Hook = hooks
	}

	result, err := ev.Run(mod)

	exitCode := ExitOK
	var runErr error
	if err != nil {
		if exitSig, ok := err.(*eval.ExitSignal); ok {
			exitCode = exitSig.Code
		} else {
			fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
			exitCode = ExitRuntimeError
			runErr = err
		}
	} else if iv, ok := result.(eval.Int); ok {
		exitCode = int(iv)
	}

	if opts.TraceStore != nil {
		_ = opts.TraceStore.FinishRun(opts.RunID, exitCode, runErr)
	}

	return exitCode
}

// Replay reprints every recorded step of a prior run, a post-mortem
// view without re-executing it.
func Replay(store trace.Store, runID string, w io.Writer) error {
	steps, err := store.ListSteps(runID)
	if err != nil {
		return clierr.Wrap(clierr.CodeIO, "reading trace steps", err)
	}
	for _, s := range steps {
		fmt.Fprintf(w, "[step %d depth %d] %s\n", s.StepNumber, s.Depth, s.Description)
		if len(s.Scope) > 0 {
			fmt.Fprintf(w, "    scope: %s\n", string(s.Scope))
		}
	}
	return nil
}
