// Package debugger implements the interactive single-stepper that can
// be attached to the evaluator (spec.md §4.4).
package debugger

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pie-lang/pie/internal/ast"
	"github.com/pie-lang/pie/internal/eval"
	"github.com/pie-lang/pie/internal/printer"
)

// Debugger implements eval.Hook. Attach it to an *eval.Evaluator via
// Evaluator.Hook before calling Run.
type Debugger struct {
	in         *bufio.Reader
	out        io.Writer
	continuing bool
}

// New creates a Debugger reading commands from in and writing prompts
// and scope dumps to out.
func New(in io.Reader, out io.Writer) *Debugger {
	return &Debugger{in: bufio.NewReader(in), out: out}
}

// SetAutoContinue makes the debugger behave as if `c` had already been
// entered: it still logs each step and scope dump, but never prompts.
// Wired from PIE_DEBUGGER_AUTO_CONTINUE (internal/config).
func (d *Debugger) SetAutoContinue(auto bool) {
	d.continuing = auto
}

// BeforeVisit implements eval.Hook (spec.md §4.4 steps 1-3).
func (d *Debugger) BeforeVisit(n ast.Node, env *eval.Environment, depth, step int) error {
	fmt.Fprintf(d.out, "step %d depth %d: %s\n", step, depth, printer.Describe(n))
	d.printScopeChain(env)

	if d.continuing {
		return nil
	}
	return d.prompt(env)
}

func (d *Debugger) prompt(env *eval.Environment) error {
	for {
		fmt.Fprint(d.out, "(pie-debug) ")
		line, err := d.in.ReadString('\n')
		if err != nil && line == "" {
			// End of input is equivalent to `c`.
			d.continuing = true
			return nil
		}
		cmd := strings.TrimSpace(line)

		switch {
		case cmd == "" || cmd == "s" || cmd == "step" || cmd == "n" || cmd == "next":
			return nil
		case cmd == "c" || cmd == "continue":
			d.continuing = true
			return nil
		case cmd == "p" || cmd == "print":
			d.printScopeChain(env)
			continue
		case strings.HasPrefix(cmd, "p ") || strings.HasPrefix(cmd, "print "):
			name := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(cmd, "print"), "p"))
			d.printVariable(env, name)
			continue
		case cmd == "h" || cmd == "help":
			d.printHelp()
			continue
		case cmd == "q" || cmd == "quit":
			return &eval.RuntimeError{Message: "Debugger stopped execution"}
		default:
			fmt.Fprintf(d.out, "unknown command %q; type 'h' for help\n", cmd)
			continue
		}
	}
}

func (d *Debugger) printScopeChain(env *eval.Environment) {
	chain := env.Chain()
	for i, scope := range chain {
		fmt.Fprintf(d.out, "scope %d:\n", i)
		for name, v := range scope.Names() {
			fmt.Fprintf(d.out, "  %s = %s\n", name, v.Display())
		}
	}
}

func (d *Debugger) printVariable(env *eval.Environment, name string) {
	if name == "" {
		d.printScopeChain(env)
		return
	}
	v, ok := env.Get(name)
	if !ok {
		fmt.Fprintf(d.out, "%s is undefined\n", name)
		return
	}
	fmt.Fprintf(d.out, "%s = %s\n", name, v.Display())
}

func (d *Debugger) printHelp() {
	fmt.Fprint(d.out, `commands:
  s, step, n, next, <empty>   advance one node
  c, continue                 disable further prompts for the rest of the run
  p, print                    reprint the scope chain
  p NAME, print NAME          print one variable's value
  h, help                     print this text
  q, quit                     stop execution with a runtime error
`)
}
