package eval

import (
	"fmt"
	"io"
)

// registerBuiltins installs the pre-registered global names (spec.md
// §6.5) into env. Output goes to w so tests and the CLI can redirect
// `print`/`io.print` independently of os.Stdout.
func registerBuiltins(env *Environment, w io.Writer) {
	printFn := Builtin{Name: "print", Fn: func(args []Value) (Value, error) {
		parts := make([]any, len(args))
		for i, a := range args {
			parts[i] = a.Display()
		}
		fmt.Fprintln(w, parts...)
		return Nil{}, nil
	}}
	env.Define("print", printFn)
	env.Define("io.print", printFn)

	env.Define("exit", Builtin{Name: "exit", Fn: func(args []Value) (Value, error) {
		code := 0
		if len(args) > 0 {
			code = int(toInt(args[0]))
		}
		return nil, &ExitSignal{Code: code}
	}})

	env.Define("len", Builtin{Name: "len", Fn: func(args []Value) (Value, error) {
		if len(args) == 0 {
			return Int(0), nil
		}
		if s, ok := args[0].(String); ok {
			return Int(len(s)), nil
		}
		return Int(0), nil
	}})

	env.Define("type", Builtin{Name: "type", Fn: func(args []Value) (Value, error) {
		if len(args) == 0 {
			return String("nil"), nil
		}
		return String(TypeName(args[0])), nil
	}})
}
