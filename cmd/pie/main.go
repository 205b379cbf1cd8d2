// Command pie is the driver for the Pie language: run, print,
// type-check, and step-debug .pie source files.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pie-lang/pie/internal/batch"
	"github.com/pie-lang/pie/internal/clierr"
	"github.com/pie-lang/pie/internal/config"
	"github.com/pie-lang/pie/internal/driver"
	"github.com/pie-lang/pie/internal/trace"
)

var (
	cfg         *config.Config
	flagDebug   bool
	flagTraceDB string
	flagNoEnv   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if ce, ok := err.(clierr.CLIError); ok {
			fmt.Fprintln(os.Stderr, ce.Error())
			os.Exit(exitCodeForError(ce))
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(driver.ExitBadInput)
	}
}

func exitCodeForError(ce clierr.CLIError) int {
	switch ce.Code {
	case clierr.CodeParse:
		return driver.ExitParseFailure
	case clierr.CodeRuntime:
		return driver.ExitRuntimeError
	default:
		return driver.ExitBadInput
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "pie",
		Short:   "Run, print, check, and debug Pie programs",
		Version: "0.1.0",
		// A bare file argument (`pie file.pie`) behaves like `pie run file.pie`.
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			os.Exit(runFile(args[0], cfg.Debug))
			return nil
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !flagNoEnv {
				cfg = config.Load()
			} else {
				cfg = &config.Config{}
			}
			if flagDebug {
				cfg.Debug = true
			}
			if flagTraceDB != "" {
				cfg.TraceDB = flagTraceDB
			}
		},
	}
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "attach the interactive step debugger")
	root.PersistentFlags().StringVar(&flagTraceDB, "trace-db", "", "record a debugger trace to this SQLite file")
	root.PersistentFlags().BoolVar(&flagNoEnv, "no-env", false, "skip .env / PIE_* environment loading")

	root.AddCommand(newRunCmd(), newPrintCmd(), newCheckCmd(), newDebugCmd(), newReplayCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file.pie>",
		Short: "Type-check and execute a Pie program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			os.Exit(runFile(args[0], cfg.Debug))
			return nil
		},
	}
}

func newDebugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug <file.pie>",
		Short: "Execute a Pie program under the interactive step debugger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			os.Exit(runFile(args[0], true))
			return nil
		},
	}
}

func runFile(path string, interactive bool) int {
	mod, err := driver.Load(path)
	if err != nil {
		reportLoadErr(err)
		if ce, ok := err.(clierr.CLIError); ok {
			return exitCodeForError(ce)
		}
		return driver.ExitBadInput
	}

	opts := driver.RunOptions{Interactive: interactive, DebuggerAutoContinue: cfg.DebuggerAutoContinue}

	var store trace.Store
	dsn := cfg.TraceDSN
	if cfg.TraceDB != "" {
		dsn = cfg.TraceDB
	}
	if dsn != "" {
		var err error
		store, err = trace.Open(dsn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: opening trace store: %v\n", err)
			return driver.ExitBadInput
		}
		defer store.Close()
		opts.TraceStore = store
		opts.RunID = uuid.NewString()
		opts.Source = path
		fmt.Fprintf(os.Stderr, "trace run id: %s\n", opts.RunID)
	}

	return driver.Run(mod, opts)
}

func newPrintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print <file.pie>",
		Short: "Pretty-print a Pie program's AST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mod, err := driver.Load(args[0])
			if err != nil {
				return err
			}
			driver.Print(mod, os.Stdout)
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <files...|glob>",
		Short: "Type-check one or more Pie programs (supports doublestar globs)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := batch.Expand(args)
			if err != nil {
				return clierr.Wrap(clierr.CodeBadOption, "expanding file patterns", err)
			}
			failed := false
			for _, f := range files {
				mod, err := driver.Load(f)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", f, err)
					failed = true
					continue
				}
				errs, ok := driver.Check(mod)
				if !ok {
					failed = true
					for _, e := range errs {
						fmt.Fprintf(os.Stderr, "%s: %s\n", f, e.Error())
					}
					continue
				}
				fmt.Printf("%s: ok\n", f)
			}
			if failed {
				os.Exit(driver.ExitParseFailure)
			}
			return nil
		},
	}
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Reprint a previously recorded debugger trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn := cfg.TraceDSN
			if cfg.TraceDB != "" {
				dsn = cfg.TraceDB
			}
			if dsn == "" {
				return clierr.New(clierr.CodeBadOption, "replay requires --trace-db or PIE_TRACE_DSN")
			}
			store, err := trace.Open(dsn)
			if err != nil {
				return clierr.Wrap(clierr.CodeIO, "opening trace store", err)
			}
			defer store.Close()
			return driver.Replay(store, args[0], os.Stdout)
		},
	}
}

func reportLoadErr(err error) {
	if ce, ok := err.(clierr.CLIError); ok {
		fmt.Fprintln(os.Stderr, ce.Error())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
