package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/rbrovko/SwiftLint/internal/prof"
	"github.com/rbrovko/SwiftLint/internal/version"
)

// exitError carries a process exit status without a message.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// errViolations is returned when error-severity violations or file failures
// remain after a run.
var errViolations = exitError{code: 2}

// app holds the state shared by all commands of one invocation.
type app struct {
	v       *viper.Viper
	logger  *slog.Logger
	cleanup []func()
}

func (a *app) close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "swiftlint",
		Short:         "Style checker for Swift sources",
		Long:          `swiftlint checks Swift sources against style rules and corrects the violations it can fix.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setupLogging(cmd.ErrOrStderr()); err != nil {
				return err
			}
			cleanup, err := setupTracing(cmd, a)
			if err != nil {
				return err
			}
			a.cleanup = append(a.cleanup, cleanup)
			return a.setupProfiling(cmd.ErrOrStderr())
		},
	}

	configureRootFlags(root, a.v)

	root.AddCommand(newLintCmd(a))
	root.AddCommand(newFixCmd(a))
	root.AddCommand(newRulesCmd(a))
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newVersionCmd(a))
	return root
}

func (a *app) setupProfiling(stderr io.Writer) error {
	cfg := prof.Config{
		CPU:   a.v.GetString(cpuProfileFlagName),
		Mem:   a.v.GetString(memProfileFlagName),
		Trace: a.v.GetString(runtimeTraceFlagName),
	}
	if !cfg.Enabled() {
		return nil
	}
	session, err := prof.Start(cfg)
	if err != nil {
		return err
	}
	a.cleanup = append(a.cleanup, func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(stderr, "swiftlint: profiling: %v\n", err)
		}
	})
	return nil
}

// run executes the CLI and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{v: newViper(), logger: slog.New(slog.DiscardHandler)}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(stderr, "swiftlint: %v\n", err)
	return 1
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
