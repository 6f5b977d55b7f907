// Command reactor is the thin CLI front-end for the event-sourced ReAct
// agent engine (spec §6: "CLI (thin; not part of core)").
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exit codes per spec §6.
const (
	exitSuccess  = 0
	exitRunError = 1
	exitArgError = 2
)

func main() {
	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

// argError marks a failure as an argument/usage error (exit code 2);
// anything else surfaced by RunE is treated as an engine/store error
// (exit code 1).
type argError struct{ err error }

func (e *argError) Error() string { return e.err.Error() }
func (e *argError) Unwrap() error { return e.err }

func newArgError(format string, args ...any) error {
	return &argError{err: fmt.Errorf(format, args...)}
}

func exitCodeFor(err error) int {
	var ae *argError
	if errors.As(err, &ae) {
		return exitArgError
	}
	return exitRunError
}

func buildRootCmd() *cobra.Command {
	var envPath string

	rootCmd := &cobra.Command{
		Use:   "reactor",
		Short: "reactor drives an event-sourced ReAct agent loop",
		Long: `reactor is the CLI front-end for an event-sourced, ReAct-style LLM agent
engine. Every operation reads and appends to a single append-only event
stream per conversation thread; the engine itself holds no state.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envPath, "env-file", "", "Path to a .env file to load before reading the environment")

	rootCmd.AddCommand(
		buildStartCmd(&envPath),
		buildMessageCmd(&envPath),
		buildContinueCmd(&envPath),
		buildShowCmd(&envPath),
		buildListCmd(&envPath),
	)

	return rootCmd
}
