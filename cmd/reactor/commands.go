package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reactor-labs/reactor/pkg/engine"
)

func buildStartCmd(envPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start <message>",
		Short: "Start a new thread with an initial user message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cleanup, err := newApp(ctx, *envPath)
			if err != nil {
				return err
			}
			defer cleanup()

			threadID, err := a.engine.StartSession(ctx, args[0])
			if err != nil {
				return fmt.Errorf("start session: %w", err)
			}

			if _, err := a.engine.ProcessThread(ctx, threadID, a.cfg.MaxIterations); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "thread: %s\n", threadID)
				return fmt.Errorf("process thread: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "thread: %s\n", threadID)
			return printTranscript(cmd, a, threadID)
		},
	}
}

func buildMessageCmd(envPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "message <thread-id> <text>",
		Short: "Add a user message to an existing thread and process it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cleanup, err := newApp(ctx, *envPath)
			if err != nil {
				return err
			}
			defer cleanup()

			threadID := args[0]
			if err := a.engine.AddUserMessage(ctx, threadID, args[1]); err != nil {
				return fmt.Errorf("add user message: %w", err)
			}
			if _, err := a.engine.ProcessThread(ctx, threadID, a.cfg.MaxIterations); err != nil {
				return fmt.Errorf("process thread: %w", err)
			}
			return printTranscript(cmd, a, threadID)
		},
	}
}

func buildContinueCmd(envPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "continue <thread-id>",
		Short: "Resume processing an existing thread without adding a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cleanup, err := newApp(ctx, *envPath)
			if err != nil {
				return err
			}
			defer cleanup()

			threadID := args[0]
			if _, err := a.engine.ProcessThread(ctx, threadID, a.cfg.MaxIterations); err != nil {
				return fmt.Errorf("process thread: %w", err)
			}
			return printTranscript(cmd, a, threadID)
		},
	}
}

func buildShowCmd(envPath *string) *cobra.Command {
	var format string
	var full bool

	cmd := &cobra.Command{
		Use:   "show <thread-id>",
		Short: "Display a thread's transcript and session state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return newArgError("--format must be %q or %q, got %q", "text", "json", format)
			}

			ctx := cmd.Context()
			a, cleanup, err := newApp(ctx, *envPath)
			if err != nil {
				return err
			}
			defer cleanup()

			return printTranscriptFormat(cmd, a, args[0], format, full)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", `Output format: "text" or "json"`)
	cmd.Flags().BoolVar(&full, "full", false, "Include the full message transcript, not just the session summary")
	return cmd
}

func buildListCmd(envPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recently active threads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return newArgError("--limit must be positive, got %d", limit)
			}

			ctx := cmd.Context()
			a, cleanup, err := newApp(ctx, *envPath)
			if err != nil {
				return err
			}
			defer cleanup()

			threadIDs, err := a.engine.List(ctx, limit)
			if err != nil {
				return fmt.Errorf("list threads: %w", err)
			}
			for _, id := range threadIDs {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of threads to list")
	return cmd
}

func printTranscript(cmd *cobra.Command, a *app, threadID string) error {
	return printTranscriptFormat(cmd, a, threadID, "text", false)
}

func printTranscriptFormat(cmd *cobra.Command, a *app, threadID, format string, full bool) error {
	transcript, err := a.engine.ShowTranscript(cmd.Context(), threadID)
	if err != nil {
		return fmt.Errorf("show transcript: %w", err)
	}

	if format == "json" {
		return printTranscriptJSON(cmd, transcript, full)
	}

	if full {
		fmt.Fprint(cmd.OutOrStdout(), engine.FormatTranscript(transcript))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "thread: %s\nstatus: %s\nmessages: %d assistant replies, %d tool calls, %d errors\n",
		transcript.State.ThreadID, transcript.State.Status,
		transcript.State.LLMResponseCount, transcript.State.ToolCallCount, transcript.State.ErrorCount)
	return nil
}

func printTranscriptJSON(cmd *cobra.Command, transcript engine.Transcript, full bool) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if full {
		return encoder.Encode(transcript)
	}
	return encoder.Encode(transcript.State)
}
