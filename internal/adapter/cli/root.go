package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccdc-opensource/githook/internal/adapter/store/sqlite"
	"github.com/ccdc-opensource/githook/internal/domain"
)

// ErrVersionRequested indicates the user requested the CLI version and no
// further work should be done.
var ErrVersionRequested = errors.New("version requested")

// ErrCommitBlocked signals that checks found violations and the pending
// commit or merge must be aborted. The host process maps it to a nonzero
// exit status without printing a stack of wrapping.
var ErrCommitBlocked = errors.New("commit blocked")

// HookRunner defines the dependency required to run the hook commands.
type HookRunner interface {
	RunPreCommit(ctx context.Context) (domain.RunReport, error)
	RunPreMerge(ctx context.Context) (domain.RunReport, error)
}

// HistoryStore exposes the read side of the run-history database.
type HistoryStore interface {
	RecentRuns(ctx context.Context, limit int) ([]sqlite.RunRecord, error)
	Violations(ctx context.Context, runID int64) ([]domain.Violation, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Runner  HookRunner
	History HistoryStore // nil when the store is disabled
	Args    Arguments
	Version string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "githook",
		Short: "Repository hygiene checks for git commits and merges",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(preCommitCommand(deps.Runner))
	root.AddCommand(preMergeCommand(deps.Runner))
	root.AddCommand(historyCommand(deps.History))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

// preCommitCommand creates the pre-commit subcommand.
//
// Exit codes:
//   - 0: all checks passed, the commit may proceed
//   - 1: violations found, the commit is blocked
func preCommitCommand(runner HookRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "pre-commit",
		Short: "Run commit-time hygiene checks",
		Long: `Run the commit-time hygiene checks against the files in the
pending commit: trailing-whitespace auto-fix, author username, filename
legality, and file content rules.

Install as .git/hooks/pre-commit:
  #!/bin/sh
  exec githook pre-commit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd, runner.RunPreCommit)
		},
	}
}

// preMergeCommand creates the pre-merge-commit subcommand.
func preMergeCommand(runner HookRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "pre-merge-commit",
		Short: "Run merge-time hygiene checks",
		Long: `Run the merge-time hygiene checks against the files in the
pending merge commit: trailing-whitespace auto-fix, author username, and
the DO NOT MERGE marker scan.

Install as .git/hooks/pre-merge-commit:
  #!/bin/sh
  exec githook pre-merge-commit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd, runner.RunPreMerge)
		},
	}
}

func runHook(cmd *cobra.Command, run func(context.Context) (domain.RunReport, error)) error {
	report, err := run(cmd.Context())
	if err != nil {
		return err
	}
	if report.Blocked() {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d violation(s) found\n", report.HookKind, len(report.Violations))
		return ErrCommitBlocked
	}
	return nil
}

// historyCommand creates the history subcommand, which lists recent hook
// runs from the run-history store.
func historyCommand(history HistoryStore) *cobra.Command {
	var limit int
	var showViolations bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent hook runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if history == nil {
				return fmt.Errorf("run history is disabled; enable store in githook.yaml")
			}

			runs, err := history.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, run := range runs {
				outcome := "ok"
				if run.Blocked {
					outcome = "blocked"
				}
				_, _ = fmt.Fprintf(out, "%d  %s  %s  %s  fixed=%d\n",
					run.ID, run.Timestamp.Format("2006-01-02 15:04:05"), run.Hook, outcome, run.FilesFixed)

				if !showViolations {
					continue
				}
				violations, err := history.Violations(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				for _, v := range violations {
					_, _ = fmt.Fprintf(out, "    %s\n", v.String())
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&showViolations, "violations", false, "Show the violations recorded for each run")

	return cmd
}
