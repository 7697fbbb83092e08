package cli_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccdc-opensource/githook/internal/adapter/cli"
	"github.com/ccdc-opensource/githook/internal/adapter/store/sqlite"
	"github.com/ccdc-opensource/githook/internal/domain"
)

type fakeRunner struct {
	preCommitReport domain.RunReport
	preMergeReport  domain.RunReport
	err             error

	preCommitCalls int
	preMergeCalls  int
}

func (f *fakeRunner) RunPreCommit(ctx context.Context) (domain.RunReport, error) {
	f.preCommitCalls++
	return f.preCommitReport, f.err
}

func (f *fakeRunner) RunPreMerge(ctx context.Context) (domain.RunReport, error) {
	f.preMergeCalls++
	return f.preMergeReport, f.err
}

type fakeHistory struct {
	runs       []sqlite.RunRecord
	violations map[int64][]domain.Violation
	err        error
}

func (f *fakeHistory) RecentRuns(ctx context.Context, limit int) ([]sqlite.RunRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.runs) {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

func (f *fakeHistory) Violations(ctx context.Context, runID int64) ([]domain.Violation, error) {
	return f.violations[runID], nil
}

func execute(t *testing.T, deps cli.Dependencies, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	deps.Args.OutWriter = &out
	deps.Args.ErrWriter = &errOut

	root := cli.NewRootCommand(deps)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestPreCommit_CleanRunExitsZero(t *testing.T) {
	runner := &fakeRunner{
		preCommitReport: domain.RunReport{HookKind: "pre-commit"},
	}

	_, _, err := execute(t, cli.Dependencies{Runner: runner}, "pre-commit")

	require.NoError(t, err)
	assert.Equal(t, 1, runner.preCommitCalls)
	assert.Equal(t, 0, runner.preMergeCalls)
}

func TestPreCommit_ViolationsBlockCommit(t *testing.T) {
	report := domain.RunReport{HookKind: "pre-commit"}
	report.Add(domain.Violation{Check: domain.CheckContent, File: "a.c", Message: "found tab characters, replace with spaces"})
	runner := &fakeRunner{preCommitReport: report}

	out, _, err := execute(t, cli.Dependencies{Runner: runner}, "pre-commit")

	require.ErrorIs(t, err, cli.ErrCommitBlocked)
	assert.Contains(t, out, "1 violation(s) found")
}

func TestPreMerge_ViolationsBlockMerge(t *testing.T) {
	report := domain.RunReport{HookKind: "pre-merge-commit"}
	report.Add(domain.Violation{Check: domain.CheckDoNotMerge, File: "b.py", Line: 3, Message: "found DO NOT MERGE"})
	runner := &fakeRunner{preMergeReport: report}

	_, _, err := execute(t, cli.Dependencies{Runner: runner}, "pre-merge-commit")

	require.ErrorIs(t, err, cli.ErrCommitBlocked)
	assert.Equal(t, 1, runner.preMergeCalls)
}

func TestPreCommit_RunnerErrorPropagates(t *testing.T) {
	runner := &fakeRunner{err: errors.New("resolve commit files: exit status 128")}

	_, _, err := execute(t, cli.Dependencies{Runner: runner}, "pre-commit")

	require.Error(t, err)
	assert.NotErrorIs(t, err, cli.ErrCommitBlocked)
}

func TestVersionFlag(t *testing.T) {
	out, _, err := execute(t, cli.Dependencies{Runner: &fakeRunner{}, Version: "v1.2.3"}, "--version")

	require.ErrorIs(t, err, cli.ErrVersionRequested)
	assert.Contains(t, out, "v1.2.3")
}

func TestHistory_ListsRecentRuns(t *testing.T) {
	history := &fakeHistory{
		runs: []sqlite.RunRecord{
			{ID: 2, Hook: "pre-commit", Timestamp: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Blocked: true},
			{ID: 1, Hook: "pre-merge-commit", Timestamp: time.Date(2024, 2, 28, 9, 0, 0, 0, time.UTC), FilesFixed: 1},
		},
	}

	out, _, err := execute(t, cli.Dependencies{Runner: &fakeRunner{}, History: history}, "history")

	require.NoError(t, err)
	assert.Contains(t, out, "pre-commit")
	assert.Contains(t, out, "blocked")
	assert.Contains(t, out, "fixed=1")
}

func TestHistory_ViolationsFlag(t *testing.T) {
	history := &fakeHistory{
		runs: []sqlite.RunRecord{{ID: 7, Hook: "pre-commit", Blocked: true}},
		violations: map[int64][]domain.Violation{
			7: {{Check: domain.CheckFilename, File: "bad:name.txt", Message: "illegal character ':'"}},
		},
	}

	out, _, err := execute(t, cli.Dependencies{Runner: &fakeRunner{}, History: history}, "history", "--violations")

	require.NoError(t, err)
	assert.Contains(t, out, "bad:name.txt")
}

func TestHistory_DisabledStore(t *testing.T) {
	_, _, err := execute(t, cli.Dependencies{Runner: &fakeRunner{}}, "history")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}
