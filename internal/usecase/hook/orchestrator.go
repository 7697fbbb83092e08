package hook

import (
	"context"
	"fmt"
	"io"

	"github.com/ccdc-opensource/githook/internal/domain"
)

// Hook kinds, matching the git hook names the binary is installed under.
const (
	KindPreCommit = "pre-commit"
	KindPreMerge  = "pre-merge-commit"
)

// GitEngine is the version-control collaborator the checks run against.
type GitEngine interface {
	CommitFiles(ctx context.Context) (domain.CommitFileSet, error)
	ChangedLines(ctx context.Context, path string) ([]int, error)
	AuthorName(ctx context.Context) (string, error)
	BranchFiles(ctx context.Context) ([]string, error)
	AddToIndex(ctx context.Context, path string) error
}

// Store persists run history. Optional; a nil store disables persistence.
type Store interface {
	SaveRun(ctx context.Context, report domain.RunReport) error
}

// Logger receives operational diagnostics. Optional.
type Logger interface {
	Debug(ctx context.Context, message string, fields map[string]interface{})
	Warn(ctx context.Context, message string, fields map[string]interface{})
}

// Options tunes check behavior; values come from configuration.
type Options struct {
	AutofixWhitespace bool
	MaxSubpathChars   int
	CaseCollision     bool
}

// Deps captures the collaborators for the hook runner.
type Deps struct {
	Git          GitEngine
	RepoDir      string
	Options      Options
	Out          io.Writer
	ShowProgress bool
	Logger       Logger
	Store        Store
}

// Runner orchestrates the hygiene checks for one hook invocation.
// Failures are isolated per file: one file's diff or content problem never
// stops the checks for the remaining files, and every check runs even when
// an earlier one already found a violation.
type Runner struct {
	git          GitEngine
	repoDir      string
	opts         Options
	out          io.Writer
	showProgress bool
	log          Logger
	store        Store
	resolver     Resolver
}

// NewRunner constructs a Runner from its dependencies.
func NewRunner(deps Deps) *Runner {
	repoDir := deps.RepoDir
	if repoDir == "" {
		repoDir = "."
	}
	out := deps.Out
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		git:          deps.Git,
		repoDir:      repoDir,
		opts:         deps.Options,
		out:          out,
		showProgress: deps.ShowProgress,
		log:          deps.Logger,
		store:        deps.Store,
		resolver:     Resolver{git: deps.Git},
	}
}

// RunPreCommit executes the commit-time checks: whitespace auto-fix,
// username, filenames, and file content.
func (r *Runner) RunPreCommit(ctx context.Context) (domain.RunReport, error) {
	return r.run(ctx, KindPreCommit)
}

// RunPreMerge executes the merge-time checks: whitespace auto-fix,
// username, and the do-not-merge marker scan.
func (r *Runner) RunPreMerge(ctx context.Context) (domain.RunReport, error) {
	return r.run(ctx, KindPreMerge)
}

func (r *Runner) run(ctx context.Context, kind string) (domain.RunReport, error) {
	report := domain.RunReport{HookKind: kind}

	files, err := r.git.CommitFiles(ctx)
	if err != nil {
		// Without the commit file set no check can run at all.
		return report, fmt.Errorf("resolve commit files: %w", err)
	}

	if r.opts.AutofixWhitespace {
		r.section("Auto remove trailing white space ...")
		r.fixWhitespace(ctx, files.Modified, false, &report)
		r.fixWhitespace(ctx, files.Added, true, &report)
	}

	r.section("Check username ...")
	r.checkUsername(ctx, &report)

	if kind == KindPreMerge {
		r.section("Check do not merge ...")
		r.checkDoNotMerge(ctx, files.Modified, false, &report)
		r.checkDoNotMerge(ctx, files.Added, true, &report)
	} else {
		r.section("Check filenames ...")
		r.checkFilenames(ctx, files.All(), &report)

		r.section("Check content ...")
		r.checkContent(ctx, files.All(), &report)
	}

	r.saveRun(ctx, report)
	return report, nil
}

func (r *Runner) saveRun(ctx context.Context, report domain.RunReport) {
	if r.store == nil {
		return
	}
	if err := r.store.SaveRun(ctx, report); err != nil {
		r.warn(ctx, "failed to save run history", map[string]interface{}{
			"hook":  report.HookKind,
			"error": err.Error(),
		})
	}
}

// section prints a check phase banner.
func (r *Runner) section(message string) {
	fmt.Fprintf(r.out, " %s\n", message)
}

// progress prints the per-file progress line; suppressed when stdout is
// not a terminal.
func (r *Runner) progress(path string) {
	if r.showProgress {
		fmt.Fprintf(r.out, "  Checking file %s\n", path)
	}
}

// violation records a rule failure and echoes it to the user.
func (r *Runner) violation(report *domain.RunReport, v domain.Violation) {
	report.Add(v)
	fmt.Fprintf(r.out, "   %s\n", v.String())
}

func (r *Runner) warn(ctx context.Context, message string, fields map[string]interface{}) {
	if r.log != nil {
		r.log.Warn(ctx, message, fields)
	}
}
