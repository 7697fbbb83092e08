package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ccdc-opensource/githook/internal/diff"
	"github.com/ccdc-opensource/githook/internal/domain"
)

// ErrDiffUnavailable indicates the diff for a file could not be obtained
// from git. The affected file's checks fail; the run continues with the
// remaining files.
var ErrDiffUnavailable = errors.New("diff unavailable")

// authorIdentPattern extracts the author name from "git var GIT_AUTHOR_IDENT"
// output, e.g. "Jane Doe <jane@example.com> 1718000000 +0100".
var authorIdentPattern = regexp.MustCompile(`^(.+) <`)

// Engine answers queries about the repository's pending commit. Tree and
// HEAD queries go through go-git; index diffs use the git binary because
// only it sees the exact commit-in-progress state the hook runs against.
type Engine struct {
	repoDir string
}

// NewEngine constructs a git engine for the provided repository directory.
func NewEngine(repoDir string) *Engine {
	return &Engine{repoDir: repoDir}
}

// CommitFiles returns the modified and added file paths in the pending
// commit, in the order git reports them. Deletions, renames and other
// change kinds are not checked by the hook and are ignored.
func (e *Engine) CommitFiles(ctx context.Context) (domain.CommitFileSet, error) {
	out, err := e.runGit(ctx, "diff-index", "HEAD")
	if err != nil {
		return domain.CommitFileSet{}, fmt.Errorf("list commit files: %w", err)
	}

	var set domain.CommitFileSet
	for _, line := range strings.Split(out, "\n") {
		status, path, ok := parseDiffIndexLine(line)
		if !ok {
			continue
		}
		switch status {
		case "M":
			set.Modified = append(set.Modified, path)
		case "A":
			set.Added = append(set.Added, path)
		}
	}
	return set, nil
}

// parseDiffIndexLine splits one raw diff-index record into its status
// letter and path. Records look like
// ":100644 100644 <sha> <sha> M\tdir/file.c".
func parseDiffIndexLine(line string) (status, path string, ok bool) {
	meta, path, found := strings.Cut(line, "\t")
	if !found || path == "" {
		return "", "", false
	}
	fields := strings.Fields(meta)
	if len(fields) == 0 {
		return "", "", false
	}
	return fields[len(fields)-1], path, true
}

// ChangedLines resolves the ordered set of line numbers in path that the
// pending commit adds or modifies. The diff is requested with zero context
// lines so every hunk range covers changed content only. The result is a
// point-in-time snapshot; re-editing the file invalidates it.
func (e *Engine) ChangedLines(ctx context.Context, path string) ([]int, error) {
	patch, err := e.runGit(ctx, "diff-index", "HEAD", "-p", "--unified=0", "--", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDiffUnavailable, path, err)
	}

	lines, err := diff.ChangedLines(patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lines, nil
}

// AuthorName returns the name of the commit author as git resolves it for
// the pending commit.
func (e *Engine) AuthorName(ctx context.Context) (string, error) {
	out, err := e.runGit(ctx, "var", "GIT_AUTHOR_IDENT")
	if err != nil {
		return "", fmt.Errorf("resolve author ident: %w", err)
	}

	match := authorIdentPattern.FindStringSubmatch(out)
	if match == nil {
		return "", fmt.Errorf("unexpected author ident %q", strings.TrimSpace(out))
	}
	return match[1], nil
}

// BranchFiles lists every file tracked on the current branch.
func (e *Engine) BranchFiles(ctx context.Context) ([]string, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD tree: %w", err)
	}

	var files []string
	err = tree.Files().ForEach(func(f *object.File) error {
		files = append(files, f.Name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk HEAD tree: %w", err)
	}
	return files, nil
}

// AddToIndex stages path, re-adding an auto-fixed file to the pending
// commit.
func (e *Engine) AddToIndex(ctx context.Context, path string) error {
	if _, err := e.runGit(ctx, "add", "--", path); err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	return nil
}

func (e *Engine) runGit(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", e.repoDir}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("git %v: %w", args, ctx.Err())
		}
		if stderr.Len() > 0 {
			err = fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("git %v: %w", args, err)
	}
	return stdout.String(), nil
}
