package git_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/ccdc-opensource/githook/internal/adapter/git"
)

func TestEngineBranchFiles(t *testing.T) {
	tmp := t.TempDir()

	repo, err := goGit.PlainInit(tmp, false)
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	writeFile(t, tmp, "main.c", "int main(void) { return 0; }\n")
	writeFile(t, tmp, filepath.Join("scripts", "build.sh"), "#!/bin/sh\n")
	_, err = worktree.Add(".")
	require.NoError(t, err)

	_, err = worktree.Commit("initial", &goGit.CommitOptions{Author: defaultSignature()})
	require.NoError(t, err)

	engine := git.NewEngine(tmp)
	files, err := engine.BranchFiles(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"main.c", "scripts/build.sh"}, files)
}

func TestEngineCommitFilesAndChangedLines(t *testing.T) {
	requireGitBinary(t)
	tmp := t.TempDir()
	ctx := context.Background()

	runGit(t, tmp, "init")
	runGit(t, tmp, "config", "user.name", "Test User")
	runGit(t, tmp, "config", "user.email", "test@example.com")

	writeFile(t, tmp, "notes.py", "one\ntwo\nthree\n")
	runGit(t, tmp, "add", ".")
	runGit(t, tmp, "commit", "-m", "initial")

	// Modify an existing line and stage a brand new file.
	writeFile(t, tmp, "notes.py", "one\nTWO changed\nthree\n")
	writeFile(t, tmp, "added.sh", "echo hi\n")
	runGit(t, tmp, "add", ".")

	engine := git.NewEngine(tmp)

	set, err := engine.CommitFiles(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"notes.py"}, set.Modified)
	require.Equal(t, []string{"added.sh"}, set.Added)

	lines, err := engine.ChangedLines(ctx, "notes.py")
	require.NoError(t, err)
	require.Equal(t, []int{2}, lines)
}

func TestEngineChangedLinesUntouchedFile(t *testing.T) {
	requireGitBinary(t)
	tmp := t.TempDir()
	ctx := context.Background()

	runGit(t, tmp, "init")
	runGit(t, tmp, "config", "user.name", "Test User")
	runGit(t, tmp, "config", "user.email", "test@example.com")

	writeFile(t, tmp, "stable.c", "int x;\n")
	runGit(t, tmp, "add", ".")
	runGit(t, tmp, "commit", "-m", "initial")

	engine := git.NewEngine(tmp)
	lines, err := engine.ChangedLines(ctx, "stable.c")
	require.NoError(t, err)
	require.Empty(t, lines)
}

func requireGitBinary(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func defaultSignature() *object.Signature {
	return &object.Signature{
		Name:  "Test User",
		Email: "test@example.com",
		When:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
