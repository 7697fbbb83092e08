package hook

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccdc-opensource/githook/internal/domain"
)

func TestFilenameViolation(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		wantMessage string // substring; empty means legal
	}{
		{"plain source file", "src/solver.cpp", ""},
		{"nested path", "a/b/c/d.py", ""},
		{"colon in name", "data:v2.csv", "illegal character"},
		{"question mark", "why?.txt", "illegal character"},
		{"control character", "bad\x01name.txt", "illegal character"},
		{"reserved device name", "drivers/con.c", "reserved on Windows"},
		{"reserved name with extension only", "aux.inl", "reserved on Windows"},
		{"reserved name as substring is fine", "console.py", ""},
		{"trailing period", "notes.", "not permitted to end"},
		{"trailing space", "notes.txt ", "not permitted to end"},
		{"non-ascii path", "docs/réadme.txt", "only ASCII characters"},
		{"overlong path", strings.Repeat("d/", 110) + "f.c", "too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, found := filenameViolation(tt.path, 208)
			if tt.wantMessage == "" {
				assert.False(t, found, "expected %q to be legal, got %q", tt.path, v.Message)
				return
			}
			require.True(t, found, "expected a violation for %q", tt.path)
			assert.Equal(t, domain.CheckFilename, v.Check)
			assert.Contains(t, v.Message, tt.wantMessage)
		})
	}
}

func TestCheckFilenames_CaseCollision(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("collision check is disabled on Windows hosts")
	}

	engine := &fakeEngine{
		branch: []string{"src/Main.cpp", "src/main.cpp", "other.py"},
	}
	runner := NewRunner(Deps{Git: engine, RepoDir: t.TempDir(), Options: defaultOptions()})

	var report domain.RunReport
	runner.checkFilenames(context.Background(), []string{"other.py"}, &report)

	require.Len(t, report.Violations, 1)
	assert.Contains(t, report.Violations[0].Message, "case-folding collision")
}

func TestCheckFilenames_CollisionCheckDisabled(t *testing.T) {
	engine := &fakeEngine{
		branch: []string{"src/Main.cpp", "src/main.cpp"},
	}
	opts := defaultOptions()
	opts.CaseCollision = false
	runner := NewRunner(Deps{Git: engine, RepoDir: t.TempDir(), Options: opts})

	var report domain.RunReport
	runner.checkFilenames(context.Background(), []string{"ok.py"}, &report)
	assert.Empty(t, report.Violations)
}

func TestCheckFilenames_StopsAtFirstViolation(t *testing.T) {
	engine := &fakeEngine{}
	runner := NewRunner(Deps{Git: engine, RepoDir: t.TempDir(), Options: defaultOptions()})

	var report domain.RunReport
	runner.checkFilenames(context.Background(), []string{"bad?.txt", "also:bad.txt"}, &report)

	require.Len(t, report.Violations, 1, "the filename check aborts on the first hit")
	assert.Equal(t, "bad?.txt", report.Violations[0].File)
}

func TestCheckFilenames_BranchListFailureSkipsCollisionCheck(t *testing.T) {
	engine := &fakeEngine{branchErr: errors.New("object not found")}
	runner := NewRunner(Deps{Git: engine, RepoDir: t.TempDir(), Options: defaultOptions()})

	var report domain.RunReport
	runner.checkFilenames(context.Background(), []string{"fine.py"}, &report)
	assert.Empty(t, report.Violations, "an unreadable branch list degrades to a diagnostic")
}
