package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccdc-opensource/githook/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveRunAndReadBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	report := domain.RunReport{
		HookKind:   "pre-commit",
		FilesFixed: []string{"a.py", "b.py"},
	}
	report.Add(domain.Violation{Check: domain.CheckContent, File: "a.cpp", Line: 12, Message: "tab characters"})
	report.Add(domain.Violation{Check: domain.CheckUsername, Message: `bad username "root"`})

	require.NoError(t, store.SaveRun(ctx, report))

	runs, err := store.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "pre-commit", runs[0].Hook)
	assert.True(t, runs[0].Blocked)
	assert.Equal(t, 2, runs[0].FilesFixed)

	violations, err := store.Violations(ctx, runs[0].ID)
	require.NoError(t, err)
	require.Len(t, violations, 2)
	assert.Equal(t, domain.CheckContent, violations[0].Check)
	assert.Equal(t, "a.cpp", violations[0].File)
	assert.Equal(t, 12, violations[0].Line)
	assert.Equal(t, domain.CheckUsername, violations[1].Check)
}

func TestSaveRun_CleanRunNotBlocked(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, domain.RunReport{HookKind: "pre-merge-commit"}))

	runs, err := store.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.False(t, runs[0].Blocked)
	assert.Equal(t, 0, runs[0].FilesFixed)
}

func TestRecentRuns_RespectsLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.SaveRun(ctx, domain.RunReport{HookKind: "pre-commit"}))
	}

	runs, err := store.RecentRuns(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}
