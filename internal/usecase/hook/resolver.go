package hook

import "context"

// Resolver produces the set of line numbers a content check or auto-fix
// should visit for one file in the pending commit.
type Resolver struct {
	git GitEngine
}

// Resolve returns the ordered 1-based line numbers to check. For a newly
// added file no diff is consulted: every line from 1 to totalLines is
// returned. For a modified file the result is the changed-line set from a
// zero-context diff against HEAD, which may legitimately be empty (a mode
// change touches no lines).
//
// The result is a snapshot of version-control state at call time. Callers
// mapping the numbers back into file content must tolerate a number that
// no longer exists in the file by skipping it with a diagnostic.
func (r Resolver) Resolve(ctx context.Context, path string, isNew bool, totalLines int) ([]int, error) {
	if isNew {
		lines := make([]int, totalLines)
		for i := range lines {
			lines[i] = i + 1
		}
		return lines, nil
	}
	return r.git.ChangedLines(ctx, path)
}
