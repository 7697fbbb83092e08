package hook

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccdc-opensource/githook/internal/domain"
)

// checkDoNotMerge scans the new/changed lines of each file for the
// "do not merge" marker (case insensitive). A hit stops that file's scan;
// the remaining files are still checked.
func (r *Runner) checkDoNotMerge(ctx context.Context, files []string, isNew bool, report *domain.RunReport) {
	for _, path := range files {
		r.progress(path)
		if err := r.checkDoNotMergeFile(ctx, path, isNew, report); err != nil {
			r.warn(ctx, "do-not-merge check skipped", map[string]interface{}{
				"file":  path,
				"error": err.Error(),
			})
		}
	}
}

func (r *Runner) checkDoNotMergeFile(ctx context.Context, path string, isNew bool, report *domain.RunReport) error {
	data, err := os.ReadFile(filepath.Join(r.repoDir, path))
	if err != nil {
		return err
	}

	lines := splitLinesKeepEnds(string(data))
	nums, err := r.resolver.Resolve(ctx, path, isNew, len(lines))
	if err != nil {
		return err
	}

	for _, num := range nums {
		if num < 1 || num > len(lines) {
			r.warn(ctx, "resolved line not in current file content", map[string]interface{}{
				"file": path,
				"line": num,
			})
			continue
		}
		if strings.Contains(strings.ToLower(lines[num-1]), "do not merge") {
			r.violation(report, domain.Violation{
				Check:   domain.CheckDoNotMerge,
				File:    path,
				Line:    num,
				Message: `found DO NOT MERGE; run "git merge --abort" to start again, or remove the file from the index before completing the merge with "git commit"`,
			})
			return nil
		}
	}
	return nil
}
