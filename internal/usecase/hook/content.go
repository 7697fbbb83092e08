package hook

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ccdc-opensource/githook/internal/domain"
)

// Build-checker regressions we reject up front in C++ sources.
var (
	cppIncludeBackslashPattern  = regexp.MustCompile(`^\s*#\s*include\s*["<][^">]*\\`)
	cppThrowStdExceptionPattern = regexp.MustCompile(`\bthrow\s+(std\s*::\s*)?exception\s*\(`)
)

// checkContent inspects the content of every checked-extension text file
// in the commit. Unreadable and binary files are skipped with a
// diagnostic. Violations accumulate across files; within one file the
// first violation stops that file's inspection.
func (r *Runner) checkContent(ctx context.Context, files []string, report *domain.RunReport) {
	for _, path := range files {
		class := domain.Classify(path)
		if class == domain.ClassSkip {
			continue
		}

		data, err := os.ReadFile(filepath.Join(r.repoDir, path))
		if err != nil {
			r.warn(ctx, "content check skipped", map[string]interface{}{
				"file":  path,
				"error": err.Error(),
			})
			continue
		}
		if bytes.IndexByte(data, 0) >= 0 {
			// Binary despite the extension.
			continue
		}

		r.progress(path)
		if v, ok := contentViolation(path, string(data), class); ok {
			r.violation(report, v)
		}
	}
}

func contentViolation(path, data string, class domain.FileClass) (domain.Violation, bool) {
	if strings.Contains(strings.ToLower(data), "do not commit") {
		return domain.Violation{
			Check:   domain.CheckContent,
			File:    path,
			Message: "found DO NOT COMMIT, remove file from index",
		}, true
	}

	if strings.Contains(data, "\t") {
		return domain.Violation{
			Check:   domain.CheckContent,
			File:    path,
			Message: "found tab characters, replace with spaces",
		}, true
	}

	if class.NeedsTerminatingNewline() && !strings.HasSuffix(data, "\n") {
		return domain.Violation{
			Check:   domain.CheckContent,
			File:    path,
			Message: "missing terminating newline",
		}, true
	}

	if class == domain.ClassCPPSource {
		for i, line := range strings.Split(data, "\n") {
			if cppIncludeBackslashPattern.MatchString(line) {
				return domain.Violation{
					Check:   domain.CheckContent,
					File:    path,
					Line:    i + 1,
					Message: "backslash in #include",
				}, true
			}
			if cppThrowStdExceptionPattern.MatchString(line) {
				return domain.Violation{
					Check:   domain.CheckContent,
					File:    path,
					Line:    i + 1,
					Message: "std::exception thrown",
				}, true
			}
		}
	}

	return domain.Violation{}, false
}
