package hook

import (
	"context"
	"fmt"
	"path"
	"runtime"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/ccdc-opensource/githook/internal/domain"
)

// illegalFilenameChars are forbidden in filenames by Windows.
// https://msdn.microsoft.com/en-us/library/windows/desktop/aa365247.aspx#naming_conventions
const illegalFilenameChars = `\/:*?"<>|`

// windowsReservedNames are device names that cannot be used as file stems
// on Windows.
var windowsReservedNames = map[string]struct{}{
	"con": {}, "prn": {}, "aux": {}, "nul": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {},
	"com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {},
	"lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// checkFilenames rejects paths that would break a checkout on Windows:
// case-folding collisions, illegal characters, reserved device names,
// trailing dots/whitespace, non-ASCII paths, and over-long subpaths.
// The first violation stops this check; the other checks still run.
func (r *Runner) checkFilenames(ctx context.Context, files []string, report *domain.RunReport) {
	// Windows checkouts are already case-insensitive, so a colliding pair
	// could not have been committed there in the first place.
	if r.opts.CaseCollision && runtime.GOOS != "windows" {
		if collision, ok := r.findCaseCollision(ctx); ok {
			r.violation(report, collision)
			return
		}
	}

	for _, filePath := range files {
		r.progress(filePath)
		if v, ok := filenameViolation(filePath, r.opts.MaxSubpathChars); ok {
			r.violation(report, v)
			return
		}
	}
}

func (r *Runner) findCaseCollision(ctx context.Context) (domain.Violation, bool) {
	branchFiles, err := r.git.BranchFiles(ctx)
	if err != nil {
		r.warn(ctx, "case collision check skipped", map[string]interface{}{
			"error": err.Error(),
		})
		return domain.Violation{}, false
	}

	folder := cases.Fold()
	seen := make(map[string]string, len(branchFiles))
	for _, f := range branchFiles {
		folded := folder.String(f)
		if other, ok := seen[folded]; ok {
			return domain.Violation{
				Check:   domain.CheckFilename,
				File:    f,
				Message: fmt.Sprintf("case-folding collision between %q and %q", f, other),
			}, true
		}
		seen[folded] = f
	}
	return domain.Violation{}, false
}

func filenameViolation(filePath string, maxSubpathChars int) (domain.Violation, bool) {
	name := path.Base(filePath)

	for _, ch := range name {
		if ch <= 31 || strings.ContainsRune(illegalFilenameChars, ch) {
			return domain.Violation{
				Check:   domain.CheckFilename,
				File:    filePath,
				Message: fmt.Sprintf("illegal character %q in filename %q", ch, name),
			}, true
		}
	}

	stem := strings.TrimSuffix(name, path.Ext(name))
	if _, reserved := windowsReservedNames[stem]; reserved {
		return domain.Violation{
			Check:   domain.CheckFilename,
			File:    filePath,
			Message: fmt.Sprintf("illegal filename %q, reserved on Windows", name),
		}, true
	}

	last := rune(filePath[len(filePath)-1])
	if last == '.' || unicode.IsSpace(last) {
		return domain.Violation{
			Check:   domain.CheckFilename,
			File:    filePath,
			Message: "names are not permitted to end with \".\" or whitespace",
		}, true
	}

	for i := 0; i < len(filePath); i++ {
		if filePath[i] > 127 {
			return domain.Violation{
				Check:   domain.CheckFilename,
				File:    filePath,
				Message: "only ASCII characters are permitted in paths",
			}, true
		}
	}

	if len(filePath) > maxSubpathChars {
		return domain.Violation{
			Check:   domain.CheckFilename,
			File:    filePath,
			Message: fmt.Sprintf("file path is too long, it must be %d characters or less", maxSubpathChars),
		}, true
	}

	return domain.Violation{}, false
}
