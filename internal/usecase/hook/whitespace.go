package hook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccdc-opensource/githook/internal/domain"
)

// fixWhitespace strips trailing whitespace from the new/changed lines of
// each file, rewriting and re-staging files that needed fixing. It never
// produces violations; a fixed file does not block the commit.
func (r *Runner) fixWhitespace(ctx context.Context, files []string, isNew bool, report *domain.RunReport) {
	for _, path := range files {
		r.progress(path)
		if err := r.fixWhitespaceFile(ctx, path, isNew, report); err != nil {
			r.warn(ctx, "whitespace fix skipped", map[string]interface{}{
				"file":  path,
				"error": err.Error(),
			})
		}
	}
}

func (r *Runner) fixWhitespaceFile(ctx context.Context, path string, isNew bool, report *domain.RunReport) error {
	fullPath := filepath.Join(r.repoDir, path)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return err
	}

	lines := splitLinesKeepEnds(string(data))
	nums, err := r.resolver.Resolve(ctx, path, isNew, len(lines))
	if err != nil {
		return err
	}

	fixed := false
	for _, num := range nums {
		if num < 1 || num > len(lines) {
			r.warn(ctx, "resolved line not in current file content", map[string]interface{}{
				"file": path,
				"line": num,
			})
			continue
		}
		before := lines[num-1]
		after := trimTrailingWhitespace(before)
		if before != after {
			fmt.Fprintf(r.out, "   Fixed line %d\n", num)
			lines[num-1] = after
			fixed = true
		}
	}

	if !fixed {
		return nil
	}

	if err := os.WriteFile(fullPath, []byte(strings.Join(lines, "")), 0o644); err != nil {
		return err
	}
	if err := r.git.AddToIndex(ctx, path); err != nil {
		return err
	}
	report.RecordFix(path)
	return nil
}

// trimTrailingWhitespace removes whitespace before the line terminator,
// preserving the terminator itself (LF or CRLF).
func trimTrailingWhitespace(line string) string {
	body, eol := line, ""
	if strings.HasSuffix(body, "\n") {
		body, eol = body[:len(body)-1], "\n"
		if strings.HasSuffix(body, "\r") {
			body, eol = body[:len(body)-1], "\r\n"
		}
	}
	return strings.TrimRight(body, " \t\f\v\r") + eol
}

// splitLinesKeepEnds splits file content into lines with their terminators
// attached, so the file can be rejoined byte for byte.
func splitLinesKeepEnds(data string) []string {
	if data == "" {
		return nil
	}
	lines := strings.SplitAfter(data, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
