package diff

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// hunkHeaderPattern matches "@@ -<old-range> +<new-start>[,<new-count>] @@".
// Only the new-file field is captured. Compiled once at package init and
// never mutated afterwards.
var hunkHeaderPattern = regexp.MustCompile(`^@@ \S+ \+?(\d+)(?:,(\d+))? @@`)

// HunkMarker introduces a hunk header line in unified diff output.
const HunkMarker = "@@"

// ErrMalformedHunkHeader indicates a line that claims to be a hunk header
// but does not match the unified diff header shape. Processing of that
// file's diff must stop; guessing at line numbers would silently corrupt
// every downstream check.
var ErrMalformedHunkHeader = errors.New("malformed hunk header")

// Hunk describes the new-file side of one hunk header, e.g. the "+12,3"
// field of "@@ -10,2 +12,3 @@".
type Hunk struct {
	NewStart int // 1-based first line of the hunk in the post-change file
	NewCount int // number of new-side lines; 0 for a pure deletion
}

// ParseHunkHeader parses a single hunk header line. The caller filters to
// lines beginning with HunkMarker; anything else that reaches here fails
// with ErrMalformedHunkHeader.
//
// An absent count ("+7" rather than "+7,3") means the hunk covers exactly
// one line. A count of zero means the hunk only deleted lines and covers
// no line in the new file.
func ParseHunkHeader(line string) (Hunk, error) {
	match := hunkHeaderPattern.FindStringSubmatch(line)
	if match == nil {
		return Hunk{}, fmt.Errorf("%w: %q", ErrMalformedHunkHeader, line)
	}

	start, err := strconv.Atoi(match[1])
	if err != nil {
		return Hunk{}, fmt.Errorf("%w: %q", ErrMalformedHunkHeader, line)
	}

	count := 1
	if match[2] != "" {
		count, err = strconv.Atoi(match[2])
		if err != nil {
			return Hunk{}, fmt.Errorf("%w: %q", ErrMalformedHunkHeader, line)
		}
	}

	return Hunk{NewStart: start, NewCount: count}, nil
}

// Lines returns the 1-based line numbers this hunk covers in the new file,
// in increasing order. A pure-deletion hunk returns nil.
func (h Hunk) Lines() []int {
	if h.NewCount <= 0 {
		return nil
	}
	lines := make([]int, h.NewCount)
	for i := range lines {
		lines[i] = h.NewStart + i
	}
	return lines
}

// ChangedLines extracts the ordered set of new/changed line numbers from a
// unified diff patch. Only hunk header lines are consulted; with a patch
// generated at --unified=0 the result contains no context lines.
//
// Hunks do not overlap in a well-formed diff, so the result is strictly
// increasing and free of duplicates. A patch with no hunks yields an empty
// result. A malformed header aborts the whole extraction.
func ChangedLines(patch string) ([]int, error) {
	lines := []int{}
	for _, raw := range strings.Split(patch, "\n") {
		if !strings.HasPrefix(raw, HunkMarker) {
			continue
		}
		hunk, err := ParseHunkHeader(raw)
		if err != nil {
			return nil, err
		}
		lines = append(lines, hunk.Lines()...)
	}
	return lines, nil
}
