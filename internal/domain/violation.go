package domain

import "fmt"

// Check identifiers used in violations and the run-history store.
const (
	CheckUsername   = "username"
	CheckFilename   = "filename"
	CheckContent    = "content"
	CheckDoNotMerge = "do-not-merge"
	CheckWhitespace = "whitespace"
)

// Violation is a single human-readable rule failure attached to a file
// (and line, where one applies; Line is 0 for whole-file violations).
type Violation struct {
	Check   string
	File    string
	Line    int
	Message string
}

func (v Violation) String() string {
	switch {
	case v.File == "":
		return fmt.Sprintf("[%s] %s", v.Check, v.Message)
	case v.Line > 0:
		return fmt.Sprintf("[%s] %s:%d: %s", v.Check, v.File, v.Line, v.Message)
	default:
		return fmt.Sprintf("[%s] %s: %s", v.Check, v.File, v.Message)
	}
}

// RunReport accumulates the outcome of one hook invocation. Per-file
// failures are isolated: a violation in one file never stops the checks
// for the remaining files.
type RunReport struct {
	HookKind   string
	Violations []Violation
	FilesFixed []string
}

// Add records a violation.
func (r *RunReport) Add(v Violation) {
	r.Violations = append(r.Violations, v)
}

// RecordFix notes a file rewritten by an auto-fix.
func (r *RunReport) RecordFix(path string) {
	r.FilesFixed = append(r.FilesFixed, path)
}

// Blocked reports whether the commit must be rejected. Auto-fixes alone
// never block; any violation does.
func (r RunReport) Blocked() bool {
	return len(r.Violations) > 0
}
