package domain

import "path"

const (
	ChangeModified = "modified"
	ChangeAdded    = "added"
)

// CommitFileSet holds the file paths touched by the pending commit, split
// by change classification. It is built once per hook invocation from the
// index diff against HEAD and never mutated afterwards.
type CommitFileSet struct {
	Modified []string
	Added    []string
}

// All returns modified files followed by added files, preserving the
// order git reported them in.
func (s CommitFileSet) All() []string {
	all := make([]string, 0, len(s.Modified)+len(s.Added))
	all = append(all, s.Modified...)
	all = append(all, s.Added...)
	return all
}

// Empty reports whether the commit touches no tracked files.
func (s CommitFileSet) Empty() bool {
	return len(s.Modified) == 0 && len(s.Added) == 0
}

// FileClass selects which content rules apply to a file. Classification
// happens once per file, by extension.
type FileClass int

const (
	// ClassSkip marks files whose content is not checked at all.
	ClassSkip FileClass = iota
	// ClassText gets the generic content checks (markers, tabs).
	ClassText
	// ClassCSource additionally requires a terminating newline.
	ClassCSource
	// ClassCPPSource additionally gets the C++ source pattern checks.
	ClassCPPSource
)

// checkedExts lists the extensions whose content the hook inspects.
// Matching is case sensitive; Fortran appears twice because .F marks
// preprocessed sources.
var checkedExts = map[string]FileClass{
	".bat":   ClassText,
	".c":     ClassCSource,
	".cgi":   ClassText,
	".cmake": ClassText,
	".cpp":   ClassCPPSource,
	".cs":    ClassText,
	".css":   ClassText,
	".F":     ClassText,
	".f":     ClassText,
	".h":     ClassCPPSource,
	".inc":   ClassText,
	".inl":   ClassCPPSource,
	".java":  ClassText,
	".js":    ClassText,
	".php":   ClassText,
	".pri":   ClassText,
	".pro":   ClassText,
	".ps1":   ClassText,
	".py":    ClassText,
	".sed":   ClassText,
	".sh":    ClassText,
	".svc":   ClassText,
	".tpl":   ClassText,
}

// Classify maps a file path to the content rules that apply to it.
// Unrecognized extensions are skipped entirely.
func Classify(filePath string) FileClass {
	if class, ok := checkedExts[path.Ext(filePath)]; ok {
		return class
	}
	return ClassSkip
}

// NeedsTerminatingNewline reports whether the class requires source files
// to end with a newline.
func (c FileClass) NeedsTerminatingNewline() bool {
	return c == ClassCSource || c == ClassCPPSource
}
