// Package diff parses unified diff output into concrete line numbers.
//
// The hook only ever needs the new-file side of a hunk: given a patch
// produced with --unified=0, the line numbers covered by the
// "+start,count" fields are exactly the lines added or modified by the
// pending commit. Content checks and auto-fixes then apply to those
// lines only, never to untouched parts of the file.
package diff
