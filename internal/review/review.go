// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review renders human edits made during the review stages as
// diffs so a reviewer can see exactly what changed before it is saved.
package review

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a line-oriented rendering of the change from before to
// after. Unchanged runs are prefixed with two spaces, deletions with "-"
// and insertions with "+". Identical inputs yield an empty string.
func Diff(before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			writePrefixed(&b, "- ", d.Text)
		case diffmatchpatch.DiffInsert:
			writePrefixed(&b, "+ ", d.Text)
		case diffmatchpatch.DiffEqual:
			writePrefixed(&b, "  ", d.Text)
		}
	}
	return b.String()
}

// writePrefixed writes text with each line carrying the given prefix.
func writePrefixed(b *strings.Builder, prefix, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
	}
}

// Summary returns a one-line description of the edit: how many characters
// were removed and added.
func Summary(before, after string) (removed, added int) {
	dmp := diffmatchpatch.New()
	for _, d := range dmp.DiffMain(before, after, false) {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			removed += len(d.Text)
		case diffmatchpatch.DiffInsert:
			added += len(d.Text)
		}
	}
	return removed, added
}
