// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"strings"
	"testing"
)

func TestDiffIdenticalInputs(t *testing.T) {
	if got := Diff("same text", "same text"); got != "" {
		t.Errorf("Diff of identical inputs = %q, want empty", got)
	}
}

func TestDiffMarksChanges(t *testing.T) {
	before := "Client MUST send hello"
	after := "Client MUST NOT send hello"

	out := Diff(before, after)
	if !strings.Contains(out, "+ NOT") && !strings.Contains(out, "+NOT") {
		// The insertion may be merged with surrounding text; at minimum
		// an insertion line must exist.
		if !strings.Contains(out, "+ ") {
			t.Errorf("diff has no insertion marker:\n%s", out)
		}
	}
	if !strings.Contains(out, "Client MUST") {
		t.Errorf("diff lost unchanged context:\n%s", out)
	}
}

func TestDiffDeletion(t *testing.T) {
	out := Diff("G (a -> F b)", "G (a)")
	if !strings.Contains(out, "- ") {
		t.Errorf("diff has no deletion marker:\n%s", out)
	}
}

func TestSummary(t *testing.T) {
	removed, added := Summary("abc", "abXc")
	if removed != 0 || added != 1 {
		t.Errorf("Summary = (%d removed, %d added), want (0, 1)", removed, added)
	}

	removed, added = Summary("hello world", "hello")
	if removed == 0 || added != 0 {
		t.Errorf("Summary = (%d removed, %d added), want deletion only", removed, added)
	}
}
