// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workflow models the linear review pipeline a document moves
// through: upload, property review, proposition approval, formula
// approval, and the final view. Transitions only move forward, each one
// requires the previous stage to have produced output, and the only way
// back is an explicit reset to upload.
package workflow

import "fmt"

// Stage is a position in the pipeline.
type Stage string

const (
	StageUpload              Stage = "upload"
	StageReviewProperties    Stage = "review_properties"
	StageApprovePropositions Stage = "approve_propositions"
	StageApproveLTL          Stage = "approve_ltl"
	StageView                Stage = "view"
)

// order lists the stages in pipeline order.
var order = []Stage{
	StageUpload,
	StageReviewProperties,
	StageApprovePropositions,
	StageApproveLTL,
	StageView,
}

// Valid reports whether s names a known stage.
func Valid(s Stage) bool {
	for _, st := range order {
		if st == s {
			return true
		}
	}
	return false
}

// Next returns the stage following s. The final stage has no successor.
func Next(s Stage) (Stage, bool) {
	for i, st := range order {
		if st == s && i+1 < len(order) {
			return order[i+1], true
		}
	}
	return "", false
}

// Outputs holds the per-document record counts a transition is gated on.
type Outputs struct {
	Properties   int
	Propositions int
	Formulas     int
}

// Advance returns the stage after current if the transition is allowed:
// each forward step requires the previous stage's output to be non-empty.
func Advance(current Stage, out Outputs) (Stage, error) {
	next, ok := Next(current)
	if !ok {
		if current == StageView {
			return "", fmt.Errorf("workflow is complete: reset to process another document")
		}
		return "", fmt.Errorf("unknown stage %q", current)
	}

	switch current {
	case StageUpload:
		if out.Properties == 0 {
			return "", fmt.Errorf("cannot advance past %s: no properties extracted", current)
		}
	case StageReviewProperties:
		if out.Propositions == 0 {
			return "", fmt.Errorf("cannot advance past %s: no propositions extracted", current)
		}
	case StageApprovePropositions:
		if out.Formulas == 0 {
			return "", fmt.Errorf("cannot advance past %s: no formulas generated", current)
		}
	}

	return next, nil
}

// Reset returns the initial stage. Persisted records are untouched; only
// the workflow position moves.
func Reset() Stage {
	return StageUpload
}
