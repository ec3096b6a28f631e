// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import "testing"

func TestAdvance(t *testing.T) {
	tests := []struct {
		name    string
		current Stage
		out     Outputs
		want    Stage
		wantErr bool
	}{
		{
			name:    "upload advances with properties",
			current: StageUpload,
			out:     Outputs{Properties: 4},
			want:    StageReviewProperties,
		},
		{
			name:    "upload blocked without properties",
			current: StageUpload,
			out:     Outputs{},
			wantErr: true,
		},
		{
			name:    "review advances with propositions",
			current: StageReviewProperties,
			out:     Outputs{Properties: 4, Propositions: 9},
			want:    StageApprovePropositions,
		},
		{
			name:    "review blocked without propositions",
			current: StageReviewProperties,
			out:     Outputs{Properties: 4},
			wantErr: true,
		},
		{
			name:    "proposition approval advances with formulas",
			current: StageApprovePropositions,
			out:     Outputs{Properties: 4, Propositions: 9, Formulas: 4},
			want:    StageApproveLTL,
		},
		{
			name:    "proposition approval blocked without formulas",
			current: StageApprovePropositions,
			out:     Outputs{Properties: 4, Propositions: 9},
			wantErr: true,
		},
		{
			name:    "formula approval advances unconditionally",
			current: StageApproveLTL,
			out:     Outputs{},
			want:    StageView,
		},
		{
			name:    "view has no successor",
			current: StageView,
			out:     Outputs{Properties: 4, Propositions: 9, Formulas: 4},
			wantErr: true,
		},
		{
			name:    "unknown stage rejected",
			current: Stage("bogus"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Advance(tt.current, tt.out)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got stage %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Advance(%q) = %q, want %q", tt.current, got, tt.want)
			}
		})
	}
}

func TestNextCoversAllStages(t *testing.T) {
	seen := map[Stage]bool{StageUpload: true}
	current := StageUpload
	for {
		next, ok := Next(current)
		if !ok {
			break
		}
		if seen[next] {
			t.Fatalf("cycle detected at %q", next)
		}
		seen[next] = true
		current = next
	}
	if current != StageView {
		t.Errorf("terminal stage = %q, want %q", current, StageView)
	}
	if len(seen) != 5 {
		t.Errorf("walked %d stages, want 5", len(seen))
	}
}

func TestReset(t *testing.T) {
	if got := Reset(); got != StageUpload {
		t.Errorf("Reset() = %q, want %q", got, StageUpload)
	}
}

func TestValid(t *testing.T) {
	for _, s := range []Stage{StageUpload, StageReviewProperties, StageApprovePropositions, StageApproveLTL, StageView} {
		if !Valid(s) {
			t.Errorf("Valid(%q) = false", s)
		}
	}
	if Valid("nonsense") {
		t.Error("Valid accepted an unknown stage")
	}
}
