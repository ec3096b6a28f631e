// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PropertyCategory classifies the intent of an extracted requirement.
type PropertyCategory string

const (
	CategorySafety   PropertyCategory = "Safety"
	CategoryLiveness PropertyCategory = "Liveness"
	CategoryOrdering PropertyCategory = "Ordering"
	CategoryTiming   PropertyCategory = "Timing"
	CategoryUnknown  PropertyCategory = "Unknown"
)

// ValidCategory reports whether c is one of the recognized categories.
func ValidCategory(c PropertyCategory) bool {
	switch c {
	case CategorySafety, CategoryLiveness, CategoryOrdering, CategoryTiming, CategoryUnknown:
		return true
	}
	return false
}

// Property is a natural-language requirement statement extracted from a
// property-rich RFC section.
type Property struct {
	// ID is an 8-character identifier assigned at extraction time.
	ID string `json:"id" yaml:"id"`

	// RFC is the source document identifier (e.g. "8446").
	RFC string `json:"rfc" yaml:"rfc"`

	// Section is the section number where the requirement was found.
	Section string `json:"section" yaml:"section"`

	// Text is the complete requirement statement.
	Text string `json:"text" yaml:"text"`

	// Category is Safety, Liveness, Ordering, Timing, or Unknown.
	Category PropertyCategory `json:"category" yaml:"category"`

	// Timestamp records when the property was extracted.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// PropositionKind classifies what an atomic proposition describes.
type PropositionKind string

const (
	KindAction    PropositionKind = "action"
	KindState     PropositionKind = "state"
	KindEvent     PropositionKind = "event"
	KindCondition PropositionKind = "condition"
)

// ValidKind reports whether k is one of the recognized proposition kinds.
func ValidKind(k PropositionKind) bool {
	switch k {
	case KindAction, KindState, KindEvent, KindCondition:
		return true
	}
	return false
}

// Proposition is an indivisible boolean-valued statement decomposed from a
// property, named in snake_case for use inside LTL formulas.
type Proposition struct {
	// ID is an 8-character identifier assigned at extraction time.
	ID string `json:"id" yaml:"id"`

	// PropertyID links the proposition to its parent property.
	PropertyID string `json:"property_id" yaml:"property_id"`

	// Name is the snake_case proposition name (e.g. "client_sends_data").
	Name string `json:"name" yaml:"name"`

	// Kind is action, state, event, or condition.
	Kind PropositionKind `json:"kind" yaml:"kind"`

	// Description explains what the proposition represents.
	Description string `json:"description" yaml:"description"`

	// Timestamp records when the proposition was extracted.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Approved is set once a reviewer has accepted the proposition.
	Approved bool `json:"approved" yaml:"approved"`

	// ApprovedBy names the reviewer who approved it.
	ApprovedBy string `json:"approved_by,omitempty" yaml:"approved_by,omitempty"`
}

// Formula is a synthesized LTL formula for one property.
type Formula struct {
	// ID is an 8-character identifier assigned at generation time.
	ID string `json:"id" yaml:"id"`

	// PropertyID links the formula to its property. In practice at most
	// one formula exists per property.
	PropertyID string `json:"property_id" yaml:"property_id"`

	// Text is the LTL formula over the property's proposition names.
	Text string `json:"formula" yaml:"formula"`

	// Explanation is a brief reading of the formula.
	Explanation string `json:"explanation" yaml:"explanation"`

	// Operators lists the temporal operators used (e.g. "G", "F", "->").
	Operators []string `json:"operators_used" yaml:"operators_used"`

	// Timestamp records when the formula was generated.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Approved is set once a reviewer has accepted the formula.
	Approved bool `json:"approved" yaml:"approved"`

	// ApprovedBy names the reviewer who approved it.
	ApprovedBy string `json:"approved_by,omitempty" yaml:"approved_by,omitempty"`
}

// CompleteRecord is the on-demand join of a property with its aggregated
// proposition names and first matching formula. It is derived from the
// store and never independently authoritative.
type CompleteRecord struct {
	PropertyID      string           `json:"property_id" yaml:"property_id"`
	RFCNumber       string           `json:"rfc_number" yaml:"rfc_number"`
	Section         string           `json:"section" yaml:"section"`
	Category        PropertyCategory `json:"property_category" yaml:"property_category"`
	NaturalLanguage string           `json:"natural_language" yaml:"natural_language"`

	// AtomicPropositions is the comma-joined proposition names, or empty
	// when the property has none.
	AtomicPropositions string `json:"atomic_propositions" yaml:"atomic_propositions"`

	// Formula fields come from the first formula matching the property;
	// all default to empty/false when no formula exists.
	Formula     string `json:"ltl_formula" yaml:"ltl_formula"`
	Explanation string `json:"ltl_explanation" yaml:"ltl_explanation"`
	Operators   string `json:"ltl_operators" yaml:"ltl_operators"`
	Approved    bool   `json:"approved" yaml:"approved"`

	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}
