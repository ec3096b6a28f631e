// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package formalize turns ranked RFC sections into formal artifacts through
// three batched language-model stages: requirement properties, atomic
// propositions, and LTL formulas. Each stage is a single call covering all
// inputs, and each response must carry one well-formed JSON array.
package formalize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/rfc-formalizer/pkg/types"
)

// Backend abstracts the language-model API so tests can supply a mock.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Defaults for the extraction request caps.
const (
	DefaultMaxSections     = 10
	DefaultMaxSectionChars = 2000
)

// newID and now are package vars so tests can pin ids and timestamps.
var (
	newID = func() string { return uuid.NewString()[:8] }
	now   = func() time.Time { return time.Now().UTC() }
)

// DecodeError reports a model response that could not be decoded into the
// stage's expected JSON array. It fails the stage closed: the caller treats
// the stage as having produced nothing and does not advance the workflow.
type DecodeError struct {
	// Stage names the pipeline stage whose response was malformed.
	Stage string

	// Reason describes the decode or validation failure.
	Reason string

	// Raw is a truncated excerpt of the offending response text.
	Raw string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: malformed model response: %s", e.Stage, e.Reason)
}

// decodeArray locates the JSON array in the response text and decodes it
// strictly into a slice of T. Anything before the array (prose preambles)
// is ignored; the array itself must decode cleanly with no unknown fields.
func decodeArray[T any](stage, text string) ([]T, error) {
	start := strings.Index(text, "[")
	if start < 0 {
		return nil, &DecodeError{Stage: stage, Reason: "no JSON array in response", Raw: excerpt(text)}
	}

	dec := json.NewDecoder(strings.NewReader(text[start:]))
	dec.DisallowUnknownFields()

	var out []T
	if err := dec.Decode(&out); err != nil {
		return nil, &DecodeError{Stage: stage, Reason: err.Error(), Raw: excerpt(text)}
	}
	return out, nil
}

// excerpt truncates response text for error reporting.
func excerpt(text string) string {
	const limit = 200
	text = strings.TrimSpace(text)
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}

// propertyItem is one element of the stage-1 response array.
type propertyItem struct {
	Section string `json:"section"`
	Text    string `json:"text"`
	Type    string `json:"type"`
}

// ExtractProperties sends the top-ranked sections to the model in one
// batched call and returns the requirement properties it identifies.
// At most cfg.MaxSections sections are included, each truncated to
// cfg.MaxSectionChars characters.
func ExtractProperties(ctx context.Context, b Backend, sections []types.Section, rfcNumber string, cfg types.ExtractionConfig) ([]types.Property, error) {
	maxSections := cfg.MaxSections
	if maxSections <= 0 {
		maxSections = DefaultMaxSections
	}
	if len(sections) > maxSections {
		sections = sections[:maxSections]
	}

	prompt, err := renderPropertiesPrompt(sections, rfcNumber, cfg.MaxSectionChars)
	if err != nil {
		return nil, fmt.Errorf("rendering properties prompt: %w", err)
	}

	text, err := b.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("property extraction call: %w", err)
	}

	items, err := decodeArray[propertyItem]("property extraction", text)
	if err != nil {
		return nil, err
	}

	ts := now()
	properties := make([]types.Property, 0, len(items))
	for _, item := range items {
		category := types.PropertyCategory(item.Type)
		if !types.ValidCategory(category) {
			category = types.CategoryUnknown
		}
		properties = append(properties, types.Property{
			ID:        newID(),
			RFC:       rfcNumber,
			Section:   item.Section,
			Text:      item.Text,
			Category:  category,
			Timestamp: ts,
		})
	}
	return properties, nil
}

// propositionItem is one element of the stage-2 response array.
type propositionItem struct {
	PropertyID  string `json:"property_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ExtractPropositions sends every property to the model in one batched
// call and returns the atomic propositions it decomposes them into.
// Propositions are created unapproved.
func ExtractPropositions(ctx context.Context, b Backend, properties []types.Property) ([]types.Proposition, error) {
	prompt, err := renderPropositionsPrompt(properties)
	if err != nil {
		return nil, fmt.Errorf("rendering propositions prompt: %w", err)
	}

	text, err := b.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("proposition extraction call: %w", err)
	}

	items, err := decodeArray[propositionItem]("proposition extraction", text)
	if err != nil {
		return nil, err
	}

	var invalid []string
	ts := now()
	propositions := make([]types.Proposition, 0, len(items))
	for i, item := range items {
		kind := types.PropositionKind(strings.ToLower(item.Type))
		if !types.ValidKind(kind) {
			invalid = append(invalid, fmt.Sprintf("item %d: invalid kind %q", i, item.Type))
			continue
		}
		if item.Name == "" {
			invalid = append(invalid, fmt.Sprintf("item %d: empty name", i))
			continue
		}
		propositions = append(propositions, types.Proposition{
			ID:          newID(),
			PropertyID:  item.PropertyID,
			Name:        item.Name,
			Kind:        kind,
			Description: item.Description,
			Timestamp:   ts,
		})
	}

	if len(invalid) > 0 {
		return nil, &DecodeError{
			Stage:  "proposition extraction",
			Reason: strings.Join(invalid, "; "),
		}
	}
	return propositions, nil
}

// PropertySet pairs a property with its propositions for formula synthesis.
type PropertySet struct {
	Property     types.Property
	Propositions []types.Proposition
}

// formulaItem is one element of the stage-3 response array.
type formulaItem struct {
	PropertyID    string   `json:"property_id"`
	LTLFormula    string   `json:"ltl_formula"`
	Explanation   string   `json:"explanation"`
	OperatorsUsed []string `json:"operators_used"`
}

// GenerateFormulas sends each property together with its propositions to
// the model in one batched call and returns the synthesized LTL formulas.
// Sets without propositions are excluded from the request. Formulas are
// created unapproved.
func GenerateFormulas(ctx context.Context, b Backend, sets []PropertySet) ([]types.Formula, error) {
	eligible := make([]PropertySet, 0, len(sets))
	for _, set := range sets {
		if len(set.Propositions) > 0 {
			eligible = append(eligible, set)
		}
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	prompt, err := renderFormulasPrompt(eligible)
	if err != nil {
		return nil, fmt.Errorf("rendering formulas prompt: %w", err)
	}

	text, err := b.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("formula generation call: %w", err)
	}

	items, err := decodeArray[formulaItem]("formula generation", text)
	if err != nil {
		return nil, err
	}

	var invalid []string
	ts := now()
	formulas := make([]types.Formula, 0, len(items))
	for i, item := range items {
		if item.LTLFormula == "" {
			invalid = append(invalid, fmt.Sprintf("item %d: empty formula", i))
			continue
		}
		formulas = append(formulas, types.Formula{
			ID:          newID(),
			PropertyID:  item.PropertyID,
			Text:        item.LTLFormula,
			Explanation: item.Explanation,
			Operators:   item.OperatorsUsed,
			Timestamp:   ts,
		})
	}

	if len(invalid) > 0 {
		return nil, &DecodeError{
			Stage:  "formula generation",
			Reason: strings.Join(invalid, "; "),
		}
	}
	return formulas, nil
}
