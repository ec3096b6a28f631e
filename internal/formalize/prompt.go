// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package formalize

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/rfc-formalizer/pkg/types"
)

// propertiesPromptTmpl asks the model to identify requirement statements
// across every supplied section in a single pass.
var propertiesPromptTmpl = template.Must(template.New("properties").Parse(`Analyze RFC {{.RFCNumber}} and extract ALL protocol properties.

A property is a requirement/constraint with keywords like MUST, SHOULD, MAY, etc.

For each property found, provide:
- section: Section number where found
- text: Complete property statement
- type: One of [Safety, Liveness, Ordering, Timing, Unknown]

Here are the sections:
{{.Sections}}

Return JSON array ONLY:
[
  {"section": "4.2", "text": "Client MUST NOT send...", "type": "Safety"},
  ...
]
`))

// propositionsPromptTmpl asks the model to decompose every property into
// atomic propositions in a single pass.
var propositionsPromptTmpl = template.Must(template.New("propositions").Parse(`Extract atomic propositions from these properties.

An atomic proposition is a basic boolean statement (action, state, event, condition).

For each property, list its propositions with:
- property_id: The property ID
- name: snake_case name
- type: One of [action, state, event, condition]
- description: What it represents

Properties:
{{.Properties}}

Return JSON array ONLY:
[
  {"property_id": "abc123", "name": "client_sends_data", "type": "action", "description": "Client sends data packet"},
  ...
]
`))

// formulasPromptTmpl asks the model to synthesize an LTL formula per
// property from that property's atomic propositions.
var formulasPromptTmpl = template.Must(template.New("formulas").Parse(`Generate LTL (Linear Temporal Logic) formulas from these properties using their atomic propositions.

LTL Operators:
- G (Globally/Always): Something is always true
- F (Finally/Eventually): Something eventually becomes true
- X (Next): Something is true in the next state
- U (Until): Something holds until another thing becomes true
- -> (Implies): If...then
- & (And), | (Or), ! (Not)

Common patterns:
- Safety "MUST NOT": G !(bad_thing)
- Safety "MUST...before": G (action_a -> precondition)
- Liveness "MUST eventually": G (request -> F response)
- Ordering "before": G (action_a -> X action_b)

For each property, provide:
- property_id: The property ID
- ltl_formula: The LTL formula using the atomic propositions
- explanation: Brief explanation of the formula
- operators_used: List of LTL operators used

Properties:
{{.Properties}}

Return JSON array ONLY:
[
  {
    "property_id": "abc123",
    "ltl_formula": "G (client_sends_data -> handshake_complete)",
    "explanation": "Globally: if client sends data, handshake must be complete",
    "operators_used": ["G", "->"]
  },
  ...
]
`))

// renderPropertiesPrompt builds the stage-1 prompt. Each section's content
// is truncated to maxChars before inclusion.
func renderPropertiesPrompt(sections []types.Section, rfcNumber string, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = DefaultMaxSectionChars
	}

	var b strings.Builder
	for _, sec := range sections {
		content := sec.Content
		if len(content) > maxChars {
			content = content[:maxChars]
		}
		fmt.Fprintf(&b, "\n\n=== SECTION %s: %s ===\n%s", sec.Number, sec.Title, content)
	}

	return execute(propertiesPromptTmpl, struct {
		RFCNumber string
		Sections  string
	}{rfcNumber, b.String()})
}

// renderPropositionsPrompt builds the stage-2 prompt covering every property.
func renderPropositionsPrompt(properties []types.Property) (string, error) {
	var b strings.Builder
	for i, prop := range properties {
		fmt.Fprintf(&b, "\n\n[PROPERTY %d]\nID: %s\nText: %s", i+1, prop.ID, prop.Text)
	}

	return execute(propositionsPromptTmpl, struct{ Properties string }{b.String()})
}

// renderFormulasPrompt builds the stage-3 prompt from properties that have
// at least one proposition.
func renderFormulasPrompt(sets []PropertySet) (string, error) {
	var b strings.Builder
	for i, set := range sets {
		fmt.Fprintf(&b, "\n\n[PROPERTY %d]\nID: %s\nNatural Language: %s\nType: %s\nAtomic Propositions:\n",
			i+1, set.Property.ID, set.Property.Text, set.Property.Category)
		for _, p := range set.Propositions {
			fmt.Fprintf(&b, "  - %s: %s\n", p.Name, p.Description)
		}
	}

	return execute(formulasPromptTmpl, struct{ Properties string }{b.String()})
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
