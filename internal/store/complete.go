// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/rfc-formalizer/pkg/types"
)

// CompleteRecords materializes the complete-formalization view: every
// stored property joined with its aggregated proposition names and its
// first formula. The view is recomputed from the store on each call, so
// it reflects cumulative history across documents. Missing propositions
// or formulas default to empty strings and false, never an error.
func (s *Store) CompleteRecords(ctx context.Context) ([]types.CompleteRecord, error) {
	properties, err := s.ListProperties(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("loading properties: %w", err)
	}
	propositions, err := s.ListPropositions(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("loading propositions: %w", err)
	}
	formulas, err := s.ListFormulas(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("loading formulas: %w", err)
	}

	namesByProperty := make(map[string][]string)
	for _, p := range propositions {
		namesByProperty[p.PropertyID] = append(namesByProperty[p.PropertyID], p.Name)
	}

	// First formula per property wins, matching insertion order.
	formulaByProperty := make(map[string]types.Formula)
	for _, f := range formulas {
		if _, ok := formulaByProperty[f.PropertyID]; !ok {
			formulaByProperty[f.PropertyID] = f
		}
	}

	records := make([]types.CompleteRecord, 0, len(properties))
	for _, prop := range properties {
		rec := types.CompleteRecord{
			PropertyID:         prop.ID,
			RFCNumber:          prop.RFC,
			Section:            prop.Section,
			Category:           prop.Category,
			NaturalLanguage:    prop.Text,
			AtomicPropositions: strings.Join(namesByProperty[prop.ID], ", "),
			Timestamp:          prop.Timestamp,
		}
		if f, ok := formulaByProperty[prop.ID]; ok {
			rec.Formula = f.Text
			rec.Explanation = f.Explanation
			rec.Operators = strings.Join(f.Operators, ",")
			rec.Approved = f.Approved
		}
		records = append(records, rec)
	}
	return records, nil
}
