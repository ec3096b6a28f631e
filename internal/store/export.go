// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Table names an exportable table.
type Table string

const (
	TableProperties   Table = "properties"
	TablePropositions Table = "propositions"
	TableFormulas     Table = "formulas"
	TableComplete     Table = "complete"
)

// ParseTable validates a table name from user input.
func ParseTable(name string) (Table, error) {
	switch Table(name) {
	case TableProperties, TablePropositions, TableFormulas, TableComplete:
		return Table(name), nil
	}
	return "", fmt.Errorf("unknown table %q: use properties, propositions, formulas, or complete", name)
}

const exportDir = "export"

// exportFiles maps each table to its delimited-text filename.
var exportFiles = map[Table]string{
	TableProperties:   "properties.csv",
	TablePropositions: "propositions.csv",
	TableFormulas:     "ltl_formulas.csv",
	TableComplete:     "complete_formalization.csv",
}

// WriteCSV writes one table as delimited text to w, header row first.
func (s *Store) WriteCSV(ctx context.Context, table Table, w io.Writer) error {
	cw := csv.NewWriter(w)

	switch table {
	case TableProperties:
		if err := cw.Write([]string{"id", "rfc", "section", "text", "category", "timestamp"}); err != nil {
			return err
		}
		properties, err := s.ListProperties(ctx, "")
		if err != nil {
			return err
		}
		for _, p := range properties {
			if err := cw.Write([]string{
				p.ID, p.RFC, p.Section, p.Text, string(p.Category), csvTime(p.Timestamp),
			}); err != nil {
				return err
			}
		}

	case TablePropositions:
		if err := cw.Write([]string{"id", "property_id", "name", "kind", "description", "timestamp", "approved", "approved_by"}); err != nil {
			return err
		}
		propositions, err := s.ListPropositions(ctx, "")
		if err != nil {
			return err
		}
		for _, p := range propositions {
			if err := cw.Write([]string{
				p.ID, p.PropertyID, p.Name, string(p.Kind), p.Description,
				csvTime(p.Timestamp), strconv.FormatBool(p.Approved), p.ApprovedBy,
			}); err != nil {
				return err
			}
		}

	case TableFormulas:
		if err := cw.Write([]string{"id", "property_id", "ltl_formula", "explanation", "operators_used", "timestamp", "approved", "approved_by"}); err != nil {
			return err
		}
		formulas, err := s.ListFormulas(ctx, "")
		if err != nil {
			return err
		}
		for _, f := range formulas {
			if err := cw.Write([]string{
				f.ID, f.PropertyID, f.Text, f.Explanation, strings.Join(f.Operators, ","),
				csvTime(f.Timestamp), strconv.FormatBool(f.Approved), f.ApprovedBy,
			}); err != nil {
				return err
			}
		}

	case TableComplete:
		if err := cw.Write([]string{
			"property_id", "rfc_number", "section", "property_category", "natural_language",
			"atomic_propositions", "ltl_formula", "ltl_explanation", "ltl_operators",
			"approved", "timestamp",
		}); err != nil {
			return err
		}
		records, err := s.CompleteRecords(ctx)
		if err != nil {
			return err
		}
		for _, r := range records {
			if err := cw.Write([]string{
				r.PropertyID, r.RFCNumber, r.Section, string(r.Category), r.NaturalLanguage,
				r.AtomicPropositions, r.Formula, r.Explanation, r.Operators,
				strconv.FormatBool(r.Approved), csvTime(r.Timestamp),
			}); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("unknown table %q", table)
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes one table to dataDir/export/[table file] and returns
// the written path.
func (s *Store) ExportCSV(ctx context.Context, table Table) (string, error) {
	dir := filepath.Join(s.dataDir, exportDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, exportFiles[table])
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := s.WriteCSV(ctx, table, f); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// ExportYAML writes the complete-formalization view to
// dataDir/export/complete_formalization.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	records, err := s.CompleteRecords(ctx)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport("complete_formalization.yaml", data)
}

// ExportJSON writes the complete-formalization view to
// dataDir/export/complete_formalization.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	records, err := s.CompleteRecords(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport("complete_formalization.json", data)
}

func (s *Store) writeExport(name string, data []byte) (string, error) {
	dir := filepath.Join(s.dataDir, exportDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func csvTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
