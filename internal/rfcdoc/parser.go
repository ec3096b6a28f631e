// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rfcdoc segments raw RFC text into numbered sections and ranks
// them by requirement-keyword density. It is the pure, deterministic core
// of the pipeline: no I/O, no external calls.
package rfcdoc

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/rfc-formalizer/pkg/types"
)

// Keywords is the RFC 2119 requirement vocabulary counted when scoring a
// section. Counting is by case-insensitive substring search, so "MUST NOT"
// occurrences also contribute to the "MUST" count. That double-counting is
// inherited behavior and deliberately preserved.
var Keywords = []string{
	"MUST", "MUST NOT", "REQUIRED", "SHALL", "SHALL NOT",
	"SHOULD", "SHOULD NOT", "RECOMMENDED", "MAY", "OPTIONAL",
}

// DefaultMinKeywords is the keyword-count threshold below which a section
// is considered property-poor and dropped.
const DefaultMinKeywords = 3

// sectionHeader matches a numbered section heading after trimming: one or
// more dot-separated integers, an optional trailing dot, whitespace, then
// a non-empty title.
var sectionHeader = regexp.MustCompile(`^(\d+(?:\.\d+)*\.?)\s+(.+)$`)

// rfcNumber matches the document identifier anywhere in the text.
var rfcNumber = regexp.MustCompile(`(?i)RFC\s*(\d+)`)

// Result holds the document metadata and the ranked property-rich sections.
type Result struct {
	Document types.Document
	Sections []types.Section
}

// Parser extracts property-rich sections from raw RFC text.
type Parser struct {
	// MinKeywords overrides DefaultMinKeywords when positive.
	MinKeywords int
}

// Parse scans the full document text and returns its metadata together
// with the sections that passed the keyword filter, sorted by keyword
// count descending. Ties keep their encounter order. Text with no section
// headers or no keyword hits yields an empty section list, not an error.
func (p *Parser) Parse(text string) Result {
	doc := types.Document{
		RFCNumber:  ExtractRFCNumber(text),
		Title:      ExtractTitle(strings.Split(text, "\n")),
		TotalChars: len(text),
		ParsedAt:   time.Now().UTC(),
	}
	return Result{
		Document: doc,
		Sections: p.extractSections(text),
	}
}

// extractSections splits the text at section headers, accumulates body
// lines under each header, and keeps sections whose keyword count meets
// the threshold. Lines before the first header are discarded.
func (p *Parser) extractSections(text string) []types.Section {
	minKeywords := p.MinKeywords
	if minKeywords <= 0 {
		minKeywords = DefaultMinKeywords
	}

	var (
		sections      []types.Section
		currentNumber string
		currentTitle  string
		bodyLines     []string
	)

	flush := func() {
		if currentNumber == "" || len(bodyLines) == 0 {
			return
		}
		content := strings.Join(bodyLines, "\n")
		count := CountKeywords(content)
		if count >= minKeywords {
			sections = append(sections, types.Section{
				Number:       currentNumber,
				Title:        currentTitle,
				Content:      content,
				KeywordCount: count,
			})
		}
	}

	for _, line := range strings.Split(text, "\n") {
		m := sectionHeader.FindStringSubmatch(strings.TrimSpace(line))
		if m != nil {
			flush()
			currentNumber = strings.TrimSuffix(m[1], ".")
			currentTitle = strings.TrimSpace(m[2])
			bodyLines = nil
			continue
		}
		if currentNumber != "" {
			bodyLines = append(bodyLines, line)
		}
	}
	flush()

	// Rank by keyword density; stable so ties keep encounter order.
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].KeywordCount > sections[j].KeywordCount
	})

	return sections
}

// CountKeywords returns the total occurrences of the requirement
// vocabulary in text, case-insensitively.
func CountKeywords(text string) int {
	upper := strings.ToUpper(text)
	count := 0
	for _, kw := range Keywords {
		count += strings.Count(upper, kw)
	}
	return count
}

// ExtractRFCNumber returns the digits of the first "RFC NNNN" occurrence
// anywhere in the text, or "Unknown" if none exists.
func ExtractRFCNumber(text string) string {
	if m := rfcNumber.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return "Unknown"
}

// titleScanLimit bounds how many leading lines are considered for the title.
const titleScanLimit = 20

// ExtractTitle scans the first 20 lines for the first line longer than 15
// characters (after trimming) that does not start with "RFC", truncated to
// 100 characters. Returns "Unknown Title" when no line qualifies.
func ExtractTitle(lines []string) string {
	if len(lines) > titleScanLimit {
		lines = lines[:titleScanLimit]
	}
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if len(stripped) > 15 && !strings.HasPrefix(stripped, "RFC") {
			if len(stripped) > 100 {
				return stripped[:100]
			}
			return stripped
		}
	}
	return "Unknown Title"
}
