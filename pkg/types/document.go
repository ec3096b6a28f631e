// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for the formalization
// pipeline: parsed documents and their sections, extracted properties,
// atomic propositions, LTL formulas, and the derived complete records.
package types

import "time"

// Document holds the metadata recovered from an uploaded RFC text.
type Document struct {
	// RFCNumber is the document identifier parsed from an "RFC NNNN"
	// occurrence anywhere in the text, or "Unknown" if absent.
	RFCNumber string `json:"rfc_number" yaml:"rfc_number"`

	// Title is the document title found near the top of the text,
	// truncated to 100 characters.
	Title string `json:"title" yaml:"title"`

	// TotalChars is the length of the raw text in bytes.
	TotalChars int `json:"total_chars" yaml:"total_chars"`

	// ParsedAt records when the document was parsed.
	ParsedAt time.Time `json:"parsed_at" yaml:"parsed_at"`
}

// Section is a numbered section of an RFC that survived the
// requirement-keyword density filter.
type Section struct {
	// Number is the dotted section identifier with any trailing dot
	// stripped (e.g. "4.2").
	Number string `json:"number" yaml:"number"`

	// Title is the section heading text.
	Title string `json:"title" yaml:"title"`

	// Content is the newline-joined body between this heading and the next.
	Content string `json:"content" yaml:"content"`

	// KeywordCount is the total number of RFC 2119 keyword occurrences
	// found in Content by case-insensitive substring search.
	KeywordCount int `json:"keyword_count" yaml:"keyword_count"`
}
