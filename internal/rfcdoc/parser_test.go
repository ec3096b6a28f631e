// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rfcdoc

import (
	"reflect"
	"strings"
	"testing"
)

const sampleRFC = `


RFC 8446


The Transport Layer Security (TLS) Protocol

1. Introduction

   This document specifies the protocol. The reader SHOULD be familiar
   with prior versions.

2. Requirements

   The client MUST send a hello message. The server MUST NOT respond
   before validation. Implementations SHOULD retry and MAY log the
   event. Early data is OPTIONAL.

2.1. Ordering

   Messages MUST arrive in order. A peer SHALL close on violation.
   Reordering SHOULD NOT occur. Duplicate delivery is RECOMMENDED
   to be detected. Replays MUST be rejected.

3. Security Considerations

   No requirements here, just prose.
`

func TestParseRanksSectionsByKeywordCount(t *testing.T) {
	var p Parser
	res := p.Parse(sampleRFC)

	if len(res.Sections) == 0 {
		t.Fatal("expected property-rich sections, got none")
	}

	for i, sec := range res.Sections {
		if sec.KeywordCount < DefaultMinKeywords {
			t.Errorf("section %s kept with keyword count %d < %d", sec.Number, sec.KeywordCount, DefaultMinKeywords)
		}
		if i > 0 && res.Sections[i-1].KeywordCount < sec.KeywordCount {
			t.Errorf("sections not sorted: %d before %d", res.Sections[i-1].KeywordCount, sec.KeywordCount)
		}
	}

	// Section 1 has a single SHOULD, section 3 has none; both must be dropped.
	for _, sec := range res.Sections {
		if sec.Number == "1" || sec.Number == "3" {
			t.Errorf("low-density section %s was not dropped", sec.Number)
		}
	}
}

func TestParseThresholdBoundary(t *testing.T) {
	// One keyword in section 1 (dropped); four in section 2 (kept).
	text := "1. Intro\nThe reader MUST take note.\n2. Rules\nMUST SHOULD MAY RECOMMENDED\n"

	var p Parser
	res := p.Parse(text)

	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(res.Sections))
	}
	sec := res.Sections[0]
	if sec.Number != "2" || sec.KeywordCount != 4 {
		t.Errorf("got section %s with count %d, want section 2 with count 4", sec.Number, sec.KeywordCount)
	}
}

func TestParseNoHeaders(t *testing.T) {
	var p Parser
	res := p.Parse("Just some prose.\nMUST MUST MUST SHOULD.\nNo numbered headings anywhere.")
	if len(res.Sections) != 0 {
		t.Errorf("expected no sections for header-free text, got %d", len(res.Sections))
	}
}

func TestParseNoKeywords(t *testing.T) {
	var p Parser
	res := p.Parse("1. Introduction\nNothing normative here.\n2. More\nStill nothing.\n")
	if len(res.Sections) != 0 {
		t.Errorf("expected no sections without keywords, got %d", len(res.Sections))
	}
}

func TestParsePreambleDiscarded(t *testing.T) {
	text := "MUST MUST MUST before any heading\n1. Rules\nMUST SHALL MAY\n"

	var p Parser
	res := p.Parse(text)

	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(res.Sections))
	}
	if strings.Contains(res.Sections[0].Content, "before any heading") {
		t.Error("pre-header lines leaked into section content")
	}
}

func TestParseIdempotent(t *testing.T) {
	var p Parser
	first := p.Parse(sampleRFC).Sections
	second := p.Parse(sampleRFC).Sections
	if !reflect.DeepEqual(first, second) {
		t.Error("re-parsing identical input produced a different section list")
	}
}

func TestParseTrailingDotStripped(t *testing.T) {
	text := "2.1. Ordering\nMUST SHALL MAY\n"

	var p Parser
	res := p.Parse(text)

	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(res.Sections))
	}
	if got := res.Sections[0].Number; got != "2.1" {
		t.Errorf("section number = %q, want %q", got, "2.1")
	}
	if got := res.Sections[0].Title; got != "Ordering" {
		t.Errorf("section title = %q, want %q", got, "Ordering")
	}
}

func TestCountKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"case insensitive", "the client must send", 1},
		{"must not double counts must", "The server MUST NOT respond.", 2},
		{"mixed vocabulary", "MUST SHOULD MAY RECOMMENDED", 4},
		{"should not double counts should", "SHOULD NOT", 2},
		{"repeated", "MAY MAY MAY", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountKeywords(tt.text); got != tt.want {
				t.Errorf("CountKeywords(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractRFCNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"standard", "RFC 8446\nThe TLS Protocol", "8446"},
		{"lowercase no space", "see rfc793 for details", "793"},
		{"mid document", "intro text\nas defined in RFC 2119\nmore", "2119"},
		{"absent", "no identifier in this text", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractRFCNumber(tt.text); got != tt.want {
				t.Errorf("ExtractRFCNumber = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractTitle(t *testing.T) {
	longLine := strings.Repeat("x", 150)

	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "skips short and RFC-prefixed lines",
			lines: []string{"", "RFC 8446", "The Transport Layer Security (TLS) Protocol"},
			want:  "The Transport Layer Security (TLS) Protocol",
		},
		{
			name:  "truncates to 100 characters",
			lines: []string{longLine},
			want:  longLine[:100],
		},
		{
			name:  "nothing qualifies",
			lines: []string{"short", "RFC 1234 something long enough to pass"},
			want:  "Unknown Title",
		},
		{
			name: "ignores lines beyond the first twenty",
			lines: append(make([]string, 20),
				"The Transport Layer Security (TLS) Protocol"),
			want: "Unknown Title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTitle(tt.lines); got != tt.want {
				t.Errorf("ExtractTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDocumentMetadata(t *testing.T) {
	var p Parser
	res := p.Parse(sampleRFC)

	if res.Document.RFCNumber != "8446" {
		t.Errorf("RFCNumber = %q, want 8446", res.Document.RFCNumber)
	}
	if res.Document.Title != "The Transport Layer Security (TLS) Protocol" {
		t.Errorf("Title = %q", res.Document.Title)
	}
	if res.Document.TotalChars != len(sampleRFC) {
		t.Errorf("TotalChars = %d, want %d", res.Document.TotalChars, len(sampleRFC))
	}
}
