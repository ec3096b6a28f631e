// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AIConfig holds shared settings for stages that call the language model API.
type AIConfig struct {
	// Model is the model identifier (e.g. "claude-sonnet-4-20250514").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ParserConfig holds settings for the section extraction stage.
type ParserConfig struct {
	// MinKeywords is the keyword-count threshold below which a section is
	// dropped (default 3).
	MinKeywords int `json:"min_keywords" yaml:"min_keywords"`
}

// ExtractionConfig holds settings for the LLM property extraction stage.
type ExtractionConfig struct {
	AIConfig `yaml:",inline"`

	// MaxSections caps how many top-ranked sections are sent (default 10).
	MaxSections int `json:"max_sections" yaml:"max_sections"`

	// MaxSectionChars truncates each section's content in the request
	// payload (default 2000).
	MaxSectionChars int `json:"max_section_chars" yaml:"max_section_chars"`
}

// FetchConfig holds settings for downloading documents.
type FetchConfig struct {
	// DocsDir is the directory fetched documents are written to.
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	// UserAgent identifies the tool to remote servers.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// DownloadDelay is the pause between consecutive downloads in a batch.
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`
}

// StoreConfig holds settings for the durable store.
type StoreConfig struct {
	// DataDir is the base directory containing the database and exports.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Parser     ParserConfig     `json:"parser" yaml:"parser"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Store      StoreConfig      `json:"store" yaml:"store"`
}
