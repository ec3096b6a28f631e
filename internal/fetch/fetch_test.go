// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/rfc-formalizer/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType ReferenceType
		wantNorm string
	}{
		{"bare number", "9110", TypeRFC, "9110"},
		{"spaced prefix", "RFC 9110", TypeRFC, "9110"},
		{"lowercase prefix", "rfc9110", TypeRFC, "9110"},
		{"short number", "793", TypeRFC, "793"},
		{"url https", "https://example.com/draft.txt", TypeURL, "https://example.com/draft.txt"},
		{"url http", "http://example.com/draft.txt", TypeURL, "http://example.com/draft.txt"},
		{"unknown bare word", "not-a-reference", TypeUnknown, "not-a-reference"},
		{"unknown empty", "", TypeUnknown, ""},
		{"whitespace trimmed", "  9110  ", TypeRFC, "9110"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotNorm := Classify(tt.input)
			if gotType != tt.wantType {
				t.Errorf("Classify(%q) type = %v, want %v", tt.input, gotType, tt.wantType)
			}
			if gotNorm != tt.wantNorm {
				t.Errorf("Classify(%q) norm = %q, want %q", tt.input, gotNorm, tt.wantNorm)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name     string
		refType  ReferenceType
		norm     string
		wantSlug string
	}{
		{"rfc", TypeRFC, "9110", "rfc9110"},
		{"url with filename", TypeURL, "https://example.com/draft-foo-07.txt", "draft-foo-07"},
		{"url bare host", TypeURL, "https://example.com/", "url-"},
		{"unknown", TypeUnknown, "whatever", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slug(tt.refType, tt.norm)
			if !strings.HasPrefix(got, tt.wantSlug) {
				t.Errorf("Slug(%v, %q) = %q, want prefix %q", tt.refType, tt.norm, got, tt.wantSlug)
			}
		})
	}
}

func TestTextURL(t *testing.T) {
	if got := TextURL(TypeRFC, "9110"); got != "https://www.rfc-editor.org/rfc/rfc9110.txt" {
		t.Errorf("TextURL(TypeRFC) = %q", got)
	}
	if got := TextURL(TypeURL, "https://example.com/x.txt"); got != "https://example.com/x.txt" {
		t.Errorf("TextURL(TypeURL) = %q", got)
	}
	if got := TextURL(TypeUnknown, "x"); got != "" {
		t.Errorf("TextURL(TypeUnknown) = %q, want empty", got)
	}
}

func TestFetchDocument_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "rfc-formalizer-test" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte("RFC 9999 body\n"))
	}))
	defer srv.Close()

	oldBase := rfcEditorBase
	rfcEditorBase = srv.URL + "/"
	defer func() { rfcEditorBase = oldBase }()

	cfg := types.FetchConfig{
		DocsDir:   t.TempDir(),
		UserAgent: "rfc-formalizer-test",
	}

	var out bytes.Buffer
	path, skipped, err := FetchDocument(srv.Client(), "RFC 9999", cfg, &out)
	if err != nil {
		t.Fatalf("FetchDocument: %v", err)
	}
	if skipped {
		t.Error("skipped = true, want false")
	}
	if filepath.Base(path) != "rfc9999.txt" {
		t.Errorf("path = %q, want rfc9999.txt basename", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != "RFC 9999 body\n" {
		t.Errorf("downloaded content = %q", data)
	}
}

func TestFetchDocument_SkipsExisting(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "rfc9999.txt")
	if err := os.WriteFile(existing, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := types.FetchConfig{DocsDir: dir}

	var out bytes.Buffer
	path, skipped, err := FetchDocument(http.DefaultClient, "9999", cfg, &out)
	if err != nil {
		t.Fatalf("FetchDocument: %v", err)
	}
	if !skipped {
		t.Error("skipped = false, want true")
	}
	if path != existing {
		t.Errorf("path = %q, want %q", path, existing)
	}
	if !strings.Contains(out.String(), "skipped") {
		t.Errorf("output = %q, want skip notice", out.String())
	}
}

func TestFetchDocument_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	oldBase := rfcEditorBase
	rfcEditorBase = srv.URL + "/"
	defer func() { rfcEditorBase = oldBase }()

	cfg := types.FetchConfig{DocsDir: t.TempDir()}

	var out bytes.Buffer
	_, _, err := FetchDocument(srv.Client(), "12", cfg, &out)
	if err == nil {
		t.Fatal("expected error for HTTP 404")
	}
	if !strings.Contains(err.Error(), "HTTP 404") {
		t.Errorf("error = %v, want HTTP 404 mention", err)
	}
	if _, statErr := os.Stat(filepath.Join(cfg.DocsDir, "rfc12.txt")); !os.IsNotExist(statErr) {
		t.Error("failed download left a file behind")
	}
}

func TestFetchDocument_UnknownReference(t *testing.T) {
	var out bytes.Buffer
	_, _, err := FetchDocument(http.DefaultClient, "not-a-reference", types.FetchConfig{}, &out)
	if err == nil {
		t.Fatal("expected error for unknown reference")
	}
}

func TestFetchBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "rfc404") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("body\n"))
	}))
	defer srv.Close()

	oldBase := rfcEditorBase
	rfcEditorBase = srv.URL + "/"
	defer func() { rfcEditorBase = oldBase }()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "rfc793.txt"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := types.FetchConfig{DocsDir: dir}

	var out bytes.Buffer
	result := FetchBatch(srv.Client(), []string{"9110", "793", "404", "bogus ref"}, cfg, &out)

	if result.Downloaded != 1 {
		t.Errorf("Downloaded = %d, want 1", result.Downloaded)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if result.Failed != 2 {
		t.Errorf("Failed = %d, want 2", result.Failed)
	}
	if result.Total() != 4 {
		t.Errorf("Total() = %d, want 4", result.Total())
	}
	if !result.HasFailures() {
		t.Error("HasFailures() = false, want true")
	}
	if len(result.Paths) != 2 {
		t.Errorf("len(Paths) = %d, want 2", len(result.Paths))
	}
	if !strings.Contains(out.String(), "Batch summary: 1 downloaded, 1 skipped, 2 failed (total: 4)") {
		t.Errorf("summary missing from output: %q", out.String())
	}
}
