// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads RFC documents as plain text.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/rfc-formalizer/pkg/types"
)

// BatchResult holds the outcome of a batch fetch run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Paths      []string
}

// Total returns the total number of references processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any references failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// FetchDocument resolves a single reference and downloads its plain
// text. If the file already exists on disk, the download is skipped.
// The skipped return value indicates whether the download was skipped.
func FetchDocument(client *http.Client, reference string, cfg types.FetchConfig, w io.Writer) (path string, skipped bool, err error) {
	refType, normalized := Classify(reference)
	if refType == TypeUnknown {
		return "", false, fmt.Errorf("unrecognized document reference: %q", reference)
	}

	slug := Slug(refType, normalized)
	path = filepath.Join(cfg.DocsDir, slug+".txt")

	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", slug)
		return path, true, nil
	}

	textURL := TextURL(refType, normalized)
	if textURL == "" {
		return "", false, fmt.Errorf("cannot resolve text URL for %q", reference)
	}

	if err := os.MkdirAll(cfg.DocsDir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating directory %s: %w", cfg.DocsDir, err)
	}

	fmt.Fprintf(w, "downloading: %s (%s)\n", slug, refType)

	if err := downloadFile(client, textURL, path, cfg); err != nil {
		return "", false, fmt.Errorf("downloading %s: %w", slug, err)
	}
	return path, false, nil
}

// FetchBatch processes multiple references, printing per-item status
// and returning a summary. It continues after individual failures and
// applies a delay between consecutive downloads.
func FetchBatch(client *http.Client, references []string, cfg types.FetchConfig, w io.Writer) BatchResult {
	var result BatchResult
	for i, ref := range references {
		if i > 0 && cfg.DownloadDelay > 0 {
			time.Sleep(cfg.DownloadDelay)
		}
		path, wasSkipped, err := FetchDocument(client, ref, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", ref, err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Downloaded++
		}
		result.Paths = append(result.Paths, path)
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// downloadFile fetches url to destPath using a temporary file so a
// partial download never lands at the final path.
func downloadFile(client *http.Client, url, destPath string, cfg types.FetchConfig) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "text/plain")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
