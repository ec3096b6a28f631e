package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rfc-formalizer/internal/fetch"
	"github.com/pdiddy/rfc-formalizer/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "rfc-formalizer/0.1"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [references...]",
	Short: "Download RFC documents as plain text",
	Long: `Fetch resolves document references (RFC numbers or direct URLs) to
plain-text files and downloads them into the docs directory. Existing
files are skipped. Feed a downloaded file to the extract command to
start a formalization session.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Duration("delay", 0, "delay between consecutive downloads (default 1s)")
	fetchCmd.Flags().String("docs-dir", "docs/rfcs", "directory for downloaded documents")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more document references (RFC numbers or URLs)")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	docsDir, _ := cmd.Flags().GetString("docs-dir")

	cfg := types.FetchConfig{
		DocsDir:       docsDir,
		UserAgent:     defaultUserAgent,
		DownloadDelay: delay,
	}

	client := &http.Client{
		Timeout: timeout,
	}

	result := fetch.FetchBatch(client, args, cfg, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed to download", result.Failed)
	}
	return nil
}
