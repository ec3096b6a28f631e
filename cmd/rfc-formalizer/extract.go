// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rfc-formalizer/internal/formalize"
	"github.com/pdiddy/rfc-formalizer/internal/rfcdoc"
	"github.com/pdiddy/rfc-formalizer/internal/workflow"
)

var extractCmd = &cobra.Command{
	Use:   "extract FILE",
	Short: "Parse an RFC and extract requirement properties (stage 1)",
	Long: `Extract parses the document, sends the top-ranked property-rich
sections to the model in one batched call, and persists the requirement
properties it identifies. On success the document's workflow moves to
property review. A stage that produces nothing leaves the workflow
where it was; re-run extract to try again.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	text, err := readDocument(args[0])
	if err != nil {
		return err
	}

	cfg, err := aiConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	var parser rfcdoc.Parser
	res := parser.Parse(text)

	fmt.Printf("RFC %s: %s (%d property-rich sections)\n",
		res.Document.RFCNumber, res.Document.Title, len(res.Sections))

	if len(res.Sections) == 0 {
		fmt.Println("No property-rich sections found; nothing to extract.")
		return nil
	}

	if err := st.SaveDocument(ctx, res.Document); err != nil {
		return err
	}

	backend := &formalize.AnthropicBackend{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		MaxRetries: cfg.MaxRetries,
	}

	fmt.Println("Extracting properties (1 API call)...")
	properties, err := formalize.ExtractProperties(ctx, backend, res.Sections, res.Document.RFCNumber, cfg)
	if err != nil {
		reportStageFailure(err)
		return nil
	}
	if len(properties) == 0 {
		fmt.Println("No properties extracted; workflow not advanced.")
		return nil
	}

	if err := st.SaveProperties(ctx, properties); err != nil {
		return err
	}

	next, err := workflow.Advance(workflow.StageUpload, workflow.Outputs{Properties: len(properties)})
	if err != nil {
		return err
	}
	if err := st.SaveSession(ctx, res.Document.RFCNumber, string(next)); err != nil {
		return err
	}

	fmt.Printf("Extracted %d properties. Review them with: rfc-formalizer properties list --rfc %s\n",
		len(properties), res.Document.RFCNumber)
	return nil
}

// reportStageFailure prints a non-fatal warning for a failed model stage.
// The stage is treated as having produced nothing; prior persisted data
// is untouched and the user re-runs the stage.
func reportStageFailure(err error) {
	var de *formalize.DecodeError
	if errors.As(err, &de) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", de)
	} else {
		fmt.Fprintf(os.Stderr, "warning: stage failed: %v\n", err)
	}
	fmt.Fprintln(os.Stderr, "The stage produced nothing; re-run it to try again.")
}

func init() {
	extractCmd.Flags().String("model", "", "model identifier for extraction")
	extractCmd.Flags().String("api-key", "", "API key (overrides config and secrets)")

	rootCmd.AddCommand(extractCmd)
}
