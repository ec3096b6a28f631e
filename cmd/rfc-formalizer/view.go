package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rfc-formalizer/internal/workflow"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show the complete formalization table (stage 5)",
	Long: `View joins properties, propositions, and formulas into one record per
property and prints the result. If the active session is at the
formula-approval stage it is moved to the terminal view stage.`,
	RunE: runView,
}

func runView(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.CompleteRecords(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No formalized properties yet.")
		return nil
	}

	for _, r := range records {
		approved := "pending"
		if r.Approved {
			approved = "approved"
		}
		fmt.Printf("%s  RFC %s  section %s  [%s]  (%s)\n", r.PropertyID, r.RFCNumber, r.Section, r.Category, approved)
		fmt.Printf("  property:     %s\n", r.NaturalLanguage)
		if r.AtomicPropositions != "" {
			fmt.Printf("  propositions: %s\n", r.AtomicPropositions)
		}
		if r.Formula != "" {
			fmt.Printf("  formula:      %s\n", r.Formula)
		}
		if r.Explanation != "" {
			fmt.Printf("  explanation:  %s\n", r.Explanation)
		}
		if r.Operators != "" {
			fmt.Printf("  operators:    %s\n", r.Operators)
		}
		fmt.Println()
	}
	fmt.Printf("%d properties formalized\n", len(records))

	// Reaching view completes the workflow for a session waiting on
	// formula approval.
	rfc, session, err := resolveSession(ctx, cmd, st)
	if err != nil {
		return nil
	}
	if session.Stage == string(workflow.StageApproveLTL) {
		next, err := workflow.Advance(workflow.StageApproveLTL, workflow.Outputs{})
		if err != nil {
			return err
		}
		if err := st.SaveSession(ctx, rfc, string(next)); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	viewCmd.Flags().String("rfc", "", "RFC number of the session to complete")
	rootCmd.AddCommand(viewCmd)
}
