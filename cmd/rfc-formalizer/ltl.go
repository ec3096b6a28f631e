// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rfc-formalizer/internal/formalize"
	"github.com/pdiddy/rfc-formalizer/internal/review"
	"github.com/pdiddy/rfc-formalizer/internal/workflow"
	"github.com/pdiddy/rfc-formalizer/pkg/types"
)

var ltlCmd = &cobra.Command{
	Use:   "ltl",
	Short: "Synthesize LTL formulas from approved decompositions (stage 4)",
}

var ltlGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one LTL formula per decomposed property",
	Long: `Generate sends every property that has at least one proposition to the
model in one batched call and persists the returned formulas. The
document must be in the proposition-approval stage; on success it
moves to formula approval.`,
	RunE: runLTLGenerate,
}

func runLTLGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := aiConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	rfc, session, err := resolveSession(ctx, cmd, st)
	if err != nil {
		return err
	}
	if session.Stage != string(workflow.StageApprovePropositions) {
		return fmt.Errorf("RFC %s is at stage %q, not %q", rfc, session.Stage, workflow.StageApprovePropositions)
	}

	properties, err := st.ListProperties(ctx, rfc)
	if err != nil {
		return err
	}

	sets := make([]formalize.PropertySet, 0, len(properties))
	for _, prop := range properties {
		propositions, err := st.ListPropositions(ctx, prop.ID)
		if err != nil {
			return err
		}
		sets = append(sets, formalize.PropertySet{
			Property:     prop,
			Propositions: propositions,
		})
	}

	backend := &formalize.AnthropicBackend{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		MaxRetries: cfg.MaxRetries,
	}

	fmt.Printf("Generating LTL formulas for %d properties (1 API call)...\n", len(properties))
	formulas, err := formalize.GenerateFormulas(ctx, backend, sets)
	if err != nil {
		reportStageFailure(err)
		return nil
	}
	if len(formulas) == 0 {
		fmt.Println("No formulas generated; workflow not advanced.")
		return nil
	}

	if err := st.SaveFormulas(ctx, formulas); err != nil {
		return err
	}

	next, err := workflow.Advance(workflow.StageApprovePropositions, workflow.Outputs{
		Formulas: len(formulas),
	})
	if err != nil {
		return err
	}
	if err := st.SaveSession(ctx, rfc, string(next)); err != nil {
		return err
	}

	fmt.Printf("Generated %d formulas. Review them with: rfc-formalizer ltl list\n", len(formulas))
	return nil
}

var ltlListCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated LTL formulas",
	RunE:  runLTLList,
}

func runLTLList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	propertyID, _ := cmd.Flags().GetString("property")
	formulas, err := st.ListFormulas(ctx, propertyID)
	if err != nil {
		return err
	}
	if len(formulas) == 0 {
		fmt.Println("No formulas found.")
		return nil
	}

	for _, f := range formulas {
		approved := ""
		if f.Approved {
			approved = fmt.Sprintf("  [approved by %s]", f.ApprovedBy)
		}
		fmt.Printf("%s  (property %s)%s\n", f.ID, f.PropertyID, approved)
		fmt.Printf("  %s\n", f.Text)
		if f.Explanation != "" {
			fmt.Printf("  %s\n", f.Explanation)
		}
		if len(f.Operators) > 0 {
			fmt.Printf("  operators: %s\n", strings.Join(f.Operators, ", "))
		}
		fmt.Println()
	}
	fmt.Printf("%d formulas\n", len(formulas))
	return nil
}

var ltlEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a formula in place",
	Args:  cobra.ExactArgs(1),
	RunE:  runLTLEdit,
}

func runLTLEdit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	formula, err := st.GetFormula(ctx, args[0])
	if err != nil {
		return err
	}

	text, _ := cmd.Flags().GetString("formula")
	explanation, _ := cmd.Flags().GetString("explanation")
	if text == "" && explanation == "" {
		return fmt.Errorf("nothing to change: provide --formula and/or --explanation")
	}

	if text != "" && text != formula.Text {
		fmt.Print(review.Diff(formula.Text, text))
		formula.Text = text
	}
	if explanation != "" {
		formula.Explanation = explanation
	}

	if err := st.SaveFormulas(ctx, []types.Formula{formula}); err != nil {
		return err
	}
	fmt.Printf("Saved formula %s.\n", formula.ID)
	return nil
}

var ltlApproveCmd = &cobra.Command{
	Use:   "approve ID...",
	Short: "Approve formulas by id",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLTLApprove,
}

func runLTLApprove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	approver, _ := cmd.Flags().GetString("approver")
	n, err := st.ApproveFormulas(ctx, args, approver)
	if err != nil {
		return err
	}
	fmt.Printf("Approved %d formulas.\n", n)
	return nil
}

func init() {
	ltlGenerateCmd.Flags().String("rfc", "", "RFC number of the document to process")
	ltlGenerateCmd.Flags().String("model", "", "model identifier")
	ltlGenerateCmd.Flags().String("api-key", "", "API key (overrides config and secrets)")

	ltlListCmd.Flags().String("property", "", "filter by property id")

	ltlEditCmd.Flags().String("formula", "", "replacement LTL formula text")
	ltlEditCmd.Flags().String("explanation", "", "replacement natural-language explanation")

	ltlApproveCmd.Flags().String("approver", "User", "name of the reviewer")

	ltlCmd.AddCommand(ltlGenerateCmd)
	ltlCmd.AddCommand(ltlListCmd)
	ltlCmd.AddCommand(ltlEditCmd)
	ltlCmd.AddCommand(ltlApproveCmd)
	rootCmd.AddCommand(ltlCmd)
}
