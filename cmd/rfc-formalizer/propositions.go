// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rfc-formalizer/internal/formalize"
	"github.com/pdiddy/rfc-formalizer/internal/review"
	"github.com/pdiddy/rfc-formalizer/internal/store"
	"github.com/pdiddy/rfc-formalizer/internal/workflow"
	"github.com/pdiddy/rfc-formalizer/pkg/types"
)

var propositionsCmd = &cobra.Command{
	Use:   "propositions",
	Short: "Decompose properties into atomic propositions (stage 3)",
}

var propositionsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Extract atomic propositions for every property in one call",
	Long: `Generate sends the document's full property set to the model in one
batched call and persists the atomic propositions it returns. The
document must be in the property-review stage; on success it moves to
proposition approval.`,
	RunE: runPropositionsGenerate,
}

func runPropositionsGenerate(cmd *cobra.Command, args []string) error {
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
	if session.Stage != string(workflow.StageReviewProperties) {
		return fmt.Errorf("RFC %s is at stage %q, not %q", rfc, session.Stage, workflow.StageReviewProperties)
	}

	properties, err := st.ListProperties(ctx, rfc)
	if err != nil {
		return err
	}
	if len(properties) == 0 {
		return fmt.Errorf("no properties stored for RFC %s", rfc)
	}

	backend := &formalize.AnthropicBackend{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		MaxRetries: cfg.MaxRetries,
	}

	fmt.Printf("Extracting propositions for %d properties (1 API call)...\n", len(properties))
	propositions, err := formalize.ExtractPropositions(ctx, backend, properties)
	if err != nil {
		reportStageFailure(err)
		return nil
	}
	if len(propositions) == 0 {
		fmt.Println("No propositions extracted; workflow not advanced.")
		return nil
	}

	if err := st.SavePropositions(ctx, propositions); err != nil {
		return err
	}

	next, err := workflow.Advance(workflow.StageReviewProperties, workflow.Outputs{
		Properties:   len(properties),
		Propositions: len(propositions),
	})
	if err != nil {
		return err
	}
	if err := st.SaveSession(ctx, rfc, string(next)); err != nil {
		return err
	}

	fmt.Printf("Extracted %d propositions. Review them with: rfc-formalizer propositions list\n", len(propositions))
	return nil
}

var propositionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List atomic propositions, optionally for one property",
	RunE:  runPropositionsList,
}

func runPropositionsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	propertyID, _ := cmd.Flags().GetString("property")
	propositions, err := st.ListPropositions(ctx, propertyID)
	if err != nil {
		return err
	}
	if len(propositions) == 0 {
		fmt.Println("No propositions found.")
		return nil
	}

	fmt.Printf("%-10s  %-10s  %-26s  %-10s  %-4s  %s\n", "ID", "Property", "Name", "Kind", "OK", "Description")
	fmt.Println(strings.Repeat("-", 100))
	for _, p := range propositions {
		desc := p.Description
		if len(desc) > 34 {
			desc = desc[:31] + "..."
		}
		approved := ""
		if p.Approved {
			approved = "yes"
		}
		fmt.Printf("%-10s  %-10s  %-26s  %-10s  %-4s  %s\n", p.ID, p.PropertyID, p.Name, p.Kind, approved, desc)
	}
	fmt.Printf("\n%d propositions\n", len(propositions))
	return nil
}

var propositionsEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a proposition in place",
	Args:  cobra.ExactArgs(1),
	RunE:  runPropositionsEdit,
}

func runPropositionsEdit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	prop, err := st.GetProposition(ctx, args[0])
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	kind, _ := cmd.Flags().GetString("kind")
	description, _ := cmd.Flags().GetString("description")
	if name == "" && kind == "" && description == "" {
		return fmt.Errorf("nothing to change: provide --name, --kind, and/or --description")
	}

	if name != "" {
		prop.Name = name
	}
	if kind != "" {
		k := types.PropositionKind(kind)
		if !types.ValidKind(k) {
			return fmt.Errorf("invalid kind %q: use action, state, event, or condition", kind)
		}
		prop.Kind = k
	}
	if description != "" && description != prop.Description {
		fmt.Print(review.Diff(prop.Description, description))
		prop.Description = description
	}

	if err := st.SavePropositions(ctx, []types.Proposition{prop}); err != nil {
		return err
	}
	fmt.Printf("Saved proposition %s.\n", prop.ID)
	return nil
}

var propositionsApproveCmd = &cobra.Command{
	Use:   "approve [ID...]",
	Short: "Approve propositions by id or for a whole property",
	Long: `Approve marks propositions as reviewed. Name individual proposition
ids, or use --property to approve every proposition of one property.`,
	RunE: runPropositionsApprove,
}

func runPropositionsApprove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	approver, _ := cmd.Flags().GetString("approver")

	ids := args
	if propertyID, _ := cmd.Flags().GetString("property"); propertyID != "" {
		propositions, err := st.ListPropositions(ctx, propertyID)
		if err != nil {
			return err
		}
		for _, p := range propositions {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("nothing to approve: name proposition ids or use --property")
	}

	n, err := st.ApprovePropositions(ctx, ids, approver)
	if err != nil {
		return err
	}
	fmt.Printf("Approved %d propositions.\n", n)
	return nil
}

// resolveSession returns the RFC number and persisted session to operate
// on. The --rfc flag wins; otherwise a single existing session is used.
func resolveSession(ctx context.Context, cmd *cobra.Command, st *store.Store) (string, store.SessionRecord, error) {
	rfc, _ := cmd.Flags().GetString("rfc")
	if rfc != "" {
		session, err := st.GetSession(ctx, rfc)
		if err != nil {
			return "", store.SessionRecord{}, err
		}
		return rfc, session, nil
	}

	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return "", store.SessionRecord{}, err
	}
	switch len(sessions) {
	case 0:
		return "", store.SessionRecord{}, fmt.Errorf("no sessions exist: run extract first")
	case 1:
		return sessions[0].RFC, sessions[0], nil
	default:
		return "", store.SessionRecord{}, fmt.Errorf("%d sessions exist: choose one with --rfc", len(sessions))
	}
}

func init() {
	propositionsGenerateCmd.Flags().String("rfc", "", "RFC number of the document to process")
	propositionsGenerateCmd.Flags().String("model", "", "model identifier")
	propositionsGenerateCmd.Flags().String("api-key", "", "API key (overrides config and secrets)")

	propositionsListCmd.Flags().String("property", "", "filter by property id")

	propositionsEditCmd.Flags().String("name", "", "replacement snake_case name")
	propositionsEditCmd.Flags().String("kind", "", "replacement kind: action, state, event, condition")
	propositionsEditCmd.Flags().String("description", "", "replacement description")

	propositionsApproveCmd.Flags().String("property", "", "approve every proposition of this property")
	propositionsApproveCmd.Flags().String("approver", "User", "name of the reviewer")

	propositionsCmd.AddCommand(propositionsGenerateCmd)
	propositionsCmd.AddCommand(propositionsListCmd)
	propositionsCmd.AddCommand(propositionsEditCmd)
	propositionsCmd.AddCommand(propositionsApproveCmd)
	rootCmd.AddCommand(propositionsCmd)
}
