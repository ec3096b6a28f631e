package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rfc-formalizer/internal/workflow"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect and reset workflow sessions",
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored sessions and table counts",
	RunE:  runSessionStatus,
}

func runSessionStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions. Start one with: rfc-formalizer extract FILE")
	} else {
		fmt.Printf("%-12s  %-22s  %s\n", "RFC", "Stage", "Updated")
		for _, s := range sessions {
			fmt.Printf("%-12s  %-22s  %s\n", s.RFC, s.Stage, s.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
	}

	counts, err := st.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("\ndocuments: %d  properties: %d  propositions: %d  formulas: %d (%d approved)\n",
		counts.Documents, counts.Properties, counts.Propositions, counts.Formulas, counts.ApprovedFormulas)
	return nil
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Return a session to the upload stage",
	Long: `Reset moves a session back to the upload stage so a document can be
re-processed. Stored properties, propositions, and formulas are kept;
re-running the pipeline upserts over them by id.`,
	RunE: runSessionReset,
}

func runSessionReset(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	rfc, _, err := resolveSession(ctx, cmd, st)
	if err != nil {
		return err
	}
	if err := st.SaveSession(ctx, rfc, string(workflow.Reset())); err != nil {
		return err
	}
	fmt.Printf("Session for RFC %s reset to %s.\n", rfc, workflow.Reset())
	return nil
}

func init() {
	sessionResetCmd.Flags().String("rfc", "", "RFC number of the session to reset")

	sessionCmd.AddCommand(sessionStatusCmd)
	sessionCmd.AddCommand(sessionResetCmd)
	rootCmd.AddCommand(sessionCmd)
}
