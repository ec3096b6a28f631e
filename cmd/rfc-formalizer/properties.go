// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rfc-formalizer/internal/review"
	"github.com/pdiddy/rfc-formalizer/pkg/types"
)

var propertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "Review the extracted requirement properties (stage 2)",
}

var propertiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List extracted properties",
	RunE:  runPropertiesList,
}

func runPropertiesList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	rfc, _ := cmd.Flags().GetString("rfc")
	properties, err := st.ListProperties(ctx, rfc)
	if err != nil {
		return err
	}
	if len(properties) == 0 {
		fmt.Println("No properties found.")
		return nil
	}

	fmt.Printf("%-10s  %-6s  %-10s  %-10s  %s\n", "ID", "RFC", "Section", "Category", "Text")
	fmt.Println(strings.Repeat("-", 100))
	for _, p := range properties {
		text := p.Text
		if len(text) > 56 {
			text = text[:53] + "..."
		}
		fmt.Printf("%-10s  %-6s  %-10s  %-10s  %s\n", p.ID, p.RFC, p.Section, p.Category, text)
	}
	fmt.Printf("\n%d properties\n", len(properties))
	return nil
}

var propertiesEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a property's text or category in place",
	Long: `Edit replaces the stored text and/or category of one property. The
change is shown as a diff before it is saved.`,
	Args: cobra.ExactArgs(1),
	RunE: runPropertiesEdit,
}

func runPropertiesEdit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	prop, err := st.GetProperty(ctx, args[0])
	if err != nil {
		return err
	}

	text, _ := cmd.Flags().GetString("text")
	category, _ := cmd.Flags().GetString("category")
	if text == "" && category == "" {
		return fmt.Errorf("nothing to change: provide --text and/or --category")
	}

	if text != "" && text != prop.Text {
		fmt.Print(review.Diff(prop.Text, text))
		prop.Text = text
	}
	if category != "" {
		c := types.PropertyCategory(category)
		if !types.ValidCategory(c) {
			return fmt.Errorf("invalid category %q: use Safety, Liveness, Ordering, Timing, or Unknown", category)
		}
		prop.Category = c
	}

	if err := st.SaveProperties(ctx, []types.Property{prop}); err != nil {
		return err
	}
	fmt.Printf("Saved property %s.\n", prop.ID)
	return nil
}

func init() {
	propertiesListCmd.Flags().String("rfc", "", "filter by RFC number")

	propertiesEditCmd.Flags().String("text", "", "replacement requirement text")
	propertiesEditCmd.Flags().String("category", "", "replacement category: Safety, Liveness, Ordering, Timing, Unknown")

	propertiesCmd.AddCommand(propertiesListCmd)
	propertiesCmd.AddCommand(propertiesEditCmd)
	rootCmd.AddCommand(propertiesCmd)
}
