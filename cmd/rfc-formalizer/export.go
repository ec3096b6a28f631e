package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rfc-formalizer/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored tables as CSV, YAML, or JSON",
	Long: `Export writes the persisted tables to the data directory's export/
subdirectory. CSV writes one file per table (or a single --table, or
--stdout); YAML and JSON write the joined complete-formalization
records.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	format, _ := cmd.Flags().GetString("format")
	toStdout, _ := cmd.Flags().GetBool("stdout")

	switch strings.ToLower(format) {
	case "csv":
		if toStdout {
			tableName, _ := cmd.Flags().GetString("table")
			table, err := store.ParseTable(tableName)
			if err != nil {
				return err
			}
			return st.WriteCSV(ctx, table, os.Stdout)
		}
		return exportTables(ctx, cmd, st)
	case "yaml":
		if toStdout {
			return fmt.Errorf("--stdout is only supported with --format csv")
		}
		path, err := st.ExportYAML(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	case "json":
		if toStdout {
			return fmt.Errorf("--stdout is only supported with --format csv")
		}
		path, err := st.ExportJSON(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	default:
		return fmt.Errorf("unknown format %q: use csv, yaml, or json", format)
	}
}

func exportTables(ctx context.Context, cmd *cobra.Command, st *store.Store) error {
	tables := []store.Table{
		store.TableProperties, store.TablePropositions,
		store.TableFormulas, store.TableComplete,
	}
	if tableName, _ := cmd.Flags().GetString("table"); cmd.Flags().Changed("table") {
		table, err := store.ParseTable(tableName)
		if err != nil {
			return err
		}
		tables = []store.Table{table}
	}

	for _, table := range tables {
		path, err := st.ExportCSV(ctx, table)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func init() {
	exportCmd.Flags().String("format", "csv", "output format: csv, yaml, json")
	exportCmd.Flags().String("table", "complete", "table to export: properties, propositions, formulas, complete")
	exportCmd.Flags().Bool("stdout", false, "write CSV to stdout instead of the export directory")
	rootCmd.AddCommand(exportCmd)
}
