// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rfc-formalizer CLI, which walks
// a reviewer through turning RFC text into approved LTL formulas: parse,
// extract, propositions, ltl, view, export.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rfc-formalizer/internal/secrets"
	"github.com/pdiddy/rfc-formalizer/internal/store"
	"github.com/pdiddy/rfc-formalizer/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// defaultModel is the model identifier used when neither flag nor config
// provides one.
const defaultModel = "claude-sonnet-4-20250514"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the rfc-formalizer CLI.
var rootCmd = &cobra.Command{
	Use:   "rfc-formalizer",
	Short: "Guide RFC requirements into formal LTL properties",
	Long: `rfc-formalizer extracts property-rich sections from RFC text, asks a
language model to identify requirement statements, decompose them into
atomic propositions, and synthesize LTL formulas, with a human review
step between every stage.

Each stage is a subcommand: parse previews the section extraction,
extract runs stage one, propositions and ltl run the later stages, and
view/export produce the complete formalization table. Every record is
persisted; session tracks where each document sits in the workflow.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./rfc-formalizer.yaml or ~/.config/rfc-formalizer/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "data", "base directory for the database and exports")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rfc-formalizer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rfc-formalizer"))
		}
	}

	viper.SetEnvPrefix("RFC_FORMALIZER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// openStore opens the database under --data-dir (or the configured dir).
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "data" && viper.GetString("store.data_dir") != "" {
		dataDir = viper.GetString("store.data_dir")
	}
	return store.Open(types.StoreConfig{DataDir: dataDir})
}

// aiConfig resolves the model and API key from flags, config, the secrets
// directory, and the conventional environment variable, in that order.
func aiConfig(cmd *cobra.Command) (types.ExtractionConfig, error) {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("extraction.model")
	}
	if model == "" {
		model = defaultModel
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = viper.GetString("extraction.api_key")
	}
	if apiKey == "" {
		apiKey = loadedSecrets["anthropic-api-key"]
	}
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return types.ExtractionConfig{}, fmt.Errorf(
			"anthropic API key not configured: add .secrets/anthropic-api-key, set extraction.api_key in the config file, or set ANTHROPIC_API_KEY")
	}

	cfg := types.ExtractionConfig{
		AIConfig: types.AIConfig{
			Model:      model,
			APIKey:     apiKey,
			MaxRetries: viper.GetInt("extraction.max_retries"),
		},
		MaxSections:     viper.GetInt("extraction.max_sections"),
		MaxSectionChars: viper.GetInt("extraction.max_section_chars"),
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
