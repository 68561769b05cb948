// Package cmd implements the casebrief command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/AnTengye/casebrief/config"
	"github.com/AnTengye/casebrief/pkg/logger"
	"github.com/AnTengye/casebrief/service"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath  string
	datasetPath string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "casebrief",
	Short: "Browse structured briefs of court opinions",
	Long: `casebrief loads a CSV of court opinions with their structured briefs
and presents them as a web dashboard or on the terminal.

Each row carries the opinion text, its source URL and the brief as JSON.
The case name is derived from the source URL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if datasetPath != "" {
			loaded.Dataset.Source = config.SourceLocal
			loaded.Dataset.Path = datasetPath
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = loaded

		// Terminal commands keep stdout for their own output.
		var out io.Writer = os.Stderr
		if cmd.Name() == "serve" {
			out = os.Stdout
		}
		logger.Init(&logger.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Output: out,
		})
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&datasetPath, "dataset", "d", "", "local CSV dataset, overrides the configured source")
}

// loadStore reads the configured dataset into a new CaseStore.
func loadStore(ctx context.Context, cfg *config.Config) (*service.CaseStore, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Dataset.LoadTimeoutSec)*time.Second)
	defer cancel()

	src, err := service.NewSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	records, err := service.LoadDataset(ctx, src, service.LoadOptions{HasHeader: cfg.Dataset.HeaderRow()})
	if err != nil {
		return nil, err
	}

	store := service.NewCaseStore()
	store.Load(records, src.Location())
	return store, nil
}
