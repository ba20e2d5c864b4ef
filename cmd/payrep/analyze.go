// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Tellesy/payrep/internal/schema"
	"github.com/Tellesy/payrep/internal/schema/readers"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare provider extracts against reference templates",
	Long: "Reads the header and a few sample rows of every candidate and template in the catalog, scores their column compatibility, " +
		"flags date columns to validate, prints an operator summary and writes the report as a JSON artifact. " +
		"Files that cannot be read are reported, not fatal.",
	RunE: runAnalyze,
}

var (
	analyzeCatalog catalogFlags
	analyzeOutDir  string
	analyzeWorkers int
)

func init() {
	addCatalogFlags(analyzeCmd, &analyzeCatalog)
	analyzeCmd.Flags().StringVarP(&analyzeOutDir, "out-dir", "o", ".", "Directory to write the report into")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 1, "Number of report pairs analyzed concurrently")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if analyzeWorkers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", analyzeWorkers)
	}

	cat, err := analyzeCatalog.load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	analyzer := readers.NewAnalyzer()
	analyzer.Workers = analyzeWorkers
	report, err := analyzer.Run(ctx, cat.Source, cat.Pairs())
	if err != nil {
		return err
	}

	path, err := schema.WriteReport(analyzeOutDir, report)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), report, path)
	return nil
}
