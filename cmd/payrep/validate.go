// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tellesy/payrep/internal/config"
	"github.com/Tellesy/payrep/internal/harness"
	"github.com/Tellesy/payrep/internal/schema/readers"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the extracts through the ingestion service end to end",
	Long: "Logs in to the ingestion service, registers the provider if needed, creates one file processing config per report type, " +
		"analyzes the extracts, triggers processing, waits once and reads the import logs. Stops at the first failed request. " +
		"Settings come from PAYREP_* environment variables (or .env) and may be overridden by flags.",
	RunE: runValidate,
}

var (
	validateCatalog    catalogFlags
	validateBaseURL    string
	validateUsername   string
	validatePassword   string
	validateSchedule   string
	validateSourceType string
	validatePollDelay  time.Duration
	validateOutDir     string
)

func init() {
	def := config.DefaultHarness()
	addCatalogFlags(validateCmd, &validateCatalog)
	validateCmd.Flags().StringVar(&validateBaseURL, "base-url", def.BaseURL, "Base URL of the ingestion service")
	validateCmd.Flags().StringVarP(&validateUsername, "username", "u", def.Username, "Admin username")
	validateCmd.Flags().StringVarP(&validatePassword, "password", "p", "", "Admin password (prefer "+config.EnvPassword+")")
	validateCmd.Flags().StringVar(&validateSchedule, "schedule", def.Schedule, "Schedule expression for the file processing configs")
	validateCmd.Flags().StringVar(&validateSourceType, "source-type", def.SourceType, "Resource type of the provider: BANK or TPP")
	validateCmd.Flags().DurationVar(&validatePollDelay, "poll-delay", def.PollDelay, "Wait between the trigger and reading the import logs")
	validateCmd.Flags().StringVarP(&validateOutDir, "out-dir", "o", def.OutputDir, "Directory to write the report into")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := harnessConfig(cmd)
	if err != nil {
		return err
	}

	cat, err := validateCatalog.load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	wf := harness.NewWorkflow(harness.NewClient(cfg.BaseURL, nil), readers.NewAnalyzer(), cat, cfg)
	res, err := wf.Run(ctx)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), res.Report, res.ReportPath)
	return nil
}

// harnessConfig layers flags the user set over the environment and checks
// the result.
func harnessConfig(cmd *cobra.Command) (config.Harness, error) {
	cfg, err := config.HarnessFromEnv()
	if err != nil {
		return config.Harness{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = validateBaseURL
	}
	if flags.Changed("username") {
		cfg.Username = validateUsername
	}
	if flags.Changed("password") {
		cfg.Password = validatePassword
	}
	if flags.Changed("schedule") {
		cfg.Schedule = validateSchedule
	}
	if flags.Changed("source-type") {
		cfg.SourceType = validateSourceType
	}
	if flags.Changed("poll-delay") {
		cfg.PollDelay = validatePollDelay
	}
	if flags.Changed("out-dir") {
		cfg.OutputDir = validateOutDir
	}

	if err := cfg.Validate(); err != nil {
		return config.Harness{}, err
	}
	return cfg, nil
}
