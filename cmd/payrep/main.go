// SPDX-License-Identifier: Apache-2.0

// Package main provides the payrep command: schema compatibility analysis of
// provider extracts and an end-to-end check against the ingestion service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:          "payrep",
	Short:        "TPP report compatibility analysis",
	Long:         "payrep compares a provider's report extracts against reference templates and can drive the ingestion service end to end with them.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
