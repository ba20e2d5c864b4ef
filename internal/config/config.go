// SPDX-License-Identifier: Apache-2.0

// Package config provides the settings for driving the ingestion service.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment variables read by HarnessFromEnv.
const (
	EnvBaseURL    = "PAYREP_BASE_URL"
	EnvUsername   = "PAYREP_USERNAME"
	EnvPassword   = "PAYREP_PASSWORD"
	EnvSchedule   = "PAYREP_SCHEDULE"
	EnvPollDelay  = "PAYREP_POLL_DELAY"
	EnvOutputDir  = "PAYREP_OUTPUT_DIR"
	EnvSourceType = "PAYREP_SOURCE_TYPE"
)

// DefaultSchedule runs processing every five minutes. The expression is
// passed to the ingestion service as-is.
const DefaultSchedule = "0 */5 * * * ?"

// Harness holds what one workflow run needs. Values are supplied at
// invocation time and never persisted.
type Harness struct {
	BaseURL  string `validate:"required,url"`
	Username string `validate:"required"`
	Password string `validate:"required"`
	// Schedule is validated by the ingestion service, not here.
	Schedule string `validate:"required"`
	// SourceType is the resource type registered for the data source.
	SourceType string        `validate:"required,oneof=BANK TPP"`
	PollDelay  time.Duration `validate:"min=0"`
	OutputDir  string
}

// DefaultHarness returns the defaults for a local ingestion service.
func DefaultHarness() Harness {
	return Harness{
		BaseURL:    "http://localhost:8080",
		Username:   "admin",
		Schedule:   DefaultSchedule,
		SourceType: "TPP",
		PollDelay:  10 * time.Second,
		OutputDir:  ".",
	}
}

// HarnessFromEnv starts from DefaultHarness and applies any PAYREP_*
// environment variables that are set.
func HarnessFromEnv() (Harness, error) {
	cfg := DefaultHarness()

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	setString(EnvBaseURL, &cfg.BaseURL)
	setString(EnvUsername, &cfg.Username)
	setString(EnvPassword, &cfg.Password)
	setString(EnvSchedule, &cfg.Schedule)
	setString(EnvOutputDir, &cfg.OutputDir)
	setString(EnvSourceType, &cfg.SourceType)

	if v, ok := os.LookupEnv(EnvPollDelay); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Harness{}, fmt.Errorf("config error: %s: %w", EnvPollDelay, err)
		}
		cfg.PollDelay = d
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}

// Validate checks that the configuration is complete.
func (h Harness) Validate() error {
	if err := validator.New().Struct(h); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("config error: invalid fields: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}
