// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"path/filepath"

	"github.com/Tellesy/payrep/internal/schema"
)

// Options locates the files of the built-in catalog.
type Options struct {
	CandidateDir  string
	TemplateDir   string
	CandidateDate string
	TemplateDate  string
	Source        schema.Source
}

// DefaultOptions matches the layout of the provider's sample data.
func DefaultOptions() Options {
	return Options{
		CandidateDir:  filepath.Join("sample-data", "901"),
		TemplateDir:   filepath.Join("sample-data", "reports"),
		CandidateDate: "2025-07-18",
		TemplateDate:  "2025-08-03",
		Source:        schema.Source{Code: "901", Name: "Tadawul TPP"},
	}
}

// builtin lists the report types the provider delivers: the candidate slug
// and the template file prefix for each.
var builtin = []struct {
	reportType     string
	label          string
	templatePrefix string
}{
	{reportType: "ecommerce_card_activity", label: "E-Commerce Card Activity", templatePrefix: "E-CommerceCardActivity_001"},
	{reportType: "pos_terminal_data", label: "POS Terminal Data", templatePrefix: "POSTerminalData_001"},
	{reportType: "pos_transaction_data", label: "POS Transaction Data", templatePrefix: "POSTransactionData_001"},
}

// Default returns the built-in three-entry catalog. Zero-valued options
// fall back to DefaultOptions.
func Default(opts Options) *Catalog {
	def := DefaultOptions()
	if opts.CandidateDir == "" {
		opts.CandidateDir = def.CandidateDir
	}
	if opts.TemplateDir == "" {
		opts.TemplateDir = def.TemplateDir
	}
	if opts.CandidateDate == "" {
		opts.CandidateDate = def.CandidateDate
	}
	if opts.TemplateDate == "" {
		opts.TemplateDate = def.TemplateDate
	}
	if opts.Source.Code == "" {
		opts.Source = def.Source
	}

	c := &Catalog{Source: opts.Source}
	for _, b := range builtin {
		c.Entries = append(c.Entries, Entry{
			ReportType: b.reportType,
			Label:      b.label,
			Candidate:  filepath.Join(opts.CandidateDir, fmt.Sprintf("%s_%s.csv", b.reportType, opts.CandidateDate)),
			Template:   filepath.Join(opts.TemplateDir, fmt.Sprintf("%s_%s.csv", b.templatePrefix, opts.TemplateDate)),
		})
	}
	return c
}
