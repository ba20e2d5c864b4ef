// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/Tellesy/payrep/internal/catalog"
	"github.com/Tellesy/payrep/internal/schema"
)

// catalogFlags selects the report pairs to analyze: a catalog file, or the
// built-in catalog relocated by directory and date flags.
type catalogFlags struct {
	path          string
	candidateDir  string
	templateDir   string
	candidateDate string
	templateDate  string
	sourceCode    string
	sourceName    string
}

func addCatalogFlags(cmd *cobra.Command, f *catalogFlags) {
	def := catalog.DefaultOptions()
	cmd.Flags().StringVarP(&f.path, "catalog", "c", "", "YAML catalog file (default: built-in catalog)")
	cmd.Flags().StringVar(&f.candidateDir, "candidate-dir", def.CandidateDir, "Directory of the provider's extracts")
	cmd.Flags().StringVar(&f.templateDir, "template-dir", def.TemplateDir, "Directory of the reference templates")
	cmd.Flags().StringVar(&f.candidateDate, "candidate-date", def.CandidateDate, "Date stamp in the extract filenames")
	cmd.Flags().StringVar(&f.templateDate, "template-date", def.TemplateDate, "Date stamp in the template filenames")
	cmd.Flags().StringVar(&f.sourceCode, "source-code", def.Source.Code, "Code of the data provider")
	cmd.Flags().StringVar(&f.sourceName, "source-name", def.Source.Name, "Name of the data provider")
}

func (f *catalogFlags) load() (*catalog.Catalog, error) {
	if f.path != "" {
		return catalog.Load(f.path)
	}
	return catalog.Default(catalog.Options{
		CandidateDir:  f.candidateDir,
		TemplateDir:   f.templateDir,
		CandidateDate: f.candidateDate,
		TemplateDate:  f.templateDate,
		Source:        schema.Source{Code: f.sourceCode, Name: f.sourceName},
	}), nil
}
