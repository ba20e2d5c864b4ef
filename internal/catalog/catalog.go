// SPDX-License-Identifier: Apache-2.0

// Package catalog defines which candidate and template extracts are compared
// for each report type.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/goccy/go-yaml"

	"github.com/Tellesy/payrep/internal/schema"
)

// Entry is one report type and the files compared for it.
type Entry struct {
	ReportType string `yaml:"report_type" json:"report_type"`
	// Label is the file type name the ingestion service knows the report by.
	Label     string `yaml:"label,omitempty" json:"label,omitempty"`
	Candidate string `yaml:"candidate" json:"candidate"`
	Template  string `yaml:"template" json:"template"`
	// FilePattern overrides the pattern derived from the candidate filename.
	FilePattern string `yaml:"file_pattern,omitempty" json:"file_pattern,omitempty"`
}

// Catalog is an ordered list of entries plus the data source they belong to.
type Catalog struct {
	Source  schema.Source `yaml:"source" json:"source"`
	Entries []Entry       `yaml:"entries" json:"entries"`
}

// Pairs returns the entries as analyzer pairs, in catalog order.
func (c *Catalog) Pairs() []schema.Pair {
	pairs := make([]schema.Pair, len(c.Entries))
	for i, e := range c.Entries {
		pairs[i] = schema.Pair{ReportType: e.ReportType, Candidate: e.Candidate, Template: e.Template}
	}
	return pairs
}

var dateStamp = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// FileNamePattern returns the regular expression the ingestion service uses
// to pick up this report's files. Unless FilePattern is set, it is the
// candidate filename with its YYYY-MM-DD stamp generalized.
func (e Entry) FileNamePattern() string {
	if e.FilePattern != "" {
		return e.FilePattern
	}
	base := filepath.Base(e.Candidate)
	loc := dateStamp.FindStringIndex(base)
	if loc == nil {
		return regexp.QuoteMeta(base)
	}
	return regexp.QuoteMeta(base[:loc[0]]) + `\d{4}-\d{2}-\d{2}` + regexp.QuoteMeta(base[loc[1]:])
}

// Directory returns the directory holding the candidate file.
func (e Entry) Directory() string {
	return filepath.Dir(e.Candidate)
}

// Load reads a YAML catalog file and validates it.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog YAML: %w", err)
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog YAML: %w", err)
	}
	if err := c.checkUnique(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) checkUnique() error {
	seen := make(map[string]bool, len(c.Entries))
	for _, e := range c.Entries {
		if seen[e.ReportType] {
			return &ValidationError{Message: fmt.Sprintf("duplicate report_type %q", e.ReportType)}
		}
		seen[e.ReportType] = true
	}
	return nil
}
