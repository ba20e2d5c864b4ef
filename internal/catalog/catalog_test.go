// SPDX-License-Identifier: Apache-2.0

package catalog_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tellesy/payrep/internal/catalog"
	"github.com/Tellesy/payrep/internal/schema"
)

func TestDefault(t *testing.T) {
	c := catalog.Default(catalog.Options{})

	assert.Equal(t, schema.Source{Code: "901", Name: "Tadawul TPP"}, c.Source)
	require.Len(t, c.Entries, 3)

	var types []string
	for _, e := range c.Entries {
		types = append(types, e.ReportType)
	}
	assert.Equal(t, []string{"ecommerce_card_activity", "pos_terminal_data", "pos_transaction_data"}, types)

	first := c.Entries[0]
	assert.Equal(t, filepath.Join("sample-data", "901", "ecommerce_card_activity_2025-07-18.csv"), first.Candidate)
	assert.Equal(t, filepath.Join("sample-data", "reports", "E-CommerceCardActivity_001_2025-08-03.csv"), first.Template)
	assert.Equal(t, "E-Commerce Card Activity", first.Label)
	assert.Equal(t, filepath.Join("sample-data", "901"), first.Directory())
}

func TestDefault_Overrides(t *testing.T) {
	c := catalog.Default(catalog.Options{
		CandidateDir:  "in",
		TemplateDir:   "tpl",
		CandidateDate: "2026-01-02",
		TemplateDate:  "2026-01-01",
		Source:        schema.Source{Code: "902", Name: "Other"},
	})
	assert.Equal(t, "902", c.Source.Code)
	assert.Equal(t, filepath.Join("in", "pos_terminal_data_2026-01-02.csv"), c.Entries[1].Candidate)
	assert.Equal(t, filepath.Join("tpl", "POSTerminalData_001_2026-01-01.csv"), c.Entries[1].Template)

	pairs := c.Pairs()
	require.Len(t, pairs, 3)
	assert.Equal(t, "pos_terminal_data", pairs[1].ReportType)
	assert.Equal(t, c.Entries[1].Candidate, pairs[1].Candidate)
}

func TestEntry_FileNamePattern(t *testing.T) {
	tests := []struct {
		name      string
		entry     catalog.Entry
		want      string
		matches   []string
		nonMatchs []string
	}{
		{
			name:      "date stamp generalized",
			entry:     catalog.Entry{Candidate: "sample-data/901/ecommerce_card_activity_2025-07-18.csv"},
			want:      `ecommerce_card_activity_\d{4}-\d{2}-\d{2}\.csv`,
			matches:   []string{"ecommerce_card_activity_2025-09-30.csv"},
			nonMatchs: []string{"pos_terminal_data_2025-09-30.csv"},
		},
		{
			name:  "no date stamp",
			entry: catalog.Entry{Candidate: "dir/extract.v1.csv"},
			want:  `extract\.v1\.csv`,
		},
		{
			name:  "explicit pattern wins",
			entry: catalog.Entry{Candidate: "x_2025-01-01.csv", FilePattern: `x_.*\.csv`},
			want:  `x_.*\.csv`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.entry.FileNamePattern()
			assert.Equal(t, tt.want, got)
			re := regexp.MustCompile(got)
			for _, m := range tt.matches {
				assert.True(t, re.MatchString(m), m)
			}
			for _, m := range tt.nonMatchs {
				assert.False(t, re.MatchString(m), m)
			}
		})
	}
}

const validCatalog = `source:
  code: "901"
  name: Tadawul TPP
entries:
  - report_type: pos_terminal_data
    label: POS Terminal Data
    candidate: in/pos_terminal_data_2025-07-18.csv
    template: tpl/POSTerminalData_001_2025-08-03.csv
  - report_type: ecommerce_card_activity
    candidate: in/ecommerce_card_activity_2025-07-18.xlsx
    template: tpl/E-CommerceCardActivity_001_2025-08-03.csv
    file_pattern: 'ecommerce_.*\.xlsx'
`

func TestParse(t *testing.T) {
	c, err := catalog.Parse([]byte(validCatalog))
	require.NoError(t, err)

	assert.Equal(t, "901", c.Source.Code)
	assert.Equal(t, "Tadawul TPP", c.Source.Name)
	require.Len(t, c.Entries, 2)
	assert.Equal(t, "pos_terminal_data", c.Entries[0].ReportType)
	assert.Equal(t, "POS Terminal Data", c.Entries[0].Label)
	assert.Equal(t, `ecommerce_.*\.xlsx`, c.Entries[1].FileNamePattern())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "no entries",
			doc:  "source:\n  code: \"901\"\nentries: []\n",
		},
		{
			name: "missing source",
			doc:  "entries:\n  - report_type: a\n    candidate: a.csv\n    template: b.csv\n",
		},
		{
			name: "bad report type",
			doc:  "source:\n  code: \"901\"\nentries:\n  - report_type: POS Data\n    candidate: a.csv\n    template: b.csv\n",
		},
		{
			name: "missing template",
			doc:  "source:\n  code: \"901\"\nentries:\n  - report_type: a\n    candidate: a.csv\n",
		},
		{
			name: "unknown entry field",
			doc:  "source:\n  code: \"901\"\nentries:\n  - report_type: a\n    candidate: a.csv\n    template: b.csv\n    schedule: daily\n",
		},
		{
			name: "duplicate report type",
			doc:  "source:\n  code: \"901\"\nentries:\n  - report_type: a\n    candidate: a.csv\n    template: b.csv\n  - report_type: a\n    candidate: c.csv\n    template: d.csv\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.doc))
			require.Error(t, err)
			var verr *catalog.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := catalog.Parse([]byte("entries: [unclosed"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validCatalog), 0o644))

	c, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Entries, 2)

	_, err = catalog.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
