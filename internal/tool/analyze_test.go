// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyzeSchemaPair(t *testing.T) {
	ctx := context.Background()
	req := &mcp.CallToolRequest{}
	dir := t.TempDir()

	template := writeFile(t, dir, "template.csv", "A,B,C,D\n1,2,3,4\n")
	partial := writeFile(t, dir, "partial.csv", "A,B,C,X\n1,2,3,9\n")
	exact := writeFile(t, dir, "exact.csv", "A,B,C,D\n5,6,7,8\n")
	dated := writeFile(t, dir, "dated.csv", "Transaction Date,Amount\n2025-07-18,10\n")
	datedTemplate := writeFile(t, dir, "dated_template.csv", "Transaction Date,Amount\n2025-08-03,3\n")

	tests := []struct {
		name           string
		input          InputAnalyzeSchemaPair
		wantErr        bool
		errContains    string
		validateOutput func(t *testing.T, output OutputAnalyzeSchemaPair)
	}{
		{
			name:        "missing report type returns error",
			input:       InputAnalyzeSchemaPair{CandidatePath: exact, TemplatePath: template},
			wantErr:     true,
			errContains: "report_type is required",
		},
		{
			name:        "missing candidate path returns error",
			input:       InputAnalyzeSchemaPair{ReportType: "r", TemplatePath: template},
			wantErr:     true,
			errContains: "candidate_path is required",
		},
		{
			name:        "missing template path returns error",
			input:       InputAnalyzeSchemaPair{ReportType: "r", CandidatePath: exact},
			wantErr:     true,
			errContains: "template_path is required",
		},
		{
			name:  "identical headers",
			input: InputAnalyzeSchemaPair{ReportType: "pos_terminal_data", CandidatePath: exact, TemplatePath: template},
			validateOutput: func(t *testing.T, output OutputAnalyzeSchemaPair) {
				require.True(t, output.Result.Succeeded())
				assert.Equal(t, 1.0, output.Result.Compatibility.CompatibilityScore)
				assert.Equal(t, "high", output.Severity)
				assert.Equal(t, []string{"pos_terminal_data: High compatibility (100.0%) - minimal changes required"}, output.Recommendations)
				assert.Empty(t, output.ProcessingIssues)
			},
		},
		{
			name:  "partial overlap",
			input: InputAnalyzeSchemaPair{ReportType: "R", CandidatePath: partial, TemplatePath: template},
			validateOutput: func(t *testing.T, output OutputAnalyzeSchemaPair) {
				require.True(t, output.Result.Succeeded())
				assert.InDelta(t, 0.6, output.Result.Compatibility.CompatibilityScore, 1e-9)
				assert.Equal(t, "low", output.Severity)
				assert.Contains(t, output.Recommendations, "R: Add missing columns: D")
				assert.Contains(t, output.ProcessingIssues, "R: Processing will fail due to missing required columns: D")
			},
		},
		{
			name:  "date column flagged",
			input: InputAnalyzeSchemaPair{ReportType: "ecommerce_card_activity", CandidatePath: dated, TemplatePath: datedTemplate},
			validateOutput: func(t *testing.T, output OutputAnalyzeSchemaPair) {
				require.Len(t, output.Result.FormatRisks, 1)
				assert.Equal(t, "Transaction Date", output.Result.FormatRisks[0].Column)
				assert.Equal(t, "2025-07-18", output.Result.FormatRisks[0].SampleValue)
			},
		},
		{
			name:  "unreadable candidate is reported, not returned",
			input: InputAnalyzeSchemaPair{ReportType: "R", CandidatePath: filepath.Join(dir, "missing.csv"), TemplatePath: template},
			validateOutput: func(t *testing.T, output OutputAnalyzeSchemaPair) {
				assert.False(t, output.Result.Succeeded())
				assert.Empty(t, output.Severity)
				assert.Equal(t, "cannot compare due to file read errors", output.Result.Error)
				assert.NotNil(t, output.Recommendations)
				assert.Contains(t, output.ProcessingIssues, "R: File structure error - file not found: "+filepath.Join(dir, "missing.csv"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := AnalyzeSchemaPair(ctx, req, tt.input)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

func TestAnalyzeCatalog(t *testing.T) {
	ctx := context.Background()
	req := &mcp.CallToolRequest{}
	dir := t.TempDir()

	writeFile(t, dir, "a_cand.csv", "A,B\n1,2\n")
	writeFile(t, dir, "a_tmpl.csv", "A,B\n1,2\n")
	writeFile(t, dir, "b_cand.csv", "A\n1\n")
	writeFile(t, dir, "b_tmpl.csv", "A,B\n1,2\n")
	catalogPath := writeFile(t, dir, "catalog.yaml", fmt.Sprintf(`source:
  code: "901"
  name: Tadawul TPP
entries:
  - report_type: a
    candidate: %[1]s/a_cand.csv
    template: %[1]s/a_tmpl.csv
  - report_type: b
    candidate: %[1]s/b_cand.csv
    template: %[1]s/b_tmpl.csv
  - report_type: c
    candidate: %[1]s/c_cand.csv
    template: %[1]s/c_tmpl.csv
`, dir))

	tests := []struct {
		name           string
		input          InputAnalyzeCatalog
		wantErr        bool
		errContains    string
		validateOutput func(t *testing.T, output OutputAnalyzeCatalog)
	}{
		{
			name:        "negative workers returns error",
			input:       InputAnalyzeCatalog{CatalogPath: catalogPath, Workers: -1},
			wantErr:     true,
			errContains: "workers must not be negative",
		},
		{
			name:    "missing catalog file returns error",
			input:   InputAnalyzeCatalog{CatalogPath: filepath.Join(dir, "none.yaml")},
			wantErr: true,
		},
		{
			name:  "results in catalog order",
			input: InputAnalyzeCatalog{CatalogPath: catalogPath},
			validateOutput: func(t *testing.T, output OutputAnalyzeCatalog) {
				require.Len(t, output.Results, 3)
				assert.Equal(t, "a", output.Results[0].ReportType)
				assert.Equal(t, "b", output.Results[1].ReportType)
				assert.Equal(t, "c", output.Results[2].ReportType)
				assert.InDelta(t, 0.75, output.OverallCompatibility, 1e-9)
				assert.Equal(t, "901", output.Source.Code)
				assert.NotEmpty(t, output.RunID)
				assert.Empty(t, output.ReportPath)
			},
		},
		{
			name:  "parallel run writes the artifact",
			input: InputAnalyzeCatalog{CatalogPath: catalogPath, Workers: 3, OutputDir: filepath.Join(dir, "out")},
			validateOutput: func(t *testing.T, output OutputAnalyzeCatalog) {
				require.Len(t, output.Results, 3)
				assert.Equal(t, "a", output.Results[0].ReportType)
				require.NotEmpty(t, output.ReportPath)
				assert.FileExists(t, output.ReportPath)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := AnalyzeCatalog(ctx, req, tt.input)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	ctx := context.Background()
	server := NewServer("test")

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	var names []string
	for _, tl := range tools.Tools {
		names = append(names, tl.Name)
	}
	assert.ElementsMatch(t, []string{"analyze_schema_pair", "analyze_catalog"}, names)
}
