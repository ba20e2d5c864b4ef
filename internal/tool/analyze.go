// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Tellesy/payrep/internal/catalog"
	"github.com/Tellesy/payrep/internal/schema"
	"github.com/Tellesy/payrep/internal/schema/readers"
)

// MetadataAnalyzeSchemaPair describes the analyze_schema_pair tool.
var MetadataAnalyzeSchemaPair = &mcp.Tool{
	Name: "analyze_schema_pair",
	Description: "Compare the header row of a candidate extract against a reference template. " +
		"Supported formats: csv, xlsx. " +
		"Returns both file structures, the matching, missing and extra columns, a compatibility score " +
		"between 0 and 1, advisory date-format risks, and the recommendations and processing issues " +
		"an operator should act on. A file that cannot be read is reported in the result, not as a tool error.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"report_type", "candidate_path", "template_path"},
		"properties": map[string]interface{}{
			"report_type": map[string]interface{}{
				"type":        "string",
				"description": "Label for the pair, e.g. pos_terminal_data. Used to prefix every message.",
			},
			"candidate_path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the provider's extract under test",
			},
			"template_path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the reference file the ingestion service already accepts",
			},
		},
	},
}

// InputAnalyzeSchemaPair is the input for the AnalyzeSchemaPair tool.
type InputAnalyzeSchemaPair struct {
	ReportType    string `json:"report_type"`
	CandidatePath string `json:"candidate_path"`
	TemplatePath  string `json:"template_path"`
}

// OutputAnalyzeSchemaPair is the output for the AnalyzeSchemaPair tool.
type OutputAnalyzeSchemaPair struct {
	Result schema.ReportTypeResult `json:"result"`
	// Severity is low, moderate or high. Empty when the pair was not compared.
	Severity         string   `json:"severity,omitempty"`
	Recommendations  []string `json:"recommendations"`
	ProcessingIssues []string `json:"processing_issues"`
}

// MetadataAnalyzeCatalog describes the analyze_catalog tool.
var MetadataAnalyzeCatalog = &mcp.Tool{
	Name: "analyze_catalog",
	Description: "Run the compatibility analysis over every entry of a report catalog and return the " +
		"per-report results in catalog order, the overall compatibility (mean score of the pairs " +
		"that could be compared), recommendations and processing issues. " +
		"Without catalog_path the built-in three-report catalog over sample-data/ is used. " +
		"With output_dir the report is also written there as a JSON artifact.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"catalog_path": map[string]interface{}{
				"type":        "string",
				"description": "Optional path to a YAML catalog file listing source and entries.",
			},
			"output_dir": map[string]interface{}{
				"type":        "string",
				"description": "Optional directory to write the report artifact into.",
			},
			"workers": map[string]interface{}{
				"type":        "integer",
				"description": "Optional number of pairs analyzed concurrently. Results keep catalog order.",
				"minimum":     0,
			},
		},
	},
}

// InputAnalyzeCatalog is the input for the AnalyzeCatalog tool.
type InputAnalyzeCatalog struct {
	CatalogPath string `json:"catalog_path"`
	OutputDir   string `json:"output_dir"`
	Workers     int    `json:"workers"`
}

// OutputAnalyzeCatalog is the output for the AnalyzeCatalog tool.
type OutputAnalyzeCatalog struct {
	RunID                string                    `json:"run_id"`
	Timestamp            string                    `json:"timestamp"`
	Source               schema.Source             `json:"source"`
	Results              []schema.ReportTypeResult `json:"results"`
	Recommendations      []string                  `json:"recommendations"`
	ProcessingIssues     []string                  `json:"processing_issues"`
	OverallCompatibility float64                   `json:"overall_compatibility"`
	// ReportPath is set when output_dir was given.
	ReportPath string `json:"report_path,omitempty"`
}

// newAnalyzer builds the Analyzer used by the tools.
var newAnalyzer = readers.NewAnalyzer

// AnalyzeSchemaPair compares one candidate file against its template.
func AnalyzeSchemaPair(ctx context.Context, _ *mcp.CallToolRequest, input InputAnalyzeSchemaPair) (*mcp.CallToolResult, OutputAnalyzeSchemaPair, error) {
	switch {
	case input.ReportType == "":
		return nil, OutputAnalyzeSchemaPair{}, fmt.Errorf("report_type is required")
	case input.CandidatePath == "":
		return nil, OutputAnalyzeSchemaPair{}, fmt.Errorf("candidate_path is required")
	case input.TemplatePath == "":
		return nil, OutputAnalyzeSchemaPair{}, fmt.Errorf("template_path is required")
	}

	result := newAnalyzer().AnalyzePair(ctx, schema.Pair{
		ReportType: input.ReportType,
		Candidate:  input.CandidatePath,
		Template:   input.TemplatePath,
	})

	out := OutputAnalyzeSchemaPair{
		Result:           result,
		Recommendations:  []string{},
		ProcessingIssues: schema.ProcessingIssues(result),
	}
	if result.Succeeded() {
		out.Severity = string(schema.Tier(result.Compatibility.CompatibilityScore))
		out.Recommendations = schema.Synthesize(*result.Compatibility, result.ReportType)
	}
	if out.ProcessingIssues == nil {
		out.ProcessingIssues = []string{}
	}
	return nil, out, nil
}

// AnalyzeCatalog runs the analysis over a catalog and optionally persists
// the report.
func AnalyzeCatalog(ctx context.Context, _ *mcp.CallToolRequest, input InputAnalyzeCatalog) (*mcp.CallToolResult, OutputAnalyzeCatalog, error) {
	if input.Workers < 0 {
		return nil, OutputAnalyzeCatalog{}, fmt.Errorf("workers must not be negative")
	}

	cat := catalog.Default(catalog.DefaultOptions())
	if input.CatalogPath != "" {
		loaded, err := catalog.Load(input.CatalogPath)
		if err != nil {
			return nil, OutputAnalyzeCatalog{}, err
		}
		cat = loaded
	}

	analyzer := newAnalyzer()
	analyzer.Workers = input.Workers
	report, err := analyzer.Run(ctx, cat.Source, cat.Pairs())
	if err != nil {
		return nil, OutputAnalyzeCatalog{}, err
	}

	out := OutputAnalyzeCatalog{
		RunID:                report.RunID,
		Timestamp:            report.Timestamp.Format(time.RFC3339),
		Source:               report.Source,
		Results:              report.Results,
		Recommendations:      report.Recommendations,
		ProcessingIssues:     report.ProcessingIssues,
		OverallCompatibility: report.OverallCompatibility,
	}
	if input.OutputDir != "" {
		path, err := schema.WriteReport(input.OutputDir, report)
		if err != nil {
			return nil, OutputAnalyzeCatalog{}, err
		}
		out.ReportPath = path
	}
	return nil, out, nil
}

// NewServer returns an MCP server with every tool registered.
func NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "payrep", Version: version}, nil)
	mcp.AddTool(server, MetadataAnalyzeSchemaPair, AnalyzeSchemaPair)
	mcp.AddTool(server, MetadataAnalyzeCatalog, AnalyzeCatalog)
	return server
}
