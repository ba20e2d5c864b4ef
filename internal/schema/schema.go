// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"context"
	"time"
)

// SampleRowLimit bounds how many data rows are read after the header.
const SampleRowLimit = 5

// StructureReport describes one tabular file: its header row and a bounded
// sample of data rows. When Error is set the other fields are empty and the
// report cannot be compared.
type StructureReport struct {
	Path       string     `json:"path"`
	Headers    []string   `json:"headers,omitempty"`
	SampleRows [][]string `json:"sample_rows,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Failed reports whether the structure could not be read.
func (s StructureReport) Failed() bool {
	return s.Error != ""
}

// CompatibilityRecord is the result of comparing a candidate structure
// against a template structure. Column sets are sorted for stable output.
type CompatibilityRecord struct {
	MatchingHeaders    []string `json:"matching_headers"`
	MissingInCandidate []string `json:"missing_in_candidate"`
	ExtraInCandidate   []string `json:"extra_in_candidate"`
	CompatibilityScore float64  `json:"compatibility_score"`
	HeaderCountMatch   bool     `json:"header_count_match"`
}

// FormatRiskFinding is one advisory data-format hazard in a candidate file.
type FormatRiskFinding struct {
	Column      string `json:"column"`
	SampleValue string `json:"sample_value"`
	Issue       string `json:"issue"`
}

// ReportTypeResult holds everything computed for one catalog entry.
// Exactly one of Compatibility and Error is set.
type ReportTypeResult struct {
	ReportType         string               `json:"report_type"`
	CandidateStructure StructureReport      `json:"candidate_structure"`
	TemplateStructure  StructureReport      `json:"template_structure"`
	Compatibility      *CompatibilityRecord `json:"compatibility,omitempty"`
	Error              string               `json:"error,omitempty"`
	FormatRisks        []FormatRiskFinding  `json:"format_risks"`
}

// Succeeded reports whether the pair was compared.
func (r ReportTypeResult) Succeeded() bool {
	return r.Compatibility != nil
}

// Source identifies the data provider whose extracts are under test.
type Source struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// ImportLogSummary counts import log entries by status for the configs a
// harness run created.
type ImportLogSummary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Pending int `json:"pending"`
}

// AnalysisReport is the persisted output artifact of one run.
type AnalysisReport struct {
	RunID                string            `json:"run_id"`
	Timestamp            time.Time         `json:"timestamp"`
	Source               Source            `json:"source"`
	Results              Results           `json:"analysis_results"`
	Recommendations      []string          `json:"recommendations"`
	ProcessingIssues     []string          `json:"processing_issues"`
	OverallCompatibility float64           `json:"overall_compatibility"`
	ImportLogs           *ImportLogSummary `json:"import_logs,omitempty"`
}

// TableReader extracts the header row and a bounded sample of data rows from
// one tabular file format.
type TableReader interface {
	CanHandle(path string) bool
	ReadSample(ctx context.Context, path string, limit int) (headers []string, rows [][]string, err error)
	Name() string
}
