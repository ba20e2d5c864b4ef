// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"strings"
)

// Severity is the compatibility tier a score falls into.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// severityTier maps a lower score bound to a tier and its guidance.
type severityTier struct {
	minScore float64
	severity Severity
	label    string
	guidance string
}

// severityTiers is evaluated in order; the first tier whose lower bound the
// score reaches wins. Bounds are inclusive.
var severityTiers = []severityTier{
	{minScore: 0.90, severity: SeverityHigh, label: "High compatibility", guidance: "minimal changes required"},
	{minScore: 0.70, severity: SeverityModerate, label: "Moderate compatibility", guidance: "minor adjustments needed"},
	{minScore: 0, severity: SeverityLow, label: "Low compatibility", guidance: "requires significant schema changes"},
}

func tierFor(score float64) severityTier {
	for _, t := range severityTiers {
		if score >= t.minScore {
			return t
		}
	}
	return severityTiers[len(severityTiers)-1]
}

// Tier returns the severity band for a compatibility score.
func Tier(score float64) Severity {
	return tierFor(score).severity
}

// Synthesize turns a compatibility record into remediation guidance: one
// severity line, followed by an "add missing columns" line when the candidate
// lacks template columns.
func Synthesize(record CompatibilityRecord, reportType string) []string {
	t := tierFor(record.CompatibilityScore)
	recs := []string{
		fmt.Sprintf("%s: %s (%s) - %s", reportType, t.label, formatPercent(record.CompatibilityScore), t.guidance),
	}
	if len(record.MissingInCandidate) > 0 {
		recs = append(recs, fmt.Sprintf("%s: Add missing columns: %s", reportType, strings.Join(record.MissingInCandidate, ", ")))
	}
	return recs
}

// ProcessingIssues lists the conditions in a result that will cause or risk a
// downstream processing failure.
func ProcessingIssues(result ReportTypeResult) []string {
	var issues []string

	if !result.Succeeded() {
		for _, s := range []StructureReport{result.CandidateStructure, result.TemplateStructure} {
			if s.Failed() {
				issues = append(issues, fmt.Sprintf("%s: File structure error - %s", result.ReportType, s.Error))
			}
		}
		if len(issues) == 0 {
			issues = append(issues, fmt.Sprintf("%s: File structure error - %s", result.ReportType, result.Error))
		}
		return issues
	}

	if missing := result.Compatibility.MissingInCandidate; len(missing) > 0 {
		issues = append(issues, fmt.Sprintf("%s: Processing will fail due to missing required columns: %s",
			result.ReportType, strings.Join(missing, ", ")))
	}
	for _, f := range result.FormatRisks {
		issues = append(issues, fmt.Sprintf("%s: %s in column '%s' (sample: %s)",
			result.ReportType, f.Issue, f.Column, f.SampleValue))
	}
	return issues
}

func formatPercent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}
