// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Tellesy/payrep/internal/schema"
)

// printSummary writes the operator-facing narration of a report.
func printSummary(w io.Writer, report *schema.AnalysisReport, path string) {
	title := fmt.Sprintf("Compatibility analysis for %s (%s)", report.Source.Code, report.Source.Name)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))

	for _, r := range report.Results {
		fmt.Fprintf(w, "\n%s\n", r.ReportType)
		if !r.Succeeded() {
			fmt.Fprintf(w, "  Error: %s\n", r.Error)
			continue
		}
		c := r.Compatibility
		fmt.Fprintf(w, "  Compatibility: %s (%s)\n", percent(c.CompatibilityScore), schema.Tier(c.CompatibilityScore))
		fmt.Fprintf(w, "  Matching columns: %s\n", columnList(c.MatchingHeaders))
		fmt.Fprintf(w, "  Missing in candidate: %s\n", columnList(c.MissingInCandidate))
		fmt.Fprintf(w, "  Extra in candidate: %s\n", columnList(c.ExtraInCandidate))
	}

	fmt.Fprintf(w, "\nOverall compatibility: %s\n", percent(report.OverallCompatibility))

	if len(report.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}

	fmt.Fprintln(w, "\nProcessing issues:")
	if len(report.ProcessingIssues) == 0 {
		fmt.Fprintln(w, "  No critical processing issues detected")
	}
	for _, issue := range report.ProcessingIssues {
		fmt.Fprintf(w, "  - %s\n", issue)
	}

	if s := report.ImportLogs; s != nil {
		fmt.Fprintf(w, "\nImport logs: %d total, %d success, %d failed, %d pending\n", s.Total, s.Success, s.Failed, s.Pending)
	}

	if path != "" {
		fmt.Fprintf(w, "\nReport saved to: %s\n", path)
	}
}

func percent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

func columnList(cols []string) string {
	if len(cols) == 0 {
		return "(none)"
	}
	return strings.Join(cols, ", ")
}
