// SPDX-License-Identifier: Apache-2.0

package schema

import "strings"

const dateFormatIssue = "Date format should be validated"

// DetectFormatRisks flags candidate columns whose name contains "date"
// (case-insensitive) so their values can be checked by hand. The finding
// carries the first sample row's value at that column's position; columns
// are only flagged when that value exists.
//
// This is a substring heuristic. Names such as "Update" or "Mandate" are
// flagged too.
func DetectFormatRisks(candidate StructureReport) []FormatRiskFinding {
	findings := make([]FormatRiskFinding, 0)
	if candidate.Failed() || len(candidate.SampleRows) == 0 {
		return findings
	}

	first := candidate.SampleRows[0]
	for i, header := range candidate.Headers {
		if !strings.Contains(strings.ToLower(header), "date") {
			continue
		}
		if i >= len(first) {
			continue
		}
		findings = append(findings, FormatRiskFinding{
			Column:      header,
			SampleValue: first[i],
			Issue:       dateFormatIssue,
		})
	}
	return findings
}
