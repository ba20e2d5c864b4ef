// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"errors"
	"sort"
)

// ErrCannotCompare is returned by Compare when either structure failed to read.
var ErrCannotCompare = errors.New("cannot compare due to file read errors")

// Compare computes the header overlap between a candidate and a template
// structure. Headers are compared by exact string identity: case and
// surrounding whitespace are significant.
//
// The score is the Jaccard index of the two header sets, and 0 when both
// sets are empty. HeaderCountMatch compares raw header counts only and is
// independent of the overlap.
func Compare(candidate, template StructureReport) (*CompatibilityRecord, error) {
	if candidate.Failed() || template.Failed() {
		return nil, ErrCannotCompare
	}

	candidateSet := toSet(candidate.Headers)
	templateSet := toSet(template.Headers)

	matching := make([]string, 0)
	extra := make([]string, 0)
	for h := range candidateSet {
		if _, ok := templateSet[h]; ok {
			matching = append(matching, h)
		} else {
			extra = append(extra, h)
		}
	}
	missing := make([]string, 0)
	for h := range templateSet {
		if _, ok := candidateSet[h]; !ok {
			missing = append(missing, h)
		}
	}
	sort.Strings(matching)
	sort.Strings(missing)
	sort.Strings(extra)

	union := len(matching) + len(missing) + len(extra)
	score := 0.0
	if union > 0 {
		score = float64(len(matching)) / float64(union)
	}

	return &CompatibilityRecord{
		MatchingHeaders:    matching,
		MissingInCandidate: missing,
		ExtraInCandidate:   extra,
		CompatibilityScore: score,
		HeaderCountMatch:   len(candidate.Headers) == len(template.Headers),
	}, nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
