// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

// Pair names one report type and the candidate/template files compared for it.
type Pair struct {
	ReportType string
	Candidate  string
	Template   string
}

// Analyzer reads structures, compares them and folds the per-pair results
// into an AnalysisReport.
type Analyzer struct {
	readers []TableReader

	// Workers bounds how many pairs are analyzed at once. Values below 2
	// analyze pairs sequentially in catalog order.
	Workers int
	// Logger receives progress lines. Nil means log.Default().
	Logger *log.Logger

	now func() time.Time
}

// NewAnalyzer creates an Analyzer with the provided readers. Reader order
// matters: the first reader that can handle a path is used.
func NewAnalyzer(readers ...TableReader) *Analyzer {
	return &Analyzer{
		readers: readers,
		now:     time.Now,
	}
}

// RegisteredReaders returns the names of all registered readers.
func (a *Analyzer) RegisteredReaders() []string {
	names := make([]string, len(a.readers))
	for i, r := range a.readers {
		names[i] = r.Name()
	}
	return names
}

// ReadStructure reads the header row and up to SampleRowLimit data rows of
// path. Failures are reported in the returned StructureReport's Error field.
func (a *Analyzer) ReadStructure(ctx context.Context, path string) StructureReport {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StructureReport{Path: path, Error: fmt.Sprintf("file not found: %s", path)}
		}
		return StructureReport{Path: path, Error: fmt.Sprintf("read error: %v", err)}
	}
	if info.IsDir() {
		return StructureReport{Path: path, Error: fmt.Sprintf("read error: %s is a directory", path)}
	}

	reader, err := a.selectReader(path)
	if err != nil {
		return StructureReport{Path: path, Error: fmt.Sprintf("read error: %v", err)}
	}

	headers, rows, err := reader.ReadSample(ctx, path, SampleRowLimit)
	if err != nil {
		return StructureReport{Path: path, Error: fmt.Sprintf("read error: %v", err)}
	}
	return StructureReport{Path: path, Headers: headers, SampleRows: rows}
}

// AnalyzePair reads both files of a pair, compares them and scans the
// candidate for format risks.
func (a *Analyzer) AnalyzePair(ctx context.Context, pair Pair) ReportTypeResult {
	result := ReportTypeResult{
		ReportType:         pair.ReportType,
		CandidateStructure: a.ReadStructure(ctx, pair.Candidate),
		TemplateStructure:  a.ReadStructure(ctx, pair.Template),
		FormatRisks:        []FormatRiskFinding{},
	}

	record, err := Compare(result.CandidateStructure, result.TemplateStructure)
	if err != nil {
		result.Error = err.Error()
		a.logger().Printf("[Analyzer] %s: %v", pair.ReportType, err)
		return result
	}
	result.Compatibility = record
	result.FormatRisks = DetectFormatRisks(result.CandidateStructure)

	a.logger().Printf("[Analyzer] %s: score %s (%d matching, %d missing, %d extra)",
		pair.ReportType, formatPercent(record.CompatibilityScore),
		len(record.MatchingHeaders), len(record.MissingInCandidate), len(record.ExtraInCandidate))
	return result
}

// Run analyzes every pair and assembles the report. A pair that fails to read
// or compare is recorded as a processing issue and left out of the overall
// score; it never stops the run. An error is returned only when ctx ends
// before all pairs are analyzed.
func (a *Analyzer) Run(ctx context.Context, source Source, pairs []Pair) (*AnalysisReport, error) {
	results := make(Results, len(pairs))

	if a.Workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.Workers)
		for i, pair := range pairs {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = a.AnalyzePair(gctx, pair)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("analysis interrupted: %w", err)
		}
	} else {
		for i, pair := range pairs {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("analysis interrupted: %w", err)
			}
			results[i] = a.AnalyzePair(ctx, pair)
		}
	}

	return a.Fold(source, results), nil
}

// Fold reduces per-pair results, in order, into an AnalysisReport.
func (a *Analyzer) Fold(source Source, results Results) *AnalysisReport {
	report := &AnalysisReport{
		RunID:                uuid.NewString(),
		Timestamp:            a.clock(),
		Source:               source,
		Results:              results,
		Recommendations:      []string{},
		ProcessingIssues:     []string{},
		OverallCompatibility: OverallCompatibility(results),
	}
	for _, r := range results {
		if r.Succeeded() {
			report.Recommendations = append(report.Recommendations, Synthesize(*r.Compatibility, r.ReportType)...)
		}
		report.ProcessingIssues = append(report.ProcessingIssues, ProcessingIssues(r)...)
	}
	return report
}

// OverallCompatibility is the mean score of the results that were compared,
// or 0 when none were.
func OverallCompatibility(results Results) float64 {
	var scores stats.Float64Data
	for _, r := range results {
		if r.Succeeded() {
			scores = append(scores, r.Compatibility.CompatibilityScore)
		}
	}
	if len(scores) == 0 {
		return 0
	}
	mean, err := stats.Mean(scores)
	if err != nil {
		return 0
	}
	return mean
}

// selectReader returns the first registered reader that can handle path.
func (a *Analyzer) selectReader(path string) (TableReader, error) {
	for _, r := range a.readers {
		if r.CanHandle(path) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("unsupported file format: no reader found for %q", path)
}

func (a *Analyzer) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

func (a *Analyzer) logger() *log.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return log.Default()
}
