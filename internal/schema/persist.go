// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// reportJSONSchema describes the serialized AnalysisReport.
const reportJSONSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["run_id", "timestamp", "source", "analysis_results", "recommendations", "processing_issues", "overall_compatibility"],
  "properties": {
    "run_id": {"type": "string", "minLength": 1},
    "timestamp": {"type": "string", "format": "date-time"},
    "source": {
      "type": "object",
      "required": ["code", "name"],
      "properties": {"code": {"type": "string"}, "name": {"type": "string"}}
    },
    "analysis_results": {
      "type": "object",
      "additionalProperties": {"$ref": "#/definitions/result"}
    },
    "recommendations": {"type": "array", "items": {"type": "string"}},
    "processing_issues": {"type": "array", "items": {"type": "string"}},
    "overall_compatibility": {"type": "number", "minimum": 0, "maximum": 1},
    "import_logs": {
      "type": "object",
      "required": ["total", "success", "failed", "pending"],
      "properties": {
        "total": {"type": "integer", "minimum": 0},
        "success": {"type": "integer", "minimum": 0},
        "failed": {"type": "integer", "minimum": 0},
        "pending": {"type": "integer", "minimum": 0}
      }
    }
  },
  "definitions": {
    "columns": {"type": "array", "items": {"type": "string"}},
    "structure": {
      "type": "object",
      "required": ["path"],
      "properties": {
        "path": {"type": "string"},
        "headers": {"$ref": "#/definitions/columns"},
        "sample_rows": {"type": "array", "maxItems": 5, "items": {"$ref": "#/definitions/columns"}},
        "error": {"type": "string"}
      }
    },
    "result": {
      "type": "object",
      "required": ["report_type", "candidate_structure", "template_structure", "format_risks"],
      "properties": {
        "report_type": {"type": "string"},
        "candidate_structure": {"$ref": "#/definitions/structure"},
        "template_structure": {"$ref": "#/definitions/structure"},
        "compatibility": {
          "type": "object",
          "required": ["matching_headers", "missing_in_candidate", "extra_in_candidate", "compatibility_score", "header_count_match"],
          "properties": {
            "matching_headers": {"$ref": "#/definitions/columns"},
            "missing_in_candidate": {"$ref": "#/definitions/columns"},
            "extra_in_candidate": {"$ref": "#/definitions/columns"},
            "compatibility_score": {"type": "number", "minimum": 0, "maximum": 1},
            "header_count_match": {"type": "boolean"}
          }
        },
        "error": {"type": "string"},
        "format_risks": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["column", "sample_value", "issue"],
            "properties": {
              "column": {"type": "string"},
              "sample_value": {"type": "string"},
              "issue": {"type": "string"}
            }
          }
        }
      }
    }
  }
}`

// ReportValidationError lists the ways a serialized report violates the
// report schema.
type ReportValidationError struct {
	Errors []FieldError
}

// FieldError is a single schema violation at a field path.
type FieldError struct {
	Field   string
	Message string
}

func (e *ReportValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("report validation failed:")
	for i, fe := range e.Errors {
		sb.WriteString(fmt.Sprintf("\n  %d. %s: %s", i+1, fe.Field, fe.Message))
	}
	return sb.String()
}

// ValidateReportJSON checks a serialized AnalysisReport against the report schema.
func ValidateReportJSON(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(reportJSONSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("failed to validate report: %w", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ReportValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ReportFileName returns the artifact name for a report. It combines the
// source code, the report time at second granularity and a prefix of the run
// ID, so two runs in the same second still get distinct names.
func ReportFileName(report *AnalysisReport) string {
	code := unsafeNameChars.ReplaceAllString(report.Source.Code, "_")
	if code == "" {
		code = "unknown"
	}
	runID := report.RunID
	if len(runID) > 8 {
		runID = runID[:8]
	}
	return fmt.Sprintf("tpp_%s_compatibility_analysis_%s_%s.json",
		code, report.Timestamp.Format("20060102_150405"), runID)
}

// WriteReport validates and writes report as indented JSON into dir and
// returns the file path. An existing file is never overwritten.
func WriteReport(dir string, report *AnalysisReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := ValidateReportJSON(data); err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, ReportFileName(report))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close report file: %w", err)
	}
	return path, nil
}
