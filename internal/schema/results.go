// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"bytes"
	"encoding/json"
)

// Results is the per-report-type mapping of a report. It is kept as a slice
// so that catalog order survives serialization: it marshals to a JSON object
// keyed by report type with keys in insertion order.
type Results []ReportTypeResult

// Get returns the result for reportType, if present.
func (rs Results) Get(reportType string) (ReportTypeResult, bool) {
	for _, r := range rs {
		if r.ReportType == reportType {
			return r, true
		}
	}
	return ReportTypeResult{}, false
}

// MarshalJSON writes the results as an ordered JSON object.
func (rs Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range rs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.ReportType)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an ordered JSON object back into results, keeping the
// key order of the document.
func (rs *Results) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	var out Results
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		var r ReportTypeResult
		if err := dec.Decode(&r); err != nil {
			return err
		}
		if key, ok := tok.(string); ok && r.ReportType == "" {
			r.ReportType = key
		}
		out = append(out, r)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*rs = out
	return nil
}
