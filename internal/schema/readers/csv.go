// SPDX-License-Identifier: Apache-2.0

package readers

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CSVReader reads comma-separated extracts. Only the header and the requested
// number of data rows are consumed, so memory use does not grow with file size.
// Cells are returned exactly as written: no trimming or case folding.
type CSVReader struct{}

// NewCSVReader creates a new CSVReader.
func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

func (r *CSVReader) Name() string {
	return "csv"
}

// CanHandle returns true for .csv and .txt files and for files without an
// extension.
func (r *CSVReader) CanHandle(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", "":
		return true
	}
	return false
}

func (r *CSVReader) ReadSample(ctx context.Context, path string, limit int) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	cr := csv.NewReader(bufio.NewReader(f))
	// Rows may be ragged; the sample is reported as found.
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	headers, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("no header row")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse header: %w", err)
	}

	rows := make([][]string, 0, limit)
	for len(rows) < limit {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}
	return headers, rows, nil
}
