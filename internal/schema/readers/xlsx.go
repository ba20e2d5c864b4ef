// SPDX-License-Identifier: Apache-2.0

package readers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads the first worksheet of an Excel workbook. Rows are pulled
// through excelize's streaming iterator and iteration stops once the sample
// is full.
type XLSXReader struct{}

// NewXLSXReader creates a new XLSXReader.
func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

func (r *XLSXReader) Name() string {
	return "xlsx"
}

func (r *XLSXReader) CanHandle(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

func (r *XLSXReader) ReadSample(ctx context.Context, path string, limit int) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	it, err := f.Rows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	defer it.Close()

	if !it.Next() {
		if err := it.Error(); err != nil {
			return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
		}
		return nil, nil, fmt.Errorf("no header row")
	}
	headers, err := it.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse header: %w", err)
	}

	rows := make([][]string, 0, limit)
	for len(rows) < limit && it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		cols, err := it.Columns()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, cols)
	}
	if err := it.Error(); err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return headers, rows, nil
}
