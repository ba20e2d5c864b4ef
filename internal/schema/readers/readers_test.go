// SPDX-License-Identifier: Apache-2.0

package readers_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Tellesy/payrep/internal/schema/readers"
)

// ---------------------------------------------------------------------------
// CSVReader
// ---------------------------------------------------------------------------

func TestCSVReader_CanHandle(t *testing.T) {
	r := readers.NewCSVReader()

	assert.True(t, r.CanHandle("pos_terminal_data_2025-07-18.csv"))
	assert.True(t, r.CanHandle("EXTRACT.CSV"))
	assert.True(t, r.CanHandle("notes.txt"))
	assert.True(t, r.CanHandle("extract"))
	assert.False(t, r.CanHandle("book.xlsx"))
}

func TestCSVReader_ReadSample(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		limit       int
		wantHeaders []string
		wantRows    [][]string
		wantErr     string
	}{
		{
			name:        "header and rows",
			content:     "A,B\n1,2\n3,4\n",
			limit:       5,
			wantHeaders: []string{"A", "B"},
			wantRows:    [][]string{{"1", "2"}, {"3", "4"}},
		},
		{
			name:        "stops at limit",
			content:     "A\n1\n2\n3\n4\n",
			limit:       2,
			wantHeaders: []string{"A"},
			wantRows:    [][]string{{"1"}, {"2"}},
		},
		{
			name:        "header only",
			content:     "A,B",
			limit:       5,
			wantHeaders: []string{"A", "B"},
			wantRows:    [][]string{},
		},
		{
			name:        "headers kept verbatim",
			content:     "Date , amount,\"Card, Type\"\n1,2,3\n",
			limit:       5,
			wantHeaders: []string{"Date ", " amount", "Card, Type"},
			wantRows:    [][]string{{"1", "2", "3"}},
		},
		{
			name:        "ragged rows are tolerated",
			content:     "A,B,C\n1\n1,2,3,4\n",
			limit:       5,
			wantHeaders: []string{"A", "B", "C"},
			wantRows:    [][]string{{"1"}, {"1", "2", "3", "4"}},
		},
		{
			name:    "empty file",
			content: "",
			limit:   5,
			wantErr: "no header row",
		},
	}

	r := readers.NewCSVReader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			headers, rows, err := r.ReadSample(context.Background(), path, tt.limit)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeaders, headers)
			assert.Equal(t, tt.wantRows, rows)
		})
	}
}

func TestCSVReader_ReadSample_MissingFile(t *testing.T) {
	_, _, err := readers.NewCSVReader().ReadSample(context.Background(), filepath.Join(t.TempDir(), "none.csv"), 5)
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// XLSXReader
// ---------------------------------------------------------------------------

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "extract.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestXLSXReader_CanHandle(t *testing.T) {
	r := readers.NewXLSXReader()
	assert.True(t, r.CanHandle("a.xlsx"))
	assert.True(t, r.CanHandle("A.XLSM"))
	assert.False(t, r.CanHandle("a.csv"))
}

func TestXLSXReader_ReadSample(t *testing.T) {
	rows := [][]any{{"Terminal ID", "Install Date"}}
	for i := 0; i < 8; i++ {
		rows = append(rows, []any{fmt.Sprintf("T%d", i), "2025-07-18"})
	}
	path := writeWorkbook(t, rows)

	headers, sample, err := readers.NewXLSXReader().ReadSample(context.Background(), path, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Terminal ID", "Install Date"}, headers)
	require.Len(t, sample, 5)
	assert.Equal(t, []string{"T0", "2025-07-18"}, sample[0])
	assert.Equal(t, []string{"T4", "2025-07-18"}, sample[4])
}

func TestXLSXReader_ReadSample_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, _, err := readers.NewXLSXReader().ReadSample(context.Background(), path, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open workbook")
}

func TestDefault_Order(t *testing.T) {
	var names []string
	for _, r := range readers.Default() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"xlsx", "csv"}, names)
}
