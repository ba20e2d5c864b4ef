// SPDX-License-Identifier: Apache-2.0

// Package readers provides the TableReader implementations used to sample
// tabular extracts.
package readers

import "github.com/Tellesy/payrep/internal/schema"

var (
	_ schema.TableReader = (*CSVReader)(nil)
	_ schema.TableReader = (*XLSXReader)(nil)
)

// Default returns all readers in selection order. The workbook reader is
// registered first so that the CSV reader's extension-less fallback never
// claims a workbook.
func Default() []schema.TableReader {
	return []schema.TableReader{
		NewXLSXReader(),
		NewCSVReader(),
	}
}

// NewAnalyzer returns an Analyzer with the default readers registered.
func NewAnalyzer() *schema.Analyzer {
	return schema.NewAnalyzer(Default()...)
}
