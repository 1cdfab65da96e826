// Package xlsx reads spreadsheet disaster sources through excelize.
package xlsx

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/couchcryptid/globe-suffering-etl/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Reader loads one worksheet of a workbook into a domain.Table.
// It implements pipeline.TableSource.
type Reader struct {
	path   string
	sheet  string
	logger *slog.Logger
}

// NewReader creates a reader for the workbook at path. An empty sheet selects
// the first worksheet.
func NewReader(path, sheet string, logger *slog.Logger) *Reader {
	return &Reader{path: path, sheet: sheet, logger: logger}
}

// ReadTable reads the first row as the header and the rest as data rows.
// Cells are read unformatted so numeric columns keep their stored precision.
func (r *Reader) ReadTable(ctx context.Context) (domain.Table, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open xlsx %s: %w", r.path, err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return domain.Table{}, fmt.Errorf("xlsx %s has no worksheets", r.path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.Table{}, fmt.Errorf("read xlsx sheet %q: %w", sheet, err)
	}
	if err := ctx.Err(); err != nil {
		return domain.Table{}, err
	}

	t := domain.Table{Source: filepath.Clean(r.path)}
	if len(rows) > 0 {
		t.Header = rows[0]
		t.Rows = rows[1:]
	}
	r.logger.Debug("xlsx table read", "source", t.Source, "sheet", sheet, "rows", len(t.Rows))
	return t, nil
}
