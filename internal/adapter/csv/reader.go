package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/globe-suffering-etl/internal/domain"
)

// Reader loads a delimited text file into a domain.Table.
// It implements pipeline.TableSource.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a reader for the CSV file at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// ReadTable reads the header row and every data row. Rows may have a
// different field count than the header; short rows are left to the schema
// projection to reject.
func (r *Reader) ReadTable(ctx context.Context) (domain.Table, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open csv %s: %w", r.path, err)
	}
	defer f.Close()

	t, err := readTable(ctx, f, filepath.Clean(r.path))
	if err != nil {
		return domain.Table{}, err
	}
	r.logger.Debug("csv table read", "source", t.Source, "rows", len(t.Rows))
	return t, nil
}

func readTable(ctx context.Context, src io.Reader, source string) (domain.Table, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.Table{Source: source}, nil
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("read csv header %s: %w", source, err)
	}

	t := domain.Table{Source: source, Header: header}
	for {
		if err := ctx.Err(); err != nil {
			return domain.Table{}, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Table{}, fmt.Errorf("read csv %s: %w", source, err)
		}
		t.Rows = append(t.Rows, record)
	}
	return t, nil
}
