// Package jsonfile writes the derived documents as JSON files into an output
// directory that the globe front end serves statically.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/globe-suffering-etl/internal/domain"
)

// Writer persists documents under a directory.
// It implements pipeline.DocumentLoader.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a writer rooted at dir. The directory is created on first write.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// LoadDocuments encodes every document before touching the filesystem, then
// replaces each file atomically. A failed run leaves earlier files intact.
func (w *Writer) LoadDocuments(ctx context.Context, docs domain.Documents) error {
	entries := docs.Entries()
	encoded := make([][]byte, len(entries))
	for i, e := range entries {
		data, err := json.MarshalIndent(e.Body, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.Name, err)
		}
		encoded[i] = data
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeAtomic(filepath.Join(w.dir, e.Name), encoded[i]); err != nil {
			return err
		}
		w.logger.Info("document written", "document", e.Name, "records", e.Records, "bytes", len(encoded[i]))
	}
	return nil
}

// Path returns the file a document is written to.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name)
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
