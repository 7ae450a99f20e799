package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ExportCSV reads the full dataset and writes one CSV file per table into
// dir, creating it if needed.
func (e *Exporter) ExportCSV(ctx context.Context, dir string) error {
	ds, err := e.store.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	tables := tableRows(ds)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ExportError{Path: dir, Err: err}
	}

	for _, table := range sheetOrder {
		path := filepath.Join(dir, table+".csv")
		if err := writeCSV(path, tables[table]); err != nil {
			return err
		}
	}

	e.logger.Info("csv export written",
		zap.String("dir", dir),
		zap.Int("profiles", len(ds.Profiles)))
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}
