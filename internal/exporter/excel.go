package exporter

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// sheetForTable maps table names to workbook sheet names, mirroring the
// export format the downstream tooling reopens.
var sheetForTable = map[string]string{
	"profiles":         "Profiles",
	"educations":       "Educations",
	"experiences":      "Experiences",
	"club_experiences": "Club Experiences",
	"certifications":   "Certifications",
}

var sheetOrder = []string{"profiles", "educations", "experiences", "club_experiences", "certifications"}

// ExportWorkbook reads the full dataset and writes one workbook with one
// sheet per table. Rows are ordered by profile id, so repeated exports over
// unchanged data are row-equivalent. An empty dataset still produces a valid
// workbook with header rows.
func (e *Exporter) ExportWorkbook(ctx context.Context, path string) error {
	ds, err := e.store.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	tables := tableRows(ds)

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	for i, table := range sheetOrder {
		sheet := sheetForTable[table]
		if i == 0 {
			// Rename the default sheet instead of leaving an empty Sheet1.
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return &ExportError{Path: path, Err: err}
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return &ExportError{Path: path, Err: err}
			}
		}
		for rowIdx, row := range tables[table] {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			if err != nil {
				return &ExportError{Path: path, Err: err}
			}
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return &ExportError{Path: path, Err: err}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return &ExportError{Path: path, Err: err}
	}

	e.logger.Info("workbook exported",
		zap.String("path", path),
		zap.Int("profiles", len(ds.Profiles)))
	return nil
}
