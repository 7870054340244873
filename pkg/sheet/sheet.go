// Package sheet reads operation bulletins from spreadsheet files into a
// [bulletin.Grid].
//
// Supported inputs are Excel workbooks (.xlsx, .xlsm), JSON grids (an array
// of arrays of strings and numbers) and CSV files. Legacy binary .xls
// workbooks are rejected with UNSUPPORTED. Blank rows are always dropped, so
// the grid matches what the normalizer expects.
package sheet

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/lineplanner/pkg/bulletin"
	"github.com/matzehuels/lineplanner/pkg/errors"
	"github.com/matzehuels/lineplanner/pkg/line"
)

// Format identifies a grid source format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// FormatOf returns the format implied by a file name.
func FormatOf(name string) (Format, error) {
	if err := errors.ValidateWorkbookFilename(filepath.Base(name)); err != nil {
		return "", err
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	}
	return FormatXLSX, nil
}

// ReadFile reads the grid stored at path.
func ReadFile(path string) (bulletin.Grid, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, format)
}

// Read reads a grid in the given format.
func Read(r io.Reader, format Format) (bulletin.Grid, error) {
	switch format {
	case FormatXLSX:
		return ReadWorkbook(r)
	case FormatJSON:
		return ReadJSON(r)
	case FormatCSV:
		return ReadCSV(r)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported grid format %q", format)
}

// ReadWorkbook reads the first worksheet of an Excel workbook. Cells keep
// their raw text so identifiers such as "1.10" or "007" survive; numeric
// parsing is left to the normalizer.
func ReadWorkbook(r io.Reader) (bulletin.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorkbook, err, "could not open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidWorkbook, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorkbook, err, "read sheet %q", sheets[0])
	}

	grid := make(bulletin.Grid, 0, len(rows))
	for _, row := range rows {
		grid = appendRow(grid, stringCells(row))
	}
	if len(grid) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidWorkbook, "empty spreadsheet")
	}
	return grid, nil
}

// ReadJSON reads a grid encoded as a JSON array of rows.
func ReadJSON(r io.Reader) (bulletin.Grid, error) {
	var raw [][]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorkbook, err, "decode grid")
	}
	grid := make(bulletin.Grid, 0, len(raw))
	for _, row := range raw {
		grid = appendRow(grid, row)
	}
	return grid, nil
}

// ReadCSV reads a comma separated grid. Rows may have different lengths and
// every cell stays a string.
func ReadCSV(r io.Reader) (bulletin.Grid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorkbook, err, "decode csv")
	}
	grid := make(bulletin.Grid, 0, len(records))
	for _, rec := range records {
		grid = appendRow(grid, stringCells(rec))
	}
	return grid, nil
}

// WriteOperations writes operations as a single-sheet workbook with a
// header row the normalizer recognizes.
func WriteOperations(w io.Writer, ops []line.Operation) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Bulletin"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}
	header := []any{"Op No", "Operation Description", "Machine Type", "SMV", "Section"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	for i, op := range ops {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{op.OpNo, op.OpName, op.MachineType, op.SMV, op.Section}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func stringCells(row []string) []any {
	cells := make([]any, len(row))
	for i, c := range row {
		cells[i] = c
	}
	return cells
}

// appendRow appends row unless every cell is blank.
func appendRow(grid bulletin.Grid, row []any) bulletin.Grid {
	for _, c := range row {
		switch v := c.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(v) == "" {
				continue
			}
		}
		return append(grid, row)
	}
	return grid
}
