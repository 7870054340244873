package sheet

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/lineplanner/pkg/bulletin"
	"github.com/matzehuels/lineplanner/pkg/errors"
	"github.com/matzehuels/lineplanner/pkg/line"
)

func writeWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadWorkbook(t *testing.T) {
	data := writeWorkbook(t, [][]any{
		{"Operation Bulletin"},
		{},
		{"SL #", "Operation Description", "Machine", "SMV"},
		{1, "Join shoulder", "SNLS", 0.6},
		{"", "Collar", "", ""},
		{2, "Run collar", "SNLS", "0.45"},
	})

	grid, err := ReadWorkbook(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, grid, 5, "blank row should be dropped")
	require.Equal(t, "1", grid[2][0])
	require.Equal(t, "Join shoulder", grid[2][1])

	ops, err := bulletin.Normalize(grid)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	require.Equal(t, "1", ops[0].OpNo)
	require.Equal(t, 0.6, ops[0].SMV)
	require.Equal(t, "Collar", ops[1].Section)
}

func TestReadWorkbookInvalid(t *testing.T) {
	_, err := ReadWorkbook(strings.NewReader("not a zip"))
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidWorkbook))
}

func TestWriteOperationsRoundTrip(t *testing.T) {
	ops := []line.Operation{
		{OpNo: "S-1", OpName: "Sew small sleeve placket", MachineType: "SNLS", SMV: 0.53, Section: "Sleeve"},
		{OpNo: "S-6", OpName: "Bartack X2", MachineType: "Bartack M/C", SMV: 0.4, Section: "Sleeve"},
		{OpNo: "A-1", OpName: "Join shoulder", MachineType: "SNLS", SMV: 0.6, Section: "Assembly"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteOperations(&buf, ops))

	grid, err := ReadWorkbook(&buf)
	require.NoError(t, err)
	got, err := bulletin.Normalize(grid)
	require.NoError(t, err)
	require.Equal(t, ops, got)
}

func TestReadJSON(t *testing.T) {
	grid, err := ReadJSON(strings.NewReader(`[
		["SL #", "Operation Description", "Machine", "SMV"],
		["", "", "", ""],
		[1, "Join shoulder", "SNLS", 0.6]
	]`))
	require.NoError(t, err)
	require.Len(t, grid, 2)
	require.Equal(t, 0.6, grid[1][3])
}

func TestReadCSV(t *testing.T) {
	grid, err := ReadCSV(strings.NewReader("SL #,Operation Description,Machine,SMV\n,,,\n1,Join shoulder,SNLS,0.6\nSub Total\n"))
	require.NoError(t, err)
	require.Len(t, grid, 3)
	require.Equal(t, "1", grid[1][0])
	require.Equal(t, "Sub Total", grid[2][0])
}

func TestOperationCodesKeepText(t *testing.T) {
	csvData := "SL #,Operation Description,Machine,SMV\n1.1,Run collar,SNLS,0.45\n1.10,Trim collar,SNEC,0.3\n007,Turn collar,Turning M/C,0.25\n"
	grid, err := ReadCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	ops, err := bulletin.Normalize(grid)
	require.NoError(t, err)
	require.Len(t, ops, 3)
	require.Equal(t, []string{"1.1", "1.10", "007"}, []string{ops[0].OpNo, ops[1].OpNo, ops[2].OpNo})
	require.Equal(t, 0.45, ops[0].SMV)

	data := writeWorkbook(t, [][]any{
		{"SL #", "Operation Description", "Machine", "SMV"},
		{"1.10", "Trim collar", "SNEC", 0.3},
		{"007", "Turn collar", "Turning M/C", "0.25"},
	})
	grid, err = ReadWorkbook(bytes.NewReader(data))
	require.NoError(t, err)
	ops, err = bulletin.Normalize(grid)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	require.Equal(t, "1.10", ops[0].OpNo)
	require.Equal(t, "007", ops[1].OpNo)
	require.Equal(t, 0.3, ops[0].SMV)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grid.json")
	require.NoError(t, os.WriteFile(path, []byte(`[["Code","Machine"],["C-1","SNLS"]]`), 0o644))

	grid, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, grid, 2)

	_, err = ReadFile(filepath.Join(dir, "missing.xlsx"))
	require.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	_, err = ReadFile(filepath.Join(dir, "legacy.xls"))
	require.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"bulletin.xlsx", FormatXLSX, false},
		{"bulletin.XLSM", FormatXLSX, false},
		{"dir/grid.json", FormatJSON, false},
		{"grid.csv", FormatCSV, false},
		{"old.xls", "", true},
		{"notes.txt", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatOf(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
