package source

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"schedlint/internal/schedule"
)

type xlsxReader struct {
	path  string
	sheet string
}

func (r *xlsxReader) Read(ctx context.Context) (entries []schedule.Entry, err error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx: workbook has no sheets")
	}
	sheet := sheets[0]
	if r.sheet != "" {
		if !slices.Contains(sheets, r.sheet) {
			return nil, fmt.Errorf("xlsx: sheet %q not found (have %s)", r.sheet, strings.Join(sheets, ", "))
		}
		sheet = r.sheet
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rowsToEntries(rows, sheet)
}

// rowsToEntries pads short rows (excelize drops trailing empty cells) and
// skips blank rows. Extra non-empty cells are an error.
func rowsToEntries(rows [][]string, sheet string) ([]schedule.Entry, error) {
	var out []schedule.Entry
	for i, row := range rows {
		if blank(row) {
			continue
		}
		if i == 0 && isHeader(pad(row)) {
			continue
		}
		if len(row) > schedule.NumColumns {
			if !blank(row[schedule.NumColumns:]) {
				return nil, fmt.Errorf("xlsx %s row %d: expected %d columns, got %d", sheet, i+1, schedule.NumColumns, len(row))
			}
			row = row[:schedule.NumColumns]
		}
		e, err := schedule.FromFields(pad(row))
		if err != nil {
			return nil, fmt.Errorf("xlsx %s row %d: %w", sheet, i+1, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func pad(row []string) []string {
	if len(row) >= schedule.NumColumns {
		return row
	}
	out := make([]string, schedule.NumColumns)
	copy(out, row)
	return out
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
