package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"schedlint/internal/schedule"
)

type csvReader struct {
	path string
}

func (r *csvReader) Read(ctx context.Context) ([]schedule.Entry, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(ctx, f)
}

func readCSV(ctx context.Context, in io.Reader) ([]schedule.Entry, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = schedule.NumColumns
	cr.ReuseRecord = false

	var out []schedule.Entry
	for line := 1; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		e, err := schedule.FromFields(rec)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// headerNames are the accepted spellings of header cells, folded to lower case.
var headerNames = [schedule.NumColumns][]string{
	{"groupnumber", "group", "группа"},
	{"date", "дата"},
	{"classtype", "class_type", "type", "тип"},
	{"classnumber", "class_number", "pair", "пара"},
	{"subject", "предмет"},
	{"teacher", "преподаватель"},
	{"classroom", "room", "аудитория"},
}

// isHeader reports whether every cell of row names its column.
func isHeader(row []string) bool {
	if len(row) != schedule.NumColumns {
		return false
	}
	for i, cell := range row {
		cell = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
		ok := false
		for _, name := range headerNames[i] {
			if cell == name {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}
