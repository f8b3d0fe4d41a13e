package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"schedlint/internal/schedule"
)

type jsonReader struct {
	path string
}

func (r *jsonReader) Read(_ context.Context) ([]schedule.Entry, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, err
	}
	return decodeJSON(data)
}

// cell accepts a JSON string or number; null decodes to "".
type cell string

func (c *cell) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*c = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = cell(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", b)
		}
		*c = cell(n.String())
	}
	return nil
}

// jsonRecord uses the column names of the timetable database. The
// snake_case aliases match schedule.Entry's own encoding.
type jsonRecord struct {
	GroupNumber cell `json:"GroupNumber"`
	Group       cell `json:"group"`
	Date        cell `json:"Date"`
	ClassType   cell `json:"ClassType"`
	ClassType2  cell `json:"class_type"`
	ClassNumber cell `json:"ClassNumber"`
	ClassNum2   cell `json:"class_number"`
	Subject     cell `json:"Subject"`
	Teacher     cell `json:"Teacher"`
	Classroom   cell `json:"Classroom"`
}

func pick(a, b cell) string {
	if a != "" {
		return string(a)
	}
	return string(b)
}

func (r jsonRecord) entry() schedule.Entry {
	return schedule.Entry{
		Group:       pick(r.GroupNumber, r.Group),
		Date:        string(r.Date),
		ClassType:   pick(r.ClassType, r.ClassType2),
		ClassNumber: pick(r.ClassNumber, r.ClassNum2),
		Subject:     string(r.Subject),
		Teacher:     string(r.Teacher),
		Classroom:   string(r.Classroom),
	}
}

func decodeJSON(data []byte) ([]schedule.Entry, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("json: expected an array of entries: %w", err)
	}
	out := make([]schedule.Entry, 0, len(items))
	for i, raw := range items {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}
		switch raw[0] {
		case '{':
			var rec jsonRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return nil, fmt.Errorf("json entry %d: %w", i, err)
			}
			out = append(out, rec.entry())
		case '[':
			var cells []cell
			if err := json.Unmarshal(raw, &cells); err != nil {
				return nil, fmt.Errorf("json entry %d: %w", i, err)
			}
			row := make([]string, len(cells))
			for j := range cells {
				row[j] = string(cells[j])
			}
			e, err := schedule.FromFields(row)
			if err != nil {
				return nil, fmt.Errorf("json entry %d: %w", i, err)
			}
			out = append(out, e)
		default:
			return nil, fmt.Errorf("json entry %d: expected object or array, got %s", i, strconv.Quote(string(raw)))
		}
	}
	return out, nil
}
