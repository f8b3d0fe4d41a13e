package diagfmt

import (
	"encoding/json"
	"io"

	"schedlint/internal/diag"
)

// LocationJSON points at the part of the timetable a diagnostic is about.
type LocationJSON struct {
	Group       string `json:"group,omitempty"`
	Date        string `json:"date,omitempty"`
	ClassNumber string `json:"class_number,omitempty"`
	Resource    string `json:"resource,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Category string        `json:"category"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
	Notes    []string      `json:"notes,omitempty"`
}

// CountsJSON holds full bucket sizes, before any truncation.
type CountsJSON struct {
	Warnings  int `json:"warnings"`
	Conflicts int `json:"conflicts"`
	Total     int `json:"total"`
}

// ReportOutput is the root of the JSON output.
type ReportOutput struct {
	Source    string           `json:"source,omitempty"`
	Policy    string           `json:"policy"`
	Warnings  []DiagnosticJSON `json:"warnings"`
	Conflicts []DiagnosticJSON `json:"conflicts"`
	Counts    CountsJSON       `json:"counts"`
	Truncated bool             `json:"truncated,omitempty"`
}

func makeDiagnostic(d diag.Diagnostic, cat diag.Category, opts JSONOpts) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Category: cat.String(),
		Message:  d.Message,
	}
	if !d.Location.IsZero() {
		out.Location = &LocationJSON{
			Group:       d.Location.Group,
			Date:        d.Location.Date,
			ClassNumber: d.Location.ClassNumber,
			Resource:    d.Location.Resource,
		}
	}
	if opts.IncludeNotes && len(d.Notes) > 0 {
		out.Notes = make([]string, len(d.Notes))
		for i, n := range d.Notes {
			out.Notes[i] = n.Msg
		}
	}
	return out
}

func makeList(items []diag.Diagnostic, cat diag.Category, opts JSONOpts) ([]DiagnosticJSON, bool) {
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := make([]DiagnosticJSON, 0, n)
	for _, d := range items[:n] {
		out = append(out, makeDiagnostic(d, cat, opts))
	}
	return out, n < len(items)
}

// BuildReportOutput формирует структуру JSON-вывода без сериализации.
func BuildReportOutput(r Report, opts JSONOpts) ReportOutput {
	warnings, wt := makeList(r.Warnings, diag.CategoryWarning, opts)
	conflicts, ct := makeList(r.Conflicts, diag.CategoryConflict, opts)
	return ReportOutput{
		Source:    r.Source,
		Policy:    r.Policy,
		Warnings:  warnings,
		Conflicts: conflicts,
		Counts: CountsJSON{
			Warnings:  len(r.Warnings),
			Conflicts: len(r.Conflicts),
			Total:     r.Len(),
		},
		Truncated: wt || ct,
	}
}

// JSON форматирует отчёт в JSON.
func JSON(w io.Writer, r Report, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	if opts.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(BuildReportOutput(r, opts))
}
