package diag

import (
	"fmt"
	"strings"
)

// FormatShortDiagnostics renders diagnostics into a stable,
// single-line-per-entry representation used by the CLI short format and by
// golden tests. Input order is kept.
//
// Line format: <severity> <CODE> <location> <message>
func FormatShortDiagnostics(diags []Diagnostic, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}

	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s %s", severityLabel(d.Severity), d.Code.ID(), d.Location.String(), sanitizeMessage(d.Message))
		if includeNotes {
			for _, note := range d.Notes {
				fmt.Fprintf(&b, "\nnote %s %s %s", d.Code.ID(), d.Location.String(), sanitizeMessage(note.Msg))
			}
		}
	}
	return b.String()
}

// String renders the non-empty location parts as key=value pairs, or "-".
func (l Location) String() string {
	if l.IsZero() {
		return "-"
	}
	parts := make([]string, 0, 4)
	if l.Group != "" {
		parts = append(parts, "group="+l.Group)
	}
	if l.Date != "" {
		parts = append(parts, "date="+l.Date)
	}
	if l.ClassNumber != "" {
		parts = append(parts, "pair="+l.ClassNumber)
	}
	if l.Resource != "" {
		parts = append(parts, "resource="+l.Resource)
	}
	if len(parts) == 0 {
		return "-"
	}
	return sanitizeMessage(strings.Join(parts, ","))
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
