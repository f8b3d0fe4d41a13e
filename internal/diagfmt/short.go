package diagfmt

import (
	"io"

	"schedlint/internal/diag"
)

// Short writes one line per diagnostic in engine order.
func Short(w io.Writer, r Report, includeNotes bool) error {
	out := diag.FormatShortDiagnostics(r.Diagnostics, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
