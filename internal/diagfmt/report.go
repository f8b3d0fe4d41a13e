package diagfmt

import (
	"schedlint/internal/categorize"
	"schedlint/internal/diag"
)

// Report is everything a formatter needs: the raw findings in engine order
// and their split into warnings and conflicts.
type Report struct {
	Source      string
	Policy      string
	Diagnostics []diag.Diagnostic
	categorize.Result
}

// NewReport categorizes diags with p.
func NewReport(source string, diags []diag.Diagnostic, p categorize.Policy) Report {
	if p == nil {
		p = categorize.NewKeywordPolicy()
	}
	return Report{
		Source:      source,
		Policy:      p.Name(),
		Diagnostics: diags,
		Result:      categorize.Categorize(diags, p),
	}
}
