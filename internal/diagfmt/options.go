package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Width     int // максимальная ширина строки, 0 - не ограничено
	ShowNotes bool
	ShowCodes bool
	// NoWarnings hides the warnings section; counts still include it.
	NoWarnings bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max          int // обрезка вывода каждого списка, не Bag
	IncludeNotes bool
	Indent       bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}
