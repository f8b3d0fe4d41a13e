package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"schedlint/internal/diag"
)

type palette struct {
	err, warn, info, note, header, dim *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		note:   color.New(color.FgBlue),
		header: color.New(color.Bold, color.Underline),
		dim:    color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.header, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует отчёт в человекочитаемый вид: сначала конфликты,
// затем предупреждения, в конце итоговая строка.
//
//	<SEV> <CODE>: <message>
//	    at group=..,date=..
//	    note: ...
func Pretty(w io.Writer, r Report, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var b strings.Builder

	section := func(title string, items []diag.Diagnostic) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s\n", p.header.Sprintf("%s (%d)", title, len(items)))
		for _, d := range items {
			writePretty(&b, p, d, opts)
		}
		b.WriteByte('\n')
	}

	section("Conflicts", r.Conflicts)
	if !opts.NoWarnings {
		section("Warnings", r.Warnings)
	}
	b.WriteString(summary(r))
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func writePretty(b *strings.Builder, p palette, d diag.Diagnostic, opts PrettyOpts) {
	label := d.Severity.String()
	if opts.ShowCodes {
		label += " " + d.Code.ID()
	}
	head := label + ": "
	msg := d.Message
	if opts.Width > 0 {
		msg = runewidth.Truncate(msg, max(opts.Width-runewidth.StringWidth(head), 8), "…")
	}
	fmt.Fprintf(b, "%s%s\n", p.severity(d.Severity).Sprint(head), msg)
	if !d.Location.IsZero() {
		fmt.Fprintf(b, "    %s\n", p.dim.Sprint("at "+d.Location.String()))
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(b, "    %s %s\n", p.note.Sprint("note:"), n.Msg)
		}
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func summary(r Report) string {
	if r.Len() == 0 {
		return "no problems found"
	}
	return plural(len(r.Conflicts), "conflict", "conflicts") + ", " + plural(len(r.Warnings), "warning", "warnings")
}
