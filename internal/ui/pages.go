package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"schedlint/internal/diag"
	"schedlint/internal/schedule"
)

// PageKind enumerates the viewer pages.
type PageKind uint8

const (
	PageConflicts PageKind = iota
	PageWarnings
	PageSchedule
)

// PageKinds lists the pages in tab order.
var PageKinds = []PageKind{PageConflicts, PageWarnings, PageSchedule}

func (k PageKind) String() string {
	switch k {
	case PageConflicts:
		return "conflicts"
	case PageWarnings:
		return "warnings"
	case PageSchedule:
		return "schedule"
	}
	return "unknown"
}

// ParsePageKind converts a page name to its kind.
func ParsePageKind(s string) (PageKind, error) {
	for _, k := range PageKinds {
		if strings.EqualFold(strings.TrimSpace(s), k.String()) {
			return k, nil
		}
	}
	return PageConflicts, fmt.Errorf("unknown page %q (expected conflicts|warnings|schedule)", s)
}

// Data is what the viewer shows.
type Data struct {
	Title     string
	Warnings  []diag.Diagnostic
	Conflicts []diag.Diagnostic
	Entries   []schedule.Entry
}

type page interface {
	Kind() PageKind
	Label() string
	Render(width int) string
}

// newPage is the only place pages are constructed.
func newPage(kind PageKind, data Data) page {
	switch kind {
	case PageConflicts:
		return &diagnosticsPage{kind: kind, title: "Conflicts", empty: "no conflicts", items: data.Conflicts}
	case PageWarnings:
		return &diagnosticsPage{kind: kind, title: "Warnings", empty: "no warnings", items: data.Warnings}
	case PageSchedule:
		return &schedulePage{days: schedule.ByDay(data.Entries), total: len(data.Entries)}
	}
	panic(fmt.Sprintf("ui: unknown page kind %d", kind))
}

var (
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
	dayStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	emptyStyle = lipgloss.NewStyle().Italic(true).Faint(true)
)

func severityStyle(sev diag.Severity) lipgloss.Style {
	switch sev {
	case diag.SevError:
		return errStyle
	case diag.SevWarning:
		return warnStyle
	}
	return infoStyle
}

type diagnosticsPage struct {
	kind  PageKind
	title string
	empty string
	items []diag.Diagnostic
}

func (p *diagnosticsPage) Kind() PageKind { return p.kind }

func (p *diagnosticsPage) Label() string {
	return fmt.Sprintf("%s (%d)", p.title, len(p.items))
}

func (p *diagnosticsPage) Render(width int) string {
	if len(p.items) == 0 {
		return emptyStyle.Render(p.empty)
	}
	body := lipgloss.NewStyle().PaddingLeft(2).Width(max(width, 20))
	var b strings.Builder
	for i, d := range p.items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s\n", severityStyle(d.Severity).Render(d.Severity.String()), dimStyle.Render(d.Code.ID()))
		b.WriteString(body.Render(d.Message))
		b.WriteByte('\n')
		if !d.Location.IsZero() {
			b.WriteString(body.Render(dimStyle.Render("at " + d.Location.String())))
			b.WriteByte('\n')
		}
		for _, n := range d.Notes {
			b.WriteString(body.Render(dimStyle.Render("note: " + n.Msg)))
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

type schedulePage struct {
	days  []schedule.Day
	total int
}

func (p *schedulePage) Kind() PageKind { return PageSchedule }

func (p *schedulePage) Label() string {
	return fmt.Sprintf("Schedule (%d)", p.total)
}

// column widths: pair, group, type, classroom are fixed; subject and
// teacher share the rest.
const (
	colPair  = 4
	colGroup = 10
	colType  = 10
	colRoom  = 10
	colGap   = 2
)

// RenderSchedule renders entries grouped by day, as the schedule page does.
func RenderSchedule(entries []schedule.Entry, width int) string {
	return newPage(PageSchedule, Data{Entries: entries}).Render(width)
}

func cell(s string, w int) string {
	return runewidth.FillRight(truncate(s, w), w)
}

func (p *schedulePage) Render(width int) string {
	if p.total == 0 {
		return emptyStyle.Render("no schedule loaded")
	}
	rest := width - colPair - colGroup - colType - colRoom - 5*colGap
	subj := max(rest/2, 8)
	teacher := max(rest-subj, 8)
	gap := strings.Repeat(" ", colGap)

	row := func(pair, group, typ, subject, teach, room string) string {
		return strings.TrimRight(strings.Join([]string{
			cell(pair, colPair), cell(group, colGroup), cell(typ, colType),
			cell(subject, subj), cell(teach, teacher), cell(room, colRoom),
		}, gap), " ")
	}

	var b strings.Builder
	for i, day := range p.days {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(dayStyle.Render(day.Key))
		b.WriteByte('\n')
		b.WriteString(dimStyle.Render(row("#", "group", "type", "subject", "teacher", "room")))
		b.WriteByte('\n')
		for _, e := range day.Entries {
			b.WriteString(row(e.ClassNumber, e.Group, e.ClassType, e.Subject, e.Teacher, e.Classroom))
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
