package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"schedlint/internal/diag"
	"schedlint/internal/pipeline"
	"schedlint/internal/schedule"
)

func sampleData() Data {
	return Data{
		Title: "week.csv",
		Warnings: []diag.Diagnostic{
			diag.New(diag.SevWarning, diag.AnlEveningPairs, diag.Location{}, "evening sessions (5, 6 or 7) found for groups: 101 on dates: 2024-09-02").WithNote("1 evening sessions"),
		},
		Conflicts: []diag.Diagnostic{
			diag.New(diag.SevError, diag.AnlTeacherOverlap, diag.Location{Date: "2024-09-02", ClassNumber: "3", Resource: "Ivanov"}, "teacher overlap: 'Ivanov' on 2024-09-02 at pair 3 for groups: 101, 102"),
		},
		Entries: []schedule.Entry{
			{Group: "102", Date: "03.09.2024", ClassType: "lab", ClassNumber: "2", Subject: "chemistry", Teacher: "Petrov", Classroom: "305"},
			{Group: "101", Date: "2024-09-02", ClassType: "lecture", ClassNumber: "3", Subject: "math", Teacher: "Ivanov", Classroom: "201"},
			{Group: "101", Date: "2024-09-02", ClassType: "lecture", ClassNumber: "1", Subject: "physics", Teacher: "Sidorov", Classroom: "202"},
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewPage_EveryKind(t *testing.T) {
	data := sampleData()
	for _, k := range PageKinds {
		p := newPage(k, data)
		if p.Kind() != k {
			t.Fatalf("newPage(%s) returned %s", k, p.Kind())
		}
	}
	defer func() {
		if recover() == nil {
			t.Fatal("unknown page kind must panic")
		}
	}()
	newPage(PageKind(42), data)
}

func TestParsePageKind(t *testing.T) {
	k, err := ParsePageKind(" Schedule ")
	if err != nil || k != PageSchedule {
		t.Fatalf("got %s, %v", k, err)
	}
	if _, err := ParsePageKind("timeline"); err == nil {
		t.Fatal("expected error")
	}
}

func TestViewer_Navigation(t *testing.T) {
	v := NewViewer(sampleData(), PageConflicts)
	steps := []struct {
		key  string
		want PageKind
	}{
		{"tab", PageWarnings},
		{"tab", PageSchedule},
		{"tab", PageConflicts},
		{"shift+tab", PageSchedule},
		{"2", PageWarnings},
		{"1", PageConflicts},
		{"3", PageSchedule},
	}
	for i, s := range steps {
		v.Update(key(s.key))
		if v.Active() != s.want {
			t.Fatalf("step %d (%s): active %s, want %s", i, s.key, v.Active(), s.want)
		}
	}
}

func TestViewer_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		v := NewViewer(sampleData(), PageWarnings)
		_, cmd := v.Update(key(k))
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: expected tea.QuitMsg", k)
		}
	}
}

func TestViewer_View(t *testing.T) {
	v := NewViewer(sampleData(), PageConflicts)
	v.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	out := v.View()
	for _, want := range []string{"week.csv", "Conflicts (1)", "Warnings (1)", "Schedule (3)", "teacher overlap: 'Ivanov'", "ANL3004"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in view:\n%s", want, out)
		}
	}

	v.Update(key("2"))
	if out := v.View(); !strings.Contains(out, "note: 1 evening sessions") {
		t.Fatalf("warnings page must show notes:\n%s", out)
	}
}

func TestSchedulePage_GroupsByDay(t *testing.T) {
	out := newPage(PageSchedule, sampleData()).Render(100)
	first := strings.Index(out, "2024-09-02")
	second := strings.Index(out, "2024-09-03")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("days must be sorted:\n%s", out)
	}
	if strings.Index(out, "physics") > strings.Index(out, "math") {
		t.Fatalf("sessions must be ordered by pair:\n%s", out)
	}

	empty := newPage(PageSchedule, Data{}).Render(80)
	if !strings.Contains(empty, "no schedule loaded") {
		t.Fatalf("unexpected empty page %q", empty)
	}
}

func TestDiagnosticsPage_Empty(t *testing.T) {
	out := newPage(PageConflicts, Data{}).Render(80)
	if !strings.Contains(out, "no conflicts") {
		t.Fatalf("unexpected %q", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("расписание", 6); got != "рас..." {
		t.Fatalf("got %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("got %q", got)
	}
}

func TestProgressModel(t *testing.T) {
	events := make(chan pipeline.Event)
	m := NewProgressModel("analyze week.csv", events).(*progressModel)

	m.Update(eventMsg(pipeline.Event{Stage: pipeline.StageLoad, Status: pipeline.StatusDone, Detail: "3 entries"}))
	m.Update(eventMsg(pipeline.Event{Stage: pipeline.StageSettings, Status: pipeline.StatusError, Err: errors.New("boom")}))
	if m.items[0].status != pipeline.StatusDone || m.items[1].detail != "boom" {
		t.Fatalf("unexpected items %+v", m.items)
	}
	if got := m.percent(); got != 0.5 {
		t.Fatalf("percent = %v, want 0.5", got)
	}
	out := m.View()
	if !strings.Contains(out, "load: 3 entries") || !strings.Contains(out, "analyze week.csv") {
		t.Fatalf("unexpected view:\n%s", out)
	}

	_, cmd := m.Update(doneMsg{})
	if cmd == nil || !m.done {
		t.Fatal("doneMsg must quit")
	}
	if !strings.HasPrefix(m.View(), "done: ") && !strings.Contains(m.View(), "done: analyze") {
		t.Fatalf("unexpected final view:\n%s", m.View())
	}
}
