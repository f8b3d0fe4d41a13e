package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"schedlint/internal/diag"
	"schedlint/internal/schedule"
	"schedlint/internal/testkit"
)

func entry(group, date, pair, teacher, room string) schedule.Entry {
	return schedule.Entry{
		Group:       group,
		Date:        date,
		ClassType:   "lecture",
		ClassNumber: pair,
		Subject:     "math",
		Teacher:     teacher,
		Classroom:   room,
	}
}

func codes(diags []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func count(diags []diag.Diagnostic, code diag.Code) int {
	n := 0
	for _, d := range diags {
		if d.Code == code {
			n++
		}
	}
	return n
}

func TestRunEmptySchedule(t *testing.T) {
	for _, in := range [][]schedule.Entry{nil, {}} {
		got := Run(in, DefaultConfig())
		if len(got) != 1 {
			t.Fatalf("expected exactly one diagnostic, got %v", testkit.Messages(got))
		}
		if got[0].Message != "no schedule loaded" || got[0].Code != diag.LoadEmpty {
			t.Fatalf("unexpected diagnostic: %+v", got[0])
		}
	}
}

func TestDailyLoadOverSix(t *testing.T) {
	entries := testkit.Day("101", "2024-09-02", 7)

	got := Run(entries, DefaultConfig())

	want := "group 101 has more than 6 sessions (7) on date 2024-09-02"
	if len(got) != 2 || got[0].Message != want {
		t.Fatalf("got %v, want first %q", testkit.Messages(got), want)
	}
	if count(got, diag.AnlOverFourPairs) != 0 {
		t.Fatalf("over-six day must not also get the over-four warning: %v", testkit.Messages(got))
	}
	if got[0].Location != (diag.Location{Group: "101", Date: "2024-09-02"}) {
		t.Fatalf("unexpected location: %+v", got[0].Location)
	}
}

func TestDailyLoadThresholds(t *testing.T) {
	tests := []struct {
		name string
		n    int
		cfg  Config
		want []diag.Code
	}{
		{"four is fine", 4, DefaultConfig(), nil},
		{"five", 5, DefaultConfig(), []diag.Code{diag.AnlOverFourPairs}},
		{"six", 6, DefaultConfig(), []diag.Code{diag.AnlOverFourPairs}},
		{"seven", 7, DefaultConfig(), []diag.Code{diag.AnlOverSixPairs}},
		{"seven without six flag", 7, Config{ShowWindows: true, FlagOver4Pairs: true}, []diag.Code{diag.AnlOverFourPairs}},
		{"seven without any flag", 7, Config{ShowWindows: true}, nil},
		{"five without four flag", 5, Config{ShowWindows: true, FlagOver6Pairs: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var bag diag.Bag
			CheckDailyLoad(testkit.Day("101", "2024-09-02", tt.n), tt.cfg, diag.BagReporter{Bag: &bag})
			got := codes(bag.Items())
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestShowWindowsGate(t *testing.T) {
	entries := append(testkit.Day("101", "2024-09-02", 9), entry("102", "2024-09-02", "3", "101-teacher-3", "x"))
	cfg := Config{ShowWindows: false, FlagOver4Pairs: true, FlagOver6Pairs: true, HighlightEveningClasses: true}

	got := Run(entries, cfg)

	for _, c := range []diag.Code{diag.AnlOverFourPairs, diag.AnlOverSixPairs, diag.AnlEveningPairs} {
		if count(got, c) != 0 {
			t.Fatalf("%s emitted with ShowWindows off: %v", c.ID(), testkit.Messages(got))
		}
	}
	if count(got, diag.AnlTeacherOverlap) != 1 {
		t.Fatalf("resource rule must run with ShowWindows off: %v", testkit.Messages(got))
	}
	if count(got, diag.AnlNinePairs) != 1 {
		t.Fatalf("anomalous-day rule must run with ShowWindows off: %v", testkit.Messages(got))
	}
}

func TestEveningSessionsAggregate(t *testing.T) {
	entries := []schedule.Entry{
		entry("101", "2024-09-02", "5", "a", "r1"),
		entry("102", "2024-09-05", "6", "b", "r2"),
		entry("101", "2024-09-05", "7", "c", "r3"),
		entry("103", "2024-09-05", "2", "d", "r4"),
	}

	got := Run(entries, DefaultConfig())

	if count(got, diag.AnlEveningPairs) != 1 {
		t.Fatalf("expected exactly one evening diagnostic: %v", testkit.Messages(got))
	}
	want := "evening sessions (5, 6 or 7) found for groups: 101, 102 on dates: 2024-09-02, 2024-09-05"
	if got[0].Message != want {
		t.Fatalf("got %q, want %q", got[0].Message, want)
	}
}

func TestEveningSessionsFlag(t *testing.T) {
	entries := []schedule.Entry{entry("101", "2024-09-02", "5", "a", "r1")}
	cfg := DefaultConfig()
	cfg.HighlightEveningClasses = false

	if got := Run(entries, cfg); count(got, diag.AnlEveningPairs) != 0 {
		t.Fatalf("evening rule ran with HighlightEveningClasses off: %v", testkit.Messages(got))
	}
}

func TestEveningIgnoresPaddedNumbers(t *testing.T) {
	entries := []schedule.Entry{entry("101", "2024-09-02", " 5", "a", "r1"), entry("101", "2024-09-02", "05", "a", "r1")}
	if got := Run(entries, DefaultConfig()); count(got, diag.AnlEveningPairs) != 0 {
		t.Fatalf("class numbers must match exactly: %v", testkit.Messages(got))
	}
}

func TestTeacherConflict(t *testing.T) {
	entries := []schedule.Entry{
		entry("101", "2024-09-02", "3", "Ivanov", "201"),
		entry("102", "2024-09-02", "3", "Ivanov", "202"),
	}

	got := Run(entries, DefaultConfig())

	if len(got) != 1 {
		t.Fatalf("expected a single teacher conflict, got %v", testkit.Messages(got))
	}
	want := "teacher overlap: 'Ivanov' on 2024-09-02 at pair 3 for groups: 101, 102"
	if got[0].Message != want || got[0].Code != diag.AnlTeacherOverlap || got[0].Severity != diag.SevError {
		t.Fatalf("got %+v, want message %q", got[0], want)
	}
	if got[0].Location.Resource != "Ivanov" || got[0].Location.ClassNumber != "3" {
		t.Fatalf("unexpected location: %+v", got[0].Location)
	}
}

func TestClassroomConflictAndTeacherConflictInOneSlot(t *testing.T) {
	entries := []schedule.Entry{
		entry("101", "2024-09-02", "1", "Ivanov", "201"),
		entry("102", "2024-09-02", "1", "Ivanov", "201"),
		entry("103", "2024-09-02", "1", "Petrov", "201"),
	}

	got := Run(entries, DefaultConfig())

	want := []string{
		"teacher overlap: 'Ivanov' on 2024-09-02 at pair 1 for groups: 101, 102",
		"classroom overlap: '201' on 2024-09-02 at pair 1 for groups: 101, 102, 103",
	}
	msgs := testkit.Messages(got)
	if len(msgs) != len(want) {
		t.Fatalf("got %v, want %v", msgs, want)
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Fatalf("got %v, want %v", msgs, want)
		}
	}
}

func TestSameGroupDuplicateIsNotConflict(t *testing.T) {
	entries := []schedule.Entry{
		entry("101", "2024-09-02", "3", "Ivanov", "201"),
		entry("101", "2024-09-02", "3", "Ivanov", "201"),
	}
	if got := Run(entries, DefaultConfig()); len(got) != 0 {
		t.Fatalf("duplicate session within one group reported: %v", testkit.Messages(got))
	}
}

func TestDifferentSlotsAreNotConflicts(t *testing.T) {
	entries := []schedule.Entry{
		entry("101", "2024-09-02", "3", "Ivanov", "201"),
		entry("102", "2024-09-02", "4", "Ivanov", "201"),
		entry("103", "2024-09-03", "3", "Ivanov", "201"),
	}
	if got := Run(entries, DefaultConfig()); len(got) != 0 {
		t.Fatalf("unexpected diagnostics: %v", testkit.Messages(got))
	}
}

func TestGroupingIsCaseSensitive(t *testing.T) {
	entries := []schedule.Entry{
		entry("101", "2024-09-02", "3", "Ivanov", "201"),
		entry("102", "2024-09-02", "3", "ivanov", "202"),
		entry("103", "2024-09-02", "3", "Ivanov ", "203"),
	}
	if got := Run(entries, DefaultConfig()); len(got) != 0 {
		t.Fatalf("teacher names must compare exactly: %v", testkit.Messages(got))
	}
}

func TestAnomalousDayExactlyNine(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{8, 0},
		{9, 1},
		{10, 0},
	}
	for _, tt := range tests {
		cfg := Config{} // only the always-on rules
		got := Run(testkit.Day("101", "2024-09-03", tt.n), cfg)
		if c := count(got, diag.AnlNinePairs); c != tt.want {
			t.Fatalf("n=%d: got %d anomalous-day diagnostics, want %d (%v)", tt.n, c, tt.want, testkit.Messages(got))
		}
	}

	got := Run(testkit.Day("101", "2024-09-03", 9), Config{})
	want := "group 101 has 9 sessions on date 2024-09-03: this is an error"
	if got[0].Message != want {
		t.Fatalf("got %q, want %q", got[0].Message, want)
	}
}

func TestRuleOrder(t *testing.T) {
	entries := append(testkit.Day("101", "2024-09-02", 9), entry("102", "2024-09-02", "1", "101-teacher-1", "z"))

	got := codes(Run(entries, DefaultConfig()))

	want := []diag.Code{diag.AnlOverSixPairs, diag.AnlEveningPairs, diag.AnlTeacherOverlap, diag.AnlNinePairs}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	var entries []schedule.Entry
	for _, g := range []string{"104", "101", "103", "102"} {
		entries = append(entries, testkit.Day(g, "2024-09-02", 7)...)
		entries = append(entries, testkit.Day(g, "2024-09-03", 9)...)
	}
	entries = append(entries, entry("105", "2024-09-02", "2", "104-teacher-2", "103-room-2"))

	err := testkit.CheckDeterministic(5, func() []diag.Diagnostic {
		return Run(entries, DefaultConfig())
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestRunDoesNotMutateInput(t *testing.T) {
	entries := []schedule.Entry{
		entry("102", "2024-09-02", "3", "Ivanov", "201"),
		entry("101", "2024-09-02", "3", "Ivanov", "201"),
	}
	before := append([]schedule.Entry(nil), entries...)
	Run(entries, DefaultConfig())
	for i := range entries {
		if entries[i] != before[i] {
			t.Fatalf("entry %d mutated: %+v", i, entries[i])
		}
	}
}

func TestEngineMatchesRun(t *testing.T) {
	var entries []schedule.Entry
	for _, g := range []string{"101", "102", "103"} {
		entries = append(entries, testkit.Day(g, "2024-09-02", 9)...)
		entries = append(entries, testkit.Day(g, "2024-09-04", 5)...)
	}
	entries = append(entries,
		entry("104", "2024-09-02", "4", "101-teacher-4", "102-room-4"),
		entry("105", "2024-09-02", "6", "Sidorov", "101-room-6"),
	)

	want := diag.FormatShortDiagnostics(Run(entries, DefaultConfig()), true)
	for _, opts := range []Options{{}, {Parallel: true}, {Parallel: true, Jobs: 1}} {
		got, err := NewEngine(opts).Run(context.Background(), entries, DefaultConfig())
		if err != nil {
			t.Fatalf("opts %+v: %v", opts, err)
		}
		if s := diag.FormatShortDiagnostics(got, true); s != want {
			t.Fatalf("opts %+v differs:\nwant:\n%s\n\ngot:\n%s", opts, want, s)
		}
	}
}

func TestEngineEmptySchedule(t *testing.T) {
	got, err := NewEngine(Options{Parallel: true}).Run(context.Background(), nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Message != NoScheduleMessage {
		t.Fatalf("unexpected result: %v", testkit.Messages(got))
	}
}

func TestEngineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine(Options{}).Run(ctx, testkit.Day("101", "2024-09-02", 3), DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRulesTable(t *testing.T) {
	var names []string
	for _, r := range Rules() {
		names = append(names, r.Name)
	}
	if got := strings.Join(names, ","); got != "daily-load,evening-sessions,resource-conflicts,anomalous-day" {
		t.Fatalf("unexpected rule order: %s", got)
	}
}
