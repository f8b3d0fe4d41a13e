package analysis

import (
	"fmt"
	"strings"

	"schedlint/internal/diag"
	"schedlint/internal/schedule"
)

const (
	overloadHard = 6
	overloadSoft = 4
	// anomalousDay is matched exactly: a day with ten sessions is not flagged.
	anomalousDay = 9
)

// eveningPairs are the class numbers treated as evening sessions.
var eveningPairs = map[string]struct{}{"5": {}, "6": {}, "7": {}}

// CheckFunc evaluates one rule and reports its findings.
type CheckFunc func(entries []schedule.Entry, cfg Config, r diag.Reporter)

// Rule is one entry of the rule table.
type Rule struct {
	Name    string
	Enabled func(cfg Config) bool
	Check   CheckFunc
}

func always(Config) bool { return true }

// Rules returns the rule table in execution order.
func Rules() []Rule {
	return []Rule{
		{
			Name:    "daily-load",
			Enabled: func(cfg Config) bool { return cfg.ShowWindows },
			Check:   CheckDailyLoad,
		},
		{
			Name:    "evening-sessions",
			Enabled: func(cfg Config) bool { return cfg.ShowWindows && cfg.HighlightEveningClasses },
			Check:   CheckEveningSessions,
		},
		{
			Name:    "resource-conflicts",
			Enabled: always,
			Check:   CheckResourceConflicts,
		},
		{
			Name:    "anomalous-day",
			Enabled: always,
			Check:   CheckAnomalousDays,
		},
	}
}

type groupDay struct {
	group string
	date  string
}

func byGroupDay(e schedule.Entry) groupDay {
	return groupDay{group: e.Group, date: e.Date}
}

type slot struct {
	date        string
	classNumber string
}

func bySlot(e schedule.Entry) slot {
	return slot{date: e.Date, classNumber: e.ClassNumber}
}

// CheckDailyLoad reports group-days with too many sessions. The six-session
// threshold is checked first; a day that trips it never also gets the
// four-session warning.
func CheckDailyLoad(entries []schedule.Entry, cfg Config, r diag.Reporter) {
	for _, day := range schedule.GroupBy(entries, byGroupDay) {
		n := len(day.Entries)
		loc := diag.Location{Group: day.Key.group, Date: day.Key.date}
		switch {
		case cfg.FlagOver6Pairs && n > overloadHard:
			diag.ReportWarning(r, diag.AnlOverSixPairs, loc,
				fmt.Sprintf("group %s has more than %d sessions (%d) on date %s", day.Key.group, overloadHard, n, day.Key.date)).Emit()
		case cfg.FlagOver4Pairs && n > overloadSoft:
			diag.ReportWarning(r, diag.AnlOverFourPairs, loc,
				fmt.Sprintf("group %s has more than %d sessions (%d) on date %s", day.Key.group, overloadSoft, n, day.Key.date)).Emit()
		}
	}
}

// CheckEveningSessions emits a single aggregate warning listing every group
// and date that has a session in pair 5, 6 or 7.
func CheckEveningSessions(entries []schedule.Entry, _ Config, r diag.Reporter) {
	evening := make([]schedule.Entry, 0)
	for _, e := range entries {
		if _, ok := eveningPairs[e.ClassNumber]; ok {
			evening = append(evening, e)
		}
	}
	if len(evening) == 0 {
		return
	}

	groups := schedule.DistinctValues(evening, schedule.ColGroup)
	dates := schedule.DistinctValues(evening, schedule.ColDate)
	diag.ReportWarning(r, diag.AnlEveningPairs, diag.Location{},
		fmt.Sprintf("evening sessions (5, 6 or 7) found for groups: %s on dates: %s", strings.Join(groups, ", "), strings.Join(dates, ", "))).
		WithNote(fmt.Sprintf("%d evening sessions", len(evening))).
		Emit()
}

// CheckResourceConflicts reports teachers and classrooms booked by more than
// one group in the same (date, pair) slot. Repeated sessions of one group in
// a slot are not a conflict.
func CheckResourceConflicts(entries []schedule.Entry, _ Config, r diag.Reporter) {
	for _, s := range schedule.GroupBy(entries, bySlot) {
		reportOverlaps(r, s.Key, s.Entries, schedule.ColTeacher, diag.AnlTeacherOverlap, "teacher")
		reportOverlaps(r, s.Key, s.Entries, schedule.ColClassroom, diag.AnlClassroomOverlap, "classroom")
	}
}

func reportOverlaps(r diag.Reporter, key slot, entries []schedule.Entry, col schedule.Column, code diag.Code, label string) {
	for _, res := range schedule.GroupBy(entries, func(e schedule.Entry) string { return e.Get(col) }) {
		groups := schedule.DistinctValues(res.Entries, schedule.ColGroup)
		if len(groups) < 2 {
			continue
		}
		loc := diag.Location{Date: key.date, ClassNumber: key.classNumber, Resource: res.Key}
		diag.ReportError(r, code, loc,
			fmt.Sprintf("%s overlap: '%s' on %s at pair %s for groups: %s", label, res.Key, key.date, key.classNumber, strings.Join(groups, ", "))).
			Emit()
	}
}

// CheckAnomalousDays reports group-days with exactly nine sessions.
func CheckAnomalousDays(entries []schedule.Entry, _ Config, r diag.Reporter) {
	for _, day := range schedule.GroupBy(entries, byGroupDay) {
		if len(day.Entries) != anomalousDay {
			continue
		}
		loc := diag.Location{Group: day.Key.group, Date: day.Key.date}
		diag.ReportError(r, diag.AnlNinePairs, loc,
			fmt.Sprintf("group %s has %d sessions on date %s: this is an error", day.Key.group, anomalousDay, day.Key.date)).
			Emit()
	}
}
