// Package testkit holds invariant checks shared by package tests.
package testkit

import (
	"fmt"
	"strings"

	"schedlint/internal/diag"
	"schedlint/internal/schedule"
)

// CheckPartition verifies that warnings and conflicts split raw exactly:
// every diagnostic lands in one bucket, and both buckets keep the order the
// diagnostics had in raw.
func CheckPartition(raw, warnings, conflicts []diag.Diagnostic) error {
	if len(warnings)+len(conflicts) != len(raw) {
		return fmt.Errorf("partition size mismatch: %d warnings + %d conflicts != %d diagnostics",
			len(warnings), len(conflicts), len(raw))
	}
	wi, ci := 0, 0
	for i, d := range raw {
		switch {
		case wi < len(warnings) && same(warnings[wi], d):
			wi++
		case ci < len(conflicts) && same(conflicts[ci], d):
			ci++
		default:
			return fmt.Errorf("diagnostic #%d (%q) is missing or out of order", i, d.Message)
		}
	}
	return nil
}

func same(a, b diag.Diagnostic) bool {
	return a.Code == b.Code && a.Severity == b.Severity && a.Message == b.Message && a.Location == b.Location
}

// CheckDeterministic calls run n times and verifies every call renders the
// same short output.
func CheckDeterministic(n int, run func() []diag.Diagnostic) error {
	if n < 2 {
		n = 2
	}
	first := diag.FormatShortDiagnostics(run(), true)
	for i := 1; i < n; i++ {
		if got := diag.FormatShortDiagnostics(run(), true); got != first {
			return fmt.Errorf("run #%d differs:\nfirst:\n%s\n\ngot:\n%s", i, first, got)
		}
	}
	return nil
}

// Day builds n sessions for one group on one date, numbered from 1.
func Day(group, date string, n int) []schedule.Entry {
	out := make([]schedule.Entry, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, schedule.Entry{
			Group:       group,
			Date:        date,
			ClassType:   "lecture",
			ClassNumber: fmt.Sprint(i),
			Subject:     fmt.Sprintf("subject-%d", i),
			Teacher:     fmt.Sprintf("%s-teacher-%d", group, i),
			Classroom:   fmt.Sprintf("%s-room-%d", group, i),
		})
	}
	return out
}

// Messages extracts diagnostic messages.
func Messages(diags []diag.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Message
	}
	return out
}

// Contains reports whether any message contains substr.
func Contains(diags []diag.Diagnostic, substr string) bool {
	for _, d := range diags {
		if strings.Contains(d.Message, substr) {
			return true
		}
	}
	return false
}
