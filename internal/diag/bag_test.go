package diag

import (
	"testing"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	for i := 0; i < 3; i++ {
		ok := bag.Add(New(SevWarning, AnlOverFourPairs, Location{}, "x"))
		if want := i < 2; ok != want {
			t.Fatalf("Add #%d = %v, want %v", i, ok, want)
		}
	}
	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
}

func TestBagUnbounded(t *testing.T) {
	bag := NewBag(0)
	for i := 0; i < 1000; i++ {
		if !bag.Add(New(SevInfo, AnlInfo, Location{}, "x")) {
			t.Fatalf("unbounded bag rejected diagnostic #%d", i)
		}
	}
}

func TestBagLimitClamped(t *testing.T) {
	bag := NewBag(1 << 20)
	for i := 0; i < 65535; i++ {
		if !bag.Add(New(SevInfo, AnlInfo, Location{}, "x")) {
			t.Fatalf("clamped bag rejected diagnostic #%d", i)
		}
	}
	if bag.Add(New(SevInfo, AnlInfo, Location{}, "overflow")) {
		t.Fatalf("bag accepted more than 65535 diagnostics")
	}
}

func TestBagSeverityQueries(t *testing.T) {
	bag := NewBag(4)
	if bag.HasWarnings() || bag.HasErrors() {
		t.Fatalf("empty bag reports problems")
	}
	bag.Add(New(SevWarning, AnlEveningPairs, Location{}, "evening"))
	if !bag.HasWarnings() || bag.HasErrors() {
		t.Fatalf("expected warnings only")
	}
	bag.Add(New(SevError, AnlNinePairs, Location{Group: "101"}, "nine"))
	if !bag.HasErrors() {
		t.Fatalf("expected errors")
	}
}

func TestBagMergeKeepsOrder(t *testing.T) {
	a := NewBag(1)
	a.Add(New(SevWarning, AnlOverSixPairs, Location{}, "first"))
	b := NewBag(2)
	b.Add(New(SevError, AnlTeacherOverlap, Location{}, "second"))
	b.Add(New(SevError, AnlClassroomOverlap, Location{}, "third"))

	a.Merge(b)

	got := a.Messages()
	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("Messages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Messages = %v, want %v", got, want)
		}
	}
	if a.Add(New(SevInfo, AnlInfo, Location{}, "fourth")) {
		t.Fatalf("merge must raise the limit only to fit the merged items")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	r := BagReporter{Bag: bag}
	b := ReportWarning(r, AnlEveningPairs, Location{}, "evening").WithNote("groups: 101")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("Len = %d, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if d.Severity != SevWarning || len(d.Notes) != 1 || d.Notes[0].Msg != "groups: 101" {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
}

func TestWithNoteDoesNotAlias(t *testing.T) {
	base := New(SevWarning, AnlEveningPairs, Location{}, "x").WithNote("a")
	one := base.WithNote("b")
	two := base.WithNote("c")
	if one.Notes[1].Msg != "b" || two.Notes[1].Msg != "c" {
		t.Fatalf("notes aliased: %v %v", one.Notes, two.Notes)
	}
}
