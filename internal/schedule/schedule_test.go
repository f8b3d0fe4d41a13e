package schedule

import (
	"strings"
	"testing"
)

var week = []Entry{
	{Group: "102", Date: "2024-09-03", ClassType: "lab", ClassNumber: "10", Subject: "chemistry", Teacher: "Petrov", Classroom: "305"},
	{Group: "101", Date: "2024-09-02", ClassType: "lecture", ClassNumber: "3", Subject: "math", Teacher: "Ivanov", Classroom: "201"},
	{Group: "102", Date: "03.09.2024", ClassType: "seminar", ClassNumber: "2", Subject: "physics", Teacher: "Ivanov", Classroom: "201"},
	{Group: "101", Date: "2024-09-02", ClassType: "lecture", ClassNumber: "1", Subject: "history", Teacher: "Sidorov", Classroom: "202"},
}

func TestFromFields(t *testing.T) {
	e, err := FromFields([]string{"101", "2024-09-02", "lecture", "1", "math", "Ivanov", "201"})
	if err != nil {
		t.Fatal(err)
	}
	if e.Get(ColTeacher) != "Ivanov" || e.Get(ColClassNumber) != "1" {
		t.Fatalf("unexpected entry %+v", e)
	}
	if e.Fields()[ColClassroom] != "201" {
		t.Fatalf("Fields must follow column order: %v", e.Fields())
	}
	for _, n := range []int{0, 6, 8} {
		if _, err := FromFields(make([]string, n)); err == nil {
			t.Fatalf("expected error for %d fields", n)
		}
	}
}

func TestColumns(t *testing.T) {
	var names []string
	for _, c := range Columns {
		names = append(names, c.String())
	}
	if got := strings.Join(names, ","); got != "group,date,classType,classNumber,subject,teacher,classroom" {
		t.Fatalf("unexpected column order %s", got)
	}
}

func TestGroupBy_FirstSeenOrder(t *testing.T) {
	buckets := GroupBy(week, func(e Entry) string { return e.Group })
	if len(buckets) != 2 || buckets[0].Key != "102" || buckets[1].Key != "101" {
		t.Fatalf("unexpected buckets %+v", buckets)
	}
	if buckets[0].Entries[0].Subject != "chemistry" || buckets[0].Entries[1].Subject != "physics" {
		t.Fatal("bucket entries must keep input order")
	}
	if len(GroupBy(nil, func(e Entry) string { return e.Group })) != 0 {
		t.Fatal("empty input must give no buckets")
	}
}

func TestDistinctValues(t *testing.T) {
	got := DistinctValues(week, ColTeacher)
	if strings.Join(got, ",") != "Petrov,Ivanov,Sidorov" {
		t.Fatalf("got %v", got)
	}
	if got := DistinctValues(nil, ColGroup); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestFilter(t *testing.T) {
	if !(Filter{}).IsZero() || len((Filter{}).Apply(week)) != len(week) {
		t.Fatal("zero filter must match everything")
	}
	got := Filter{Teacher: "Ivanov"}.Apply(week)
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	got = Filter{Group: "102", Date: "2024-09-03"}.Apply(week)
	if len(got) != 2 {
		t.Fatalf("normalised date must match both spellings: %+v", got)
	}
	if len((Filter{Classroom: "999"}).Apply(week)) != 0 {
		t.Fatal("unknown classroom must match nothing")
	}
	if len((Filter{Teacher: "ivanov"}).Apply(week)) != 0 {
		t.Fatal("filter comparisons are case-sensitive")
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := map[string]string{
		"2024-09-02":          "2024-09-02",
		"02.09.2024":          "2024-09-02",
		"2024-09-02T00:00:00": "2024-09-02",
		"2024/09/02":          "2024-09-02",
		"monday":              "monday",
		"":                    "",
	}
	for in, want := range tests {
		if got := NormalizeDate(in); got != want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestByDay(t *testing.T) {
	days := ByDay(week)
	if len(days) != 2 || days[0].Key != "2024-09-02" || days[1].Key != "2024-09-03" {
		t.Fatalf("unexpected days %+v", days)
	}
	var pairs []string
	for _, e := range days[1].Entries {
		pairs = append(pairs, e.ClassNumber)
	}
	if strings.Join(pairs, ",") != "2,10" {
		t.Fatalf("class numbers must sort numerically: %v", pairs)
	}
	if week[0].ClassNumber != "10" {
		t.Fatal("ByDay must not reorder its input")
	}
}
