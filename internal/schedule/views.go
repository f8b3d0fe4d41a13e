package schedule

import (
	"sort"
	"strconv"
	"time"
)

// Bucket is a run of entries sharing one grouping key.
type Bucket[K comparable] struct {
	Key     K
	Entries []Entry
}

// GroupBy groups entries by key. Buckets appear in the order their key was
// first seen and keep the input order of their entries, so the result is
// deterministic for a given input.
func GroupBy[K comparable](entries []Entry, key func(Entry) K) []Bucket[K] {
	index := make(map[K]int)
	var buckets []Bucket[K]
	for _, e := range entries {
		k := key(e)
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, Bucket[K]{Key: k})
		}
		buckets[i].Entries = append(buckets[i].Entries, e)
	}
	return buckets
}

// DistinctValues returns the distinct values of one column in first-seen order.
func DistinctValues(entries []Entry, c Column) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0)
	for _, e := range entries {
		v := e.Get(c)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Filter narrows a timetable down to one group, teacher, classroom and/or
// date. An empty field matches everything.
type Filter struct {
	Group     string
	Teacher   string
	Classroom string
	Date      string
}

// IsZero reports whether the filter matches every entry.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Match reports whether e passes the filter. Dates also match when both
// sides normalise to the same day.
func (f Filter) Match(e Entry) bool {
	return (f.Group == "" || e.Group == f.Group) &&
		(f.Teacher == "" || e.Teacher == f.Teacher) &&
		(f.Classroom == "" || e.Classroom == f.Classroom) &&
		(f.Date == "" || e.Date == f.Date || NormalizeDate(e.Date) == NormalizeDate(f.Date))
}

// Apply returns the matching entries in input order.
func (f Filter) Apply(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Day is a calendar day of a timetable view.
type Day struct {
	Key     string // нормализованная дата (yyyy-mm-dd) или исходная строка
	Entries []Entry
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02.01.2006",
	"02.01.2006 15:04:05",
	"01/02/2006",
	"2006/01/02",
}

// NormalizeDate renders a date as yyyy-mm-dd when it parses in one of the
// known layouts. Otherwise the raw value is returned unchanged.
func NormalizeDate(raw string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

// ByDay groups entries by normalised date for display. Days are sorted by
// key; inside a day entries are sorted by class number (numerically when both
// numbers parse). Sorting is stable.
func ByDay(entries []Entry) []Day {
	buckets := GroupBy(entries, func(e Entry) string { return NormalizeDate(e.Date) })
	days := make([]Day, 0, len(buckets))
	for _, b := range buckets {
		items := append([]Entry(nil), b.Entries...)
		sort.SliceStable(items, func(i, j int) bool {
			return lessClassNumber(items[i].ClassNumber, items[j].ClassNumber)
		})
		days = append(days, Day{Key: b.Key, Entries: items})
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Key < days[j].Key })
	return days
}

func lessClassNumber(a, b string) bool {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return ai < bi
	}
	return a < b
}
