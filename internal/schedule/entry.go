// Package schedule holds the timetable data model: one Entry per teaching
// session, plus the small set of views (filters, pick lists, day grouping)
// that presentation code builds on top of a loaded timetable.
//
// Entries are plain values. Every comparison in this package is an exact
// string comparison; nothing is trimmed, folded or normalised except where a
// function says so explicitly (ByDay normalises date keys for display only).
package schedule

import "fmt"

// Column identifies one of the seven fixed columns of a timetable row.
type Column uint8

const (
	ColGroup Column = iota
	ColDate
	ColClassType
	ColClassNumber
	ColSubject
	ColTeacher
	ColClassroom
)

// NumColumns is the fixed width of a timetable row.
const NumColumns = 7

// Columns lists the columns in source order.
var Columns = [NumColumns]Column{
	ColGroup, ColDate, ColClassType, ColClassNumber, ColSubject, ColTeacher, ColClassroom,
}

func (c Column) String() string {
	switch c {
	case ColGroup:
		return "group"
	case ColDate:
		return "date"
	case ColClassType:
		return "classType"
	case ColClassNumber:
		return "classNumber"
	case ColSubject:
		return "subject"
	case ColTeacher:
		return "teacher"
	case ColClassroom:
		return "classroom"
	}
	return "unknown"
}

// Entry is one teaching session (a "pair").
type Entry struct {
	Group       string `json:"group"`
	Date        string `json:"date"`
	ClassType   string `json:"class_type"`
	ClassNumber string `json:"class_number"`
	Subject     string `json:"subject"`
	Teacher     string `json:"teacher"`
	Classroom   string `json:"classroom"`
}

// Get returns the value of a single column.
func (e Entry) Get(c Column) string {
	switch c {
	case ColGroup:
		return e.Group
	case ColDate:
		return e.Date
	case ColClassType:
		return e.ClassType
	case ColClassNumber:
		return e.ClassNumber
	case ColSubject:
		return e.Subject
	case ColTeacher:
		return e.Teacher
	case ColClassroom:
		return e.Classroom
	}
	return ""
}

// Fields returns the entry as a row in source column order.
func (e Entry) Fields() [NumColumns]string {
	return [NumColumns]string{
		e.Group, e.Date, e.ClassType, e.ClassNumber, e.Subject, e.Teacher, e.Classroom,
	}
}

// FromFields builds an Entry from a row in source column order.
// The row must have exactly seven fields.
func FromFields(row []string) (Entry, error) {
	if len(row) != NumColumns {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", NumColumns, len(row))
	}
	return Entry{
		Group:       row[0],
		Date:        row[1],
		ClassType:   row[2],
		ClassNumber: row[3],
		Subject:     row[4],
		Teacher:     row[5],
		Classroom:   row[6],
	}, nil
}
