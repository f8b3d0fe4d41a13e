package diag

// Location points a diagnostic at the part of the timetable it talks about.
// Fields that do not apply stay empty.
type Location struct {
	Group       string
	Date        string
	ClassNumber string
	Resource    string // преподаватель или аудитория
}

// IsZero reports whether the location carries no reference at all.
func (l Location) IsZero() bool {
	return l == Location{}
}

type Note struct {
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Location Location
	Notes    []Note
}

// Category returns the presentation bucket assigned to the diagnostic's code.
func (d Diagnostic) Category() Category {
	return d.Code.Category()
}
