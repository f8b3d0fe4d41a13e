package diag

import "fmt"

// Category is the presentation bucket of a diagnostic: soft warnings or hard
// conflicts.
type Category uint8

const (
	CategoryWarning Category = iota
	CategoryConflict
)

func (c Category) String() string {
	switch c {
	case CategoryWarning:
		return "warning"
	case CategoryConflict:
		return "conflict"
	}
	return "unknown"
}

// ParseCategory converts "warning" or "conflict" to a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "warning", "warnings":
		return CategoryWarning, nil
	case "conflict", "conflicts":
		return CategoryConflict, nil
	}
	return CategoryWarning, fmt.Errorf("unknown category %q (expected warning|conflict)", s)
}
