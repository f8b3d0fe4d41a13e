package diag

import "testing"

func TestCodeIDs(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{LoadError, "LOD1001"},
		{LoadEmpty, "LOD1002"},
		{CfgError, "CFG2001"},
		{AnlOverSixPairs, "ANL3001"},
		{AnlNinePairs, "ANL3006"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestEveryCodeHasTitle(t *testing.T) {
	for _, c := range Codes() {
		if _, ok := codeDescription[c]; !ok {
			t.Errorf("code %s has no description", c.ID())
		}
	}
	if Code(9999).Title() != "Unknown error" {
		t.Errorf("unknown code title = %q", Code(9999).Title())
	}
}

func TestCodeCategories(t *testing.T) {
	conflicts := map[Code]bool{
		LoadError:           true,
		CfgError:            true,
		AnlTeacherOverlap:   true,
		AnlClassroomOverlap: true,
		AnlNinePairs:        true,
	}
	for _, c := range Codes() {
		want := CategoryWarning
		if conflicts[c] {
			want = CategoryConflict
		}
		if got := c.Category(); got != want {
			t.Errorf("%s.Category() = %s, want %s", c.ID(), got, want)
		}
	}
}
