package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Загрузка расписания
	LodInfo   Code = 1000
	LoadError Code = 1001
	LoadEmpty Code = 1002

	// Настройки
	CfgInfo  Code = 2000
	CfgError Code = 2001

	// Анализ расписания
	AnlInfo             Code = 3000
	AnlOverSixPairs     Code = 3001
	AnlOverFourPairs    Code = 3002
	AnlEveningPairs     Code = 3003
	AnlTeacherOverlap   Code = 3004
	AnlClassroomOverlap Code = 3005
	AnlNinePairs        Code = 3006
)

var (
	codeDescription = map[Code]string{
		UnknownCode:         "Unknown error",
		LodInfo:             "Schedule load information",
		LoadError:           "Schedule load error",
		LoadEmpty:           "No schedule loaded",
		CfgInfo:             "Settings information",
		CfgError:            "Settings load error",
		AnlInfo:             "Analysis information",
		AnlOverSixPairs:     "More than 6 sessions a day",
		AnlOverFourPairs:    "More than 4 sessions a day",
		AnlEveningPairs:     "Evening sessions",
		AnlTeacherOverlap:   "Teacher double-booked",
		AnlClassroomOverlap: "Classroom double-booked",
		AnlNinePairs:        "Nine sessions a day",
	}

	codeCategory = map[Code]Category{
		LoadError:           CategoryConflict,
		CfgError:            CategoryConflict,
		AnlTeacherOverlap:   CategoryConflict,
		AnlClassroomOverlap: CategoryConflict,
		AnlNinePairs:        CategoryConflict,
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LOD%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("ANL%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

// Category returns the bucket a code is displayed in. Codes not listed as
// conflicts are warnings.
func (c Code) Category() Category {
	if cat, ok := codeCategory[c]; ok {
		return cat
	}
	return CategoryWarning
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Codes returns every known code in ascending order.
func Codes() []Code {
	return []Code{
		LodInfo, LoadError, LoadEmpty,
		CfgInfo, CfgError,
		AnlInfo, AnlOverSixPairs, AnlOverFourPairs, AnlEveningPairs,
		AnlTeacherOverlap, AnlClassroomOverlap, AnlNinePairs,
	}
}
