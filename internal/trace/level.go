package trace

import (
	"fmt"
	"strings"
)

// Level is the verbosity selected with --trace-level.
type Level uint8

const (
	LevelOff Level = iota
	// LevelError keeps only KindError events.
	LevelError
	// LevelPhase adds the command and pipeline stages.
	LevelPhase
	// LevelDetail adds one span per rule.
	LevelDetail
	LevelDebug
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel reads a level name; the empty string means off.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return LevelOff, nil
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// maxScope is the finest scope each level lets through.
var maxScope = [...]Scope{
	LevelOff:    0,
	LevelError:  0,
	LevelPhase:  ScopePass,
	LevelDetail: ScopeRule,
	LevelDebug:  ScopeDebug,
}

// ShouldEmit reports whether events of scope pass the level filter. Error
// events skip this check.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(maxScope) {
		return false
	}
	return scope != 0 && scope <= maxScope[l]
}
