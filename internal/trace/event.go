package trace

import "time"

// Kind says what an Event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	// KindError is emitted at every level except off.
	KindError
)

var kindNames = [...]string{"unknown", "begin", "end", "point", "error"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[0]
}

// Scope is the granularity of an event; smaller is coarser.
type Scope uint8

const (
	// ScopeDriver: one CLI command.
	ScopeDriver Scope = iota + 1
	// ScopePass: a pipeline stage (load, settings, analyze, categorize)
	// or a source adapter.
	ScopePass
	// ScopeRule: one rule of the analysis table.
	ScopeRule
	ScopeDebug
)

var scopeNames = [...]string{"unknown", "driver", "pass", "rule", "debug"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return scopeNames[0]
}

// Event is one record of the trace stream.
type Event struct {
	Time     time.Time
	Seq      uint64 // process-wide, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	Name     string // "pipeline", "load", "rule:daily-load", ...
	Detail   string
	Extra    map[string]string
}
