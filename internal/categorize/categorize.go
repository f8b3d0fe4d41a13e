// Package categorize splits analysis findings into the two presentation
// buckets: soft warnings and hard conflicts.
package categorize

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"schedlint/internal/diag"
)

// Policy decides the bucket of a single diagnostic.
type Policy interface {
	Name() string
	Classify(d diag.Diagnostic) diag.Category
}

// DefaultKeywords mark a message as a conflict when found anywhere in it.
var DefaultKeywords = []string{"overlap", "intersection", "error", "пересечение", "ошибка"}

// KeywordPolicy classifies by searching the message text. It is fragile: a
// group or teacher name containing a keyword turns a warning into a conflict.
type KeywordPolicy struct {
	keywords []string
}

// NewKeywordPolicy builds a keyword policy. With no keywords the defaults are used.
func NewKeywordPolicy(keywords ...string) *KeywordPolicy {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	p := &KeywordPolicy{}
	fold := cases.Fold()
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			p.keywords = append(p.keywords, fold.String(k))
		}
	}
	return p
}

func (p *KeywordPolicy) Name() string { return "keyword" }

// Classify implements Policy.
func (p *KeywordPolicy) Classify(d diag.Diagnostic) diag.Category {
	// cases.Caser хранит состояние, поэтому отдельный экземпляр на вызов
	msg := cases.Fold().String(d.Message)
	for _, k := range p.keywords {
		if strings.Contains(msg, k) {
			return diag.CategoryConflict
		}
	}
	return diag.CategoryWarning
}

// TagPolicy classifies by the category attached to the diagnostic code.
type TagPolicy struct{}

func (TagPolicy) Name() string { return "tag" }

// Classify implements Policy.
func (TagPolicy) Classify(d diag.Diagnostic) diag.Category {
	return d.Category()
}

// ParsePolicy maps a flag value to a policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keyword", "keywords":
		return NewKeywordPolicy(), nil
	case "tag", "tags", "code":
		return TagPolicy{}, nil
	}
	return nil, fmt.Errorf("unknown classification policy %q (expected keyword|tag)", s)
}

// Result holds the two buckets, each in the order of the input.
type Result struct {
	Warnings  []diag.Diagnostic
	Conflicts []diag.Diagnostic
}

// Categorize partitions diags with p. A nil policy means the keyword policy.
func Categorize(diags []diag.Diagnostic, p Policy) Result {
	if p == nil {
		p = NewKeywordPolicy()
	}
	res := Result{
		Warnings:  make([]diag.Diagnostic, 0, len(diags)),
		Conflicts: make([]diag.Diagnostic, 0),
	}
	for _, d := range diags {
		if p.Classify(d) == diag.CategoryConflict {
			res.Conflicts = append(res.Conflicts, d)
		} else {
			res.Warnings = append(res.Warnings, d)
		}
	}
	return res
}

// Messages returns the presentation-ready message lists.
func (r Result) Messages() (warnings, conflicts []string) {
	warnings = make([]string, len(r.Warnings))
	for i, d := range r.Warnings {
		warnings[i] = d.Message
	}
	conflicts = make([]string, len(r.Conflicts))
	for i, d := range r.Conflicts {
		conflicts[i] = d.Message
	}
	return warnings, conflicts
}

// Len is the total number of categorized diagnostics.
func (r Result) Len() int {
	return len(r.Warnings) + len(r.Conflicts)
}

// HasConflicts reports whether the conflicts bucket is non-empty.
func (r Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}
