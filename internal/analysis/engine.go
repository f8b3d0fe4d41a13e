// Package analysis is the timetable analysis engine: a fixed table of rules
// evaluated over a materialised collection of schedule entries.
//
// The engine is a pure function of (entries, Config). It never mutates its
// inputs, keeps no state between runs and produces the same ordered list of
// diagnostics for the same input.
package analysis

import (
	"context"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"schedlint/internal/diag"
	"schedlint/internal/schedule"
	"schedlint/internal/trace"
)

// NoScheduleMessage is the single finding produced for an empty timetable.
const NoScheduleMessage = "no schedule loaded"

// Run analyses entries with cfg and returns the findings in rule order.
func Run(entries []schedule.Entry, cfg Config) []diag.Diagnostic {
	bag := diag.NewBag(0)
	r := diag.BagReporter{Bag: bag}

	if len(entries) == 0 {
		reportEmpty(r)
		return bag.Items()
	}

	for _, rule := range Rules() {
		if rule.Enabled(cfg) {
			rule.Check(entries, cfg, r)
		}
	}
	return bag.Items()
}

func reportEmpty(r diag.Reporter) {
	diag.ReportInfo(r, diag.LoadEmpty, diag.Location{}, NoScheduleMessage).Emit()
}

// Options tune how Engine evaluates the rule table.
type Options struct {
	// Parallel evaluates rules concurrently. Output order is unchanged.
	Parallel bool
	// Jobs bounds the number of concurrent rules (0 = GOMAXPROCS).
	Jobs int
}

// Engine runs the rule table with tracing and optional concurrency.
type Engine struct {
	opts Options
}

// NewEngine returns an engine configured with opts.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Run analyses entries with cfg. The result is identical to the package
// level Run; the error is non-nil only when ctx is cancelled.
func (e *Engine) Run(ctx context.Context, entries []schedule.Entry, cfg Config) ([]diag.Diagnostic, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "analyze", trace.CurrentSpan(ctx))
	span.WithExtra("entries", strconv.Itoa(len(entries)))
	defer span.End("")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		bag := diag.NewBag(0)
		reportEmpty(diag.BagReporter{Bag: bag})
		trace.Point(tracer, trace.ScopeRule, "rules:skipped", "empty schedule", span.ID())
		return bag.Items(), nil
	}

	rules := Rules()
	bags := make([]*diag.Bag, len(rules))

	eval := func(i int) {
		rule := rules[i]
		if !rule.Enabled(cfg) {
			trace.Point(tracer, trace.ScopeRule, "rule:"+rule.Name, "disabled", span.ID())
			return
		}
		rs := trace.Begin(tracer, trace.ScopeRule, "rule:"+rule.Name, span.ID())
		bag := diag.NewBag(0)
		rule.Check(entries, cfg, diag.BagReporter{Bag: bag})
		bags[i] = bag
		rs.WithExtra("diagnostics", strconv.Itoa(bag.Len())).End("")
	}

	if e.opts.Parallel {
		jobs := e.opts.Jobs
		if jobs <= 0 {
			jobs = runtime.GOMAXPROCS(0)
		}
		// Результаты по индексу правила, мьютекс не нужен
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(jobs, len(rules)))
		for i := range rules {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				eval(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range rules {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			eval(i)
		}
	}

	out := diag.NewBag(0)
	for _, b := range bags {
		out.Merge(b)
	}
	span.WithExtra("diagnostics", strconv.Itoa(out.Len()))
	return out.Items(), nil
}
