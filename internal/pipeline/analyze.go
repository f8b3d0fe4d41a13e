// Package pipeline orchestrates one analysis run: load the timetable, read
// the rule configuration, run the rules and categorize the findings.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"schedlint/internal/analysis"
	"schedlint/internal/cache"
	"schedlint/internal/categorize"
	"schedlint/internal/diag"
	"schedlint/internal/observ"
	"schedlint/internal/schedule"
	"schedlint/internal/settings"
	"schedlint/internal/source"
	"schedlint/internal/trace"
)

// Request configures one run.
type Request struct {
	Source        string
	SourceOptions source.Options
	// SettingsPath is the settings file; empty means built-in defaults.
	SettingsPath string
	// Config, when set, overrides whatever the settings file says.
	Config *analysis.Config
	Policy categorize.Policy
	Engine analysis.Options
	// Cache stores decoded file sources; nil disables caching.
	Cache          *cache.Cache
	MaxDiagnostics int
	Progress       ProgressSink
}

// Result captures everything a run produced.
type Result struct {
	Entries     []schedule.Entry
	Config      analysis.Config
	Settings    *settings.Document
	Diagnostics []diag.Diagnostic
	Categorized categorize.Result
	Timer       *observ.Timer
	CacheHit    bool
	// Truncated is set when MaxDiagnostics dropped findings.
	Truncated bool
}

// Analyze runs the pipeline. Load and settings problems become diagnostics;
// the error is non-nil only when ctx is cancelled.
func Analyze(ctx context.Context, req *Request) (Result, error) {
	var res Result
	if req == nil {
		return res, fmt.Errorf("missing analysis request")
	}
	res.Timer = observ.NewTimer()

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "pipeline", trace.CurrentSpan(ctx))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	for _, st := range Stages {
		emit(req.Progress, st, StatusQueued, "", nil, 0)
	}

	collected := diag.NewBag(0)
	reporter := diag.BagReporter{Bag: collected}

	// load
	start := time.Now()
	idx := res.Timer.Begin(string(StageLoad))
	emit(req.Progress, StageLoad, StatusWorking, req.Source, nil, 0)
	before := collected.Len()
	res.Entries, res.CacheHit = load(ctx, req, reporter)
	loadFailed := collected.Len() > before
	note := fmt.Sprintf("%d entries", len(res.Entries))
	if res.CacheHit {
		note += " (cached)"
	}
	res.Timer.End(idx, note)
	if loadFailed {
		emit(req.Progress, StageLoad, StatusError, note, nil, time.Since(start))
	} else {
		emit(req.Progress, StageLoad, StatusDone, note, nil, time.Since(start))
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	// settings
	start = time.Now()
	idx = res.Timer.Begin(string(StageSettings))
	emit(req.Progress, StageSettings, StatusWorking, req.SettingsPath, nil, 0)
	res.Config, res.Settings = settings.Load(req.SettingsPath, reporter)
	if req.Config != nil {
		res.Config = *req.Config
	}
	res.Timer.End(idx, req.SettingsPath)
	emit(req.Progress, StageSettings, StatusDone, "", nil, time.Since(start))

	// analyze
	start = time.Now()
	idx = res.Timer.Begin(string(StageAnalyze))
	emit(req.Progress, StageAnalyze, StatusWorking, "", nil, 0)
	if loadFailed {
		// движок не запускаем: ошибка загрузки уже единственная находка
		trace.Point(tracer, trace.ScopePass, "analyze", "skipped after load error", span.ID())
		res.Timer.End(idx, "skipped")
		emit(req.Progress, StageAnalyze, StatusDone, "skipped", nil, time.Since(start))
	} else {
		found, err := analysis.NewEngine(req.Engine).Run(ctx, res.Entries, res.Config)
		if err != nil {
			res.Timer.End(idx, "cancelled")
			emit(req.Progress, StageAnalyze, StatusError, "", err, time.Since(start))
			return res, err
		}
		for _, d := range found {
			collected.Add(d)
		}
		res.Timer.End(idx, fmt.Sprintf("%d findings", len(found)))
		emit(req.Progress, StageAnalyze, StatusDone, "", nil, time.Since(start))
	}

	res.Diagnostics = collected.Items()
	if req.MaxDiagnostics > 0 {
		limited := diag.NewBag(req.MaxDiagnostics)
		for _, d := range res.Diagnostics {
			if !limited.Add(d) {
				res.Truncated = true
				break
			}
		}
		res.Diagnostics = limited.Items()
	}

	// categorize
	start = time.Now()
	idx = res.Timer.Begin(string(StageCategorize))
	emit(req.Progress, StageCategorize, StatusWorking, "", nil, 0)
	cs := trace.Begin(tracer, trace.ScopePass, "categorize", span.ID())
	res.Categorized = categorize.Categorize(res.Diagnostics, req.Policy)
	cs.WithExtra("conflicts", fmt.Sprint(len(res.Categorized.Conflicts))).End("")
	res.Timer.End(idx, fmt.Sprintf("%d conflicts, %d warnings", len(res.Categorized.Conflicts), len(res.Categorized.Warnings)))
	emit(req.Progress, StageCategorize, StatusDone, "", nil, time.Since(start))

	return res, nil
}

// load reads the source, going through the cache for file sources.
func load(ctx context.Context, req *Request, r diag.Reporter) ([]schedule.Entry, bool) {
	kind := source.DetectKind(req.Source)
	if req.Cache == nil || !kind.IsFile() {
		return source.Load(ctx, req.Source, req.SourceOptions, r), false
	}

	tracer := trace.FromContext(ctx)
	content, err := os.ReadFile(source.FilePath(req.Source))
	if err != nil {
		// пусть ошибку сообщит сам адаптер
		return source.Load(ctx, req.Source, req.SourceOptions, r), false
	}
	key := cache.Key(kind.String()+"|"+req.SourceOptions.Table+"|"+req.SourceOptions.Sheet, content)
	if payload, ok, err := req.Cache.Get(key); err != nil {
		trace.Error(tracer, "cache:get", err, trace.CurrentSpan(ctx))
	} else if ok {
		trace.Point(tracer, trace.ScopePass, "cache:hit", key.String(), trace.CurrentSpan(ctx))
		if payload.Entries == nil {
			payload.Entries = []schedule.Entry{}
		}
		return payload.Entries, true
	}

	bag := diag.NewBag(0)
	entries := source.Load(ctx, req.Source, req.SourceOptions, diag.BagReporter{Bag: bag})
	for _, d := range bag.Items() {
		r.Report(d.Code, d.Severity, d.Location, d.Message, d.Notes)
	}
	if bag.Len() == 0 {
		payload := &cache.Payload{Source: req.Source, Kind: kind.String(), Entries: entries}
		if err := req.Cache.Put(key, payload); err != nil {
			trace.Error(tracer, "cache:put", err, trace.CurrentSpan(ctx))
		}
	}
	return entries, false
}
