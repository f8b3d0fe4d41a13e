// Package trace provides the tracing subsystem of schedlint.
//
// Tracing follows a run through the CLI: loading the timetable, reading
// settings, evaluating each analysis rule and categorising the result. It is
// the tool's only logging channel; user-facing output never goes through it.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	schedlint analyze --trace=- --trace-level=detail timetable.db
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only error points
//   - LevelPhase: Driver and pass boundaries
//   - LevelDetail: Per-rule spans
//   - LevelDebug: Everything
//
// # Scopes
//
//   - ScopeDriver: Top-level CLI operations
//   - ScopePass: Pipeline passes (load, settings, analyze, categorize)
//   - ScopeRule: One analysis rule evaluation
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "analyze", parentID)
//	defer span.End("")
package trace
