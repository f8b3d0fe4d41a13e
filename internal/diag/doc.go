// Package diag defines the diagnostic model shared by the schedule loaders,
// the settings loader and the analysis rules.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced
//     while loading and analysing a timetable.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting beyond the stable short form,
// IO, CLI integration, or interactive behaviour. Rendering lives in
// internal/diagfmt, splitting into warnings and conflicts lives in
// internal/categorize.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text, the finding as the user reads it.
//   - Location – the group, date, pair number and resource the finding is
//     about. Unused fields stay empty.
//   - Notes – optional extra lines (for example the groups involved in an
//     overlap).
//
// Every Code maps to a Category (warning or conflict) at creation time, so
// consumers never need to inspect Message to decide where a finding belongs.
//
// # Emitting diagnostics
//
// Rules receive a diag.Reporter. They either call Reporter.Report directly or
// build a diagnostic with ReportWarning/ReportError/ReportInfo, chain WithNote
// and call Emit. BagReporter aggregates diagnostics into a Bag, which keeps
// emission order.
package diag
