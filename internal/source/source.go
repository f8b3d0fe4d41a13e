// Package source reads timetables from external stores: SQL databases,
// spreadsheets, delimited text, JSON documents and msgpack snapshots.
//
// The adapters return raw entries; they never trim, dedupe or validate cell
// contents beyond the fixed seven-column shape of a row.
package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"schedlint/internal/diag"
	"schedlint/internal/schedule"
	"schedlint/internal/trace"
)

// Reader produces every schedule entry of one source.
type Reader interface {
	Read(ctx context.Context) ([]schedule.Entry, error)
}

// Kind is the adapter family of a location.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindPostgres
	KindSQLite
	KindCSV
	KindJSON
	KindXLSX
	KindSnapshot
)

func (k Kind) String() string {
	switch k {
	case KindPostgres:
		return "postgres"
	case KindSQLite:
		return "sqlite"
	case KindCSV:
		return "csv"
	case KindJSON:
		return "json"
	case KindXLSX:
		return "xlsx"
	case KindSnapshot:
		return "msgpack"
	}
	return "unknown"
}

// IsFile reports whether the location names a local file.
func (k Kind) IsFile() bool {
	return k != KindUnknown && k != KindPostgres
}

// Options tune adapters; zero values pick the defaults.
type Options struct {
	// Table is the SQL table to read (default "Schedule").
	Table string
	// Sheet is the spreadsheet sheet to read (default: first sheet).
	Sheet string
}

// DefaultTable is the table name used by the desktop timetable database.
const DefaultTable = "Schedule"

// ErrUnsupported is returned for locations no adapter understands.
var ErrUnsupported = errors.New("unsupported schedule source")

// DetectKind classifies a location by URL scheme or file extension.
func DetectKind(location string) Kind {
	lower := strings.ToLower(strings.TrimSpace(location))
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return KindPostgres
	case strings.HasPrefix(lower, "sqlite:"):
		return KindSQLite
	}
	switch filepath.Ext(lower) {
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	case ".csv":
		return KindCSV
	case ".json":
		return KindJSON
	case ".xlsx":
		return KindXLSX
	case ".msgpack", ".mp":
		return KindSnapshot
	}
	return KindUnknown
}

// FilePath strips a "sqlite:" or "sqlite://" scheme; other locations are
// returned unchanged.
func FilePath(location string) string {
	trimmed := strings.TrimSpace(location)
	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(lower, "sqlite://"):
		return trimmed[len("sqlite://"):]
	case strings.HasPrefix(lower, "sqlite:"):
		return trimmed[len("sqlite:"):]
	}
	return location
}

// Open returns the reader for location.
func Open(location string, opts Options) (Reader, error) {
	if strings.TrimSpace(location) == "" {
		return nil, errors.New("empty schedule location")
	}
	switch DetectKind(location) {
	case KindPostgres:
		return newSQLReader("pgx", location, opts.Table)
	case KindSQLite:
		return newSQLiteReader(FilePath(location), opts.Table)
	case KindCSV:
		return &csvReader{path: location}, nil
	case KindJSON:
		return &jsonReader{path: location}, nil
	case KindXLSX:
		return &xlsxReader{path: location, sheet: opts.Sheet}, nil
	case KindSnapshot:
		return &snapshotReader{path: location}, nil
	}
	return nil, fmt.Errorf("%w: %q (expected postgres:// or sqlite: URL or .db, .sqlite, .csv, .json, .xlsx, .msgpack file)", ErrUnsupported, location)
}

// Load reads location and converts any failure into a single LoadError
// diagnostic; the caller always gets a usable (possibly empty) slice.
func Load(ctx context.Context, location string, opts Options, r diag.Reporter) []schedule.Entry {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "load", trace.CurrentSpan(ctx))
	span.WithExtra("kind", DetectKind(location).String())
	defer span.End("")

	entries, err := read(ctx, location, opts)
	if err != nil {
		trace.Error(tracer, "load", err, span.ID())
		if r != nil {
			diag.ReportError(r, diag.LoadError, diag.Location{}, "schedule load error: "+err.Error()).Emit()
		}
		return []schedule.Entry{}
	}
	span.WithExtra("entries", fmt.Sprint(len(entries)))
	return entries
}

func read(ctx context.Context, location string, opts Options) ([]schedule.Entry, error) {
	rd, err := Open(location, opts)
	if err != nil {
		return nil, err
	}
	entries, err := rd.Read(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []schedule.Entry{}
	}
	return entries, nil
}
