package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"schedlint/internal/schedule"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// sqlReader reads the seven timetable columns from one table.
type sqlReader struct {
	driver string
	dsn    string
	table  string
	// path is set for SQLite; it must exist before the driver sees it.
	path string
}

func newSQLReader(driver, dsn, table string) (*sqlReader, error) {
	if table == "" {
		table = DefaultTable
	}
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &sqlReader{driver: driver, dsn: dsn, table: table}, nil
}

// newSQLiteReader opens path read-only so a mistyped name never leaves an
// empty database behind.
func newSQLiteReader(path, table string) (*sqlReader, error) {
	r, err := newSQLReader("sqlite", sqliteReadOnlyDSN(path), table)
	if err != nil {
		return nil, err
	}
	r.path = path
	return r, nil
}

var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

func sqliteReadOnlyDSN(path string) string {
	return "file:" + uriEscaper.Replace(path) + "?mode=ro"
}

func (r *sqlReader) query() string {
	return "SELECT GroupNumber, Date, ClassType, ClassNumber, Subject, Teacher, Classroom FROM " + r.table
}

func (r *sqlReader) Read(ctx context.Context) ([]schedule.Entry, error) {
	if r.path != "" {
		info, err := os.Stat(r.path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", r.path)
		}
	}
	db, err := sql.Open(r.driver, r.dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.driver, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connect %s: %w", r.driver, err)
	}

	rows, err := db.QueryContext(ctx, r.query())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table, err)
	}
	defer rows.Close()

	var out []schedule.Entry
	for rows.Next() {
		var cols [schedule.NumColumns]sql.NullString
		if err := rows.Scan(&cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &cols[5], &cols[6]); err != nil {
			return nil, fmt.Errorf("scan %s row %d: %w", r.table, len(out)+1, err)
		}
		out = append(out, schedule.Entry{
			Group:       cols[schedule.ColGroup].String,
			Date:        cols[schedule.ColDate].String,
			ClassType:   cols[schedule.ColClassType].String,
			ClassNumber: cols[schedule.ColClassNumber].String,
			Subject:     cols[schedule.ColSubject].String,
			Teacher:     cols[schedule.ColTeacher].String,
			Classroom:   cols[schedule.ColClassroom].String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", r.table, err)
	}
	return out, nil
}
