package source

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"schedlint/internal/schedule"
)

// snapshotVersion is bumped whenever the snapshot layout changes.
const snapshotVersion uint16 = 1

// snapshot is the msgpack layout: rows in source column order.
type snapshot struct {
	Version uint16
	Rows    [][]string
}

type snapshotReader struct {
	path string
}

func (r *snapshotReader) Read(_ context.Context) ([]schedule.Entry, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(in io.Reader) ([]schedule.Entry, error) {
	var snap snapshot
	if err := msgpack.NewDecoder(in).Decode(&snap); err != nil {
		return nil, fmt.Errorf("msgpack: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("msgpack: unsupported snapshot version %d (want %d)", snap.Version, snapshotVersion)
	}
	out := make([]schedule.Entry, 0, len(snap.Rows))
	for i, row := range snap.Rows {
		e, err := schedule.FromFields(row)
		if err != nil {
			return nil, fmt.Errorf("msgpack row %d: %w", i+1, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// WriteSnapshot encodes entries in the msgpack snapshot format.
func WriteSnapshot(w io.Writer, entries []schedule.Entry) error {
	snap := snapshot{
		Version: snapshotVersion,
		Rows:    make([][]string, len(entries)),
	}
	for i, e := range entries {
		row := e.Fields()
		snap.Rows[i] = row[:]
	}
	return msgpack.NewEncoder(w).Encode(&snap)
}
