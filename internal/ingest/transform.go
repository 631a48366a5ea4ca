package ingest

import (
	"fmt"

	"backlog-snapshot-api/internal/domain/snapshot"
)

// Op is the ingestion step that failed.
type Op string

const (
	OpDecode Op = "decode"
	OpStore  Op = "store"
)

// Error ties a decode or persistence failure to the table being ingested.
// Field is the upload slot the file came from, when known.
type Error struct {
	Table snapshot.Table
	Field string
	Op    Op
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("ingest %s: %v", e.slot(), e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Public describes the failure without the wrapped cause unless the cause is
// a decode error, whose text only concerns the uploaded file.
func (e *Error) Public() string {
	if e.Op == OpDecode {
		return e.Error()
	}
	return fmt.Sprintf("ingest %s: failed to %s rows", e.slot(), OpStore)
}

func (e *Error) slot() string {
	if e.Field == "" {
		return string(e.Table)
	}
	return fmt.Sprintf("%s (%s)", e.Table, e.Field)
}

// Transform projects every sheet row onto the schema's canonical columns and
// tags it with snapshotID. Source row order is kept. When two headers map to
// the same column, the rightmost one wins.
func Transform(s Schema, sheet *Sheet, snapshotID int64) []snapshot.Record {
	out := make([]snapshot.Record, 0, sheet.Len())
	if sheet.Len() == 0 {
		return out
	}

	targets := make([]string, len(sheet.Header))
	for i, h := range sheet.Header {
		if c, ok := s.Canonical(h); ok {
			targets[i] = c
		}
	}

	for _, row := range sheet.Rows {
		cells := make(map[string]string, len(s.Columns))
		for i, c := range targets {
			if c != "" {
				cells[c] = row[i]
			}
		}

		rec := make(snapshot.Record, len(s.Columns)+1)
		rec["snapshot_id"] = snapshotID
		for _, c := range s.Columns {
			v := cells[c]
			if s.IsNumeric(c) {
				rec[c] = Number(v)
			} else {
				rec[c] = v
			}
		}
		out = append(out, rec)
	}
	return out
}
