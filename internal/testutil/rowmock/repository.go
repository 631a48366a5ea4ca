package rowmock

import (
	"context"

	domain "backlog-snapshot-api/internal/domain/snapshot"
)

var _ domain.RowRepository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.RowRepository.
// Unset methods succeed; InsertRows then reports every row as saved.
type Repo struct {
	InsertRowsFn func(ctx context.Context, table domain.Table, rows []domain.Record) (int, error)
	ListRowsFn   func(ctx context.Context, table domain.Table, snapshotID int64, dest any) error
	DeleteRowsFn func(ctx context.Context, table domain.Table, snapshotID int64) (int64, error)

	// Inserted collects rows passed to InsertRows, per table, in call order.
	Inserted map[domain.Table][]domain.Record
}

func (m *Repo) InsertRows(ctx context.Context, table domain.Table, rows []domain.Record) (int, error) {
	if m.Inserted == nil {
		m.Inserted = map[domain.Table][]domain.Record{}
	}
	m.Inserted[table] = append(m.Inserted[table], rows...)
	if m.InsertRowsFn != nil {
		return m.InsertRowsFn(ctx, table, rows)
	}
	return len(rows), nil
}
func (m *Repo) ListRows(ctx context.Context, table domain.Table, snapshotID int64, dest any) error {
	if m.ListRowsFn != nil {
		return m.ListRowsFn(ctx, table, snapshotID, dest)
	}
	return nil
}
func (m *Repo) DeleteRows(ctx context.Context, table domain.Table, snapshotID int64) (int64, error) {
	if m.DeleteRowsFn != nil {
		return m.DeleteRowsFn(ctx, table, snapshotID)
	}
	return 0, nil
}
