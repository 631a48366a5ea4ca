package snapshot

import "context"

type Repository interface {
	Create(ctx context.Context, s *Snapshot) error
	// GetByID returns ErrNotFound when no snapshot has the id.
	GetByID(ctx context.Context, id int64) (*Snapshot, error)
	// GetLatest returns the snapshot with the highest id, or ErrNotFound.
	GetLatest(ctx context.Context) (*Snapshot, error)
	List(ctx context.Context) ([]Snapshot, error)
	UpdateDescription(ctx context.Context, id int64, description string) error
	Delete(ctx context.Context, id int64) error
}

// RowRepository is generic table access for the child tables, addressed by
// table name and filtered by snapshot id.
type RowRepository interface {
	InsertRows(ctx context.Context, table Table, rows []Record) (int, error)
	// ListRows scans rows into dest, which must point to the slice type for table.
	ListRows(ctx context.Context, table Table, snapshotID int64, dest any) error
	DeleteRows(ctx context.Context, table Table, snapshotID int64) (int64, error)
}
