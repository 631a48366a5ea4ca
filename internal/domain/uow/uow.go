package uow

import (
	"context"

	"backlog-snapshot-api/internal/domain/snapshot"
)

type Repos struct {
	Snapshots snapshot.Repository
	Rows      snapshot.RowRepository
}

type UnitOfWork interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
