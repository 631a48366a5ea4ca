package snapshotmock

import (
	"context"

	domain "backlog-snapshot-api/internal/domain/snapshot"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups report domain.ErrNotFound; unset writes succeed.
type Repo struct {
	CreateFn            func(ctx context.Context, s *domain.Snapshot) error
	GetByIDFn           func(ctx context.Context, id int64) (*domain.Snapshot, error)
	GetLatestFn         func(ctx context.Context) (*domain.Snapshot, error)
	ListFn              func(ctx context.Context) ([]domain.Snapshot, error)
	UpdateDescriptionFn func(ctx context.Context, id int64, description string) error
	DeleteFn            func(ctx context.Context, id int64) error
}

func (m *Repo) Create(ctx context.Context, s *domain.Snapshot) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}
func (m *Repo) GetByID(ctx context.Context, id int64) (*domain.Snapshot, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}
func (m *Repo) GetLatest(ctx context.Context) (*domain.Snapshot, error) {
	if m.GetLatestFn != nil {
		return m.GetLatestFn(ctx)
	}
	return nil, domain.ErrNotFound
}
func (m *Repo) List(ctx context.Context) ([]domain.Snapshot, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}
func (m *Repo) UpdateDescription(ctx context.Context, id int64, description string) error {
	if m.UpdateDescriptionFn != nil {
		return m.UpdateDescriptionFn(ctx, id, description)
	}
	return nil
}
func (m *Repo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
