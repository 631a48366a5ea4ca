package gormrepo

import (
	"context"
	"errors"

	"backlog-snapshot-api/internal/domain/snapshot"

	"gorm.io/gorm"
)

type SnapshotRepository struct{ db *gorm.DB }

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository { return &SnapshotRepository{db: db} }

func (r *SnapshotRepository) Create(ctx context.Context, s *snapshot.Snapshot) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SnapshotRepository) GetByID(ctx context.Context, id int64) (*snapshot.Snapshot, error) {
	var out snapshot.Snapshot
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *SnapshotRepository) GetLatest(ctx context.Context) (*snapshot.Snapshot, error) {
	var out snapshot.Snapshot
	if err := r.db.WithContext(ctx).Order("id DESC").First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *SnapshotRepository) List(ctx context.Context) ([]snapshot.Snapshot, error) {
	out := []snapshot.Snapshot{}
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SnapshotRepository) UpdateDescription(ctx context.Context, id int64, description string) error {
	res := r.db.WithContext(ctx).Model(&snapshot.Snapshot{}).Where("id = ?", id).Update("description", description)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero affected rows when the value is unchanged.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *SnapshotRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&snapshot.Snapshot{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return snapshot.ErrNotFound
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return snapshot.ErrNotFound
	}
	return err
}
