package gormrepo

import (
	"context"

	"backlog-snapshot-api/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct {
	db        *gorm.DB
	batchSize int
}

func NewGormUoW(db *gorm.DB, batchSize int) *GormUoW { return &GormUoW{db: db, batchSize: batchSize} }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := uow.Repos{
			Snapshots: &SnapshotRepository{db: tx},
			Rows:      NewRowRepository(tx, u.batchSize),
		}
		return fn(r)
	})
}

// Migrate creates or updates the snapshot schema.
func Migrate(ctx context.Context, db *gorm.DB, models ...any) error {
	return db.WithContext(ctx).AutoMigrate(models...)
}
