package gormrepo

import (
	"context"
	"fmt"

	"backlog-snapshot-api/internal/domain/snapshot"

	"gorm.io/gorm"
)

// DefaultBatchSize keeps multi-row INSERTs under the bind-parameter limits of
// every supported driver for the widest table.
const DefaultBatchSize = 200

type RowRepository struct {
	db        *gorm.DB
	batchSize int
}

func NewRowRepository(db *gorm.DB, batchSize int) *RowRepository {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &RowRepository{db: db, batchSize: batchSize}
}

func modelFor(t snapshot.Table) (any, error) {
	switch t {
	case snapshot.TableOrderData:
		return &snapshot.OrderRow{}, nil
	case snapshot.TablePriceTable:
		return &snapshot.PriceRow{}, nil
	case snapshot.TablePlanCustomer:
		return &snapshot.PlanCustomerRow{}, nil
	case snapshot.TableExpectCustomer:
		return &snapshot.ExpectCustomerRow{}, nil
	case snapshot.TablePlanCategory:
		return &snapshot.PlanCategoryRow{}, nil
	case snapshot.TableActualSales:
		return &snapshot.ActualSalesRow{}, nil
	}
	return nil, fmt.Errorf("unknown table %q", t)
}

func (r *RowRepository) InsertRows(ctx context.Context, table snapshot.Table, rows []snapshot.Record) (int, error) {
	model, err := modelFor(table)
	if err != nil {
		return 0, err
	}
	saved := 0
	for start := 0; start < len(rows); start += r.batchSize {
		end := min(start+r.batchSize, len(rows))
		batch := make([]map[string]any, 0, end-start)
		for _, rec := range rows[start:end] {
			batch = append(batch, map[string]any(rec))
		}
		if err := r.db.WithContext(ctx).Model(model).Create(&batch).Error; err != nil {
			return saved, fmt.Errorf("insert %s rows %d-%d: %w", table, start, end-1, err)
		}
		saved += len(batch)
	}
	return saved, nil
}

func (r *RowRepository) ListRows(ctx context.Context, table snapshot.Table, snapshotID int64, dest any) error {
	if !table.Valid() {
		return fmt.Errorf("unknown table %q", table)
	}
	return r.db.WithContext(ctx).
		Table(string(table)).
		Where("snapshot_id = ?", snapshotID).
		Order("id ASC").
		Find(dest).Error
}

func (r *RowRepository) DeleteRows(ctx context.Context, table snapshot.Table, snapshotID int64) (int64, error) {
	model, err := modelFor(table)
	if err != nil {
		return 0, err
	}
	res := r.db.WithContext(ctx).Where("snapshot_id = ?", snapshotID).Delete(model)
	return res.RowsAffected, res.Error
}
