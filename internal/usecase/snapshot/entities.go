package snapshot

import (
	domain "backlog-snapshot-api/internal/domain/snapshot"
)

// Files holds the raw upload for each child table that was supplied.
type Files map[domain.Table][]byte

type CreateInput struct {
	Description string
	Files       Files
	// CreatedBy is the caller id; empty means unknown.
	CreatedBy string
}

type CreateResult struct {
	SnapshotID int64 `json:"snapshot_id"`
	RowsSaved  int   `json:"rows_saved"`
}

type UpdateResult struct {
	SnapshotID    int64          `json:"snapshot_id"`
	UpdatedTables []domain.Table `json:"updated_tables"`
	RowsUpdated   int            `json:"rows_updated"`
}

// Bundle is a snapshot with all six child tables. Table slices are never nil.
type Bundle struct {
	Snapshot       *domain.Snapshot           `json:"snapshot"`
	OrderData      []domain.OrderRow          `json:"order_data"`
	PriceTable     []domain.PriceRow          `json:"price_table"`
	PlanCustomer   []domain.PlanCustomerRow   `json:"plan_customer"`
	ExpectCustomer []domain.ExpectCustomerRow `json:"expect_customer"`
	PlanCategory   []domain.PlanCategoryRow   `json:"plan_category"`
	ActualSales    []domain.ActualSalesRow    `json:"actual_sales"`
}

func newBundle(s *domain.Snapshot) *Bundle {
	return &Bundle{
		Snapshot:       s,
		OrderData:      []domain.OrderRow{},
		PriceTable:     []domain.PriceRow{},
		PlanCustomer:   []domain.PlanCustomerRow{},
		ExpectCustomer: []domain.ExpectCustomerRow{},
		PlanCategory:   []domain.PlanCategoryRow{},
		ActualSales:    []domain.ActualSalesRow{},
	}
}

func (b *Bundle) targets() map[domain.Table]any {
	return map[domain.Table]any{
		domain.TableOrderData:      &b.OrderData,
		domain.TablePriceTable:     &b.PriceTable,
		domain.TablePlanCustomer:   &b.PlanCustomer,
		domain.TableExpectCustomer: &b.ExpectCustomer,
		domain.TablePlanCategory:   &b.PlanCategory,
		domain.TableActualSales:    &b.ActualSales,
	}
}

// normalize replaces nil slices left behind by a scan with empty ones.
func (b *Bundle) normalize() {
	if b.OrderData == nil {
		b.OrderData = []domain.OrderRow{}
	}
	if b.PriceTable == nil {
		b.PriceTable = []domain.PriceRow{}
	}
	if b.PlanCustomer == nil {
		b.PlanCustomer = []domain.PlanCustomerRow{}
	}
	if b.ExpectCustomer == nil {
		b.ExpectCustomer = []domain.ExpectCustomerRow{}
	}
	if b.PlanCategory == nil {
		b.PlanCategory = []domain.PlanCategoryRow{}
	}
	if b.ActualSales == nil {
		b.ActualSales = []domain.ActualSalesRow{}
	}
}
