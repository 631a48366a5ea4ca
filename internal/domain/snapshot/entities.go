package snapshot

import "time"

// Table names one of the six child tables owned by a snapshot.
type Table string

const (
	TableOrderData      Table = "order_data"
	TablePriceTable     Table = "price_table"
	TablePlanCustomer   Table = "plan_customer"
	TableExpectCustomer Table = "expect_customer"
	TablePlanCategory   Table = "plan_category"
	TableActualSales    Table = "actual_sales"
)

// ChildTables lists every child table in ingestion order.
var ChildTables = []Table{
	TableOrderData,
	TablePriceTable,
	TablePlanCustomer,
	TableExpectCustomer,
	TablePlanCategory,
	TableActualSales,
}

func (t Table) Valid() bool {
	for _, c := range ChildTables {
		if c == t {
			return true
		}
	}
	return false
}

// Record is one canonical row ready for persistence, keyed by column name.
type Record map[string]any

type Snapshot struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	CreatedBy   *string   `gorm:"size:64;column:created_by" json:"created_by"`
}

func (Snapshot) TableName() string { return "snapshots" }

type OrderRow struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SnapshotID   int64     `gorm:"not null;index" json:"snapshot_id"`
	Snapshot     *Snapshot `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreationDate string    `gorm:"size:64" json:"creation_date"`
	CustomerCode string    `gorm:"size:128" json:"customer_code"`
	SalesTeam    string    `gorm:"size:128" json:"sales_team"`
	MaterialCode string    `gorm:"size:128" json:"material_code"`
	CategoryName string    `gorm:"size:128" json:"category_name"`
	BacklogQty   float64   `gorm:"not null;default:0" json:"backlog_qty"`
	UnitPrice    float64   `gorm:"not null;default:0" json:"unit_price"`
	DeliveryDate string    `gorm:"size:64" json:"delivery_date"`
}

func (OrderRow) TableName() string { return string(TableOrderData) }

type PriceRow struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SnapshotID   int64     `gorm:"not null;index" json:"snapshot_id"`
	Snapshot     *Snapshot `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CategoryCode string    `gorm:"size:128" json:"category_code"`
	AveragePrice float64   `gorm:"not null;default:0" json:"average_price"`
}

func (PriceRow) TableName() string { return string(TablePriceTable) }

// Monthly is the year total plus twelve monthly figures shared by the plan
// and expectation tables.
type Monthly struct {
	YearTotal float64 `gorm:"not null;default:0" json:"year_total"`
	Month01   float64 `gorm:"column:month_01;not null;default:0" json:"month_01"`
	Month02   float64 `gorm:"column:month_02;not null;default:0" json:"month_02"`
	Month03   float64 `gorm:"column:month_03;not null;default:0" json:"month_03"`
	Month04   float64 `gorm:"column:month_04;not null;default:0" json:"month_04"`
	Month05   float64 `gorm:"column:month_05;not null;default:0" json:"month_05"`
	Month06   float64 `gorm:"column:month_06;not null;default:0" json:"month_06"`
	Month07   float64 `gorm:"column:month_07;not null;default:0" json:"month_07"`
	Month08   float64 `gorm:"column:month_08;not null;default:0" json:"month_08"`
	Month09   float64 `gorm:"column:month_09;not null;default:0" json:"month_09"`
	Month10   float64 `gorm:"column:month_10;not null;default:0" json:"month_10"`
	Month11   float64 `gorm:"column:month_11;not null;default:0" json:"month_11"`
	Month12   float64 `gorm:"column:month_12;not null;default:0" json:"month_12"`
}

type PlanCustomerRow struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SnapshotID int64     `gorm:"not null;index" json:"snapshot_id"`
	Snapshot   *Snapshot `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Customer   string    `gorm:"size:128" json:"customer"`
	Monthly    `gorm:"embedded"`
}

func (PlanCustomerRow) TableName() string { return string(TablePlanCustomer) }

type ExpectCustomerRow struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SnapshotID int64     `gorm:"not null;index" json:"snapshot_id"`
	Snapshot   *Snapshot `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Customer   string    `gorm:"size:128" json:"customer"`
	Monthly    `gorm:"embedded"`
}

func (ExpectCustomerRow) TableName() string { return string(TableExpectCustomer) }

type PlanCategoryRow struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SnapshotID int64     `gorm:"not null;index" json:"snapshot_id"`
	Snapshot   *Snapshot `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Category   string    `gorm:"size:128" json:"category"`
	Monthly    `gorm:"embedded"`
}

func (PlanCategoryRow) TableName() string { return string(TablePlanCategory) }

type ActualSalesRow struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SnapshotID   int64     `gorm:"not null;index" json:"snapshot_id"`
	Snapshot     *Snapshot `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CustomerCode string    `gorm:"size:128" json:"customer_code"`
	CategoryName string    `gorm:"size:128" json:"category_name"`
	SalesAmount  float64   `gorm:"not null;default:0" json:"sales_amount"`
	InvoiceDate  string    `gorm:"size:64" json:"invoice_date"`
}

func (ActualSalesRow) TableName() string { return string(TableActualSales) }

// Models returns one zero value per persisted type, parents first, for migrations.
func Models() []any {
	return []any{
		&Snapshot{},
		&OrderRow{},
		&PriceRow{},
		&PlanCustomerRow{},
		&ExpectCustomerRow{},
		&PlanCategoryRow{},
		&ActualSalesRow{},
	}
}
