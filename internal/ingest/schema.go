package ingest

import (
	"fmt"
	"strings"

	"backlog-snapshot-api/internal/domain/snapshot"
)

// DefaultFiscalYear is the year used for the "<year>년" total column when
// none is configured.
const DefaultFiscalYear = 2025

// Schema describes how one source file lands in one child table.
type Schema struct {
	Table snapshot.Table
	// Field is the multipart form field (and CLI flag stem) that carries the file.
	Field string
	// Mapping is keyed by trimmed source header; canonical names map to themselves.
	Mapping map[string]string
	Numeric map[string]bool
	// Columns is the canonical projection, in storage order.
	Columns []string
}

// Canonical returns the canonical field for a raw header, or false when the
// header is not recognized and should be dropped.
func (s Schema) Canonical(header string) (string, bool) {
	f, ok := s.Mapping[strings.TrimSpace(header)]
	return f, ok
}

func (s Schema) IsNumeric(column string) bool { return s.Numeric[column] }

func newSchema(table snapshot.Table, field string, columns, numeric []string, aliases map[string]string) Schema {
	s := Schema{
		Table:   table,
		Field:   field,
		Mapping: make(map[string]string, len(columns)+len(aliases)),
		Numeric: make(map[string]bool, len(numeric)),
		Columns: columns,
	}
	for _, c := range columns {
		s.Mapping[c] = c
	}
	for alias, c := range aliases {
		s.Mapping[alias] = c
	}
	for _, c := range numeric {
		s.Numeric[c] = true
	}
	return s
}

var monthColumns = func() []string {
	out := make([]string, 12)
	for i := range out {
		out[i] = fmt.Sprintf("month_%02d", i+1)
	}
	return out
}()

func monthlyAliases(fiscalYear int) map[string]string {
	m := map[string]string{fmt.Sprintf("%d년", fiscalYear): "year_total"}
	for i, c := range monthColumns {
		m[fmt.Sprintf("%d월", i+1)] = c
	}
	return m
}

func withMonthly(lead string, fiscalYear int, extra map[string]string) (columns, numeric []string, aliases map[string]string) {
	numeric = append([]string{"year_total"}, monthColumns...)
	columns = append([]string{lead}, numeric...)
	aliases = monthlyAliases(fiscalYear)
	for k, v := range extra {
		aliases[k] = v
	}
	return columns, numeric, aliases
}

// Registry holds the schema for every child table.
type Registry struct {
	ordered []Schema
	byTable map[snapshot.Table]Schema
}

// NewRegistry builds the schemas for all six tables. fiscalYear selects the
// header that maps to year_total on the plan and expectation tables.
func NewRegistry(fiscalYear int) *Registry {
	if fiscalYear <= 0 {
		fiscalYear = DefaultFiscalYear
	}

	planCols, planNum, planAliases := withMonthly("customer", fiscalYear, map[string]string{"고객사": "customer"})
	expCols, expNum, expAliases := withMonthly("customer", fiscalYear, map[string]string{"고객사": "customer"})
	catCols, catNum, catAliases := withMonthly("category", fiscalYear, map[string]string{
		"중분류":  "category",
		"중분류명": "category",
	})

	schemas := []Schema{
		newSchema(snapshot.TableOrderData, "order_file",
			[]string{"creation_date", "customer_code", "sales_team", "material_code", "category_name", "backlog_qty", "unit_price", "delivery_date"},
			[]string{"backlog_qty", "unit_price"},
			map[string]string{
				"생성일":   "creation_date",
				"고객약호":  "customer_code",
				"영업팀명":  "sales_team",
				"자재":    "material_code",
				"중분류명":  "category_name",
				"미납잔량":  "backlog_qty",
				"단가":    "unit_price",
				"변경납기일": "delivery_date",
			}),
		newSchema(snapshot.TablePriceTable, "price_file",
			[]string{"category_code", "average_price"},
			[]string{"average_price"},
			map[string]string{
				"관리유형코드(중)": "category_code",
				"중분류":       "category_code",
				"평균단가":      "average_price",
			}),
		newSchema(snapshot.TablePlanCustomer, "plan_customer_file", planCols, planNum, planAliases),
		newSchema(snapshot.TableExpectCustomer, "expect_customer_file", expCols, expNum, expAliases),
		newSchema(snapshot.TablePlanCategory, "plan_category_file", catCols, catNum, catAliases),
		newSchema(snapshot.TableActualSales, "actual_sales_file",
			[]string{"customer_code", "category_name", "sales_amount", "invoice_date"},
			[]string{"sales_amount"},
			map[string]string{
				"고객약호":  "customer_code",
				"중분류명":  "category_name",
				"매출":    "sales_amount",
				"대금청구일": "invoice_date",
			}),
	}

	r := &Registry{ordered: schemas, byTable: make(map[snapshot.Table]Schema, len(schemas))}
	for _, s := range schemas {
		r.byTable[s.Table] = s
	}
	return r
}

// All returns the schemas in ingestion order.
func (r *Registry) All() []Schema { return r.ordered }

func (r *Registry) Get(t snapshot.Table) (Schema, bool) {
	s, ok := r.byTable[t]
	return s, ok
}
