package ingest

import (
	"testing"

	"backlog-snapshot-api/internal/domain/snapshot"

	"github.com/stretchr/testify/require"
)

func TestRegistry_CoversEveryChildTable(t *testing.T) {
	r := NewRegistry(0)
	require.Len(t, r.All(), len(snapshot.ChildTables))
	for i, table := range snapshot.ChildTables {
		s, ok := r.Get(table)
		require.True(t, ok, "missing schema for %s", table)
		require.Equal(t, table, r.All()[i].Table)
		require.NotEmpty(t, s.Field)
	}
}

func TestSchema_AliasesAgreeWithCanonicalNames(t *testing.T) {
	r := NewRegistry(DefaultFiscalYear)
	for _, s := range r.All() {
		for alias, want := range s.Mapping {
			got, ok := s.Canonical(alias)
			require.True(t, ok)
			require.Equal(t, want, got)

			self, ok := s.Canonical(want)
			require.True(t, ok, "%s: canonical %q must map to itself", s.Table, want)
			require.Equal(t, want, self)
		}
		for _, c := range s.Columns {
			got, ok := s.Canonical(c)
			require.True(t, ok)
			require.Equal(t, c, got)
		}
	}
}

func TestSchema_Canonical(t *testing.T) {
	r := NewRegistry(DefaultFiscalYear)
	order, _ := r.Get(snapshot.TableOrderData)
	price, _ := r.Get(snapshot.TablePriceTable)
	plan, _ := r.Get(snapshot.TablePlanCustomer)
	cat, _ := r.Get(snapshot.TablePlanCategory)

	cases := []struct {
		s      Schema
		header string
		want   string
		ok     bool
	}{
		{order, "고객약호", "customer_code", true},
		{order, "  미납잔량 ", "backlog_qty", true},
		{order, "customer_code", "customer_code", true},
		{order, "Customer_Code", "", false},
		{order, "비고", "", false},
		{price, "관리유형코드(중)", "category_code", true},
		{price, "중분류", "category_code", true},
		{plan, "2025년", "year_total", true},
		{plan, "2024년", "", false},
		{plan, "1월", "month_01", true},
		{plan, "12월", "month_12", true},
		{cat, "중분류", "category", true},
		{cat, "중분류명", "category", true},
	}
	for _, tc := range cases {
		got, ok := tc.s.Canonical(tc.header)
		require.Equal(t, tc.ok, ok, "%s %q", tc.s.Table, tc.header)
		require.Equal(t, tc.want, got, "%s %q", tc.s.Table, tc.header)
	}
}

func TestNewRegistry_FiscalYear(t *testing.T) {
	r := NewRegistry(2026)
	s, _ := r.Get(snapshot.TableExpectCustomer)

	got, ok := s.Canonical("2026년")
	require.True(t, ok)
	require.Equal(t, "year_total", got)

	_, ok = s.Canonical("2025년")
	require.False(t, ok)
}

func TestSchema_NumericColumns(t *testing.T) {
	r := NewRegistry(DefaultFiscalYear)
	order, _ := r.Get(snapshot.TableOrderData)
	require.True(t, order.IsNumeric("backlog_qty"))
	require.True(t, order.IsNumeric("unit_price"))
	require.False(t, order.IsNumeric("customer_code"))

	plan, _ := r.Get(snapshot.TablePlanCategory)
	require.Len(t, plan.Columns, 14)
	for _, c := range plan.Columns[1:] {
		require.True(t, plan.IsNumeric(c), c)
	}
}
