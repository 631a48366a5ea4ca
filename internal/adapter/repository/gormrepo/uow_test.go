package gormrepo

import (
	"context"
	"errors"
	"testing"

	"backlog-snapshot-api/internal/domain/snapshot"
	"backlog-snapshot-api/internal/domain/uow"
	"backlog-snapshot-api/internal/testutil/sqlitedb"
)

// ----------------------------- Tests -----------------------------

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := sqlitedb.Open(t)
	ctx := context.Background()
	guow := NewGormUoW(db, 0)

	var id int64
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		s := &snapshot.Snapshot{Description: "commit"}
		if err := r.Snapshots.Create(ctx, s); err != nil {
			return err
		}
		id = s.ID
		_, err := r.Rows.InsertRows(ctx, snapshot.TablePriceTable, priceRecords(s.ID, 3))
		return err
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := NewSnapshotRepository(db).GetByID(ctx, id); err != nil {
		t.Fatalf("snapshot not visible after commit: %v", err)
	}
	if got := sqlitedb.Count(t, db, "price_table", id); got != 3 {
		t.Fatalf("rows after commit = %d, want 3", got)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := sqlitedb.Open(t)
	ctx := context.Background()
	guow := NewGormUoW(db, 0)

	sentinel := errors.New("boom")
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		s := &snapshot.Snapshot{Description: "rollback"}
		if err := r.Snapshots.Create(ctx, s); err != nil {
			return err
		}
		if _, err := r.Rows.InsertRows(ctx, snapshot.TablePriceTable, priceRecords(s.ID, 3)); err != nil {
			return err
		}
		return sentinel // force rollback
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("want sentinel, got %v", err)
	}

	if got := sqlitedb.Count(t, db, "snapshots"); got != 0 {
		t.Fatalf("snapshots after rollback = %d, want 0", got)
	}
	if got := sqlitedb.Count(t, db, "price_table"); got != 0 {
		t.Fatalf("rows after rollback = %d, want 0", got)
	}
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := sqlitedb.Open(t)
	if err := Migrate(context.Background(), db, snapshot.Models()...); err != nil {
		t.Fatalf("Migrate twice: %v", err)
	}
	for _, table := range append([]snapshot.Table{"snapshots"}, snapshot.ChildTables...) {
		if !db.Migrator().HasTable(string(table)) {
			t.Fatalf("missing table %s", table)
		}
	}
}
