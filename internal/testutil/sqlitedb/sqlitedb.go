package sqlitedb

import (
	"fmt"
	"strings"
	"testing"

	"backlog-snapshot-api/internal/domain/snapshot"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var nameReplacer = strings.NewReplacer("/", "_", " ", "_", "#", "_")

// Open returns a migrated in-memory sqlite database private to t. The shared
// cache keeps every pooled connection on the same database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", nameReplacer.Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(snapshot.Models()...); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Count returns the number of rows in table, optionally filtered by snapshot id.
func Count(t *testing.T, db *gorm.DB, table string, snapshotID ...int64) int64 {
	t.Helper()
	q := db.Table(table)
	if len(snapshotID) > 0 {
		q = q.Where("snapshot_id = ?", snapshotID[0])
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
