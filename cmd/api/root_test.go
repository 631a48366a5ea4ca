package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"backlog-snapshot-api/internal/infrastructure/db"

	"github.com/sirupsen/logrus"
)

func setEnv(t *testing.T, dbPath string) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", dbPath)
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("LOG_LEVEL", "error")
}

func TestFlagName(t *testing.T) {
	if got := flagName("plan_customer_file"); got != "plan-customer-file" {
		t.Fatalf("flagName = %q", got)
	}
}

func TestImportCmd_CreatesSnapshot(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "snap.db")
	setEnv(t, dbPath)

	order := filepath.Join(dir, "order.csv")
	if err := os.WriteFile(order, []byte("고객약호,미납잔량\nC001,\"1,000\"\nC002,5\n"), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"import", "--description", "from cli", "--created-by", "ops", "--order-file", order})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("import: %v", err)
	}

	var res struct {
		SnapshotID int64 `json:"snapshot_id"`
		RowsSaved  int   `json:"rows_saved"`
	}
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("output is not JSON: %v; raw=%s", err, out.String())
	}
	if res.SnapshotID == 0 || res.RowsSaved != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}

	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	gdb, err := db.OpenGorm("sqlite", dbPath, l)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sqlDB, _ := gdb.DB()
	defer sqlDB.Close()

	var createdBy string
	if err := gdb.Table("snapshots").Select("created_by").Where("id = ?", res.SnapshotID).Scan(&createdBy).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if createdBy != "ops" {
		t.Fatalf("created_by = %q", createdBy)
	}
}

func TestImportCmd_MissingFile(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, filepath.Join(dir, "snap.db"))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"import", "--price-file", filepath.Join(dir, "nope.csv")})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestMigrateCmd(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "snap.db")
	setEnv(t, dbPath)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database file not created: %v", err)
	}
}

func TestMigrateCmd_InvalidConfig(t *testing.T) {
	setEnv(t, filepath.Join(t.TempDir(), "snap.db"))
	t.Setenv("DB_DRIVER", "oracle")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected config error")
	}
}
