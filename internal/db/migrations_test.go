package db

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/logger"
)

// openTestDB opens a uniquely named shared-cache in-memory database so
// every pooled connection sees the same schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.New())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	return db
}

func TestMigratorAppliesAllAndRecords(t *testing.T) {
	db := openTestDB(t)
	m := NewMigrator(db, logger.Nop())

	if err := m.Run(All()); err != nil {
		t.Fatalf("migration run failed: %v", err)
	}

	var records []migrationRecord
	if err := db.Order("version ASC").Find(&records).Error; err != nil {
		t.Fatalf("failed to read ledger: %v", err)
	}
	if len(records) != len(All()) {
		t.Fatalf("got %d ledger rows, want %d", len(records), len(All()))
	}
	if records[0].Version != 1 || records[0].Name != "initial_schema" {
		t.Fatalf("unexpected first ledger row: %+v", records[0])
	}

	for _, table := range []string{"workspaces", "projects", "state_events", "canvas_states"} {
		var count int64
		if err := db.Raw(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&count).Error; err != nil {
			t.Fatalf("failed to inspect schema: %v", err)
		}
		if count != 1 {
			t.Fatalf("table %s missing after migration", table)
		}
	}
}

func TestMigratorIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	m := NewMigrator(db, logger.Nop())

	if err := m.Run(All()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := m.Run(All()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	var count int64
	if err := db.Model(&migrationRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count ledger rows: %v", err)
	}
	if count != int64(len(All())) {
		t.Fatalf("got %d ledger rows after rerun, want %d", count, len(All()))
	}
}

func TestMigratorRollsBackFailedMigration(t *testing.T) {
	db := openTestDB(t)
	m := NewMigrator(db, logger.Nop())

	bad := []Migration{
		{Version: 99, Name: "broken", Up: func(tx *gorm.DB) error {
			return tx.Exec("THIS IS NOT SQL").Error
		}},
	}
	if err := m.Run(bad); err == nil {
		t.Fatal("expected error from broken migration")
	}

	var count int64
	if err := db.Model(&migrationRecord{}).Where("version = ?", 99).Count(&count).Error; err != nil {
		t.Fatalf("failed to count ledger rows: %v", err)
	}
	if count != 0 {
		t.Fatal("failed migration must not be recorded in the ledger")
	}
}
