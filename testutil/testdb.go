package testutil

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tutusiji/lantu-next/database"
)

// ErrInjected is returned by writes failed on purpose.
var ErrInjected = errors.New("injected write failure")

// NewTestDB creates an isolated in-memory SQLite database with the schema
// migrated. The database is closed when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := database.SQLiteDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// NewTestDatabase wraps NewTestDB in the repository aggregate.
func NewTestDatabase(t *testing.T) database.Database {
	t.Helper()
	return database.New(NewTestDB(t))
}

// FailOnNthUpdate makes the Nth UPDATE statement issued through db fail with
// ErrInjected. Updates are counted starting at 1; inserts, deletes and reads
// pass through. The returned function disarms the injection.
func FailOnNthUpdate(t *testing.T, db *gorm.DB, n int32) func() {
	t.Helper()

	name := "testutil:fail_nth_update:" + uuid.NewString()
	var count atomic.Int32
	var armed atomic.Bool
	armed.Store(true)

	err := db.Callback().Update().Before("gorm:update").Register(name, func(tx *gorm.DB) {
		if !armed.Load() {
			return
		}
		if count.Add(1) == n {
			_ = tx.AddError(ErrInjected)
		}
	})
	if err != nil {
		t.Fatalf("failed to register update callback: %v", err)
	}

	disarm := func() { armed.Store(false) }
	t.Cleanup(disarm)
	return disarm
}
