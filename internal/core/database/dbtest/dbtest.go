// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"testing"

	"gorm.io/gorm"

	"taskboard/internal/core/database"
)

// Open returns a migrated in-memory sqlite database that is closed when t ends.
// The pool is pinned to one connection so the schema survives between queries.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
