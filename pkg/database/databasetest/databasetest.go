// Package databasetest opens throwaway sqlite databases for tests. Only test code
// imports it.
package databasetest

import (
	"testing"

	"gorm.io/gorm"

	"github.com/dwikikusuma/storefront/pkg/database"
)

// Open returns a private in-memory sqlite database closed with the test.
// A single connection keeps every query on the same in-memory instance.
func Open(t testing.TB, migrate ...func(*gorm.DB) error) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Config{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	for _, m := range migrate {
		if err := m(db); err != nil {
			t.Fatalf("migrate test db: %v", err)
		}
	}
	return db
}
