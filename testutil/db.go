// Package testutil provides an in-memory database for tests.
package testutil

import (
	"fmt"
	"testing"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrewpaige1/flashdeck-api/config"
)

// NewDB opens a private in-memory SQLite database with the schema migrated.
// The pool is limited to one connection so every query sees the same data.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name, err := gonanoid.New()
	if err != nil {
		t.Fatalf("generate db name: %v", err)
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)

	db, err := gorm.Open(config.Dialector(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() { _ = config.Close(db) })
	return db
}
