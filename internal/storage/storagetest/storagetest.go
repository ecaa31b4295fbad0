// Package storagetest opens throwaway in-memory databases for tests.
package storagetest

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sandoog/internal/storage"
)

// Open returns a migrated gateway over a private in-memory sqlite database
// with foreign keys enforced. The database is closed when the test ends.
func Open(t testing.TB) *storage.Gateway {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	require.NoError(t, err)

	// One connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, storage.AutoMigrate(db))

	gw := storage.NewGateway(db)
	t.Cleanup(func() { _ = gw.Close() })
	return gw
}
