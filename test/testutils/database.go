// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/weeklydish/planner/internal/infrastructure/persistence/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDatabase provides an in-memory SQLite database with the full schema
type TestDatabase struct {
	GormDB *gorm.DB
	t      *testing.T
}

// SetupTestDatabase creates a fresh schema that is closed when the test ends
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	db, err := sqlite.SetupDatabase(":memory:", logger.Silent)
	require.NoError(t, err, "Failed to set up test database")

	testDB := &TestDatabase{GormDB: db, t: t}
	t.Cleanup(testDB.Cleanup)

	return testDB
}

// TruncateAllTables removes all data from tables while preserving structure
func (td *TestDatabase) TruncateAllTables() {
	for _, table := range []string{"meal_entries", "recipe_steps", "ingredients", "recipes"} {
		require.NoError(td.t, td.GormDB.Exec("DELETE FROM "+table).Error)
	}
}

// CountRecords counts rows in a table
func (td *TestDatabase) CountRecords(table string) int64 {
	var n int64
	require.NoError(td.t, td.GormDB.Table(table).Count(&n).Error)
	return n
}

// Cleanup closes the connection
func (td *TestDatabase) Cleanup() {
	if sqlDB, err := td.GormDB.DB(); err == nil {
		sqlDB.Close()
	}
}
