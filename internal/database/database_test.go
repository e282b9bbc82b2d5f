package database_test

import (
	"testing"

	"restosearch/internal/config"
	"restosearch/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate_SQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: config.DriverSQLite, SQLitePath: "file::memory:"}

	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Migrate(db))
	assert.True(t, db.Migrator().HasTable("user"))
	assert.True(t, db.Migrator().HasTable("transaction"))
	assert.NoError(t, database.Pinger(db)())
}

func TestOpen_MemoryDriverRejected(t *testing.T) {
	_, err := database.Open(&config.Config{DBDriver: config.DriverMemory})
	assert.Error(t, err)
}
