package database

import (
	"bytes"
	"errors"
	"testing"

	"restosearch/internal/config"
	"restosearch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLogger_IgnoresRecordNotFound(t *testing.T) {
	db, err := Open(&config.Config{DBDriver: config.DriverSQLite, SQLitePath: "file::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, Migrate(db))

	var buf bytes.Buffer
	session := db.Session(&gorm.Session{Logger: newLogger(&buf)})

	err = session.First(&models.User{}, "email = ?", "nobody@example.com").Error
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Empty(t, buf.String())

	// Real errors are still logged
	_ = session.Exec("SELECT * FROM no_such_table").Error
	assert.Contains(t, buf.String(), "no_such_table")
}
