package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/chrono-run/chrono-api/internal/config"
	"github.com/chrono-run/chrono-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabasePath:   filepath.Join(t.TempDir(), "chrono.db"),
		DBMaxOpenConns: 1,
		DBLogLevel:     "silent",
		AutoMigrate:    true,
	}
}

func TestConnect_Migrates(t *testing.T) {
	db, err := Connect(testConfig(t))
	require.NoError(t, err)
	defer Close(db)

	for _, table := range []string{"coureurs", "dossards", "courses", "inscriptions"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Registration{}, "idx_runner_race"))
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(&config.Config{DatabaseDriver: "oracle"})
	assert.Error(t, err)
}

func TestSeedBibs(t *testing.T) {
	db, err := Connect(testConfig(t))
	require.NoError(t, err)
	defer Close(db)

	ctx := context.Background()

	created, err := SeedBibs(ctx, db, 100, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 5, created)

	// Overlapping range only adds the new numbers.
	created, err = SeedBibs(ctx, db, 103, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 3, created)

	var bibs []models.Bib
	require.NoError(t, db.Order("numero").Find(&bibs).Error)
	require.Len(t, bibs, 8)
	assert.Equal(t, 100, bibs[0].Number)
	assert.Equal(t, 107, bibs[7].Number)
	for _, b := range bibs {
		assert.True(t, b.Available)
		assert.False(t, b.HasOwner())
	}

	created, err = SeedBibs(ctx, db, 1, 0)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, LogLevel("silent"))
	assert.Equal(t, logger.Error, LogLevel("ERROR"))
	assert.Equal(t, logger.Info, LogLevel("info"))
	assert.Equal(t, logger.Warn, LogLevel("warn"))
	assert.Equal(t, logger.Warn, LogLevel("bogus"))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "chrono.db?_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL", SQLiteDSN("chrono.db"))
	assert.Equal(t, "file:chrono.db?cache=shared&_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL", SQLiteDSN("file:chrono.db?cache=shared"))
}
