//go:build integration
// +build integration

package database

import (
	"context"
	"testing"
	"time"

	"github.com/chrono-run/chrono-api/internal/config"
	"github.com/chrono-run/chrono-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func TestPostgres_BibConstraints(t *testing.T) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("chrono"),
		postgres.WithUsername("chrono"),
		postgres.WithPassword("chrono"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pgContainer.Terminate(ctx)
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Connect(&config.Config{
		DatabaseDriver: config.DriverPostgres,
		DatabaseURL:    dsn,
		DBLogLevel:     "silent",
		AutoMigrate:    true,
	})
	require.NoError(t, err)
	defer Close(db)

	created, err := SeedBibs(ctx, db, 1, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 3, created)

	// Two bibs cannot share a UID owner.
	uid := "tag-1"
	require.NoError(t, db.Model(&models.Bib{}).Where("numero = ?", 1).
		Updates(map[string]any{"disponible": false, "uid": uid}).Error)
	err = db.Model(&models.Bib{}).Where("numero = ?", 2).
		Updates(map[string]any{"disponible": false, "uid": uid}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// One registration per (runner, race).
	require.NoError(t, db.Create(&models.Registration{RunnerID: 1, RaceID: 1, Status: models.StatusRegistered}).Error)
	err = db.Create(&models.Registration{RunnerID: 1, RaceID: 1, Status: models.StatusWaitlisted}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
