package handlers

import (
	"testing"

	"github.com/chrono-run/chrono-api/internal/database"
	"github.com/chrono-run/chrono-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB returns a migrated in-memory database. The pool is capped at one
// connection because every sqlite :memory: connection is its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func requireStatus(t *testing.T, err error, status int) *APIError {
	t.Helper()
	require.Error(t, err)

	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, status, se.GetStatus(), "error: %v", err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	return apiErr
}

func intPtr(n int) *int { return &n }

func seedBib(t *testing.T, db *gorm.DB, number int) models.Bib {
	t.Helper()
	bib := models.Bib{Number: number, Available: true}
	require.NoError(t, db.Create(&bib).Error)
	return bib
}

func seedRunner(t *testing.T, db *gorm.DB, last, first string) models.Runner {
	t.Helper()
	runner := models.Runner{LastName: last, FirstName: first, BirthDate: "1990-01-01", Email: first + "@example.com"}
	require.NoError(t, db.Create(&runner).Error)
	return runner
}

func seedRace(t *testing.T, db *gorm.DB, name, date string, max *int) models.Race {
	t.Helper()
	race := models.Race{Name: name, Date: date, Time: "09:00", Distance: 10, MaxParticipants: max}
	require.NoError(t, db.Create(&race).Error)
	return race
}

func loadBib(t *testing.T, db *gorm.DB, id uint) models.Bib {
	t.Helper()
	var bib models.Bib
	require.NoError(t, db.First(&bib, id).Error)
	return bib
}

// assertBibInvariant checks that no available bib has an owner and that no
// owner holds two bibs.
func assertBibInvariant(t *testing.T, db *gorm.DB) {
	t.Helper()

	var bibs []models.Bib
	require.NoError(t, db.Find(&bibs).Error)

	uids := map[string]int{}
	runners := map[uint]int{}
	for _, b := range bibs {
		if b.Available {
			assert.False(t, b.HasOwner(), "available bib %d has an owner", b.Number)
		}
		if b.UID != nil {
			uids[*b.UID]++
			assert.Equal(t, 1, uids[*b.UID], "uid %q holds several bibs", *b.UID)
		}
		if b.RunnerID != nil {
			runners[*b.RunnerID]++
			assert.Equal(t, 1, runners[*b.RunnerID], "runner %d holds several bibs", *b.RunnerID)
		}
	}
}
