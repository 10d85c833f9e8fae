package notifier

import (
	"testing"

	"github.com/chrono-run/chrono-api/internal/config"
	"github.com/chrono-run/chrono-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscordNotifier_RequiresConfig(t *testing.T) {
	_, err := NewDiscordNotifier(&config.Config{})
	assert.Error(t, err)

	_, err = NewDiscordNotifier(&config.Config{DiscordBotToken: "token"})
	assert.Error(t, err)

	n, err := NewDiscordNotifier(&config.Config{DiscordBotToken: "token", DiscordNotificationsChannelID: "42"})
	require.NoError(t, err)
	assert.Equal(t, "42", n.channelID)
}

func TestRegistrationMessage(t *testing.T) {
	runner := models.Runner{FirstName: "Ada", LastName: "Lovelace"}
	race := models.Race{Name: "Trail des Crêtes", Date: "2026-06-14"}

	msg := registrationMessage(runner, race, models.Registration{Status: models.StatusRegistered})
	assert.Contains(t, msg, "Ada Lovelace")
	assert.Contains(t, msg, "Trail des Crêtes (2026-06-14)")
	assert.Contains(t, msg, "**Status:** registered")
	assert.NotContains(t, msg, "Bib")

	bib := 101
	msg = registrationMessage(runner, race, models.Registration{Status: models.StatusWaitlisted, BibNumber: &bib})
	assert.Contains(t, msg, "waitlisted")
	assert.Contains(t, msg, "**Bib:** 101")
}
