package notifier

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/chrono-run/chrono-api/internal/config"
	"github.com/chrono-run/chrono-api/internal/models"
)

type Notifier interface {
	NotifyRegistration(runner models.Runner, race models.Race, registration models.Registration) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

// NewDiscordNotifier builds a REST-only session; no gateway connection is
// opened since the notifier only posts channel messages.
func NewDiscordNotifier(cfg *config.Config) (*DiscordNotifier, error) {
	if cfg.DiscordBotToken == "" {
		return nil, fmt.Errorf("discord bot token not configured")
	}
	if cfg.DiscordNotificationsChannelID == "" {
		return nil, fmt.Errorf("discord notifications channel not configured")
	}

	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	return &DiscordNotifier{
		session:   session,
		channelID: cfg.DiscordNotificationsChannelID,
	}, nil
}

func (n *DiscordNotifier) NotifyRegistration(runner models.Runner, race models.Race, registration models.Registration) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, registrationMessage(runner, race, registration))
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}

func registrationMessage(runner models.Runner, race models.Race, registration models.Registration) string {
	status := "registered"
	switch registration.Status {
	case models.StatusWaitlisted:
		status = "waitlisted ⏳"
	case models.StatusCancelled:
		status = "cancelled"
	}

	bib := ""
	if registration.BibNumber != nil {
		bib = fmt.Sprintf("\n**Bib:** %d", *registration.BibNumber)
	}

	return fmt.Sprintf("🏃 **New Registration**\n**Runner:** %s %s\n**Race:** %s (%s)\n**Status:** %s%s",
		runner.FirstName,
		runner.LastName,
		race.Name,
		race.Date,
		status,
		bib,
	)
}
