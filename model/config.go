package model

import "time"

// Config holds the full runtime configuration, loaded once at startup.
type Config struct {
	BotToken          string
	GuildID           string
	LogChannelID      string
	DiscordWebhookURL string

	APIKey        string
	SessionSecret string
	SessionTTL    time.Duration
	ListenAddr    string

	DatabasePath string
}
