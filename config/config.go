package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"staffsystem/model"
)

// Load reads the configuration from the environment, after loading a .env
// file when one is present.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("LISTEN_ADDR", ":3000")
	v.SetDefault("DB_PATH", "./data/staffsystem.db")
	v.SetDefault("SESSION_TTL_HOURS", 24)

	cfg := &model.Config{
		BotToken:          v.GetString("BOT_TOKEN"),
		GuildID:           v.GetString("GUILD_ID"),
		LogChannelID:      v.GetString("LOG_CHANNEL_ID"),
		DiscordWebhookURL: v.GetString("DISCORD_WEBHOOK_URL"),
		APIKey:            v.GetString("API_KEY"),
		SessionSecret:     v.GetString("SESSION_SECRET"),
		SessionTTL:        time.Duration(v.GetInt("SESSION_TTL_HOURS")) * time.Hour,
		ListenAddr:        v.GetString("LISTEN_ADDR"),
		DatabasePath:      v.GetString("DB_PATH"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN environment variable not set")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable not set")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable not set")
	}
	if cfg.LogChannelID == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, moderation log messages will be disabled")
	}

	return cfg, nil
}
