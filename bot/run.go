package bot

import (
	"fmt"
	"log"

	"staffsystem/commands"
)

// Start opens the gateway connection and registers the slash commands. When
// GUILD_ID is set commands are registered guild-scoped, which propagates
// instantly; otherwise they are registered globally.
func (b *Bot) Start() error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("failed to open discord connection: %w", err)
	}

	cmds := commands.All()
	log.Printf("Registering %d slash commands...", len(cmds))
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.Session.State.User.ID, b.Config.GuildID, cmds)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	b.RegisteredCommands = registered

	log.Println("Bot is now running.")
	return nil
}

// Close shuts down the gateway connection.
func (b *Bot) Close() {
	log.Println("Shutting down bot.")
	if err := b.Session.Close(); err != nil {
		log.Printf("Error closing discord session: %v", err)
	}
}

// LogToChannel posts a message to the configured staff log channel, if any.
func (b *Bot) LogToChannel(content string) {
	if b.Config.LogChannelID == "" {
		return
	}
	if _, err := b.Session.ChannelMessageSend(b.Config.LogChannelID, content); err != nil {
		log.Printf("Error sending log channel message: %v", err)
	}
}
