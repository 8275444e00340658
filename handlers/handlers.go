package handlers

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"staffsystem/bot"
	"staffsystem/model"
)

// Register wires the interaction dispatcher onto the bot session.
func Register(b *bot.Bot) {
	b.CommandHandlers = map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"lookup": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleLookup(b, s, i)
		},
		"history": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleHistory(b, s, i)
		},
		"unban": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleUnban(b, s, i)
		},
		"unmute": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleUnmute(b, s, i)
		},
		"staff": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleStaff(b, s, i)
		},
		"stats": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleStats(b, s, i)
		},
		"link": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleLink(b, s, i)
		},
	}

	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			if handler, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
				handler(s, i)
			}
		case discordgo.InteractionMessageComponent:
			customID := i.MessageComponentData().CustomID
			if strings.HasPrefix(customID, "history_page:") {
				HandleHistoryPage(b, s, i, customID)
			}
		}
	})
}

// optionMap indexes the interaction options by name.
func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// interactionUserID returns the invoking user's Discord id for both guild
// and DM interactions.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// resolveActor loads the staff account linked to the invoking Discord user.
// Returns an error message suitable for an ephemeral reply when no usable
// account is linked.
func resolveActor(b *bot.Bot, i *discordgo.InteractionCreate) (*model.StaffAccount, string) {
	discordID := interactionUserID(i)
	if discordID == "" {
		return nil, "Could not determine your Discord identity."
	}
	actor, err := b.Staff.GetByDiscordID(discordID)
	if err != nil {
		return nil, "Failed to look up your staff account."
	}
	if actor == nil {
		return nil, "No staff account is linked to your Discord account. Use /link first."
	}
	if !actor.IsActive {
		return nil, "Your staff account is deactivated."
	}
	return actor, ""
}

// actorLabel names an actor for audit details and log lines.
func actorLabel(actor *model.StaffAccount) string {
	return fmt.Sprintf("%s (tier %d)", actor.Username, actor.Tier)
}
