// Package commands defines the slash command set the bot registers.
package commands

import "github.com/bwmarrin/discordgo"

var Lookup = &discordgo.ApplicationCommand{
	Name:        "lookup",
	Description: "Look up a specific punishment by ID",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "id",
			Description: "Punishment ID",
			Required:    true,
		},
	},
}

var History = &discordgo.ApplicationCommand{
	Name:        "history",
	Description: "View a player's punishment history",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "player",
			Description: "Minecraft player name",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "page",
			Description: "Page number",
			Required:    false,
		},
	},
}

var Unban = &discordgo.ApplicationCommand{
	Name:        "unban",
	Description: "Remove an active ban from a player",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "player",
			Description: "Minecraft player name",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for unbanning",
			Required:    false,
		},
	},
}

var Unmute = &discordgo.ApplicationCommand{
	Name:        "unmute",
	Description: "Remove an active mute from a player",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "player",
			Description: "Minecraft player name",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for unmuting",
			Required:    false,
		},
	},
}

var Staff = &discordgo.ApplicationCommand{
	Name:        "staff",
	Description: "View the staff roster",
}

var Stats = &discordgo.ApplicationCommand{
	Name:        "stats",
	Description: "View StaffSystem statistics",
}

var Link = &discordgo.ApplicationCommand{
	Name:        "link",
	Description: "Link your Discord account to a staff account",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "username",
			Description: "Your staff account username",
			Required:    true,
		},
	},
}

// All returns the full command set in registration order.
func All() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		Lookup,
		History,
		Unban,
		Unmute,
		Staff,
		Stats,
		Link,
	}
}
