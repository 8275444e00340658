package handlers

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"staffsystem/bot"
	"staffsystem/utils"
)

// HandleLookup handles /lookup: fetch one punishment by ID.
func HandleLookup(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	id := optionMap(i)["id"].IntValue()
	rec, err := b.Records.GetByID(id)
	if err != nil {
		log.Printf("Lookup command error: %v", err)
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Error", "Failed to look up punishment."))
		return
	}
	if rec == nil {
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Not Found", fmt.Sprintf("Punishment #%d not found.", id)))
		return
	}

	utils.SendFollowUpEmbed(s, i.Interaction, punishmentEmbed(rec))
}
