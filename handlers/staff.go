package handlers

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"staffsystem/bot"
	"staffsystem/utils"
)

// HandleStaff handles /staff: the active staff roster with tier names.
func HandleStaff(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	accounts, err := b.Staff.List()
	if err != nil {
		log.Printf("Staff command error: %v", err)
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Error", "Failed to fetch the staff roster."))
		return
	}
	tiers, err := b.Staff.Tiers()
	if err != nil {
		log.Printf("Staff command error: %v", err)
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Error", "Failed to fetch the staff roster."))
		return
	}

	tierNames := make(map[int]string, len(tiers))
	for _, tier := range tiers {
		tierNames[tier.TierLevel] = tier.Name
	}

	utils.SendFollowUpEmbed(s, i.Interaction, staffEmbed(accounts, tierNames))
}
