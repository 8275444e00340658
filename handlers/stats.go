package handlers

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"staffsystem/bot"
	"staffsystem/utils"
)

// HandleStats handles /stats: system-wide punishment and staff counters.
func HandleStats(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	stats, err := b.Records.Stats()
	if err != nil {
		log.Printf("Stats command error: %v", err)
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Error", "Failed to fetch statistics."))
		return
	}
	staffCount, err := b.Staff.CountActive()
	if err != nil {
		log.Printf("Stats command error: %v", err)
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Error", "Failed to fetch statistics."))
		return
	}
	stats.TotalStaff = staffCount

	utils.SendFollowUpEmbed(s, i.Interaction, statsEmbed(stats))
}
