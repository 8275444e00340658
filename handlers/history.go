package handlers

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"staffsystem/bot"
	"staffsystem/utils"
)

const historyPageSize = 10

// HandleHistory handles /history: paginated punishment history for a player.
func HandleHistory(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	opts := optionMap(i)
	playerName := opts["player"].StringValue()
	page := 1
	if opt, ok := opts["page"]; ok {
		page = int(opt.IntValue())
	}

	renderHistory(b, s, i.Interaction, playerName, page)
}

// HandleHistoryPage handles the pagination buttons under a history embed.
// The custom id carries "history_page:<page>:<player>".
func HandleHistoryPage(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	parts := strings.SplitN(customID, ":", 3)
	if len(parts) != 3 {
		return
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}
	playerName := parts[2]

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		log.Printf("Failed to defer component interaction: %v", err)
		return
	}

	renderHistory(b, s, i.Interaction, playerName, page)
}

// renderHistory edits the deferred response in place, which serves both the
// initial command and the pagination buttons.
func renderHistory(b *bot.Bot, s *discordgo.Session, i *discordgo.Interaction, playerName string, page int) {
	records, err := b.Records.ListByPlayerName(playerName)
	if err != nil {
		log.Printf("History command error: %v", err)
		utils.SendFollowUpEmbed(s, i, errorEmbed("Error", "Failed to fetch punishment history."))
		return
	}
	if len(records) == 0 {
		utils.SendFollowUpEmbed(s, i, errorEmbed("No History", fmt.Sprintf("No punishments on record for **%s**.", playerName)))
		return
	}

	total := len(records)
	totalPages := (total + historyPageSize - 1) / historyPageSize
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * historyPageSize
	end := start + historyPageSize
	if end > total {
		end = total
	}

	embed := historyEmbed(playerName, records[start:end], page, totalPages, total)
	components := utils.CreatePaginationComponents(page, totalPages, "history_page", playerName)
	utils.SendFollowUpEmbedWithComponents(s, i, embed, components)
}
