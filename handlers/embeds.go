package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"staffsystem/model"
	"staffsystem/utils"
)

func errorEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ " + title,
		Description: description,
		Color:       0xFF0000,
	}
}

func successEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ " + title,
		Description: description,
		Color:       0x00FF00,
	}
}

func punishmentEmbed(rec *model.PunishmentRecord) *discordgo.MessageEmbed {
	status := "Inactive"
	if rec.Active {
		status = "Active"
	}
	reason := rec.Reason
	if reason == "" {
		reason = "No reason specified"
	}
	issued := time.UnixMilli(rec.Timestamp).UTC().Format("2006-01-02 15:04:05 MST")

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Punishment #%d", rec.ID),
		Color: utils.PunishmentColor(rec.Type),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Player", Value: rec.PlayerName, Inline: true},
			{Name: "Staff", Value: rec.StaffName, Inline: true},
			{Name: "Type", Value: string(rec.Type), Inline: true},
			{Name: "Reason", Value: reason},
			{Name: "Issued", Value: issued, Inline: true},
			{Name: "Duration", Value: utils.FormatDuration(rec.Duration), Inline: true},
			{Name: "Status", Value: status, Inline: true},
			{Name: "Server", Value: rec.Server, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "StaffSystem"},
	}
}

func historyEmbed(playerName string, records []model.PunishmentRecord, page, totalPages, total int) *discordgo.MessageEmbed {
	var sb strings.Builder
	for _, rec := range records {
		status := "inactive"
		if rec.Active {
			status = "active"
		}
		issued := time.UnixMilli(rec.Timestamp).UTC().Format("2006-01-02")
		reason := rec.Reason
		if reason == "" {
			reason = "No reason specified"
		}
		fmt.Fprintf(&sb, "`#%d` **%s** (%s) — %s · %s\n", rec.ID, rec.Type, status, reason, issued)
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Punishment History — %s", playerName),
		Description: sb.String(),
		Color:       0x5865F2,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d · %d record(s)", page, totalPages, total),
		},
	}
}

func statsEmbed(stats model.Stats) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "StaffSystem Statistics",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total Punishments", Value: fmt.Sprintf("%d", stats.TotalPunishments), Inline: true},
			{Name: "Active Bans", Value: fmt.Sprintf("%d", stats.ActiveBans), Inline: true},
			{Name: "Active Mutes", Value: fmt.Sprintf("%d", stats.ActiveMutes), Inline: true},
			{Name: "Total Warnings", Value: fmt.Sprintf("%d", stats.TotalWarnings), Inline: true},
			{Name: "Active Staff", Value: fmt.Sprintf("%d", stats.TotalStaff), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "StaffSystem"},
	}
}

func staffEmbed(accounts []model.StaffAccount, tierNames map[int]string) *discordgo.MessageEmbed {
	var sb strings.Builder
	for _, acc := range accounts {
		if !acc.IsActive {
			continue
		}
		tierName := tierNames[acc.Tier]
		if tierName == "" {
			tierName = fmt.Sprintf("Tier %d", acc.Tier)
		}
		name := acc.Username
		if acc.MinecraftName != "" {
			name = fmt.Sprintf("%s (%s)", acc.Username, acc.MinecraftName)
		}
		fmt.Fprintf(&sb, "**%s** — %s\n", name, tierName)
	}
	if sb.Len() == 0 {
		sb.WriteString("No active staff members.")
	}

	return &discordgo.MessageEmbed{
		Title:       "Staff Roster",
		Description: sb.String(),
		Color:       0x5865F2,
		Footer:      &discordgo.MessageEmbedFooter{Text: "StaffSystem"},
	}
}
