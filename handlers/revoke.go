package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"staffsystem/bot"
	"staffsystem/core"
	"staffsystem/model"
	"staffsystem/utils"
)

// HandleUnban handles /unban: revoke the latest active ban for a player.
func HandleUnban(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	handleRevokeCommand(b, s, i, revokeCommand{
		kinds:        model.BanTypes,
		capability:   core.CapabilityBan,
		defaultWhy:   "Unbanned via Discord",
		missingTitle: "Not Banned",
		missingText:  "%s does not have an active ban.",
		successTitle: "Player Unbanned",
		successVerb:  "unbanned",
	})
}

// HandleUnmute handles /unmute: revoke the latest active mute for a player.
func HandleUnmute(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	handleRevokeCommand(b, s, i, revokeCommand{
		kinds:        model.MuteTypes,
		capability:   core.CapabilityMute,
		defaultWhy:   "Unmuted via Discord",
		missingTitle: "Not Muted",
		missingText:  "%s does not have an active mute.",
		successTitle: "Player Unmuted",
		successVerb:  "unmuted",
	})
}

type revokeCommand struct {
	kinds        []model.PunishmentType
	capability   string
	defaultWhy   string
	missingTitle string
	missingText  string
	successTitle string
	successVerb  string
}

func handleRevokeCommand(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, cmd revokeCommand) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	opts := optionMap(i)
	playerName := opts["player"].StringValue()
	reason := cmd.defaultWhy
	if opt, ok := opts["reason"]; ok && opt.StringValue() != "" {
		reason = opt.StringValue()
	}

	actor, denial := resolveActor(b, i)
	if denial != "" {
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Not Authorized", denial))
		return
	}

	tierDefaults, err := b.Staff.TierDefaults(actor.Tier)
	if err != nil {
		log.Printf("Revoke command error: %v", err)
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Error", "Failed to resolve your permissions."))
		return
	}
	if err := core.Can(actor, tierDefaults, cmd.capability); err != nil {
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Not Authorized", "You do not have permission to do that."))
		return
	}

	rec, err := b.Records.LatestActiveByPlayerName(playerName, cmd.kinds)
	if err != nil {
		log.Printf("Revoke command error: %v", err)
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Error", "Failed to look up the punishment."))
		return
	}
	if rec == nil {
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed(cmd.missingTitle, fmt.Sprintf(cmd.missingText, playerName)))
		return
	}

	// Lazy expiry: the record may already be past its expiration, in which
	// case it is healed here and there is nothing left to revoke.
	expired, err := core.ExpireIfDue(b.Records, rec, time.Now().UnixMilli())
	if err != nil {
		log.Printf("Revoke command error: %v", err)
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Error", "Failed to check the punishment state."))
		return
	}
	if expired {
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed(cmd.missingTitle, fmt.Sprintf(cmd.missingText, playerName)))
		return
	}

	result, err := core.Revoke(b.Records, b.Activity, rec.ID, actor, reason, "discord")
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Not Found", "The punishment record disappeared."))
			return
		}
		log.Printf("Revoke command error: %v", err)
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Error", "Failed to revoke the punishment."))
		return
	}
	if result.AuditErr != nil {
		log.Printf("Warning: %v", result.AuditErr)
	}

	description := fmt.Sprintf("**%s** has been %s.\n\n**Reason:** %s\n**By:** %s",
		playerName, cmd.successVerb, reason, actorLabel(actor))
	embed := successEmbed(cmd.successTitle, description)
	utils.SendFollowUpEmbed(s, i.Interaction, embed)

	b.LogToChannel(fmt.Sprintf("%s %s %s: %s", actorLabel(actor), cmd.successVerb, playerName, reason))
}
