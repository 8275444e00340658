package handlers

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"staffsystem/bot"
	"staffsystem/utils"
)

// HandleLink handles /link: attach the invoking Discord identity to a staff
// account. An account holds at most one Discord identity and vice versa.
func HandleLink(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	username := optionMap(i)["username"].StringValue()
	discordID := interactionUserID(i)
	if discordID == "" {
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Error", "Could not determine your Discord identity."))
		return
	}

	account, err := b.Staff.GetByUsername(username)
	if err != nil {
		log.Printf("Link command error: %v", err)
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Error", "Failed to look up the staff account."))
		return
	}
	if account == nil || !account.IsActive {
		utils.SendFollowUpEmbed(s, i.Interaction,
			errorEmbed("Not Found", fmt.Sprintf("Staff account \"%s\" not found or is inactive.", username)))
		return
	}

	if account.DiscordID != "" && account.DiscordID != discordID {
		utils.SendFollowUpEmbed(s, i.Interaction,
			errorEmbed("Already Linked", "This staff account is already linked to another Discord account."))
		return
	}

	existing, err := b.Staff.GetByDiscordID(discordID)
	if err != nil {
		log.Printf("Link command error: %v", err)
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Error", "Failed to check existing links."))
		return
	}
	if existing != nil && existing.ID != account.ID {
		utils.SendFollowUpEmbed(s, i.Interaction,
			errorEmbed("Already Linked", fmt.Sprintf("Your Discord account is already linked to \"%s\".", existing.Username)))
		return
	}

	if err := b.Staff.LinkDiscord(account.ID, discordID); err != nil {
		log.Printf("Link command error: %v", err)
		utils.SendFollowUpEmbed(s, i.Interaction, errorEmbed("Error", "Failed to link the account."))
		return
	}

	if err := b.Activity.Append(account.ID, "DISCORD_LINK", fmt.Sprintf("Discord account linked: %s", discordID), "discord"); err != nil {
		log.Printf("Warning: failed to append activity log entry: %v", err)
	}

	assignTierRole(b, s, i.GuildID, discordID, account.Tier)

	utils.SendFollowUpEmbed(s, i.Interaction, successEmbed("Account Linked",
		fmt.Sprintf("Your Discord account has been linked to staff account **%s**.\n\nTier: %d", account.Username, account.Tier)))
}

// assignTierRole grants the Discord role bound to the account's tier, when
// one is configured. Best effort: the link itself already succeeded, so a
// role failure is logged and never surfaced.
func assignTierRole(b *bot.Bot, s *discordgo.Session, guildID, discordID string, tier int) {
	roleID := tierRoleID(b, tier)
	if roleID == "" || guildID == "" {
		return
	}
	if err := s.GuildMemberRoleAdd(guildID, discordID, roleID); err != nil {
		log.Printf("Warning: failed to assign tier role %s to %s: %v", roleID, discordID, err)
	}
}

// tierRoleID resolves the Discord role bound to a tier level. Empty when the
// tier is unknown or carries no role binding.
func tierRoleID(b *bot.Bot, tier int) string {
	def, err := b.Staff.GetTier(tier)
	if err != nil {
		log.Printf("Warning: failed to resolve tier %d for role assignment: %v", tier, err)
		return ""
	}
	if def == nil || def.DiscordRoleID == "" {
		return ""
	}
	return def.DiscordRoleID
}
