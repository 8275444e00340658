package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"staffsystem/model"
)

type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

type DiscordEmbed struct {
	Title  string              `json:"title"`
	Color  int                 `json:"color"`
	Fields []DiscordEmbedField `json:"fields"`
	Footer *DiscordEmbedFooter `json:"footer,omitempty"`
}

type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// PunishmentColor maps a punishment kind to its embed color.
func PunishmentColor(t model.PunishmentType) int {
	switch t {
	case model.TypeBan, model.TypeTempBan:
		return 0xFF0000 // Red
	case model.TypeMute, model.TypeTempMute:
		return 0xFFA500 // Orange
	case model.TypeKick:
		return 0xFFFF00 // Yellow
	case model.TypeWarn:
		return 0x90EE90 // Light green
	default:
		return 0x808080 // Gray
	}
}

// SendPunishmentNotification posts a moderation embed to the configured
// Discord webhook. A no-op when no webhook URL is configured.
func SendPunishmentNotification(webhookURL string, rec *model.PunishmentRecord) error {
	if webhookURL == "" {
		return nil
	}

	reason := rec.Reason
	if reason == "" {
		reason = "No reason specified"
	}
	embed := DiscordEmbed{
		Title: fmt.Sprintf("%s - %s", rec.Type, rec.PlayerName),
		Color: PunishmentColor(rec.Type),
		Fields: []DiscordEmbedField{
			{Name: "Player", Value: rec.PlayerName, Inline: true},
			{Name: "Staff", Value: rec.StaffName, Inline: true},
			{Name: "Reason", Value: reason},
			{Name: "Duration", Value: FormatDuration(rec.Duration), Inline: true},
		},
		Footer: &DiscordEmbedFooter{Text: "StaffSystem"},
	}

	payload := DiscordWebhookPayload{Embeds: []DiscordEmbed{embed}}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", webhookURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to send webhook notification, status: %s, body: %s", resp.Status, string(body))
	}
	return nil
}
