package utils

import (
	"fmt"

	"staffsystem/model"
)

// FormatDuration renders a punishment duration in milliseconds for embeds
// and log lines.
func FormatDuration(millis int64) string {
	if millis == model.PermanentDuration || millis == 0 {
		return "Permanent"
	}
	seconds := millis / 1000
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return fmt.Sprintf("%d day(s)", days)
	case hours > 0:
		return fmt.Sprintf("%d hour(s)", hours)
	case minutes > 0:
		return fmt.Sprintf("%d minute(s)", minutes)
	default:
		return fmt.Sprintf("%d second(s)", seconds)
	}
}
