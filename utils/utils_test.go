package utils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"staffsystem/model"
)

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "Permanent", FormatDuration(model.PermanentDuration))
	require.Equal(t, "Permanent", FormatDuration(0))
	require.Equal(t, "30 second(s)", FormatDuration(30_000))
	require.Equal(t, "5 minute(s)", FormatDuration(5*60_000))
	require.Equal(t, "2 hour(s)", FormatDuration(2*3_600_000))
	require.Equal(t, "3 day(s)", FormatDuration(3*24*3_600_000))
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)

	require.True(t, CheckPassword(hash, "hunter22"))
	require.False(t, CheckPassword(hash, "hunter23"))
}

func TestPunishmentColor(t *testing.T) {
	require.Equal(t, 0xFF0000, PunishmentColor(model.TypeBan))
	require.Equal(t, PunishmentColor(model.TypeBan), PunishmentColor(model.TypeTempBan))
	require.NotEqual(t, PunishmentColor(model.TypeBan), PunishmentColor(model.TypeWarn))
}
