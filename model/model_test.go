package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPunishmentTypeValid(t *testing.T) {
	for _, kind := range []PunishmentType{TypeBan, TypeTempBan, TypeMute, TypeTempMute, TypeKick, TypeWarn} {
		require.True(t, kind.Valid(), "%s", kind)
	}
	require.False(t, PunishmentType("EXILE").Valid())
	require.False(t, PunishmentType("").Valid())
}

func TestPermanent(t *testing.T) {
	require.True(t, (&PunishmentRecord{Duration: PermanentDuration}).Permanent())
	require.True(t, (&PunishmentRecord{Duration: 0}).Permanent())
	require.False(t, (&PunishmentRecord{Duration: 1}).Permanent())
}

func TestPermissionSetScan(t *testing.T) {
	var p PermissionSet
	require.NoError(t, p.Scan(`{"ban": true, "mute": false}`))
	require.True(t, p["ban"])
	require.False(t, p["mute"])

	require.NoError(t, p.Scan(nil))
	require.Empty(t, p)

	require.NoError(t, p.Scan([]byte(`{}`)))
	require.Empty(t, p)

	require.Error(t, p.Scan(`not json`))
	require.Error(t, p.Scan(42))
}

func TestPermissionSetValue(t *testing.T) {
	var nilSet PermissionSet
	v, err := nilSet.Value()
	require.NoError(t, err)
	require.Equal(t, "{}", v)

	v, err = PermissionSet{"ban": true}.Value()
	require.NoError(t, err)
	require.JSONEq(t, `{"ban": true}`, v.(string))
}

func TestPermissionSetMerge(t *testing.T) {
	defaults := PermissionSet{"ban": true, "mute": true}
	merged := defaults.Merge(PermissionSet{"ban": false, "manage_staff": true})

	require.False(t, merged["ban"], "account override must beat the tier default")
	require.True(t, merged["mute"])
	require.True(t, merged["manage_staff"])

	// Merge never mutates its inputs.
	require.True(t, defaults["ban"])
}
