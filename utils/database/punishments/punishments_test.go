package punishments

import (
	"testing"

	"github.com/stretchr/testify/require"

	"staffsystem/model"
	"staffsystem/utils/database"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Init(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func insertRecord(t *testing.T, store *Store, rec model.PunishmentRecord) int64 {
	t.Helper()
	id, err := store.Insert(&rec)
	require.NoError(t, err)
	return id
}

func sampleBan() model.PunishmentRecord {
	return model.PunishmentRecord{
		PlayerUUID: "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
		PlayerName: "Steve",
		StaffUUID:  "ffffffff-0000-1111-2222-333333333333",
		StaffName:  "mod",
		Type:       model.TypeTempBan,
		Reason:     "griefing",
		Timestamp:  1000,
		Duration:   3600000,
		Expiration: 3601000,
		Active:     true,
		Server:     "main",
	}
}

func TestInsertAndGetByID(t *testing.T) {
	store := testStore(t)
	id := insertRecord(t, store, sampleBan())

	rec, err := store.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, "Steve", rec.PlayerName)
	require.Equal(t, model.TypeTempBan, rec.Type)
	require.True(t, rec.Active)
	require.False(t, rec.ManualOverride)
}

func TestGetByIDAbsent(t *testing.T) {
	store := testStore(t)
	rec, err := store.GetByID(999)
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestGetByNaturalKey(t *testing.T) {
	store := testStore(t)
	id := insertRecord(t, store, sampleBan())

	rec, err := store.GetByNaturalKey(sampleBan().PlayerUUID, model.TypeTempBan, 1000)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, id, rec.ID)

	// Same player and timestamp, different kind: a distinct event.
	rec, err = store.GetByNaturalKey(sampleBan().PlayerUUID, model.TypeMute, 1000)
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestSetActiveWithManualOverride(t *testing.T) {
	store := testStore(t)
	id := insertRecord(t, store, sampleBan())

	require.NoError(t, store.SetActive(id, false, true))
	rec, err := store.GetByID(id)
	require.NoError(t, err)
	require.False(t, rec.Active)
	require.True(t, rec.ManualOverride)

	// Re-activating without the override flag leaves the flag in place.
	require.NoError(t, store.SetActive(id, true, false))
	rec, err = store.GetByID(id)
	require.NoError(t, err)
	require.True(t, rec.Active)
	require.True(t, rec.ManualOverride)
}

func TestSetSyncState(t *testing.T) {
	store := testStore(t)
	id := insertRecord(t, store, sampleBan())

	require.NoError(t, store.SetSyncState(id, false, 9999))
	rec, err := store.GetByID(id)
	require.NoError(t, err)
	require.False(t, rec.Active)
	require.Equal(t, int64(9999), rec.Expiration)
	require.Equal(t, "griefing", rec.Reason, "sync updates must not rewrite the reason")
}

func TestLatestActiveByKinds(t *testing.T) {
	store := testStore(t)
	ban := sampleBan()
	insertRecord(t, store, ban)

	newer := sampleBan()
	newer.Timestamp = 2000
	newerID := insertRecord(t, store, newer)

	mute := sampleBan()
	mute.Type = model.TypeMute
	mute.Timestamp = 3000
	insertRecord(t, store, mute)

	rec, err := store.LatestActiveByKinds(ban.PlayerUUID, model.BanTypes)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, newerID, rec.ID, "must pick the newest ban, not the mute")

	rec, err = store.LatestActiveByKinds(ban.PlayerUUID, model.MuteTypes)
	require.NoError(t, err)
	require.Equal(t, model.TypeMute, rec.Type)

	rec, err = store.LatestActiveByKinds("no-such-player", model.BanTypes)
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestLatestActiveByPlayerName(t *testing.T) {
	store := testStore(t)
	insertRecord(t, store, sampleBan())

	rec, err := store.LatestActiveByPlayerName("Steve", model.BanTypes)
	require.NoError(t, err)
	require.NotNil(t, rec)

	rec, err = store.LatestActiveByPlayerName("Alex", model.BanTypes)
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestListFilters(t *testing.T) {
	store := testStore(t)
	ban := sampleBan()
	insertRecord(t, store, ban)

	warn := sampleBan()
	warn.Type = model.TypeWarn
	warn.Timestamp = 2000
	warn.Reason = "spamming chat"
	insertRecord(t, store, warn)

	inactive := sampleBan()
	inactive.Timestamp = 3000
	inactive.Active = false
	insertRecord(t, store, inactive)

	records, total, err := store.List(Filter{})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, records, 3)
	require.Equal(t, int64(3000), records[0].Timestamp, "newest first")

	records, total, err = store.List(Filter{Type: model.TypeWarn})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, model.TypeWarn, records[0].Type)

	_, total, err = store.List(Filter{Status: "active"})
	require.NoError(t, err)
	require.Equal(t, 2, total)

	_, total, err = store.List(Filter{Search: "spamming"})
	require.NoError(t, err)
	require.Equal(t, 1, total)

	records, total, err = store.List(Filter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, records, 1)
}

func TestListSearchEscapesWildcards(t *testing.T) {
	store := testStore(t)
	rec := sampleBan()
	rec.Reason = "used 100% hacks"
	insertRecord(t, store, rec)

	_, total, err := store.List(Filter{Search: "100%"})
	require.NoError(t, err)
	require.Equal(t, 1, total)

	// A bare % must not match everything.
	_, total, err = store.List(Filter{Search: "%zzz%"})
	require.NoError(t, err)
	require.Equal(t, 0, total)
}

func TestStats(t *testing.T) {
	store := testStore(t)
	insertRecord(t, store, sampleBan())

	mute := sampleBan()
	mute.Type = model.TypeMute
	mute.Timestamp = 2000
	insertRecord(t, store, mute)

	warn := sampleBan()
	warn.Type = model.TypeWarn
	warn.Timestamp = 3000
	insertRecord(t, store, warn)

	stats, err := store.Stats()
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalPunishments)
	require.Equal(t, 1, stats.ActiveBans)
	require.Equal(t, 1, stats.ActiveMutes)
	require.Equal(t, 1, stats.TotalWarnings)
}
