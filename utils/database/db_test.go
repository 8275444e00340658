package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitCreatesSchemaAndSeeds(t *testing.T) {
	db, err := Init(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, table := range []string{"punishments", "staff_users", "staff_tiers", "activity_log"} {
		var count int
		err := db.Get(&count, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		require.NoError(t, err)
		require.Equal(t, 1, count, "table %s must exist", table)
	}

	var tiers int
	require.NoError(t, db.Get(&tiers, "SELECT COUNT(*) FROM staff_tiers"))
	require.Equal(t, 5, tiers)

	var admins int
	require.NoError(t, db.Get(&admins, "SELECT COUNT(*) FROM staff_users WHERE username = 'admin'"))
	require.Equal(t, 1, admins)
}

func TestInitIsIdempotent(t *testing.T) {
	db, err := Init(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Re-running the bootstrap against an initialized handle must not error
	// or duplicate seed rows.
	require.NoError(t, createTables(db))
	require.NoError(t, seedDefaultTiers(db))
	require.NoError(t, seedDefaultAdmin(db))

	var tiers int
	require.NoError(t, db.Get(&tiers, "SELECT COUNT(*) FROM staff_tiers"))
	require.Equal(t, 5, tiers)
}
