package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"staffsystem/model"
)

func activeAccount(id int64, tier int, perms model.PermissionSet) *model.StaffAccount {
	return &model.StaffAccount{ID: id, Username: "user", Tier: tier, Permissions: perms, IsActive: true}
}

func TestCanUsesTierDefaults(t *testing.T) {
	actor := activeAccount(1, 2, nil)
	defaults := model.PermissionSet{"ban": true, "mute": true}

	require.NoError(t, Can(actor, defaults, CapabilityBan))
	require.ErrorIs(t, Can(actor, defaults, CapabilityManageStaff), ErrInsufficientPermission)
}

func TestCanAccountOverridesWin(t *testing.T) {
	defaults := model.PermissionSet{"ban": true, "mute": true}

	granted := activeAccount(1, 1, model.PermissionSet{"manage_staff": true})
	require.NoError(t, Can(granted, defaults, CapabilityManageStaff))

	// An explicit false override revokes a tier default.
	revoked := activeAccount(2, 2, model.PermissionSet{"ban": false})
	require.ErrorIs(t, Can(revoked, defaults, CapabilityBan), ErrInsufficientPermission)
}

func TestCanAllShortCircuits(t *testing.T) {
	actor := activeAccount(1, 5, model.PermissionSet{"all": true})
	require.NoError(t, Can(actor, model.PermissionSet{}, CapabilityBan))
	require.NoError(t, Can(actor, model.PermissionSet{}, "some_future_capability"))
}

func TestCanRejectsInactiveAndNil(t *testing.T) {
	inactive := &model.StaffAccount{ID: 1, Tier: 5, Permissions: model.PermissionSet{"all": true}}
	require.ErrorIs(t, Can(inactive, model.PermissionSet{}, CapabilityBan), ErrNotAuthenticated)
	require.ErrorIs(t, Can(nil, model.PermissionSet{}, CapabilityBan), ErrNotAuthenticated)
}

func TestCanCreateStaff(t *testing.T) {
	actor := activeAccount(1, 3, nil)
	require.NoError(t, CanCreateStaff(actor, 3))
	require.NoError(t, CanCreateStaff(actor, 1))
	require.ErrorIs(t, CanCreateStaff(actor, 4), ErrInsufficientPermission)
}

func TestCanEditStaffRequiresStrictlyLowerTier(t *testing.T) {
	const maxTier = 5
	actor := activeAccount(1, 3, nil)

	require.NoError(t, CanEditStaff(actor, activeAccount(2, 2, nil), maxTier))
	require.ErrorIs(t, CanEditStaff(actor, activeAccount(3, 3, nil), maxTier), ErrInsufficientPermission)
	require.ErrorIs(t, CanEditStaff(actor, activeAccount(4, 4, nil), maxTier), ErrInsufficientPermission)
}

func TestCanEditStaffMaxTierMayEditPeers(t *testing.T) {
	const maxTier = 5
	owner := activeAccount(1, 5, nil)

	require.NoError(t, CanEditStaff(owner, activeAccount(2, 5, nil), maxTier))
	require.NoError(t, CanEditStaff(owner, activeAccount(3, 1, nil), maxTier))
}

func TestCanDeleteStaff(t *testing.T) {
	actor := activeAccount(1, 4, nil)

	require.NoError(t, CanDeleteStaff(actor, activeAccount(2, 3, nil)))
	require.ErrorIs(t, CanDeleteStaff(actor, activeAccount(3, 4, nil)), ErrInsufficientPermission)
	require.ErrorIs(t, CanDeleteStaff(actor, activeAccount(4, 5, nil)), ErrInsufficientPermission)

	// Never yourself, even with a lower-tier clone of the same id.
	self := activeAccount(1, 4, nil)
	require.ErrorIs(t, CanDeleteStaff(actor, self), ErrInsufficientPermission)
}

func TestCanDeleteStaffIgnoresCapabilityOverrides(t *testing.T) {
	// Tier comparisons are independent of permission overrides: "all" does
	// not let a tier-2 account delete a tier-3 one.
	actor := activeAccount(1, 2, model.PermissionSet{"all": true})
	require.ErrorIs(t, CanDeleteStaff(actor, activeAccount(2, 3, nil)), ErrInsufficientPermission)
}

func TestCanManageTiers(t *testing.T) {
	const maxTier = 5
	require.NoError(t, CanManageTiers(activeAccount(1, 5, nil), maxTier))
	require.ErrorIs(t, CanManageTiers(activeAccount(2, 4, nil), maxTier), ErrInsufficientPermission)
}
