package core

import "staffsystem/model"

// Capability names checked by the dashboard and bot surfaces. Tiers can
// define additional keys; these are the ones the code asks about.
const (
	CapabilityBan         = "ban"
	CapabilityMute        = "mute"
	CapabilityKick        = "kick"
	CapabilityWarn        = "warn"
	CapabilityManageStaff = "manage_staff"
)

// Can resolves a capability check against the merged permission view: the
// actor's per-account overrides applied on top of their tier defaults, with
// "all" short-circuiting everything. It is a pure function of the snapshots
// and must be re-evaluated on every request, since tiers and permissions can
// change between calls.
func Can(actor *model.StaffAccount, tierDefaults model.PermissionSet, capability string) error {
	if actor == nil || !actor.IsActive {
		return ErrNotAuthenticated
	}
	perms := tierDefaults.Merge(actor.Permissions)
	if perms[model.PermissionAll] || perms[capability] {
		return nil
	}
	return ErrInsufficientPermission
}

// CanCreateStaff: an account can never be minted above its creator's tier.
func CanCreateStaff(actor *model.StaffAccount, requestedTier int) error {
	if actor == nil || !actor.IsActive {
		return ErrNotAuthenticated
	}
	if requestedTier > actor.Tier {
		return ErrInsufficientPermission
	}
	return nil
}

// CanEditStaff: the target must sit strictly below the actor, except that
// holders of the maximum defined tier may also edit their own peers. The
// tier comparison is independent of any capability override the actor
// holds.
func CanEditStaff(actor, target *model.StaffAccount, maxTier int) error {
	if actor == nil || !actor.IsActive {
		return ErrNotAuthenticated
	}
	if actor.Tier >= maxTier && target.Tier <= actor.Tier {
		return nil
	}
	if target.Tier < actor.Tier {
		return nil
	}
	return ErrInsufficientPermission
}

// CanDeleteStaff: strictly lower tier only, and never yourself.
func CanDeleteStaff(actor, target *model.StaffAccount) error {
	if actor == nil || !actor.IsActive {
		return ErrNotAuthenticated
	}
	if target.ID == actor.ID {
		return ErrInsufficientPermission
	}
	if target.Tier >= actor.Tier {
		return ErrInsufficientPermission
	}
	return nil
}

// CanManageTiers: renaming tiers or changing their default permissions is
// reserved for the maximum defined tier.
func CanManageTiers(actor *model.StaffAccount, maxTier int) error {
	if actor == nil || !actor.IsActive {
		return ErrNotAuthenticated
	}
	if actor.Tier < maxTier {
		return ErrInsufficientPermission
	}
	return nil
}
