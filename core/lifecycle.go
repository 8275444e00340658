package core

import (
	"fmt"

	"staffsystem/model"
)

// RecordStore is the slice of the punishment store the lifecycle needs. The
// sqlite implementation lives in utils/database/punishments. Lookup methods
// return (nil, nil) when no row matches.
type RecordStore interface {
	GetByID(id int64) (*model.PunishmentRecord, error)
	GetByNaturalKey(playerUUID string, kind model.PunishmentType, timestamp int64) (*model.PunishmentRecord, error)
	Insert(rec *model.PunishmentRecord) (int64, error)
	SetActive(id int64, active bool, manualOverride bool) error
	SetSyncState(id int64, active bool, expiration int64) error
	LatestActiveByKinds(playerUUID string, kinds []model.PunishmentType) (*model.PunishmentRecord, error)
}

// AuditLog records who did what. The sqlite implementation lives in
// utils/database/activity.
type AuditLog interface {
	Append(staffUserID int64, action, details, source string) error
}

// SyncAction tells a sync caller whether its event created a new record or
// updated one already on file.
type SyncAction string

const (
	ActionCreated SyncAction = "created"
	ActionUpdated SyncAction = "updated"
)

// SyncResult is the response body of the sync endpoint.
type SyncResult struct {
	Action SyncAction `json:"action"`
	ID     int64      `json:"id"`
}

// Issue records a punishment event pushed by the authoritative game server.
// A natural-key match means the event is already on file and the call
// degrades to a reconcile of the sync-owned fields; duplicates are never an
// error for the caller.
func Issue(store RecordStore, rec *model.PunishmentRecord, now int64) (SyncResult, error) {
	existing, err := store.GetByNaturalKey(rec.PlayerUUID, rec.Type, rec.Timestamp)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if existing != nil {
		return applySyncState(store, existing, rec.Active, rec.Expiration, now)
	}

	rec.Active = initialActive(rec, now)
	id, err := store.Insert(rec)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	rec.ID = id
	return SyncResult{Action: ActionCreated, ID: id}, nil
}

// Reconcile is the idempotent upsert used by the sync endpoint: absent
// records are issued, existing records only have their active flag and
// expiration refreshed. Identity fields, the kind and the reason are never
// rewritten.
func Reconcile(store RecordStore, rec *model.PunishmentRecord, now int64) (SyncResult, error) {
	existing, err := store.GetByNaturalKey(rec.PlayerUUID, rec.Type, rec.Timestamp)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if existing == nil {
		return Issue(store, rec, now)
	}
	return applySyncState(store, existing, rec.Active, rec.Expiration, now)
}

// applySyncState writes the sync-owned fields of an existing record. The
// payload's active flag passes through the same per-kind activation policy as
// issuance, so a replayed kick stays a point event and a replay past the
// expiration cannot resurrect a finished punishment. Records a staff member
// manually revoked keep their active flag, so a replay from the game server
// cannot silently reinstate them.
func applySyncState(store RecordStore, existing *model.PunishmentRecord, active bool, expiration int64, now int64) (SyncResult, error) {
	next := *existing
	next.Active = active
	next.Expiration = expiration
	newActive := initialActive(&next, now)
	if existing.ManualOverride {
		newActive = existing.Active
	}
	if err := store.SetSyncState(existing.ID, newActive, expiration); err != nil {
		return SyncResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return SyncResult{Action: ActionUpdated, ID: existing.ID}, nil
}

// initialActive applies the per-kind activation policy, shared by issuance
// and sync updates. Kicks are point events and never carry an active state.
// Finite punishments whose expiration already passed arrive from historical
// replays and start inactive.
func initialActive(rec *model.PunishmentRecord, now int64) bool {
	if rec.Type.PointEvent() {
		return false
	}
	if !rec.Active {
		return false
	}
	if !rec.Permanent() && rec.Expiration < now {
		return false
	}
	return true
}

// RevokeResult reports the outcome of a revoke. AuditErr is non-nil when the
// state change committed but the activity-log append did not; the revoke
// itself still counts as successful.
type RevokeResult struct {
	Record   *model.PunishmentRecord
	Changed  bool
	AuditErr error
}

// Revoke deactivates a punishment and marks it as under manual control.
// Revoking an already-inactive record is a no-op, not an error, but the
// audit entry is appended either way so the action stays traceable. A nil
// actor attributes the entry to the sync API.
func Revoke(store RecordStore, audit AuditLog, id int64, actor *model.StaffAccount, reason, source string) (RevokeResult, error) {
	rec, err := store.GetByID(id)
	if err != nil {
		return RevokeResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if rec == nil {
		return RevokeResult{}, ErrNotFound
	}

	res := RevokeResult{Record: rec}
	if rec.Active {
		if err := store.SetActive(rec.ID, false, true); err != nil {
			return RevokeResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		rec.Active = false
		rec.ManualOverride = true
		res.Changed = true
	}

	var actorID int64
	actorName := "system"
	if actor != nil {
		actorID = actor.ID
		actorName = actor.Username
	}
	details := fmt.Sprintf("%s revoked %s #%d for %s: %s", actorName, rec.Type, rec.ID, rec.PlayerName, reason)
	if err := audit.Append(actorID, "REVOKE_PUNISHMENT", details, source); err != nil {
		res.AuditErr = fmt.Errorf("%w: %v", ErrAuditWriteFailed, err)
	}
	return res, nil
}

// CheckExpiry reports whether an active record with a finite expiration has
// passed it. Records with the permanent sentinel never expire, no matter how
// far now runs ahead of the issue time.
func CheckExpiry(rec *model.PunishmentRecord, now int64) bool {
	if !rec.Active || rec.Permanent() || rec.Expiration <= 0 {
		return false
	}
	return rec.Expiration < now
}

// ExpireIfDue performs the lazy-expiry transition: when a read observes an
// expired record it flips the stored flag before answering, so the row
// self-heals without a background sweep. Every banned/muted status query
// goes through here.
func ExpireIfDue(store RecordStore, rec *model.PunishmentRecord, now int64) (bool, error) {
	if !CheckExpiry(rec, now) {
		return false, nil
	}
	if err := store.SetActive(rec.ID, false, false); err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	rec.Active = false
	return true, nil
}

// ActiveBan returns the ban currently in force for a player, after the lazy
// expiry check. A nil record means not banned.
func ActiveBan(store RecordStore, playerUUID string, now int64) (*model.PunishmentRecord, error) {
	return activePunishment(store, playerUUID, model.BanTypes, now)
}

// ActiveMute returns the mute currently in force for a player, after the
// lazy expiry check. A nil record means not muted.
func ActiveMute(store RecordStore, playerUUID string, now int64) (*model.PunishmentRecord, error) {
	return activePunishment(store, playerUUID, model.MuteTypes, now)
}

func activePunishment(store RecordStore, playerUUID string, kinds []model.PunishmentType, now int64) (*model.PunishmentRecord, error) {
	rec, err := store.LatestActiveByKinds(playerUUID, kinds)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if rec == nil {
		return nil, nil
	}
	expired, err := ExpireIfDue(store, rec, now)
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, nil
	}
	return rec, nil
}
