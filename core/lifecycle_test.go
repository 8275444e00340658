package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"staffsystem/model"
)

// fakeStore is an in-memory RecordStore for lifecycle tests.
type fakeStore struct {
	records map[int64]*model.PunishmentRecord
	nextID  int64
	failAll bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[int64]*model.PunishmentRecord{}, nextID: 1}
}

func (f *fakeStore) GetByID(id int64) (*model.PunishmentRecord, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStore) GetByNaturalKey(playerUUID string, kind model.PunishmentType, timestamp int64) (*model.PunishmentRecord, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	for _, rec := range f.records {
		if rec.PlayerUUID == playerUUID && rec.Type == kind && rec.Timestamp == timestamp {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Insert(rec *model.PunishmentRecord) (int64, error) {
	if f.failAll {
		return 0, errors.New("store down")
	}
	id := f.nextID
	f.nextID++
	cp := *rec
	cp.ID = id
	f.records[id] = &cp
	return id, nil
}

func (f *fakeStore) SetActive(id int64, active bool, manualOverride bool) error {
	if f.failAll {
		return errors.New("store down")
	}
	rec, ok := f.records[id]
	if !ok {
		return fmt.Errorf("no punishment with id %d", id)
	}
	rec.Active = active
	if manualOverride {
		rec.ManualOverride = true
	}
	return nil
}

func (f *fakeStore) SetSyncState(id int64, active bool, expiration int64) error {
	if f.failAll {
		return errors.New("store down")
	}
	rec, ok := f.records[id]
	if !ok {
		return fmt.Errorf("no punishment with id %d", id)
	}
	rec.Active = active
	rec.Expiration = expiration
	return nil
}

func (f *fakeStore) LatestActiveByKinds(playerUUID string, kinds []model.PunishmentType) (*model.PunishmentRecord, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	var latest *model.PunishmentRecord
	for _, rec := range f.records {
		if rec.PlayerUUID != playerUUID || !rec.Active {
			continue
		}
		match := false
		for _, kind := range kinds {
			if rec.Type == kind {
				match = true
				break
			}
		}
		if !match {
			continue
		}
		if latest == nil || rec.Timestamp > latest.Timestamp {
			latest = rec
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

// fakeAudit records appends and can be told to fail.
type fakeAudit struct {
	entries []string
	fail    bool
}

func (f *fakeAudit) Append(staffUserID int64, action, details, source string) error {
	if f.fail {
		return errors.New("audit down")
	}
	f.entries = append(f.entries, action+": "+details)
	return nil
}

const (
	testPlayer = "11111111-2222-3333-4444-555555555555"
	hour       = int64(60 * 60 * 1000)
)

func tempBan(timestamp int64) *model.PunishmentRecord {
	return &model.PunishmentRecord{
		PlayerUUID: testPlayer,
		PlayerName: "Steve",
		StaffName:  "mod",
		Type:       model.TypeTempBan,
		Reason:     "griefing",
		Timestamp:  timestamp,
		Duration:   hour,
		Expiration: timestamp + hour,
		Active:     true,
		Server:     "main",
	}
}

func TestIssueCreatesRecord(t *testing.T) {
	store := newFakeStore()
	rec := tempBan(1000)

	res, err := Issue(store, rec, 1000)
	require.NoError(t, err)
	require.Equal(t, ActionCreated, res.Action)
	require.NotZero(t, res.ID)

	stored, err := store.GetByID(res.ID)
	require.NoError(t, err)
	require.True(t, stored.Active)
}

func TestIssueDuplicateUpdatesInsteadOfCreating(t *testing.T) {
	store := newFakeStore()
	first, err := Issue(store, tempBan(1000), 1000)
	require.NoError(t, err)

	replay := tempBan(1000)
	replay.Expiration = 1000 + 2*hour
	second, err := Issue(store, replay, 2000)
	require.NoError(t, err)
	require.Equal(t, ActionUpdated, second.Action)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, store.records, 1)

	stored, _ := store.GetByID(first.ID)
	require.Equal(t, 1000+2*hour, stored.Expiration)
}

func TestIssuePastExpirationStartsInactive(t *testing.T) {
	store := newFakeStore()
	rec := tempBan(1000)

	res, err := Issue(store, rec, 1000+hour+1)
	require.NoError(t, err)
	require.Equal(t, ActionCreated, res.Action)

	stored, _ := store.GetByID(res.ID)
	require.False(t, stored.Active)
}

func TestIssueKickIsAlwaysInactive(t *testing.T) {
	store := newFakeStore()
	rec := tempBan(1000)
	rec.Type = model.TypeKick
	rec.Duration = model.PermanentDuration
	rec.Expiration = 0

	res, err := Issue(store, rec, 1000)
	require.NoError(t, err)

	stored, _ := store.GetByID(res.ID)
	require.False(t, stored.Active)
}

func TestIssueWarnStaysActive(t *testing.T) {
	store := newFakeStore()
	rec := tempBan(1000)
	rec.Type = model.TypeWarn
	rec.Duration = model.PermanentDuration
	rec.Expiration = 0

	res, err := Issue(store, rec, 1000)
	require.NoError(t, err)

	stored, _ := store.GetByID(res.ID)
	require.True(t, stored.Active)
}

func TestReconcileIsIdempotent(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < 3; i++ {
		res, err := Reconcile(store, tempBan(1000), 1000)
		require.NoError(t, err)
		if i == 0 {
			require.Equal(t, ActionCreated, res.Action)
		} else {
			require.Equal(t, ActionUpdated, res.Action)
		}
	}
	require.Len(t, store.records, 1)
}

func TestReconcileKickReplayStaysInactive(t *testing.T) {
	store := newFakeStore()
	kickEvent := func() *model.PunishmentRecord {
		rec := tempBan(1000)
		rec.Type = model.TypeKick
		rec.Duration = model.PermanentDuration
		rec.Expiration = 0
		return rec
	}

	first, err := Reconcile(store, kickEvent(), 1000)
	require.NoError(t, err)
	require.Equal(t, ActionCreated, first.Action)

	stored, _ := store.GetByID(first.ID)
	require.False(t, stored.Active)

	// An idempotent retry of the same event carries active=true; the point
	// event policy must hold on the update branch too.
	second, err := Reconcile(store, kickEvent(), 2000)
	require.NoError(t, err)
	require.Equal(t, ActionUpdated, second.Action)
	require.Equal(t, first.ID, second.ID)

	stored, _ = store.GetByID(first.ID)
	require.False(t, stored.Active, "reconcile twice must equal reconcile once")
}

func TestReconcileReplayPastExpirationDoesNotReactivate(t *testing.T) {
	store := newFakeStore()
	first, err := Issue(store, tempBan(1000), 1000)
	require.NoError(t, err)

	// The game server replays the original active=true event long after the
	// ban has run out.
	replay, err := Reconcile(store, tempBan(1000), 1000+2*hour)
	require.NoError(t, err)
	require.Equal(t, ActionUpdated, replay.Action)

	stored, _ := store.GetByID(first.ID)
	require.False(t, stored.Active)
}

func TestReconcileDoesNotReinstateManuallyRevoked(t *testing.T) {
	store := newFakeStore()
	audit := &fakeAudit{}

	res, err := Issue(store, tempBan(1000), 1000)
	require.NoError(t, err)

	_, err = Revoke(store, audit, res.ID, nil, "appealed", "test")
	require.NoError(t, err)

	// The game server replays the original event with active=true.
	replay, err := Reconcile(store, tempBan(1000), 2000)
	require.NoError(t, err)
	require.Equal(t, ActionUpdated, replay.Action)

	stored, _ := store.GetByID(res.ID)
	require.False(t, stored.Active, "manual revoke must survive a sync replay")
	require.True(t, stored.ManualOverride)
}

func TestRevokeDeactivatesAndAudits(t *testing.T) {
	store := newFakeStore()
	audit := &fakeAudit{}

	issued, err := Issue(store, tempBan(1000), 1000)
	require.NoError(t, err)

	actor := &model.StaffAccount{ID: 7, Username: "alice", Tier: 3, IsActive: true}
	res, err := Revoke(store, audit, issued.ID, actor, "appealed", "dashboard")
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.NoError(t, res.AuditErr)
	require.False(t, res.Record.Active)
	require.Len(t, audit.entries, 1)
	require.Contains(t, audit.entries[0], "alice")
}

func TestRevokeAlreadyInactiveIsNoOpButStillAudited(t *testing.T) {
	store := newFakeStore()
	audit := &fakeAudit{}

	issued, err := Issue(store, tempBan(1000), 1000)
	require.NoError(t, err)
	_, err = Revoke(store, audit, issued.ID, nil, "first", "test")
	require.NoError(t, err)

	res, err := Revoke(store, audit, issued.ID, nil, "second", "test")
	require.NoError(t, err)
	require.False(t, res.Changed)
	require.Len(t, audit.entries, 2)
}

func TestRevokeMissingRecord(t *testing.T) {
	store := newFakeStore()
	_, err := Revoke(store, &fakeAudit{}, 42, nil, "reason", "test")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRevokeSurvivesAuditFailure(t *testing.T) {
	store := newFakeStore()
	audit := &fakeAudit{fail: true}

	issued, err := Issue(store, tempBan(1000), 1000)
	require.NoError(t, err)

	res, err := Revoke(store, audit, issued.ID, nil, "reason", "test")
	require.NoError(t, err, "revoke must succeed even when the audit write fails")
	require.True(t, res.Changed)
	require.ErrorIs(t, res.AuditErr, ErrAuditWriteFailed)

	stored, _ := store.GetByID(issued.ID)
	require.False(t, stored.Active)
}

func TestCheckExpiry(t *testing.T) {
	cases := []struct {
		name string
		rec  model.PunishmentRecord
		now  int64
		want bool
	}{
		{"permanent never expires", model.PunishmentRecord{Active: true, Duration: model.PermanentDuration, Expiration: 0}, 1 << 50, false},
		{"zero duration treated as permanent", model.PunishmentRecord{Active: true, Duration: 0, Expiration: 5000}, 1 << 50, false},
		{"before expiration", model.PunishmentRecord{Active: true, Duration: hour, Expiration: 5000}, 4999, false},
		{"at expiration", model.PunishmentRecord{Active: true, Duration: hour, Expiration: 5000}, 5000, false},
		{"past expiration", model.PunishmentRecord{Active: true, Duration: hour, Expiration: 5000}, 5001, true},
		{"inactive records never expire again", model.PunishmentRecord{Active: false, Duration: hour, Expiration: 5000}, 9000, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CheckExpiry(&tc.rec, tc.now))
		})
	}
}

func TestExpireIfDuePersistsTheFlip(t *testing.T) {
	store := newFakeStore()
	issued, err := Issue(store, tempBan(1000), 1000)
	require.NoError(t, err)

	rec, _ := store.GetByID(issued.ID)
	expired, err := ExpireIfDue(store, rec, 1000+hour+1)
	require.NoError(t, err)
	require.True(t, expired)
	require.False(t, rec.Active)

	stored, _ := store.GetByID(issued.ID)
	require.False(t, stored.Active)
	require.False(t, stored.ManualOverride, "expiry is not a manual override")
}

func TestActiveBanLifecycle(t *testing.T) {
	store := newFakeStore()
	issued, err := Issue(store, tempBan(1000), 1000)
	require.NoError(t, err)

	// One millisecond before expiry the ban is still in force.
	rec, err := ActiveBan(store, testPlayer, 1000+hour-1)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, issued.ID, rec.ID)

	// One millisecond past expiry the lookup self-heals the row.
	rec, err = ActiveBan(store, testPlayer, 1000+hour+1)
	require.NoError(t, err)
	require.Nil(t, rec)

	stored, _ := store.GetByID(issued.ID)
	require.False(t, stored.Active)
}

func TestActiveMuteIgnoresBans(t *testing.T) {
	store := newFakeStore()
	_, err := Issue(store, tempBan(1000), 1000)
	require.NoError(t, err)

	rec, err := ActiveMute(store, testPlayer, 2000)
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestIssueStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.failAll = true
	_, err := Issue(store, tempBan(1000), 1000)
	require.ErrorIs(t, err, ErrStoreUnavailable)
}
