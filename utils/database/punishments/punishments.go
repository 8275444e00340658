// Package punishments is the sqlite-backed punishment record store. It
// implements core.RecordStore; every query is parameterized since player
// names and reasons are user-supplied.
package punishments

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"staffsystem/model"
)

// Store wraps the shared database handle. It is passed explicitly to every
// caller rather than held in package state.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a punishment store on an initialized database.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// GetByID retrieves a single record by primary key, or (nil, nil) when
// absent.
func (s *Store) GetByID(id int64) (*model.PunishmentRecord, error) {
	var rec model.PunishmentRecord
	err := s.db.Get(&rec, "SELECT * FROM punishments WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get punishment %d: %w", id, err)
	}
	return &rec, nil
}

// GetByNaturalKey retrieves the record matching the (subject, kind, issuedAt)
// tuple that identifies one real-world punishment event across sync retries.
func (s *Store) GetByNaturalKey(playerUUID string, kind model.PunishmentType, timestamp int64) (*model.PunishmentRecord, error) {
	var rec model.PunishmentRecord
	err := s.db.Get(&rec,
		"SELECT * FROM punishments WHERE player_uuid = ? AND type = ? AND timestamp = ?",
		playerUUID, kind, timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get punishment by natural key: %w", err)
	}
	return &rec, nil
}

// Insert adds a new record and returns its assigned id.
func (s *Store) Insert(rec *model.PunishmentRecord) (int64, error) {
	query := `INSERT INTO punishments (player_uuid, player_name, staff_uuid, staff_name, type, reason, timestamp, duration, expiration, active, manual_override, server)
			  VALUES (:player_uuid, :player_name, :staff_uuid, :staff_name, :type, :reason, :timestamp, :duration, :expiration, :active, :manual_override, :server)`
	result, err := s.db.NamedExec(query, rec)
	if err != nil {
		return 0, fmt.Errorf("failed to insert punishment record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// SetActive updates the active flag. manualOverride marks the record as
// revoked by a staff member so later syncs leave the flag alone; expiry
// transitions pass false and keep the column untouched.
func (s *Store) SetActive(id int64, active bool, manualOverride bool) error {
	var err error
	if manualOverride {
		_, err = s.db.Exec("UPDATE punishments SET active = ?, manual_override = 1 WHERE id = ?", active, id)
	} else {
		_, err = s.db.Exec("UPDATE punishments SET active = ? WHERE id = ?", active, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update active flag for punishment %d: %w", id, err)
	}
	return nil
}

// SetSyncState writes the sync-owned fields of an existing record.
func (s *Store) SetSyncState(id int64, active bool, expiration int64) error {
	_, err := s.db.Exec("UPDATE punishments SET active = ?, expiration = ? WHERE id = ?", active, expiration, id)
	if err != nil {
		return fmt.Errorf("failed to update sync state for punishment %d: %w", id, err)
	}
	return nil
}

// LatestActiveByKinds retrieves the most recent active record of any of the
// given kinds for a player, or (nil, nil) when there is none.
func (s *Store) LatestActiveByKinds(playerUUID string, kinds []model.PunishmentType) (*model.PunishmentRecord, error) {
	query, args, err := sqlx.In(
		"SELECT * FROM punishments WHERE player_uuid = ? AND type IN (?) AND active = 1 ORDER BY timestamp DESC LIMIT 1",
		playerUUID, kinds)
	if err != nil {
		return nil, fmt.Errorf("failed to build active punishment query: %w", err)
	}
	var rec model.PunishmentRecord
	err = s.db.Get(&rec, s.db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active punishment for player %s: %w", playerUUID, err)
	}
	return &rec, nil
}

// LatestActiveByPlayerName is the name-keyed variant used by the bot's
// /unban and /unmute commands, where staff type a player name.
func (s *Store) LatestActiveByPlayerName(playerName string, kinds []model.PunishmentType) (*model.PunishmentRecord, error) {
	query, args, err := sqlx.In(
		"SELECT * FROM punishments WHERE player_name = ? AND type IN (?) AND active = 1 ORDER BY timestamp DESC LIMIT 1",
		playerName, kinds)
	if err != nil {
		return nil, fmt.Errorf("failed to build active punishment query: %w", err)
	}
	var rec model.PunishmentRecord
	err = s.db.Get(&rec, s.db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active punishment for player %s: %w", playerName, err)
	}
	return &rec, nil
}

// ListByPlayerUUID retrieves a player's full history, newest first.
func (s *Store) ListByPlayerUUID(playerUUID string) ([]model.PunishmentRecord, error) {
	var records []model.PunishmentRecord
	err := s.db.Select(&records,
		"SELECT * FROM punishments WHERE player_uuid = ? ORDER BY timestamp DESC", playerUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get punishment records for player %s: %w", playerUUID, err)
	}
	return records, nil
}

// ListByPlayerName retrieves a player's full history by display name, newest
// first.
func (s *Store) ListByPlayerName(playerName string) ([]model.PunishmentRecord, error) {
	var records []model.PunishmentRecord
	err := s.db.Select(&records,
		"SELECT * FROM punishments WHERE player_name = ? ORDER BY timestamp DESC", playerName)
	if err != nil {
		return nil, fmt.Errorf("failed to get punishment records for player %s: %w", playerName, err)
	}
	return records, nil
}

// Filter narrows List. Zero values mean "no constraint".
type Filter struct {
	Type   model.PunishmentType
	Status string // "active" or "inactive"
	Search string // matches player name, staff name or reason
	Limit  int
	Offset int
}

// escapeLike neutralizes SQL LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// List retrieves records matching the filter, newest first, plus the total
// count before pagination.
func (s *Store) List(filter Filter) ([]model.PunishmentRecord, int, error) {
	where := "1=1"
	args := []interface{}{}

	if filter.Type != "" {
		where += " AND type = ?"
		args = append(args, filter.Type)
	}
	switch filter.Status {
	case "active":
		where += " AND active = 1"
	case "inactive":
		where += " AND active = 0"
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		where += ` AND (player_name LIKE ? ESCAPE '\' OR staff_name LIKE ? ESCAPE '\' OR reason LIKE ? ESCAPE '\')`
		args = append(args, pattern, pattern, pattern)
	}

	var total int
	if err := s.db.Get(&total, "SELECT COUNT(*) FROM punishments WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count punishments: %w", err)
	}

	query := "SELECT * FROM punishments WHERE " + where + " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}
	var records []model.PunishmentRecord
	if err := s.db.Select(&records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list punishments: %w", err)
	}
	return records, total, nil
}

// Stats computes the punishment counters. TotalStaff is filled in by the
// staff store.
func (s *Store) Stats() (model.Stats, error) {
	var stats model.Stats
	counts := []struct {
		dest  *int
		query string
	}{
		{&stats.TotalPunishments, "SELECT COUNT(*) FROM punishments"},
		{&stats.ActiveBans, "SELECT COUNT(*) FROM punishments WHERE type IN ('BAN', 'TEMP_BAN') AND active = 1"},
		{&stats.ActiveMutes, "SELECT COUNT(*) FROM punishments WHERE type IN ('MUTE', 'TEMP_MUTE') AND active = 1"},
		{&stats.TotalWarnings, "SELECT COUNT(*) FROM punishments WHERE type = 'WARN'"},
	}
	for _, c := range counts {
		if err := s.db.Get(c.dest, c.query); err != nil {
			return model.Stats{}, fmt.Errorf("failed to compute punishment stats: %w", err)
		}
	}
	return stats, nil
}
