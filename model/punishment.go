package model

// PunishmentType is the closed set of punishment kinds synced from the game
// server.
type PunishmentType string

const (
	TypeBan      PunishmentType = "BAN"
	TypeTempBan  PunishmentType = "TEMP_BAN"
	TypeMute     PunishmentType = "MUTE"
	TypeTempMute PunishmentType = "TEMP_MUTE"
	TypeKick     PunishmentType = "KICK"
	TypeWarn     PunishmentType = "WARN"
)

// PermanentDuration is the sentinel for punishments that never expire on
// their own. A zero duration is treated the same way.
const PermanentDuration int64 = -1

// BanTypes and MuteTypes are the kinds consulted by the banned/muted status
// queries.
var (
	BanTypes  = []PunishmentType{TypeBan, TypeTempBan}
	MuteTypes = []PunishmentType{TypeMute, TypeTempMute}
)

// Valid reports whether t is one of the known punishment kinds.
func (t PunishmentType) Valid() bool {
	switch t {
	case TypeBan, TypeTempBan, TypeMute, TypeTempMute, TypeKick, TypeWarn:
		return true
	}
	return false
}

// PointEvent reports whether the kind has no ongoing effect after issuance.
// A kick is over the moment it happens, so kick records are stored inactive
// from creation. Warnings stay active until cleared.
func (t PunishmentType) PointEvent() bool {
	return t == TypeKick
}

// PunishmentRecord represents a single row in the punishments table.
// Timestamp and Expiration are epoch milliseconds, Duration is milliseconds.
type PunishmentRecord struct {
	ID             int64          `db:"id" json:"id"`
	PlayerUUID     string         `db:"player_uuid" json:"playerUuid"`
	PlayerName     string         `db:"player_name" json:"playerName"`
	StaffUUID      string         `db:"staff_uuid" json:"staffUuid"`
	StaffName      string         `db:"staff_name" json:"staffName"`
	Type           PunishmentType `db:"type" json:"type"`
	Reason         string         `db:"reason" json:"reason"`
	Timestamp      int64          `db:"timestamp" json:"timestamp"`
	Duration       int64          `db:"duration" json:"duration"`
	Expiration     int64          `db:"expiration" json:"expiration"`
	Active         bool           `db:"active" json:"active"`
	ManualOverride bool           `db:"manual_override" json:"manualOverride"`
	Server         string         `db:"server" json:"server"`
}

// Permanent reports whether the record never expires on its own.
func (r *PunishmentRecord) Permanent() bool {
	return r.Duration == PermanentDuration || r.Duration == 0
}

// Stats holds the dashboard and /stats command counters.
type Stats struct {
	TotalPunishments int `json:"totalPunishments"`
	ActiveBans       int `json:"activeBans"`
	ActiveMutes      int `json:"activeMutes"`
	TotalWarnings    int `json:"totalWarnings"`
	TotalStaff       int `json:"totalStaff"`
}
