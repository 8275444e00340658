package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PermissionAll grants every capability and short-circuits all checks.
const PermissionAll = "all"

// PermissionSet maps capability names to grants. It is persisted as a JSON
// text blob and decoded exactly once when a row is scanned; business logic
// only ever sees the typed map.
type PermissionSet map[string]bool

// Scan implements sql.Scanner for the permissions column.
func (p *PermissionSet) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*p = PermissionSet{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PermissionSet", src)
	}
	if len(data) == 0 {
		*p = PermissionSet{}
		return nil
	}
	m := make(map[string]bool)
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to decode permission set: %w", err)
	}
	*p = m
	return nil
}

// Value implements driver.Valuer for the permissions column.
func (p PermissionSet) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode permission set: %w", err)
	}
	return string(data), nil
}

// Merge returns a copy of p with the override keys applied on top. Override
// keys always win, including explicit false entries.
func (p PermissionSet) Merge(overrides PermissionSet) PermissionSet {
	merged := make(PermissionSet, len(p)+len(overrides))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// StaffAccount represents a row in the staff_users table. Password holds the
// bcrypt hash and is never serialized.
type StaffAccount struct {
	ID            int64         `db:"id" json:"id"`
	Username      string        `db:"username" json:"username"`
	Email         string        `db:"email" json:"email"`
	Password      string        `db:"password" json:"-"`
	MinecraftUUID string        `db:"minecraft_uuid" json:"minecraftUuid"`
	MinecraftName string        `db:"minecraft_name" json:"minecraftName"`
	DiscordID     string        `db:"discord_id" json:"discordId"`
	Tier          int           `db:"tier" json:"tier"`
	Role          string        `db:"role" json:"role"`
	Permissions   PermissionSet `db:"permissions" json:"permissions"`
	IsActive      bool          `db:"is_active" json:"isActive"`
	LastLogin     int64         `db:"last_login" json:"lastLogin"`
	CreatedAt     string        `db:"created_at" json:"createdAt"`
	UpdatedAt     string        `db:"updated_at" json:"updatedAt"`
}

// StaffTier represents a row in the staff_tiers table. Permissions are the
// defaults every account of this tier inherits.
type StaffTier struct {
	ID            int64         `db:"id" json:"id"`
	TierLevel     int           `db:"tier_level" json:"tierLevel"`
	Name          string        `db:"name" json:"name"`
	Color         string        `db:"color" json:"color"`
	Permissions   PermissionSet `db:"permissions" json:"permissions"`
	DiscordRoleID string        `db:"discord_role_id" json:"discordRoleId"`
}

// ActivityEntry is a row in the activity_log table. StaffUserID is zero for
// actions performed by the sync API rather than a logged-in account.
type ActivityEntry struct {
	ID          int64  `db:"id" json:"id"`
	StaffUserID int64  `db:"staff_user_id" json:"staffUserId"`
	Action      string `db:"action" json:"action"`
	Details     string `db:"details" json:"details"`
	IPAddress   string `db:"ip_address" json:"ipAddress"`
	Timestamp   string `db:"timestamp" json:"timestamp"`
}
