// Package staff is the sqlite-backed staff directory: accounts, tier
// definitions and the credential lookups the login and bot-link flows use.
package staff

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"staffsystem/model"
)

// Store wraps the shared database handle for staff account operations.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a staff store on an initialized database.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// GetByID retrieves an account by primary key, or (nil, nil) when absent.
func (s *Store) GetByID(id int64) (*model.StaffAccount, error) {
	var acc model.StaffAccount
	err := s.db.Get(&acc, "SELECT * FROM staff_users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff account %d: %w", id, err)
	}
	return &acc, nil
}

// GetByUsername retrieves an account by its unique username.
func (s *Store) GetByUsername(username string) (*model.StaffAccount, error) {
	var acc model.StaffAccount
	err := s.db.Get(&acc, "SELECT * FROM staff_users WHERE username = ?", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff account %s: %w", username, err)
	}
	return &acc, nil
}

// GetByDiscordID retrieves the account linked to a Discord identity. At most
// one account carries any given Discord id.
func (s *Store) GetByDiscordID(discordID string) (*model.StaffAccount, error) {
	if discordID == "" {
		return nil, nil
	}
	var acc model.StaffAccount
	err := s.db.Get(&acc, "SELECT * FROM staff_users WHERE discord_id = ?", discordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff account by discord id %s: %w", discordID, err)
	}
	return &acc, nil
}

// ExistsByUsernameOrEmail reports whether either credential is taken.
func (s *Store) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	var count int
	err := s.db.Get(&count, "SELECT COUNT(*) FROM staff_users WHERE username = ? OR email = ?", username, email)
	if err != nil {
		return false, fmt.Errorf("failed to check staff uniqueness: %w", err)
	}
	return count > 0, nil
}

// List retrieves every account, highest tier first.
func (s *Store) List() ([]model.StaffAccount, error) {
	var accounts []model.StaffAccount
	err := s.db.Select(&accounts, "SELECT * FROM staff_users ORDER BY tier DESC, username ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list staff accounts: %w", err)
	}
	return accounts, nil
}

// Create inserts a new account and returns its assigned id. Password must
// already be hashed.
func (s *Store) Create(acc *model.StaffAccount) (int64, error) {
	query := `INSERT INTO staff_users (username, email, password, minecraft_uuid, minecraft_name, discord_id, tier, role, permissions, is_active)
			  VALUES (:username, :email, :password, :minecraft_uuid, :minecraft_name, :discord_id, :tier, :role, :permissions, :is_active)`
	result, err := s.db.NamedExec(query, acc)
	if err != nil {
		return 0, fmt.Errorf("failed to create staff account %s: %w", acc.Username, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// Update writes the profile fields a higher-tier actor may change. The
// password and username are managed separately.
func (s *Store) Update(acc *model.StaffAccount) error {
	query := `UPDATE staff_users SET email = :email, minecraft_uuid = :minecraft_uuid, minecraft_name = :minecraft_name,
			  discord_id = :discord_id, tier = :tier, role = :role, permissions = :permissions,
			  is_active = :is_active, updated_at = CURRENT_TIMESTAMP WHERE id = :id`
	result, err := s.db.NamedExec(query, acc)
	if err != nil {
		return fmt.Errorf("failed to update staff account %d: %w", acc.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for staff account %d: %w", acc.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("no staff account found with id %d", acc.ID)
	}
	return nil
}

// UpdatePassword replaces the stored hash.
func (s *Store) UpdatePassword(id int64, hash string) error {
	_, err := s.db.Exec("UPDATE staff_users SET password = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", hash, id)
	if err != nil {
		return fmt.Errorf("failed to update password for staff account %d: %w", id, err)
	}
	return nil
}

// UpdateLastLogin stamps a successful authentication, epoch milliseconds.
func (s *Store) UpdateLastLogin(id int64, now int64) error {
	_, err := s.db.Exec("UPDATE staff_users SET last_login = ? WHERE id = ?", now, id)
	if err != nil {
		return fmt.Errorf("failed to update last login for staff account %d: %w", id, err)
	}
	return nil
}

// LinkDiscord attaches a Discord identity to an account. Callers enforce the
// one-account-per-identity invariant via GetByDiscordID first.
func (s *Store) LinkDiscord(id int64, discordID string) error {
	_, err := s.db.Exec("UPDATE staff_users SET discord_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", discordID, id)
	if err != nil {
		return fmt.Errorf("failed to link discord id for staff account %d: %w", id, err)
	}
	return nil
}

// Delete removes an account permanently.
func (s *Store) Delete(id int64) error {
	result, err := s.db.Exec("DELETE FROM staff_users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete staff account %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for staff account %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("no staff account found with id %d", id)
	}
	return nil
}

// CountActive returns the number of active staff accounts.
func (s *Store) CountActive() (int, error) {
	var count int
	if err := s.db.Get(&count, "SELECT COUNT(*) FROM staff_users WHERE is_active = 1"); err != nil {
		return 0, fmt.Errorf("failed to count active staff: %w", err)
	}
	return count, nil
}

// Tiers retrieves every tier definition, lowest level first.
func (s *Store) Tiers() ([]model.StaffTier, error) {
	var tiers []model.StaffTier
	err := s.db.Select(&tiers, "SELECT * FROM staff_tiers ORDER BY tier_level ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list staff tiers: %w", err)
	}
	return tiers, nil
}

// GetTier retrieves one tier definition by level, or (nil, nil) when absent.
func (s *Store) GetTier(level int) (*model.StaffTier, error) {
	var tier model.StaffTier
	err := s.db.Get(&tier, "SELECT * FROM staff_tiers WHERE tier_level = ?", level)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff tier %d: %w", level, err)
	}
	return &tier, nil
}

// TierDefaults returns the default permission set for a tier level. Unknown
// levels get an empty set rather than an error, so a stale tier assignment
// degrades to deny-by-default.
func (s *Store) TierDefaults(level int) (model.PermissionSet, error) {
	tier, err := s.GetTier(level)
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return model.PermissionSet{}, nil
	}
	return tier.Permissions, nil
}

// MaxTierLevel returns the highest defined tier level (the owner tier).
func (s *Store) MaxTierLevel() (int, error) {
	var max int
	if err := s.db.Get(&max, "SELECT COALESCE(MAX(tier_level), 0) FROM staff_tiers"); err != nil {
		return 0, fmt.Errorf("failed to get max tier level: %w", err)
	}
	return max, nil
}

// UpdateTier rewrites a tier definition.
func (s *Store) UpdateTier(tier *model.StaffTier) error {
	query := `UPDATE staff_tiers SET name = :name, color = :color, permissions = :permissions,
			  discord_role_id = :discord_role_id WHERE tier_level = :tier_level`
	result, err := s.db.NamedExec(query, tier)
	if err != nil {
		return fmt.Errorf("failed to update staff tier %d: %w", tier.TierLevel, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for staff tier %d: %w", tier.TierLevel, err)
	}
	if affected == 0 {
		return fmt.Errorf("no staff tier found with level %d", tier.TierLevel)
	}
	return nil
}
