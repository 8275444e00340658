package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"staffsystem/model"
)

// Init opens the database and ensures all tables, indexes and seed rows
// exist. Pass ":memory:" for an ephemeral database in tests.
func Init(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL journal mode: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := seedDefaultTiers(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := seedDefaultAdmin(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func createTables(db *sqlx.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS punishments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_uuid TEXT NOT NULL,
			player_name TEXT NOT NULL,
			staff_uuid TEXT NOT NULL,
			staff_name TEXT NOT NULL,
			type TEXT NOT NULL,
			reason TEXT DEFAULT '',
			timestamp INTEGER NOT NULL,
			duration INTEGER NOT NULL,
			expiration INTEGER NOT NULL,
			active INTEGER DEFAULT 1,
			manual_override INTEGER DEFAULT 0,
			server TEXT DEFAULT 'main'
		);`,
		`CREATE INDEX IF NOT EXISTS idx_punishments_player_uuid ON punishments(player_uuid);`,
		`CREATE INDEX IF NOT EXISTS idx_punishments_active ON punishments(active);`,
		`CREATE INDEX IF NOT EXISTS idx_punishments_type ON punishments(type);`,
		`CREATE TABLE IF NOT EXISTS staff_users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			minecraft_uuid TEXT DEFAULT '',
			minecraft_name TEXT DEFAULT '',
			discord_id TEXT DEFAULT '',
			tier INTEGER DEFAULT 1,
			role TEXT DEFAULT 'staff',
			permissions TEXT DEFAULT '{}',
			is_active INTEGER DEFAULT 1,
			last_login INTEGER DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS staff_tiers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tier_level INTEGER UNIQUE NOT NULL,
			name TEXT NOT NULL,
			color TEXT DEFAULT '#FFFFFF',
			permissions TEXT DEFAULT '{}',
			discord_role_id TEXT DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS activity_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			staff_user_id INTEGER DEFAULT 0,
			action TEXT NOT NULL,
			details TEXT DEFAULT '',
			ip_address TEXT DEFAULT '',
			timestamp TEXT DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, schema := range schemas {
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return nil
}

func seedDefaultTiers(db *sqlx.DB) error {
	tiers := []model.StaffTier{
		{TierLevel: 1, Name: "Trial Staff", Color: "#90EE90", Permissions: model.PermissionSet{"ban": false, "mute": true, "kick": true, "warn": true}},
		{TierLevel: 2, Name: "Moderator", Color: "#00BFFF", Permissions: model.PermissionSet{"ban": true, "mute": true, "kick": true, "warn": true}},
		{TierLevel: 3, Name: "Senior Moderator", Color: "#9370DB", Permissions: model.PermissionSet{"ban": true, "mute": true, "kick": true, "warn": true, "manage_staff": false}},
		{TierLevel: 4, Name: "Admin", Color: "#FF6347", Permissions: model.PermissionSet{"ban": true, "mute": true, "kick": true, "warn": true, "manage_staff": true}},
		{TierLevel: 5, Name: "Owner", Color: "#FFD700", Permissions: model.PermissionSet{"ban": true, "mute": true, "kick": true, "warn": true, "manage_staff": true, "admin": true}},
	}
	query := `INSERT OR IGNORE INTO staff_tiers (tier_level, name, color, permissions, discord_role_id)
			  VALUES (:tier_level, :name, :color, :permissions, :discord_role_id)`
	for _, tier := range tiers {
		if _, err := db.NamedExec(query, tier); err != nil {
			return fmt.Errorf("failed to seed tier %d: %w", tier.TierLevel, err)
		}
	}
	return nil
}

// seedDefaultAdmin creates the bootstrap owner account on first run.
func seedDefaultAdmin(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM staff_users WHERE username = ?", "admin"); err != nil {
		return fmt.Errorf("failed to check for default admin: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}
	_, err = db.Exec(`INSERT INTO staff_users (username, email, password, tier, role, is_active, permissions)
					  VALUES (?, ?, ?, ?, ?, 1, ?)`,
		"admin", "admin@example.com", string(hash), 5, "owner", `{"all": true}`)
	if err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}
	log.Println("Default admin account created (username: admin, password: admin123). Change the password immediately.")
	return nil
}
