// Package activity is the append-only audit trail behind every mutation.
package activity

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"staffsystem/model"
)

// Log writes and reads the activity_log table. It satisfies core.AuditLog.
type Log struct {
	db *sqlx.DB
}

// NewLog creates an activity log on an initialized database.
func NewLog(db *sqlx.DB) *Log {
	return &Log{db: db}
}

// Append records an action. staffUserID is zero for actions attributed to
// the sync API; source carries the request IP or the literal "discord".
func (l *Log) Append(staffUserID int64, action, details, source string) error {
	_, err := l.db.Exec(
		"INSERT INTO activity_log (staff_user_id, action, details, ip_address) VALUES (?, ?, ?, ?)",
		staffUserID, action, details, source)
	if err != nil {
		return fmt.Errorf("failed to append activity log entry: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first.
func (l *Log) Recent(limit int) ([]model.ActivityEntry, error) {
	var entries []model.ActivityEntry
	err := l.db.Select(&entries, "SELECT * FROM activity_log ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read activity log: %w", err)
	}
	return entries, nil
}
