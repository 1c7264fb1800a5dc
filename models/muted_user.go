package models

import (
	"database/sql"
	"time"
)

// MutedUser is a chat participant muted by the organizers, matched by
// device identifier and/or IP address. A row with no UntilDate mutes
// forever; otherwise the mute lapses once UntilDate passes.
type MutedUser struct {
	ID          uint64 `gorm:"primaryKey"`
	DeviceID    sql.NullString
	IpAddress   sql.NullString
	UntilDate   sql.NullTime
	CreatedDate time.Time
	DeletedDate sql.NullTime
}
