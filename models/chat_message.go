package models

import (
	"database/sql"
	"time"
)

// ChatMessage is one message in a sport's live chat. The body is stored
// already censored; Censored records whether the filter fired. DeviceID is
// the client-generated identity of the sender, IpAddress is kept for
// moderation only and never serialized to other viewers.
type ChatMessage struct {
	ID          uint64 `gorm:"primaryKey"`
	SportID     uint64 `gorm:"index"`
	Sport       *Sport
	DeviceID    string `gorm:"index"`
	Username    string
	Body        string
	Censored    bool
	IpAddress   sql.NullString
	CreatedDate time.Time
	DeletedDate sql.NullTime
}
