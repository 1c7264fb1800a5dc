package models

import (
	"database/sql"
	"time"
)

// Stream is a live-stream link shown on a sport's page. Live marks the
// stream that is currently on air.
type Stream struct {
	ID          uint64 `gorm:"primaryKey"`
	SportID     uint64 `gorm:"index"`
	Sport       *Sport
	Title       string
	URL         string
	Channel     string
	Live        bool
	StartsAt    time.Time
	CreatedDate time.Time
	DeletedDate sql.NullTime
}
