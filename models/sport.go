package models

import (
	"database/sql"
	"time"
)

// Sport is one discipline of the festival. Matches, streams and the live
// chat room all hang off a sport.
type Sport struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string
	Slug        string `gorm:"uniqueIndex"`
	Icon        string
	CreatedDate time.Time
	DeletedDate sql.NullTime
}
