package models

import (
	"database/sql"
	"time"
)

// Team carries the display metadata for a squad within one sport: the
// accent color and crest used on standings and vote cards. Match rows
// reference teams by name.
type Team struct {
	ID          uint64 `gorm:"primaryKey"`
	SportID     uint64 `gorm:"index"`
	Sport       *Sport
	Name        string
	Color       string
	Crest       string
	CreatedDate time.Time
	DeletedDate sql.NullTime
}
