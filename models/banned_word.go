package models

import (
	"database/sql"
	"time"
)

// BannedWord is a word organizers have banned in chat on top of the
// built-in filter list. A word can carry an automatic mute duration, or a
// permanent ban for whoever posts it.
type BannedWord struct {
	ID                   uint64 `gorm:"primaryKey"`
	Word                 string
	TemporaryMuteSeconds sql.NullInt64
	PermanentBan         bool
	CreatedDate          time.Time
	DeletedDate          sql.NullTime
}
