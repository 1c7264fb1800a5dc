package models

import (
	"database/sql"
	"time"
)

// Match statuses as stored in the matches table.
const (
	MatchStatusScheduled = "scheduled"
	MatchStatusLive      = "live"
	MatchStatusFinished  = "finished"
)

// Match is a single fixture between two teams of one sport.
type Match struct {
	ID          uint64 `gorm:"primaryKey"`
	SportID     uint64 `gorm:"index"`
	Sport       *Sport
	HomeTeam    string
	AwayTeam    string
	HomeScore   int
	AwayScore   int
	Status      string
	Venue       string
	StartsAt    time.Time
	CreatedDate time.Time
	DeletedDate sql.NullTime
}
