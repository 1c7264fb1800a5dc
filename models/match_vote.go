package models

import "time"

// MatchVote is one device's outcome prediction for a match. The unique
// index keeps at most one row per (match, device); casting again with a
// different team updates the row in place rather than adding a second one.
type MatchVote struct {
	ID          uint64 `gorm:"primaryKey"`
	MatchID     uint64 `gorm:"index;uniqueIndex:idx_vote_once,priority:1"`
	Match       *Match
	DeviceID    string `gorm:"uniqueIndex:idx_vote_once,priority:2"`
	TeamVoted   string
	CreatedDate time.Time
	UpdatedDate time.Time
}
