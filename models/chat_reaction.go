package models

import "time"

// AllowedEmojis is the fixed palette of reactions clients may attach to a
// chat message.
var AllowedEmojis = []string{"👏", "🔥", "😂", "😮", "❤️"}

// ChatReaction is one device's emoji reaction to a chat message. A device
// holds at most one reaction per emoji per message; reacting again with the
// same emoji removes the row outright, so there is no soft delete here.
type ChatReaction struct {
	ID          uint64 `gorm:"primaryKey"`
	MessageID   uint64 `gorm:"index;uniqueIndex:idx_reaction_once,priority:1"`
	Message     *ChatMessage
	DeviceID    string `gorm:"uniqueIndex:idx_reaction_once,priority:2"`
	Emoji       string `gorm:"uniqueIndex:idx_reaction_once,priority:3"`
	CreatedDate time.Time
}
