package services

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/campusgames/fanzone-api/filter"
	"github.com/campusgames/fanzone-api/mirror"
	"github.com/campusgames/fanzone-api/models"
	"github.com/campusgames/fanzone-api/realtime"
)

// MaxMessageLength is the longest chat message the API accepts.
const MaxMessageLength = 500

var (
	// ErrMuted is returned when a muted user tries to post.
	ErrMuted = errors.New("you are muted in this chat")
	// ErrMessageBlocked is returned when a message contains an
	// organizer-banned word. The message is rejected outright.
	ErrMessageBlocked = errors.New("message contains a banned word")
)

// ChatUserInfo identifies a chat participant for moderation purposes.
// Public users hold no accounts, so this is the device UUID the client
// generated plus whatever IP the request came from.
type ChatUserInfo struct {
	DeviceID  string `json:"device_id"`
	IpAddress string `json:"ip_address"`
}

// ChatMessageView is the shape of a chat message shown to viewers, both
// in history responses and in realtime events. It deliberately omits the
// sender's IP address, which is kept for moderation only.
type ChatMessageView struct {
	ID          uint64    `json:"id"`
	SportID     uint64    `json:"sport_id"`
	DeviceID    string    `json:"device_id"`
	Username    string    `json:"username"`
	Body        string    `json:"body"`
	Censored    bool      `json:"censored"`
	CreatedDate time.Time `json:"created_date"`
}

// NewChatMessageView serializes a chat message for viewers
func NewChatMessageView(msg *models.ChatMessage) ChatMessageView {
	return ChatMessageView{
		ID:          msg.ID,
		SportID:     msg.SportID,
		DeviceID:    msg.DeviceID,
		Username:    msg.Username,
		Body:        msg.Body,
		Censored:    msg.Censored,
		CreatedDate: msg.CreatedDate,
	}
}

// ChatReactionView is the shape of a reaction in responses and events
type ChatReactionView struct {
	ID          uint64    `json:"id"`
	MessageID   uint64    `json:"message_id"`
	DeviceID    string    `json:"device_id"`
	Emoji       string    `json:"emoji"`
	CreatedDate time.Time `json:"created_date"`
}

// NewChatReactionView serializes a reaction
func NewChatReactionView(r *models.ChatReaction) ChatReactionView {
	return ChatReactionView{
		ID:          r.ID,
		MessageID:   r.MessageID,
		DeviceID:    r.DeviceID,
		Emoji:       r.Emoji,
		CreatedDate: r.CreatedDate,
	}
}

// ChatService manages the per-sport live chat and its moderation
type ChatService struct {
	DB     *gorm.DB
	Hub    *realtime.Hub
	Filter *filter.Filter
	Log    *zap.Logger
}

// GetMessages gets the most recent messages in a sport's chat, capped at
// limit, in chronological order
func (s *ChatService) GetMessages(sportID uint64, limit int) ([]*models.ChatMessage, error) {

	// Fetch the newest rows first so the cap keeps the recent end
	var messages []*models.ChatMessage
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("sport_id = ?", sportID).
		Order("created_date DESC").
		Order("id DESC").
		Limit(limit).
		Find(&messages).
		Error
	if err != nil {
		return nil, err
	}

	// Flip them back into chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil

}

// GetMessageByID gets a single chat message by its identifier
func (s *ChatService) GetMessageByID(messageID uint64) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("id = ?", messageID).
		First(&msg).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// PostMessage runs the full send pipeline for one message: the mute
// check, the banned-word check with its per-word consequences, the
// profanity filter, and finally the insert and its realtime event.
func (s *ChatService) PostMessage(
	sportID uint64,
	user *ChatUserInfo,
	username string,
	message string,
) (*models.ChatMessage, error) {

	// Check if the user is muted in chat
	muted, err := s.IsUserMuted(user)
	if err != nil {
		return nil, err
	}
	if muted {
		return nil, ErrMuted
	}

	// Check the message against the organizer-banned words. A hit blocks
	// the message and may mute or ban the sender.
	bannedWord, err := s.matchBannedWord(message)
	if err != nil {
		return nil, err
	}
	if bannedWord != nil {
		s.applyWordConsequence(bannedWord, user)
		return nil, ErrMessageBlocked
	}

	// Censor the built-in word list. These messages still post, just with
	// the matches starred out.
	censored := s.Filter.Censor(message)

	// Store the message
	msg := models.ChatMessage{
		SportID:     sportID,
		DeviceID:    user.DeviceID,
		Username:    username,
		Body:        censored,
		Censored:    censored != message,
		CreatedDate: time.Now(),
	}
	if len(user.IpAddress) > 0 {
		msg.IpAddress = sql.NullString{
			Valid:  true,
			String: user.IpAddress,
		}
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		return nil, err
	}

	// Notify everyone watching this sport's chat
	s.publishMessage(mirror.Insert, &msg)

	return &msg, nil

}

// DeleteMessage removes a message from the chat. Deleting a message that
// is already gone is not an error.
func (s *ChatService) DeleteMessage(messageID uint64) error {

	// Get the message, if it still exists
	msg, err := s.GetMessageByID(messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return nil
	}

	// Mark it as deleted
	err = s.DB.
		Model(&models.ChatMessage{}).
		Where("id = ?", msg.ID).
		Update("deleted_date", time.Now()).
		Error
	if err != nil {
		return err
	}

	// The delete event carries the full old row so mirrors can find it
	s.publishMessage(mirror.Delete, msg)

	return nil

}

// publishMessage fans a chat message change out to the sport's topic
func (s *ChatService) publishMessage(kind mirror.Kind, msg *models.ChatMessage) {
	s.Hub.Publish(realtime.Event{
		Topic: realtime.Topic(realtime.TableChatMessages, msg.SportID),
		Table: realtime.TableChatMessages,
		Kind:  kind,
		Row:   NewChatMessageView(msg),
	})
}

//====================================================================================================
// Reactions
//====================================================================================================

// ToggleReaction adds the device's emoji reaction to a message, or
// removes it if the same reaction already exists. Returns whether the
// reaction is present after the call.
func (s *ChatService) ToggleReaction(messageID uint64, deviceID, emoji string) (bool, error) {

	// Only the fixed palette is allowed
	if !isAllowedEmoji(emoji) {
		return false, errors.New("unsupported reaction emoji")
	}

	// The message must still exist
	msg, err := s.GetMessageByID(messageID)
	if err != nil {
		return false, err
	}
	if msg == nil {
		return false, errors.New("message not found")
	}

	// Look for an existing reaction from this device
	var existing models.ChatReaction
	err = s.DB.
		Where("message_id = ?", messageID).
		Where("device_id = ?", deviceID).
		Where("emoji = ?", emoji).
		First(&existing).
		Error
	if err == nil {

		// It exists, so the toggle removes it
		if err := s.DB.Delete(&existing).Error; err != nil {
			return false, err
		}
		s.publishReaction(mirror.Delete, &existing)
		return false, nil

	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	// No reaction yet, so the toggle adds one. The unique index backstops
	// a concurrent double-add.
	reaction := models.ChatReaction{
		MessageID:   messageID,
		DeviceID:    deviceID,
		Emoji:       emoji,
		CreatedDate: time.Now(),
	}
	if err := s.DB.Create(&reaction).Error; err != nil {
		return false, err
	}
	s.publishReaction(mirror.Insert, &reaction)
	return true, nil

}

// GetReactions gets all reactions on a message
func (s *ChatService) GetReactions(messageID uint64) ([]*models.ChatReaction, error) {
	var reactions []*models.ChatReaction
	err := s.DB.
		Where("message_id = ?", messageID).
		Order("created_date ASC").
		Order("id ASC").
		Find(&reactions).
		Error
	if err != nil {
		return nil, err
	}
	return reactions, nil
}

// CountReactions tallies reactions per emoji. It is a pure function over
// whatever row set the caller holds, so it works the same on a database
// read and on a mirror snapshot.
func CountReactions(reactions []*models.ChatReaction) map[string]int {
	counts := map[string]int{}
	for _, r := range reactions {
		counts[r.Emoji]++
	}
	return counts
}

func isAllowedEmoji(emoji string) bool {
	for _, allowed := range models.AllowedEmojis {
		if emoji == allowed {
			return true
		}
	}
	return false
}

// publishReaction fans a reaction change out to the message's topic
func (s *ChatService) publishReaction(kind mirror.Kind, r *models.ChatReaction) {
	s.Hub.Publish(realtime.Event{
		Topic: realtime.Topic(realtime.TableChatReactions, r.MessageID),
		Table: realtime.TableChatReactions,
		Kind:  kind,
		Row:   NewChatReactionView(r),
	})
}

//====================================================================================================
// Moderation
//====================================================================================================

// MuteUser silences a chat participant, forever if untilDate is nil
func (s *ChatService) MuteUser(
	user *ChatUserInfo,
	untilDate *time.Time,
) (*models.MutedUser, error) {

	// If the user info is missing both fields
	if len(user.DeviceID) == 0 && len(user.IpAddress) == 0 {
		return nil, nil
	}

	// Create the until date
	var until sql.NullTime
	if untilDate != nil {
		until = sql.NullTime{
			Valid: true,
			Time:  *untilDate,
		}
	}

	// Add an entry to mute the user
	mutedUser := models.MutedUser{
		UntilDate:   until,
		CreatedDate: time.Now(),
	}
	if len(user.DeviceID) > 0 {
		mutedUser.DeviceID = sql.NullString{
			Valid:  true,
			String: user.DeviceID,
		}
	}
	if len(user.IpAddress) > 0 {
		mutedUser.IpAddress = sql.NullString{
			Valid:  true,
			String: user.IpAddress,
		}
	}
	if err := s.DB.Create(&mutedUser).Error; err != nil {
		return nil, err
	}
	return &mutedUser, nil

}

// UnmuteUser lifts every active mute matching the user
func (s *ChatService) UnmuteUser(user *ChatUserInfo) error {

	// If the user info is missing both fields
	if len(user.DeviceID) == 0 && len(user.IpAddress) == 0 {
		return nil
	}

	// Construct the query
	query := s.DB.
		Model(&models.MutedUser{}).
		Where("deleted_date IS NULL")

	// Create the ors
	ors := s.DB

	// Add the device and/or IP address
	if len(user.DeviceID) > 0 {
		ors = ors.Or("device_id LIKE ?", user.DeviceID)
	}
	if len(user.IpAddress) > 0 {
		ors = ors.Or("ip_address LIKE ?", user.IpAddress)
	}

	// Update all of the muted users and mark as deleted
	return query.
		Where(ors).
		Update("deleted_date", time.Now()).
		Error

}

// IsUserMuted checks whether the user is under an active mute
func (s *ChatService) IsUserMuted(user *ChatUserInfo) (bool, error) {

	// If the user info is missing both fields
	if len(user.DeviceID) == 0 && len(user.IpAddress) == 0 {
		return false, nil
	}

	// Active means no expiry at all, or an expiry still in the future
	query := s.DB.
		Where("deleted_date IS NULL").
		Where("until_date IS NULL OR until_date > ?", time.Now())

	// Match on the device and/or IP address
	ors := s.DB
	if len(user.DeviceID) > 0 {
		ors = ors.Or("device_id LIKE ?", user.DeviceID)
	}
	if len(user.IpAddress) > 0 {
		ors = ors.Or("ip_address LIKE ?", user.IpAddress)
	}

	var mutedUser models.MutedUser
	if err := query.Where(ors).First(&mutedUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil

}

//====================================================================================================
// Banned words
//====================================================================================================

// AddBannedWord registers an organizer-banned word. muteSeconds, if set,
// auto-mutes offenders for that long; permanentBan mutes them forever.
func (s *ChatService) AddBannedWord(
	word string,
	muteSeconds *int64,
	permanentBan bool,
) (*models.BannedWord, error) {

	word = strings.ToLower(strings.TrimSpace(word))
	if len(word) == 0 {
		return nil, errors.New("banned word is empty")
	}

	bannedWord := models.BannedWord{
		Word:         word,
		PermanentBan: permanentBan,
		CreatedDate:  time.Now(),
	}
	if muteSeconds != nil {
		bannedWord.TemporaryMuteSeconds = sql.NullInt64{
			Valid: true,
			Int64: *muteSeconds,
		}
	}
	if err := s.DB.Create(&bannedWord).Error; err != nil {
		return nil, err
	}
	return &bannedWord, nil

}

// GetBannedWords gets all of the organizer-banned words
func (s *ChatService) GetBannedWords() ([]*models.BannedWord, error) {
	var bannedWords []*models.BannedWord
	err := s.DB.
		Where("deleted_date IS NULL").
		Find(&bannedWords).
		Error
	if err != nil {
		return nil, err
	}
	return bannedWords, nil
}

// matchBannedWord finds the first organizer-banned word the message
// trips, using the same leetspeak-tolerant matching as the built-in
// filter. Returns nil if the message is clean.
func (s *ChatService) matchBannedWord(message string) (*models.BannedWord, error) {

	// Load the current word list
	bannedWords, err := s.GetBannedWords()
	if err != nil {
		return nil, err
	}
	if len(bannedWords) == 0 {
		return nil, nil
	}

	// Compile the words into the same matcher the built-in list uses
	words := make([]string, 0, len(bannedWords))
	byWord := map[string]*models.BannedWord{}
	for _, bw := range bannedWords {
		word := strings.ToLower(strings.TrimSpace(bw.Word))
		words = append(words, word)
		if _, ok := byWord[word]; !ok {
			byWord[word] = bw
		}
	}
	for _, rule := range filter.New(words).Rules() {
		if rule.Matches(message) {
			return byWord[rule.Word], nil
		}
	}
	return nil, nil

}

// applyWordConsequence enforces whatever penalty the banned word carries.
// The message is already blocked at this point, so failures here are
// logged rather than surfaced to the sender.
func (s *ChatService) applyWordConsequence(bw *models.BannedWord, user *ChatUserInfo) {

	var until *time.Time
	switch {
	case bw.PermanentBan:
		// nil until date mutes forever
	case bw.TemporaryMuteSeconds.Valid:
		t := time.Now().Add(time.Duration(bw.TemporaryMuteSeconds.Int64) * time.Second)
		until = &t
	default:
		// The word blocks the message but carries no further penalty
		return
	}

	if _, err := s.MuteUser(user, until); err != nil {
		s.Log.Error("failed to mute user for banned word",
			zap.String("word", bw.Word),
			zap.String("device_id", user.DeviceID),
			zap.Error(err),
		)
		return
	}
	s.Log.Info("muted user for banned word",
		zap.String("word", bw.Word),
		zap.String("device_id", user.DeviceID),
		zap.Bool("permanent", bw.PermanentBan),
	)

}
