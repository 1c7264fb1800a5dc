package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/campusgames/fanzone-api/models"
)

// StreamView is the shape of a stream link in responses
type StreamView struct {
	ID       uint64    `json:"id"`
	SportID  uint64    `json:"sport_id"`
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	Channel  string    `json:"channel"`
	Live     bool      `json:"live"`
	StartsAt time.Time `json:"starts_at"`
}

// NewStreamView serializes a stream
func NewStreamView(stream *models.Stream) StreamView {
	return StreamView{
		ID:       stream.ID,
		SportID:  stream.SportID,
		Title:    stream.Title,
		URL:      stream.URL,
		Channel:  stream.Channel,
		Live:     stream.Live,
		StartsAt: stream.StartsAt,
	}
}

// StreamsService manages the live-stream links shown on sport pages
type StreamsService struct {
	DB *gorm.DB
}

// GetStreams gets a sport's streams, soonest first
func (s *StreamsService) GetStreams(sportID uint64) ([]*models.Stream, error) {
	var streams []*models.Stream
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("sport_id = ?", sportID).
		Order("starts_at ASC").
		Find(&streams).
		Error
	if err != nil {
		return nil, err
	}
	return streams, nil
}

// GetLiveStreams gets every stream currently on air, across all sports
func (s *StreamsService) GetLiveStreams() ([]*models.Stream, error) {
	var streams []*models.Stream
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("live = ?", true).
		Order("starts_at ASC").
		Find(&streams).
		Error
	if err != nil {
		return nil, err
	}
	return streams, nil
}

// UpsertStream creates or refreshes the stream identified by its channel
// within a sport. Studio edits land here, so going live is just flipping
// the same row's flag.
func (s *StreamsService) UpsertStream(
	sportID uint64,
	title string,
	url string,
	channel string,
	live bool,
	startsAt time.Time,
) (*models.Stream, error) {

	if len(channel) == 0 {
		return nil, errors.New("stream channel is required")
	}

	// Look for the existing row for this channel
	var stream models.Stream
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("sport_id = ?", sportID).
		Where("channel = ?", channel).
		First(&stream).
		Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		// No row yet, create one
		stream = models.Stream{
			SportID:     sportID,
			Title:       title,
			URL:         url,
			Channel:     channel,
			Live:        live,
			StartsAt:    startsAt,
			CreatedDate: time.Now(),
		}
		if err := s.DB.Create(&stream).Error; err != nil {
			return nil, err
		}
		return &stream, nil
	}

	// Refresh the existing row
	stream.Title = title
	stream.URL = url
	stream.Live = live
	stream.StartsAt = startsAt
	err = s.DB.
		Model(&models.Stream{}).
		Where("id = ?", stream.ID).
		Updates(map[string]interface{}{
			"title":     stream.Title,
			"url":       stream.URL,
			"live":      stream.Live,
			"starts_at": stream.StartsAt,
		}).
		Error
	if err != nil {
		return nil, err
	}
	return &stream, nil

}
