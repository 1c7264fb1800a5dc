package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/campusgames/fanzone-api/mirror"
	"github.com/campusgames/fanzone-api/models"
	"github.com/campusgames/fanzone-api/realtime"
)

// MatchVoteView is the shape of a vote in responses and events
type MatchVoteView struct {
	ID          uint64    `json:"id"`
	MatchID     uint64    `json:"match_id"`
	DeviceID    string    `json:"device_id"`
	TeamVoted   string    `json:"team_voted"`
	UpdatedDate time.Time `json:"updated_date"`
}

// NewMatchVoteView serializes a vote
func NewMatchVoteView(v *models.MatchVote) MatchVoteView {
	return MatchVoteView{
		ID:          v.ID,
		MatchID:     v.MatchID,
		DeviceID:    v.DeviceID,
		TeamVoted:   v.TeamVoted,
		UpdatedDate: v.UpdatedDate,
	}
}

// VotesService manages crowd votes on match outcomes
type VotesService struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

// CastVote records one device's pick for a match. A device holds at most
// one vote per match: the first cast inserts it, casting the same team
// again changes nothing, and casting the other team updates the row in
// place. The matching insert or update event is published.
func (s *VotesService) CastVote(
	match *models.Match,
	deviceID string,
	team string,
) (*models.MatchVote, error) {

	// The pick has to be one of the two sides actually playing
	if team != match.HomeTeam && team != match.AwayTeam {
		return nil, errors.New("team is not playing in this match")
	}

	// Look for the device's existing vote on this match
	var vote models.MatchVote
	err := s.DB.
		Where("match_id = ?", match.ID).
		Where("device_id = ?", deviceID).
		First(&vote).
		Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		// First vote from this device. The unique index on
		// (match_id, device_id) backstops a concurrent double-insert.
		now := time.Now()
		vote = models.MatchVote{
			MatchID:     match.ID,
			DeviceID:    deviceID,
			TeamVoted:   team,
			CreatedDate: now,
			UpdatedDate: now,
		}
		if err := s.DB.Create(&vote).Error; err != nil {
			return nil, err
		}
		s.publishVote(mirror.Insert, &vote)
		return &vote, nil
	}

	// Same pick again changes nothing and emits nothing
	if vote.TeamVoted == team {
		return &vote, nil
	}

	// Changed their mind: update the existing row
	vote.TeamVoted = team
	vote.UpdatedDate = time.Now()
	err = s.DB.
		Model(&models.MatchVote{}).
		Where("id = ?", vote.ID).
		Updates(map[string]interface{}{
			"team_voted":   vote.TeamVoted,
			"updated_date": vote.UpdatedDate,
		}).
		Error
	if err != nil {
		return nil, err
	}
	s.publishVote(mirror.Update, &vote)
	return &vote, nil

}

// GetVotes gets every vote on a match, oldest first
func (s *VotesService) GetVotes(matchID uint64) ([]*models.MatchVote, error) {
	var votes []*models.MatchVote
	err := s.DB.
		Where("match_id = ?", matchID).
		Order("created_date ASC").
		Order("id ASC").
		Find(&votes).
		Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

// CountVotes tallies votes per team. It is a pure function over whatever
// row set the caller holds, so a database read and a mirror snapshot
// produce the same tally.
func CountVotes(votes []MatchVoteView) map[string]int {
	counts := map[string]int{}
	for _, v := range votes {
		counts[v.TeamVoted]++
	}
	return counts
}

// publishVote fans a vote change out to the match's topic
func (s *VotesService) publishVote(kind mirror.Kind, v *models.MatchVote) {
	s.Hub.Publish(realtime.Event{
		Topic: realtime.Topic(realtime.TableMatchVotes, v.MatchID),
		Table: realtime.TableMatchVotes,
		Kind:  kind,
		Row:   NewMatchVoteView(v),
	})
}
