package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campusgames/fanzone-api/mirror"
	"github.com/campusgames/fanzone-api/models"
	"github.com/campusgames/fanzone-api/realtime"
)

func seedMatch(t *testing.T, db *gorm.DB) *models.Match {
	t.Helper()
	match := models.Match{
		SportID:     1,
		HomeTeam:    "Falcons",
		AwayTeam:    "Owls",
		Status:      models.MatchStatusLive,
		Venue:       "Court A",
		StartsAt:    time.Now(),
		CreatedDate: time.Now(),
	}
	require.NoError(t, db.Create(&match).Error)
	return &match
}

func TestCastVoteInsertUpdateNoop(t *testing.T) {
	db := newTestDB(t)
	hub := newTestHub(t)
	svc := &VotesService{DB: db, Hub: hub}
	match := seedMatch(t, db)

	sub := hub.Subscribe(realtime.Topic(realtime.TableMatchVotes, match.ID))
	defer sub.Close()

	// First cast inserts
	vote, err := svc.CastVote(match, "dev-1", "Falcons")
	require.NoError(t, err)
	evt := <-sub.C
	assert.Equal(t, mirror.Insert, evt.Kind)

	// Same pick again is a no-op and publishes nothing
	again, err := svc.CastVote(match, "dev-1", "Falcons")
	require.NoError(t, err)
	assert.Equal(t, vote.ID, again.ID)
	assert.Empty(t, sub.C)

	// Changing the pick updates the same row
	changed, err := svc.CastVote(match, "dev-1", "Owls")
	require.NoError(t, err)
	assert.Equal(t, vote.ID, changed.ID)
	assert.Equal(t, "Owls", changed.TeamVoted)
	evt = <-sub.C
	assert.Equal(t, mirror.Update, evt.Kind)
	view, ok := evt.Row.(MatchVoteView)
	require.True(t, ok)
	assert.Equal(t, "Owls", view.TeamVoted)

	// Still exactly one row for this device
	votes, err := svc.GetVotes(match.ID)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, "Owls", votes[0].TeamVoted)
}

func TestCastVoteRejectsTeamNotPlaying(t *testing.T) {
	db := newTestDB(t)
	svc := &VotesService{DB: db, Hub: newTestHub(t)}
	match := seedMatch(t, db)

	_, err := svc.CastVote(match, "dev-1", "Hawks")
	assert.Error(t, err)
}

func TestVotesPerDevice(t *testing.T) {
	db := newTestDB(t)
	svc := &VotesService{DB: db, Hub: newTestHub(t)}
	match := seedMatch(t, db)

	for _, cast := range []struct {
		device string
		team   string
	}{
		{"dev-1", "Falcons"},
		{"dev-2", "Falcons"},
		{"dev-3", "Owls"},
	} {
		_, err := svc.CastVote(match, cast.device, cast.team)
		require.NoError(t, err)
	}

	votes, err := svc.GetVotes(match.ID)
	require.NoError(t, err)
	require.Len(t, votes, 3)

	views := make([]MatchVoteView, len(votes))
	for i, v := range votes {
		views[i] = NewMatchVoteView(v)
	}
	assert.Equal(t, map[string]int{"Falcons": 2, "Owls": 1}, CountVotes(views))
}

func TestCountVotesEmpty(t *testing.T) {
	assert.Empty(t, CountVotes(nil))
}
