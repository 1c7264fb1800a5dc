package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusgames/fanzone-api/mirror"
)

type voteRow struct {
	DeviceID string
	Team     string
}

func TestSubscribeRowsForwardsTypedEvents(t *testing.T) {
	h := NewHub(zap.NewNop())
	defer h.Close()

	out, release := SubscribeRows[voteRow](h, "match_votes/1")
	defer release()

	h.Publish(Event{
		Topic: "match_votes/1",
		Table: TableMatchVotes,
		Kind:  mirror.Insert,
		Row:   voteRow{DeviceID: "d-1", Team: "Falcons"},
	})

	select {
	case evt := <-out:
		assert.Equal(t, mirror.Insert, evt.Kind)
		assert.Equal(t, "Falcons", evt.Row.Team)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for forwarded event")
	}
}

func TestSubscribeRowsSkipsForeignRowTypes(t *testing.T) {
	h := NewHub(zap.NewNop())
	defer h.Close()

	out, release := SubscribeRows[voteRow](h, "match_votes/1")
	defer release()

	h.Publish(Event{Topic: "match_votes/1", Table: TableMatchVotes, Kind: mirror.Insert, Row: "not a vote"})
	h.Publish(Event{
		Topic: "match_votes/1",
		Table: TableMatchVotes,
		Kind:  mirror.Insert,
		Row:   voteRow{DeviceID: "d-2", Team: "Owls"},
	})

	select {
	case evt := <-out:
		assert.Equal(t, "Owls", evt.Row.Team, "the malformed event must be dropped, not delivered")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for forwarded event")
	}
}

func TestSubscribeRowsReleaseStopsForwarding(t *testing.T) {
	h := NewHub(zap.NewNop())
	defer h.Close()

	out, release := SubscribeRows[voteRow](h, "match_votes/1")

	// Queue events that will never be read from out, then release. The
	// forwarding goroutine must exit even with undelivered events pending.
	for i := 0; i < 5; i++ {
		h.Publish(Event{Topic: "match_votes/1", Table: TableMatchVotes, Kind: mirror.Insert, Row: voteRow{DeviceID: "x", Team: "Owls"}})
	}
	release()
	release()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-out:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "out must be drained and closed after release")
}

func TestParseTopic(t *testing.T) {
	table, id, err := ParseTopic("chat_messages/42")
	require.NoError(t, err)
	assert.Equal(t, TableChatMessages, table)
	assert.Equal(t, uint64(42), id)

	_, _, err = ParseTopic("chat_messages")
	assert.Error(t, err)
	_, _, err = ParseTopic("chat_messages/abc")
	assert.Error(t, err)
	_, _, err = ParseTopic("secrets/1")
	assert.Error(t, err)
}

func TestTopicRoundTrip(t *testing.T) {
	topic := Topic(TableMatchVotes, 7)
	assert.Equal(t, "match_votes/7", topic)

	table, id, err := ParseTopic(topic)
	require.NoError(t, err)
	assert.Equal(t, TableMatchVotes, table)
	assert.Equal(t, uint64(7), id)
}
