package realtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/campusgames/fanzone-api/mirror"
)

// Event is a single row change fanned out to subscribers. Row holds the
// full affected row: the new value for inserts and updates, the last
// value for deletes.
type Event struct {
	Topic string      `json:"topic"`
	Table string      `json:"table"`
	Kind  mirror.Kind `json:"kind"`
	Row   any         `json:"row"`
}

// Topic names the event stream for one parent-scoped collection, such as
// the chat messages of a single sport or the votes of a single match.
func Topic(table string, parentID uint64) string {
	return table + "/" + strconv.FormatUint(parentID, 10)
}

// ParseTopic splits a client-supplied topic string back into its table
// name and parent identifier, rejecting tables that are not published.
func ParseTopic(topic string) (string, uint64, error) {
	table, rawID, found := strings.Cut(topic, "/")
	if !found {
		return "", 0, fmt.Errorf("malformed topic %q", topic)
	}
	switch table {
	case TableChatMessages, TableChatReactions, TableMatchVotes, TableMatches:
	default:
		return "", 0, fmt.Errorf("unknown topic table %q", table)
	}
	parentID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed topic %q", topic)
	}
	return table, parentID, nil
}
