package realtime

import (
	"sync"

	"go.uber.org/zap"

	"github.com/campusgames/fanzone-api/mirror"
)

// Table names used in topic strings. Every published event belongs to one
// of these collections.
const (
	TableChatMessages  = "chat_messages"
	TableChatReactions = "chat_reactions"
	TableMatchVotes    = "match_votes"
	TableMatches       = "matches"
)

// SubscribeRows adapts a topic subscription into the typed feed a mirror
// syncer consumes. Events whose row is not an R are logged and skipped
// rather than tearing the feed down. The returned release function stops
// delivery and ends the forwarding goroutine.
func SubscribeRows[R any](h *Hub, topic string) (<-chan mirror.Event[R], func()) {
	sub := h.Subscribe(topic)
	out := make(chan mirror.Event[R])
	done := make(chan struct{})
	var once sync.Once
	release := func() {
		once.Do(func() {
			sub.Close()
			close(done)
		})
	}
	go func() {
		defer close(out)
		for evt := range sub.C {
			row, ok := evt.Row.(R)
			if !ok {
				h.log.Warn("realtime: skipping event with unexpected row type",
					zap.String("topic", evt.Topic),
					zap.String("table", evt.Table),
				)
				continue
			}
			select {
			case out <- mirror.Event[R]{Kind: evt.Kind, Row: row}:
			case <-done:
				return
			}
		}
	}()
	return out, release
}
