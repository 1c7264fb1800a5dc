package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/campusgames/fanzone-api/mirror"
	"github.com/campusgames/fanzone-api/realtime"
)

// replayLength is how many recent messages a newly joined viewer is
// caught up with, so they don't open the page to an empty chat screen.
const replayLength = 25

// ChatMirrorService keeps a live mirror of each joined sport's chat for
// replaying to new viewers. Unlike a plain ring buffer, the mirror also
// applies moderation deletes, so a removed message never replays.
type ChatMirrorService struct {
	Chat *ChatService
	Hub  *realtime.Hub
	Log  *zap.Logger

	mut     sync.Mutex
	syncers map[uint64]*mirror.Syncer[uint64, ChatMessageView]
}

// RecentMessages gets the sport's replay tail, oldest first
func (s *ChatMirrorService) RecentMessages(sportID uint64) ([]ChatMessageView, error) {

	syncer, err := s.syncer(sportID)
	if err != nil {
		return nil, err
	}

	// Keep only the recent end of the snapshot
	snap := syncer.Mirror().Snapshot()
	if len(snap) > replayLength {
		snap = snap[len(snap)-replayLength:]
	}
	return snap, nil

}

// syncer gets the sport's chat mirror, starting it on first use
func (s *ChatMirrorService) syncer(sportID uint64) (*mirror.Syncer[uint64, ChatMessageView], error) {

	// Lock on the syncers
	s.mut.Lock()
	defer s.mut.Unlock()

	// Reuse the running mirror if there is one
	if s.syncers == nil {
		s.syncers = map[uint64]*mirror.Syncer[uint64, ChatMessageView]{}
	}
	if syncer, ok := s.syncers[sportID]; ok {
		return syncer, nil
	}

	syncer, err := mirror.Start(context.Background(), mirror.Config[uint64, ChatMessageView]{
		Mirror: mirror.New(func(m ChatMessageView) uint64 { return m.ID }),
		BulkRead: func(ctx context.Context) ([]ChatMessageView, error) {
			messages, err := s.Chat.GetMessages(sportID, replayLength)
			if err != nil {
				return nil, err
			}
			views := make([]ChatMessageView, len(messages))
			for i, m := range messages {
				views[i] = NewChatMessageView(m)
			}
			return views, nil
		},
		Subscribe: func() (<-chan mirror.Event[ChatMessageView], func(), error) {
			feed, release := realtime.SubscribeRows[ChatMessageView](
				s.Hub,
				realtime.Topic(realtime.TableChatMessages, sportID),
			)
			return feed, release, nil
		},
	})
	if err != nil {
		// The next join retries the load
		s.Log.Error("failed to start chat mirror",
			zap.Uint64("sport_id", sportID),
			zap.Error(err),
		)
		return nil, err
	}

	s.syncers[sportID] = syncer
	return syncer, nil

}

// Close tears down every running chat mirror
func (s *ChatMirrorService) Close() {
	s.mut.Lock()
	defer s.mut.Unlock()
	for _, syncer := range s.syncers {
		syncer.Close()
	}
	s.syncers = nil
}
