package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/campusgames/fanzone-api/mirror"
	"github.com/campusgames/fanzone-api/realtime"
)

// TallyService keeps a live mirror of each watched match's votes and
// derives tallies from it, so a busy vote screen stops hitting the votes
// table on every refresh. Mirrors start lazily on the first tally for a
// match and stay subscribed until Close.
type TallyService struct {
	Votes *VotesService
	Hub   *realtime.Hub
	Log   *zap.Logger

	mut     sync.Mutex
	syncers map[uint64]*mirror.Syncer[string, MatchVoteView]
}

// Tally counts the current votes on a match per team
func (s *TallyService) Tally(matchID uint64) (map[string]int, error) {
	syncer, err := s.syncer(matchID)
	if err != nil {
		return nil, err
	}
	return CountVotes(syncer.Mirror().Snapshot()), nil
}

// syncer gets the match's vote mirror, starting it on first use
func (s *TallyService) syncer(matchID uint64) (*mirror.Syncer[string, MatchVoteView], error) {

	// Lock on the syncers
	s.mut.Lock()
	defer s.mut.Unlock()

	// Reuse the running mirror if there is one
	if s.syncers == nil {
		s.syncers = map[uint64]*mirror.Syncer[string, MatchVoteView]{}
	}
	if syncer, ok := s.syncers[matchID]; ok {
		return syncer, nil
	}

	// Subscribe first, then bulk read, so no vote cast during the load is
	// missed. The syncer owns that ordering.
	syncer, err := mirror.Start(context.Background(), mirror.Config[string, MatchVoteView]{
		Mirror: mirror.New(func(v MatchVoteView) string { return v.DeviceID }),
		BulkRead: func(ctx context.Context) ([]MatchVoteView, error) {
			votes, err := s.Votes.GetVotes(matchID)
			if err != nil {
				return nil, err
			}
			views := make([]MatchVoteView, len(votes))
			for i, v := range votes {
				views[i] = NewMatchVoteView(v)
			}
			return views, nil
		},
		Subscribe: func() (<-chan mirror.Event[MatchVoteView], func(), error) {
			feed, release := realtime.SubscribeRows[MatchVoteView](
				s.Hub,
				realtime.Topic(realtime.TableMatchVotes, matchID),
			)
			return feed, release, nil
		},
	})
	if err != nil {
		// The next tally request retries the load
		s.Log.Error("failed to start vote mirror",
			zap.Uint64("match_id", matchID),
			zap.Error(err),
		)
		return nil, err
	}

	s.syncers[matchID] = syncer
	return syncer, nil

}

// Close tears down every running vote mirror
func (s *TallyService) Close() {
	s.mut.Lock()
	defer s.mut.Unlock()
	for _, syncer := range s.syncers {
		syncer.Close()
	}
	s.syncers = nil
}
