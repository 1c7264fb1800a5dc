package mirror

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubSource simulates the remote store: a gated bulk read plus an event
// channel the test feeds by hand.
type stubSource struct {
	events   chan Event[row]
	bulkGate chan []row
	bulkErr  error
	released atomic.Bool
}

func newStubSource() *stubSource {
	return &stubSource{
		events:   make(chan Event[row], 16),
		bulkGate: make(chan []row, 1),
	}
}

func (s *stubSource) config(m *Mirror[int, row]) Config[int, row] {
	return Config[int, row]{
		Mirror: m,
		BulkRead: func(ctx context.Context) ([]row, error) {
			if s.bulkErr != nil {
				return nil, s.bulkErr
			}
			select {
			case rows := <-s.bulkGate:
				return rows, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
		Subscribe: func() (<-chan Event[row], func(), error) {
			return s.events, func() {
				if s.released.CompareAndSwap(false, true) {
					close(s.events)
				}
			}, nil
		},
	}
}

func TestSyncerAppliesEventsArrivingBeforeBulkRead(t *testing.T) {
	m := newTestMirror()
	src := newStubSource()

	// The insert lands while the bulk read is still in flight.
	src.events <- Event[row]{Kind: Insert, Row: row{ID: 99, Val: "early"}}
	src.bulkGate <- []row{{ID: 1, Val: "bulk"}}

	s, err := Start(context.Background(), src.config(m))
	require.NoError(t, err)
	defer s.Close()

	// Whether the insert was buffered during the load or applied right
	// after it, the early event must not be lost and lands after the bulk
	// rows.
	require.Eventually(t, func() bool {
		snap := m.Snapshot()
		return len(snap) == 2 && snap[0].ID == 1 && snap[1].ID == 99
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSyncerSteadyStateAppliesInOrder(t *testing.T) {
	m := newTestMirror()
	src := newStubSource()
	src.bulkGate <- []row{{ID: 1, Val: "one"}}

	s, err := Start(context.Background(), src.config(m))
	require.NoError(t, err)
	defer s.Close()

	src.events <- Event[row]{Kind: Insert, Row: row{ID: 2, Val: "two"}}
	src.events <- Event[row]{Kind: Update, Row: row{ID: 1, Val: "edited"}}
	src.events <- Event[row]{Kind: Delete, Row: row{ID: 2}}

	require.Eventually(t, func() bool {
		snap := m.Snapshot()
		return len(snap) == 1 && snap[0].Val == "edited"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSyncerBulkReadErrorReleasesSubscription(t *testing.T) {
	m := newTestMirror()
	src := newStubSource()
	src.bulkErr = errors.New("connection reset")

	_, err := Start(context.Background(), src.config(m))
	require.Error(t, err)
	assert.True(t, src.released.Load(), "subscription must be released on bulk failure")
	assert.Equal(t, 0, m.Len())
}

func TestSyncerCloseReleasesSubscription(t *testing.T) {
	m := newTestMirror()
	src := newStubSource()
	src.bulkGate <- nil

	s, err := Start(context.Background(), src.config(m))
	require.NoError(t, err)

	s.Close()
	s.Close() // idempotent
	assert.True(t, src.released.Load())
}

func TestSyncerCancelDuringLoadDiscardsBulkResponse(t *testing.T) {
	m := newTestMirror()
	src := newStubSource()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Start(ctx, src.config(m))
	require.Error(t, err)
	assert.True(t, src.released.Load())

	// A row set landing after teardown must not reach the mirror.
	select {
	case src.bulkGate <- []row{{ID: 1}}:
	default:
	}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, m.Len())
}

func TestSyncerStopsWhenFeedCloses(t *testing.T) {
	m := newTestMirror()
	src := newStubSource()
	src.bulkGate <- []row{{ID: 1, Val: "one"}}

	s, err := Start(context.Background(), src.config(m))
	require.NoError(t, err)

	// Simulate the transport shutting down underneath the syncer.
	src.released.Store(true)
	close(src.events)

	s.Close()
	assert.Equal(t, 1, m.Len())
}
