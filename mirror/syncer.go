package mirror

import (
	"context"
	"sync"
)

// Config wires a syncer to its remote source for one parent key.
type Config[K comparable, R any] struct {
	// Mirror receives the synchronized rows.
	Mirror *Mirror[K, R]
	// BulkRead returns the current full row set for the parent key.
	BulkRead func(ctx context.Context) ([]R, error)
	// Subscribe opens the live event feed and returns the channel plus its
	// release function. The channel closes once released.
	Subscribe func() (<-chan Event[R], func(), error)
}

// Syncer drives one mirror through the subscribe + bulk-read lifecycle and
// the steady-state event loop. The subscription is released on every exit
// path: Close, parent context cancellation, or the feed closing under us.
type Syncer[K comparable, R any] struct {
	mirror *Mirror[K, R]
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start opens the subscription, loads the initial row set and hands the
// running syncer back. Events that arrive while the bulk read is in flight
// are held and replayed after the wholesale reset, so nothing is lost for
// arriving early; the idempotent mirror operations make the replay safe.
//
// A bulk-read failure is returned to the caller after the subscription has
// been released again. There is no automatic retry; the next caller
// attempt starts the cycle over. If ctx is cancelled mid-load, the
// eventual bulk response is discarded rather than applied to a torn-down
// mirror.
func Start[K comparable, R any](ctx context.Context, cfg Config[K, R]) (*Syncer[K, R], error) {
	events, release, err := cfg.Subscribe()
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s := &Syncer[K, R]{
		mirror: cfg.Mirror,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	type bulkResult struct {
		rows []R
		err  error
	}
	bulkCh := make(chan bulkResult, 1)
	go func() {
		rows, err := cfg.BulkRead(runCtx)
		bulkCh <- bulkResult{rows: rows, err: err}
	}()

	abort := func() {
		cancel()
		release()
		close(s.done)
	}

	// Initial load: buffer live events until the bulk read lands.
	var pending []Event[R]
init:
	for {
		select {
		case <-runCtx.Done():
			abort()
			return nil, runCtx.Err()
		case evt, ok := <-events:
			if !ok {
				abort()
				return nil, context.Canceled
			}
			pending = append(pending, evt)
		case res := <-bulkCh:
			if res.err != nil {
				abort()
				return nil, res.err
			}
			cfg.Mirror.Reset(res.rows)
			for _, evt := range pending {
				cfg.Mirror.Apply(evt)
			}
			break init
		}
	}

	go s.run(runCtx, events, release)
	return s, nil
}

// run is the steady-state loop: apply events in the order the transport
// delivers them until torn down.
func (s *Syncer[K, R]) run(ctx context.Context, events <-chan Event[R], release func()) {
	defer close(s.done)
	defer release()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			s.mirror.Apply(evt)
		}
	}
}

// Mirror returns the collection this syncer maintains.
func (s *Syncer[K, R]) Mirror() *Mirror[K, R] {
	return s.mirror
}

// Close releases the subscription and waits for the event loop to stop.
// Safe to call more than once.
func (s *Syncer[K, R]) Close() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}
