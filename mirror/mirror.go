// Package mirror keeps an in-memory ordered collection consistent with a
// remote table, fed by an initial bulk read plus a live stream of tagged
// insert/update/delete events. One abstraction serves chat messages,
// reactions and match votes alike: rows are generic, identity comes from a
// key-extraction function.
package mirror

import "sync"

// Kind tags a change event.
type Kind string

const (
	Insert Kind = "insert"
	Update Kind = "update"
	Delete Kind = "delete"
)

// Event is one change to a mirrored collection. Insert and update carry
// the new row; delete carries the old row.
type Event[R any] struct {
	Kind Kind
	Row  R
}

// Mirror is the local collection for one parent key. All mutations go
// through Reset and Apply; readers take copied snapshots, so a mirror may
// be read from any goroutine while its syncer owns the writes.
type Mirror[K comparable, R any] struct {
	mu   sync.RWMutex
	key  func(R) K
	rows []R
}

// New creates an empty mirror whose rows are identified by key.
func New[K comparable, R any](key func(R) K) *Mirror[K, R] {
	return &Mirror[K, R]{key: key}
}

// Reset replaces the collection wholesale with rows, preserving their
// order. Should the input repeat an identifier, the first occurrence wins,
// keeping identifiers unique within the mirror.
func (m *Mirror[K, R]) Reset(rows []R) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[K]struct{}, len(rows))
	m.rows = m.rows[:0]
	for _, row := range rows {
		k := m.key(row)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		m.rows = append(m.rows, row)
	}
}

// Apply dispatches one event onto the collection. Unknown kinds are
// ignored rather than applied wrongly.
func (m *Mirror[K, R]) Apply(evt Event[R]) {
	switch evt.Kind {
	case Insert:
		m.Insert(evt.Row)
	case Update:
		m.Update(evt.Row)
	case Delete:
		m.Delete(evt.Row)
	}
}

// Insert appends the row unless its identifier is already present, which
// makes duplicate delivery harmless.
func (m *Mirror[K, R]) Insert(row R) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(m.key(row)) >= 0 {
		return
	}
	m.rows = append(m.rows, row)
}

// Update replaces the row with the matching identifier in place. An update
// for a row the mirror has never seen is treated as an insert.
func (m *Mirror[K, R]) Update(row R) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(m.key(row)); i >= 0 {
		m.rows[i] = row
		return
	}
	m.rows = append(m.rows, row)
}

// Delete removes the row with the old row's identifier. Deleting a row
// that is not present is a no-op.
func (m *Mirror[K, R]) Delete(row R) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(m.key(row))
	if i < 0 {
		return
	}
	m.rows = append(m.rows[:i], m.rows[i+1:]...)
}

// Snapshot returns a copy of the collection in its current order. The
// caller owns the copy.
func (m *Mirror[K, R]) Snapshot() []R {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]R, len(m.rows))
	copy(out, m.rows)
	return out
}

// Get looks up a single row by identifier.
func (m *Mirror[K, R]) Get(k K) (R, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.indexOf(k); i >= 0 {
		return m.rows[i], true
	}
	var zero R
	return zero, false
}

// Len reports the number of rows currently mirrored.
func (m *Mirror[K, R]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// indexOf scans for the row with identifier k. Collections here are one
// parent key's worth of rows, small enough that a linear scan beats
// maintaining a second index structure.
func (m *Mirror[K, R]) indexOf(k K) int {
	for i := range m.rows {
		if m.key(m.rows[i]) == k {
			return i
		}
	}
	return -1
}
