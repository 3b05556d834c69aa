// Package state publishes the live astro database to concurrent readers.
// Loaders build a complete Database off to the side and swap it in; readers
// never observe a half-built one.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/litescript/ls-astrodb/internal/astrodb"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventLoaded       EventType = "LOADED"
	EventReloaded     EventType = "RELOADED"
	EventReloadFailed EventType = "RELOAD_FAILED"
	EventUpdated      EventType = "UPDATED"
)

// Event represents a change of the published database.
type Event struct {
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	Generation uint64    `json:"generation"`
	Source     string    `json:"source,omitempty"`
	Objects    int       `json:"objects"`
	Delta      int       `json:"delta"`
	Error      string    `json:"error,omitempty"`
}

// HistoryEntry records the shape of one published database.
type HistoryEntry struct {
	Timestamp  time.Time
	Generation uint64
	Objects    int
	Stars      int
	DSOs       int
	Names      int
	Duration   time.Duration
}

// Manager holds the current database with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current      *astrodb.Database
	generation   uint64
	lastLoad     time.Time
	lastError    error
	loadDuration time.Duration

	// History buffer
	history       []HistoryEntry
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen int
	MaxEvents     int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen: 20,
		MaxEvents:     50,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxHistory := cfg.MaxHistoryLen
	if maxHistory <= 0 {
		maxHistory = 20
	}
	return &Manager{
		maxHistoryLen: maxHistory,
		maxEvents:     maxEvents,
		events:        make([]Event, 0, maxEvents),
	}
}

// Swap publishes db as the current database. A nil db records the failed
// load and keeps the previous database.
func (m *Manager) Swap(db *astrodb.Database, source string, loadDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swapLocked(db, source, loadDuration, err, EventReloaded)
}

func (m *Manager) swapLocked(db *astrodb.Database, source string, loadDuration time.Duration, err error, typ EventType) {
	now := time.Now()
	m.lastLoad = now
	m.lastError = err
	m.loadDuration = loadDuration

	prevLen := 0
	if m.current != nil {
		prevLen = m.current.Len()
	}

	if db == nil {
		e := Event{
			Type:       EventReloadFailed,
			Timestamp:  now,
			Generation: m.generation,
			Source:     source,
			Objects:    prevLen,
		}
		if err != nil {
			e.Error = err.Error()
		}
		m.addEvent(e)
		return
	}

	if m.current == nil {
		typ = EventLoaded
	}
	m.current = db
	m.generation++

	m.addEvent(Event{
		Type:       typ,
		Timestamp:  now,
		Generation: m.generation,
		Source:     source,
		Objects:    db.Len(),
		Delta:      db.Len() - prevLen,
	})

	st := db.Stats()
	m.history = append(m.history, HistoryEntry{
		Timestamp:  now,
		Generation: m.generation,
		Objects:    st.Objects,
		Stars:      st.Stars,
		DSOs:       st.DSOs,
		Names:      st.Names + st.LocalizedNames,
		Duration:   loadDuration,
	})
	if len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}
}

// Update applies fn to a clone of the current database and publishes the
// result. Readers keep seeing the old database until fn returns. Writers are
// serialized.
func (m *Manager) Update(source string, fn func(db *astrodb.Database) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return fmt.Errorf("update %s: no database loaded", source)
	}
	start := time.Now()
	next := m.current.Clone()
	if err := fn(next); err != nil {
		m.swapLocked(nil, source, time.Since(start), err, EventUpdated)
		return err
	}
	m.swapLocked(next, source, time.Since(start), nil, EventUpdated)
	return nil
}

// Current returns the published database, or nil before the first load.
// The returned database must be treated as read-only.
func (m *Manager) Current() *astrodb.Database {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// HasData reports whether a database has been published.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// Generation counts successful swaps.
func (m *Manager) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	DB           *astrodb.Database
	Generation   uint64
	LastLoad     time.Time
	LastError    error
	LoadDuration time.Duration
	History      []HistoryEntry
	Events       []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist := make([]HistoryEntry, len(m.history))
	copy(hist, m.history)

	return Snapshot{
		DB:           m.current,
		Generation:   m.generation,
		LastLoad:     m.lastLoad,
		LastError:    m.lastError,
		LoadDuration: m.loadDuration,
		History:      hist,
		Events:       m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}
