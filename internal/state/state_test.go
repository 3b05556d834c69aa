package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/litescript/ls-astrodb/internal/astro"
	"github.com/litescript/ls-astrodb/internal/astrodb"
)

func testDB(t *testing.T, stars int) *astrodb.Database {
	t.Helper()
	db := astrodb.New(astrodb.DefaultConfig())
	for i := 0; i < stars; i++ {
		if err := db.AddStar(astrodb.NewStar(0, astro.Vec3{X: float64(i)}, 1)); err != nil {
			t.Fatalf("AddStar: %v", err)
		}
	}
	return db
}

func TestNewManager(t *testing.T) {
	m := NewManager(DefaultConfig())

	if m == nil {
		t.Fatal("NewManager returned nil")
	}
	if m.HasData() {
		t.Error("HasData should be false initially")
	}
	if m.Current() != nil {
		t.Error("Current should be nil initially")
	}
}

func TestManager_Swap(t *testing.T) {
	m := NewManager(DefaultConfig())
	db := testDB(t, 3)

	m.Swap(db, "seed", 100*time.Millisecond, nil)

	if !m.HasData() {
		t.Error("HasData should be true after Swap")
	}
	snap := m.Snapshot()
	if snap.DB != db {
		t.Error("Snapshot DB doesn't match")
	}
	if snap.Generation != 1 {
		t.Errorf("Generation = %d, want 1", snap.Generation)
	}
	if snap.LoadDuration != 100*time.Millisecond {
		t.Errorf("LoadDuration = %v, want 100ms", snap.LoadDuration)
	}
	if len(snap.Events) != 1 || snap.Events[0].Type != EventLoaded {
		t.Fatalf("events = %+v, want one LOADED", snap.Events)
	}
	if snap.Events[0].Objects != 3 || snap.Events[0].Delta != 3 {
		t.Errorf("event counts = %d/%d, want 3/3", snap.Events[0].Objects, snap.Events[0].Delta)
	}

	m.Swap(testDB(t, 5), "data", 0, nil)
	ev := m.RecentEvents(1)[0]
	if ev.Type != EventReloaded || ev.Delta != 2 || ev.Generation != 2 {
		t.Errorf("second event = %+v", ev)
	}
}

func TestManager_SwapWithError(t *testing.T) {
	m := NewManager(DefaultConfig())
	db := testDB(t, 1)
	m.Swap(db, "seed", 0, nil)

	loadErr := errors.New("stars.toml: bad ra")
	m.Swap(nil, "data", 0, loadErr)

	snap := m.Snapshot()
	if snap.DB != db {
		t.Error("failed load replaced the database")
	}
	if snap.Generation != 1 {
		t.Errorf("Generation = %d, want 1", snap.Generation)
	}
	if !errors.Is(snap.LastError, loadErr) {
		t.Errorf("LastError = %v, want %v", snap.LastError, loadErr)
	}
	last := snap.Events[len(snap.Events)-1]
	if last.Type != EventReloadFailed || last.Error != loadErr.Error() {
		t.Errorf("last event = %+v", last)
	}
}

func TestManager_HistoryBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHistoryLen = 3
	m := NewManager(cfg)

	for i := 1; i <= 5; i++ {
		m.Swap(testDB(t, i), "loop", 0, nil)
	}

	hist := m.Snapshot().History
	if len(hist) != 3 {
		t.Fatalf("history len = %d, want 3", len(hist))
	}
	if hist[0].Objects != 3 || hist[2].Objects != 5 {
		t.Errorf("history objects = %d..%d, want 3..5", hist[0].Objects, hist[2].Objects)
	}
}

func TestManager_UpdateIsCopyOnWrite(t *testing.T) {
	m := NewManager(DefaultConfig())
	old := testDB(t, 2)
	m.Swap(old, "seed", 0, nil)

	err := m.Update("add", func(db *astrodb.Database) error {
		return db.AddStar(astrodb.NewStar(0, astro.Vec3{Y: 1}, 2))
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if old.Len() != 2 {
		t.Errorf("old database mutated: Len = %d", old.Len())
	}
	if m.Current().Len() != 3 {
		t.Errorf("Current().Len = %d, want 3", m.Current().Len())
	}
	if ev := m.RecentEvents(1)[0]; ev.Type != EventUpdated {
		t.Errorf("event type = %q, want UPDATED", ev.Type)
	}

	boom := errors.New("boom")
	before := m.Current()
	if err := m.Update("fail", func(*astrodb.Database) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Update error = %v, want boom", err)
	}
	if m.Current() != before {
		t.Error("failed Update replaced the database")
	}
}

func TestManager_UpdateWithoutData(t *testing.T) {
	m := NewManager(DefaultConfig())
	if err := m.Update("x", func(*astrodb.Database) error { return nil }); err == nil {
		t.Error("Update on empty manager should fail")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.Swap(testDB(t, 10), "seed", 0, nil)

	var wg sync.WaitGroup
	iterations := 50

	// Writer goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			_ = m.Update("writer", func(db *astrodb.Database) error {
				return db.AddStar(astrodb.NewStar(0, astro.Vec3{Z: float64(i)}, 3))
			})
		}
	}()

	// Reader goroutines
	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				db := m.Current()
				_ = db.Len()
				for range db.Completion("a", true) {
				}
				_ = m.Snapshot()
				_ = m.Generation()
			}
		}()
	}

	wg.Wait()

	if got := m.Current().Len(); got != 10+iterations {
		t.Errorf("Len = %d, want %d", got, 10+iterations)
	}
}

func TestManager_EventRingBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEvents = 5
	m := NewManager(cfg)

	for i := 0; i < 10; i++ {
		m.Swap(testDB(t, i), "loop", 0, nil)
	}

	events := m.RecentEvents(100)
	if len(events) != 5 {
		t.Errorf("events count = %d, want 5 (max)", len(events))
	}

	// Verify events are ordered chronologically
	for i := 1; i < len(events); i++ {
		if events[i].Generation <= events[i-1].Generation {
			t.Errorf("events not in order at index %d", i)
		}
	}
	if events[len(events)-1].Generation != 10 {
		t.Errorf("newest generation = %d, want 10", events[len(events)-1].Generation)
	}
}
