package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/litescript/ls-astrodb/internal/astrodb"
	"github.com/litescript/ls-astrodb/internal/loader"
	"github.com/litescript/ls-astrodb/internal/state"
)

const starsV1 = `
[[star]]
hip = 32349
ra = 101.287
dec = -16.716
distance = 8.6
mag = -1.46
names = ["Sirius"]
`

const starsV2 = starsV1 + `
[[star]]
hip = 91262
ra = 279.235
dec = 38.784
distance = 25.0
mag = 0.03
names = ["Vega"]
`

func startWatcher(t *testing.T, dir string) *Watcher {
	t.Helper()
	w, err := NewWatcher(dir, loader.DefaultRegistry().Files(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_DetectsChange(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	path := filepath.Join(dir, "stars.toml")
	if err := os.WriteFile(path, []byte(starsV1), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case c := <-w.Changes:
		if filepath.Base(c.File) != "stars.toml" {
			t.Errorf("File = %q, want stars.toml", c.File)
		}
		if c.Removed {
			t.Error("Removed = true for a written file")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestWatcher_DetectsRemoval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "names.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w := startWatcher(t, dir)

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	select {
	case c := <-w.Changes:
		if !c.Removed {
			t.Errorf("Removed = false for %s", c.File)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for removal")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case c := <-w.Changes:
		t.Errorf("unexpected change: %+v", c)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	path := filepath.Join(dir, "stars.toml")
	for range 5 {
		if err := os.WriteFile(path, []byte(starsV1), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	select {
	case <-w.Changes:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}
	select {
	case c := <-w.Changes:
		t.Errorf("burst produced a second change: %+v", c)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_TinyDebounce(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, loader.DefaultRegistry().Files(), time.Nanosecond)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if w.debounce != MinDebounce {
		t.Errorf("debounce = %s, want %s", w.debounce, MinDebounce)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(w.Stop)

	if err := os.WriteFile(filepath.Join(dir, "names.toml"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case c := <-w.Changes:
		if filepath.Base(c.File) != "names.toml" {
			t.Errorf("change for %s, want names.toml", c.File)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func newReloader(dir string) (*Reloader, *state.Manager) {
	mgr := state.NewManager(state.DefaultConfig())
	r := NewReloader(mgr, loader.Options{DB: astrodb.DefaultConfig(), Dir: dir}, nil)
	return r, mgr
}

func TestReloader_Load(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stars.toml"), []byte(starsV1), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, mgr := newReloader(dir)

	if err := r.Load(context.Background(), "startup"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	db := mgr.Current()
	if db == nil || db.Len() != 1 {
		t.Fatalf("Current() = %v, want one object", db)
	}
	if mgr.Generation() != 1 {
		t.Errorf("Generation() = %d, want 1", mgr.Generation())
	}
	events := mgr.RecentEvents(1)
	if len(events) != 1 || events[0].Type != state.EventLoaded || events[0].Source != "startup" {
		t.Errorf("RecentEvents(1) = %+v", events)
	}
}

func TestReloader_FailedLoadKeepsDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stars.toml")
	if err := os.WriteFile(path, []byte(starsV1), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, mgr := newReloader(dir)
	if err := r.Load(context.Background(), "startup"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := mgr.Current()

	if err := os.WriteFile(path, []byte("[[star]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := r.Load(context.Background(), "stars.toml"); err == nil {
		t.Fatal("Load of a broken file succeeded")
	}

	snap := mgr.Snapshot()
	if snap.DB != before {
		t.Error("failed load replaced the database")
	}
	if snap.LastError == nil {
		t.Error("LastError not recorded")
	}
	if got := mgr.RecentEvents(1)[0].Type; got != state.EventReloadFailed {
		t.Errorf("last event = %s, want %s", got, state.EventReloadFailed)
	}
}

func TestReloader_RunReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stars.toml")
	if err := os.WriteFile(path, []byte(starsV1), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, mgr := newReloader(dir)
	if err := r.Load(context.Background(), "startup"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	w := startWatcher(t, dir)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, w) }()

	if err := os.WriteFile(path, []byte(starsV2), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		if db := mgr.Current(); db.Len() == 2 {
			if db.NameToIndex("Vega", false, false) != 91262 {
				t.Error("Vega missing after reload")
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("database not reloaded, generation %d", mgr.Generation())
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
