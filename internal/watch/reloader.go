package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/litescript/ls-astrodb/internal/loader"
	"github.com/litescript/ls-astrodb/internal/logging"
	"github.com/litescript/ls-astrodb/internal/state"
)

// Reloader rebuilds the database from scratch and publishes it through a
// state.Manager. A failed build leaves the previous database in place.
type Reloader struct {
	opts loader.Options
	mgr  *state.Manager
	log  *logging.Logger
}

// NewReloader returns a reloader that builds with opts.
func NewReloader(mgr *state.Manager, opts loader.Options, log *logging.Logger) *Reloader {
	if log == nil {
		log = logging.Discard()
	}
	if opts.Logger == nil {
		opts.Logger = log.Named("loader")
	}
	return &Reloader{opts: opts, mgr: mgr, log: log}
}

// Load builds a database and swaps it in. The error is also recorded on the
// manager.
func (r *Reloader) Load(ctx context.Context, source string) error {
	start := time.Now()
	db, _, err := loader.Build(ctx, r.opts)
	dur := time.Since(start)
	if err != nil {
		r.log.Error("reload (%s) failed: %v", source, err)
		r.mgr.Swap(nil, source, dur, err)
		return err
	}
	r.mgr.Swap(db, source, dur, nil)
	r.log.Info("loaded %d objects in %s (generation %d)", db.Len(), dur.Round(time.Millisecond), r.mgr.Generation())
	return nil
}

// Run reloads on every change from w until ctx is done or w is stopped.
// Changes that queue up during a build are folded into the next one.
func (r *Reloader) Run(ctx context.Context, w *Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c, ok := <-w.Changes:
			if !ok {
				return nil
			}
			source := filepath.Base(c.File)
		drain:
			for {
				select {
				case more, ok := <-w.Changes:
					if !ok {
						break drain
					}
					if base := filepath.Base(more.File); base != source {
						source += "," + base
					}
				default:
					break drain
				}
			}
			_ = r.Load(ctx, source)
		}
	}
}
