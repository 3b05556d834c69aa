// Package loader reads catalog data files into an astrodb.Database. Files are
// TOML; each known file name has a Loader. Parsing runs concurrently, applying
// runs in registry order so cross-index ranges land before the objects and
// names that refer to them.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-astrodb/internal/astrodb"
	"github.com/litescript/ls-astrodb/internal/catalog"
	"github.com/litescript/ls-astrodb/internal/logging"
	"github.com/litescript/ls-astrodb/internal/names"
	"github.com/litescript/ls-astrodb/internal/octree"
)

// Batch is parsed file content ready to be applied.
type Batch interface {
	Apply(db *astrodb.Database, log *logging.Logger) (Result, error)
}

// Loader parses one data file format.
type Loader interface {
	// File is the base name the loader reads, e.g. "stars.toml".
	File() string
	Parse(data []byte) (Batch, error)
}

// Result counts what a batch did.
type Result struct {
	File    string
	Added   int
	Skipped int
}

// Registry maps file names to loaders and fixes their apply order.
type Registry struct {
	order   []string
	loaders map[string]Loader
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// DefaultRegistry returns the built-in loaders: catalogs and ranges, stars,
// deep-sky objects, extra names.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(xindexLoader{})
	r.Register(starLoader{})
	r.Register(dsoLoader{})
	r.Register(nameLoader{})
	return r
}

// Register adds l, replacing any loader for the same file. New files are
// applied after the existing ones.
func (r *Registry) Register(l Loader) {
	if _, ok := r.loaders[l.File()]; !ok {
		r.order = append(r.order, l.File())
	}
	r.loaders[l.File()] = l
}

// Get returns the loader for file.
func (r *Registry) Get(file string) (Loader, bool) {
	l, ok := r.loaders[file]
	return l, ok
}

// Files returns the registered file names in apply order.
func (r *Registry) Files() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// LoadDir parses every registered file present in dir and applies them to db.
// Missing files are skipped. Parse errors fail the whole load before db is
// touched; index-space exhaustion aborts the apply phase.
func LoadDir(ctx context.Context, dir string, reg *Registry, db *astrodb.Database, log *logging.Logger) ([]Result, error) {
	if log == nil {
		log = logging.Discard()
	}
	files := reg.Files()
	batches := make([]Batch, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			path := filepath.Join(dir, file)
			data, err := os.ReadFile(path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return fmt.Errorf("reading %s: %w", file, err)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := reg.loaders[file].Parse(data)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", file, err)
			}
			batches[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []Result
	for i, b := range batches {
		if b == nil {
			continue
		}
		res, err := b.Apply(db, log)
		res.File = files[i]
		results = append(results, res)
		if err != nil {
			return results, fmt.Errorf("applying %s: %w", files[i], err)
		}
		log.Info("%s: %d added, %d skipped", files[i], res.Added, res.Skipped)
	}
	return results, nil
}

// Options configures Build.
type Options struct {
	DB       astrodb.Config
	Dir      string // empty means no data directory
	Seed     bool
	Registry *Registry
	Logger   *logging.Logger
}

// Build creates a database, seeds it if asked and loads Dir into it.
func Build(ctx context.Context, opts Options) (*astrodb.Database, []Result, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	cfg := opts.DB
	if cfg.Logger == nil {
		cfg.Logger = log.Named("astrodb")
	}

	start := time.Now()
	db := astrodb.New(cfg)
	var results []Result
	if opts.Seed {
		res, err := Seed(db, log)
		results = append(results, res)
		if err != nil {
			return nil, results, err
		}
	}
	if opts.Dir != "" {
		rs, err := LoadDir(ctx, opts.Dir, reg, db, log)
		results = append(results, rs...)
		if err != nil {
			return nil, results, err
		}
	}
	log.Debug("built database with %d objects in %s", db.Len(), time.Since(start))
	return db, results, nil
}

// skippable reports whether err is a per-entry conflict that is logged and
// skipped rather than aborting the batch.
func skippable(err error) bool {
	switch {
	case errors.Is(err, catalog.ErrIndexSpaceExhausted):
		return false
	case errors.Is(err, astrodb.ErrDuplicateIndex),
		errors.Is(err, catalog.ErrDuplicateMapping),
		errors.Is(err, catalog.ErrDuplicateCatalog),
		errors.Is(err, catalog.ErrInvalidCatalog),
		errors.Is(err, catalog.ErrInvalidMapping),
		errors.Is(err, catalog.ErrRangeOverflow),
		errors.Is(err, names.ErrNameTaken),
		errors.Is(err, names.ErrEmptyName),
		errors.Is(err, octree.ErrInvalidEntry),
		errors.Is(err, errBadEntry):
		return true
	}
	return false
}

var errBadEntry = errors.New("bad entry")
