package names

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/google/btree"
	"golang.org/x/text/language"

	"github.com/litescript/ls-astrodb/internal/catalog"
)

// Errors returned by Add and AddLocalized.
var (
	ErrEmptyName = errors.New("empty name")
	ErrNameTaken = errors.New("name already bound to another object")
)

// Handle refers to a name record. The zero Handle is invalid, and a handle
// goes stale once its record is released.
type Handle struct {
	slot uint32
	gen  uint32
}

// Valid reports whether h was ever issued.
func (h Handle) Valid() bool { return h.gen != 0 }

// Info is a name bound to a canonical index.
type Info struct {
	Name      string
	Key       string
	Index     catalog.Index
	Localized bool
	Lang      language.Tag
	Refs      int
}

type record struct {
	info Info
	gen  uint32
	live bool
}

type keyEntry struct {
	key    string
	handle Handle
}

func lessKey(a, b keyEntry) bool { return a.key < b.key }

const treeDegree = 32

// Database holds names keyed by normalized form. A name record is shared by
// the key tree of its class and by the owning object's name list; it is
// released once neither refers to it.
//
// Mutation is single-writer. Lookups and completion may run concurrently
// when no mutation interleaves.
type Database struct {
	arena []record
	free  []uint32
	live  int

	canonical *btree.BTreeG[keyEntry]
	localized *btree.BTreeG[keyEntry]

	// byIndex lists each object's names in registration order.
	byIndex map[catalog.Index][]Handle
}

// NewDatabase returns an empty name database.
func NewDatabase() *Database {
	return &Database{
		canonical: btree.NewG(treeDegree, lessKey),
		localized: btree.NewG(treeDegree, lessKey),
		byIndex:   make(map[catalog.Index][]Handle),
	}
}

func (d *Database) tree(localized bool) *btree.BTreeG[keyEntry] {
	if localized {
		return d.localized
	}
	return d.canonical
}

// Add binds name to idx. Adding a pair that already exists is a no-op.
func (d *Database) Add(idx catalog.Index, name string) (Handle, error) {
	return d.add(idx, name, false, language.Und)
}

// AddLocalized binds a localized name to idx. It is the only way to create a
// localized record.
func (d *Database) AddLocalized(idx catalog.Index, name string, lang language.Tag) (Handle, error) {
	return d.add(idx, name, true, lang)
}

func (d *Database) add(idx catalog.Index, name string, localized bool, lang language.Tag) (Handle, error) {
	name = strings.TrimSpace(name)
	key := Normalize(name)
	if key == "" {
		return Handle{}, ErrEmptyName
	}
	if !idx.Valid() {
		return Handle{}, fmt.Errorf("name %q: %w", name, catalog.ErrInvalidMapping)
	}

	t := d.tree(localized)
	if e, ok := t.Get(keyEntry{key: key}); ok {
		owner := d.arena[e.handle.slot].info.Index
		if owner == idx {
			return e.handle, nil
		}
		return Handle{}, fmt.Errorf("%w: %q is %d, not %d", ErrNameTaken, name, owner, idx)
	}

	h := d.alloc(Info{
		Name:      name,
		Key:       key,
		Index:     idx,
		Localized: localized,
		Lang:      lang,
	})
	t.ReplaceOrInsert(keyEntry{key: key, handle: h})
	d.retain(h)
	d.byIndex[idx] = append(d.byIndex[idx], h)
	d.retain(h)
	return h, nil
}

func (d *Database) alloc(info Info) Handle {
	var slot uint32
	if n := len(d.free); n > 0 {
		slot = d.free[n-1]
		d.free = d.free[:n-1]
	} else {
		slot = uint32(len(d.arena))
		d.arena = append(d.arena, record{})
	}
	r := &d.arena[slot]
	r.gen++
	r.info = info
	r.live = true
	d.live++
	return Handle{slot: slot, gen: r.gen}
}

func (d *Database) retain(h Handle) {
	d.arena[h.slot].info.Refs++
}

// release drops one reference and frees the slot at zero.
func (d *Database) release(h Handle) {
	r := &d.arena[h.slot]
	if !r.live || r.gen != h.gen {
		return
	}
	r.info.Refs--
	if r.info.Refs > 0 {
		return
	}
	r.live = false
	r.info = Info{}
	d.free = append(d.free, h.slot)
	d.live--
}

// Info returns the record behind h. Stale handles miss.
func (d *Database) Info(h Handle) (Info, bool) {
	if !h.Valid() || int(h.slot) >= len(d.arena) {
		return Info{}, false
	}
	r := d.arena[h.slot]
	if !r.live || r.gen != h.gen {
		return Info{}, false
	}
	return r.info, true
}

// Lookup finds name. Canonical names win; localized names are consulted only
// when i18n is set.
func (d *Database) Lookup(name string, i18n bool) (Handle, bool) {
	key := Normalize(name)
	if key == "" {
		return Handle{}, false
	}
	if e, ok := d.canonical.Get(keyEntry{key: key}); ok {
		return e.handle, true
	}
	if i18n {
		if e, ok := d.localized.Get(keyEntry{key: key}); ok {
			return e.handle, true
		}
	}
	return Handle{}, false
}

// Index resolves name to its canonical index, or InvalidIndex.
func (d *Database) Index(name string, i18n bool) catalog.Index {
	h, ok := d.Lookup(name, i18n)
	if !ok {
		return catalog.InvalidIndex
	}
	return d.arena[h.slot].info.Index
}

// Remove unbinds name from every class it appears in and reports whether
// anything was removed.
func (d *Database) Remove(name string) bool {
	key := Normalize(name)
	removed := false
	for _, t := range []*btree.BTreeG[keyEntry]{d.canonical, d.localized} {
		e, ok := t.Delete(keyEntry{key: key})
		if !ok {
			continue
		}
		d.release(e.handle)
		d.unlist(e.handle)
		removed = true
	}
	return removed
}

// RemoveHandle unbinds the record behind h.
func (d *Database) RemoveHandle(h Handle) bool {
	info, ok := d.Info(h)
	if !ok {
		return false
	}
	if _, ok := d.tree(info.Localized).Delete(keyEntry{key: info.Key}); ok {
		d.release(h)
	}
	d.unlist(h)
	return true
}

// unlist drops h from its owner's list and releases that reference.
func (d *Database) unlist(h Handle) {
	r := d.arena[h.slot]
	if !r.live || r.gen != h.gen {
		return
	}
	idx := r.info.Index
	list := d.byIndex[idx]
	i := slices.Index(list, h)
	if i < 0 {
		return
	}
	list = slices.Delete(list, i, i+1)
	if len(list) == 0 {
		delete(d.byIndex, idx)
	} else {
		d.byIndex[idx] = list
	}
	d.release(h)
}

// RemoveAll unbinds every name of idx and returns how many were removed.
func (d *Database) RemoveAll(idx catalog.Index) int {
	list := d.byIndex[idx]
	delete(d.byIndex, idx)
	for _, h := range list {
		info := d.arena[h.slot].info
		if _, ok := d.tree(info.Localized).Delete(keyEntry{key: info.Key}); ok {
			d.release(h)
		}
		d.release(h)
	}
	return len(list)
}

// Names returns up to max names of idx in registration order. Localized
// names are included only with i18n. max <= 0 means no limit.
func (d *Database) Names(idx catalog.Index, i18n bool, max int) []string {
	var out []string
	for _, h := range d.byIndex[idx] {
		if max > 0 && len(out) >= max {
			break
		}
		info := d.arena[h.slot].info
		if info.Localized && !i18n {
			continue
		}
		out = append(out, info.Name)
	}
	return out
}

// Handles returns the handles of idx in registration order.
func (d *Database) Handles(idx catalog.Index) []Handle {
	return slices.Clone(d.byIndex[idx])
}

// Primary returns the first registered name of idx. With i18n the first
// localized name is preferred when one exists.
func (d *Database) Primary(idx catalog.Index, i18n bool) (string, bool) {
	var canonical string
	found := false
	for _, h := range d.byIndex[idx] {
		info := d.arena[h.slot].info
		if info.Localized {
			if i18n {
				return info.Name, true
			}
			continue
		}
		if !found {
			canonical, found = info.Name, true
			if !i18n {
				break
			}
		}
	}
	return canonical, found
}

// Preferred picks the localized name of idx best matching prefs, falling back
// to the primary canonical name.
func (d *Database) Preferred(idx catalog.Index, prefs ...language.Tag) (string, bool) {
	var tags []language.Tag
	var localized []string
	for _, h := range d.byIndex[idx] {
		info := d.arena[h.slot].info
		if info.Localized && info.Lang != language.Und {
			tags = append(tags, info.Lang)
			localized = append(localized, info.Name)
		}
	}
	if len(tags) > 0 && len(prefs) > 0 {
		_, i, conf := language.NewMatcher(tags).Match(prefs...)
		if conf != language.No {
			return localized[i], true
		}
	}
	return d.Primary(idx, false)
}

// Completion yields the display names whose key starts with prefix, in key
// order. Localized names are merged in only with i18n. The sequence is lazy
// and can be ranged over any number of times.
func (d *Database) Completion(prefix string, i18n bool) iter.Seq[string] {
	key := normalizePrefix(prefix)
	return func(yield func(string) bool) {
		if !i18n {
			for e := range ascendPrefix(d.canonical, key) {
				if !yield(d.arena[e.handle.slot].info.Name) {
					return
				}
			}
			return
		}

		nextC, stopC := iter.Pull(ascendPrefix(d.canonical, key))
		defer stopC()
		nextL, stopL := iter.Pull(ascendPrefix(d.localized, key))
		defer stopL()

		c, okC := nextC()
		l, okL := nextL()
		for okC || okL {
			var e keyEntry
			if okC && (!okL || c.key <= l.key) {
				e = c
				c, okC = nextC()
			} else {
				e = l
				l, okL = nextL()
			}
			if !yield(d.arena[e.handle.slot].info.Name) {
				return
			}
		}
	}
}

func ascendPrefix(t *btree.BTreeG[keyEntry], prefix string) iter.Seq[keyEntry] {
	return func(yield func(keyEntry) bool) {
		t.AscendGreaterOrEqual(keyEntry{key: prefix}, func(e keyEntry) bool {
			if !strings.HasPrefix(e.key, prefix) {
				return false
			}
			return yield(e)
		})
	}
}

// Len returns the number of canonical names.
func (d *Database) Len() int { return d.canonical.Len() }

// LocalizedLen returns the number of localized names.
func (d *Database) LocalizedLen() int { return d.localized.Len() }

// Live returns the number of name records not yet released.
func (d *Database) Live() int { return d.live }

// Objects returns how many indices own at least one name.
func (d *Database) Objects() int { return len(d.byIndex) }

// Clone returns an independent copy. The key trees are copied lazily.
func (d *Database) Clone() *Database {
	out := &Database{
		arena:     slices.Clone(d.arena),
		free:      slices.Clone(d.free),
		live:      d.live,
		canonical: d.canonical.Clone(),
		localized: d.localized.Clone(),
		byIndex:   make(map[catalog.Index][]Handle, len(d.byIndex)),
	}
	for idx, list := range maps.All(d.byIndex) {
		out.byIndex[idx] = slices.Clone(list)
	}
	return out
}
