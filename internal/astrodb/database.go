// Package astrodb is the object registry: it owns every star, deep-sky object
// and body by canonical index and keeps the catalog cross indices, the name
// database and the two octrees consistent with that set.
package astrodb

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/litescript/ls-astrodb/internal/astro"
	"github.com/litescript/ls-astrodb/internal/catalog"
	"github.com/litescript/ls-astrodb/internal/logging"
	"github.com/litescript/ls-astrodb/internal/names"
	"github.com/litescript/ls-astrodb/internal/octree"
)

// Config holds construction parameters for a Database.
type Config struct {
	StarOctree octree.Config
	DSOOctree  octree.Config
	Logger     *logging.Logger
}

// Root half sizes in light years. Stars fit the galaxy and its halo; deep-sky
// objects reach the observable universe.
const (
	DefaultStarHalfSize = 1e6
	DefaultDSOHalfSize  = 1e10
)

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		StarOctree: octree.Config{
			HalfSize: DefaultStarHalfSize,
			Capacity: octree.DefaultCapacity,
			MaxDepth: octree.DefaultMaxDepth,
		},
		DSOOctree: octree.Config{
			HalfSize: DefaultDSOHalfSize,
			Capacity: octree.DefaultCapacity,
			MaxDepth: octree.DefaultMaxDepth,
		},
	}
}

// NameSeparator splits the bulk form accepted by AddNames.
const NameSeparator = ":"

// designationOrder is the catalog preference used when an object is shown
// by number.
var designationOrder = []catalog.ID{
	catalog.Hipparcos,
	catalog.HenryDraper,
	catalog.Gliese,
	catalog.SAO,
	catalog.Tycho,
}

// Database composes the object map, catalogs, names and octrees.
//
// Mutation is single-writer. Once loading is done every read method is safe
// to call concurrently as long as nothing mutates; use state.Manager to swap
// whole databases when updates must coexist with readers.
type Database struct {
	log *logging.Logger

	objects map[catalog.Index]Object
	counts  [numKinds]int

	names    *names.Database
	catalogs *catalog.Registry
	alloc    *catalog.Allocator

	stars *octree.Tree
	dsos  *octree.Tree

	systems map[catalog.Index]SolarSystem

	totalDSOMag float64
}

// New returns an empty database with the built-in catalogs registered.
func New(cfg Config) *Database {
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	reg := catalog.NewRegistry()
	reg.CreateBuiltinCatalogs()
	return &Database{
		log:      log,
		objects:  make(map[catalog.Index]Object),
		names:    names.NewDatabase(),
		catalogs: reg,
		alloc:    catalog.NewAllocator(),
		stars:    octree.NewTree(cfg.StarOctree),
		dsos:     octree.NewTree(cfg.DSOOctree),
		systems:  make(map[catalog.Index]SolarSystem),
	}
}

// AddObject registers obj. An object with index catalog.InvalidIndex is given
// the next free auto index. Stars and deep-sky objects are also inserted into
// their octree.
func (d *Database) AddObject(obj Object) error {
	if obj == nil {
		return ErrNilObject
	}
	b := obj.base()
	if b.db != nil {
		return fmt.Errorf("%w: %d", ErrObjectOwned, b.index)
	}

	pos, mag, hasPos := positioned(obj)
	if hasPos {
		if err := octree.CheckPoint(pos, mag); err != nil {
			return fmt.Errorf("add %s %d: %w", obj.Kind(), b.index, err)
		}
	}

	idx := b.index
	if !idx.Valid() {
		var err error
		idx, err = d.alloc.Next(d.has)
		if err != nil {
			return err
		}
	} else if d.has(idx) {
		return fmt.Errorf("%w: %d", ErrDuplicateIndex, idx)
	}

	if hasPos {
		if err := d.tree(obj.Kind()).Insert(octree.Entry{Index: idx, Pos: pos, AbsMag: mag}); err != nil {
			return fmt.Errorf("add %s %d: %w", obj.Kind(), idx, err)
		}
		if obj.Kind() == KindDSO {
			d.totalDSOMag += float64(mag)
		}
	}

	b.index = idx
	b.db = d
	d.objects[idx] = obj
	d.counts[obj.Kind()]++
	return nil
}

// AddStar registers s.
func (d *Database) AddStar(s *Star) error {
	if s == nil {
		return ErrNilObject
	}
	return d.AddObject(s)
}

// AddDSO registers o.
func (d *Database) AddDSO(o *DeepSkyObject) error {
	if o == nil {
		return ErrNilObject
	}
	return d.AddObject(o)
}

// AddBody registers b.
func (d *Database) AddBody(b *Body) error {
	if b == nil {
		return ErrNilObject
	}
	return d.AddObject(b)
}

func (d *Database) has(idx catalog.Index) bool {
	_, ok := d.objects[idx]
	return ok
}

func (d *Database) tree(k Kind) *octree.Tree {
	if k == KindDSO {
		return d.dsos
	}
	return d.stars
}

// RemoveObject unregisters the object at idx together with its octree entry,
// names, catalog numbers and solar-system association.
func (d *Database) RemoveObject(idx catalog.Index) error {
	obj, ok := d.objects[idx]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, idx)
	}

	if _, mag, ok := positioned(obj); ok {
		d.tree(obj.Kind()).Remove(idx)
		if obj.Kind() == KindDSO {
			d.totalDSOMag -= float64(mag)
		}
	}
	n := d.names.RemoveAll(idx)
	for c := range d.catalogs.All() {
		c.CrossIndex().Remove(idx)
	}
	delete(d.systems, idx)
	delete(d.objects, idx)
	d.counts[obj.Kind()]--
	obj.base().db = nil

	d.log.Debug("removed %s %d (%d names)", obj.Kind(), idx, n)
	return nil
}

// Remove unregisters obj, which must belong to d.
func (d *Database) Remove(obj Object) error {
	if obj == nil {
		return ErrNilObject
	}
	if obj.Database() != d {
		return fmt.Errorf("%w: %d not owned by this database", ErrNotFound, obj.Index())
	}
	return d.RemoveObject(obj.Index())
}

// MoveObject updates the position and absolute magnitude of a star or
// deep-sky object and re-indexes it spatially.
func (d *Database) MoveObject(idx catalog.Index, pos astro.Vec3, absMag float32) error {
	obj, ok := d.objects[idx]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, idx)
	}
	switch o := obj.(type) {
	case *Star:
		if err := d.stars.Move(idx, pos, absMag); err != nil {
			return err
		}
		o.Position, o.AbsMag = pos, absMag
	case *DeepSkyObject:
		if err := d.dsos.Move(idx, pos, absMag); err != nil {
			return err
		}
		d.totalDSOMag += float64(absMag) - float64(o.AbsMag)
		o.Position, o.AbsMag = pos, absMag
	default:
		return fmt.Errorf("%w: %s %d", ErrNotPositioned, obj.Kind(), idx)
	}
	return nil
}

// Object returns the object at idx, or nil.
func (d *Database) Object(idx catalog.Index) Object {
	return d.objects[idx]
}

// Star returns the star at idx, or nil.
func (d *Database) Star(idx catalog.Index) *Star {
	s, _ := d.objects[idx].(*Star)
	return s
}

// DSO returns the deep-sky object at idx, or nil.
func (d *Database) DSO(idx catalog.Index) *DeepSkyObject {
	o, _ := d.objects[idx].(*DeepSkyObject)
	return o
}

// Body returns the body at idx, or nil.
func (d *Database) Body(idx catalog.Index) *Body {
	b, _ := d.objects[idx].(*Body)
	return b
}

// ObjectByName resolves name with NameToIndex and returns the object, or nil.
func (d *Database) ObjectByName(name string, i18n, tryCatalog bool) Object {
	return d.Object(d.NameToIndex(name, i18n, tryCatalog))
}

// StarByName is ObjectByName restricted to stars.
func (d *Database) StarByName(name string, i18n, tryCatalog bool) *Star {
	return d.Star(d.NameToIndex(name, i18n, tryCatalog))
}

// DSOByName is ObjectByName restricted to deep-sky objects.
func (d *Database) DSOByName(name string, i18n, tryCatalog bool) *DeepSkyObject {
	return d.DSO(d.NameToIndex(name, i18n, tryCatalog))
}

// NameToIndex resolves a name to a canonical index. A literal name match wins;
// canonical names are tried before localized ones, which are only consulted
// with i18n. On a miss with tryCatalog, name is parsed as a designation such
// as "HD 48915" and resolved through that catalog's cross index. "#<n>"
// names the object at index n directly. Misses return catalog.InvalidIndex.
func (d *Database) NameToIndex(name string, i18n, tryCatalog bool) catalog.Index {
	if idx := d.names.Index(name, i18n); idx.Valid() {
		return idx
	}
	if !tryCatalog {
		return catalog.InvalidIndex
	}
	if id, num, ok := d.catalogs.Parse(name); ok {
		if idx := d.catalogs.Lookup(id, num); idx.Valid() {
			return idx
		}
	}
	if rest, ok := strings.CutPrefix(strings.TrimSpace(name), "#"); ok {
		n, err := strconv.ParseUint(rest, 10, 32)
		if err == nil && d.has(catalog.Index(n)) {
			return catalog.Index(n)
		}
	}
	return catalog.InvalidIndex
}

// StarNameToIndex resolves name, designations included, and returns the
// index only if it belongs to a star.
func (d *Database) StarNameToIndex(name string, i18n bool) catalog.Index {
	idx := d.NameToIndex(name, i18n, true)
	if d.Star(idx) == nil {
		return catalog.InvalidIndex
	}
	return idx
}

// AddAstroCatalog registers a custom catalog under id.
func (d *Database) AddAstroCatalog(id catalog.ID, c *catalog.Catalog) error {
	return d.catalogs.Add(id, c)
}

// AddCatalogNumber maps num in catalog cat to idx. Without overwrite a
// conflicting mapping is left untouched and ErrDuplicateMapping is returned.
func (d *Database) AddCatalogNumber(idx catalog.Index, cat catalog.ID, num catalog.Number, overwrite bool) error {
	x := d.catalogs.CrossIndex(cat)
	if x == nil {
		return fmt.Errorf("%w: %d", catalog.ErrInvalidCatalog, cat)
	}
	if err := x.Add(num, idx, overwrite); err != nil {
		d.log.Debug("catalog %d: %d -> %d: %v", cat, num, idx, err)
		return err
	}
	return nil
}

// AddCatalogRange maps count consecutive numbers starting at startNum onto
// consecutive indices starting at startIdx. It is all-or-nothing and
// returns how many mappings were written.
func (d *Database) AddCatalogRange(startIdx catalog.Index, cat catalog.ID, startNum catalog.Number, count int, overwrite bool) (int, error) {
	x := d.catalogs.CrossIndex(cat)
	if x == nil {
		return 0, fmt.Errorf("%w: %d", catalog.ErrInvalidCatalog, cat)
	}
	return x.AddRange(startNum, startIdx, count, overwrite)
}

// CatalogNumberToIndex resolves num in cat, or returns catalog.InvalidIndex.
func (d *Database) CatalogNumberToIndex(cat catalog.ID, num catalog.Number) catalog.Index {
	return d.catalogs.Lookup(cat, num)
}

// IndexToCatalogNumber returns idx's number in cat, or catalog.InvalidNumber.
func (d *Database) IndexToCatalogNumber(cat catalog.ID, idx catalog.Index) catalog.Number {
	return d.catalogs.Number(cat, idx)
}

// CatalogNumberToString formats "<Prefix> <Number>", or "" for an unknown
// catalog.
func (d *Database) CatalogNumberToString(cat catalog.ID, num catalog.Number) string {
	return d.catalogs.Format(cat, num)
}

// Designation returns idx's catalog designation, preferring HIP, HD, Gliese,
// SAO and TYC in that order, then custom catalogs, then "#<idx>".
func (d *Database) Designation(idx catalog.Index) string {
	for _, id := range designationOrder {
		if num := d.catalogs.Number(id, idx); num != catalog.InvalidNumber {
			return d.catalogs.Format(id, num)
		}
	}
	for c := range d.catalogs.All() {
		if c.ID < catalog.MaxBuiltinCatalog {
			continue
		}
		if num := c.CrossIndex().Number(idx); num != catalog.InvalidNumber {
			return c.Designation(num)
		}
	}
	return "#" + idx.String()
}

// ParseDesignation reads a designation such as "HD 48915" against the
// registered catalogs.
func (d *Database) ParseDesignation(s string) (catalog.ID, catalog.Number, bool) {
	return d.catalogs.Parse(s)
}

// CatalogByPrefix finds a catalog by prefix, alias or name, ignoring case.
func (d *Database) CatalogByPrefix(s string) (*catalog.Catalog, bool) {
	for c := range d.catalogs.All() {
		if strings.EqualFold(c.Prefix, s) || strings.EqualFold(c.Name, s) {
			return c, true
		}
		for _, a := range c.Aliases {
			if strings.EqualFold(a, s) {
				return c, true
			}
		}
	}
	return nil, false
}

// CrossIndex returns the cross index of cat, or nil.
func (d *Database) CrossIndex(cat catalog.ID) *catalog.CrossIndex {
	return d.catalogs.CrossIndex(cat)
}

// Catalogs yields every registered catalog in id order.
func (d *Database) Catalogs() iter.Seq[*catalog.Catalog] {
	return d.catalogs.All()
}

// AddName binds name to idx.
func (d *Database) AddName(idx catalog.Index, name string) error {
	_, err := d.names.Add(idx, name)
	return err
}

// AddLocalizedName binds a localized name to idx.
func (d *Database) AddLocalizedName(idx catalog.Index, name string, lang language.Tag) error {
	_, err := d.names.AddLocalized(idx, name, lang)
	return err
}

// AddNames binds every NameSeparator-delimited name in list to idx. Empty
// pieces are skipped. It returns how many names were bound; failures are
// joined into the error and do not stop the remaining names.
func (d *Database) AddNames(idx catalog.Index, list string) (int, error) {
	var errs []error
	added := 0
	for name := range strings.SplitSeq(list, NameSeparator) {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if err := d.AddName(idx, name); err != nil {
			errs = append(errs, err)
			continue
		}
		added++
	}
	return added, errors.Join(errs...)
}

// NameInfo looks up the record behind name.
func (d *Database) NameInfo(name string, i18n bool) (names.Info, bool) {
	h, ok := d.names.Lookup(name, i18n)
	if !ok {
		return names.Info{}, false
	}
	return d.names.Info(h)
}

// RemoveName unbinds name and reports whether it was bound.
func (d *Database) RemoveName(name string) bool {
	return d.names.Remove(name)
}

// RemoveNames unbinds every name of idx.
func (d *Database) RemoveNames(idx catalog.Index) int {
	return d.names.RemoveAll(idx)
}

// ObjectName returns idx's primary name, preferring a localized one with
// i18n, and falls back to its designation.
func (d *Database) ObjectName(idx catalog.Index, i18n bool) string {
	if name, ok := d.names.Primary(idx, i18n); ok {
		return name
	}
	return d.Designation(idx)
}

// PreferredName returns the localized name best matching prefs, then the
// primary name, then the designation.
func (d *Database) PreferredName(idx catalog.Index, prefs ...language.Tag) string {
	if name, ok := d.names.Preferred(idx, prefs...); ok {
		return name
	}
	return d.Designation(idx)
}

// ObjectNameList returns up to max names of idx in registration order,
// localized names included. max <= 0 means no limit.
func (d *Database) ObjectNameList(idx catalog.Index, max int) []string {
	return d.names.Names(idx, true, max)
}

// ObjectNames joins up to max names of idx with " / ".
func (d *Database) ObjectNames(idx catalog.Index, i18n bool, max int) string {
	return strings.Join(d.names.Names(idx, i18n, max), " / ")
}

// Completion yields names starting with prefix in lexicographic order.
func (d *Database) Completion(prefix string, i18n bool) iter.Seq[string] {
	return d.names.Completion(prefix, i18n)
}

// AddSystem associates sys with the star at idx, replacing any previous one.
func (d *Database) AddSystem(idx catalog.Index, sys SolarSystem) {
	d.systems[idx] = sys
}

// System returns the system associated with idx.
func (d *Database) System(idx catalog.Index) (SolarSystem, bool) {
	sys, ok := d.systems[idx]
	return sys, ok
}

// RemoveSystem drops the association for idx.
func (d *Database) RemoveSystem(idx catalog.Index) bool {
	if _, ok := d.systems[idx]; !ok {
		return false
	}
	delete(d.systems, idx)
	return true
}

// Systems yields every association in index order.
func (d *Database) Systems() iter.Seq2[catalog.Index, SolarSystem] {
	return func(yield func(catalog.Index, SolarSystem) bool) {
		for _, idx := range slices.Sorted(maps.Keys(d.systems)) {
			if !yield(idx, d.systems[idx]) {
				return
			}
		}
	}
}

// StarOctree exposes the star octree for read-only queries.
func (d *Database) StarOctree() *octree.Tree { return d.stars }

// DSOOctree exposes the deep-sky octree for read-only queries.
func (d *Database) DSOOctree() *octree.Tree { return d.dsos }

// Objects yields every object in index order.
func (d *Database) Objects() iter.Seq2[catalog.Index, Object] {
	return func(yield func(catalog.Index, Object) bool) {
		for _, idx := range slices.Sorted(maps.Keys(d.objects)) {
			if !yield(idx, d.objects[idx]) {
				return
			}
		}
	}
}

// Len returns the number of registered objects.
func (d *Database) Len() int { return len(d.objects) }

// StarCount returns the number of stars.
func (d *Database) StarCount() int { return d.counts[KindStar] }

// DSOCount returns the number of deep-sky objects.
func (d *Database) DSOCount() int { return d.counts[KindDSO] }

// BodyCount returns the number of bodies.
func (d *Database) BodyCount() int { return d.counts[KindBody] }

// AvgDSOMag returns the mean absolute magnitude of the deep-sky objects, or
// 0 when there are none.
func (d *Database) AvgDSOMag() float64 {
	if n := d.counts[KindDSO]; n > 0 {
		return d.totalDSOMag / float64(n)
	}
	return 0
}

// Clone returns an independent deep copy. Solar systems are shared, since
// the database never owns them.
func (d *Database) Clone() *Database {
	out := &Database{
		log:         d.log,
		objects:     make(map[catalog.Index]Object, len(d.objects)),
		counts:      d.counts,
		names:       d.names.Clone(),
		catalogs:    d.catalogs.Clone(),
		alloc:       new(catalog.Allocator),
		stars:       d.stars.Clone(),
		dsos:        d.dsos.Clone(),
		systems:     maps.Clone(d.systems),
		totalDSOMag: d.totalDSOMag,
	}
	*out.alloc = *d.alloc
	for idx, obj := range d.objects {
		c := obj.clone()
		c.base().db = out
		out.objects[idx] = c
	}
	return out
}
