package catalog

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
	"unicode"
)

// Registry holds the catalogs known to one database, keyed by id.
type Registry struct {
	catalogs map[ID]*Catalog

	// prefixes maps upper-cased prefixes and aliases to catalogs, longest
	// first, for designation parsing.
	prefixes []prefixEntry
}

type prefixEntry struct {
	prefix string
	cat    *Catalog
}

// NewRegistry returns an empty registry. Call CreateBuiltinCatalogs to add
// the standard catalogs.
func NewRegistry() *Registry {
	return &Registry{catalogs: make(map[ID]*Catalog)}
}

// CreateBuiltinCatalogs registers HD, Gliese, SAO, HIP and TYC. Catalogs that
// are already bound are left alone.
func (r *Registry) CreateBuiltinCatalogs() {
	builtins := []*Catalog{
		New(HenryDraper, "Henry Draper", "HD"),
		New(Gliese, "Gliese", "Gliese", "GJ", "Gl"),
		New(SAO, "Smithsonian Astrophysical Observatory", "SAO"),
		New(Hipparcos, "Hipparcos", "HIP"),
		New(Tycho, "Tycho", "TYC"),
	}
	builtins[Gliese].Parse = parseGliese
	builtins[Tycho].Format = formatTycho
	builtins[Tycho].Parse = parseTycho

	for _, c := range builtins {
		if _, ok := r.catalogs[c.ID]; ok {
			continue
		}
		_ = r.Add(c.ID, c)
	}
}

// Add binds c under id. The id on c is overwritten with id.
func (r *Registry) Add(id ID, c *Catalog) error {
	if c == nil {
		return fmt.Errorf("%w: nil catalog for id %d", ErrInvalidCatalog, id)
	}
	if _, ok := r.catalogs[id]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateCatalog, id)
	}
	c.ID = id
	c.CrossIndex()
	r.catalogs[id] = c

	if c.Prefix != "" {
		r.addPrefix(c.Prefix, c)
	}
	for _, a := range c.Aliases {
		r.addPrefix(a, c)
	}
	return nil
}

func (r *Registry) addPrefix(p string, c *Catalog) {
	r.prefixes = append(r.prefixes, prefixEntry{prefix: strings.ToUpper(p), cat: c})
	slices.SortStableFunc(r.prefixes, func(a, b prefixEntry) int {
		return len(b.prefix) - len(a.prefix)
	})
}

// Get returns the catalog bound to id.
func (r *Registry) Get(id ID) (*Catalog, bool) {
	c, ok := r.catalogs[id]
	return c, ok
}

// CrossIndex returns the mapping of catalog id, or nil.
func (r *Registry) CrossIndex(id ID) *CrossIndex {
	if c, ok := r.catalogs[id]; ok {
		return c.CrossIndex()
	}
	return nil
}

// Len returns the number of registered catalogs.
func (r *Registry) Len() int { return len(r.catalogs) }

// All yields catalogs in ascending id order.
func (r *Registry) All() iter.Seq[*Catalog] {
	return func(yield func(*Catalog) bool) {
		for _, id := range slices.Sorted(maps.Keys(r.catalogs)) {
			if !yield(r.catalogs[id]) {
				return
			}
		}
	}
}

// Lookup resolves a catalog number to an index. Unknown catalogs and misses
// both return InvalidIndex.
func (r *Registry) Lookup(id ID, num Number) Index {
	if x := r.CrossIndex(id); x != nil {
		return x.Lookup(num)
	}
	return InvalidIndex
}

// Number resolves an index to its number in catalog id.
func (r *Registry) Number(id ID, idx Index) Number {
	if x := r.CrossIndex(id); x != nil {
		return x.Number(idx)
	}
	return InvalidNumber
}

// Format renders "<Prefix> <Number>" for catalog id, or "" for an unknown
// catalog.
func (r *Registry) Format(id ID, num Number) string {
	c, ok := r.catalogs[id]
	if !ok {
		return ""
	}
	return c.Designation(num)
}

// Parse reads a designation such as "HD 48915", "hip32349" or
// "TYC 5949-2777-1". Matching on the prefix is case-insensitive.
func (r *Registry) Parse(s string) (ID, Number, bool) {
	s = strings.TrimSpace(s)
	upper := strings.ToUpper(s)
	for _, p := range r.prefixes {
		if !strings.HasPrefix(upper, p.prefix) {
			continue
		}
		rest := s[len(p.prefix):]
		// "HDX 12" must not match "HD"; a digit or a space has to follow.
		if rest == "" {
			continue
		}
		if first := rune(rest[0]); !unicode.IsSpace(first) && !unicode.IsDigit(first) {
			continue
		}
		rest = strings.TrimSpace(rest)
		if num, ok := p.cat.parseNumber(rest); ok {
			return p.cat.ID, num, true
		}
	}
	return 0, InvalidNumber, false
}

// Clone deep-copies the registry, cross indices included. Format and Parse
// functions are shared.
func (r *Registry) Clone() *Registry {
	out := NewRegistry()
	for id, c := range r.catalogs {
		cp := *c
		cp.Aliases = slices.Clone(c.Aliases)
		cp.xindex = c.CrossIndex().Clone()
		out.catalogs[id] = &cp
	}
	for _, p := range r.prefixes {
		out.prefixes = append(out.prefixes, prefixEntry{prefix: p.prefix, cat: out.catalogs[p.cat.ID]})
	}
	return out
}
