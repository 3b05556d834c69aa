// Package octree is a spatial index over point objects tagged with an
// absolute magnitude. Each node carries the brightest magnitude of its
// subtree so visibility queries can skip whole cubes whose best case is
// still below the limiting magnitude.
package octree

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"

	"github.com/litescript/ls-astrodb/internal/astro"
	"github.com/litescript/ls-astrodb/internal/catalog"
)

// Defaults applied by NewTree to zero Config fields.
const (
	DefaultCapacity = 64
	DefaultMaxDepth = 12
	DefaultHalfSize = 1e6
)

// Errors returned by Insert and Move.
var (
	ErrInvalidEntry   = errors.New("invalid octree entry")
	ErrDuplicateEntry = errors.New("index already in octree")
	ErrNotFound       = errors.New("index not in octree")
)

// Entry is one indexed point.
type Entry struct {
	Index  catalog.Index
	Pos    astro.Vec3
	AbsMag float32
}

// Config sizes the root cube and controls subdivision.
type Config struct {
	Center   astro.Vec3
	HalfSize float64 // half the root cube edge, light years
	Capacity int     // entries a leaf holds before it splits
	MaxDepth int     // leaves at this depth never split
}

func (c Config) withDefaults() Config {
	if c.HalfSize <= 0 {
		c.HalfSize = DefaultHalfSize
	}
	if c.Capacity <= 0 {
		c.Capacity = DefaultCapacity
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	return c
}

const noChild = -1

type node struct {
	center astro.Vec3
	half   float64
	depth  int
	parent int32
	child  int32 // first of eight consecutive nodes, or noChild

	entries   []Entry
	count     int     // entries in the subtree, own included
	brightest float32 // minimum AbsMag in the subtree, +Inf when empty
}

var inf32 = float32(math.Inf(1))

// Tree is an arena-backed octree. Node 0 is the root. Children of a node are
// allocated as a block of eight; freed blocks are reused.
//
// Points outside the root cube are kept in the root's own entry list.
//
// A Tree is not safe for concurrent mutation. Queries may run concurrently
// with each other.
type Tree struct {
	cfg   Config
	nodes []node
	free  []int32
	loc   map[catalog.Index]int32
}

// NewTree returns an empty tree.
func NewTree(cfg Config) *Tree {
	cfg = cfg.withDefaults()
	t := &Tree{
		cfg: cfg,
		loc: make(map[catalog.Index]int32),
	}
	t.nodes = append(t.nodes, node{
		center:    cfg.Center,
		half:      cfg.HalfSize,
		parent:    noChild,
		child:     noChild,
		brightest: inf32,
	})
	return t
}

// Config returns the effective configuration.
func (t *Tree) Config() Config { return t.cfg }

// Len returns the number of entries.
func (t *Tree) Len() int { return len(t.loc) }

// Brightest returns the brightest absolute magnitude in the tree, +Inf when
// empty.
func (t *Tree) Brightest() float32 { return t.nodes[0].brightest }

// Get returns the entry for idx.
func (t *Tree) Get(idx catalog.Index) (Entry, bool) {
	n, ok := t.loc[idx]
	if !ok {
		return Entry{}, false
	}
	for _, e := range t.nodes[n].entries {
		if e.Index == idx {
			return e, true
		}
	}
	return Entry{}, false
}

// CheckPoint reports whether pos and absMag can be indexed.
func CheckPoint(pos astro.Vec3, absMag float32) error {
	if isNaN(pos) || math.IsNaN(float64(absMag)) {
		return fmt.Errorf("%w: NaN position or magnitude", ErrInvalidEntry)
	}
	return nil
}

// Validate reports whether e can be inserted into an empty tree.
func (e Entry) Validate() error {
	if !e.Index.Valid() {
		return fmt.Errorf("%w: index %d", ErrInvalidEntry, e.Index)
	}
	if err := CheckPoint(e.Pos, e.AbsMag); err != nil {
		return fmt.Errorf("%d: %w", e.Index, err)
	}
	return nil
}

// Insert adds e.
func (t *Tree) Insert(e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, ok := t.loc[e.Index]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateEntry, e.Index)
	}

	n := int32(0)
	if t.contains(0, e.Pos) {
		for {
			t.nodes[n].count++
			t.nodes[n].brightest = min(t.nodes[n].brightest, e.AbsMag)
			if t.nodes[n].child == noChild {
				break
			}
			n = t.nodes[n].child + t.octant(n, e.Pos)
		}
	} else {
		t.nodes[0].count++
		t.nodes[0].brightest = min(t.nodes[0].brightest, e.AbsMag)
	}

	t.nodes[n].entries = append(t.nodes[n].entries, e)
	t.loc[e.Index] = n
	if t.nodes[n].child == noChild && t.shouldSplit(n) {
		t.split(n)
	}
	return nil
}

// Remove deletes the entry for idx and reports whether it existed.
func (t *Tree) Remove(idx catalog.Index) bool {
	n, ok := t.loc[idx]
	if !ok {
		return false
	}
	delete(t.loc, idx)
	t.nodes[n].entries = slices.DeleteFunc(t.nodes[n].entries, func(e Entry) bool {
		return e.Index == idx
	})

	for m := n; m != noChild; m = t.nodes[m].parent {
		t.nodes[m].count--
		if c := t.nodes[m].child; c != noChild && t.nodes[m].count == len(t.nodes[m].entries) {
			t.collapse(m)
		}
		t.recompute(m)
	}
	return true
}

// Move relocates idx to pos with a new magnitude. A rejected move leaves the
// tree unchanged.
func (t *Tree) Move(idx catalog.Index, pos astro.Vec3, absMag float32) error {
	if _, ok := t.loc[idx]; !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, idx)
	}
	e := Entry{Index: idx, Pos: pos, AbsMag: absMag}
	if err := e.Validate(); err != nil {
		return err
	}
	t.Remove(idx)
	return t.Insert(e)
}

// All yields every entry in node order.
func (t *Tree) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for i := range t.nodes {
			for _, e := range t.nodes[i].entries {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// Clone returns a deep copy.
func (t *Tree) Clone() *Tree {
	out := &Tree{
		cfg:   t.cfg,
		nodes: slices.Clone(t.nodes),
		free:  slices.Clone(t.free),
		loc:   maps.Clone(t.loc),
	}
	for i := range out.nodes {
		out.nodes[i].entries = slices.Clone(out.nodes[i].entries)
	}
	return out
}

func (t *Tree) shouldSplit(n int32) bool {
	nd := &t.nodes[n]
	return len(nd.entries) > t.cfg.Capacity && nd.depth < t.cfg.MaxDepth
}

// split moves a leaf's entries into eight new children. Root outliers stay.
func (t *Tree) split(n int32) {
	first := t.allocChildren(n)
	entries := t.nodes[n].entries
	var keep []Entry
	for _, e := range entries {
		if n == 0 && !t.contains(0, e.Pos) {
			keep = append(keep, e)
			continue
		}
		c := first + t.octant(n, e.Pos)
		t.nodes[c].entries = append(t.nodes[c].entries, e)
		t.nodes[c].count++
		t.nodes[c].brightest = min(t.nodes[c].brightest, e.AbsMag)
		t.loc[e.Index] = c
	}
	t.nodes[n].entries = keep
	t.nodes[n].child = first

	for i := range int32(8) {
		if t.shouldSplit(first + i) {
			t.split(first + i)
		}
	}
}

func (t *Tree) allocChildren(parent int32) int32 {
	var first int32
	if k := len(t.free); k > 0 {
		first = t.free[k-1]
		t.free = t.free[:k-1]
	} else {
		first = int32(len(t.nodes))
		t.nodes = append(t.nodes, make([]node, 8)...)
	}
	p := t.nodes[parent]
	q := p.half / 2
	for i := range int32(8) {
		c := p.center
		c.X += sign(i&1 != 0) * q
		c.Y += sign(i&2 != 0) * q
		c.Z += sign(i&4 != 0) * q
		t.nodes[first+i] = node{
			center:    c,
			half:      q,
			depth:     p.depth + 1,
			parent:    parent,
			child:     noChild,
			brightest: inf32,
		}
	}
	return first
}

// collapse frees the (empty) child blocks below n.
func (t *Tree) collapse(n int32) {
	first := t.nodes[n].child
	if first == noChild {
		return
	}
	for i := range int32(8) {
		t.collapse(first + i)
		t.nodes[first+i] = node{depth: -1, parent: noChild, child: noChild, brightest: inf32}
	}
	t.nodes[n].child = noChild
	t.free = append(t.free, first)
}

// recompute rebuilds n's brightest from its own entries and its children.
func (t *Tree) recompute(n int32) {
	b := inf32
	for _, e := range t.nodes[n].entries {
		b = min(b, e.AbsMag)
	}
	if first := t.nodes[n].child; first != noChild {
		for i := range int32(8) {
			b = min(b, t.nodes[first+i].brightest)
		}
	}
	t.nodes[n].brightest = b
}

func (t *Tree) contains(n int32, p astro.Vec3) bool {
	nd := &t.nodes[n]
	return math.Abs(p.X-nd.center.X) <= nd.half &&
		math.Abs(p.Y-nd.center.Y) <= nd.half &&
		math.Abs(p.Z-nd.center.Z) <= nd.half
}

func (t *Tree) octant(n int32, p astro.Vec3) int32 {
	c := t.nodes[n].center
	var o int32
	if p.X >= c.X {
		o |= 1
	}
	if p.Y >= c.Y {
		o |= 2
	}
	if p.Z >= c.Z {
		o |= 4
	}
	return o
}

// minDistance is the distance from p to the closest point of n's cube.
func (t *Tree) minDistance(n int32, p astro.Vec3) float64 {
	nd := &t.nodes[n]
	dx := max(math.Abs(p.X-nd.center.X)-nd.half, 0)
	dy := max(math.Abs(p.Y-nd.center.Y)-nd.half, 0)
	dz := max(math.Abs(p.Z-nd.center.Z)-nd.half, 0)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func sign(pos bool) float64 {
	if pos {
		return 1
	}
	return -1
}

func isNaN(v astro.Vec3) bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z)
}
