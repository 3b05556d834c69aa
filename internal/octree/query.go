package octree

import (
	"iter"
	"math"

	"github.com/litescript/ls-astrodb/internal/astro"
)

// Pruning slack. Entries are always tested exactly, so slack only costs
// visits, never correctness.
const (
	magSlack   = 1e-6
	angleSlack = 1e-9
)

// Cone restricts a query to directions within HalfAngle radians of Dir.
type Cone struct {
	Dir       astro.Vec3
	HalfAngle float64

	cosHalf float64
}

// NewCone returns a cone around dir. dir need not be normalized.
func NewCone(dir astro.Vec3, halfAngle float64) *Cone {
	return &Cone{
		Dir:       dir.Normalized(),
		HalfAngle: halfAngle,
		cosHalf:   math.Cos(halfAngle),
	}
}

func (c *Cone) containsPoint(v astro.Vec3, dist float64) bool {
	if dist == 0 || c.HalfAngle >= math.Pi {
		return true
	}
	return c.Dir.Dot(v) >= dist*c.cosHalf
}

// excludesSphere reports whether a sphere of radius r at offset v (distance
// dist) lies entirely outside the cone.
func (c *Cone) excludesSphere(v astro.Vec3, dist, r float64) bool {
	if c.HalfAngle >= math.Pi || dist <= r {
		return false
	}
	cos := c.Dir.Dot(v) / dist
	theta := math.Acos(max(-1, min(1, cos)))
	return theta-math.Asin(r/dist) > c.HalfAngle+angleSlack
}

// Query selects entries visible from Viewpoint.
type Query struct {
	Viewpoint   astro.Vec3
	LimitingMag float64
	Radius      float64 // 0 means unbounded
	Cone        *Cone   // nil means the whole sky
}

// Hit is an entry matched by Visible.
type Hit struct {
	Entry
	Distance float64
	AppMag   float64
}

func (q Query) match(e Entry) (Hit, bool) {
	v := e.Pos.Sub(q.Viewpoint)
	d := v.Norm()
	if q.Radius > 0 && d > q.Radius {
		return Hit{}, false
	}
	app := astro.AbsToAppMag(float64(e.AbsMag), d)
	if app > q.LimitingMag {
		return Hit{}, false
	}
	if q.Cone != nil && !q.Cone.containsPoint(v, d) {
		return Hit{}, false
	}
	return Hit{Entry: e, Distance: d, AppMag: app}, true
}

func (t *Tree) prune(n int32, q Query) bool {
	nd := &t.nodes[n]
	if nd.count == 0 {
		return true
	}
	dmin := t.minDistance(n, q.Viewpoint)
	if q.Radius > 0 && dmin > q.Radius {
		return true
	}
	if astro.AbsToAppMag(float64(nd.brightest), dmin) > q.LimitingMag+magSlack {
		return true
	}
	if q.Cone != nil {
		v := nd.center.Sub(q.Viewpoint)
		if q.Cone.excludesSphere(v, v.Norm(), nd.half*math.Sqrt(3)) {
			return true
		}
	}
	return false
}

// Visible yields every entry whose apparent magnitude from q.Viewpoint is at
// most q.LimitingMag and which passes the radius and cone filters. The result
// set equals a linear scan; order is unspecified.
func (t *Tree) Visible(q Query) iter.Seq[Hit] {
	return func(yield func(Hit) bool) {
		t.walk(q, func(n int32) bool {
			for _, e := range t.nodes[n].entries {
				if h, ok := q.match(e); ok && !yield(h) {
					return false
				}
			}
			return true
		})
	}
}

// walk calls fn for the root and every node the query cannot prune, parents
// before children, until fn returns false.
func (t *Tree) walk(q Query, fn func(n int32) bool) {
	stack := []int32{0}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			return
		}
		first := t.nodes[n].child
		if first == noChild {
			continue
		}
		for i := range int32(8) {
			if !t.prune(first+i, q) {
				stack = append(stack, first+i)
			}
		}
	}
}

// Near yields every entry within radius of p regardless of magnitude.
func (t *Tree) Near(p astro.Vec3, radius float64) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		stack := []int32{0}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			for _, e := range t.nodes[n].entries {
				if e.Pos.Distance(p) <= radius {
					if !yield(e) {
						return
					}
				}
			}
			first := t.nodes[n].child
			if first == noChild {
				continue
			}
			for i := range int32(8) {
				c := first + i
				if t.nodes[c].count > 0 && t.minDistance(c, p) <= radius {
					stack = append(stack, c)
				}
			}
		}
	}
}

// Stats describes the tree's shape.
type Stats struct {
	Entries   int
	Nodes     int
	Leaves    int
	MaxDepth  int
	Outliers  int
	Brightest float32
}

// Stats walks the live nodes.
func (t *Tree) Stats() Stats {
	s := Stats{Entries: t.Len(), Brightest: t.nodes[0].brightest}
	for _, e := range t.nodes[0].entries {
		if !t.contains(0, e.Pos) {
			s.Outliers++
		}
	}
	stack := []int32{0}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s.Nodes++
		s.MaxDepth = max(s.MaxDepth, t.nodes[n].depth)
		first := t.nodes[n].child
		if first == noChild {
			s.Leaves++
			continue
		}
		for i := range int32(8) {
			stack = append(stack, first+i)
		}
	}
	return s
}
