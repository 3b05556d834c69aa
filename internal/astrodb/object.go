package astrodb

import (
	"github.com/litescript/ls-astrodb/internal/astro"
	"github.com/litescript/ls-astrodb/internal/catalog"
)

// Kind is the class of an object.
type Kind int

const (
	KindStar Kind = iota
	KindDSO
	KindBody
	numKinds
)

func (k Kind) String() string {
	switch k {
	case KindStar:
		return "star"
	case KindDSO:
		return "dso"
	case KindBody:
		return "body"
	default:
		return "unknown"
	}
}

// Object is anything the database can own. The set of kinds is closed.
type Object interface {
	Index() catalog.Index
	Kind() Kind
	// Database returns the owning database, nil while unregistered.
	Database() *Database

	base() *objectBase
	clone() Object
}

type objectBase struct {
	index catalog.Index
	db    *Database
}

func (o *objectBase) Index() catalog.Index { return o.index }
func (o *objectBase) Database() *Database  { return o.db }
func (o *objectBase) base() *objectBase    { return o }

// Star is a point source placed in the star octree.
type Star struct {
	objectBase

	Position     astro.Vec3 // heliocentric ecliptic, light years
	AbsMag       float32
	SpectralType string
}

// NewStar returns an unregistered star. An index of catalog.InvalidIndex asks
// the database to allocate one.
func NewStar(idx catalog.Index, pos astro.Vec3, absMag float32) *Star {
	return &Star{objectBase: objectBase{index: idx}, Position: pos, AbsMag: absMag}
}

func (*Star) Kind() Kind { return KindStar }

// AppMag returns the apparent magnitude seen from viewpoint.
func (s *Star) AppMag(viewpoint astro.Vec3) float64 {
	return astro.AbsToAppMag(float64(s.AbsMag), s.Position.Distance(viewpoint))
}

func (s *Star) clone() Object {
	c := *s
	c.db = nil
	return &c
}

// DeepSkyObject is a galaxy, nebula or cluster placed in the DSO octree.
type DeepSkyObject struct {
	objectBase

	Position astro.Vec3
	AbsMag   float32
	Type     string
	RadiusLy float32
}

// NewDSO returns an unregistered deep-sky object.
func NewDSO(idx catalog.Index, pos astro.Vec3, absMag float32) *DeepSkyObject {
	return &DeepSkyObject{objectBase: objectBase{index: idx}, Position: pos, AbsMag: absMag}
}

func (*DeepSkyObject) Kind() Kind { return KindDSO }

// AppMag returns the apparent magnitude seen from viewpoint.
func (d *DeepSkyObject) AppMag(viewpoint astro.Vec3) float64 {
	return astro.AbsToAppMag(float64(d.AbsMag), d.Position.Distance(viewpoint))
}

func (d *DeepSkyObject) clone() Object {
	c := *d
	c.db = nil
	return &c
}

// Body is a planetary-system body. It has no octree entry.
type Body struct {
	objectBase

	// Primary is the index of the star the body belongs to, if any.
	Primary catalog.Index
	Class   string
}

// NewBody returns an unregistered body.
func NewBody(idx catalog.Index, primary catalog.Index, class string) *Body {
	return &Body{objectBase: objectBase{index: idx}, Primary: primary, Class: class}
}

func (*Body) Kind() Kind { return KindBody }

func (b *Body) clone() Object {
	c := *b
	c.db = nil
	return &c
}

// positioned returns the octree fields of stars and deep-sky objects.
func positioned(obj Object) (astro.Vec3, float32, bool) {
	switch o := obj.(type) {
	case *Star:
		return o.Position, o.AbsMag, true
	case *DeepSkyObject:
		return o.Position, o.AbsMag, true
	}
	return astro.Vec3{}, 0, false
}

// SolarSystem is an opaque planetary-system value keyed by its primary
// star's index. The database never inspects it.
type SolarSystem any
