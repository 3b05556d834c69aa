package loader

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/litescript/ls-astrodb/internal/astro"
	"github.com/litescript/ls-astrodb/internal/astrodb"
	"github.com/litescript/ls-astrodb/internal/catalog"
	"github.com/litescript/ls-astrodb/internal/logging"
)

// StarRecord is one [[star]] table of stars.toml.
//
//	[[star]]
//	hip = 32349
//	hd = 48915
//	ra = 101.287
//	dec = -16.716
//	distance = 8.6
//	mag = -1.46
//	names = ["Sirius", "Dog Star"]
//	localized = { es = "Sirio" }
type StarRecord struct {
	Index    uint32            `toml:"index"`
	HIP      uint32            `toml:"hip"`
	HD       uint32            `toml:"hd"`
	SAO      uint32            `toml:"sao"`
	Gliese   uint32            `toml:"gliese"`
	Tycho    string            `toml:"tycho"`
	RA       float64           `toml:"ra"`
	Dec      float64           `toml:"dec"`
	Distance float64           `toml:"distance"`
	Mag      *float64          `toml:"mag"`
	AbsMag   *float64          `toml:"abs_mag"`
	Spectral string            `toml:"spectral"`
	Names    []string          `toml:"names"`
	Local    map[string]string `toml:"localized"`
}

// DSORecord is one [[dso]] table of dsos.toml. Catalog maps a catalog
// prefix or name to the object's number in it.
//
//	[[dso]]
//	type = "galaxy"
//	ra = 10.685
//	dec = 41.269
//	distance = 2.537e6
//	mag = 3.44
//	names = ["Andromeda Galaxy"]
//	catalog = { M = 31, NGC = 224 }
type DSORecord struct {
	Index    uint32            `toml:"index"`
	Type     string            `toml:"type"`
	RA       float64           `toml:"ra"`
	Dec      float64           `toml:"dec"`
	Distance float64           `toml:"distance"`
	Mag      *float64          `toml:"mag"`
	AbsMag   *float64          `toml:"abs_mag"`
	Radius   float64           `toml:"radius"`
	Names    []string          `toml:"names"`
	Local    map[string]string `toml:"localized"`
	Catalog  map[string]uint64 `toml:"catalog"`
}

type starFile struct {
	Stars []StarRecord `toml:"star"`
}

type dsoFile struct {
	DSOs []DSORecord `toml:"dso"`
}

type starLoader struct{}

func (starLoader) File() string { return "stars.toml" }

func (starLoader) Parse(data []byte) (Batch, error) {
	var f starFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return starBatch(f.Stars), nil
}

type starBatch []StarRecord

func (b starBatch) Apply(db *astrodb.Database, log *logging.Logger) (Result, error) {
	var res Result
	for i, rec := range b {
		err := AddStar(db, rec)
		var partial *partialError
		switch {
		case err == nil:
			res.Added++
		case errors.As(err, &partial):
			log.Warn("star %d (%s): %v", i, firstName(rec.Names), err)
			res.Added++
		case skippable(err):
			log.Warn("star %d (%s): %v", i, firstName(rec.Names), err)
			res.Skipped++
		default:
			return res, err
		}
	}
	return res, nil
}

type dsoLoader struct{}

func (dsoLoader) File() string { return "dsos.toml" }

func (dsoLoader) Parse(data []byte) (Batch, error) {
	var f dsoFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return dsoBatch(f.DSOs), nil
}

type dsoBatch []DSORecord

func (b dsoBatch) Apply(db *astrodb.Database, log *logging.Logger) (Result, error) {
	var res Result
	for i, rec := range b {
		err := AddDSO(db, rec)
		var partial *partialError
		switch {
		case err == nil:
			res.Added++
		case errors.As(err, &partial):
			log.Warn("dso %d (%s): %v", i, firstName(rec.Names), err)
			res.Added++
		case skippable(err):
			log.Warn("dso %d (%s): %v", i, firstName(rec.Names), err)
			res.Skipped++
		default:
			return res, err
		}
	}
	return res, nil
}

// AddStar registers one star record: the object, its catalog numbers and its
// names. Without an explicit index the HIP number doubles as the index, and
// a star with neither gets an auto index. Conflicting catalog numbers and
// names are skipped; the star itself stays registered.
func AddStar(db *astrodb.Database, rec StarRecord) error {
	absMag, err := absMagnitude(rec.Mag, rec.AbsMag, rec.Distance)
	if err != nil {
		return err
	}
	idx := catalog.Index(rec.Index)
	if !idx.Valid() {
		idx = catalog.Index(rec.HIP)
	}
	pos := astro.CatalogPosition(astro.SkyCoord{RAdeg: rec.RA, DecDeg: rec.Dec, DistLy: rec.Distance})
	s := astrodb.NewStar(idx, pos, float32(absMag))
	s.SpectralType = rec.Spectral
	if err := db.AddStar(s); err != nil {
		return err
	}
	idx = s.Index()

	var errs []error
	numbers := []struct {
		cat catalog.ID
		num uint32
	}{
		{catalog.Hipparcos, rec.HIP},
		{catalog.HenryDraper, rec.HD},
		{catalog.SAO, rec.SAO},
		{catalog.Gliese, rec.Gliese},
	}
	for _, n := range numbers {
		if n.num == 0 {
			continue
		}
		if err := db.AddCatalogNumber(idx, n.cat, catalog.Number(n.num), false); err != nil {
			errs = append(errs, err)
		}
	}
	if rec.Tycho != "" {
		id, num, ok := db.ParseDesignation("TYC " + rec.Tycho)
		if !ok || id != catalog.Tycho {
			errs = append(errs, fmt.Errorf("%w: tycho %q", errBadEntry, rec.Tycho))
		} else if err := db.AddCatalogNumber(idx, catalog.Tycho, num, false); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, addNames(db, idx, rec.Names, rec.Local)...)
	return joinSkippable(errs)
}

// AddDSO registers one deep-sky record. Catalog keys must name a registered
// catalog.
func AddDSO(db *astrodb.Database, rec DSORecord) error {
	absMag, err := absMagnitude(rec.Mag, rec.AbsMag, rec.Distance)
	if err != nil {
		return err
	}
	pos := astro.CatalogPosition(astro.SkyCoord{RAdeg: rec.RA, DecDeg: rec.Dec, DistLy: rec.Distance})
	o := astrodb.NewDSO(catalog.Index(rec.Index), pos, float32(absMag))
	o.Type = rec.Type
	o.RadiusLy = float32(rec.Radius)
	if err := db.AddDSO(o); err != nil {
		return err
	}

	var errs []error
	for _, key := range slices.Sorted(maps.Keys(rec.Catalog)) {
		c, ok := db.CatalogByPrefix(key)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", catalog.ErrInvalidCatalog, key))
			continue
		}
		if err := db.AddCatalogNumber(o.Index(), c.ID, catalog.Number(rec.Catalog[key]), false); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, addNames(db, o.Index(), rec.Names, rec.Local)...)
	return joinSkippable(errs)
}

func addNames(db *astrodb.Database, idx catalog.Index, list []string, local map[string]string) []error {
	var errs []error
	for _, name := range list {
		if err := db.AddName(idx, name); err != nil {
			errs = append(errs, err)
		}
	}
	for _, tag := range slices.Sorted(maps.Keys(local)) {
		lang, err := language.Parse(tag)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: language %q: %v", errBadEntry, tag, err))
			continue
		}
		if err := db.AddLocalizedName(idx, local[tag], lang); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// joinSkippable folds per-field conflicts into one error. The object itself
// was registered.
func joinSkippable(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return &partialError{errs: errs, msg: strings.Join(msgs, "; ")}
}

// partialError reports conflicts on an object that was still registered.
type partialError struct {
	errs []error
	msg  string
}

func (e *partialError) Error() string   { return e.msg }
func (e *partialError) Unwrap() []error { return e.errs }

func absMagnitude(app, abs *float64, dist float64) (float64, error) {
	switch {
	case abs != nil:
		return *abs, nil
	case app == nil:
		return 0, fmt.Errorf("%w: no magnitude", errBadEntry)
	case dist <= 0 || math.IsNaN(dist) || math.IsInf(dist, 0):
		return 0, fmt.Errorf("%w: distance %v", errBadEntry, dist)
	}
	return astro.AppToAbsMag(*app, dist), nil
}

func firstName(list []string) string {
	if len(list) == 0 {
		return "unnamed"
	}
	return list[0]
}

func splitNames(list string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for name := range strings.SplitSeq(list, astrodb.NameSeparator) {
			if strings.TrimSpace(name) == "" {
				continue
			}
			if !yield(name) {
				return
			}
		}
	}
}
