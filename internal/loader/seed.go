package loader

import (
	"errors"

	"github.com/litescript/ls-astrodb/internal/astro"
	"github.com/litescript/ls-astrodb/internal/astrodb"
	"github.com/litescript/ls-astrodb/internal/catalog"
	"github.com/litescript/ls-astrodb/internal/logging"
)

// Custom catalogs registered by Seed.
const (
	CatalogMessier = catalog.MaxBuiltinCatalog + iota
	CatalogNGC
)

// Seed registers the built-in bright stars and deep-sky objects, plus the
// Messier and NGC catalogs they are numbered in.
func Seed(db *astrodb.Database, log *logging.Logger) (Result, error) {
	if log == nil {
		log = logging.Discard()
	}
	res := Result{File: "seed"}

	for _, c := range []*catalog.Catalog{
		catalog.New(CatalogMessier, "Messier", "M", "Messier"),
		catalog.New(CatalogNGC, "New General Catalogue", "NGC"),
	} {
		if err := db.AddAstroCatalog(c.ID, c); err != nil && !errors.Is(err, catalog.ErrDuplicateCatalog) {
			return res, err
		}
	}

	var stars starBatch
	for _, s := range astro.BrightStars() {
		mag := s.Mag
		stars = append(stars, StarRecord{
			HIP:      s.HIP,
			HD:       s.HD,
			SAO:      s.SAO,
			Gliese:   s.Gliese,
			RA:       s.RAdeg,
			Dec:      s.DecDeg,
			Distance: s.DistLy,
			Mag:      &mag,
			Names:    s.Names,
			Local:    s.Localized,
		})
	}
	r, err := stars.Apply(db, log)
	res.Added += r.Added
	res.Skipped += r.Skipped
	if err != nil {
		return res, err
	}

	var dsos dsoBatch
	for _, d := range astro.BrightDeepSky() {
		mag := d.Mag
		rec := DSORecord{
			Type:     d.Type,
			RA:       d.RAdeg,
			Dec:      d.DecDeg,
			Distance: d.DistLy,
			Mag:      &mag,
			Names:    d.Names,
			Local:    d.Localized,
			Catalog:  map[string]uint64{},
		}
		if d.Messier != 0 {
			rec.Catalog["M"] = uint64(d.Messier)
		}
		if d.NGC != 0 {
			rec.Catalog["NGC"] = uint64(d.NGC)
		}
		dsos = append(dsos, rec)
	}
	r, err = dsos.Apply(db, log)
	res.Added += r.Added
	res.Skipped += r.Skipped
	return res, err
}
