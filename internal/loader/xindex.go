package loader

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/litescript/ls-astrodb/internal/astrodb"
	"github.com/litescript/ls-astrodb/internal/catalog"
	"github.com/litescript/ls-astrodb/internal/logging"
)

// CatalogRecord declares a custom catalog in xindex.toml.
//
//	[[catalog]]
//	id = 5
//	name = "Messier"
//	prefix = "M"
type CatalogRecord struct {
	ID      int      `toml:"id"`
	Name    string   `toml:"name"`
	Prefix  string   `toml:"prefix"`
	Aliases []string `toml:"aliases"`
}

// RangeRecord maps a run of catalog numbers onto consecutive indices.
//
//	[[range]]
//	catalog = "SAO"
//	start_index = 2000000
//	start_number = 1
//	count = 258997
type RangeRecord struct {
	Catalog     string `toml:"catalog"`
	StartIndex  uint32 `toml:"start_index"`
	StartNumber uint64 `toml:"start_number"`
	Count       int    `toml:"count"`
	Overwrite   bool   `toml:"overwrite"`
}

type xindexFile struct {
	Catalogs []CatalogRecord `toml:"catalog"`
	Ranges   []RangeRecord   `toml:"range"`
}

type xindexLoader struct{}

func (xindexLoader) File() string { return "xindex.toml" }

func (xindexLoader) Parse(data []byte) (Batch, error) {
	var f xindexFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	for i, c := range f.Catalogs {
		if catalog.ID(c.ID) < catalog.MaxBuiltinCatalog {
			return nil, fmt.Errorf("catalog %d: id %d is reserved for built-ins", i, c.ID)
		}
		if c.Prefix == "" {
			return nil, fmt.Errorf("catalog %d: empty prefix", i)
		}
	}
	return f, nil
}

func (f xindexFile) Apply(db *astrodb.Database, log *logging.Logger) (Result, error) {
	var res Result
	for _, rec := range f.Catalogs {
		c := catalog.New(catalog.ID(rec.ID), rec.Name, rec.Prefix, rec.Aliases...)
		if err := db.AddAstroCatalog(c.ID, c); err != nil {
			log.Warn("catalog %s: %v", rec.Prefix, err)
			res.Skipped++
			continue
		}
		res.Added++
	}
	for _, rec := range f.Ranges {
		n, err := AddRange(db, rec)
		if err != nil {
			if !skippable(err) {
				return res, err
			}
			log.Warn("range %s %d+%d: %v", rec.Catalog, rec.StartNumber, rec.Count, err)
			res.Skipped++
			continue
		}
		res.Added += n
	}
	return res, nil
}

// AddRange registers one range record. The range is all-or-nothing.
func AddRange(db *astrodb.Database, rec RangeRecord) (int, error) {
	c, ok := db.CatalogByPrefix(rec.Catalog)
	if !ok {
		return 0, fmt.Errorf("%w: %q", catalog.ErrInvalidCatalog, rec.Catalog)
	}
	return db.AddCatalogRange(catalog.Index(rec.StartIndex), c.ID, catalog.Number(rec.StartNumber), rec.Count, rec.Overwrite)
}
