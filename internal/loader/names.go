package loader

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/litescript/ls-astrodb/internal/astrodb"
	"github.com/litescript/ls-astrodb/internal/catalog"
	"github.com/litescript/ls-astrodb/internal/logging"
)

// NameRecord adds names to an existing object, found by index or by any name
// or designation it already resolves from.
//
//	[[name]]
//	target = "HIP 32349"
//	names = "Dog Star:Alhabor"
//
//	[[name]]
//	target = "Sirius"
//	lang = "it"
//	names = "Sirio"
type NameRecord struct {
	Index  uint32 `toml:"index"`
	Target string `toml:"target"`
	Names  string `toml:"names"`
	Lang   string `toml:"lang"`
}

type nameFile struct {
	Names []NameRecord `toml:"name"`
}

type nameLoader struct{}

func (nameLoader) File() string { return "names.toml" }

func (nameLoader) Parse(data []byte) (Batch, error) {
	var f nameFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	for i, rec := range f.Names {
		if rec.Lang == "" {
			continue
		}
		if _, err := language.Parse(rec.Lang); err != nil {
			return nil, fmt.Errorf("name %d: language %q: %w", i, rec.Lang, err)
		}
	}
	return nameBatch(f.Names), nil
}

type nameBatch []NameRecord

func (b nameBatch) Apply(db *astrodb.Database, log *logging.Logger) (Result, error) {
	var res Result
	for i, rec := range b {
		idx := catalog.Index(rec.Index)
		if !idx.Valid() {
			idx = db.NameToIndex(rec.Target, true, true)
		}
		if db.Object(idx) == nil {
			log.Warn("name %d: no object for %q", i, rec.Target)
			res.Skipped++
			continue
		}

		if rec.Lang == "" {
			n, err := db.AddNames(idx, rec.Names)
			res.Added += n
			if err != nil {
				log.Warn("name %d: %v", i, err)
				res.Skipped++
			}
			continue
		}

		lang := language.Make(rec.Lang)
		for name := range splitNames(rec.Names) {
			if err := db.AddLocalizedName(idx, name, lang); err != nil {
				log.Warn("name %d: %v", i, err)
				res.Skipped++
				continue
			}
			res.Added++
		}
	}
	return res, nil
}
