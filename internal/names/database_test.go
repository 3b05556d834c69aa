package names

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/litescript/ls-astrodb/internal/catalog"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sirius", "sirius"},
		{"  Alpha   CENTAURI ", "alpha centauri"},
		{"Alpha\tCen", "alpha cen"},
		{"ＨＤ 48915", "hd 48915"}, // fullwidth folds under NFKC
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestDatabase_AddLookup(t *testing.T) {
	db := NewDatabase()

	h, err := db.Add(5, "Sirius")
	require.NoError(t, err)
	require.True(t, h.Valid())

	got, ok := db.Lookup("  SIRIUS ", false)
	require.True(t, ok)
	assert.Equal(t, h, got)

	info, ok := db.Info(got)
	require.True(t, ok)
	assert.Equal(t, "Sirius", info.Name)
	assert.Equal(t, catalog.Index(5), info.Index)
	assert.False(t, info.Localized)
	assert.Equal(t, 2, info.Refs, "key tree and object list both hold the record")

	assert.Equal(t, catalog.Index(5), db.Index("sirius", false))
	assert.Equal(t, catalog.InvalidIndex, db.Index("Vega", true))
}

func TestDatabase_AddIdempotent(t *testing.T) {
	db := NewDatabase()
	h1, err := db.Add(5, "Sirius")
	require.NoError(t, err)
	h2, err := db.Add(5, "sirius")
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Equal(t, []string{"Sirius"}, db.Names(5, true, 0))
	assert.Equal(t, 1, db.Live())
}

func TestDatabase_NameTaken(t *testing.T) {
	db := NewDatabase()
	_, err := db.Add(5, "Sirius")
	require.NoError(t, err)

	_, err = db.Add(6, "Sirius")
	assert.ErrorIs(t, err, ErrNameTaken)
	assert.Equal(t, catalog.Index(5), db.Index("Sirius", false))
	assert.Empty(t, db.Names(6, true, 0))
}

func TestDatabase_AddRejectsEmpty(t *testing.T) {
	db := NewDatabase()
	_, err := db.Add(5, "   ")
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = db.Add(catalog.InvalidIndex, "Nameless")
	assert.ErrorIs(t, err, catalog.ErrInvalidMapping)
}

func TestDatabase_LocalizedLookupNeedsFlag(t *testing.T) {
	db := NewDatabase()
	_, err := db.Add(5, "Sirius")
	require.NoError(t, err)
	_, err = db.AddLocalized(5, "Sirio", language.Spanish)
	require.NoError(t, err)

	_, ok := db.Lookup("Sirio", false)
	assert.False(t, ok)

	h, ok := db.Lookup("Sirio", true)
	require.True(t, ok)
	info, _ := db.Info(h)
	assert.True(t, info.Localized)
	assert.Equal(t, language.Spanish, info.Lang)
}

func TestDatabase_LocalizedDoesNotShadowCanonical(t *testing.T) {
	db := NewDatabase()
	_, err := db.Add(1, "Polaris")
	require.NoError(t, err)
	// Another object localized under the same spelling.
	_, err = db.AddLocalized(2, "Polaris", language.German)
	require.NoError(t, err)

	assert.Equal(t, catalog.Index(1), db.Index("Polaris", true))
}

func TestDatabase_Completion(t *testing.T) {
	db := NewDatabase()
	_, err := db.Add(5, "Sirius")
	require.NoError(t, err)
	_, err = db.AddLocalized(5, "Sirio", language.Spanish)
	require.NoError(t, err)
	_, err = db.Add(6, "Vega")
	require.NoError(t, err)

	assert.Equal(t, []string{"Sirius"}, slices.Collect(db.Completion("Sir", false)))
	assert.ElementsMatch(t, []string{"Sirius", "Sirio"}, slices.Collect(db.Completion("Sir", true)))
	assert.Empty(t, slices.Collect(db.Completion("Deneb", true)))
}

func TestDatabase_CompletionOrderedAndRestartable(t *testing.T) {
	db := NewDatabase()
	for i, n := range []string{"Alpha Centauri B", "Alphard", "Alpha Centauri A", "Algol", "Alioth"} {
		_, err := db.Add(catalog.Index(i+1), n)
		require.NoError(t, err)
	}
	_, err := db.AddLocalized(9, "Alhena", language.Spanish)
	require.NoError(t, err)

	seq := db.Completion("al", true)
	want := []string{"Algol", "Alhena", "Alioth", "Alpha Centauri A", "Alpha Centauri B", "Alphard"}
	assert.Equal(t, want, slices.Collect(seq))
	assert.Equal(t, want, slices.Collect(seq), "second pass yields the same sequence")

	assert.Equal(t, []string{"Alpha Centauri A", "Alpha Centauri B"}, slices.Collect(db.Completion("alpha ", false)))

	var first []string
	for n := range seq {
		first = append(first, n)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, want[:2], first)
}

func TestDatabase_RemoveReleasesRecord(t *testing.T) {
	db := NewDatabase()
	h, err := db.Add(5, "Sirius")
	require.NoError(t, err)
	_, err = db.Add(5, "Alpha CMa")
	require.NoError(t, err)
	require.Equal(t, 2, db.Live())

	assert.True(t, db.Remove("sirius"))
	assert.False(t, db.Remove("sirius"))

	_, ok := db.Info(h)
	assert.False(t, ok, "handle is stale after release")
	assert.Equal(t, []string{"Alpha CMa"}, db.Names(5, true, 0))
	assert.Equal(t, 1, db.Live())
}

func TestDatabase_RemoveAll(t *testing.T) {
	db := NewDatabase()
	_, err := db.Add(5, "Sirius")
	require.NoError(t, err)
	_, err = db.AddLocalized(5, "Sirio", language.Spanish)
	require.NoError(t, err)
	_, err = db.Add(6, "Vega")
	require.NoError(t, err)

	assert.Equal(t, 2, db.RemoveAll(5))
	assert.Empty(t, db.Names(5, true, 0))
	assert.Equal(t, catalog.InvalidIndex, db.Index("Sirius", true))
	assert.Equal(t, catalog.InvalidIndex, db.Index("Sirio", true))
	assert.Equal(t, 1, db.Live())
	assert.Equal(t, 1, db.Objects())

	// The freed slots are reused with fresh generations.
	h, err := db.Add(7, "Sirius")
	require.NoError(t, err)
	info, ok := db.Info(h)
	require.True(t, ok)
	assert.Equal(t, catalog.Index(7), info.Index)
}

func TestDatabase_RemoveHandle(t *testing.T) {
	db := NewDatabase()
	h, err := db.AddLocalized(5, "Sirio", language.Spanish)
	require.NoError(t, err)

	assert.True(t, db.RemoveHandle(h))
	assert.False(t, db.RemoveHandle(h))
	assert.Equal(t, 0, db.Live())
	assert.Equal(t, 0, db.LocalizedLen())
}

func TestDatabase_NamesOrderAndLimit(t *testing.T) {
	db := NewDatabase()
	for _, n := range []string{"Sirius", "Alpha CMa", "Dog Star"} {
		_, err := db.Add(5, n)
		require.NoError(t, err)
	}
	_, err := db.AddLocalized(5, "Sirio", language.Spanish)
	require.NoError(t, err)

	assert.Equal(t, []string{"Sirius", "Alpha CMa", "Dog Star", "Sirio"}, db.Names(5, true, 0))
	assert.Equal(t, []string{"Sirius", "Alpha CMa"}, db.Names(5, true, 2))
	assert.Equal(t, []string{"Sirius", "Alpha CMa", "Dog Star"}, db.Names(5, false, 0))
}

func TestDatabase_PrimaryAndPreferred(t *testing.T) {
	db := NewDatabase()
	_, err := db.Add(5, "Sirius")
	require.NoError(t, err)
	_, err = db.AddLocalized(5, "Sirio", language.Spanish)
	require.NoError(t, err)
	_, err = db.AddLocalized(5, "Sirius (de)", language.German)
	require.NoError(t, err)

	name, ok := db.Primary(5, false)
	require.True(t, ok)
	assert.Equal(t, "Sirius", name)

	name, _ = db.Primary(5, true)
	assert.Equal(t, "Sirio", name)

	name, _ = db.Preferred(5, language.MustParse("de-AT"))
	assert.Equal(t, "Sirius (de)", name)

	name, _ = db.Preferred(5)
	assert.Equal(t, "Sirius", name)

	_, ok = db.Primary(99, false)
	assert.False(t, ok)
}

func TestDatabase_CloneIsIndependent(t *testing.T) {
	db := NewDatabase()
	_, err := db.Add(5, "Sirius")
	require.NoError(t, err)

	c := db.Clone()
	_, err = c.Add(6, "Vega")
	require.NoError(t, err)
	c.RemoveAll(5)

	assert.Equal(t, catalog.Index(5), db.Index("Sirius", false))
	assert.Equal(t, catalog.InvalidIndex, db.Index("Vega", false))
	assert.Equal(t, catalog.Index(6), c.Index("Vega", false))
}

func BenchmarkCompletion(b *testing.B) {
	db := NewDatabase()
	for i := 1; i <= 50_000; i++ {
		_, _ = db.Add(catalog.Index(i), fmt.Sprintf("Star %06d", i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n := 0
		for range db.Completion("star 01234", false) {
			n++
		}
		if n != 10 {
			b.Fatalf("got %d completions", n)
		}
	}
}
