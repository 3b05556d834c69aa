package astro

import (
	"math"
	"testing"
)

func TestBrightStars_KnownStars(t *testing.T) {
	knownStars := map[string]struct {
		hip            uint32
		minRA, maxRA   float64
		minDec, maxDec float64
		maxMag         float64
	}{
		"Sirius":   {32349, 100, 103, -18, -15, 0},
		"Vega":     {91262, 278, 281, 37, 40, 0.5},
		"Polaris":  {11767, 35, 40, 88, 90, 2.5},
		"Canopus":  {30438, 94, 98, -54, -51, 0},
		"Arcturus": {69673, 212, 215, 18, 21, 0.5},
	}

	starMap := make(map[string]Star)
	for _, s := range BrightStars() {
		starMap[s.Name()] = s
	}

	for name, expected := range knownStars {
		star, found := starMap[name]
		if !found {
			t.Errorf("Expected star %s not in catalog", name)
			continue
		}
		if star.HIP != expected.hip {
			t.Errorf("%s HIP=%d, want %d", name, star.HIP, expected.hip)
		}
		if star.RAdeg < expected.minRA || star.RAdeg > expected.maxRA {
			t.Errorf("%s RA=%v, expected %v-%v", name, star.RAdeg, expected.minRA, expected.maxRA)
		}
		if star.DecDeg < expected.minDec || star.DecDeg > expected.maxDec {
			t.Errorf("%s Dec=%v, expected %v-%v", name, star.DecDeg, expected.minDec, expected.maxDec)
		}
		if star.Mag > expected.maxMag {
			t.Errorf("%s Mag=%v, expected < %v", name, star.Mag, expected.maxMag)
		}
	}
}

func TestBrightStars_ValidData(t *testing.T) {
	for _, s := range BrightStars() {
		if s.Name() == "" {
			t.Errorf("star with HIP %d has no name", s.HIP)
		}
		if s.HIP == 0 || s.HIP > 999_999 {
			t.Errorf("%s HIP=%d out of range", s.Name(), s.HIP)
		}
		if s.RAdeg < 0 || s.RAdeg >= 360 {
			t.Errorf("%s RA=%v out of range", s.Name(), s.RAdeg)
		}
		if s.DecDeg < -90 || s.DecDeg > 90 {
			t.Errorf("%s Dec=%v out of range", s.Name(), s.DecDeg)
		}
		if s.DistLy <= 0 {
			t.Errorf("%s distance=%v", s.Name(), s.DistLy)
		}
	}
}

func TestBrightStars_NoDuplicateNumbers(t *testing.T) {
	seen := map[string]map[uint32]string{"HIP": {}, "HD": {}, "SAO": {}, "GJ": {}}
	check := func(cat string, n uint32, name string) {
		if n == 0 {
			return
		}
		if prev, ok := seen[cat][n]; ok {
			t.Errorf("%s %d used by %s and %s", cat, n, prev, name)
		}
		seen[cat][n] = name
	}
	for _, s := range BrightStars() {
		check("HIP", s.HIP, s.Name())
		check("HD", s.HD, s.Name())
		check("SAO", s.SAO, s.Name())
		check("GJ", s.Gliese, s.Name())
	}
}

func TestBrightStars_Copy(t *testing.T) {
	a := BrightStars()
	a[0].Mag = 99
	if BrightStars()[0].Mag == 99 {
		t.Error("BrightStars() returned shared slice")
	}
}

func TestStar_AbsMag(t *testing.T) {
	s := Star{DistLy: 10 * LightYearsPerParsec, Mag: 4.83}
	if got := s.AbsMag(); math.Abs(got-4.83) > 1e-9 {
		t.Errorf("AbsMag() = %v, want 4.83", got)
	}
}

func TestBrightDeepSky(t *testing.T) {
	dsos := BrightDeepSky()
	if len(dsos) == 0 {
		t.Fatal("BrightDeepSky() returned nothing")
	}
	messier := map[uint32]bool{}
	for _, d := range dsos {
		if d.DistLy <= 0 || len(d.Names) == 0 {
			t.Errorf("bad deep-sky entry %+v", d)
		}
		if d.Messier != 0 {
			if messier[d.Messier] {
				t.Errorf("M%d listed twice", d.Messier)
			}
			messier[d.Messier] = true
		}
	}
}
