package astro

import (
	"math"
	"testing"
)

const obliquityDeg = 23.439291

func near(a, b Vec3, tol float64) bool {
	return a.Distance(b) <= tol
}

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 6, 3}

	if got := a.Add(b); got != (Vec3{5, 8, 6}) {
		t.Errorf("Add() = %v", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 4, 0}) {
		t.Errorf("Sub() = %v", got)
	}
	if got := a.Scale(-2); got != (Vec3{-2, -4, -6}) {
		t.Errorf("Scale() = %v", got)
	}
	if got := a.Dot(b); got != 25 {
		t.Errorf("Dot() = %v, want 25", got)
	}
	if got, back := a.Distance(b), b.Distance(a); got != 5 || back != 5 {
		t.Errorf("Distance() = %v / %v, want 5 both ways", got, back)
	}
}

func TestVec3NormAndNormalized(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		norm float64
		unit Vec3
	}{
		{"zero", Vec3{}, 0, Vec3{}},
		{"axis", Vec3{0, -7, 0}, 7, Vec3{0, -1, 0}},
		{"pythagorean", Vec3{2, 3, 6}, 7, Vec3{2.0 / 7, 3.0 / 7, 6.0 / 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Norm(); math.Abs(got-tt.norm) > 1e-12 {
				t.Errorf("Norm() = %v, want %v", got, tt.norm)
			}
			if got := tt.v.Normalized(); !near(got, tt.unit, 1e-12) {
				t.Errorf("Normalized() = %v, want %v", got, tt.unit)
			}
		})
	}
}

func TestEclipticFrame_Landmarks(t *testing.T) {
	tests := []struct {
		name    string
		raDeg   float64
		decDeg  float64
		wantEcl Vec3
		lon     float64
		lat     float64
	}{
		{"vernal equinox", 0, 0, Vec3{1, 0, 0}, 0, 0},
		{"summer solstice", 90, obliquityDeg, Vec3{0, 1, 0}, 90, 0},
		{"autumnal equinox", 180, 0, Vec3{-1, 0, 0}, 180, 0},
		{"north ecliptic pole", 270, 90 - obliquityDeg, Vec3{0, 0, 1}, 0, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Direction(tt.raDeg, tt.decDeg)
			if !near(got, tt.wantEcl, 1e-9) {
				t.Fatalf("Direction(%v, %v) = %v, want %v", tt.raDeg, tt.decDeg, got, tt.wantEcl)
			}
			if lat := EclipticLatitude(got); math.Abs(lat-tt.lat) > 1e-6 {
				t.Errorf("latitude = %.6f, want %v", lat, tt.lat)
			}
			if tt.lat == 90 {
				return
			}
			if lon := EclipticLongitude(got); math.Abs(lon-tt.lon) > 1e-6 {
				t.Errorf("longitude = %.6f, want %v", lon, tt.lon)
			}
		})
	}
}

func TestEclipticFrame_Roundtrip(t *testing.T) {
	for _, v := range []Vec3{{1, 2, 3}, {-8.6, 0.1, -2.4}, {0, 0, 1e10}} {
		back := EclipticToEquatorial(EquatorialToEcliptic(v))
		if !near(back, v, 1e-9*math.Max(1, v.Norm())) {
			t.Errorf("roundtrip %v -> %v", v, back)
		}
		if d := EquatorialToEcliptic(v).Norm() - v.Norm(); math.Abs(d) > 1e-9*math.Max(1, v.Norm()) {
			t.Errorf("rotation changed length of %v by %v", v, d)
		}
	}
}

func TestEclipticLongitude_Wraps(t *testing.T) {
	if lon := EclipticLongitude(Vec3{0, -1, 0}); math.Abs(lon-270) > 1e-9 {
		t.Errorf("longitude = %v, want 270", lon)
	}
	if lat := EclipticLatitude(Vec3{}); lat != 0 {
		t.Errorf("latitude of zero vector = %v, want 0", lat)
	}
}
