package astro

import (
	"math"
	"testing"
)

func TestEquatorialToCartesian(t *testing.T) {
	tests := []struct {
		name string
		c    SkyCoord
		want Vec3
	}{
		{"vernal equinox", SkyCoord{0, 0, 10}, Vec3{10, 0, 0}},
		{"ra 90", SkyCoord{90, 0, 2}, Vec3{0, 2, 0}},
		{"north pole", SkyCoord{123, 90, 5}, Vec3{0, 0, 5}},
		{"south pole", SkyCoord{0, -90, 1}, Vec3{0, 0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EquatorialToCartesian(tt.c)
			if got.Distance(tt.want) > 1e-9 {
				t.Errorf("EquatorialToCartesian(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestCartesianToEquatorial_Roundtrip(t *testing.T) {
	coords := []SkyCoord{
		{101.287, -16.716, 8.6},
		{279.235, 38.784, 25},
		{37.955, 89.264, 433},
		{350, -60, 1000},
	}

	for _, c := range coords {
		got := CartesianToEquatorial(EquatorialToCartesian(c))
		if math.Abs(got.RAdeg-c.RAdeg) > 1e-9 ||
			math.Abs(got.DecDeg-c.DecDeg) > 1e-9 ||
			math.Abs(got.DistLy-c.DistLy) > 1e-9 {
			t.Errorf("Roundtrip failed: %v -> %v", c, got)
		}
	}

	if got := CartesianToEquatorial(Vec3{}); got != (SkyCoord{}) {
		t.Errorf("CartesianToEquatorial(origin) = %v, want zero", got)
	}
}

func TestCatalogPosition_PreservesDistance(t *testing.T) {
	c := SkyCoord{RAdeg: 213.915, DecDeg: 19.182, DistLy: 36.7}
	p := CatalogPosition(c)
	if math.Abs(p.Norm()-c.DistLy) > 1e-9 {
		t.Errorf("|CatalogPosition| = %v, want %v", p.Norm(), c.DistLy)
	}

	// The north ecliptic pole sits at RA 270, Dec 66.56.
	nep := Direction(270, 90-23.439291)
	if math.Abs(nep.Z-1) > 1e-6 {
		t.Errorf("Direction(NEP) = %v, want +Z", nep)
	}
}

func TestAngularSeparation(t *testing.T) {
	tests := []struct {
		name      string
		ra1, dec1 float64
		ra2, dec2 float64
		wantSep   float64
		tol       float64
	}{
		{
			name: "Same point",
			ra1:  100, dec1: 30,
			ra2: 100, dec2: 30,
			wantSep: 0,
			tol:     0.001,
		},
		{
			name: "90 degrees apart on equator",
			ra1:  0, dec1: 0,
			ra2: 90, dec2: 0,
			wantSep: 90,
			tol:     0.001,
		},
		{
			name: "Pole to pole",
			ra1:  0, dec1: 90,
			ra2: 0, dec2: -90,
			wantSep: 180,
			tol:     0.001,
		},
		{
			name: "Small separation",
			ra1:  100, dec1: 30,
			ra2: 101, dec2: 30,
			wantSep: 0.866, // cos(30°)
			tol:     0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularSeparation(tt.ra1, tt.dec1, tt.ra2, tt.dec2)
			if math.Abs(got-tt.wantSep) > tt.tol {
				t.Errorf("AngularSeparation() = %.4f°, want %.4f° (±%.4f)",
					got, tt.wantSep, tt.tol)
			}
		})
	}
}

func TestAngularSeparation_MatchesDirectionDot(t *testing.T) {
	a := Direction(101.287, -16.716)
	b := Direction(114.826, 5.225)
	fromDot := radToDeg(math.Acos(a.Dot(b)))
	got := AngularSeparation(101.287, -16.716, 114.826, 5.225)
	if math.Abs(got-fromDot) > 1e-6 {
		t.Errorf("AngularSeparation() = %v, dot product gives %v", got, fromDot)
	}
}

func TestDegToRad(t *testing.T) {
	tests := []struct {
		deg  float64
		want float64
	}{
		{0, 0},
		{90, math.Pi / 2},
		{180, math.Pi},
		{-90, -math.Pi / 2},
	}

	for _, tt := range tests {
		if got := DegToRad(tt.deg); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("DegToRad(%v) = %v, want %v", tt.deg, got, tt.want)
		}
		if got := radToDeg(tt.want); math.Abs(got-tt.deg) > 1e-9 {
			t.Errorf("radToDeg(%v) = %v, want %v", tt.want, got, tt.deg)
		}
	}
}
