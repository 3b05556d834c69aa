package astro

// DeepSky is a cataloged deep-sky object with its Messier and NGC numbers.
type DeepSky struct {
	Names   []string
	Type    string // galaxy, nebula, open cluster, globular cluster
	Messier uint32
	NGC     uint32
	RAdeg   float64
	DecDeg  float64
	DistLy  float64
	Mag     float64 // Integrated apparent magnitude

	Localized map[string]string
}

// Coord returns the object's sky position.
func (d DeepSky) Coord() SkyCoord {
	return SkyCoord{RAdeg: d.RAdeg, DecDeg: d.DecDeg, DistLy: d.DistLy}
}

// AbsMag returns the absolute magnitude.
func (d DeepSky) AbsMag() float64 {
	return AppToAbsMag(d.Mag, d.DistLy)
}

// BrightDeepSky returns a handful of bright deep-sky objects. The slice is a
// fresh copy.
func BrightDeepSky() []DeepSky {
	out := make([]DeepSky, len(brightDeepSky))
	copy(out, brightDeepSky)
	return out
}

var brightDeepSky = []DeepSky{
	{Names: []string{"Andromeda Galaxy"}, Type: "galaxy", Messier: 31, NGC: 224,
		RAdeg: 10.685, DecDeg: 41.269, DistLy: 2.537e6, Mag: 3.44,
		Localized: map[string]string{"es": "Galaxia de Andrómeda", "de": "Andromedagalaxie"}},
	{Names: []string{"Large Magellanic Cloud", "LMC"}, Type: "galaxy",
		RAdeg: 80.894, DecDeg: -69.756, DistLy: 158_200, Mag: 0.9},
	{Names: []string{"Triangulum Galaxy"}, Type: "galaxy", Messier: 33, NGC: 598,
		RAdeg: 23.462, DecDeg: 30.660, DistLy: 2.73e6, Mag: 5.72},
	{Names: []string{"Whirlpool Galaxy"}, Type: "galaxy", Messier: 51, NGC: 5194,
		RAdeg: 202.470, DecDeg: 47.195, DistLy: 23e6, Mag: 8.4},
	{Names: []string{"Orion Nebula"}, Type: "nebula", Messier: 42, NGC: 1976,
		RAdeg: 83.822, DecDeg: -5.391, DistLy: 1344, Mag: 4.0,
		Localized: map[string]string{"es": "Nebulosa de Orión"}},
	{Names: []string{"Crab Nebula"}, Type: "nebula", Messier: 1, NGC: 1952,
		RAdeg: 83.633, DecDeg: 22.015, DistLy: 6500, Mag: 8.4},
	{Names: []string{"Pleiades", "Seven Sisters"}, Type: "open cluster", Messier: 45,
		RAdeg: 56.75, DecDeg: 24.117, DistLy: 444, Mag: 1.6,
		Localized: map[string]string{"ja": "すばる"}},
	{Names: []string{"Hercules Cluster"}, Type: "globular cluster", Messier: 13, NGC: 6205,
		RAdeg: 250.423, DecDeg: 36.461, DistLy: 22_200, Mag: 5.8},
}
