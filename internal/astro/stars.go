package astro

// Star is a cataloged star with its catalog numbers, position and brightness.
// A zero catalog number means the star has no entry in that catalog.
type Star struct {
	Names  []string // Common names, first is primary
	HIP    uint32
	HD     uint32
	SAO    uint32
	Gliese uint32
	RAdeg  float64 // Right Ascension in degrees (J2000)
	DecDeg float64 // Declination in degrees (J2000)
	DistLy float64 // Distance in light years
	Mag    float64 // Apparent visual magnitude (lower = brighter)

	// Localized maps a BCP 47 tag to a name.
	Localized map[string]string
}

// Name returns the primary name.
func (s Star) Name() string {
	if len(s.Names) == 0 {
		return ""
	}
	return s.Names[0]
}

// Coord returns the star's sky position.
func (s Star) Coord() SkyCoord {
	return SkyCoord{RAdeg: s.RAdeg, DecDeg: s.DecDeg, DistLy: s.DistLy}
}

// AbsMag returns the absolute magnitude.
func (s Star) AbsMag() float64 {
	return AppToAbsMag(s.Mag, s.DistLy)
}

// BrightStars returns bright and nearby stars with their HIP, HD, SAO and
// Gliese numbers. Coordinates are J2000 epoch. The slice is a fresh copy.
func BrightStars() []Star {
	out := make([]Star, len(brightStars))
	copy(out, brightStars)
	return out
}

var brightStars = []Star{
	// Magnitude < 0.5
	{Names: []string{"Sirius", "Alpha Canis Majoris", "Dog Star"}, HIP: 32349, HD: 48915, SAO: 151881, Gliese: 244,
		RAdeg: 101.287, DecDeg: -16.716, DistLy: 8.6, Mag: -1.46,
		Localized: map[string]string{"es": "Sirio", "de": "Sirius (Hundsstern)", "fr": "Sirius (Canicule)"}},
	{Names: []string{"Canopus", "Alpha Carinae"}, HIP: 30438, HD: 45348, SAO: 234480,
		RAdeg: 95.988, DecDeg: -52.696, DistLy: 310, Mag: -0.74,
		Localized: map[string]string{"es": "Canope"}},
	{Names: []string{"Rigil Kentaurus", "Alpha Centauri A"}, HIP: 71683, HD: 128620, SAO: 252838, Gliese: 559,
		RAdeg: 219.902, DecDeg: -60.834, DistLy: 4.37, Mag: -0.01},
	{Names: []string{"Arcturus", "Alpha Bootis"}, HIP: 69673, HD: 124897, SAO: 100944, Gliese: 541,
		RAdeg: 213.915, DecDeg: 19.182, DistLy: 36.7, Mag: -0.05,
		Localized: map[string]string{"es": "Arturo"}},
	{Names: []string{"Vega", "Alpha Lyrae"}, HIP: 91262, HD: 172167, SAO: 67174, Gliese: 721,
		RAdeg: 279.235, DecDeg: 38.784, DistLy: 25.0, Mag: 0.03},
	{Names: []string{"Capella", "Alpha Aurigae"}, HIP: 24608, HD: 34029, SAO: 40186, Gliese: 194,
		RAdeg: 79.172, DecDeg: 45.998, DistLy: 42.9, Mag: 0.08},
	{Names: []string{"Rigel", "Beta Orionis"}, HIP: 24436, HD: 34085, SAO: 131907,
		RAdeg: 78.634, DecDeg: -8.202, DistLy: 860, Mag: 0.13},
	{Names: []string{"Procyon", "Alpha Canis Minoris"}, HIP: 37279, HD: 61421, SAO: 115756, Gliese: 280,
		RAdeg: 114.826, DecDeg: 5.225, DistLy: 11.46, Mag: 0.34,
		Localized: map[string]string{"es": "Proción"}},
	{Names: []string{"Achernar", "Alpha Eridani"}, HIP: 7588, HD: 10144, SAO: 232481,
		RAdeg: 24.429, DecDeg: -57.237, DistLy: 139, Mag: 0.46},

	// Magnitude 0.5-1.5
	{Names: []string{"Betelgeuse", "Alpha Orionis"}, HIP: 27989, HD: 39801, SAO: 113271,
		RAdeg: 88.793, DecDeg: 7.407, DistLy: 548, Mag: 0.50,
		Localized: map[string]string{"es": "Betelgeuse", "de": "Beteigeuze"}},
	{Names: []string{"Altair", "Alpha Aquilae"}, HIP: 97649, HD: 187642, SAO: 125122, Gliese: 768,
		RAdeg: 297.696, DecDeg: 8.868, DistLy: 16.7, Mag: 0.76},
	{Names: []string{"Aldebaran", "Alpha Tauri"}, HIP: 21421, HD: 29139, SAO: 94027,
		RAdeg: 68.980, DecDeg: 16.509, DistLy: 65.3, Mag: 0.86},
	{Names: []string{"Antares", "Alpha Scorpii"}, HIP: 80763, HD: 148478, SAO: 184415,
		RAdeg: 247.352, DecDeg: -26.432, DistLy: 550, Mag: 0.96},
	{Names: []string{"Spica", "Alpha Virginis"}, HIP: 65474, HD: 116658, SAO: 157923,
		RAdeg: 201.298, DecDeg: -11.161, DistLy: 250, Mag: 0.97,
		Localized: map[string]string{"fr": "L'Épi"}},
	{Names: []string{"Pollux", "Beta Geminorum"}, HIP: 37826, HD: 62509, SAO: 79666, Gliese: 286,
		RAdeg: 116.329, DecDeg: 28.026, DistLy: 33.8, Mag: 1.14},
	{Names: []string{"Fomalhaut", "Alpha Piscis Austrini"}, HIP: 113368, HD: 216956, SAO: 191524, Gliese: 881,
		RAdeg: 344.413, DecDeg: -29.622, DistLy: 25.1, Mag: 1.16},
	{Names: []string{"Deneb", "Alpha Cygni"}, HIP: 102098, HD: 197345, SAO: 49941,
		RAdeg: 310.358, DecDeg: 45.280, DistLy: 2615, Mag: 1.25},
	{Names: []string{"Regulus", "Alpha Leonis"}, HIP: 49669, HD: 87901, SAO: 98967,
		RAdeg: 152.093, DecDeg: 11.967, DistLy: 79.3, Mag: 1.35},

	// Magnitude 1.5-4
	{Names: []string{"Castor", "Alpha Geminorum"}, HIP: 36850, HD: 60179, SAO: 60198, Gliese: 278,
		RAdeg: 113.650, DecDeg: 31.888, DistLy: 51, Mag: 1.58},
	{Names: []string{"Polaris", "Alpha Ursae Minoris", "North Star"}, HIP: 11767, HD: 8890, SAO: 308,
		RAdeg: 37.955, DecDeg: 89.264, DistLy: 433, Mag: 1.98,
		Localized: map[string]string{"de": "Polarstern", "es": "Estrella Polar"}},
	{Names: []string{"Tau Ceti"}, HIP: 8102, HD: 10700, SAO: 147986, Gliese: 71,
		RAdeg: 26.017, DecDeg: -15.937, DistLy: 11.9, Mag: 3.50},
	{Names: []string{"Epsilon Eridani"}, HIP: 16537, HD: 22049, SAO: 130564, Gliese: 144,
		RAdeg: 53.233, DecDeg: -9.458, DistLy: 10.5, Mag: 3.73},

	// Faint nearby stars
	{Names: []string{"61 Cygni A"}, HIP: 104214, HD: 201091, SAO: 70919, Gliese: 820,
		RAdeg: 316.725, DecDeg: 38.750, DistLy: 11.4, Mag: 5.21},
	{Names: []string{"Barnard's Star"}, HIP: 87937, Gliese: 699,
		RAdeg: 269.452, DecDeg: 4.693, DistLy: 5.96, Mag: 9.51},
	{Names: []string{"Proxima Centauri", "Alpha Centauri C"}, HIP: 70890, Gliese: 551,
		RAdeg: 217.429, DecDeg: -62.680, DistLy: 4.24, Mag: 11.13},
}
