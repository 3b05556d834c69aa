package ui

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-astrodb/internal/astro"
	"github.com/litescript/ls-astrodb/internal/astrodb"
	"github.com/litescript/ls-astrodb/internal/catalog"
	"github.com/litescript/ls-astrodb/internal/octree"
)

const (
	// Field of view in degrees, horizontal. The vertical extent follows the
	// canvas aspect ratio.
	defaultFov = 90.0
	minFov     = 5.0
	maxFov     = 180.0

	defaultLimitMag = 5.0
	panStep         = 5.0

	// Animation
	animDuration  = 400 * time.Millisecond
	animFrameRate = 30 * time.Millisecond

	// Star glyphs by magnitude
	glyphStarBright  = '✶' // mag < 1.5
	glyphStarMedium  = '✸' // mag 1.5-3.0
	glyphStarDim     = '·' // mag 3.0-4.0
	glyphStarVeryDim = '·' // mag > 4.0
	glyphFocused     = '◆'

	colorStarBright  = "255"
	colorStarMedium  = "250"
	colorStarDim     = "244"
	colorStarVeryDim = "240"
	colorFocused     = "229"
	colorLabel       = "#d0c8ff"

	// Labels are drawn for at most this many of the brightest stars.
	maxLabels = 12
)

type (
	// AnimTickMsg advances the camera animation.
	AnimTickMsg time.Time
)

// skyStar is a star projected from the octree query.
type skyStar struct {
	index  catalog.Index
	name   string
	raDeg  float64
	decDeg float64
	mag    float64
}

// SkyViewModel renders a star chart around a camera direction, filled from
// the star octree by a cone and magnitude query.
type SkyViewModel struct {
	width  int
	height int

	// Camera position (center of view)
	camRA  float64
	camDec float64

	// Animation state
	animating    bool
	animStartRA  float64
	animStartDec float64
	animTargRA   float64
	animTargDec  float64
	animStart    time.Time

	fov      float64
	limitMag float64
	labels   bool

	db    *astrodb.Database
	focus catalog.Index
	stars []skyStar
}

// NewSkyViewModel creates a sky view pointing at RA 0, Dec 0.
func NewSkyViewModel() SkyViewModel {
	return SkyViewModel{
		fov:      defaultFov,
		limitMag: defaultLimitMag,
		labels:   true,
	}
}

// SetSize updates the canvas size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m.query()
}

// UpdateData swaps in a new database.
func (m SkyViewModel) UpdateData(db *astrodb.Database) SkyViewModel {
	m.db = db
	return m.query()
}

// Focus animates the camera toward idx.
func (m SkyViewModel) Focus(idx catalog.Index) (SkyViewModel, tea.Cmd) {
	if m.db == nil {
		return m, nil
	}
	var pos astro.Vec3
	switch o := m.db.Object(idx).(type) {
	case *astrodb.Star:
		pos = o.Position
	case *astrodb.DeepSkyObject:
		pos = o.Position
	default:
		return m, nil
	}
	c := astro.CartesianToEquatorial(astro.EclipticToEquatorial(pos))
	m.focus = idx
	return m.startAnimation(c.RAdeg, c.DecDeg)
}

// Camera returns the current view center.
func (m SkyViewModel) Camera() (raDeg, decDeg float64) { return m.camRA, m.camDec }

// vertical returns the vertical field of view in degrees. Terminal cells are
// about twice as tall as wide.
func (m SkyViewModel) vertical() float64 {
	if m.width == 0 {
		return m.fov / 2
	}
	return min(180, m.fov*float64(m.height)*2/float64(m.width))
}

// query reloads the stars around the camera target.
func (m SkyViewModel) query() SkyViewModel {
	m.stars = nil
	if m.db == nil {
		return m
	}
	ra, dec := m.camRA, m.camDec
	if m.animating {
		ra, dec = m.animTargRA, m.animTargDec
	}
	half := math.Hypot(m.fov/2, m.vertical()/2)
	q := octree.Query{LimitingMag: m.limitMag}
	if half < 180 {
		q.Cone = octree.NewCone(astro.Direction(ra, dec), astro.DegToRad(half))
	}
	for h := range m.db.StarOctree().Visible(q) {
		c := astro.CartesianToEquatorial(astro.EclipticToEquatorial(h.Pos))
		m.stars = append(m.stars, skyStar{
			index:  h.Index,
			name:   m.db.ObjectName(h.Index, false),
			raDeg:  c.RAdeg,
			decDeg: c.DecDeg,
			mag:    h.AppMag,
		})
	}
	// Brightest first so labels go to the brightest stars.
	slices.SortFunc(m.stars, func(a, b skyStar) int {
		switch {
		case a.mag < b.mag:
			return -1
		case a.mag > b.mag:
			return 1
		}
		return int(a.index) - int(b.index)
	})
	return m
}

func animTick() tea.Cmd {
	return tea.Tick(animFrameRate, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// Update handles keys and animation frames.
func (m SkyViewModel) Update(msg tea.Msg) (SkyViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			return m.startAnimation(m.camRA+panStep*m.fov/defaultFov, m.camDec)
		case "right":
			return m.startAnimation(m.camRA-panStep*m.fov/defaultFov, m.camDec)
		case "up", "k":
			return m.startAnimation(m.camRA, min(90, m.camDec+panStep*m.fov/defaultFov))
		case "down", "j":
			return m.startAnimation(m.camRA, max(-90, m.camDec-panStep*m.fov/defaultFov))
		case "+", "=":
			m.fov = max(minFov, m.fov/1.5)
			return m.query(), nil
		case "-":
			m.fov = min(maxFov, m.fov*1.5)
			return m.query(), nil
		case "]":
			m.limitMag += 0.5
			return m.query(), nil
		case "[":
			m.limitMag -= 0.5
			return m.query(), nil
		case "l":
			m.labels = !m.labels
		}
	case AnimTickMsg:
		return m.updateAnimation()
	}
	return m, nil
}

func (m SkyViewModel) startAnimation(ra, dec float64) (SkyViewModel, tea.Cmd) {
	m.animating = true
	m.animStartRA = m.camRA
	m.animStartDec = m.camDec
	m.animTargRA = math.Mod(ra+360, 360)
	m.animTargDec = dec
	m.animStart = time.Now()
	return m.query(), animTick()
}

func (m SkyViewModel) updateAnimation() (SkyViewModel, tea.Cmd) {
	if !m.animating {
		return m, nil
	}
	t := float64(time.Since(m.animStart)) / float64(animDuration)
	if t >= 1 {
		m.camRA = m.animTargRA
		m.camDec = m.animTargDec
		m.animating = false
		return m, nil
	}
	// Ease out
	t = 1 - (1-t)*(1-t)
	m.camRA = math.Mod(lerpAngle(m.animStartRA, m.animTargRA, t)+360, 360)
	m.camDec = lerp(m.animStartDec, m.animTargDec, t)
	return m, animTick()
}

// View renders the chart.
func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Sky view requires larger terminal"
	}
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSkyCanvas(m.width, m.height-2))
	return b.String()
}

func (m SkyViewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	header := titleStyle.Render("Sky View") + muted.Render(fmt.Sprintf(
		"  RA %.1f° Dec %+.1f°  fov %.0f°  mag ≤ %.1f  %d stars",
		m.camRA, m.camDec, m.fov, m.limitMag, len(m.stars)))
	if m.focus.Valid() && m.db != nil {
		header += "  " + lipgloss.NewStyle().Foreground(lipgloss.Color(colorFocused)).Render("◆ "+objectName(m.db, m.focus))
	}
	return header
}

type labelPos struct {
	x, y int
	name string
}

func (m SkyViewModel) renderSkyCanvas(width, height int) string {
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := range height {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := range width {
			canvas[y][x] = ' '
			colors[y][x] = "236"
		}
	}

	var labels []labelPos
	for _, s := range m.stars {
		x, y, ok := m.projectToScreen(s.raDeg, s.decDeg, width, height)
		if !ok {
			continue
		}
		glyph, color := m.starGlyph(s.mag)
		if s.index == m.focus {
			glyph, color = glyphFocused, colorFocused
		}
		canvas[y][x] = glyph
		colors[y][x] = color
		if m.labels && len(labels) < maxLabels {
			labels = append(labels, labelPos{x: x, y: y, name: s.name})
		}
	}
	m.renderLabels(canvas, colors, width, labels)

	var b strings.Builder
	for y := range height {
		for x := range width {
			style := lipgloss.NewStyle().Foreground(colors[y][x])
			b.WriteString(style.Render(string(canvas[y][x])))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderLabels writes names to the right of their glyphs, skipping any that
// would overwrite a drawn cell.
func (m SkyViewModel) renderLabels(canvas [][]rune, colors [][]lipgloss.Color, width int, labels []labelPos) {
	for _, l := range labels {
		runes := []rune(l.name)
		start := l.x + 2
		if start+len(runes) > width {
			continue
		}
		free := true
		for i := range runes {
			if canvas[l.y][start+i] != ' ' {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		for i, r := range runes {
			canvas[l.y][start+i] = r
			colors[l.y][start+i] = colorLabel
		}
	}
}

func (m SkyViewModel) starGlyph(mag float64) (rune, lipgloss.Color) {
	switch {
	case mag < 1.5:
		return glyphStarBright, colorStarBright
	case mag < 3.0:
		return glyphStarMedium, colorStarMedium
	case mag < 4.0:
		return glyphStarDim, colorStarDim
	default:
		return glyphStarVeryDim, colorStarVeryDim
	}
}

// projectToScreen maps RA/Dec to a canvas cell with an equirectangular
// projection around the camera. East is to the left, as on a sky chart.
func (m SkyViewModel) projectToScreen(ra, dec float64, width, height int) (int, int, bool) {
	vfov := m.vertical()
	dRA := normalizeAngle(ra-m.camRA) * math.Cos(astro.DegToRad(dec))
	dDec := dec - m.camDec
	if dRA < -m.fov/2 || dRA > m.fov/2 || dDec < -vfov/2 || dDec > vfov/2 {
		return 0, 0, false
	}
	x := int((m.fov/2 - dRA) / m.fov * float64(width))
	y := int((vfov/2 - dDec) / vfov * float64(height))
	if x < 0 || x >= width || y < 0 || y >= height {
		return 0, 0, false
	}
	return x, y, true
}

// normalizeAngle wraps angle to -180..+180 range
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}

// lerpAngle interpolates between angles, taking shortest path
func lerpAngle(a, b, t float64) float64 {
	diff := normalizeAngle(b - a)
	return a + diff*t
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
