package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-astrodb/internal/astro"
	"github.com/litescript/ls-astrodb/internal/astrodb"
	"github.com/litescript/ls-astrodb/internal/catalog"
)

// Styles for the browser
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Width(12)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
)

const defaultCompletionLimit = 20

// BrowseModel is a name search box over the database's completion index
// with a detail pane for the selected match.
type BrowseModel struct {
	width  int
	height int

	input    textinput.Model
	db       *astrodb.Database
	limit    int
	matches  []string
	selected int
}

// NewBrowseModel creates a browser listing at most limit matches.
func NewBrowseModel(limit int) BrowseModel {
	if limit <= 0 {
		limit = defaultCompletionLimit
	}
	ti := textinput.New()
	ti.Placeholder = "Sirius, HD 48915, M 31..."
	ti.Prompt = "search: "
	ti.CharLimit = 64
	ti.Focus()
	return BrowseModel{input: ti, limit: limit}
}

// Init starts the cursor blink.
func (m BrowseModel) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the layout.
func (m BrowseModel) SetSize(width, height int) BrowseModel {
	m.width = width
	m.height = height
	m.input.Width = max(10, width/2-len(m.input.Prompt))
	return m
}

// UpdateData swaps in a new database and reruns the current search.
func (m BrowseModel) UpdateData(db *astrodb.Database) BrowseModel {
	m.db = db
	return m.search()
}

// Value returns the search text.
func (m BrowseModel) Value() string { return m.input.Value() }

// Matches returns the current completions.
func (m BrowseModel) Matches() []string { return m.matches }

// Selected returns the index of the selected match, or InvalidIndex.
func (m BrowseModel) Selected() catalog.Index {
	if m.db == nil || m.selected >= len(m.matches) {
		return catalog.InvalidIndex
	}
	return m.db.NameToIndex(m.matches[m.selected], true, true)
}

// search refreshes matches. A search that is not a name prefix but resolves
// as a designation lists that object.
func (m BrowseModel) search() BrowseModel {
	m.matches = nil
	m.selected = 0
	if m.db == nil {
		return m
	}
	q := strings.TrimSpace(m.input.Value())
	if q == "" {
		return m
	}
	for name := range m.db.Completion(q, true) {
		if len(m.matches) >= m.limit {
			break
		}
		m.matches = append(m.matches, name)
	}
	if len(m.matches) == 0 {
		if idx := m.db.NameToIndex(q, true, true); idx.Valid() {
			m.matches = append(m.matches, m.db.ObjectName(idx, false))
		}
	}
	return m
}

// Update handles keys.
func (m BrowseModel) Update(msg tea.Msg) (BrowseModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.selected < len(m.matches)-1 {
				m.selected++
			}
			return m, nil
		case "enter":
			idx := m.Selected()
			if !idx.Valid() {
				return m, nil
			}
			return m, func() tea.Msg { return FocusMsg{Index: idx} }
		}
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m = m.search()
	}
	return m, cmd
}

// View renders the search box, the matches and the detail pane.
func (m BrowseModel) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	var list strings.Builder
	list.WriteString(titleStyle.Render("Matches"))
	list.WriteString("\n")
	if len(m.matches) == 0 {
		list.WriteString(dimStyle.Render("(none)"))
	}
	for i, name := range m.matches {
		if i == m.selected {
			list.WriteString(selectedRowStyle.Render("▶ " + name))
		} else {
			list.WriteString(rowStyle.Render("  " + name))
		}
		list.WriteString("\n")
	}

	detail := m.renderDetail()
	listWidth := max(24, m.width/3)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listWidth).Render(list.String()),
		detail,
	))
	return b.String()
}

func (m BrowseModel) renderDetail() string {
	idx := m.Selected()
	if !idx.Valid() {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(objectName(m.db, idx)))
	b.WriteString("\n")
	for _, f := range details(m.db, idx) {
		b.WriteString(labelStyle.Render(f[0]))
		b.WriteString(rowStyle.Render(f[1]))
		b.WriteString("\n")
	}
	return b.String()
}

// details lists what the database knows about idx.
func details(db *astrodb.Database, idx catalog.Index) [][2]string {
	out := [][2]string{
		{"Index", idx.String()},
		{"Designation", db.Designation(idx)},
	}
	var numbers []string
	for c := range db.Catalogs() {
		if num := db.IndexToCatalogNumber(c.ID, idx); num != catalog.InvalidNumber {
			numbers = append(numbers, c.Designation(num))
		}
	}
	if len(numbers) > 0 {
		out = append(out, [2]string{"Catalogs", strings.Join(numbers, ", ")})
	}
	if names := db.ObjectNameList(idx, 0); len(names) > 1 {
		out = append(out, [2]string{"Also", strings.Join(names[1:], ", ")})
	}

	var pos astro.Vec3
	var absMag float32
	switch o := db.Object(idx).(type) {
	case *astrodb.Star:
		out = append(out, [2]string{"Kind", strings.TrimSpace("star " + o.SpectralType)})
		pos, absMag = o.Position, o.AbsMag
	case *astrodb.DeepSkyObject:
		out = append(out, [2]string{"Kind", o.Type})
		pos, absMag = o.Position, o.AbsMag
	case *astrodb.Body:
		out = append(out, [2]string{"Kind", "body"}, [2]string{"Primary", db.ObjectName(o.Primary, false)})
		return out
	default:
		return out
	}
	c := astro.CartesianToEquatorial(astro.EclipticToEquatorial(pos))
	return append(out,
		[2]string{"RA / Dec", fmt.Sprintf("%.3f° / %+.3f°", c.RAdeg, c.DecDeg)},
		[2]string{"Distance", fmt.Sprintf("%.2f ly", c.DistLy)},
		[2]string{"Magnitude", fmt.Sprintf("%.2f (abs %.2f)", astro.AbsToAppMag(float64(absMag), c.DistLy), absMag)},
	)
}
