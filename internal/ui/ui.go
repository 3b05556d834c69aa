// Package ui provides the terminal catalog browser using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-astrodb/internal/astrodb"
	"github.com/litescript/ls-astrodb/internal/catalog"
	"github.com/litescript/ls-astrodb/internal/state"
	"github.com/litescript/ls-astrodb/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewBrowse ViewMode = iota
	ViewSky
)

// Msg types for Bubble Tea
type (
	// TickMsg polls the state manager for a reloaded database.
	TickMsg time.Time

	// FocusMsg asks the sky view to center on an object.
	FocusMsg struct {
		Index catalog.Index
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	state *state.Manager

	viewMode ViewMode
	width    int
	height   int
	ready    bool

	browse BrowseModel
	sky    SkyViewModel

	snapshot state.Snapshot
}

// New creates a root model reading the database from stateMgr.
func New(stateMgr *state.Manager, completionLimit int) Model {
	m := Model{
		state:    stateMgr,
		viewMode: ViewBrowse,
		browse:   NewBrowseModel(completionLimit),
		sky:      NewSkyViewModel(),
		snapshot: stateMgr.Snapshot(),
	}
	m.browse = m.browse.UpdateData(m.snapshot.DB)
	m.sky = m.sky.UpdateData(m.snapshot.DB)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.browse.Init())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.viewMode = (m.viewMode + 1) % 2
		case "q":
			// q is text in the search box.
			if m.viewMode != ViewBrowse {
				return m, tea.Quit
			}
			cmds = append(cmds, m.updateActiveView(msg))
		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		contentHeight := msg.Height - 4
		m.browse = m.browse.SetSize(msg.Width, contentHeight)
		m.sky = m.sky.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		if m.state.Generation() != m.snapshot.Generation {
			m.snapshot = m.state.Snapshot()
			m.browse = m.browse.UpdateData(m.snapshot.DB)
			m.sky = m.sky.UpdateData(m.snapshot.DB)
		}

	case FocusMsg:
		var cmd tea.Cmd
		m.sky, cmd = m.sky.Focus(msg.Index)
		m.viewMode = ViewSky
		cmds = append(cmds, cmd)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewBrowse:
		m.browse, cmd = m.browse.Update(msg)
	case ViewSky:
		m.sky, cmd = m.sky.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewBrowse:
		content = m.browse.View()
	case ViewSky:
		content = m.sky.View()
	}
	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9D4EDD")).Render("ls-astrodb")
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	return "  " + title + muted.Render(fmt.Sprintf(" v%s", version.Version)) + "  " + m.renderTabs()
}

func (m Model) renderTabs() string {
	tabs := []string{"Browse", "Sky"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("reload failed: " + m.snapshot.LastError.Error())
	case m.snapshot.DB != nil:
		status = dimStyle.Render(fmt.Sprintf("%d objects · generation %d", m.snapshot.DB.Len(), m.snapshot.Generation))
	default:
		status = dimStyle.Render("no database loaded")
	}

	var help string
	switch m.viewMode {
	case ViewSky:
		help = "arrows: pan | +/-: zoom | [/]: limit | l: labels | tab: browse | q: quit"
	default:
		help = "type to search | ↑↓: select | enter: show in sky | tab: sky | esc: quit"
	}
	return "  " + status + "  " + dimStyle.Render("|") + "  " + dimStyle.Render(help)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Run starts the browser on the current terminal.
func Run(stateMgr *state.Manager, completionLimit int) error {
	p := tea.NewProgram(New(stateMgr, completionLimit), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// objectName returns the display name of idx.
func objectName(db *astrodb.Database, idx catalog.Index) string {
	if db == nil {
		return idx.String()
	}
	return db.ObjectName(idx, false)
}
