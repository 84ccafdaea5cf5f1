// Package tui is a terminal browser for alert graphs.
//
// The browser drives a service.Session exactly like the web client does:
// it loads alerts, toggles transparent elements and forwards clicks on the
// element under the cursor. Nodes are listed by rank and layer so the
// layout reads left to right, top to bottom.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"alertgraph/internal/domain"
	"alertgraph/internal/interaction"
	"alertgraph/internal/render"
	"alertgraph/internal/service"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2B7CE9")).
			MarginLeft(2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#2B7CE9")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#D2E5FF"))

	dimmedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	relatedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2B7CE9")).
			Padding(0, 1).
			MarginLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginLeft(2)
)

type pane int

const (
	nodesPane pane = iota
	edgesPane
)

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Tab         key.Binding
	Select      key.Binding
	Close       key.Binding
	Transparent key.Binding
	Next        key.Binding
	Prev        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Tab:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "nodes/edges")),
	Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Transparent: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "transparent")),
	Next:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next alert")),
	Prev:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev alert")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Tab, k.Select, k.Close, k.Transparent, k.Next, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Tab},
		{k.Select, k.Close, k.Transparent},
		{k.Next, k.Prev, k.Quit},
	}
}

// loadedMsg reports a finished session load
type loadedMsg struct {
	alertID string
	err     error
}

// Model is the bubbletea model of the browser
type Model struct {
	session     *service.Session
	alertIDs    []string
	current     int
	loadTimeout time.Duration

	pane    pane
	cursor  int
	snap    service.Snapshot
	message string
	help    help.Model
	keys    keyMap
	width   int
}

// New creates a browser over alertIDs. With no ids the session is browsed
// as it is, which suits a network that was installed up front.
func New(session *service.Session, alertIDs []string, loadTimeout time.Duration) Model {
	if loadTimeout <= 0 {
		loadTimeout = 30 * time.Second
	}
	return Model{
		session:     session,
		alertIDs:    alertIDs,
		loadTimeout: loadTimeout,
		snap:        session.Snapshot(),
		help:        help.New(),
		keys:        keys,
	}
}

// Init loads the first alert
func (m Model) Init() tea.Cmd {
	if len(m.alertIDs) == 0 {
		return nil
	}
	return m.load(m.alertIDs[m.current])
}

func (m Model) load(alertID string) tea.Cmd {
	session, timeout := m.session, m.loadTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return loadedMsg{alertID: alertID, err: session.Load(ctx, alertID)}
	}
}

// Update handles key presses and load completions
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case loadedMsg:
		m.snap = m.session.Snapshot()
		m.cursor = 0
		// A superseded load has nothing to report
		if msg.alertID != m.snap.AlertID {
			return m, nil
		}
		m.message = ""
		if msg.err != nil {
			m.message = msg.err.Error()
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows())-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Tab):
			m.pane = (m.pane + 1) % 2
			m.cursor = 0

		case key.Matches(msg, m.keys.Select):
			ids := m.rows()
			if m.cursor < len(ids) {
				var event interaction.Event = interaction.NodeClick{IDs: []string{ids[m.cursor]}}
				if m.pane == edgesPane {
					event = interaction.EdgeClick{IDs: []string{ids[m.cursor]}}
				}
				m.snap = m.session.Dispatch(event)
			}

		case key.Matches(msg, m.keys.Close):
			m.snap = m.session.Dispatch(interaction.Close{})

		case key.Matches(msg, m.keys.Transparent):
			m.snap = m.session.SetShowTransparent(!m.snap.ShowTransparent)
			m.clampCursor()

		case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev):
			if len(m.alertIDs) < 2 {
				return m, nil
			}
			step := 1
			if key.Matches(msg, m.keys.Prev) {
				step = len(m.alertIDs) - 1
			}
			m.current = (m.current + step) % len(m.alertIDs)
			m.message = "loading " + m.alertIDs[m.current]
			return m, m.load(m.alertIDs[m.current])
		}
	}
	return m, nil
}

func (m *Model) clampCursor() {
	if n := len(m.rows()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// rows lists the ids of the active pane in display order
func (m Model) rows() []string {
	if m.snap.Graph == nil {
		return nil
	}
	if m.pane == edgesPane {
		ids := make([]string, len(m.snap.Graph.Edges))
		for i, e := range m.snap.Graph.Edges {
			ids[i] = e.ID
		}
		return ids
	}

	nodes := append(m.snap.Graph.Nodes[:0:0], m.snap.Graph.Nodes...)
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].X != nodes[j].X {
			return nodes[i].X < nodes[j].X
		}
		return nodes[i].Y < nodes[j].Y
	})
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// View renders the browser
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(m.title()))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.pane == edgesPane {
		s.WriteString(m.renderEdges())
	} else {
		s.WriteString(m.renderNodes())
	}

	if popup := m.renderPopup(); popup != "" {
		s.WriteString("\n")
		s.WriteString(popup)
	}

	for _, e := range []string{m.snap.AlertError, m.snap.NetworkError, m.message} {
		if e != "" {
			s.WriteString("\n  ")
			s.WriteString(errorStyle.Render("✗ " + e))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

func (m Model) title() string {
	if m.snap.AlertID == "" {
		return "alertgraph"
	}
	title := "alertgraph · alert " + m.snap.AlertID
	if a := m.snap.Alert; a != nil {
		title += fmt.Sprintf(" · %s [%s] on %s", a.Name, a.Severity, a.Machine)
	}
	if m.snap.AlertLoading || m.snap.NetworkLoading {
		title += " · loading"
	}
	return title
}

func (m Model) renderTabs() string {
	var nodes, edges int
	if m.snap.Graph != nil {
		nodes, edges = len(m.snap.Graph.Nodes), len(m.snap.Graph.Edges)
	}
	tabs := []string{fmt.Sprintf("Nodes (%d)", nodes), fmt.Sprintf("Edges (%d)", edges)}

	rendered := make([]string, len(tabs))
	for i, t := range tabs {
		if pane(i) == m.pane {
			rendered[i] = activeTabStyle.Render(t)
		} else {
			rendered[i] = inactiveTabStyle.Render(t)
		}
	}

	toggle := "transparent hidden"
	if m.snap.ShowTransparent {
		toggle = "transparent shown"
	} else if !m.snap.HasHidden {
		toggle = "nothing hidden"
	}
	return "  " + lipgloss.JoinHorizontal(lipgloss.Top, rendered...) + "  " + dimmedStyle.Render(toggle)
}

func (m Model) renderNodes() string {
	if m.snap.Graph == nil || len(m.snap.Graph.Nodes) == 0 {
		return "  no nodes"
	}
	byID := make(map[string]int, len(m.snap.Graph.Nodes))
	for i, n := range m.snap.Graph.Nodes {
		byID[n.ID] = i
	}

	var s strings.Builder
	for i, id := range m.rows() {
		n := m.snap.Graph.Nodes[byID[id]]
		line := fmt.Sprintf("%-8s %-14s %-8s x=%-5.0f y=%-6.0f", n.Shape, n.Label, n.Type, n.X, n.Y)
		s.WriteString(m.renderRow(i, line, n.ClassName != "", false, m.isSelected(interaction.NodeSelected, id)))
	}
	return s.String()
}

func (m Model) renderEdges() string {
	if m.snap.Graph == nil || len(m.snap.Graph.Edges) == 0 {
		return "  no edges"
	}
	var s strings.Builder
	for i, e := range m.snap.Graph.Edges {
		line := fmt.Sprintf("%-18s %-12s", e.From+" → "+e.To, e.Label)
		related := e.Color == render.EdgeRelated || e.Color == render.EdgeRelatedTransparent
		s.WriteString(m.renderRow(i, line, e.ClassName != "", related, m.isSelected(interaction.EdgeSelected, e.ID)))
	}
	return s.String()
}

func (m Model) renderRow(i int, line string, dimmed, related, selected bool) string {
	mark := "  "
	if selected {
		mark = "● "
	}
	switch {
	case i == m.cursor:
		line = cursorStyle.Render(line)
	case related:
		line = relatedStyle.Render(line)
	case dimmed:
		line = dimmedStyle.Render(line)
	}
	return "  " + mark + line + "\n"
}

func (m Model) isSelected(kind interaction.Kind, id string) bool {
	sel := m.snap.Selection
	if sel.Kind != kind {
		return false
	}
	if kind == interaction.NodeSelected {
		return sel.NodeID == id
	}
	return sel.EdgeID == id
}

func (m Model) renderPopup() string {
	if p := m.snap.NodePopup; p != nil {
		return popupStyle.Render(p.Label + "\n" + strings.Join(p.Names, "\n"))
	}
	if p := m.snap.EdgePopup; p != nil {
		return popupStyle.Render(fmt.Sprintf("%s at %s\nrelated alert: %s", p.Label, p.Time, p.Alname))
	}
	return ""
}

// Run starts the browser on the terminal
func Run(session *service.Session, alertIDs []string, loadTimeout time.Duration) error {
	_, err := tea.NewProgram(New(session, alertIDs, loadTimeout), tea.WithAltScreen()).Run()
	return err
}

// IDs returns the ids of alerts for browsing in listing order
func IDs(alerts []domain.Alert) []string {
	ids := make([]string, len(alerts))
	for i, a := range alerts {
		ids[i] = a.ID
	}
	return ids
}
