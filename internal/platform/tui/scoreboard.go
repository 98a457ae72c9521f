package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-forts/internal/storage"
)

// Board layout constants
const (
	minWidthForHistory = 100 // Minimum width to show the round history beside the table
	historyWidth       = 36  // Width of the round history panel
	maxForts           = 100 // Max forts to load
	maxHistoryRounds   = 12  // Rounds shown in the history panel
)

// BoardKeyMap defines the key bindings for the fort board.
type BoardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Sort   key.Binding
	Resume key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Sort, k.Resume, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k BoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Sort},
		{k.Resume, k.Back, k.Quit},
	}
}

// DefaultBoardKeyMap returns default key bindings.
func DefaultBoardKeyMap() BoardKeyMap {
	return BoardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Sort: key.NewBinding(
			key.WithKeys("tab", "s"),
			key.WithHelp("tab", "defense/recent"),
		),
		Resume: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "resume"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// BoardModel is the Bubble Tea model for the fort board: saved forts
// ranked by defense with the siege history of the selected one.
type BoardModel struct {
	store       *storage.Store
	forts       []storage.FortRecord
	history     []storage.RoundResult
	stats       *storage.FortStats
	byRecent    bool
	table       table.Model
	help        help.Model
	keys        BoardKeyMap
	width       int
	height      int
	err         error
	quitting    bool
	goingBack   bool
	resume      *storage.FortRecord
	showHistory bool
}

// NewBoardModel creates a new fort board.
func NewBoardModel(store *storage.Store, width, height int) BoardModel {
	h := help.New()
	h.ShowAll = false

	m := BoardModel{
		store:       store,
		keys:        DefaultBoardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showHistory: width >= minWidthForHistory,
	}
	m.table = m.createTable()
	m.loadForts()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *BoardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Fort", Width: 16},
		{Title: "Round", Width: 6},
		{Title: "Defense", Width: 8},
		{Title: "Phase", Width: 10},
		{Title: "Saved", Width: 13},
	}

	tableWidth := m.width - 4 // Margins
	if m.showHistory {
		tableWidth -= historyWidth + 3
	}
	if extra := tableWidth - 57 - 2*len(columns); extra > 0 {
		columns[1].Width += min(extra, 16)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadForts reloads the fort list in the current order.
func (m *BoardModel) loadForts() {
	m.forts, m.err = nil, nil
	if m.store != nil {
		if m.byRecent {
			m.forts, m.err = m.store.ListForts(maxForts)
		} else {
			m.forts, m.err = m.store.TopForts(maxForts)
		}
	}
	m.updateTableRows()
	m.loadHistory()
}

// updateTableRows updates the table with current forts.
func (m *BoardModel) updateTableRows() {
	rows := make([]table.Row, len(m.forts))
	for i, f := range m.forts {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			f.FortName,
			fmt.Sprintf("%d", f.Round),
			fmt.Sprintf("%d", f.Defense),
			f.Phase,
			f.SavedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// selected returns the fort under the table cursor.
func (m *BoardModel) selected() *storage.FortRecord {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.forts) {
		return nil
	}
	return &m.forts[i]
}

// loadHistory loads the siege history of the selected fort.
func (m *BoardModel) loadHistory() {
	m.history, m.stats = nil, nil
	f := m.selected()
	if f == nil || m.store == nil {
		return
	}
	//nolint:errcheck // History is informational; an empty panel is fine
	m.history, _ = m.store.RoundHistory(f.ID, 0)
	if len(m.history) > maxHistoryRounds {
		m.history = m.history[len(m.history)-maxHistoryRounds:]
	}
	//nolint:errcheck // See above
	m.stats, _ = m.store.GetFortStats(f.ID)
}

// Init initializes the board model.
func (m BoardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the board.
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Sort):
			m.byRecent = !m.byRecent
			m.loadForts()
			return m, nil

		case key.Matches(msg, m.keys.Resume):
			if f := m.selected(); f != nil {
				m.resume = f
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			m.loadHistory()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showHistory = m.width >= minWidthForHistory
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.updateTableRows()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the board.
func (m BoardModel) View() string {
	if m.quitting || m.goingBack || m.resume != nil {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "STRONGEST FORTS"
	if m.byRecent {
		title = "RECENT FORTS"
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	tableRendered := panelStyle.Render(m.renderTableContent())
	if m.showHistory {
		historyRendered := panelStyle.Width(historyWidth).Render(m.renderHistory())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tableRendered, "  ", historyRendered))
	} else {
		b.WriteString(tableRendered)
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m BoardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)
	if m.err != nil {
		return emptyStyle.Render(fmt.Sprintf("Cannot load forts:\n%v", m.err))
	}
	if len(m.forts) == 0 {
		return emptyStyle.Render("No forts saved yet.\nBuild one and survive a siege!")
	}
	return m.table.View()
}

// renderHistory renders the siege history of the selected fort.
func (m BoardModel) renderHistory() string {
	f := m.selected()
	if f == nil {
		return "Sieges\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sieges of %s\n", f.FortName)
	b.WriteString(strings.Repeat("-", historyWidth-4))
	b.WriteString("\n")

	if len(m.history) == 0 {
		b.WriteString("No sieges yet\n")
		return b.String()
	}
	for _, r := range m.history {
		fmt.Fprintf(&b, "R%-3d def %-4d damaged %d\n", r.Round, r.Defense, r.Damaged)
	}
	if m.stats != nil {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Best defense  %d\n", m.stats.BestDefense)
		fmt.Fprintf(&b, "Avg damaged   %.1f\n", m.stats.AvgDamaged)
	}
	return b.String()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m BoardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m BoardModel) IsQuitting() bool {
	return m.quitting
}

// Resume returns the fort the player chose to resume, if any.
func (m BoardModel) Resume() *storage.FortRecord {
	return m.resume
}

// BoardResult holds the result of running the fort board.
type BoardResult struct {
	Back   bool
	Resume *storage.FortRecord // loaded with its snapshot
}

// RunBoard runs the fort board screen.
func RunBoard(store *storage.Store, width, height int) (BoardResult, error) {
	model := NewBoardModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return BoardResult{}, err
	}

	m, ok := finalModel.(BoardModel)
	if !ok {
		return BoardResult{}, nil
	}

	if f := m.Resume(); f != nil {
		rec, err := store.LoadFort(f.ID)
		if err != nil {
			return BoardResult{}, err
		}
		return BoardResult{Resume: rec}, nil
	}
	return BoardResult{Back: m.IsGoingBack()}, nil
}
