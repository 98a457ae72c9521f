package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-forts/internal/core"
	"github.com/vovakirdan/tui-forts/internal/games/forts"
	"github.com/vovakirdan/tui-forts/internal/games/forts/blueprints"
	"github.com/vovakirdan/tui-forts/internal/storage"
)

const (
	maxResumeItems = 8
	maxNameLen     = 32
)

// MenuItemKind says what selecting a menu item does.
type MenuItemKind int

const (
	ItemNew MenuItemKind = iota
	ItemFreeBuilder
	ItemBlueprint
	ItemResume
	ItemBoard
)

// MenuItem represents a selectable entry in the menu.
type MenuItem struct {
	Kind   MenuItemKind
	Title  string
	Detail string
	FortID string
	Print  *blueprints.Blueprint
}

// needsName reports whether the item asks for a fort name first.
func (i MenuItem) needsName() bool {
	return i.Kind == ItemNew || i.Kind == ItemFreeBuilder || i.Kind == ItemBlueprint
}

// MenuModel is the Bubble Tea model for the fort picker.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	store     *storage.Store
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	naming    bool
	name      textinput.Model
	status    string
	quitting  bool
	launch    *forts.Launch // Set when the player starts a fort
	openBoard bool
}

// NewMenuModel creates a new menu model. Saved forts are listed when
// store is not nil.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	ti := textinput.New()
	ti.Placeholder = "Aldmoor"
	ti.CharLimit = maxNameLen
	ti.Width = maxNameLen
	ti.Prompt = "Fort name: "

	m := MenuModel{
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		store:     store,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		name:      ti,
	}
	m.items = m.loadItems()
	return m
}

// loadItems builds the menu: new forts, blueprints, saved forts, board.
func (m *MenuModel) loadItems() []MenuItem {
	items := []MenuItem{
		{Kind: ItemNew, Title: "New fort"},
		{Kind: ItemFreeBuilder, Title: "New fort (free builder)", Detail: "unlimited resources"},
	}

	prints, err := blueprints.Builtin().LoadAll()
	if err != nil {
		m.status = fmt.Sprintf("Cannot load blueprints: %v", err)
	}
	for i := range prints {
		bp := prints[i]
		items = append(items, MenuItem{
			Kind:   ItemBlueprint,
			Title:  "Blueprint: " + bp.Name,
			Detail: bp.Metadata["description"],
			Print:  &bp,
		})
	}

	if m.store != nil {
		saved, err := m.store.ListForts(maxResumeItems)
		if err != nil {
			m.status = fmt.Sprintf("Cannot list saves: %v", err)
		}
		for _, rec := range saved {
			items = append(items, MenuItem{
				Kind:   ItemResume,
				Title:  "Resume: " + rec.FortName,
				Detail: fmt.Sprintf("round %d, %s, defense %d", rec.Round, rec.Phase, rec.Defense),
				FortID: rec.ID,
			})
		}
		items = append(items, MenuItem{Kind: ItemBoard, Title: "Fort board"})
	}
	return items
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.naming {
			return m.handleNameKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	if m.naming {
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionBoard:
		if m.store != nil {
			m.openBoard = true
			return m, tea.Quit
		}

	case MenuActionDelete:
		m.deleteSelected()

	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		return m.selectItem(m.items[m.cursor])
	}

	return m, nil
}

func (m MenuModel) selectItem(item MenuItem) (tea.Model, tea.Cmd) {
	switch {
	case item.needsName():
		m.naming = true
		m.name.SetValue("")
		return m, m.name.Focus()

	case item.Kind == ItemBoard:
		m.openBoard = true
		return m, tea.Quit

	case item.Kind == ItemResume:
		rec, err := m.store.LoadFort(item.FortID)
		if err != nil || rec == nil {
			m.status = fmt.Sprintf("Cannot load %s", item.FortID)
			return m, nil
		}
		m.launch = &forts.Launch{ID: rec.ID, Resume: rec.Snapshot}
		return m, tea.Quit
	}
	return m, nil
}

// handleNameKey edits the fort name. Enter starts the fort, Esc returns
// to the list. An empty name leaves naming to the game.
func (m MenuModel) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEsc:
		m.naming = false
		m.name.Blur()
		return m, nil
	case tea.KeyEnter:
		item := m.items[m.cursor]
		l := forts.Launch{FortName: strings.TrimSpace(m.name.Value())}
		switch item.Kind {
		case ItemFreeBuilder:
			l.FreeBuilder = true
		case ItemBlueprint:
			grid, err := item.Print.Grid()
			if err != nil {
				m.status = err.Error()
				m.naming = false
				return m, nil
			}
			l.Layout = grid
		}
		m.launch = &l
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

// deleteSelected removes the saved fort under the cursor.
func (m *MenuModel) deleteSelected() {
	if len(m.items) == 0 || m.store == nil {
		return
	}
	item := m.items[m.cursor]
	if item.Kind != ItemResume {
		return
	}
	if _, err := m.store.DeleteFort(item.FortID); err != nil {
		m.status = fmt.Sprintf("Cannot delete: %v", err)
		return
	}
	m.status = "Deleted " + strings.TrimPrefix(item.Title, "Resume: ")
	m.items = m.loadItems()
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  I S O F O R T S  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Build a fort, survive the siege", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := cursor + item.Title
		if item.Detail != "" {
			line += dimStyle.Render("  (" + item.Detail + ")")
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.naming {
		b.WriteString(centerText(m.name.View(), m.width))
		b.WriteString("\n")
		b.WriteString(centerText(dimStyle.Render("Enter: Start  |  Esc: Back"), m.width))
		b.WriteString("\n")
		return b.String()
	}

	if m.status != "" {
		b.WriteString(centerText(m.status, m.width))
		b.WriteString("\n")
	}
	controls := "Up/Down: Navigate  |  Enter: Select  |  X: Delete save  |  Tab: Board  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Launch returns how to start the chosen fort, or nil if none was chosen.
func (m MenuModel) Launch() *forts.Launch {
	return m.launch
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsBoard returns true if user requested the fort board.
func (m MenuModel) WantsBoard() bool {
	return m.openBoard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Launch     *forts.Launch
	Config     core.RuntimeConfig
	WantsBoard bool
	Quit       bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{
		Config: m.Config(),
	}

	switch {
	case m.WantsBoard():
		result.WantsBoard = true
	case m.Launch() != nil:
		result.Launch = m.Launch()
	default:
		result.Quit = true
	}
	return result, nil
}
