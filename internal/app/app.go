package app

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/project-ledger/internal/keys"
	"github.com/nhle/project-ledger/internal/kpi"
	"github.com/nhle/project-ledger/internal/model"
	"github.com/nhle/project-ledger/internal/store"
	"github.com/nhle/project-ledger/internal/ui"
	"github.com/nhle/project-ledger/internal/ui/command"
	"github.com/nhle/project-ledger/internal/ui/dashboard"
	"github.com/nhle/project-ledger/internal/ui/database"
	helpview "github.com/nhle/project-ledger/internal/ui/help"
	"github.com/nhle/project-ledger/internal/ui/projectform"
)

// Tab identifies one of the two top-level views.
type Tab int

const (
	TabDashboard Tab = iota
	TabDatabase
)

var tabLabels = []string{"1 Dashboard", "2 Database"}

// Overlay is a view drawn over the active tab.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayCommand
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and the subscription to the project store.
type Model struct {
	tab         Tab
	overlay     Overlay
	layout      ui.Layout
	store       store.Store
	logger      *slog.Logger
	keys        *keys.KeyMap
	changes     <-chan store.Change
	unsubscribe func()
	projects    []model.Project
	dashboard   dashboard.Model
	database    database.Model
	helpView    helpview.Model
	commandView command.Model
	statusMsg   string
	ready       bool
}

// New creates the root application model over s.
func New(s store.Store, cfg model.LedgerConfig, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	k := keys.DefaultKeyMap()
	changes, unsubscribe := s.Subscribe()

	return Model{
		tab:         TabDashboard,
		store:       s,
		logger:      logger,
		keys:        k,
		changes:     changes,
		unsubscribe: unsubscribe,
		layout:      ui.NewLayout(80, 24),
		dashboard:   dashboard.New(k, cfg.Currency, 80, 22),
		database:    database.New(s, k, logger, cfg.Currency, cfg.DefaultVAT, 80, 22),
		helpView:    helpview.New(k, 80, 22),
		commandView: command.New(80, 22),
	}
}

// Init loads the first snapshot and starts listening for store changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadProjects(),
		waitForChange(m.changes),
	)
}

// Tab returns the active tab.
func (m Model) Tab() Tab {
	return m.tab
}

// Overlay returns the open overlay.
func (m Model) Overlay() Overlay {
	return m.overlay
}

// Dashboard returns the dashboard view.
func (m Model) Dashboard() dashboard.Model {
	return m.dashboard
}

// Database returns the database view.
func (m Model) Database() database.Model {
	return m.database
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.dashboard.SetSize(w, h)
		m.database.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		return m, nil

	case projectsLoadedMsg:
		if msg.err != nil {
			m.logger.Error("loading projects", "error", msg.err)
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.projects = msg.projects
		m.dashboard.SetProjects(msg.projects)
		return m, m.database.SetProjects(msg.projects)

	case storeChangedMsg:
		m.logger.Debug("store changed", "kind", msg.change.Kind.String(), "id", msg.change.ID)
		return m, tea.Batch(m.loadProjects(), waitForChange(m.changes))

	case storeClosedMsg:
		return m, nil

	case command.CommandMsg:
		m.overlay = OverlayNone
		return m, m.executeCommand(msg)

	case projectform.ProjectCreatedMsg, projectform.ProjectEditSubmittedMsg,
		projectform.ProjectFormCancelMsg, database.ProjectAddedMsg,
		database.ProjectRemovedMsg, database.StoreErrMsg:
		var cmd tea.Cmd
		m.database, cmd = m.database.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveView(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}

	switch m.overlay {
	case OverlayHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
			m.overlay = OverlayNone
		}
		return m, nil

	case OverlayCommand:
		if key.Matches(msg, m.keys.Back) {
			m.overlay = OverlayNone
			return m, nil
		}
		var cmd tea.Cmd
		m.commandView, cmd = m.commandView.Update(msg)
		return m, cmd
	}

	// Forms, the picker and the search box own the keyboard while open.
	if m.capturing() {
		return m.updateActiveView(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.Help):
		m.overlay = OverlayHelp
		return m, nil

	case key.Matches(msg, m.keys.Command):
		m.overlay = OverlayCommand
		return m, m.commandView.Focus()

	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % Tab(len(tabLabels))
		return m, nil

	case key.Matches(msg, m.keys.Dashboard):
		m.tab = TabDashboard
		return m, nil

	case key.Matches(msg, m.keys.Database):
		m.tab = TabDatabase
		return m, nil
	}

	return m.updateActiveView(msg)
}

func (m Model) capturing() bool {
	switch m.tab {
	case TabDashboard:
		return m.dashboard.Picking()
	case TabDatabase:
		return m.database.Capturing()
	}
	return false
}

// updateActiveView dispatches the message to the visible view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.overlay == OverlayCommand {
		m.commandView, cmd = m.commandView.Update(msg)
		return m, cmd
	}

	switch m.tab {
	case TabDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case TabDatabase:
		m.database, cmd = m.database.Update(msg)
	}

	return m, cmd
}

// executeCommand handles a command from the command palette.
func (m *Model) executeCommand(c command.CommandMsg) tea.Cmd {
	m.statusMsg = ""

	switch c.Name {
	case command.NameDashboard:
		m.tab = TabDashboard
		return nil
	case command.NameDatabase:
		m.tab = TabDatabase
		return nil
	case command.NameAdd:
		m.tab = TabDatabase
		return m.database.StartAdd()
	case command.NameAll:
		m.tab = TabDashboard
		m.dashboard.SetSelection(kpi.SelectAll)
		return nil
	case command.NameSearch:
		m.tab = TabDatabase
		return m.database.SetSearch(c.Arg)
	case command.NameQuit, "q":
		return m.quit()
	default:
		m.statusMsg = fmt.Sprintf("Unknown command: %s", c.Name)
		return nil
	}
}

func (m Model) quit() tea.Cmd {
	m.unsubscribe()
	return tea.Quit
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(
		"Project Ledger",
		ui.RenderTabs(tabLabels, int(m.tab)),
		fmt.Sprintf("%d projects", len(m.projects)),
	)
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

func (m Model) renderContent() string {
	switch m.overlay {
	case OverlayHelp:
		return m.helpView.View()
	case OverlayCommand:
		return m.commandView.View()
	}

	switch m.tab {
	case TabDatabase:
		return m.database.View()
	default:
		return m.dashboard.View()
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}

	switch m.overlay {
	case OverlayHelp:
		return "? close help | esc back"
	case OverlayCommand:
		return "enter execute | esc back"
	}

	switch m.tab {
	case TabDashboard:
		if m.dashboard.Picking() {
			return "enter select | esc cancel"
		}
		return "q quit | ? help | tab switch | f filter | [ ] cycle | 0 all"
	default:
		if m.database.Capturing() {
			return "enter confirm | esc cancel"
		}
		return "q quit | ? help | tab switch | / search | n add | e edit | d delete"
	}
}
