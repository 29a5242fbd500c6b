package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-ledger/internal/keys"
	"github.com/nhle/project-ledger/internal/kpi"
	"github.com/nhle/project-ledger/internal/model"
	"github.com/nhle/project-ledger/internal/rowedit"
	"github.com/nhle/project-ledger/internal/store"
	"github.com/nhle/project-ledger/internal/theme"
	"github.com/nhle/project-ledger/internal/ui"
	"github.com/nhle/project-ledger/internal/ui/projectform"
)

// ProjectAddedMsg is sent when a project created from the add form has
// been stored.
type ProjectAddedMsg struct {
	Project model.Project
}

// ProjectRemovedMsg is sent when a project has been deleted.
type ProjectRemovedMsg struct {
	ID string
}

// StoreErrMsg carries a failed store command back to the view.
type StoreErrMsg struct {
	Op  string
	Err error
}

// confirmBindings holds the delete confirmation state on the heap so huh's
// Value pointer survives model copies.
type confirmBindings struct {
	id string
	ok bool
}

// Model is the project table view.
type Model struct {
	list        list.Model
	store       store.Store
	session     *rowedit.Session
	keys        *keys.KeyMap
	logger      *slog.Logger
	currency    string
	projects    []model.Project
	searchMode  bool
	searchInput textinput.Model
	form        projectform.Model
	confirm     *huh.Form
	cb          *confirmBindings
	statusMsg   string
	width       int
	height      int
}

// New creates the database view.
func New(
	s store.Store,
	k *keys.KeyMap,
	logger *slog.Logger,
	currency, defaultVAT string,
	width, height int,
) Model {
	session := rowedit.New(s)

	delegate := RowDelegate{currency: currency, editing: session.Editing}
	l := list.New([]list.Item{}, delegate, width, listHeight(height))
	l.Title = "Projects"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle
	// q and esc belong to the app and the search box.
	l.KeyMap.Quit.SetEnabled(false)

	si := textinput.New()
	si.Placeholder = "search client or details..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		store:       s,
		session:     session,
		keys:        k,
		logger:      logger,
		currency:    currency,
		searchInput: si,
		form:        projectform.New(currency, defaultVAT, width, height),
		cb:          &confirmBindings{},
		width:       width,
		height:      height,
	}
}

// SetProjects replaces the snapshot and re-applies the search term.
func (m *Model) SetProjects(projects []model.Project) tea.Cmd {
	m.projects = projects
	return m.refresh()
}

// SetSearch applies term as the live search.
func (m *Model) SetSearch(term string) tea.Cmd {
	m.searchInput.SetValue(term)
	return m.refresh()
}

// SearchTerm returns the current search text.
func (m Model) SearchTerm() string {
	return m.searchInput.Value()
}

// VisibleProjects returns the rows currently shown, in store order.
func (m Model) VisibleProjects() []model.Project {
	return kpi.Search(m.projects, m.searchInput.Value())
}

// Session exposes the row edit session.
func (m Model) Session() *rowedit.Session {
	return m.session
}

// StatusMessage returns the last feedback line.
func (m Model) StatusMessage() string {
	return m.statusMsg
}

// Capturing reports whether the view owns all key input: a form, the
// delete confirmation or the search box is focused.
func (m Model) Capturing() bool {
	return m.form.Active() || m.confirm != nil || m.searchMode
}

// StartAdd opens the add form.
func (m *Model) StartAdd() tea.Cmd {
	m.statusMsg = ""
	return m.form.StartCreate()
}

func (m *Model) refresh() tea.Cmd {
	visible := m.VisibleProjects()
	items := make([]list.Item, len(visible))
	for i, p := range visible {
		items[i] = ProjectItem{Project: p}
	}
	return m.list.SetItems(items)
}

// Update handles messages for the database view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectform.ProjectCreatedMsg:
		return m, m.addProject(msg.Fields)

	case projectform.ProjectEditSubmittedMsg:
		return m.saveEdit()

	case projectform.ProjectFormCancelMsg:
		if msg.Editing {
			m.session.Cancel()
			m.statusMsg = "Edit cancelled"
		}
		return m, nil

	case ProjectAddedMsg:
		m.statusMsg = fmt.Sprintf("Added %s", msg.Project.ClientName)
		return m, nil

	case ProjectRemovedMsg:
		m.statusMsg = "Project deleted"
		return m, nil

	case StoreErrMsg:
		m.statusMsg = fmt.Sprintf("Error: %s: %v", msg.Op, msg.Err)
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.form.Active():
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		case m.confirm != nil:
			return m.updateConfirm(msg)
		case m.searchMode:
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	if m.form.Active() {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	if m.confirm != nil {
		return m.updateConfirm(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys applies the search on every keystroke. Enter keeps the
// term, esc clears it.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		return m, m.refresh()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, tea.Batch(cmd, m.refresh())
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Add):
		return m, m.StartAdd()

	case key.Matches(msg, m.keys.Edit):
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		buf, err := m.session.Begin(context.Background(), p.ID)
		if err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", err)
			return m, nil
		}
		m.statusMsg = ""
		return m, m.form.StartEdit(buf)

	case key.Matches(msg, m.keys.Delete):
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.cb.id = p.ID
		m.cb.ok = false
		m.confirm = m.buildConfirm(p)
		return m, m.confirm.Init()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) selected() (model.Project, bool) {
	item, ok := m.list.SelectedItem().(ProjectItem)
	if !ok {
		return model.Project{}, false
	}
	return item.Project, true
}

// saveEdit commits the edit buffer. On invalid input the form reopens on
// the same buffer so the values can be corrected; a row deleted meanwhile
// ends the edit.
func (m Model) saveEdit() (Model, tea.Cmd) {
	p, err := m.session.Save(context.Background())
	if err != nil {
		m.logger.Warn("saving project", "error", err)
		m.statusMsg = fmt.Sprintf("Error: %v", err)
		if errors.Is(err, store.ErrNotFound) {
			m.session.Cancel()
			return m, nil
		}
		if buf, ok := m.session.Active(); ok {
			return m, m.form.StartEdit(buf)
		}
		return m, nil
	}
	m.logger.Info("project updated", "id", p.ID)
	m.statusMsg = fmt.Sprintf("Saved %s", p.ClientName)
	return m, nil
}

func (m Model) buildConfirm(p model.Project) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", kpi.SelectionLabel(p))).
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.cb.ok),
		),
	).WithWidth(m.formWidth()).
		WithKeyMap(ui.FormKeyMap())
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.confirm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirm = f
	}
	switch m.confirm.State {
	case huh.StateCompleted:
		m.confirm = nil
		if !m.cb.ok {
			return m, nil
		}
		if m.session.Editing(m.cb.id) {
			m.session.Cancel()
		}
		return m, m.removeProject(m.cb.id)
	case huh.StateAborted:
		m.confirm = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) addProject(f model.Fields) tea.Cmd {
	s := m.store
	logger := m.logger
	return func() tea.Msg {
		p, err := s.Add(context.Background(), f)
		if err != nil {
			logger.Warn("adding project", "error", err)
			return StoreErrMsg{Op: "add project", Err: err}
		}
		logger.Info("project added", "id", p.ID)
		return ProjectAddedMsg{Project: p}
	}
}

func (m Model) removeProject(id string) tea.Cmd {
	s := m.store
	logger := m.logger
	return func() tea.Msg {
		if err := s.Remove(context.Background(), id); err != nil {
			logger.Warn("removing project", "id", id, "error", err)
			return StoreErrMsg{Op: "delete project", Err: err}
		}
		logger.Info("project removed", "id", id)
		return ProjectRemovedMsg{ID: id}
	}
}

// View renders the database view.
func (m Model) View() string {
	if m.form.Active() {
		return m.form.View()
	}
	if m.confirm != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirm.View())
	}

	var sections []string
	if m.searchMode || m.searchInput.Value() != "" {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View()))
	}

	if len(m.list.Items()) == 0 {
		sections = append(sections, m.renderEmptyState())
	} else {
		sections = append(sections, renderHeader(m.width), m.list.View())
	}

	if m.statusMsg != "" {
		sections = append(sections, theme.StatusMsgStyle.Padding(0, 1).Render(m.statusMsg))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(listHeight(m.height)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if len(m.projects) > 0 {
		return style.Render("No matching projects.\nPress / then esc to clear the search.")
	}
	return style.Render("No projects yet.\n\nPress n to add one.")
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, listHeight(height))
	m.searchInput.Width = width - 4
	m.form.SetSize(width, height)
}

// listHeight leaves room for the search box, column header and status line.
func listHeight(height int) int {
	h := height - 5
	if h < 3 {
		h = 3
	}
	return h
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}
