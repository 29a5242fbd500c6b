package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-ledger/internal/keys"
	"github.com/nhle/project-ledger/internal/kpi"
	"github.com/nhle/project-ledger/internal/model"
	"github.com/nhle/project-ledger/internal/theme"
	"github.com/nhle/project-ledger/internal/ui"
)

const (
	cardsPerRow  = 3
	minCardWidth = 26
)

// pickerBindings lives on the heap so huh's Value pointer survives model
// copies.
type pickerBindings struct {
	selection string
}

// Model is the KPI dashboard view.
type Model struct {
	keys      *keys.KeyMap
	currency  string
	projects  []model.Project
	selection string
	picker    *huh.Form
	pb        *pickerBindings
	width     int
	height    int
}

// New creates a dashboard showing all projects.
func New(k *keys.KeyMap, currency string, width, height int) Model {
	return Model{
		keys:      k,
		currency:  currency,
		selection: kpi.SelectAll,
		pb:        &pickerBindings{},
		width:     width,
		height:    height,
	}
}

// SetProjects replaces the snapshot the KPIs are derived from.
func (m *Model) SetProjects(projects []model.Project) {
	m.projects = projects
}

// Selection returns kpi.SelectAll or the selected project id.
func (m Model) Selection() string {
	return m.selection
}

// SetSelection changes the project filter.
func (m *Model) SetSelection(selection string) {
	if selection == "" {
		selection = kpi.SelectAll
	}
	m.selection = selection
}

// Summary derives the KPIs for the current snapshot and selection.
func (m Model) Summary() kpi.Summary {
	return kpi.Compute(kpi.Select(m.projects, m.selection))
}

// Picking reports whether the project picker has keyboard focus.
func (m Model) Picking() bool {
	return m.picker != nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.picker != nil {
			return m.updatePicker(msg)
		}
		return m.handleKey(msg)
	}

	if m.picker != nil {
		return m.updatePicker(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PickProject):
		m.pb.selection = m.selection
		m.picker = m.buildPicker()
		return m, m.picker.Init()

	case key.Matches(msg, m.keys.NextProject):
		m.cycle(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevProject):
		m.cycle(-1)
		return m, nil

	case key.Matches(msg, m.keys.AllProjects):
		m.selection = kpi.SelectAll
		return m, nil
	}
	return m, nil
}

// cycle moves the selection through all, then each project in order.
func (m *Model) cycle(step int) {
	options := make([]string, 0, len(m.projects)+1)
	options = append(options, kpi.SelectAll)
	for _, p := range m.projects {
		options = append(options, p.ID)
	}

	current := 0
	for i, id := range options {
		if id == m.selection {
			current = i
			break
		}
	}
	next := (current + step + len(options)) % len(options)
	m.selection = options[next]
}

func (m Model) buildPicker() *huh.Form {
	opts := []huh.Option[string]{
		huh.NewOption("All projects", kpi.SelectAll),
	}
	for _, p := range m.projects {
		opts = append(opts, huh.NewOption(kpi.SelectionLabel(p), p.ID))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Filter by project").
				Options(opts...).
				Value(&m.pb.selection),
		),
	).WithWidth(m.formWidth()).
		WithKeyMap(ui.FormKeyMap())
}

func (m Model) updatePicker(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.picker.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.picker = f
	}
	switch m.picker.State {
	case huh.StateCompleted:
		m.SetSelection(m.pb.selection)
		m.picker = nil
		return m, nil
	case huh.StateAborted:
		m.picker = nil
		return m, nil
	}
	return m, cmd
}

// View renders the dashboard.
func (m Model) View() string {
	if m.picker != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.picker.View())
	}

	s := m.Summary()
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Dashboard"))
	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("Filter: " + m.selectionLabel()))
	b.WriteString("\n\n")

	cards := []string{
		m.card("Transaction amount", s.TotalTransactionAmount.Format(m.currency), "", theme.ColorBlue),
		m.card("VAT amount", s.TotalVATAmount.Format(m.currency), "", theme.ColorGreen),
		m.card("Total payment", s.TotalPayment.Format(m.currency), "", theme.ColorPurple),
		m.card("Project receipts", s.TotalReceipts.Format(m.currency), "", theme.ColorCyan),
		m.card("Remaining balance", s.TotalRemaining.Format(m.currency), "", theme.ColorRed),
		m.card("Completion rate", s.CompletionRate.Fixed(1),
			fmt.Sprintf("%d of %d projects", s.CompletedProjects, s.TotalProjects), theme.ColorOrange),
	}
	perRow := m.cardsPerRow()
	for i := 0; i < len(cards); i += perRow {
		end := min(i+perRow, len(cards))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.TitleStyle.Render("Project status"))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.counter("Completed", s.CompletedProjects, theme.ColorGreen),
		m.counter("In progress", s.InProgressProjects, theme.ColorYellow),
		m.counter("Total", s.TotalProjects, theme.ColorBlue),
	))
	if s.OverpaidProjects > 0 {
		b.WriteString("\n")
		b.WriteString(theme.StatusMsgStyle.Render(
			fmt.Sprintf("%d overpaid project(s) are counted in neither bucket", s.OverpaidProjects),
		))
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) selectionLabel() string {
	if m.selection == kpi.SelectAll {
		return "All projects"
	}
	for _, p := range m.projects {
		if p.ID == m.selection {
			return kpi.SelectionLabel(p)
		}
	}
	return "project no longer exists"
}

func (m Model) card(title, value, subtitle string, accent lipgloss.AdaptiveColor) string {
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.ColorGray).Render(title),
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(value),
	}
	if subtitle != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ColorGray).Render(subtitle))
	}
	return theme.CardStyle(accent).
		Width(m.cardWidth()).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) counter(label string, n int, accent lipgloss.AdaptiveColor) string {
	return theme.CounterStyle(accent).
		Width(m.cardWidth()).
		Render(fmt.Sprintf("%d\n%s", n, label))
}

func (m Model) cardsPerRow() int {
	for n := cardsPerRow; n > 1; n-- {
		if (m.width-4)/n >= minCardWidth+2 {
			return n
		}
	}
	return 1
}

func (m Model) cardWidth() int {
	w := (m.width-4)/m.cardsPerRow() - 2
	if w < minCardWidth {
		w = minCardWidth
	}
	return w
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
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
