package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-ledger/internal/theme"
)

// Palette command names.
const (
	NameDashboard = "dashboard"
	NameDatabase  = "database"
	NameAdd       = "add"
	NameAll       = "all"
	NameSearch    = "search"
	NameQuit      = "quit"
)

// Entry documents one palette command.
type Entry struct {
	Name  string
	Usage string
	Help  string
}

// Commands lists every palette command in display order.
var Commands = []Entry{
	{Name: NameDashboard, Usage: "dashboard", Help: "show the KPI dashboard"},
	{Name: NameDatabase, Usage: "database", Help: "show the project table"},
	{Name: NameAdd, Usage: "add", Help: "open the add project form"},
	{Name: NameAll, Usage: "all", Help: "reset the dashboard to all projects"},
	{Name: NameSearch, Usage: "search <term>", Help: "filter the table by client or details"},
	{Name: NameQuit, Usage: "quit", Help: "exit"},
}

// CommandMsg is emitted when the user executes a command.
type CommandMsg struct {
	Name string
	Arg  string
}

// Parse splits a palette line into a command name and its argument.
// Names are matched case-insensitively; the argument keeps its case.
func Parse(line string) CommandMsg {
	line = strings.TrimSpace(line)
	name, arg, _ := strings.Cut(line, " ")
	return CommandMsg{
		Name: strings.ToLower(name),
		Arg:  strings.TrimSpace(arg),
	}
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "dashboard, database, add, all, search <term>, quit"
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		line := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if line == "" {
			return m, nil
		}
		parsed := Parse(line)
		return m, func() tea.Msg { return parsed }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.TitleStyle.Render("Command Palette"),
		m.input.View(),
	)

	return theme.DetailPanelStyle.
		Width(max(m.width-4, 0)).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	return m.input.Focus()
}
