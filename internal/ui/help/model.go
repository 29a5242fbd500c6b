package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-ledger/internal/keys"
	"github.com/nhle/project-ledger/internal/theme"
	"github.com/nhle/project-ledger/internal/ui/command"
)

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	h.ShowAll = true
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// View renders the help overlay: key bindings, then palette commands.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Keyboard Shortcuts")
	helpText := m.help.View(m.keys)

	var cmds strings.Builder
	for _, c := range command.Commands {
		cmds.WriteString(lipgloss.NewStyle().Foreground(theme.ColorBlue).Width(16).Render(":" + c.Usage))
		cmds.WriteString(theme.HelpStyle.Render(c.Help))
		cmds.WriteString("\n")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		helpText,
		"",
		theme.TitleStyle.Render("Commands"),
		strings.TrimRight(cmds.String(), "\n"),
	)

	return theme.DetailPanelStyle.
		Width(max(m.width-4, 0)).
		Height(max(m.height-4, 0)).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
