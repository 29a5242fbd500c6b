package projectform

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-ledger/internal/model"
	"github.com/nhle/project-ledger/internal/rowedit"
	"github.com/nhle/project-ledger/internal/theme"
	"github.com/nhle/project-ledger/internal/ui"
)

// ProjectCreatedMsg is dispatched when the add form is submitted.
type ProjectCreatedMsg struct {
	Fields model.Fields
}

// ProjectEditSubmittedMsg is dispatched when the edit form is submitted.
// The values are already in the edit buffer.
type ProjectEditSubmittedMsg struct {
	ID string
}

// ProjectFormCancelMsg is dispatched when the user leaves the form without
// submitting.
type ProjectFormCancelMsg struct {
	Editing bool
}

// Model is the Bubble Tea model for the project add/edit form.
type Model struct {
	form       *huh.Form
	draft      *model.Draft
	editID     string
	currency   string
	defaultVAT string
	width      int
	height     int
}

// New creates a new project form model.
func New(currency, defaultVAT string, width, height int) Model {
	return Model{
		currency:   currency,
		defaultVAT: defaultVAT,
		width:      width,
		height:     height,
	}
}

// StartCreate initializes an empty form with the default VAT filled in.
func (m *Model) StartCreate() tea.Cmd {
	m.editID = ""
	m.draft = &model.Draft{VATPercent: m.defaultVAT}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit binds the form to an edit buffer. Field changes go straight
// into buf.Draft.
func (m *Model) StartEdit(buf *rowedit.Buffer) tea.Cmd {
	m.editID = buf.ID
	m.draft = &buf.Draft
	m.form = m.buildForm()
	return m.form.Init()
}

// Active reports whether a form is open.
func (m Model) Active() bool {
	return m.form != nil
}

// Editing reports whether the open form edits an existing project.
func (m Model) Editing() bool {
	return m.form != nil && m.editID != ""
}

// Close drops the open form without emitting a message.
func (m *Model) Close() {
	m.form = nil
	m.draft = nil
	m.editID = ""
}

// Update handles messages for the project form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		submit := m.handleSubmit()
		m.Close()
		return m, submit
	case huh.StateAborted:
		editing := m.editID != ""
		m.Close()
		return m, func() tea.Msg { return ProjectFormCancelMsg{Editing: editing} }
	}

	return m, cmd
}

// View renders the form with a preview of the derived totals.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Project"
	if m.editID != "" {
		titleText = "Edit Project"
	}

	content := theme.TitleStyle.Render(titleText) + "\n" +
		m.form.View() + "\n" +
		m.preview()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

func (m Model) preview() string {
	f, err := model.ParseDraft(*m.draft)
	if err != nil {
		return theme.StatusMsgStyle.Render(err.Error())
	}
	total, remaining := model.Derive(f)
	return theme.HelpStyle.Render("Total payment: "+total.Format(m.currency)) + "  " +
		theme.BalanceStyle(model.StatusOf(remaining)).Render("Remaining: "+remaining.Format(m.currency))
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	d := m.draft
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Order date").
				Placeholder("YYYY-MM-DD").
				Value(&d.OrderDate),
			huh.NewInput().
				Title("Client name").
				Value(&d.ClientName),
			huh.NewInput().
				Title("Order details").
				Value(&d.OrderDetails),
			huh.NewInput().
				Title("Transaction amount").
				Placeholder("0").
				Value(&d.TransactionAmount).
				Validate(validateNumber("transaction amount")),
			huh.NewInput().
				Title("VAT %").
				Value(&d.VATPercent).
				Validate(validateNumber("VAT percent")),
			huh.NewInput().
				Title("Project receipts").
				Placeholder("0").
				Value(&d.ProjectReceipts).
				Validate(validateNumber("project receipts")),
			huh.NewText().
				Title("Project notes").
				Value(&d.ProjectNotes),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).
		WithKeyMap(ui.FormKeyMap())
}

func (m Model) handleSubmit() tea.Cmd {
	if m.editID != "" {
		id := m.editID
		return func() tea.Msg { return ProjectEditSubmittedMsg{ID: id} }
	}

	f, err := model.ParseDraft(*m.draft)
	if err != nil {
		return func() tea.Msg { return ProjectFormCancelMsg{} }
	}
	return func() tea.Msg { return ProjectCreatedMsg{Fields: f} }
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

func (m Model) formHeight() int {
	h := m.height - 6
	if h < 12 {
		h = 12
	}
	return h
}

func validateNumber(fieldName string) func(string) error {
	return func(s string) error {
		_, err := model.ParseNumber(fieldName, s)
		return err
	}
}
