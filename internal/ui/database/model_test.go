package database

import (
	"context"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/nhle/project-ledger/internal/keys"
	"github.com/nhle/project-ledger/internal/model"
	"github.com/nhle/project-ledger/internal/store"
	"github.com/nhle/project-ledger/internal/ui/projectform"
	"github.com/nhle/project-ledger/tests/testutil"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newView(t *testing.T) (Model, store.Store, []model.Project) {
	t.Helper()
	s := testutil.NewMemoryStore(t)
	added := testutil.MustAdd(t, s,
		testutil.Order("ABC Company", "Water tank", 1000, 20, 600),
		testutil.Order("Sunshine Farm", "Irrigation", 500, 10, 550),
		testutil.Order("Olive Grove", "Pipes for ABC", 2000, 0, 500),
	)
	m := New(s, keys.DefaultKeyMap(), slog.New(slog.DiscardHandler), "USD", "17", 160, 30)
	m.SetProjects(added)
	return m, s, added
}

func TestDatabase_SearchFiltersRows(t *testing.T) {
	m, _, added := newView(t)
	require.Len(t, m.VisibleProjects(), 3)

	m.SetSearch("abc")
	visible := m.VisibleProjects()
	require.Len(t, visible, 2)
	require.Equal(t, added[0].ID, visible[0].ID)
	require.Equal(t, added[2].ID, visible[1].ID, "details match too")
	require.Len(t, m.list.Items(), 2)

	m.SetSearch("nothing like this")
	require.Empty(t, m.VisibleProjects())
	require.Contains(t, m.View(), "No matching projects")

	m.SetSearch("")
	require.Len(t, m.VisibleProjects(), 3)
}

func TestDatabase_LiveSearchFromKeys(t *testing.T) {
	m, _, _ := newView(t)

	m, _ = m.Update(runes("/"))
	require.True(t, m.Capturing())

	m, _ = m.Update(runes("sun"))
	require.Equal(t, "sun", m.SearchTerm())
	require.Len(t, m.VisibleProjects(), 1)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.Capturing())
	require.Len(t, m.VisibleProjects(), 1, "enter keeps the term")

	m, _ = m.Update(runes("/"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Empty(t, m.SearchTerm())
	require.Len(t, m.VisibleProjects(), 3)
}

func TestDatabase_SetProjectsKeepsSearch(t *testing.T) {
	m, s, _ := newView(t)
	m.SetSearch("farm")

	testutil.MustAdd(t, s, testutil.Order("Green Farm", "", 1, 0, 0))
	all, err := s.List(context.Background())
	require.NoError(t, err)
	m.SetProjects(all)

	require.Len(t, m.VisibleProjects(), 2)
}

func TestDatabase_EditSaveCommitsBuffer(t *testing.T) {
	m, s, added := newView(t)
	id := added[0].ID

	m, _ = m.Update(runes("e"))
	require.True(t, m.Session().Editing(id))
	require.True(t, m.Capturing())
	require.Contains(t, m.View(), "Edit Project")

	buf, ok := m.Session().Active()
	require.True(t, ok)
	buf.Draft.ProjectReceipts = "1200"
	require.Contains(t, m.View(), "Remaining: $0.00")

	m, _ = m.Update(projectform.ProjectEditSubmittedMsg{ID: id})
	require.False(t, m.Session().Editing(id))
	require.Equal(t, "Saved ABC Company", m.StatusMessage())

	got, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	require.True(t, got.RemainingBalance.IsZero())
	require.Equal(t, model.StatusCompleted, got.Status())
}

func TestDatabase_EditSaveInvalidKeepsBuffer(t *testing.T) {
	m, s, added := newView(t)
	id := added[0].ID

	m, _ = m.Update(runes("e"))
	buf, _ := m.Session().Active()
	buf.Draft.TransactionAmount = "lots"

	m, _ = m.Update(projectform.ProjectEditSubmittedMsg{ID: id})
	require.True(t, m.Session().Editing(id))
	require.Contains(t, m.StatusMessage(), "Error")
	require.True(t, m.form.Editing(), "form reopens on the buffer")

	got, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	require.True(t, got.TransactionAmount.Equal(model.M(1000)))
}

func TestDatabase_EditCancelLeavesStore(t *testing.T) {
	m, s, added := newView(t)
	id := added[0].ID

	m, _ = m.Update(runes("e"))
	buf, _ := m.Session().Active()
	buf.Draft.ClientName = "changed"

	m, _ = m.Update(projectform.ProjectFormCancelMsg{Editing: true})
	require.False(t, m.Session().Editing(id))

	got, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "ABC Company", got.ClientName)
}

func TestDatabase_AddAndRemoveCommands(t *testing.T) {
	m, s, added := newView(t)

	msg := m.addProject(testutil.Order("New Client", "", 100, 17, 0))()
	addedMsg, ok := msg.(ProjectAddedMsg)
	require.True(t, ok)
	require.True(t, addedMsg.Project.TotalPayment.Equal(model.M(117)))

	m, _ = m.Update(addedMsg)
	require.Equal(t, "Added New Client", m.StatusMessage())

	msg = m.removeProject(added[1].ID)()
	require.Equal(t, ProjectRemovedMsg{ID: added[1].ID}, msg)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)

	msg = m.removeProject(added[1].ID)()
	errMsg, ok := msg.(StoreErrMsg)
	require.True(t, ok)
	require.ErrorIs(t, errMsg.Err, store.ErrNotFound)
}

func TestDatabase_DeleteOpensConfirmation(t *testing.T) {
	m, _, _ := newView(t)

	m, _ = m.Update(runes("d"))
	require.True(t, m.Capturing())
	require.Contains(t, m.View(), "Delete")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.Capturing())
}

func TestDatabase_AddFormCreatesFields(t *testing.T) {
	m, _, _ := newView(t)

	m, _ = m.Update(runes("n"))
	require.True(t, m.Capturing())
	require.Contains(t, m.View(), "New Project")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.Capturing())
}

func TestRenderCells_PadsAndTruncates(t *testing.T) {
	cells := []string{"2024-01-15", "A very long client name indeed", "x", "1", "2", "3", "4", "5", "notes"}
	line := renderCells(cells, 160)

	require.Contains(t, line, "2024-01-15")
	require.Contains(t, line, "…")
	require.NotContains(t, line, "indeed")
}
