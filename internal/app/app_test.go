package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/nhle/project-ledger/internal/kpi"
	"github.com/nhle/project-ledger/internal/model"
	"github.com/nhle/project-ledger/internal/store"
	"github.com/nhle/project-ledger/internal/ui/command"
	"github.com/nhle/project-ledger/tests/testutil"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(Model)
	require.True(t, ok)
	return am, cmd
}

func newApp(t *testing.T) (Model, store.Store) {
	t.Helper()
	s := testutil.NewMemoryStore(t)
	require.NoError(t, store.Seed(context.Background(), s, store.SampleProjects()...))

	cfg := model.DefaultAppConfig()
	cfg.Ledger.Currency = "USD"
	m := New(s, cfg.Ledger, nil)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	m, _ = update(t, m, m.loadProjects()())
	return m, s
}

func TestApp_LoadsSnapshotIntoBothViews(t *testing.T) {
	m, _ := newApp(t)

	require.Len(t, m.projects, 3)
	require.Equal(t, 3, m.Dashboard().Summary().TotalProjects)
	require.Len(t, m.Database().VisibleProjects(), 3)
	require.Contains(t, m.View(), "Project Ledger")
	require.Contains(t, m.View(), "3 projects")
}

func TestApp_TabSwitching(t *testing.T) {
	m, _ := newApp(t)
	require.Equal(t, TabDashboard, m.Tab())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, TabDatabase, m.Tab())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, TabDashboard, m.Tab())

	m, _ = update(t, m, runes("2"))
	require.Equal(t, TabDatabase, m.Tab())

	m, _ = update(t, m, runes("1"))
	require.Equal(t, TabDashboard, m.Tab())
}

func TestApp_StoreChangesReloadViews(t *testing.T) {
	m, s := newApp(t)

	added, err := s.Add(context.Background(), testutil.Order("New Client", "", 100, 0, 100))
	require.NoError(t, err)

	msg := waitForChange(m.changes)()
	changed, ok := msg.(storeChangedMsg)
	require.True(t, ok)
	require.Equal(t, store.ChangeAdded, changed.change.Kind)
	require.Equal(t, added.ID, changed.change.ID)

	m, cmd := update(t, m, changed)
	require.NotNil(t, cmd)

	m, _ = update(t, m, m.loadProjects()())
	require.Equal(t, 4, m.Dashboard().Summary().TotalProjects)
	require.Equal(t, 2, m.Dashboard().Summary().CompletedProjects, "the new project is settled")
}

func TestApp_CommandPalette(t *testing.T) {
	m, _ := newApp(t)

	m, _ = update(t, m, runes(":"))
	require.Equal(t, OverlayCommand, m.Overlay())

	m, _ = update(t, m, command.CommandMsg{Name: command.NameSearch, Arg: "sunshine"})
	require.Equal(t, OverlayNone, m.Overlay())
	require.Equal(t, TabDatabase, m.Tab())
	require.Len(t, m.Database().VisibleProjects(), 1)

	m, _ = update(t, m, command.CommandMsg{Name: command.NameDashboard})
	require.Equal(t, TabDashboard, m.Tab())

	m, _ = update(t, m, runes("]"))
	require.NotEqual(t, kpi.SelectAll, m.Dashboard().Selection())

	m, _ = update(t, m, command.CommandMsg{Name: command.NameAll})
	require.Equal(t, kpi.SelectAll, m.Dashboard().Selection())

	m, _ = update(t, m, command.CommandMsg{Name: command.NameAdd})
	require.Equal(t, TabDatabase, m.Tab())
	require.True(t, m.Database().Capturing())

	m, _ = update(t, m, command.CommandMsg{Name: "bogus"})
	require.Contains(t, m.keyHints(), "Unknown command: bogus")
}

func TestApp_HelpOverlay(t *testing.T) {
	m, _ := newApp(t)

	m, _ = update(t, m, runes("?"))
	require.Equal(t, OverlayHelp, m.Overlay())
	require.Contains(t, m.View(), "Keyboard Shortcuts")
	require.Contains(t, m.View(), ":search <term>")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, OverlayNone, m.Overlay())
}

func TestApp_KeysGoToOpenForm(t *testing.T) {
	m, _ := newApp(t)

	m, _ = update(t, m, runes("2"))
	m, _ = update(t, m, runes("/"))
	require.True(t, m.Database().Capturing())

	m, cmd := update(t, m, runes("q"))
	if cmd != nil {
		_, isQuit := cmd().(tea.QuitMsg)
		require.False(t, isQuit, "q types into the search box")
	}
	require.Equal(t, "q", m.Database().SearchTerm())
}

func TestApp_QuitEndsSubscription(t *testing.T) {
	m, _ := newApp(t)

	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())

	require.Equal(t, storeClosedMsg{}, waitForChange(m.changes)())
}
