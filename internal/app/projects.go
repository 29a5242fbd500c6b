package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/project-ledger/internal/model"
	"github.com/nhle/project-ledger/internal/store"
)

// projectsLoadedMsg carries a fresh snapshot of the store.
type projectsLoadedMsg struct {
	projects []model.Project
	err      error
}

// storeChangedMsg is delivered for every store mutation.
type storeChangedMsg struct {
	change store.Change
}

// storeClosedMsg is delivered once the change subscription ends.
type storeClosedMsg struct{}

// loadProjects returns a tea.Cmd that lists every project in order.
func (m Model) loadProjects() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		projects, err := s.List(context.Background())
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

// waitForChange blocks on the subscription. It must be re-armed after each
// storeChangedMsg to keep listening.
func waitForChange(ch <-chan store.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return storeClosedMsg{}
		}
		return storeChangedMsg{change: c}
	}
}
