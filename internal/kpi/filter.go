package kpi

import (
	"strings"
	"unicode/utf8"

	"github.com/nhle/project-ledger/internal/model"
)

// SelectAll is the dashboard selection covering every project.
const SelectAll = "all"

// labelDetailRunes is how much of the order details a picker label shows.
const labelDetailRunes = 30

// Select narrows projects to the dashboard selection: SelectAll (or empty)
// keeps everything, any other value keeps the project with that id.
func Select(projects []model.Project, selection string) []model.Project {
	if selection == "" || selection == SelectAll {
		return projects
	}
	for _, p := range projects {
		if p.ID == selection {
			return []model.Project{p}
		}
	}
	return nil
}

// Search keeps the projects whose client name or order details contain
// term, ignoring case. A blank term keeps everything. Order is preserved.
func Search(projects []model.Project, term string) []model.Project {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return projects
	}

	var out []model.Project
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.ClientName), term) ||
			strings.Contains(strings.ToLower(p.OrderDetails), term) {
			out = append(out, p)
		}
	}
	return out
}

// SelectionLabel is the picker label for p: the client name followed by
// the start of the order details.
func SelectionLabel(p model.Project) string {
	details := p.OrderDetails
	if utf8.RuneCountInString(details) > labelDetailRunes {
		details = string([]rune(details)[:labelDetailRunes])
	}
	return p.ClientName + " - " + details + "..."
}
