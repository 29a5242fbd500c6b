package database

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-ledger/internal/model"
	"github.com/nhle/project-ledger/internal/theme"
)

// column describes one cell of a row. Width 0 takes what is left.
type column struct {
	title string
	width int
	align lipgloss.Position
}

// rowIndent is the list item padding plus the edit marker.
const rowIndent = 4

var columns = []column{
	{title: "Date", width: 11},
	{title: "Client", width: 18},
	{title: "Details", width: 24},
	{title: "Amount", width: 14, align: lipgloss.Right},
	{title: "VAT %", width: 7, align: lipgloss.Right},
	{title: "Total", width: 14, align: lipgloss.Right},
	{title: "Receipts", width: 14, align: lipgloss.Right},
	{title: "Remaining", width: 14, align: lipgloss.Right},
	{title: "Notes", width: 0},
}

// ProjectItem wraps a model.Project so it can be used in a bubbles/list.
type ProjectItem struct {
	Project model.Project
}

// FilterValue returns the string used for fuzzy filtering.
func (i ProjectItem) FilterValue() string {
	return i.Project.ClientName + " " + i.Project.OrderDetails
}

// RowDelegate implements list.ItemDelegate, drawing each project as one
// row of fixed-width columns.
type RowDelegate struct {
	currency string
	// editing reports the row currently in edit mode.
	editing func(id string) bool
}

// Height returns the number of lines each item takes.
func (d RowDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d RowDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d RowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single project row.
func (d RowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(ProjectItem)
	if !ok {
		return
	}
	p := pi.Project

	prefix := "  "
	if d.editing != nil && d.editing(p.ID) {
		prefix = lipgloss.NewStyle().Foreground(theme.ColorOrange).Render("✎ ")
	}

	cells := []string{
		p.OrderDate,
		p.ClientName,
		p.OrderDetails,
		p.TransactionAmount.Format(d.currency),
		p.VATPercent.String(),
		p.TotalPayment.Format(d.currency),
		p.ProjectReceipts.Format(d.currency),
		theme.BalanceStyle(p.Status()).Render(p.RemainingBalance.Format(d.currency)),
		singleLine(p.ProjectNotes),
	}

	line := prefix + renderCells(cells, m.Width()-rowIndent)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// renderHeader draws the column titles aligned with RowDelegate rows.
func renderHeader(width int) string {
	titles := make([]string, len(columns))
	for i, c := range columns {
		titles[i] = c.title
	}
	return theme.ColumnHeaderStyle.Render("  " + renderCells(titles, width-rowIndent))
}

func renderCells(cells []string, width int) string {
	fixed := 0
	for _, c := range columns {
		fixed += c.width + 1
	}
	rest := width - fixed
	if rest < 8 {
		rest = 8
	}

	out := make([]string, len(cells))
	for i, text := range cells {
		c := columns[i]
		w := c.width
		if w == 0 {
			w = rest
		}
		out[i] = lipgloss.NewStyle().
			Width(w).
			MaxWidth(w).
			Align(c.align).
			Render(truncate(text, w))
	}
	return strings.Join(out, " ")
}

// truncate shortens plain text to fit w cells, marking the cut with "…".
// Styled text is left to MaxWidth.
func truncate(s string, w int) string {
	if lipgloss.Width(s) <= w || strings.Contains(s, "\x1b") {
		return s
	}
	r := []rune(s)
	if w <= 1 || len(r) <= 1 {
		return string(r[:min(len(r), w)])
	}
	for len(r) > 0 && lipgloss.Width(string(r))+1 > w {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
