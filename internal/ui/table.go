package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bjulian5/workops/internal/dashboard"
	"github.com/bjulian5/workops/internal/model"
)

// NewTable creates a bordered table with the default styling.
// This is a thin wrapper around lipgloss/table with opinionated defaults
func NewTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(TableBorderStyle).
		BorderRow(false).
		BorderColumn(true).
		StyleFunc(defaultTableStyleFunc)
}

// defaultTableStyleFunc provides default styling for table cells
func defaultTableStyleFunc(row, col int) lipgloss.Style {
	switch {
	case row == table.HeaderRow:
		return TableHeaderStyle
	case row%2 == 0:
		return TableCellStyle
	default:
		return TableRowAltStyle
	}
}

// RenderIterations renders the iteration list with dates, marking the
// selected iteration.
func RenderIterations(its []dashboard.Iteration) string {
	if len(its) == 0 {
		return Dim("No iterations found.")
	}

	t := NewTable().Headers("", "Iteration", "Path", "Start", "Finish")
	for _, it := range its {
		marker := ""
		if it.Current {
			marker = "►"
		}
		t.Row(marker, it.Label, it.Path, formatDate(it.StartDate), formatDate(it.FinishDate))
	}
	return t.String()
}

// RenderUsers renders the user directory.
func RenderUsers(users []model.UserEntry) string {
	if len(users) == 0 {
		return Dim("No users known yet.")
	}

	t := NewTable().Headers("Alias", "Name", "Unique name")
	for _, u := range users {
		t.Row(u.Alias, u.Identity.DisplayName, u.Identity.UniqueName)
	}
	return t.String()
}
