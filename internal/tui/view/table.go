package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// GridContent contains the calendar grid rows and their cell styles.
type GridContent struct {
	Rows       [][]string
	CellStyles [][]lipgloss.Style
}

// GridViewState holds data needed to render a calendar grid.
type GridViewState struct {
	InnerW       int
	GridH        int
	Headers      []string
	HeaderStyles []lipgloss.Style
	Content      GridContent
	BorderStyle  lipgloss.Style
	RowBorders   bool // month view separates week rows
	VAlign       lipgloss.Position
	Bg           lipgloss.Color
	Render       bool
}

// RenderGrid renders a scrollable calendar grid using a lipgloss table.
func RenderGrid(state GridViewState) string {
	if !state.Render || state.GridH <= 0 {
		return ""
	}

	tableWidth := state.InnerW - 2
	if tableWidth < 0 {
		tableWidth = 0
	}
	tableHeight := state.GridH
	if tableHeight < 0 {
		tableHeight = 0
	}

	t := table.New().
		Headers(state.Headers...).
		Width(tableWidth).
		Height(tableHeight).
		Border(lipgloss.RoundedBorder()).
		BorderTop(true).
		BorderBottom(true).
		BorderLeft(true).
		BorderRight(true).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(state.RowBorders).
		BorderStyle(state.BorderStyle).
		Rows(state.Content.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if col >= 0 && col < len(state.HeaderStyles) {
					return state.HeaderStyles[col]
				}
				return lipgloss.NewStyle()
			}
			if row < 0 || row >= len(state.Content.CellStyles) || col < 0 || col >= len(state.Content.CellStyles[row]) {
				return lipgloss.NewStyle()
			}
			return state.Content.CellStyles[row][col]
		})

	grid := t.Render()
	return PlaceBox(state.InnerW, state.GridH, state.VAlign, grid, state.Bg)
}
