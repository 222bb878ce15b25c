package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	admin "github.com/goliatone/go-cms-admin"
	"github.com/goliatone/go-cms-admin/internal/listing"
	"github.com/goliatone/go-cms-admin/internal/render"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func renderTable(v listing.View[admin.Record]) string {
	var b strings.Builder
	if v.Banner != "" {
		b.WriteString(bannerStyle.Render(v.Banner))
		b.WriteString("\n")
	}

	rows := make([][]string, len(v.Rows))
	for i, row := range v.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cellText(cell)
		}
		rows[i] = cells
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(v.Headers...).
		Rows(rows...)
	b.WriteString(t.String())
	b.WriteString("\n")

	footer := fmt.Sprintf("%s · %d of %d records", v.PageLabel(), v.Matches, v.Total)
	if v.Empty {
		footer = fmt.Sprintf("No %s records. %s", strings.ToLower(v.Label), v.PageLabel())
	}
	b.WriteString(footerStyle.Render(footer))
	return b.String()
}

func cellText(cell render.Cell) string {
	if cell.Kind != render.KindActions {
		return cell.Display
	}
	labels := make([]string, len(cell.Actions))
	for i, action := range cell.Actions {
		labels[i] = action.Label
	}
	return strings.Join(labels, " | ")
}
