package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"

	"podinsights/internal/filter"
	"podinsights/internal/model"
	"podinsights/internal/util"
)

// columns sizes the feed table for width; the title column takes the rest.
func (m *Model) columns(width int) []table.Column {
	fixed := []table.Column{
		{Title: "Month", Width: 9},
		{Title: "", Width: 3},
		{Title: "Score", Width: 5},
		{Title: "Company", Width: 11},
		{Title: "Podcast", Width: 20},
	}
	used := 0
	for _, c := range fixed {
		used += c.Width + 1
	}
	title := width - used - 1
	if title < 20 {
		title = 20
	}
	return []table.Column{fixed[0], fixed[1], fixed[2], {Title: "Title", Width: title}, fixed[3], fixed[4]}
}

// rowsFor flattens groups; the month label only appears on a group's first row.
func rowsFor(groups []filter.Group) ([]table.Row, []model.Insight) {
	var rows []table.Row
	var items []model.Insight
	for _, g := range groups {
		for i, in := range g.Insights {
			month := ""
			if i == 0 {
				month = g.Month
			}
			rows = append(rows, table.Row{
				month,
				flags(in),
				strconv.Itoa(in.Score),
				in.Title,
				in.Category,
				util.Ellipsize(in.Podcast, 17),
			})
			items = append(items, in)
		}
	}
	return rows, items
}

// flags: unread dot, saved star, chat marker.
func flags(in model.Insight) string {
	b := []rune("   ")
	if in.Unread() {
		b[0] = '•'
	}
	if in.Saved {
		b[1] = '*'
	}
	if in.HasChat {
		b[2] = 'c'
	}
	return string(b)
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
