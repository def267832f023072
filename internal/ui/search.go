package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"podinsights/internal/filter"
)

func (m *Model) openInline(mode inlineMode) tea.Cmd {
	m.inlineMode = mode
	c := m.state.Criteria()
	switch mode {
	case inlineSearch:
		m.search.Prompt = "/"
		m.search.Placeholder = "search title, summary, company... (text or /regex/)"
		q := c.Query
		if c.UseRegex && q != "" {
			q = "/" + q + "/"
		}
		m.search.SetValue(q)
	case inlineFilter:
		m.search.Prompt = "expr> "
		m.search.Placeholder = `score >= 80 && category == "NVIDIA"`
		m.search.SetValue(c.Expr)
	}
	m.search.CursorEnd()
	return m.search.Focus()
}

// applyInline installs the typed query or expression. A bad expression keeps
// the previous criteria and reports the error on the status line.
func (m *Model) applyInline() {
	v := strings.TrimSpace(m.search.Value())
	c := m.state.Criteria()
	switch m.inlineMode {
	case inlineSearch:
		c.Query, c.UseRegex = filter.ParseQuery(v)
	case inlineFilter:
		c.Expr = v
	}
	if err := m.state.SetCriteria(c); err != nil {
		m.lastMsg = "filter error: " + err.Error()
		return
	}
	m.lastMsg = ""
	m.closeInline()
	m.refresh()
}

func (m *Model) closeInline() {
	m.inlineMode = inlineNone
	m.search.Blur()
}

func (m *Model) clearCriteria() {
	_ = m.state.SetCriteria(filter.Criteria{})
	m.lastMsg = "filter cleared"
	m.refresh()
}

func criteriaSummary(c filter.Criteria) string {
	var parts []string
	if c.Query != "" {
		q := c.Query
		if c.UseRegex {
			q = "/" + q + "/"
		}
		parts = append(parts, "search: "+q)
	}
	if strings.TrimSpace(c.Expr) != "" {
		parts = append(parts, "expr: "+c.Expr)
	}
	return strings.Join(parts, "  ")
}
