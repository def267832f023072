package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"podinsights/internal/filter"
	"podinsights/internal/util"
)

func (m *Model) View() string {
	var v string
	if m.screen == screenDetail {
		v = m.renderDetail()
	} else {
		v = m.renderFeed()
	}
	if m.modalActive {
		// Dim the background content while keeping it visible
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

func (m *Model) renderSidebar() string {
	counts := m.state.UnreadCounts()
	active := m.state.ActiveTab().ID
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Podcast Insights") + "\n\n")
	tabs := m.state.Tabs()
	for i, t := range tabs {
		if i == 2 {
			b.WriteString(m.styles.Muted.Render("Companies") + "\n")
		}
		if t.Kind == filter.KindCustom && tabs[i-1].Kind != filter.KindCustom {
			b.WriteString("\n" + m.styles.Muted.Render("Custom") + "\n")
		}
		name := util.Ellipsize(t.Name, sidebarWidth-10)
		badge := ""
		if n := counts[t.ID]; n > 0 {
			badge = " " + m.styles.Badge.Render(fmt.Sprint(n))
		}
		if t.ID == active {
			b.WriteString(m.styles.TabActive.Render("▸ "+name) + badge + "\n")
		} else {
			b.WriteString(m.styles.TabInactive.Render("  "+name) + badge + "\n")
		}
		if i == 1 {
			b.WriteString("\n")
		}
	}
	return m.styles.Sidebar.Width(sidebarWidth).Render(b.String())
}

func (m *Model) renderFeed() string {
	header := m.styles.Title.Render(m.state.ActiveTab().Name)
	if m.state.ShowArchived() {
		header += m.styles.Muted.Render("  (archived)")
	}
	header += m.styles.Muted.Render(fmt.Sprintf("  sort:%s  %d shown", m.state.Sort().Label(), len(m.rows)))

	body := m.tbl.View()
	if len(m.rows) == 0 {
		body = m.styles.Muted.Render("\n  No insights here.")
		if m.state.ShowArchived() {
			body = m.styles.Muted.Render("\n  Nothing archived in this tab.")
		}
	}
	main := lipgloss.JoinVertical(lipgloss.Left, header, body)
	top := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), " ", main)
	return lipgloss.JoinVertical(lipgloss.Left, top, m.bottomLine(), m.statusLine())
}

// bottomLine is the inline input, or the active criteria summary.
func (m *Model) bottomLine() string {
	switch m.inlineMode {
	case inlineSearch:
		return fmt.Sprintf("%s    [enter]=apply [esc]=cancel", m.search.View())
	case inlineFilter:
		return fmt.Sprintf("%s    [enter]=apply [esc]=cancel [F]=clear", m.search.View())
	}
	if s := criteriaSummary(m.state.Criteria()); s != "" {
		return s + "    [F]=clear filter"
	}
	// keep layout stable
	if m.termWidth > 0 {
		return strings.Repeat(" ", m.termWidth)
	}
	return ""
}

func (m *Model) statusLine() string {
	hint := "[?]=help"
	if m.screen == screenDetail {
		hint = "[esc]=back [i]=chat [?]=help"
	}
	status := fmt.Sprintf("%d insights | %s", m.state.Len(), hint)
	if m.cfg.Follow {
		status += " | following " + m.cfg.FilePath
	}
	if m.lastMsg != "" {
		status += " | " + m.lastMsg
	}
	return m.styles.Status.Render(status)
}

func (m *Model) renderDetail() string {
	d, ok := m.state.Detail()
	if !ok {
		return m.renderFeed()
	}
	left := lipgloss.JoinVertical(lipgloss.Left, m.infoVP.View(), "", m.renderPlayer())

	chatTitle := m.styles.Title.Render("Chat about this insight")
	if d.Chat.HasUserMessage {
		chatTitle += m.styles.Muted.Render("  " + d.Chat.Title)
	}
	input := m.chatIn.View()
	if d.Typing {
		input = m.styles.Muted.Render(m.spin.View() + " waiting for reply...")
	}
	right := lipgloss.JoinVertical(lipgloss.Left, chatTitle, m.chatVP.View(), input)

	leftStyle, rightStyle := m.styles.PaneFocused, m.styles.Pane
	if m.chatFocus {
		leftStyle, rightStyle = m.styles.Pane, m.styles.PaneFocused
	}
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		leftStyle.Width(m.infoVP.Width+2).Render(left),
		rightStyle.Width(m.chatVP.Width+2).Render(right),
	)
	return lipgloss.JoinVertical(lipgloss.Left, panes, m.statusLine())
}
