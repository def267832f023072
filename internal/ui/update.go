package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"podinsights/internal/audio"
	"podinsights/internal/export"
	"podinsights/internal/util/logx"
)

func (m *Model) buildHelpItems() []helpItem {
	km := m.keymap
	return []helpItem{
		{group: "Feed", text: "Previous insight", key: tea.Key{Type: tea.KeyUp}},
		{group: "Feed", text: "Next insight", key: tea.Key{Type: tea.KeyDown}},
		{group: "Feed", text: "Go to top", key: km.Top},
		{group: "Feed", text: "Go to bottom", key: km.Bottom},
		{group: "Feed", text: "Open insight", key: km.Open},
		{group: "Feed", text: "Save / unsave", key: km.Save},
		{group: "Feed", text: "Archive", key: km.Archive},

		{group: "Tabs", text: "Next tab", key: km.NextTab},
		{group: "Tabs", text: "Previous tab", key: km.PrevTab},
		{group: "Tabs", text: "New custom tab", key: km.NewTab},
		{group: "Tabs", text: "Toggle archive view", key: km.ArchiveView},
		{group: "Tabs", text: "Cycle sort", key: km.Sort},

		{group: "Search", text: "Search", key: km.Search},
		{group: "Search", text: "Filter expression", key: km.Filter},
		{group: "Search", text: "Clear search and filter", key: km.ClearFilter},

		{group: "Detail", text: "Back to feed", key: km.Back},
		{group: "Detail", text: "Focus chat input", key: km.FocusChat},
		{group: "Detail", text: "Play / pause clip", key: km.Play},
		{group: "Detail", text: "Skip back", key: km.SkipBack},
		{group: "Detail", text: "Skip forward", key: km.SkipForward},
		{group: "Detail", text: "Mute", key: km.Mute},
		{group: "Detail", text: "Volume up", key: km.VolumeUp},
		{group: "Detail", text: "Volume down", key: km.VolumeDown},
		{group: "Detail", text: "Play source n (1-9)", key: km.Source},
		{group: "Detail", text: "Copy summary", key: km.Copy},
		{group: "Detail", text: "Export chat (markdown)", key: km.ExportChat},

		{group: "Control", text: "Export view", key: km.Export},
		{group: "Control", text: "View raw insight", key: km.ViewRaw},
		{group: "Control", text: "Application logs", key: km.AppLogs},
		{group: "Control", text: "Help", key: km.Help},
		{group: "Control", text: "Quit", key: km.Quit},
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		m.resize()
		return m, nil
	case replyMsg:
		m.handleReply(msg.reply)
		return m, nil
	case ingestMsg:
		return m, m.handleIngest(msg)
	case audioTickMsg:
		return m, m.handleAudioTick(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if d, ok := m.state.Detail(); ok && d.Typing && m.screen == screenDetail {
			m.chatVP.SetContent(m.renderMessages(d.Chat.Messages, true))
		}
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.modalActive {
			return m, m.updateModal(msg)
		}
		if m.inlineMode != inlineNone {
			return m, m.updateInline(msg)
		}
		if m.screen == screenDetail {
			return m, m.updateDetail(msg)
		}
		return m, m.updateFeed(msg)
	}
	if m.modalActive && m.modalKind == modalCreateTab {
		return m, m.updateForm(msg)
	}
	if m.inlineMode != inlineNone {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	if m.chatFocus {
		var cmd tea.Cmd
		m.chatIn, cmd = m.chatIn.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateModal(msg tea.KeyMsg) tea.Cmd {
	switch m.modalKind {
	case modalCreateTab:
		return m.updateForm(msg)
	case modalHelp:
		switch {
		case msg.Type == tea.KeyUp:
			if m.helpSel > 0 {
				m.helpSel--
			}
		case msg.Type == tea.KeyDown:
			if m.helpSel+1 < len(m.helpItems) {
				m.helpSel++
			}
		case msg.Type == tea.KeyEnter:
			if len(m.helpItems) > 0 {
				it := m.helpItems[m.helpSel]
				m.closeModal()
				return keyCmd(it.key)
			}
		case msg.Type == tea.KeyEsc || keyMatches(msg, m.keymap.Quit) || keyMatches(msg, m.keymap.Help):
			m.closeModal()
		}
		return nil
	}
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter || keyMatches(msg, m.keymap.Quit) {
		m.closeModal()
		return nil
	}
	if m.modalKind == modalRaw && keyMatches(msg, m.keymap.Copy) {
		if err := copyToClipboard(m.modalBody); err != nil {
			m.lastMsg = "copy failed: " + err.Error()
		} else {
			m.lastMsg = "copied to clipboard"
		}
		return nil
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return cmd
}

func (m *Model) updateInline(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.applyInline()
		return nil
	case tea.KeyEsc:
		m.closeInline()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

func (m *Model) updateFeed(msg tea.KeyMsg) tea.Cmd {
	km := m.keymap
	switch {
	case keyMatches(msg, km.Quit):
		return tea.Quit
	case keyMatches(msg, km.Open):
		if cur, ok := m.current(); ok {
			return m.openDetail(cur.ID)
		}
	case keyMatches(msg, km.NextTab):
		m.state.CycleTab(1)
		m.refresh()
		m.tbl.GotoTop()
	case keyMatches(msg, km.PrevTab):
		m.state.CycleTab(-1)
		m.refresh()
		m.tbl.GotoTop()
	case keyMatches(msg, km.Save):
		if cur, ok := m.current(); ok {
			if saved, _ := m.state.ToggleSaved(cur.ID); saved {
				m.lastMsg = "saved"
			} else {
				m.lastMsg = "removed from saved"
			}
			m.refresh()
		}
	case keyMatches(msg, km.Archive):
		if cur, ok := m.current(); ok {
			if m.state.ArchiveInsight(cur.ID) {
				m.lastMsg = "archived " + cur.ID
			}
			m.refresh()
		}
	case keyMatches(msg, km.ArchiveView):
		if m.state.ToggleArchiveView() {
			m.lastMsg = "showing archived"
		} else {
			m.lastMsg = "showing feed"
		}
		m.refresh()
		m.tbl.GotoTop()
	case keyMatches(msg, km.Sort):
		m.lastMsg = "sort: " + m.state.CycleSort().Label()
		m.refresh()
	case keyMatches(msg, km.NewTab):
		return m.openCreateTab()
	case keyMatches(msg, km.Search):
		return m.openInline(inlineSearch)
	case keyMatches(msg, km.Filter):
		return m.openInline(inlineFilter)
	case keyMatches(msg, km.ClearFilter):
		m.clearCriteria()
	case keyMatches(msg, km.Export):
		m.exportView()
	case keyMatches(msg, km.Top):
		m.tbl.GotoTop()
	case keyMatches(msg, km.Bottom):
		m.tbl.GotoBottom()
	case keyMatches(msg, km.ViewRaw):
		m.openRaw()
	case keyMatches(msg, km.AppLogs):
		m.openLogs()
	case keyMatches(msg, km.Help):
		m.openHelp()
	default:
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateDetail(msg tea.KeyMsg) tea.Cmd {
	if m.chatFocus {
		switch msg.Type {
		case tea.KeyEsc:
			m.chatFocus = false
			m.chatIn.Blur()
			return nil
		case tea.KeyEnter:
			return tea.Batch(m.sendChat(), m.spin.Tick)
		}
		var cmd tea.Cmd
		m.chatIn, cmd = m.chatIn.Update(msg)
		return cmd
	}
	if i, ok := sourceIndex(msg); ok {
		return m.playSource(i)
	}
	km := m.keymap
	switch {
	case keyMatches(msg, km.Back):
		m.closeDetail()
	case keyMatches(msg, km.Quit):
		return tea.Quit
	case keyMatches(msg, km.FocusChat), keyMatches(msg, km.NextTab):
		m.chatFocus = true
		return m.chatIn.Focus()
	case keyMatches(msg, km.Play):
		return m.togglePlay()
	case keyMatches(msg, km.VolumeUp):
		m.player.SetVolume(m.player.Status().Volume + volumeStep)
	case keyMatches(msg, km.VolumeDown):
		m.player.SetVolume(m.player.Status().Volume - volumeStep)
	case keyMatches(msg, km.SkipBack):
		m.player.Skip(-audio.SkipStep)
	case keyMatches(msg, km.SkipForward):
		m.player.Skip(audio.SkipStep)
	case keyMatches(msg, km.Mute):
		if m.player.ToggleMute() {
			m.lastMsg = "muted"
		} else {
			m.lastMsg = "unmuted"
		}
	case keyMatches(msg, km.Save):
		if d, ok := m.state.Detail(); ok {
			m.state.ToggleSaved(d.Insight.ID)
			m.syncDetail()
		}
	case keyMatches(msg, km.Archive):
		if d, ok := m.state.Detail(); ok {
			m.state.ArchiveInsight(d.Insight.ID)
			m.lastMsg = "archived " + d.Insight.ID
			m.closeDetail()
		}
	case keyMatches(msg, km.Copy):
		m.copyDetail()
	case keyMatches(msg, km.ExportChat):
		m.exportChat()
	case keyMatches(msg, km.ViewRaw):
		m.openRaw()
	case keyMatches(msg, km.AppLogs):
		m.openLogs()
	case keyMatches(msg, km.Help):
		m.openHelp()
	default:
		var cmd tea.Cmd
		m.infoVP, cmd = m.infoVP.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) openHelp() {
	m.helpItems = m.buildHelpItems()
	m.helpSel = 0
	m.openModal(modalHelp, "Help", "")
}

func (m *Model) renderHelp() string {
	var b strings.Builder
	group := ""
	for i, it := range m.helpItems {
		if it.group != group {
			if group != "" {
				b.WriteString("\n")
			}
			group = it.group
			b.WriteString(m.styles.Title.Render(group) + "\n")
		}
		line := fmt.Sprintf("  %-10s %s", keyLabel(it.key), it.text)
		if i == m.helpSel {
			line = m.styles.TableStyles.Selected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + m.styles.Help.Render("[enter]=run [esc]=close"))
	return b.String()
}

func (m *Model) exportView() {
	format := m.cfg.ExportFormat
	if format == "" {
		format = "csv"
	}
	path := m.cfg.ExportOut
	if path == "" {
		path = "podinsights-export.csv"
		if format != "csv" {
			path = "podinsights-export.ndjson"
		}
	}
	list := m.state.VisibleList()
	if err := export.Write(format, path, list); err != nil {
		logx.Errorf("export: %v", err)
		m.lastMsg = "export failed: " + err.Error()
		return
	}
	logx.Infof("export: %d insights -> %s", len(list), path)
	m.lastMsg = fmt.Sprintf("exported %s to %s", pluralize(len(list), "insight", "insights"), path)
}
