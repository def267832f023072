package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"podinsights/internal/audio"
	"podinsights/internal/chat"
	"podinsights/internal/export"
	"podinsights/internal/util"
	"podinsights/internal/util/logx"
)

func (m *Model) openDetail(id string) tea.Cmd {
	if _, err := m.state.SelectInsight(id); err != nil {
		m.lastMsg = err.Error()
		return nil
	}
	m.screen = screenDetail
	m.chatFocus = false
	m.chatIn.Reset()
	m.chatIn.Blur()
	m.stopPlayer()
	m.source = 0
	m.infoVP.GotoTop()
	m.syncDetail()
	m.chatVP.GotoBottom()
	return nil
}

func (m *Model) closeDetail() {
	m.stopPlayer()
	m.state.CloseDetail()
	m.screen = screenFeed
	m.chatFocus = false
	m.chatIn.Blur()
	m.refresh()
}

// syncDetail re-renders both panes from a fresh snapshot. If the insight went
// away (archived) it falls back to the feed.
func (m *Model) syncDetail() {
	d, ok := m.state.Detail()
	if !ok {
		if m.screen == screenDetail {
			m.stopPlayer()
			m.screen = screenFeed
			m.refresh()
		}
		return
	}
	key := fmt.Sprintf("%s:%v:%d", d.Insight.ID, d.Insight.Saved, m.md.width)
	m.infoVP.SetContent(m.md.Render(key, analysisMarkdown(d)))
	m.chatVP.SetContent(m.renderMessages(d.Chat.Messages, d.Typing))
}

func (m *Model) renderMessages(msgs []chat.Message, typing bool) string {
	width := m.chatVP.Width - 4
	if width < 10 {
		width = 10
	}
	var b strings.Builder
	for _, msg := range msgs {
		text := wordwrap.String(msg.Content, width)
		stamp := m.styles.Muted.Render(msg.Time.Format("15:04"))
		if msg.Role == chat.RoleUser {
			b.WriteString(m.styles.Muted.Render("you ") + stamp + "\n")
			b.WriteString(m.styles.UserMsg.Render(text))
		} else {
			b.WriteString(m.styles.Muted.Render("assistant ") + stamp + "\n")
			b.WriteString(m.styles.BotMsg.Render(text))
		}
		b.WriteString("\n\n")
	}
	if typing {
		b.WriteString(m.spin.View() + " typing...")
	}
	return b.String()
}

// sendChat submits the input line and returns the command that resolves the
// reply off the UI loop.
func (m *Model) sendChat() tea.Cmd {
	d, ok := m.state.Detail()
	if !ok {
		return nil
	}
	text := m.chatIn.Value()
	p, err := m.state.SendChatMessage(d.Insight.ID, text)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return nil
	case err != nil:
		m.lastMsg = err.Error()
		return nil
	}
	m.chatIn.Reset()
	m.syncDetail()
	m.chatVP.GotoBottom()
	st := m.state
	return func() tea.Msg { return replyMsg{reply: st.ResolveReply(p)} }
}

func (m *Model) handleReply(r chat.Reply) {
	if !m.state.DeliverReply(r) {
		return
	}
	if d, ok := m.state.Detail(); ok && d.Insight.ID == r.InsightID {
		m.syncDetail()
		m.chatVP.GotoBottom()
	} else {
		m.lastMsg = "assistant replied in another chat"
	}
}

func (m *Model) togglePlay() tea.Cmd {
	if m.player.Status().URL == "" {
		return m.playSource(m.source)
	}
	if err := m.player.Toggle(); err != nil {
		m.lastMsg = "audio: " + err.Error()
		return nil
	}
	return m.nextAudioTick()
}

// playSource loads the clip of source i and starts it. Sources without a
// usable range fall back to the insight's primary clip.
func (m *Model) playSource(i int) tea.Cmd {
	d, ok := m.state.Detail()
	if !ok {
		return nil
	}
	clip := d.Insight.Clip
	if len(d.Insight.Sources) > 0 {
		if i >= len(d.Insight.Sources) {
			m.lastMsg = fmt.Sprintf("no source %d", i+1)
			return nil
		}
		if c := d.Insight.Sources[i].Clip; c.Length() > 0 {
			clip = c
		}
	}
	m.source = i
	if err := m.player.Play(clip.AudioURL, clip.Start, clip.End); err != nil {
		m.lastMsg = "audio: " + err.Error()
		return nil
	}
	return m.nextAudioTick()
}

func (m *Model) stopPlayer() {
	m.player.Stop()
	m.audioGen++
	m.clipAt = 0
}

// nextAudioTick starts a new tick chain when the clip is playing. Older
// chains see a stale generation and die out.
func (m *Model) nextAudioTick() tea.Cmd {
	m.audioGen++
	if !m.player.Status().Playing {
		return nil
	}
	return audioTickCmd(m.audioGen)
}

func audioTickCmd(gen int) tea.Cmd {
	return tea.Tick(audioTick, func(time.Time) tea.Msg { return audioTickMsg{gen: gen} })
}

func (m *Model) handleAudioTick(msg audioTickMsg) tea.Cmd {
	if msg.gen != m.audioGen {
		return nil
	}
	m.player.Advance(audioTick)
	if m.player.Status().Playing {
		return audioTickCmd(m.audioGen)
	}
	return nil
}

func (m *Model) renderPlayer() string {
	d, ok := m.state.Detail()
	if !ok {
		return ""
	}
	st := m.player.Status()
	label := ""
	if n := len(d.Insight.Sources); n > 0 && m.source < n {
		src := d.Insight.Sources[m.source]
		label = fmt.Sprintf("source %d/%d %s", m.source+1, n, src.Podcast)
		if src.Episode > 0 {
			label += fmt.Sprintf(" ep %d", src.Episode)
		}
		label += "  "
	}
	if st.URL == "" {
		clip := d.Insight.Clip
		if n := len(d.Insight.Sources); n > 0 && m.source < n && d.Insight.Sources[m.source].Clip.Length() > 0 {
			clip = d.Insight.Sources[m.source].Clip
		}
		return m.styles.Muted.Render(fmt.Sprintf("▶ %sclip %s-%s  [p]=play [1-9]=source",
			label, util.Clock(clip.Start), util.Clock(clip.End)))
	}
	icon := "⏸"
	if !st.Playing {
		icon = "▶"
	}
	elapsed, total := m.clipAt-st.Start, st.Length()
	bar := progressBar(elapsed, total, 24)
	vol := fmt.Sprintf("vol %d%%", int(st.Volume*100+0.5))
	if st.Muted {
		vol = "muted"
	}
	return fmt.Sprintf("%s %s%s %s / %s  %s  [p]=play/pause [ ]=skip %ds [m]=mute [+/-]=volume",
		icon, label, bar, util.Clock(elapsed), util.Clock(total), vol, int(audio.SkipStep/time.Second))
}

func progressBar(elapsed, total time.Duration, width int) string {
	if total <= 0 {
		return strings.Repeat("─", width)
	}
	filled := int(float64(width) * float64(elapsed) / float64(total))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

// copyDetail copies the insight summary and clip reference.
func (m *Model) copyDetail() {
	d, ok := m.state.Detail()
	if !ok {
		return
	}
	in := d.Insight
	text := fmt.Sprintf("%s\n\n%s\n\n%s ep. %d, %s-%s\n%s", in.Title, in.Summary, in.Podcast, in.Episode,
		util.Clock(in.Clip.Start), util.Clock(in.Clip.End), in.FullEpisodeURL)
	if err := copyToClipboard(text); err != nil {
		m.lastMsg = "copy failed: " + err.Error()
		return
	}
	m.lastMsg = "copied to clipboard"
}

func (m *Model) exportChat() {
	d, ok := m.state.Detail()
	if !ok {
		return
	}
	path := filepath.Join(".", fmt.Sprintf("chat-%s.md", d.Insight.ID))
	if err := export.ChatMarkdown(path, d.Chat); err != nil {
		logx.Errorf("export chat: %v", err)
		m.lastMsg = "export failed: " + err.Error()
		return
	}
	m.lastMsg = "chat exported to " + path
}
