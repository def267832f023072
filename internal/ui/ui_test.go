package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"podinsights/internal/audio"
	"podinsights/internal/config"
	"podinsights/internal/dataset"
	"podinsights/internal/feed"
	"podinsights/internal/filter"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	topics, err := dataset.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	st := feed.FromTopics(context.Background(), topics, feed.Options{})
	t.Cleanup(st.Close)
	cfg := &config.Config{Theme: config.ThemeDark, Months: dataset.MonthOrder, Sort: filter.SortScore}
	m := initialModel(context.Background(), cfg, st)
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return m
}

func press(m *Model, s string) {
	switch s {
	case "enter":
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	case "tab":
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
	default:
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	}
}

func TestOpenAndCloseDetail(t *testing.T) {
	m := newTestModel(t)
	if len(m.rows) != 16 {
		t.Fatalf("expected 16 rows, got %d", len(m.rows))
	}
	first, _ := m.current()
	press(m, "enter")
	if m.screen != screenDetail {
		t.Fatal("enter should open the detail screen")
	}
	d, ok := m.state.Detail()
	if !ok || d.Insight.ID != first.ID || !d.Insight.Viewed {
		t.Fatalf("detail: %+v", d.Insight)
	}
	if !strings.Contains(stripANSI(m.View()), "Chat about this insight") {
		t.Fatal("detail view missing chat pane")
	}
	press(m, "esc")
	if m.screen != screenFeed {
		t.Fatal("esc should return to the feed")
	}
	if cur, _ := m.current(); cur.ID != first.ID || cur.Unread() {
		t.Fatalf("cursor moved or row still unread: %+v", cur)
	}
}

func TestSaveAndSavedTab(t *testing.T) {
	m := newTestModel(t)
	cur, _ := m.current()
	press(m, "s")
	press(m, "tab")
	if m.state.ActiveTab().ID != filter.TabSaved {
		t.Fatalf("active tab = %s", m.state.ActiveTab().ID)
	}
	if len(m.rows) != 1 || m.rows[0].ID != cur.ID {
		t.Fatalf("saved tab rows: %d", len(m.rows))
	}
}

func TestArchiveAndArchiveView(t *testing.T) {
	m := newTestModel(t)
	cur, _ := m.current()
	press(m, "a")
	if len(m.rows) != 15 {
		t.Fatalf("expected 15 rows after archive, got %d", len(m.rows))
	}
	press(m, "A")
	if len(m.rows) != 1 || m.rows[0].ID != cur.ID {
		t.Fatal("archive view should list the archived insight")
	}
}

func TestInlineFilter(t *testing.T) {
	m := newTestModel(t)
	press(m, "f")
	if m.inlineMode != inlineFilter {
		t.Fatal("f should open the filter line")
	}
	m.search.SetValue(`category == "Apple"`)
	press(m, "enter")
	if len(m.rows) != 4 {
		t.Fatalf("expected 4 Apple rows, got %d", len(m.rows))
	}
	press(m, "f")
	m.search.SetValue("score >")
	press(m, "enter")
	if m.inlineMode != inlineFilter || !strings.HasPrefix(m.lastMsg, "filter error") {
		t.Fatal("bad expression should keep the input open and report")
	}
	press(m, "esc")
	press(m, "F")
	if len(m.rows) != 16 {
		t.Fatalf("clear filter: %d rows", len(m.rows))
	}
}

func TestChatRoundTrip(t *testing.T) {
	m := newTestModel(t)
	press(m, "enter")
	press(m, "i")
	if !m.chatFocus {
		t.Fatal("i should focus the chat input")
	}
	m.chatIn.SetValue("What about interest rates?")
	cmd := m.sendChat()
	if cmd == nil {
		t.Fatal("expected a reply command")
	}
	d, _ := m.state.Detail()
	if !d.Insight.HasChat || !d.Typing {
		t.Fatal("hasChat and typing should be set on send")
	}
	m.Update(cmd())
	d, _ = m.state.Detail()
	if d.Typing || len(d.Chat.Messages) != 3 {
		t.Fatalf("reply not applied: %+v", d.Chat.Messages)
	}
	if !strings.HasPrefix(d.Chat.Messages[2].Content, "On rates:") {
		t.Fatalf("unexpected reply %q", d.Chat.Messages[2].Content)
	}
}

func TestClipControls(t *testing.T) {
	m := newTestModel(t)
	press(m, "enter")
	press(m, "p")
	st := m.player.Status()
	if !st.Playing {
		t.Fatal("p should start the clip")
	}
	press(m, "]")
	if m.player.Status().Elapsed() != audio.SkipStep {
		t.Fatalf("skip: %s", m.player.Status().Elapsed())
	}
	press(m, "p")
	if m.player.Status().Playing {
		t.Fatal("p should pause")
	}
	press(m, "esc")
	if m.player.Status().URL != "" {
		t.Fatal("leaving the detail screen should unload the clip")
	}
}

func TestHelpModal(t *testing.T) {
	m := newTestModel(t)
	press(m, "?")
	if !m.modalActive || m.modalKind != modalHelp {
		t.Fatal("help modal not open")
	}
	if !strings.Contains(stripANSI(m.View()), "Open insight") {
		t.Fatal("help text missing")
	}
	press(m, "esc")
	if m.modalActive {
		t.Fatal("esc should close the modal")
	}
}

func openInsight(t *testing.T, m *Model, id string) {
	t.Helper()
	m.openDetail(id)
	if m.screen != screenDetail {
		t.Fatalf("could not open %s: %s", id, m.lastMsg)
	}
}

func TestPauseResumeKeepsOneTickChain(t *testing.T) {
	m := newTestModel(t)
	openInsight(t, m, "nvidia-2")
	press(m, "p")
	first := m.audioGen
	press(m, "p")
	press(m, "p")
	if !m.player.Status().Playing {
		t.Fatal("expected the clip to be playing after resume")
	}
	start := m.player.Status().Position
	// the chain started by the first play is still in flight
	if cmd := m.handleAudioTick(audioTickMsg{gen: first}); cmd != nil {
		t.Fatal("stale tick should end its chain")
	}
	if cmd := m.handleAudioTick(audioTickMsg{gen: m.audioGen}); cmd == nil {
		t.Fatal("current tick should schedule the next one")
	}
	if got := m.player.Status().Position - start; got != audioTick {
		t.Fatalf("playhead moved %s in one tick interval, want %s", got, audioTick)
	}
	press(m, "esc")
	if cmd := m.handleAudioTick(audioTickMsg{gen: m.audioGen - 1}); cmd != nil {
		t.Fatal("ticks from before leaving the detail screen must stop")
	}
}

func TestPlayEachSource(t *testing.T) {
	m := newTestModel(t)
	openInsight(t, m, "nvidia-2")
	d, _ := m.state.Detail()
	if len(d.Insight.Sources) != 2 {
		t.Fatalf("nvidia-2 sources: %d", len(d.Insight.Sources))
	}
	press(m, "2")
	st := m.player.Status()
	if !st.Playing || st.Start != 14*time.Minute || st.End != 16*time.Minute {
		t.Fatalf("second source not playing: %+v", st)
	}
	if m.source != 1 || !strings.Contains(stripANSI(m.renderPlayer()), "source 2/2") {
		t.Fatalf("player line: %q", stripANSI(m.renderPlayer()))
	}
	press(m, "1")
	if st := m.player.Status(); st.Start != 10*time.Minute+30*time.Second {
		t.Fatalf("first source start: %s", st.Start)
	}
	press(m, "3")
	if m.source != 0 || m.lastMsg != "no source 3" {
		t.Fatalf("out of range source: source=%d msg=%q", m.source, m.lastMsg)
	}
}

func TestPlayerLineFollowsPosition(t *testing.T) {
	m := newTestModel(t)
	openInsight(t, m, "nvidia-2")
	press(m, "p")
	press(m, "]")
	if m.clipAt-m.player.Status().Start != audio.SkipStep {
		t.Fatalf("clip position: %s", m.clipAt)
	}
	if !strings.Contains(stripANSI(m.renderPlayer()), "0:10 / 2:30") {
		t.Fatalf("player line: %q", stripANSI(m.renderPlayer()))
	}
	press(m, "-")
	press(m, "-")
	if !strings.Contains(stripANSI(m.renderPlayer()), "vol 80%") {
		t.Fatalf("volume not shown: %q", stripANSI(m.renderPlayer()))
	}
	press(m, "+")
	if v := m.player.Status().Volume; v < 0.89 || v > 0.91 {
		t.Fatalf("volume = %v", v)
	}
}
