package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"podinsights/internal/audio"
	"podinsights/internal/chat"
	"podinsights/internal/config"
	"podinsights/internal/feed"
	"podinsights/internal/ingest"
	"podinsights/internal/model"
	"podinsights/internal/parse"
)

type screen int

const (
	screenFeed screen = iota
	screenDetail
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalLogs
	modalRaw
	modalCreateTab
)

type inlineMode int

const (
	inlineNone inlineMode = iota
	inlineSearch
	inlineFilter
)

const (
	sidebarWidth = 28
	audioTick    = 250 * time.Millisecond
	volumeStep   = 0.1
)

type Model struct {
	ctx   context.Context
	cfg   *config.Config
	state *feed.State

	player   *audio.ClipPlayer
	clipAt   time.Duration
	source   int // index into the open insight's sources
	audioGen int // tags audio ticks; bumped on play, pause and stop

	// Follow pipeline
	lines  <-chan ingest.Line
	errs   <-chan error
	parser parse.Parser

	// Feed
	screen screen
	tbl    table.Model
	rows   []model.Insight

	// Detail
	chatIn    textinput.Model
	chatVP    viewport.Model
	infoVP    viewport.Model
	chatFocus bool
	md        *markdownRenderer

	// UI
	styles     Styles
	keymap     KeyMap
	search     textinput.Model
	spin       spinner.Model
	termWidth  int
	termHeight int
	lastMsg    string

	// Inline input mode for search/filter (bottom line)
	inlineMode inlineMode

	// Modal popup
	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string

	// Create-tab form
	form     *huh.Form
	formData *tabForm

	// Help menu state
	helpItems []helpItem
	helpSel   int
}

type helpItem struct {
	group string
	text  string
	key   tea.Key
}

type replyMsg struct{ reply chat.Reply }

type ingestMsg struct {
	batch ingest.Batch
	err   error
}

type audioTickMsg struct{ gen int }

func keyCmd(k tea.Key) tea.Cmd {
	return func() tea.Msg {
		if k.Type == tea.KeyRunes {
			return tea.KeyMsg{Type: k.Type, Runes: k.Runes}
		}
		return tea.KeyMsg{Type: k.Type}
	}
}

func keyLabel(k tea.Key) string {
	switch k.Type {
	case tea.KeyRunes:
		if len(k.Runes) == 1 {
			r := k.Runes[0]
			if r == ' ' {
				return "space"
			}
			return string(r)
		}
		return strings.ToLower(string(k.Runes))
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeyTab:
		return "tab"
	case tea.KeyShiftTab:
		return "shift-tab"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyPgUp:
		return "pgup"
	case tea.KeyPgDown:
		return "pgdown"
	default:
		return strings.ToLower(k.String())
	}
}
