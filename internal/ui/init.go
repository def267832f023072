package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"podinsights/internal/audio"
	"podinsights/internal/config"
	"podinsights/internal/feed"
)

func initialModel(ctx context.Context, cfg *config.Config, st *feed.State) *Model {
	m := &Model{
		ctx:    ctx,
		cfg:    cfg,
		state:  st,
		player: audio.NewClipPlayer(audio.SilentMedia{}),
		screen: screenFeed,
		styles: NewStyles(cfg.Theme != config.ThemeLight),
		keymap: DefaultKeyMap(),
		search: textinput.New(),
		chatIn: textinput.New(),
		spin:   spinner.New(),
	}
	m.spin.Spinner = spinner.Dot
	m.search.CharLimit = 256
	m.chatIn.Placeholder = "Ask about this insight..."
	m.chatIn.CharLimit = 1000
	m.chatIn.Prompt = "> "
	m.chatVP = viewport.New(40, 10)
	m.infoVP = viewport.New(60, 20)
	m.md = newMarkdownRenderer(cfg.Theme != config.ThemeLight)

	m.player.OnPosition(func(at time.Duration) { m.clipAt = at })
	m.player.OnEnded(func() { m.lastMsg = "clip finished" })

	m.tbl = table.New(table.WithFocused(true), table.WithHeight(20))
	m.tbl.SetColumns(m.columns(100))
	ts := table.DefaultStyles()
	ts.Header = m.styles.TableStyles.Header
	ts.Cell = m.styles.TableStyles.Cell
	ts.Selected = m.styles.TableStyles.Selected
	m.tbl.SetStyles(ts)
	m.refresh()
	return m
}

func Run(ctx context.Context, cfg *config.Config, st *feed.State) error {
	m := initialModel(ctx, cfg, st)
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if cfg.UseStdin {
		// stdin carried the topic records; read keys from the terminal
		opts = append(opts, tea.WithInputTTY())
	}
	p := tea.NewProgram(m, opts...)
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(setupPipeline(m), m.spin.Tick)
}
