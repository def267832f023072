package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"podinsights/internal/ingest"
	"podinsights/internal/parse"
	"podinsights/internal/util/logx"
)

// setupPipeline starts following the topics file when --follow is set. The
// initial contents were loaded before the UI started, so tailing begins at
// the end of the file.
func setupPipeline(m *Model) tea.Cmd {
	if !m.cfg.Follow || m.cfg.FilePath == "" {
		return nil
	}
	p, err := parse.NewParser(m.cfg.Format)
	if err != nil {
		logx.Errorf("ingest: %v", err)
		m.lastMsg = err.Error()
		return nil
	}
	m.parser = p
	m.lines, m.errs = ingest.Read(m.ctx, ingest.Options{
		Source:  ingest.SourceFile,
		Path:    m.cfg.FilePath,
		Follow:  true,
		FromEnd: true,
	})
	logx.Infof("ingest: following %s", m.cfg.FilePath)
	return m.drainCmd()
}

func (m *Model) drainCmd() tea.Cmd {
	lines, errs, p, ctx := m.lines, m.errs, m.parser, m.ctx
	return func() tea.Msg {
		b := ingest.Drain(ctx, lines, p, 256, 500*time.Millisecond)
		select {
		case err, ok := <-errs:
			if ok && err != nil {
				return ingestMsg{batch: b, err: err}
			}
		default:
		}
		return ingestMsg{batch: b}
	}
}

func (m *Model) handleIngest(msg ingestMsg) tea.Cmd {
	if msg.err != nil {
		logx.Errorf("ingest: %v", msg.err)
		m.lastMsg = "follow error: " + msg.err.Error()
	}
	if n := m.state.Ingest(msg.batch.Topics); n > 0 {
		m.lastMsg = pluralize(n, "new insight", "new insights")
		m.refresh()
	}
	if msg.batch.Bad > 0 {
		logx.Warnf("ingest: %d malformed records skipped", msg.batch.Bad)
	}
	if msg.batch.Closed {
		logx.Infof("ingest: follow stopped")
		return nil
	}
	return m.drainCmd()
}
