package ui

import (
	"podinsights/internal/model"
)

// refresh rebuilds the table from the feed state, keeping the cursor on the
// same insight when it is still visible.
func (m *Model) refresh() {
	keep := ""
	if cur, ok := m.current(); ok {
		keep = cur.ID
	}
	rows, items := rowsFor(m.state.Visible())
	m.rows = items
	m.tbl.SetRows(rows)
	idx := 0
	for i, in := range items {
		if in.ID == keep {
			idx = i
			break
		}
	}
	if len(items) == 0 {
		idx = 0
	} else if idx >= len(items) {
		idx = len(items) - 1
	}
	m.tbl.SetCursor(idx)
}

func (m *Model) current() (model.Insight, bool) {
	i := m.tbl.Cursor()
	if i < 0 || i >= len(m.rows) {
		return model.Insight{}, false
	}
	return m.rows[i], true
}

// resize fits the feed table and the detail panes to the terminal.
func (m *Model) resize() {
	w, h := m.termWidth, m.termHeight
	if w <= 0 || h <= 0 {
		return
	}
	tw := w - sidebarWidth - 2
	if tw < 40 {
		tw = 40
	}
	th := h - 4
	if th < 3 {
		th = 3
	}
	m.tbl.SetWidth(tw)
	m.tbl.SetHeight(th)
	m.tbl.SetColumns(m.columns(tw))

	left := w * 3 / 5
	right := w - left
	paneH := h - 6
	if paneH < 5 {
		paneH = 5
	}
	m.infoVP.Width = left - 4
	m.infoVP.Height = paneH
	m.chatVP.Width = right - 4
	m.chatVP.Height = paneH - 2
	m.chatIn.Width = right - 8
	m.md.SetWidth(m.infoVP.Width)
	if m.screen == screenDetail {
		m.syncDetail()
	}
	if m.modalActive {
		m.resizeModal()
	}
}
