package ui

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"podinsights/internal/model"
	"podinsights/internal/util/logx"
)

func overlay(base, overlay string) string {
	// Draw overlay on top of base by replacing lines where overlay has content.
	bLines := strings.Split(base, "\n")
	oLines := strings.Split(overlay, "\n")
	maxLen := len(bLines)
	if len(oLines) > maxLen {
		maxLen = len(oLines)
	}
	for len(bLines) < maxLen {
		bLines = append(bLines, "")
	}
	for len(oLines) < maxLen {
		oLines = append(oLines, "")
	}
	out := make([]string, maxLen)
	for i := 0; i < maxLen; i++ {
		// Treat whitespace-only overlay lines as transparent
		if strings.TrimSpace(oLines[i]) != "" {
			out[i] = oLines[i]
		} else {
			out[i] = bLines[i]
		}
	}
	return strings.Join(out, "\n")
}

// copyToClipboard uses the system clipboard and falls back to OSC52, which
// works over SSH in many terminals.
func copyToClipboard(s string) error {
	s = stripANSI(s)
	err := clipboard.WriteAll(s)
	if err == nil {
		return nil
	}
	logx.Debugf("ui: system clipboard unavailable (%v), using OSC52", err)
	enc := base64.StdEncoding.EncodeToString([]byte(s))
	payload := fmt.Sprintf("\x1b]52;c;%s\x07", enc)
	// Write to /dev/tty to avoid clobbering the app's stdout buffer
	f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(payload)
	return err
}

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// insightFields turns an insight into the generic tree colorizeJSONRoot walks.
func insightFields(in model.Insight) any {
	b, err := json.Marshal(in)
	if err != nil {
		return map[string]any{"id": in.ID}
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return map[string]any{"id": in.ID}
	}
	return v
}

func (m *Model) openModal(kind modalKind, title, body string) {
	m.modalActive = true
	m.modalKind = kind
	m.modalTitle = title
	m.modalBody = body
	m.resizeModal()
	m.modalVP.SetContent(body)
	m.modalVP.GotoTop()
}

func (m *Model) closeModal() {
	m.modalActive = false
	m.modalKind = modalNone
}

func (m *Model) resizeModal() {
	w, h := m.termWidth*3/4, m.termHeight*3/4
	if w < 40 {
		w = 40
	}
	if h < 10 {
		h = 10
	}
	if m.modalVP.Width == 0 {
		m.modalVP = viewport.New(w-6, h-6)
		return
	}
	m.modalVP.Width = w - 6
	m.modalVP.Height = h - 6
}

func (m *Model) renderModal() string {
	var body string
	switch m.modalKind {
	case modalCreateTab:
		if m.form != nil {
			body = m.form.View()
		}
	case modalHelp:
		m.modalVP.SetContent(m.renderHelp())
		body = m.modalVP.View()
	default:
		body = m.modalVP.View()
	}
	title := m.styles.PopupTitle.Render(m.modalTitle)
	hint := m.styles.Help.Render("[esc]=close")
	if m.modalKind == modalRaw {
		hint = m.styles.Help.Render("[c]=copy [esc]=close")
	}
	box := m.styles.PopupBox.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) openLogs() {
	lines := logx.Lines()
	body := "no log lines yet"
	if len(lines) > 0 {
		body = strings.Join(lines, "\n")
	}
	m.openModal(modalLogs, "Application logs", body)
	m.modalVP.GotoBottom()
}

func (m *Model) openRaw() {
	var in model.Insight
	if d, ok := m.state.Detail(); ok && m.screen == screenDetail {
		in = d.Insight
	} else if cur, ok := m.current(); ok {
		in = cur
	} else {
		return
	}
	m.openModal(modalRaw, "Insight "+in.ID, colorizeJSONRoot(insightFields(in), m.styles))
}
