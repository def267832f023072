package ui

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	// Feed
	Open        tea.Key
	NextTab     tea.Key
	PrevTab     tea.Key
	Save        tea.Key
	Archive     tea.Key
	ArchiveView tea.Key
	Sort        tea.Key
	NewTab      tea.Key
	Search      tea.Key
	Filter      tea.Key
	ClearFilter tea.Key
	Export      tea.Key
	Top         tea.Key
	Bottom      tea.Key
	// Detail
	Back        tea.Key
	FocusChat   tea.Key
	Play        tea.Key
	SkipBack    tea.Key
	SkipForward tea.Key
	Mute        tea.Key
	VolumeUp    tea.Key
	VolumeDown  tea.Key
	Source      tea.Key // first of 1-9
	Copy        tea.Key
	ExportChat  tea.Key
	ViewRaw     tea.Key
	// Global
	AppLogs tea.Key
	Help    tea.Key
	Quit    tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open:        tea.Key{Type: tea.KeyEnter},
		NextTab:     tea.Key{Type: tea.KeyTab},
		PrevTab:     tea.Key{Type: tea.KeyShiftTab},
		Save:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'s'}},
		Archive:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'a'}},
		ArchiveView: tea.Key{Type: tea.KeyRunes, Runes: []rune{'A'}},
		Sort:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'o'}},
		NewTab:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'n'}},
		Search:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		Filter:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'f'}},
		ClearFilter: tea.Key{Type: tea.KeyRunes, Runes: []rune{'F'}},
		Export:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'e'}},
		Top:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'g'}},
		Bottom:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'G'}},
		Back:        tea.Key{Type: tea.KeyEsc},
		FocusChat:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'i'}},
		Play:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'p'}},
		SkipBack:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'['}},
		SkipForward: tea.Key{Type: tea.KeyRunes, Runes: []rune{']'}},
		Mute:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'m'}},
		VolumeUp:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'+'}},
		VolumeDown:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'-'}},
		Source:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'1'}},
		Copy:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'c'}},
		ExportChat:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'E'}},
		ViewRaw:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'v'}},
		AppLogs:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		Help:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'?'}},
		Quit:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}

// sourceIndex maps the digit keys 1-9 to a zero-based source index.
func sourceIndex(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '1'), true
}
