package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Base        lipgloss.Style
	Status      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Badge       lipgloss.Style
	Sidebar     lipgloss.Style
	Help        lipgloss.Style
	Title       lipgloss.Style
	Muted       lipgloss.Style
	UserMsg     lipgloss.Style
	BotMsg      lipgloss.Style
	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PopupBox    lipgloss.Style
	PopupTitle  lipgloss.Style
	Score       map[string]lipgloss.Style
	TableStyles TableStyles

	JSONKey    lipgloss.Style
	JSONString lipgloss.Style
	JSONNumber lipgloss.Style
	JSONBool   lipgloss.Style
	JSONNull   lipgloss.Style
	JSONPunct  lipgloss.Style
}

type TableStyles struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	accent, muted, border := lipgloss.Color("81"), lipgloss.Color("240"), lipgloss.Color("60")
	if dark {
		s.Base = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.UserMsg = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("81")).Padding(0, 1)
		s.BotMsg = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
		s.JSONKey = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
		s.JSONString = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
		s.JSONNumber = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
	} else {
		accent, muted, border = lipgloss.Color("27"), lipgloss.Color("8"), lipgloss.Color("12")
		s.Base = lipgloss.NewStyle()
		s.UserMsg = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("27")).Padding(0, 1)
		s.BotMsg = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("254")).Padding(0, 1)
		s.JSONKey = lipgloss.NewStyle().Foreground(lipgloss.Color("27"))
		s.JSONString = lipgloss.NewStyle().Foreground(lipgloss.Color("28"))
		s.JSONNumber = lipgloss.NewStyle().Foreground(lipgloss.Color("130"))
	}
	s.Status = lipgloss.NewStyle().Foreground(muted)
	s.TabActive = lipgloss.NewStyle().Bold(true).Foreground(accent)
	s.TabInactive = lipgloss.NewStyle().Foreground(muted)
	s.Badge = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(accent).Padding(0, 1)
	s.Sidebar = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(border).PaddingRight(1)
	s.Help = lipgloss.NewStyle().Foreground(muted)
	s.Title = lipgloss.NewStyle().Bold(true).Foreground(accent)
	s.Muted = lipgloss.NewStyle().Foreground(muted)
	s.Pane = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)
	s.PaneFocused = s.Pane.BorderForeground(accent)
	s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(1, 2)
	s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	s.JSONBool = lipgloss.NewStyle().Foreground(lipgloss.Color("177"))
	s.JSONNull = lipgloss.NewStyle().Foreground(muted)
	s.JSONPunct = lipgloss.NewStyle().Foreground(muted)
	s.Score = map[string]lipgloss.Style{
		"high": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		"mid":  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		"low":  lipgloss.NewStyle().Foreground(muted),
	}
	s.TableStyles = TableStyles{
		Header:   lipgloss.NewStyle().Bold(true).PaddingRight(1),
		Cell:     lipgloss.NewStyle().PaddingRight(1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")),
	}
	return s
}

// ScoreStyle buckets an impact score.
func (s Styles) ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 85:
		return s.Score["high"]
	case score >= 70:
		return s.Score["mid"]
	default:
		return s.Score["low"]
	}
}
