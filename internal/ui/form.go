package ui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"podinsights/internal/model"
	"podinsights/internal/util"
)

type tabForm struct {
	Name      string
	Companies []string
	Sectors   string
	Keywords  string
}

func (f *tabForm) filters() model.TabFilters {
	return model.TabFilters{
		Companies: f.Companies,
		Sectors:   util.SplitList(f.Sectors),
		Keywords:  util.SplitList(f.Keywords),
	}
}

func (m *Model) newTabForm() *huh.Form {
	data := &tabForm{}
	m.formData = data
	companies := m.state.Companies()
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Tab name").
				Placeholder("AI Leaders").
				Value(&data.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewMultiSelect[string]().
				Title("Companies").
				Description("space to toggle, at least one").
				Options(huh.NewOptions(companies...)...).
				Value(&data.Companies).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return errors.New("select at least one company")
					}
					return nil
				}),
			huh.NewInput().
				Title("Sectors").
				Description("comma separated, optional").
				Value(&data.Sectors),
			huh.NewInput().
				Title("Keywords").
				Description("comma separated, optional").
				Value(&data.Keywords),
		),
	).WithShowHelp(true).WithWidth(60)
	// Embedded: completion is detected from form.State, not by quitting.
	form.SubmitCmd = nil
	form.CancelCmd = nil
	return form
}

func (m *Model) openCreateTab() tea.Cmd {
	m.form = m.newTabForm()
	m.modalActive = true
	m.modalKind = modalCreateTab
	m.modalTitle = "New tab"
	return m.form.Init()
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.closeForm("cancelled")
		return nil
	}
	fm, cmd := m.form.Update(msg)
	if f, ok := fm.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		tab, err := m.state.CreateTab(m.formData.Name, m.formData.filters())
		if err != nil {
			m.closeForm("tab not created: " + err.Error())
			return nil
		}
		m.closeForm("created tab " + tab.Name)
		m.refresh()
		return nil
	case huh.StateAborted:
		m.closeForm("cancelled")
		return nil
	}
	return cmd
}

func (m *Model) closeForm(status string) {
	m.form = nil
	m.formData = nil
	m.modalActive = false
	m.modalKind = modalNone
	m.lastMsg = status
}
