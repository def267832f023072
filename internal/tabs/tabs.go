// Package tabs keeps the ordered tab bar: built-ins, one tab per company and
// user-defined custom tabs.
package tabs

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"podinsights/internal/filter"
	"podinsights/internal/model"
	"podinsights/internal/util/logx"
)

var (
	ErrEmptyName = errors.New("tab name is required")
	ErrNoCompany = errors.New("select at least one company")
)

// Manager is not safe for concurrent use; the UI owns it.
type Manager struct {
	companies []string
	custom    []model.CustomTab
	active    string
	now       func() time.Time
}

func NewManager(companies []string) *Manager {
	m := &Manager{active: filter.TabAll, now: time.Now}
	for _, c := range companies {
		m.AddCompany(c)
	}
	return m
}

// AddCompany registers a company tab. Returns false if it already exists.
func (m *Manager) AddCompany(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || name == filter.TabAll || name == filter.TabSaved {
		return false
	}
	for _, c := range m.companies {
		if c == name {
			return false
		}
	}
	m.companies = append(m.companies, name)
	return true
}

func (m *Manager) Companies() []string {
	return append([]string(nil), m.companies...)
}

// Create validates and stores a custom tab, then makes it active. Invalid
// input leaves the manager untouched.
func (m *Manager) Create(name string, f model.TabFilters) (model.CustomTab, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.CustomTab{}, ErrEmptyName
	}
	f = model.TabFilters{
		Companies: clean(f.Companies),
		Sectors:   clean(f.Sectors),
		Keywords:  clean(f.Keywords),
	}
	if len(f.Companies) == 0 {
		return model.CustomTab{}, ErrNoCompany
	}
	id, err := uuid.NewV7()
	if err != nil {
		return model.CustomTab{}, err
	}
	tab := model.CustomTab{
		ID:        "custom-" + id.String(),
		Name:      name,
		Filters:   f,
		CreatedAt: m.now(),
	}
	m.custom = append(m.custom, tab)
	m.active = tab.ID
	logx.Infof("tabs: created %q (%s) companies=%v sectors=%v keywords=%v",
		tab.Name, tab.ID, f.Companies, f.Sectors, f.Keywords)
	return tab, nil
}

// clean trims, drops empties and de-duplicates while keeping order.
func clean(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// SetActive switches tabs. Unknown ids are rejected.
func (m *Manager) SetActive(id string) bool {
	if _, ok := m.Lookup(id); !ok {
		logx.Warnf("tabs: unknown tab %q", id)
		return false
	}
	m.active = id
	return true
}

func (m *Manager) Active() string { return m.active }

func (m *Manager) ActiveTab() filter.Tab {
	t, _ := m.Lookup(m.active)
	return t
}

// Lookup resolves an id. Unknown ids resolve to the "all" tab with ok=false.
func (m *Manager) Lookup(id string) (filter.Tab, bool) {
	for _, t := range m.Tabs() {
		if t.ID == id {
			return t, true
		}
	}
	return filter.Tab{ID: filter.TabAll, Name: "All Insights", Kind: filter.KindAll}, false
}

// Tabs returns all, saved, company tabs and then custom tabs in creation order.
func (m *Manager) Tabs() []filter.Tab {
	out := make([]filter.Tab, 0, 2+len(m.companies)+len(m.custom))
	out = append(out,
		filter.Tab{ID: filter.TabAll, Name: "All Insights", Kind: filter.KindAll},
		filter.Tab{ID: filter.TabSaved, Name: "Saved", Kind: filter.KindSaved},
	)
	for _, c := range m.companies {
		out = append(out, filter.Tab{ID: c, Name: c, Kind: filter.KindCompany})
	}
	for _, c := range m.custom {
		out = append(out, filter.Tab{ID: c.ID, Name: c.Name, Kind: filter.KindCustom, Filters: c.Filters})
	}
	return out
}

func (m *Manager) Custom() []model.CustomTab {
	return append([]model.CustomTab(nil), m.custom...)
}

// Cycle moves the active tab by delta positions, wrapping around.
func (m *Manager) Cycle(delta int) string {
	tabs := m.Tabs()
	cur := 0
	for i, t := range tabs {
		if t.ID == m.active {
			cur = i
			break
		}
	}
	next := ((cur+delta)%len(tabs) + len(tabs)) % len(tabs)
	m.active = tabs[next].ID
	return m.active
}
