package filter

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"podinsights/internal/model"
)

const (
	TabAll   = "all"
	TabSaved = "saved"
)

type TabKind int

const (
	KindAll TabKind = iota
	KindSaved
	KindCompany
	KindCustom
)

// Tab is a resolved view over the insight collection.
type Tab struct {
	ID      string
	Name    string
	Kind    TabKind
	Filters model.TabFilters // custom tabs only
}

type SortOption string

const (
	SortScore               SortOption = "score"
	SortAlphabetical        SortOption = "alphabetical"
	SortAlphabeticalReverse SortOption = "alphabeticalReverse"
)

var SortOptions = []SortOption{SortScore, SortAlphabetical, SortAlphabeticalReverse}

func (o SortOption) Valid() bool {
	for _, s := range SortOptions {
		if s == o {
			return true
		}
	}
	return false
}

func (o SortOption) Label() string {
	switch o {
	case SortAlphabetical:
		return "A-Z"
	case SortAlphabeticalReverse:
		return "Z-A"
	default:
		return "score"
	}
}

// Group is one month section of the feed.
type Group struct {
	Month    string
	Insights []model.Insight
}

// Member reports whether in belongs to tab t. Unknown kinds behave like "all".
func Member(in model.Insight, t Tab) bool {
	switch t.Kind {
	case KindSaved:
		return in.Saved
	case KindCompany:
		return in.Category == t.ID
	case KindCustom:
		return MatchesCustom(in, t.Filters)
	default:
		return true
	}
}

// MatchesCustom applies the companies (required) / sectors / keywords rules.
func MatchesCustom(in model.Insight, f model.TabFilters) bool {
	if !intersects(in.Companies, f.Companies) {
		return false
	}
	if len(f.Sectors) > 0 && !intersects(in.Sectors, f.Sectors) {
		return false
	}
	if len(f.Keywords) > 0 && !intersects(in.Keywords, f.Keywords) {
		return false
	}
	return true
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	for _, v := range a {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}

// Apply keeps members of t whose archived flag equals showArchived, then sorts.
func Apply(insights []model.Insight, t Tab, opt SortOption, showArchived bool) []model.Insight {
	out := make([]model.Insight, 0, len(insights))
	for _, in := range insights {
		if in.Archived != showArchived || !Member(in, t) {
			continue
		}
		out = append(out, in)
	}
	Sort(out, opt)
	return out
}

// Sort orders insights in place; ties keep their input order.
func Sort(insights []model.Insight, opt SortOption) {
	switch opt {
	case SortAlphabetical, SortAlphabeticalReverse:
		col := collate.New(language.English)
		sort.SliceStable(insights, func(i, j int) bool {
			c := col.CompareString(insights[i].Title, insights[j].Title)
			if opt == SortAlphabeticalReverse {
				return c > 0
			}
			return c < 0
		})
	default:
		sort.SliceStable(insights, func(i, j int) bool {
			return insights[i].Score > insights[j].Score
		})
	}
}

// GroupByMonth partitions sorted insights following order. Months outside
// order are dropped, empty months are omitted.
func GroupByMonth(sorted []model.Insight, order []string) []Group {
	byMonth := make(map[string][]model.Insight, len(order))
	for _, in := range sorted {
		byMonth[in.Month] = append(byMonth[in.Month], in)
	}
	var out []Group
	for _, m := range order {
		if items := byMonth[m]; len(items) > 0 {
			out = append(out, Group{Month: m, Insights: items})
		}
	}
	return out
}

func ComputeView(insights []model.Insight, t Tab, opt SortOption, showArchived bool, order []string) []Group {
	return GroupByMonth(Apply(insights, t, opt, showArchived), order)
}

// UnreadCounts counts non-archived, unviewed members per tab id.
func UnreadCounts(insights []model.Insight, tabs []Tab) map[string]int {
	counts := make(map[string]int, len(tabs))
	for _, t := range tabs {
		n := 0
		for _, in := range insights {
			if in.Unread() && Member(in, t) {
				n++
			}
		}
		counts[t.ID] = n
	}
	return counts
}
