package feed

import (
	"context"
	"strings"
	"testing"

	"podinsights/internal/chat"
	"podinsights/internal/dataset"
	"podinsights/internal/filter"
	"podinsights/internal/model"
)

func newState(t *testing.T) *State {
	t.Helper()
	topics, err := dataset.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	s := FromTopics(context.Background(), topics, Options{})
	t.Cleanup(s.Close)
	return s
}

func count(groups []filter.Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Insights)
	}
	return n
}

func TestVisibleDefault(t *testing.T) {
	s := newState(t)
	groups := s.Visible()
	if len(groups) != 3 || groups[0].Month != "April" || groups[2].Month != "February" {
		t.Fatalf("unexpected groups: %+v", groups)
	}
	if count(groups) != 16 {
		t.Fatalf("expected 16 visible insights, got %d", count(groups))
	}
	for _, g := range groups {
		for i := 1; i < len(g.Insights); i++ {
			if g.Insights[i-1].Score < g.Insights[i].Score {
				t.Fatalf("%s not sorted by score", g.Month)
			}
		}
	}
}

func TestSelectDecrementsUnread(t *testing.T) {
	s := newState(t)
	tab, err := s.CreateTab("Apple Watch", model.TabFilters{Companies: []string{"Apple"}})
	if err != nil {
		t.Fatal(err)
	}
	before := s.UnreadCounts()
	d, err := s.SelectInsight("apple-1")
	if err != nil {
		t.Fatal(err)
	}
	if !d.Insight.Viewed || d.Insight.ID != "apple-1" {
		t.Fatalf("detail snapshot: %+v", d.Insight)
	}
	if len(d.Chat.Messages) != 1 || d.Chat.Messages[0].ID != "welcome" {
		t.Fatal("chat should open with the welcome message")
	}
	after := s.UnreadCounts()
	for _, id := range []string{filter.TabAll, "Apple", tab.ID} {
		if after[id] != before[id]-1 {
			t.Errorf("%s: %d -> %d", id, before[id], after[id])
		}
	}
	if after["NVIDIA"] != before["NVIDIA"] {
		t.Error("unrelated tab changed")
	}
	s.CloseDetail()
	s.SelectInsight("apple-1")
	if again := s.UnreadCounts(); again[filter.TabAll] != after[filter.TabAll] {
		t.Fatal("second selection must not decrement again")
	}
}

func TestSelectUnknown(t *testing.T) {
	s := newState(t)
	if _, err := s.SelectInsight("nope"); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := s.Detail(); ok {
		t.Fatal("no detail should be open")
	}
}

func TestToggleSavedRefreshesDetail(t *testing.T) {
	s := newState(t)
	s.SelectInsight("nvidia-1")
	if saved, ok := s.ToggleSaved("nvidia-1"); !ok || !saved {
		t.Fatal("toggle failed")
	}
	d, ok := s.Detail()
	if !ok || !d.Insight.Saved {
		t.Fatal("detail snapshot not refreshed")
	}
	s.SetActiveTab(filter.TabSaved)
	if list := s.VisibleList(); len(list) != 1 || list[0].ID != "nvidia-1" {
		t.Fatalf("saved tab: %v", list)
	}
}

func TestArchiveClosesDetail(t *testing.T) {
	s := newState(t)
	s.SelectInsight("google-1")
	if !s.ArchiveInsight("google-1") {
		t.Fatal("archive should change state")
	}
	if _, ok := s.Detail(); ok {
		t.Fatal("archiving the open insight must close the detail view")
	}
	for _, in := range s.VisibleList() {
		if in.ID == "google-1" {
			t.Fatal("archived insight still visible")
		}
	}
	if !s.ToggleArchiveView() {
		t.Fatal("archive view should be on")
	}
	if list := s.VisibleList(); len(list) != 1 || list[0].ID != "google-1" {
		t.Fatalf("archive view: %v", list)
	}
}

func TestArchiveOtherKeepsDetail(t *testing.T) {
	s := newState(t)
	s.SelectInsight("google-1")
	s.ArchiveInsight("apple-1")
	if d, ok := s.Detail(); !ok || d.Insight.ID != "google-1" {
		t.Fatal("archiving another insight closed the detail view")
	}
}

func TestChatFlagsImmediately(t *testing.T) {
	s := newState(t)
	s.SelectInsight("microsoft-1")
	p, err := s.SendChatMessage("microsoft-1", "What about interest rates?")
	if err != nil {
		t.Fatal(err)
	}
	in := find(s.Insights(), "microsoft-1")
	if !in.HasChat {
		t.Fatal("hasChat must be set on send")
	}
	if d, _ := s.Detail(); !d.Typing {
		t.Fatal("detail should show typing")
	}
	r := s.ResolveReply(p)
	if !strings.HasPrefix(r.Content, "On rates:") {
		t.Fatalf("expected rates family, got %q", r.Content)
	}
	if !s.DeliverReply(r) {
		t.Fatal("reply not delivered")
	}
	c, _ := s.Chat("microsoft-1")
	if len(c.Messages) != 3 || c.Title != "What about..." {
		t.Fatalf("chat: %+v", c)
	}
}

func TestReplyAfterNavigationLandsInSession(t *testing.T) {
	s := newState(t)
	s.SelectInsight("apple-2")
	p, _ := s.SendChatMessage("apple-2", "bond market?")
	s.CloseDetail()
	s.SelectInsight("apple-3")
	if !s.DeliverReply(s.ResolveReply(p)) {
		t.Fatal("reply for an earlier session should still apply")
	}
	if c, _ := s.Chat("apple-3"); len(c.Messages) != 1 {
		t.Fatal("reply leaked into the open session")
	}
	if c, _ := s.Chat("apple-2"); len(c.Messages) != 3 {
		t.Fatal("reply missing from its own session")
	}
}

func TestCloseDropsReplies(t *testing.T) {
	s := newState(t)
	p, err := s.SendChatMessage("nvidia-2", "invest?")
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
	r := s.ResolveReply(p)
	if !r.Canceled || s.DeliverReply(r) {
		t.Fatalf("reply after close should be dropped: %+v", r)
	}
	if _, err := s.SendChatMessage("nvidia-2", "again"); err != chat.ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestSortAndCriteria(t *testing.T) {
	s := newState(t)
	if got := s.CycleSort(); got != filter.SortAlphabetical {
		t.Fatalf("cycle: %s", got)
	}
	if err := s.SetSort("bogus"); err == nil {
		t.Fatal("invalid sort accepted")
	}
	if err := s.SetCriteria(filter.Criteria{Expr: `category == "Salesforce"`}); err != nil {
		t.Fatal(err)
	}
	if n := len(s.VisibleList()); n != 2 {
		t.Fatalf("expected 2 Salesforce insights, got %d", n)
	}
	if err := s.SetCriteria(filter.Criteria{Expr: "score >"}); err == nil {
		t.Fatal("expected compile error")
	}
	if s.Criteria().Expr != `category == "Salesforce"` {
		t.Fatal("failed criteria replaced the previous one")
	}
	s.SetCriteria(filter.Criteria{})
	if n := len(s.VisibleList()); n != 16 {
		t.Fatalf("cleared criteria: %d", n)
	}
}

func TestIngest(t *testing.T) {
	s := newState(t)
	added := s.Ingest([]model.Topic{
		{ID: "tesla-1", Company: "Tesla", Topic: "Robotaxi", Tags: []string{"Tesla", "Autonomy"}},
		{ID: "apple-1", Company: "Apple", Topic: "dup"},
	})
	if added != 1 {
		t.Fatalf("added %d", added)
	}
	in := find(s.Insights(), "tesla-1")
	if in.Month != dataset.MonthOrder[16%len(dataset.MonthOrder)] {
		t.Fatalf("month rotation: %s", in.Month)
	}
	if !s.SetActiveTab("Tesla") {
		t.Fatal("company tab not created")
	}
	if list := s.VisibleList(); len(list) != 1 {
		t.Fatalf("tesla tab: %v", list)
	}
}

func find(items []model.Insight, id string) model.Insight {
	for _, in := range items {
		if in.ID == id {
			return in
		}
	}
	return model.Insight{}
}
