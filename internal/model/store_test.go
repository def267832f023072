package model

import "testing"

func newTestStore() *Store {
	return NewStore([]Insight{
		{ID: "apple-1", Title: "Apple AI", Category: "Apple"},
		{ID: "nvidia-1", Title: "NVIDIA chips", Category: "NVIDIA"},
		{ID: "apple-2", Title: "Apple services", Category: "Apple"},
	})
}

func TestToggleSaved(t *testing.T) {
	s := newTestStore()
	saved, ok := s.ToggleSaved("apple-1")
	if !ok || !saved {
		t.Fatalf("first toggle: saved=%v ok=%v", saved, ok)
	}
	saved, _ = s.ToggleSaved("apple-1")
	if saved {
		t.Fatal("second toggle should unsave")
	}
	other, _ := s.Get("nvidia-1")
	if other.Saved {
		t.Fatal("toggle leaked into another insight")
	}
}

func TestArchiveIdempotent(t *testing.T) {
	s := newTestStore()
	if !s.Archive("nvidia-1") {
		t.Fatal("first archive should report a change")
	}
	if s.Archive("nvidia-1") {
		t.Fatal("second archive should be a no-op")
	}
	in, _ := s.Get("nvidia-1")
	if !in.Archived {
		t.Fatal("insight should stay archived")
	}
}

func TestMarkViewedOnce(t *testing.T) {
	s := newTestStore()
	if !s.MarkViewed("apple-2") {
		t.Fatal("expected transition")
	}
	if s.MarkViewed("apple-2") {
		t.Fatal("viewed must be set exactly once")
	}
}

func TestUnknownIDIsNoop(t *testing.T) {
	s := newTestStore()
	before := s.All()
	if _, ok := s.ToggleSaved("missing"); ok {
		t.Fatal("toggle on missing id reported ok")
	}
	s.Archive("missing")
	s.MarkViewed("missing")
	s.MarkHasChat("missing")
	after := s.All()
	for i := range before {
		if before[i].Saved != after[i].Saved || before[i].Archived != after[i].Archived ||
			before[i].Viewed != after[i].Viewed || before[i].HasChat != after[i].HasChat {
			t.Fatalf("entry %s changed", before[i].ID)
		}
	}
}

func TestAddRejectsDuplicates(t *testing.T) {
	s := newTestStore()
	if s.Add(Insight{ID: "apple-1"}) {
		t.Fatal("duplicate id accepted")
	}
	if !s.Add(Insight{ID: "google-1", Category: "Google"}) {
		t.Fatal("new id rejected")
	}
	if got := s.Companies(); len(got) != 3 || got[2] != "Google" {
		t.Fatalf("companies: %v", got)
	}
}
