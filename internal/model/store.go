package model

import (
	"sync"
)

// Store owns the insight collection and its per-insight flags. Every
// mutation targets a single insight; unknown ids are ignored.
type Store struct {
	mu    sync.RWMutex
	items []Insight
	index map[string]int
}

func NewStore(items []Insight) *Store {
	s := &Store{index: make(map[string]int, len(items))}
	for _, in := range items {
		s.Add(in)
	}
	return s
}

// Add appends an insight. Duplicate ids are rejected.
func (s *Store) Add(in Insight) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[in.ID]; ok || in.ID == "" {
		return false
	}
	s.index[in.ID] = len(s.items)
	s.items = append(s.items, in)
	return true
}

func (s *Store) Get(id string) (Insight, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Insight{}, false
	}
	return s.items[i], true
}

// All returns a snapshot in insertion order.
func (s *Store) All() []Insight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Insight, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ToggleSaved flips the saved flag and returns the new value.
func (s *Store) ToggleSaved(id string) (saved bool, ok bool) {
	s.update(id, func(in *Insight) {
		in.Saved = !in.Saved
		saved = in.Saved
		ok = true
	})
	return saved, ok
}

// Archive sets archived=true. There is no way back.
func (s *Store) Archive(id string) bool {
	changed := false
	s.update(id, func(in *Insight) {
		changed = !in.Archived
		in.Archived = true
	})
	return changed
}

// MarkViewed reports whether the flag transitioned from false to true.
func (s *Store) MarkViewed(id string) bool {
	changed := false
	s.update(id, func(in *Insight) {
		changed = !in.Viewed
		in.Viewed = true
	})
	return changed
}

func (s *Store) MarkHasChat(id string) bool {
	changed := false
	s.update(id, func(in *Insight) {
		changed = !in.HasChat
		in.HasChat = true
	})
	return changed
}

func (s *Store) update(id string, fn func(*Insight)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[id]; ok {
		fn(&s.items[i])
	}
}

// Companies lists distinct categories in first-seen order.
func (s *Store) Companies() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for _, in := range s.items {
		if in.Category == "" || seen[in.Category] {
			continue
		}
		seen[in.Category] = true
		out = append(out, in.Category)
	}
	return out
}
