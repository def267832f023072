// Package feed is the application state container. The UI holds one *State
// and drives every mutation through it; there is no package-level state.
package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"podinsights/internal/chat"
	"podinsights/internal/dataset"
	"podinsights/internal/filter"
	"podinsights/internal/model"
	"podinsights/internal/tabs"
	"podinsights/internal/util"
	"podinsights/internal/util/logx"
)

var ErrUnknownInsight = errors.New("unknown insight")

type Options struct {
	Months     []string
	Sort       filter.SortOption
	Responder  chat.Responder
	ReplyDelay time.Duration
}

// Detail is the snapshot shown by the detail screen.
type Detail struct {
	Insight   model.Insight
	KeyPoints []string
	Chat      chat.Chat
	Typing    bool
}

type State struct {
	store *model.Store
	tabs  *tabs.Manager
	chats *chat.Sessions

	months       []string
	sortOpt      filter.SortOption
	showArchived bool
	eval         *filter.Evaluator
	selected     string

	responder chat.Responder
	delay     time.Duration
}

// New builds the state from already projected insights. ctx bounds every
// chat session.
func New(ctx context.Context, insights []model.Insight, opt Options) *State {
	if len(opt.Months) == 0 {
		opt.Months = dataset.MonthOrder
	}
	if !opt.Sort.Valid() {
		opt.Sort = filter.SortScore
	}
	if opt.Responder == nil {
		opt.Responder = chat.Canned{}
	}
	if opt.ReplyDelay < 0 {
		opt.ReplyDelay = 0
	}
	store := model.NewStore(insights)
	return &State{
		store:     store,
		tabs:      tabs.NewManager(store.Companies()),
		chats:     chat.NewSessions(ctx),
		months:    opt.Months,
		sortOpt:   opt.Sort,
		responder: opt.Responder,
		delay:     opt.ReplyDelay,
	}
}

// FromTopics projects topics and builds the state.
func FromTopics(ctx context.Context, topics []model.Topic, opt Options) *State {
	months := opt.Months
	if len(months) == 0 {
		months = dataset.MonthOrder
	}
	return New(ctx, dataset.Project(topics, 0, months), opt)
}

// Visible is the grouped list for the active tab, archive view, sort and
// search criteria.
func (s *State) Visible() []filter.Group {
	return filter.GroupByMonth(s.VisibleList(), s.months)
}

func (s *State) VisibleList() []model.Insight {
	items := filter.Apply(s.store.All(), s.tabs.ActiveTab(), s.sortOpt, s.showArchived)
	if s.eval == nil {
		return items
	}
	out := items[:0]
	for _, in := range items {
		if s.eval.Match(in) {
			out = append(out, in)
		}
	}
	return out
}

// UnreadCounts ignores the search criteria and archive view.
func (s *State) UnreadCounts() map[string]int {
	return filter.UnreadCounts(s.store.All(), s.tabs.Tabs())
}

// SelectInsight marks the insight viewed and opens it, creating its chat
// session on first open.
func (s *State) SelectInsight(id string) (Detail, error) {
	in, ok := s.store.Get(id)
	if !ok {
		return Detail{}, fmt.Errorf("%w: %s", ErrUnknownInsight, id)
	}
	if s.store.MarkViewed(id) {
		logx.Debugf("feed: %s viewed", id)
	}
	if _, created, err := s.chats.Open(id, in.Title, in.SampleChat); err != nil {
		return Detail{}, err
	} else if created {
		logx.Debugf("feed: chat opened for %s", id)
	}
	s.selected = id
	d, _ := s.Detail()
	return d, nil
}

func (s *State) CloseDetail() { s.selected = "" }

func (s *State) Selected() string { return s.selected }

// Detail returns a fresh snapshot of the open insight.
func (s *State) Detail() (Detail, bool) {
	if s.selected == "" {
		return Detail{}, false
	}
	in, ok := s.store.Get(s.selected)
	if !ok {
		return Detail{}, false
	}
	d := Detail{Insight: in, KeyPoints: util.KeyPoints(in.Summary, 4)}
	if sess, ok := s.chats.Get(in.ID); ok {
		d.Chat = sess.Chat()
		d.Typing = sess.State() == chat.Typing
	}
	return d, true
}

func (s *State) ToggleSaved(id string) (saved bool, ok bool) {
	saved, ok = s.store.ToggleSaved(id)
	if ok {
		logx.Infof("feed: %s saved=%v", id, saved)
	}
	return saved, ok
}

// ArchiveInsight hides the insight from the feed and closes it if open.
func (s *State) ArchiveInsight(id string) bool {
	changed := s.store.Archive(id)
	if changed {
		logx.Infof("feed: %s archived", id)
	}
	if s.selected == id {
		s.CloseDetail()
	}
	return changed
}

func (s *State) CreateTab(name string, f model.TabFilters) (model.CustomTab, error) {
	return s.tabs.Create(name, f)
}

func (s *State) SetActiveTab(id string) bool { return s.tabs.SetActive(id) }

func (s *State) CycleTab(delta int) string { return s.tabs.Cycle(delta) }

func (s *State) ActiveTab() filter.Tab { return s.tabs.ActiveTab() }

func (s *State) Tabs() []filter.Tab { return s.tabs.Tabs() }

func (s *State) Companies() []string { return s.tabs.Companies() }

func (s *State) ToggleArchiveView() bool {
	s.showArchived = !s.showArchived
	return s.showArchived
}

func (s *State) ShowArchived() bool { return s.showArchived }

func (s *State) SetSort(opt filter.SortOption) error {
	if !opt.Valid() {
		return fmt.Errorf("unknown sort option %q", opt)
	}
	s.sortOpt = opt
	return nil
}

// CycleSort steps through filter.SortOptions.
func (s *State) CycleSort() filter.SortOption {
	for i, o := range filter.SortOptions {
		if o == s.sortOpt {
			s.sortOpt = filter.SortOptions[(i+1)%len(filter.SortOptions)]
			return s.sortOpt
		}
	}
	s.sortOpt = filter.SortScore
	return s.sortOpt
}

func (s *State) Sort() filter.SortOption { return s.sortOpt }

// SetCriteria installs a search. A compile error keeps the previous criteria.
func (s *State) SetCriteria(c filter.Criteria) error {
	if c.Empty() {
		s.eval = nil
		return nil
	}
	ev, err := filter.NewEvaluator(c)
	if err != nil {
		return err
	}
	s.eval = ev
	return nil
}

func (s *State) Criteria() filter.Criteria {
	if s.eval == nil {
		return filter.Criteria{}
	}
	return s.eval.Criteria()
}

// SendChatMessage appends the user message and flags the insight as having a
// chat right away. The returned Pending must be resolved and delivered.
func (s *State) SendChatMessage(insightID, text string) (chat.Pending, error) {
	in, ok := s.store.Get(insightID)
	if !ok {
		return chat.Pending{}, fmt.Errorf("%w: %s", ErrUnknownInsight, insightID)
	}
	sess, _, err := s.chats.Open(in.ID, in.Title, in.SampleChat)
	if err != nil {
		return chat.Pending{}, err
	}
	p, err := sess.Send(text)
	if err != nil {
		return chat.Pending{}, err
	}
	s.store.MarkHasChat(insightID)
	return p, nil
}

// ResolveReply blocks for the configured delay; call it off the UI loop.
func (s *State) ResolveReply(p chat.Pending) chat.Reply {
	return p.Resolve(s.responder, s.delay)
}

func (s *State) DeliverReply(r chat.Reply) bool { return s.chats.Deliver(r) }

func (s *State) Chat(insightID string) (chat.Chat, bool) {
	sess, ok := s.chats.Get(insightID)
	if !ok {
		return chat.Chat{}, false
	}
	return sess.Chat(), true
}

// Ingest projects and adds topics that arrived after startup. Month rotation
// continues from the current collection size. Returns how many were added.
func (s *State) Ingest(topics []model.Topic) int {
	added := 0
	for _, in := range dataset.Project(topics, s.store.Len(), s.months) {
		if !s.store.Add(in) {
			logx.Warnf("feed: duplicate insight %q ignored", in.ID)
			continue
		}
		added++
		if s.tabs.AddCompany(in.Category) {
			logx.Infof("feed: new company tab %q", in.Category)
		}
	}
	return added
}

func (s *State) Insights() []model.Insight { return s.store.All() }

func (s *State) Len() int { return s.store.Len() }

// Close cancels every outstanding chat reply.
func (s *State) Close() { s.chats.CloseAll() }
