// Package chat runs the per-insight conversation state machine: a welcome
// message on open, one outstanding reply at a time, and a delayed reply that
// is cancelled with its session.
package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"podinsights/internal/model"
	"podinsights/internal/util"
	"podinsights/internal/util/logx"
)

const (
	DefaultTitle = "Chat"
	DefaultDelay = 1500 * time.Millisecond
	titleRunes   = 10
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("assistant is still typing")
	ErrClosed       = errors.New("chat session closed")
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	ID      string    `json:"id"`
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	Time    time.Time `json:"timestamp"`
}

type Chat struct {
	ID             string    `json:"id"`
	InsightID      string    `json:"insightId"`
	Title          string    `json:"title"`
	Messages       []Message `json:"messages"`
	CreatedAt      time.Time `json:"createdAt"`
	HasUserMessage bool      `json:"hasUserMessage"`
}

type State int

const (
	Idle State = iota
	Typing
)

func (s State) String() string {
	if s == Typing {
		return "typing"
	}
	return "idle"
}

// Request is what a Responder sees for one user message.
type Request struct {
	InsightID    string
	InsightTitle string
	Question     string
	Sample       model.SampleChat
	History      []Message
}

// Responder produces assistant replies. Canned is the built-in one; a real
// backend only has to satisfy this interface.
type Responder interface {
	Respond(ctx context.Context, req Request) (string, error)
}

// Reply is the outcome of a Pending, routed back to its session by InsightID.
type Reply struct {
	InsightID string
	Seq       uint64
	Content   string
	Err       error
	Canceled  bool
}

// Pending is an outstanding reply. It carries the session context so closing
// the session aborts the wait.
type Pending struct {
	InsightID string
	Seq       uint64
	ctx       context.Context
	req       Request
}

// Resolve waits delay, then asks r. It blocks and is meant to run off the UI
// loop (inside a tea.Cmd).
func (p Pending) Resolve(r Responder, delay time.Duration) Reply {
	out := Reply{InsightID: p.InsightID, Seq: p.Seq}
	ctx := p.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			out.Canceled = true
			return out
		case <-t.C:
		}
	}
	content, err := r.Respond(ctx, p.req)
	if ctx.Err() != nil {
		out.Canceled = true
		return out
	}
	out.Content, out.Err = content, err
	return out
}

// Session is one insight's conversation.
type Session struct {
	mu     sync.Mutex
	chat   Chat
	state  State
	seq    uint64
	closed bool
	title  string
	sample model.SampleChat
	ctx    context.Context
	cancel context.CancelFunc
	now    func() time.Time
}

func newSession(parent context.Context, insightID, insightTitle string, sample model.SampleChat, now func() time.Time) (*Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("chat id: %w", err)
	}
	ctx, cancel := context.WithCancel(parent)
	ts := now()
	s := &Session{
		title:  insightTitle,
		sample: sample,
		ctx:    ctx,
		cancel: cancel,
		now:    now,
		chat: Chat{
			ID:        "chat-" + id.String(),
			InsightID: insightID,
			Title:     DefaultTitle,
			CreatedAt: ts,
			Messages: []Message{{
				ID:      "welcome",
				Role:    RoleAssistant,
				Content: fmt.Sprintf("Hello! I'm your financial insights assistant. Ask me anything about %q or related financial topics.", insightTitle),
				Time:    ts,
			}},
		},
	}
	return s, nil
}

// Send appends a user message and returns the reply to resolve.
func (s *Session) Send(text string) (Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return Pending{}, ErrClosed
	case util.IsBlank(text):
		return Pending{}, ErrEmptyMessage
	case s.state == Typing:
		return Pending{}, ErrBusy
	}
	s.seq++
	s.chat.Messages = append(s.chat.Messages, Message{
		ID:      fmt.Sprintf("user-%d", s.seq),
		Role:    RoleUser,
		Content: text,
		Time:    s.now(),
	})
	if !s.chat.HasUserMessage {
		s.chat.HasUserMessage = true
		s.chat.Title = util.Ellipsize(text, titleRunes)
	}
	s.state = Typing
	logx.Debugf("chat: %s user message #%d %q", s.chat.ID, s.seq, util.RedactPII(text))
	return Pending{
		InsightID: s.chat.InsightID,
		Seq:       s.seq,
		ctx:       s.ctx,
		req: Request{
			InsightID:    s.chat.InsightID,
			InsightTitle: s.title,
			Question:     text,
			Sample:       s.sample,
			History:      append([]Message(nil), s.chat.Messages...),
		},
	}, nil
}

// Deliver applies r if it answers the current outstanding message. Stale or
// cancelled replies are dropped and false is returned.
func (s *Session) Deliver(r Reply) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || r.Canceled || s.state != Typing || r.Seq != s.seq {
		logx.Debugf("chat: %s dropped reply #%d (current #%d, canceled=%v)", s.chat.ID, r.Seq, s.seq, r.Canceled)
		return false
	}
	content := r.Content
	if r.Err != nil {
		logx.Errorf("chat: %s responder: %v", s.chat.ID, r.Err)
		content = "Sorry, I couldn't come up with an answer right now. Please try again."
	}
	s.chat.Messages = append(s.chat.Messages, Message{
		ID:      fmt.Sprintf("assistant-%d", r.Seq),
		Role:    RoleAssistant,
		Content: content,
		Time:    s.now(),
	})
	s.state = Idle
	return true
}

// Close cancels any outstanding reply. Further sends fail with ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.state = Idle
	s.cancel()
}

// Chat returns a copy of the conversation.
func (s *Session) Chat() Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.chat
	c.Messages = append([]Message(nil), s.chat.Messages...)
	return c
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Sessions indexes sessions by insight id. Sessions outlive the detail view.
type Sessions struct {
	mu     sync.Mutex
	parent context.Context
	byID   map[string]*Session
	order  []string
	now    func() time.Time
}

// NewSessions binds every session to ctx; cancelling it aborts all replies.
func NewSessions(ctx context.Context) *Sessions {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Sessions{parent: ctx, byID: map[string]*Session{}, now: time.Now}
}

// Open returns the insight's session, creating it on first open.
func (ss *Sessions) Open(insightID, insightTitle string, sample model.SampleChat) (*Session, bool, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if s, ok := ss.byID[insightID]; ok {
		return s, false, nil
	}
	s, err := newSession(ss.parent, insightID, insightTitle, sample, ss.now)
	if err != nil {
		return nil, false, err
	}
	ss.byID[insightID] = s
	ss.order = append(ss.order, insightID)
	logx.Debugf("chat: opened %s for %s", s.chat.ID, insightID)
	return s, true, nil
}

func (ss *Sessions) Get(insightID string) (*Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.byID[insightID]
	return s, ok
}

// Deliver routes r to its session.
func (ss *Sessions) Deliver(r Reply) bool {
	s, ok := ss.Get(r.InsightID)
	if !ok {
		return false
	}
	return s.Deliver(r)
}

// All returns the sessions in open order.
func (ss *Sessions) All() []*Session {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	out := make([]*Session, 0, len(ss.order))
	for _, id := range ss.order {
		out = append(out, ss.byID[id])
	}
	return out
}

func (ss *Sessions) CloseAll() {
	for _, s := range ss.All() {
		s.Close()
	}
}
