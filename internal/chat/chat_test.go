package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"podinsights/internal/model"
)

func open(t *testing.T, ss *Sessions) *Session {
	t.Helper()
	s, created, err := ss.Open("apple-1", "Apple AI Roadmap", model.SampleChat{
		Question: "What is Apple's AI strategy?",
		Response: "Privacy-first, on-device.",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("first open should create the session")
	}
	return s
}

func TestOpenWelcome(t *testing.T) {
	ss := NewSessions(context.Background())
	s := open(t, ss)
	c := s.Chat()
	if !strings.HasPrefix(c.ID, "chat-") || c.Title != DefaultTitle {
		t.Fatalf("unexpected chat: %+v", c)
	}
	if len(c.Messages) != 1 || c.Messages[0].ID != "welcome" || c.Messages[0].Role != RoleAssistant {
		t.Fatalf("expected single welcome message, got %+v", c.Messages)
	}
	again, created, _ := ss.Open("apple-1", "ignored", model.SampleChat{})
	if created || again != s {
		t.Fatal("second open must return the existing session")
	}
}

func TestSendAndDeliver(t *testing.T) {
	s := open(t, NewSessions(context.Background()))
	p, err := s.Send("What about interest rates?")
	if err != nil {
		t.Fatal(err)
	}
	if s.State() != Typing {
		t.Fatal("expected typing")
	}
	if _, err := s.Send("again"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	r := p.Resolve(Canned{}, 0)
	if r.Canceled || r.Err != nil {
		t.Fatalf("unexpected reply: %+v", r)
	}
	if !strings.HasPrefix(r.Content, "On rates:") {
		t.Fatalf("expected rates template, got %q", r.Content)
	}
	if !s.Deliver(r) {
		t.Fatal("reply should apply")
	}
	if s.State() != Idle {
		t.Fatal("expected idle after delivery")
	}
	c := s.Chat()
	if len(c.Messages) != 3 || c.Messages[2].Role != RoleAssistant {
		t.Fatalf("messages: %+v", c.Messages)
	}
	if s.Deliver(r) {
		t.Fatal("duplicate delivery must be dropped")
	}
}

func TestTitleSetOnce(t *testing.T) {
	s := open(t, NewSessions(context.Background()))
	p, _ := s.Send("What about interest rates?")
	if got := s.Chat().Title; got != "What about..." {
		t.Fatalf("title = %q", got)
	}
	s.Deliver(p.Resolve(Canned{}, 0))
	p, _ = s.Send("Hi")
	s.Deliver(p.Resolve(Canned{}, 0))
	if got := s.Chat().Title; got != "What about..." {
		t.Fatalf("title changed to %q", got)
	}

	short := open(t, NewSessions(context.Background()))
	short.Send("Bonds?")
	if got := short.Chat().Title; got != "Bonds?" {
		t.Fatalf("short title = %q", got)
	}
}

func TestEmptyMessage(t *testing.T) {
	s := open(t, NewSessions(context.Background()))
	if _, err := s.Send("   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if len(s.Chat().Messages) != 1 || s.State() != Idle {
		t.Fatal("empty send must not change state")
	}
}

func TestCloseCancelsPendingReply(t *testing.T) {
	ss := NewSessions(context.Background())
	s := open(t, ss)
	p, err := s.Send("portfolio?")
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan Reply, 1)
	go func() { done <- p.Resolve(Canned{}, time.Hour) }()
	ss.CloseAll()
	select {
	case r := <-done:
		if !r.Canceled {
			t.Fatalf("expected cancellation, got %+v", r)
		}
		if s.Deliver(r) {
			t.Fatal("cancelled reply must not apply")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("resolve did not observe cancellation")
	}
	if _, err := s.Send("more"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if len(s.Chat().Messages) != 2 {
		t.Fatal("cancelled reply leaked into the transcript")
	}
}

func TestParentContextCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := open(t, NewSessions(ctx))
	p, _ := s.Send("bond yields")
	cancel()
	if r := p.Resolve(Canned{}, time.Hour); !r.Canceled {
		t.Fatalf("expected cancellation, got %+v", r)
	}
}

type failing struct{}

func (failing) Respond(context.Context, Request) (string, error) {
	return "", errors.New("backend down")
}

func TestResponderErrorApologises(t *testing.T) {
	s := open(t, NewSessions(context.Background()))
	p, _ := s.Send("anything")
	if !s.Deliver(p.Resolve(failing{}, 0)) {
		t.Fatal("error replies still resolve the turn")
	}
	msgs := s.Chat().Messages
	if last := msgs[len(msgs)-1]; !strings.HasPrefix(last.Content, "Sorry") {
		t.Fatalf("expected apology, got %q", last.Content)
	}
	if s.State() != Idle {
		t.Fatal("expected idle")
	}
}

func TestSessionsRouteReplies(t *testing.T) {
	ss := NewSessions(context.Background())
	s := open(t, ss)
	p, _ := s.Send("hello")
	r := p.Resolve(Canned{}, 0)
	if !ss.Deliver(r) {
		t.Fatal("routed reply should apply")
	}
	if ss.Deliver(Reply{InsightID: "unknown", Seq: 1}) {
		t.Fatal("reply for unknown session applied")
	}
}
