package parse

import (
	"errors"
	"testing"
	"time"
)

func TestJSONParser(t *testing.T) {
	p, _ := NewParser("json")
	tp, err := p.Parse(`{"id":"nvidia-9","company":"NVIDIA","topic":"t","tags":["NVIDIA","AI"],"mentionedIn":[{"podcast":"WSJ Podcasts","episode":"700","timestamp":"00:11:40 – 00:14:15"}]}`, "stdin")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tp.ID != "nvidia-9" || tp.Company != "NVIDIA" || len(tp.MentionedIn) != 1 {
		t.Fatalf("unexpected topic: %+v", tp)
	}
}

func TestAutoParserAcceptsFlowYAML(t *testing.T) {
	p, _ := NewParser("")
	tp, err := p.Parse(`{id: apple-9, company: Apple, topic: Vision Pro, tags: [Apple, XR]}`, "file")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tp.ID != "apple-9" || tp.Tags[1] != "XR" {
		t.Fatalf("unexpected topic: %+v", tp)
	}
}

func TestParserRejectsMissingID(t *testing.T) {
	p, _ := NewParser("json")
	if _, err := p.Parse(`{"company":"Apple"}`, "stdin"); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	if _, err := p.Parse("   ", "stdin"); !errors.Is(err, ErrEmptyLine) {
		t.Fatalf("expected ErrEmptyLine, got %v", err)
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := NewParser("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestClipRange(t *testing.T) {
	cases := []struct {
		in         string
		start, end time.Duration
	}{
		{"00:18:10 – 00:20:50", 18*time.Minute + 10*time.Second, 20*time.Minute + 50*time.Second},
		{"01:10:10 – 01:13:45", 70*time.Minute + 10*time.Second, 73*time.Minute + 45*time.Second},
		{"12:00 - 14:30", 12 * time.Minute, 14*time.Minute + 30*time.Second},
	}
	for _, c := range cases {
		s, e, err := ClipRange(c.in)
		if err != nil {
			t.Fatalf("%q: %v", c.in, err)
		}
		if s != c.start || e != c.end {
			t.Errorf("%q: got %v-%v want %v-%v", c.in, s, e, c.start, c.end)
		}
	}
}

func TestClipRangeErrors(t *testing.T) {
	for _, in := range []string{"", "00:10:00", "00:20:00 – 00:10:00", "aa:bb – cc:dd", "00:61:00 – 00:62:00"} {
		if _, _, err := ClipRange(in); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}
}
