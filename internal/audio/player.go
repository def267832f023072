// Package audio plays bounded clips of an episode. The actual sound output is
// a Media collaborator; ClipPlayer owns the playhead and the clip boundary.
package audio

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"podinsights/internal/util/logx"
)

const SkipStep = 10 * time.Second

var (
	ErrBadURL   = errors.New("invalid audio url")
	ErrBadRange = errors.New("clip end must be after start")
	ErrNoClip   = errors.New("no clip loaded")
)

// Media is the playback backend.
type Media interface {
	Start(url string, at time.Duration) error
	Pause()
	Seek(at time.Duration)
}

// SilentMedia accepts http(s) and file URLs and produces no sound.
type SilentMedia struct{}

func (SilentMedia) Start(raw string, _ time.Duration) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadURL, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("%w: missing host in %q", ErrBadURL, raw)
		}
	case "file":
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrBadURL, u.Scheme)
	}
	return nil
}

func (SilentMedia) Pause()               {}
func (SilentMedia) Seek(_ time.Duration) {}

// Status is a snapshot for rendering.
type Status struct {
	URL      string
	Start    time.Duration
	End      time.Duration
	Position time.Duration
	Playing  bool
	Volume   float64
	Muted    bool
}

// Elapsed is the playhead relative to the clip start.
func (s Status) Elapsed() time.Duration { return s.Position - s.Start }

func (s Status) Length() time.Duration { return s.End - s.Start }

type ClipPlayer struct {
	mu      sync.Mutex
	media   Media
	st      Status
	loaded  bool
	onPos   func(time.Duration)
	onEnded func()
}

func NewClipPlayer(m Media) *ClipPlayer {
	if m == nil {
		m = SilentMedia{}
	}
	return &ClipPlayer{media: m, st: Status{Volume: 1}}
}

// OnPosition registers the callback fired whenever the playhead moves:
// Play, Seek and Advance.
func (p *ClipPlayer) OnPosition(fn func(time.Duration)) {
	p.mu.Lock()
	p.onPos = fn
	p.mu.Unlock()
}

// OnEnded registers the callback fired when the playhead hits the clip end.
func (p *ClipPlayer) OnEnded(fn func()) {
	p.mu.Lock()
	p.onEnded = fn
	p.mu.Unlock()
}

// Play loads url and starts at start. Replaying the loaded clip resumes it.
func (p *ClipPlayer) Play(url string, start, end time.Duration) error {
	if end <= start {
		return ErrBadRange
	}
	p.mu.Lock()
	pos := start
	if p.loaded && p.st.URL == url && p.st.Start == start && p.st.End == end {
		pos = p.st.Position
	}
	if err := p.media.Start(url, pos); err != nil {
		p.mu.Unlock()
		logx.Warnf("audio: start %s: %v", url, err)
		return err
	}
	vol, muted := p.st.Volume, p.st.Muted
	p.st = Status{URL: url, Start: start, End: end, Position: pos, Playing: true, Volume: vol, Muted: muted}
	p.loaded = true
	onPos := p.onPos
	p.mu.Unlock()
	logx.Debugf("audio: playing %s [%s-%s] at %s", url, start, end, pos)
	if onPos != nil {
		onPos(pos)
	}
	return nil
}

func (p *ClipPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.st.Playing {
		return
	}
	p.st.Playing = false
	p.media.Pause()
}

// Toggle resumes or pauses the loaded clip.
func (p *ClipPlayer) Toggle() error {
	p.mu.Lock()
	if !p.loaded {
		p.mu.Unlock()
		return ErrNoClip
	}
	playing := p.st.Playing
	url, start, end := p.st.URL, p.st.Start, p.st.End
	p.mu.Unlock()
	if playing {
		p.Pause()
		return nil
	}
	return p.Play(url, start, end)
}

// Seek moves the playhead, clamped to the clip.
func (p *ClipPlayer) Seek(at time.Duration) {
	p.mu.Lock()
	if !p.loaded {
		p.mu.Unlock()
		return
	}
	if at < p.st.Start {
		at = p.st.Start
	}
	if at > p.st.End {
		at = p.st.End
	}
	p.st.Position = at
	p.media.Seek(at)
	onPos := p.onPos
	p.mu.Unlock()
	if onPos != nil {
		onPos(at)
	}
}

func (p *ClipPlayer) Skip(delta time.Duration) {
	p.mu.Lock()
	at := p.st.Position + delta
	p.mu.Unlock()
	p.Seek(at)
}

// SetVolume clamps v to [0,1].
func (p *ClipPlayer) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	p.st.Volume = v
}

func (p *ClipPlayer) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.st.Muted = !p.st.Muted
	return p.st.Muted
}

// Advance moves a playing clip forward by dt. Reaching the end pauses, rewinds
// to the clip start and fires the end callback.
func (p *ClipPlayer) Advance(dt time.Duration) {
	p.mu.Lock()
	if !p.loaded || !p.st.Playing {
		p.mu.Unlock()
		return
	}
	p.st.Position += dt
	ended := p.st.Position >= p.st.End
	if ended {
		p.st.Position = p.st.Start
		p.st.Playing = false
		p.media.Pause()
		p.media.Seek(p.st.Start)
	}
	pos, onPos, onEnded := p.st.Position, p.onPos, p.onEnded
	p.mu.Unlock()

	if onPos != nil {
		onPos(pos)
	}
	if ended && onEnded != nil {
		onEnded()
	}
}

func (p *ClipPlayer) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st
}

// Stop unloads the clip, used when the detail view closes.
func (p *ClipPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.st.Playing {
		p.media.Pause()
	}
	p.st = Status{Volume: p.st.Volume, Muted: p.st.Muted}
	p.loaded = false
}
