package model

import (
	"time"
)

// Mention is one podcast segment where a topic was discussed.
type Mention struct {
	Podcast   string `json:"podcast" yaml:"podcast"`
	Episode   string `json:"episode" yaml:"episode"`
	Timestamp string `json:"timestamp" yaml:"timestamp"` // "00:18:10 – 00:20:50"
}

type SampleChat struct {
	Question string `json:"question" yaml:"question"`
	Response string `json:"response" yaml:"response"`
}

// Topic is a raw record of the data source, before projection.
type Topic struct {
	ID          string     `json:"id" yaml:"id"`
	Company     string     `json:"company" yaml:"company"`
	Topic       string     `json:"topic" yaml:"topic"`
	Summary     string     `json:"summary" yaml:"summary"`
	Tags        []string   `json:"tags" yaml:"tags"`
	MentionedIn []Mention  `json:"mentionedIn" yaml:"mentionedIn"`
	SampleChat  SampleChat `json:"sampleChat" yaml:"sampleChat"`
	Score       int        `json:"score,omitempty" yaml:"score,omitempty"`
}

// Clip is a bounded segment of an audio file.
type Clip struct {
	AudioURL string        `json:"audioUrl"`
	Start    time.Duration `json:"start"`
	End      time.Duration `json:"end"`
}

func (c Clip) Length() time.Duration {
	if c.End < c.Start {
		return 0
	}
	return c.End - c.Start
}

type Source struct {
	Podcast string `json:"podcast"`
	Episode int    `json:"episode"`
	Clip    Clip   `json:"clip"`
}

// Insight is the display-ready projection of a Topic plus its mutable flags.
type Insight struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Summary        string     `json:"summary"`
	FullText       string     `json:"fullText"`
	Category       string     `json:"category"`
	Score          int        `json:"score"`
	Month          string     `json:"month"`
	PublishDate    string     `json:"publishDate"`
	Podcast        string     `json:"podcastName"`
	Episode        int        `json:"episodeNumber"`
	Clip           Clip       `json:"clip"`
	FullEpisodeURL string     `json:"fullEpisodeUrl"`
	Sources        []Source   `json:"sources,omitempty"`
	SampleChat     SampleChat `json:"sampleChat"`

	Companies []string `json:"companies,omitempty"`
	Sectors   []string `json:"sectors,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`

	Saved    bool `json:"saved"`
	Archived bool `json:"archived"`
	Viewed   bool `json:"viewed"`
	HasChat  bool `json:"hasChat"`
}

// Unread reports whether the insight still counts towards unread badges.
func (in Insight) Unread() bool { return !in.Archived && !in.Viewed }

// TabFilters is the rule set of a custom tab. Companies is required; empty
// Sectors or Keywords impose no constraint.
type TabFilters struct {
	Companies []string `json:"companies"`
	Sectors   []string `json:"sectors"`
	Keywords  []string `json:"keywords"`
}

type CustomTab struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Filters   TabFilters `json:"filters"`
	CreatedAt time.Time  `json:"createdAt"`
}
