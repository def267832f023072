package dataset

import (
	"hash/fnv"
	"strconv"
	"strings"

	"podinsights/internal/model"
	"podinsights/internal/parse"
	"podinsights/internal/util/logx"
)

// MonthOrder is the fixed month sequence used for assignment and grouping.
var MonthOrder = []string{"April", "March", "February"}

const (
	// DemoAudioURL stands in for per-episode media; every clip points at it.
	DemoAudioURL   = "https://commondatastorage.googleapis.com/codeskulptor-demos/DDR_assets/Kangaroo_MusiQue_-_The_Neverwritten_Role_Playing_Game.mp3"
	FullEpisodeURL = "https://example.com/episode"
	publishYear    = "2025"
)

// Project derives insights from topics. offset is the number of topics
// already projected, so months keep rotating across ingest batches.
func Project(topics []model.Topic, offset int, months []string) []model.Insight {
	if len(months) == 0 {
		months = MonthOrder
	}
	out := make([]model.Insight, 0, len(topics))
	for i, t := range topics {
		month := months[(offset+i)%len(months)]
		in := model.Insight{
			ID:             t.ID,
			Title:          t.Topic,
			Summary:        t.Summary,
			FullText:       t.Summary,
			Category:       t.Company,
			Score:          Score(t),
			Month:          month,
			PublishDate:    shortMonth(month) + " " + publishYear,
			FullEpisodeURL: FullEpisodeURL,
			SampleChat:     t.SampleChat,
			Sectors:        tagSlice(t.Tags, 1, 3),
			Keywords:       tagSlice(t.Tags, 3, len(t.Tags)),
		}
		if t.Company != "" {
			in.Companies = []string{t.Company}
		}
		for _, m := range t.MentionedIn {
			in.Sources = append(in.Sources, source(t.ID, m))
		}
		if len(in.Sources) > 0 {
			first := in.Sources[0]
			in.Podcast, in.Episode, in.Clip = first.Podcast, first.Episode, first.Clip
		}
		out = append(out, in)
	}
	return out
}

func source(id string, m model.Mention) model.Source {
	s := model.Source{Podcast: m.Podcast, Clip: model.Clip{AudioURL: DemoAudioURL}}
	if n, err := strconv.Atoi(strings.TrimSpace(m.Episode)); err == nil {
		s.Episode = n
	}
	start, end, err := parse.ClipRange(m.Timestamp)
	if err != nil {
		logx.Warnf("dataset: %s: %v", id, err)
		return s
	}
	s.Clip.Start, s.Clip.End = start, end
	return s
}

func tagSlice(tags []string, from, to int) []string {
	if to > len(tags) {
		to = len(tags)
	}
	if from >= to {
		return nil
	}
	out := make([]string, to-from)
	copy(out, tags[from:to])
	return out
}

func shortMonth(m string) string {
	if len(m) > 3 {
		return m[:3]
	}
	return m
}

// Score is a placeholder relevance heuristic: a stable per-id base in
// [60,85) plus small bonuses for AI and earnings coverage, capped at 99.
// Records that carry an explicit score keep it.
func Score(t model.Topic) int {
	if t.Score > 0 {
		return t.Score
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(t.ID))
	score := 60 + int(h.Sum32()%25)
	var ai, earnings bool
	for _, tag := range t.Tags {
		for _, w := range strings.Fields(strings.ToLower(tag)) {
			if w == "ai" && !ai {
				ai = true
				score += 8
			}
			if w == "earnings" && !earnings {
				earnings = true
				score += 5
			}
		}
	}
	if score > 99 {
		score = 99
	}
	return score
}
