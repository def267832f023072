package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"podinsights/internal/feed"
	"podinsights/internal/util"
	"podinsights/internal/util/logx"
)

// markdownRenderer wraps glamour and rebuilds the renderer when the width
// changes. Rendered output is cached per insight.
type markdownRenderer struct {
	style string
	width int
	gr    *glamour.TermRenderer
	cache map[string]string
}

func newMarkdownRenderer(dark bool) *markdownRenderer {
	style := styles.LightStyle
	if dark {
		style = styles.DarkStyle
	}
	r := &markdownRenderer{style: style, cache: map[string]string{}}
	r.SetWidth(80)
	return r
}

func (r *markdownRenderer) SetWidth(w int) {
	if w < 20 {
		w = 20
	}
	if w == r.width && r.gr != nil {
		return
	}
	gr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(w),
	)
	if err != nil {
		logx.Warnf("ui: markdown renderer: %v", err)
		return
	}
	r.gr, r.width = gr, w
	r.cache = map[string]string{}
}

// Render falls back to the raw markdown if glamour fails.
func (r *markdownRenderer) Render(key, md string) string {
	if out, ok := r.cache[key]; ok {
		return out
	}
	if r.gr == nil {
		return md
	}
	out, err := r.gr.Render(md)
	if err != nil {
		logx.Warnf("ui: render markdown: %v", err)
		return md
	}
	r.cache[key] = out
	return out
}

// analysisMarkdown lays out the left pane of the detail screen.
func analysisMarkdown(d feed.Detail) string {
	in := d.Insight
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", in.Title)
	fmt.Fprintf(&b, "**%s** · impact %d · %s", in.Category, in.Score, in.PublishDate)
	if in.Saved {
		b.WriteString(" · saved")
	}
	b.WriteString("\n\n")
	if len(in.Sectors) > 0 {
		fmt.Fprintf(&b, "Sectors: %s  \n", strings.Join(in.Sectors, ", "))
	}
	if len(in.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(in.Keywords, ", "))
	}
	b.WriteString("\n## Key points\n\n")
	for _, p := range d.KeyPoints {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	b.WriteString("\n## Analysis\n\n")
	b.WriteString(in.FullText)
	b.WriteString("\n")
	if len(in.Sources) > 0 {
		b.WriteString("\n## Sources\n\n")
		for _, s := range in.Sources {
			fmt.Fprintf(&b, "- %s, episode %d (%s-%s)\n", s.Podcast, s.Episode, util.Clock(s.Clip.Start), util.Clock(s.Clip.End))
		}
	}
	if in.SampleChat.Question != "" {
		fmt.Fprintf(&b, "\n> Try asking: _%s_\n", in.SampleChat.Question)
	}
	return b.String()
}
