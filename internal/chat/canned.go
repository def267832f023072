package chat

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

type Family string

const (
	FamilySample    Family = "sample"
	FamilyRates     Family = "rates"
	FamilyBonds     Family = "bonds"
	FamilyPortfolio Family = "portfolio"
	FamilyDefault   Family = "default"
)

var families = []struct {
	family   Family
	keywords []string
	template string
}{
	{FamilyRates, []string{"interest rate", "fed"},
		"On rates: the discussion around %q points to the Fed path as the main swing factor. Lower rates support growth multiples, while a higher-for-longer stance would pressure valuations tied to this story."},
	{FamilyBonds, []string{"bond", "treasury"},
		"On bonds: treasury yields set the discount rate for the outlook in %q. Watch the 10-year; a rising yield tends to compress the premium investors pay for the growth described here."},
	{FamilyPortfolio, []string{"portfolio", "invest"},
		"On portfolio positioning: %q is one signal, not a plan. Size any exposure against your existing holdings and time horizon, and consider how concentrated you already are in the sector."},
}

const defaultTemplate = "I understand you're asking about %q. This is related to %s. Let me provide some insights based on the available information."

// Canned answers from fixed templates. It never fails.
type Canned struct{}

func (Canned) Respond(_ context.Context, req Request) (string, error) {
	fam, tmpl := classify(req)
	switch fam {
	case FamilySample:
		return req.Sample.Response, nil
	case FamilyDefault:
		return fmt.Sprintf(defaultTemplate, req.Question, req.InsightTitle), nil
	default:
		return fmt.Sprintf(tmpl, req.InsightTitle), nil
	}
}

// Classify reports which template family answers req.
func Classify(req Request) Family {
	f, _ := classify(req)
	return f
}

func classify(req Request) (Family, string) {
	if req.Sample.Question != "" && normalize(req.Question) == normalize(req.Sample.Question) {
		return FamilySample, ""
	}
	q := strings.ToLower(req.Question)
	for _, f := range families {
		for _, k := range f.keywords {
			if strings.Contains(q, k) {
				return f.family, f.template
			}
		}
	}
	return FamilyDefault, defaultTemplate
}

// normalize lowercases and drops punctuation so "What's X?" == "whats x".
func normalize(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		case unicode.IsSpace(r):
			if !space && b.Len() > 0 {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
