package filter

import (
	"regexp"
	"strings"

	"github.com/Knetic/govaluate"

	"podinsights/internal/model"
)

// Criteria narrows the visible list on top of tab membership.
type Criteria struct {
	Query    string // plain contains or regex if UseRegex
	UseRegex bool
	Expr     string // govaluate expression, e.g. `score > 80 && category == "NVIDIA"`
}

func (c Criteria) Empty() bool {
	return c.Query == "" && strings.TrimSpace(c.Expr) == ""
}

// ParseQuery turns user input into Query/UseRegex; "/.../" selects regex.
func ParseQuery(q string) (string, bool) {
	q = strings.TrimSpace(q)
	if strings.HasPrefix(q, "/") && strings.HasSuffix(q, "/") && len(q) > 2 {
		return q[1 : len(q)-1], true
	}
	return q, false
}

type Evaluator struct {
	c    Criteria
	re   *regexp.Regexp
	expr *govaluate.EvaluableExpression
}

func NewEvaluator(c Criteria) (*Evaluator, error) {
	var re *regexp.Regexp
	var expr *govaluate.EvaluableExpression
	var err error
	if c.UseRegex && c.Query != "" {
		re, err = regexp.Compile("(?i)" + c.Query)
		if err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(c.Expr) != "" {
		expr, err = govaluate.NewEvaluableExpression(c.Expr)
		if err != nil {
			return nil, err
		}
	}
	return &Evaluator{c: c, re: re, expr: expr}, nil
}

func (e *Evaluator) Criteria() Criteria { return e.c }

func (e *Evaluator) Match(in model.Insight) bool {
	if e == nil {
		return true
	}
	if e.c.Query != "" {
		text := strings.Join([]string{in.Title, in.Summary, in.Category, in.Podcast}, "\n")
		if e.re != nil {
			if !e.re.MatchString(text) {
				return false
			}
		} else if !strings.Contains(strings.ToLower(text), strings.ToLower(e.c.Query)) {
			return false
		}
	}
	if e.expr != nil {
		result, err := e.expr.Evaluate(params(in))
		if err != nil {
			return false
		}
		b, ok := result.(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}

// govaluate compares numbers as float64.
func params(in model.Insight) map[string]any {
	return map[string]any{
		"id":       in.ID,
		"title":    in.Title,
		"category": in.Category,
		"month":    in.Month,
		"podcast":  in.Podcast,
		"episode":  float64(in.Episode),
		"score":    float64(in.Score),
		"saved":    in.Saved,
		"archived": in.Archived,
		"viewed":   in.Viewed,
		"hasChat":  in.HasChat,
	}
}
