package util

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	reToken = regexp.MustCompile(`(?i)(?:api|secret|token|key)[=:]\s*([A-Za-z0-9-_]{8,})`)
)

// RedactPII masks emails and credential-looking tokens before user text is logged.
func RedactPII(s string) string {
	s = reEmail.ReplaceAllString(s, "[redacted-email]")
	s = reToken.ReplaceAllString(s, "[redacted-token]")
	return s
}

// Ellipsize keeps the first n runes of s and appends "..." when it had to cut.
func Ellipsize(s string, n int) string {
	r := []rune(s)
	if n < 0 || len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// KeyPoints splits a summary on periods and returns up to max trimmed sentences.
func KeyPoints(summary string, max int) []string {
	out := make([]string, 0, max)
	for _, s := range strings.Split(summary, ".") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s+".")
		if len(out) == max {
			break
		}
	}
	return out
}

// Clock renders an offset as m:ss, the way clip positions are shown.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// SplitList turns "a, b,,c" into ["a","b","c"].
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func IsBlank(s string) bool { return strings.TrimSpace(s) == "" }
