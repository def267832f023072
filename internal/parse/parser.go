package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"podinsights/internal/model"
)

var (
	ErrEmptyLine = errors.New("empty line")
	ErrMissingID = errors.New("topic record without id")
	ErrBadRange  = errors.New("malformed timestamp range")
	ErrBadClock  = errors.New("malformed clock value")
)

var rangeSeparators = []string{" – ", " — ", "–", "—", " - "}

// Parser turns one input line into a topic record.
type Parser interface {
	Parse(line, source string) (model.Topic, error)
}

// NewParser returns a parser for format: json, yaml, or "" to pick per line.
func NewParser(format string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "ndjson":
		return JSONParser{}, nil
	case "yaml", "yml":
		return YAMLParser{}, nil
	case "", "auto":
		return AutoParser{}, nil
	default:
		return nil, fmt.Errorf("unknown record format %q", format)
	}
}

type JSONParser struct{}

func (JSONParser) Parse(line, source string) (model.Topic, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return model.Topic{}, ErrEmptyLine
	}
	var t model.Topic
	if err := json.Unmarshal([]byte(line), &t); err != nil {
		return model.Topic{}, fmt.Errorf("%s: %w", source, err)
	}
	return validate(t, source)
}

// YAMLParser accepts flow-style YAML records, which includes JSON.
type YAMLParser struct{}

func (YAMLParser) Parse(line, source string) (model.Topic, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return model.Topic{}, ErrEmptyLine
	}
	var t model.Topic
	if err := yaml.Unmarshal([]byte(line), &t); err != nil {
		return model.Topic{}, fmt.Errorf("%s: %w", source, err)
	}
	return validate(t, source)
}

type AutoParser struct{}

func (AutoParser) Parse(line, source string) (model.Topic, error) {
	if strings.HasPrefix(strings.TrimSpace(line), "{") {
		if t, err := (JSONParser{}).Parse(line, source); err == nil {
			return t, nil
		}
	}
	return YAMLParser{}.Parse(line, source)
}

func validate(t model.Topic, source string) (model.Topic, error) {
	t.ID = strings.TrimSpace(t.ID)
	if t.ID == "" {
		return model.Topic{}, fmt.Errorf("%s: %w", source, ErrMissingID)
	}
	if strings.TrimSpace(t.Topic) == "" {
		t.Topic = t.ID
	}
	return t, nil
}

// ClipRange parses "00:18:10 – 00:20:50" into start and end offsets.
func ClipRange(s string) (start, end time.Duration, err error) {
	s = strings.TrimSpace(s)
	for _, sep := range rangeSeparators {
		parts := strings.SplitN(s, sep, 2)
		if len(parts) != 2 {
			continue
		}
		if start, err = Clock(parts[0]); err != nil {
			return 0, 0, err
		}
		if end, err = Clock(parts[1]); err != nil {
			return 0, 0, err
		}
		if end < start {
			return 0, 0, fmt.Errorf("%w: %q ends before it starts", ErrBadRange, s)
		}
		return start, end, nil
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrBadRange, s)
}

// Clock parses HH:MM:SS or MM:SS.
func Clock(s string) (time.Duration, error) {
	fields := strings.Split(strings.TrimSpace(s), ":")
	if len(fields) < 2 || len(fields) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	total := 0
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
		}
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second, nil
}
