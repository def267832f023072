// Package dataset holds the built-in topic collection and projects topic
// records into display-ready insights.
package dataset

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"podinsights/internal/model"
)

//go:embed topics.yaml
var builtinYAML []byte

// Builtin returns the embedded topic records in file order.
func Builtin() ([]model.Topic, error) {
	return Decode(bytes.NewReader(builtinYAML))
}

// Decode reads a YAML sequence of topic records.
func Decode(r io.Reader) ([]model.Topic, error) {
	var topics []model.Topic
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&topics); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode topics: %w", err)
	}
	for i, t := range topics {
		if t.ID == "" {
			return nil, fmt.Errorf("decode topics: record %d has no id", i)
		}
	}
	return topics, nil
}

// LoadFile reads a YAML topic document from disk.
func LoadFile(path string) ([]model.Topic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	topics, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return topics, nil
}
