package parsers

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLParser parses seed files in YAML format.
type YAMLParser struct{}

// Parse reads a YAML seed document. An empty document yields an empty seed.
func (p *YAMLParser) Parse(r io.Reader) (*Seed, error) {
	var seed Seed

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	fillRefs(&seed)
	return &seed, nil
}
