package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses seed files in JSON format.
type JSONParser struct{}

// Parse reads a JSON seed document. Unknown fields are rejected.
func (p *JSONParser) Parse(r io.Reader) (*Seed, error) {
	var seed Seed

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&seed); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	fillRefs(&seed)
	return &seed, nil
}
