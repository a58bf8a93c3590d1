// Package parsers reads seed files that preload the catalog.
package parsers

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// RawParticipant is a participant record as written in a seed file.
// Ref names the record for friendships and likes; it defaults to the
// record's 1-based position.
type RawParticipant struct {
	Ref      string `json:"ref,omitempty" yaml:"ref,omitempty"`
	Email    string `json:"email" yaml:"email"`
	Login    string `json:"login" yaml:"login"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Birthday string `json:"birthday,omitempty" yaml:"birthday,omitempty"`
}

// RawWork is a work record as written in a seed file.
type RawWork struct {
	Ref         string `json:"ref,omitempty" yaml:"ref,omitempty"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	ReleaseDate string `json:"releaseDate" yaml:"releaseDate"`
	Duration    int    `json:"duration" yaml:"duration"`
}

// RawFriendship links two participant refs.
type RawFriendship struct {
	Participant string `json:"participant" yaml:"participant"`
	Friend      string `json:"friend" yaml:"friend"`
}

// RawLike links a participant ref to a work ref.
type RawLike struct {
	Work        string `json:"work" yaml:"work"`
	Participant string `json:"participant" yaml:"participant"`
}

// Seed is the parsed content of a seed file, before validation.
type Seed struct {
	Participants []RawParticipant `json:"participants" yaml:"participants"`
	Works        []RawWork        `json:"works" yaml:"works"`
	Friendships  []RawFriendship  `json:"friendships" yaml:"friendships"`
	Likes        []RawLike        `json:"likes" yaml:"likes"`
}

// Parser defines the interface for parsing seed files.
type Parser interface {
	Parse(r io.Reader) (*Seed, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "yaml".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "yaml", "yml":
		return &YAMLParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return ForFormat(ext)
}

// fillRefs gives every unnamed record its 1-based position as ref.
func fillRefs(s *Seed) {
	for i := range s.Participants {
		if strings.TrimSpace(s.Participants[i].Ref) == "" {
			s.Participants[i].Ref = strconv.Itoa(i + 1)
		}
	}
	for i := range s.Works {
		if strings.TrimSpace(s.Works[i].Ref) == "" {
			s.Works[i].Ref = strconv.Itoa(i + 1)
		}
	}
}
