package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonSeed = `{
	"participants": [
		{"ref": "ann", "email": "ann@example.com", "login": "ann", "birthday": "1990-03-14"},
		{"email": "bob@example.com", "login": "bob", "name": "Bob"}
	],
	"works": [
		{"ref": "alien", "name": "Alien", "description": "In space", "releaseDate": "1979-05-25", "duration": 117}
	],
	"friendships": [{"participant": "ann", "friend": "2"}],
	"likes": [{"work": "alien", "participant": "ann"}]
}`

const yamlSeed = `
participants:
  - ref: ann
    email: ann@example.com
    login: ann
    birthday: 1990-03-14
  - email: bob@example.com
    login: bob
    name: Bob
works:
  - ref: alien
    name: Alien
    description: In space
    releaseDate: 1979-05-25
    duration: 117
friendships:
  - participant: ann
    friend: "2"
likes:
  - work: alien
    participant: ann
`

func expectedSeed() *Seed {
	return &Seed{
		Participants: []RawParticipant{
			{Ref: "ann", Email: "ann@example.com", Login: "ann", Birthday: "1990-03-14"},
			{Ref: "2", Email: "bob@example.com", Login: "bob", Name: "Bob"},
		},
		Works: []RawWork{
			{Ref: "alien", Name: "Alien", Description: "In space", ReleaseDate: "1979-05-25", Duration: 117},
		},
		Friendships: []RawFriendship{{Participant: "ann", Friend: "2"}},
		Likes:       []RawLike{{Work: "alien", Participant: "ann"}},
	}
}

func TestParsers_Parse_ValidInput(t *testing.T) {
	tests := []struct {
		name   string
		parser Parser
		input  string
	}{
		{name: "json", parser: &JSONParser{}, input: jsonSeed},
		{name: "yaml", parser: &YAMLParser{}, input: yamlSeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.parser.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, expectedSeed(), result)
		})
	}
}

func TestParsers_Parse_Empty(t *testing.T) {
	seed, err := (&JSONParser{}).Parse(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Empty(t, seed.Participants)
	assert.Empty(t, seed.Works)

	seed, err = (&YAMLParser{}).Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, seed.Likes)
}

func TestParsers_Parse_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		parser Parser
		input  string
	}{
		{"json syntax", &JSONParser{}, "not json"},
		{"json unknown field", &JSONParser{}, `{"films": []}`},
		{"yaml syntax", &YAMLParser{}, "works: [unterminated"},
		{"yaml unknown field", &YAMLParser{}, "users: []"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parser.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
		})
	}
}

func TestForFormat(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFormat("JSON"))
	assert.IsType(t, &YAMLParser{}, ForFormat("yaml"))
	assert.IsType(t, &YAMLParser{}, ForFormat("yml"))
	assert.Nil(t, ForFormat("csv"))
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		expected Parser
	}{
		{"seed.json", &JSONParser{}},
		{"seed.JSON", &JSONParser{}},
		{"data/seed.yaml", &YAMLParser{}},
		{"seed.yml", &YAMLParser{}},
		{"seed.txt", nil},
		{"seed", nil},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, ForFile(tt.filename))
		})
	}
}
