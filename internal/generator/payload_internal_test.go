package generator

import (
	"testing"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/stretchr/testify/require"
)

const validCaseJSON = `{
	"title": "The Grandfather Clock Affair",
	"victim": "Edmund Holloway",
	"location": "Holloway Manor",
	"summary": "Edmund Holloway was found dead in his study at midnight.",
	"suspects": [
		{"name": "Jean Brash", "motive": "inheritance", "description": "the estranged niece", "statement": "I was in the garden."},
		{"name": "Arthur Penn", "motive": "blackmail", "description": "the butler", "statement": "I heard nothing."},
		{"name": "Mabel Reed", "motive": "jealousy", "description": "the business partner", "statement": "I left before dinner."}
	],
	"culprit": "Jean Brash"
}`

func TestParseCase(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "valid case",
			raw:  validCaseJSON,
		},
		{
			name: "valid case in a markdown fence",
			raw:  "```json\n" + validCaseJSON + "\n```",
		},
		{
			name:    "not JSON",
			raw:     "the dog ate my homework",
			wantErr: true,
		},
		{
			name:    "missing required fields",
			raw:     `{"title": "", "victim": "", "summary": "", "suspects": [], "culprit": ""}`,
			wantErr: true,
		},
		{
			name: "two suspects",
			raw: `{"title": "t", "victim": "v", "location": "l", "summary": "s", "culprit": "A",
				"suspects": [{"name": "A"}, {"name": "B"}]}`,
			wantErr: true,
		},
		{
			name: "four suspects",
			raw: `{"title": "t", "victim": "v", "location": "l", "summary": "s", "culprit": "A",
				"suspects": [{"name": "A"}, {"name": "B"}, {"name": "C"}, {"name": "D"}]}`,
			wantErr: true,
		},
		{
			name: "culprit not among suspects",
			raw: `{"title": "t", "victim": "v", "location": "l", "summary": "s", "culprit": "Z",
				"suspects": [{"name": "A"}, {"name": "B"}, {"name": "C"}]}`,
			wantErr: true,
		},
		{
			name: "suspect missing name",
			raw: `{"title": "t", "victim": "v", "location": "l", "summary": "s", "culprit": "A",
				"suspects": [{"name": "A"}, {"name": ""}, {"name": "C"}]}`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := parseCase(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, ErrGeneration)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "The Grandfather Clock Affair", c.Title)
			require.Len(t, c.Suspects, 3)
			require.True(t, c.HasSuspect(c.Culprit))
		})
	}
}

func TestParseFinding(t *testing.T) {
	finding, err := parseFinding(`{"description": "You search the study.", "clue": "A torn glove.", "speaker": "Arthur Penn"}`)
	require.NoError(t, err)
	require.Equal(t, "A torn glove.", finding.Clue)
	require.Equal(t, "Arthur Penn", finding.Speaker)

	// A missing description falls back to the clue text.
	finding, err = parseFinding(`{"clue": "A torn glove."}`)
	require.NoError(t, err)
	require.Equal(t, "A torn glove.", finding.Description)

	_, err = parseFinding(`{"description": "nothing to see"}`)
	require.ErrorIs(t, err, ErrGeneration)

	_, err = parseFinding(`not json`)
	require.ErrorIs(t, err, ErrGeneration)
}

func TestParseResolution(t *testing.T) {
	narrative, err := parseResolution(`{"narrative": "The threads wind together."}`)
	require.NoError(t, err)
	require.Equal(t, "The threads wind together.", narrative)

	_, err = parseResolution(`{}`)
	require.ErrorIs(t, err, ErrGeneration)
}

func TestGenerationErrorMatchesUnderlyingCause(t *testing.T) {
	sentinel := errors.NewSentinel("request timed out")
	err := generationError(sentinel, "create chat completion")
	require.ErrorIs(t, err, ErrGeneration)
	require.ErrorIs(t, err, sentinel)
}
