package models_test

import (
	"testing"

	"github.com/myrjola/gumshoe/internal/models"
	"github.com/stretchr/testify/require"
)

func TestDifficulty_RequiredClues(t *testing.T) {
	tests := []struct {
		name       string
		difficulty models.Difficulty
		want       int
	}{
		{name: "easy", difficulty: models.DifficultyEasy, want: 1},
		{name: "medium", difficulty: models.DifficultyMedium, want: 2},
		{name: "hard", difficulty: models.DifficultyHard, want: 3},
		{name: "unset defaults to two", difficulty: "", want: 2},
		{name: "unrecognized defaults to two", difficulty: "nightmare", want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.difficulty.RequiredClues())
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	require.Equal(t, models.DifficultyEasy, models.ParseDifficulty("easy"))
	require.Equal(t, models.DifficultyMedium, models.ParseDifficulty("medium"))
	require.Equal(t, models.DifficultyHard, models.ParseDifficulty("hard"))
	require.Equal(t, models.Difficulty(""), models.ParseDifficulty("EASY"))
	require.Equal(t, models.Difficulty(""), models.ParseDifficulty(""))
}

func TestSessionState_CollectedClues(t *testing.T) {
	state := models.SessionState{
		Screen:     models.ScreenInvestigating,
		Difficulty: models.DifficultyMedium,
		Evidence: []models.EvidenceEntry{
			{Seq: 1, Kind: models.EvidenceKindBriefing, Source: "briefing", Text: "a body was found"},
			{Seq: 2, Kind: models.EvidenceKindClue, Source: "investigation", Text: "a torn glove"},
			{Seq: 3, Kind: models.EvidenceKindHint, Source: "companion", Text: "check the alibi"},
		},
	}

	// The briefing entry never counts towards eligibility.
	require.Equal(t, 2, state.CollectedClues())
	require.True(t, state.CanAccuse())

	state.Difficulty = models.DifficultyHard
	require.False(t, state.CanAccuse())
}
