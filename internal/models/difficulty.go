package models

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// defaultRequiredClues applies when no difficulty has been chosen or the
// value is unrecognized.
const defaultRequiredClues = 2

// ParseDifficulty maps user input to a difficulty. Unrecognized input yields
// the zero value, which falls back to the default clue threshold.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s)
	default:
		return ""
	}
}

// RequiredClues is the minimum number of clue and hint entries that must be
// collected before an accusation may be opened.
func (d Difficulty) RequiredClues() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	default:
		return defaultRequiredClues
	}
}
