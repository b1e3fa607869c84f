package generator

import (
	"encoding/json"
	"fmt"

	"github.com/myrjola/gumshoe/internal/models"
)

// difficultyTone tunes how forthcoming the model should be with clues.
func difficultyTone(difficulty models.Difficulty) string {
	switch difficulty {
	case models.DifficultyEasy:
		return "Clues are direct and point clearly at the culprit."
	case models.DifficultyHard:
		return "Clues are subtle and circumstantial; never state outright who is guilty."
	default:
		return "Clues are suggestive but require some deduction."
	}
}

const caseSystemPrompt = `You are the game master of a noir murder mystery game. Invent an original murder case.

You MUST respond with a single valid JSON object and nothing else. The object must have these keys:
1. "title": a short, evocative case title.
2. "victim": the victim's full name.
3. "location": where the body was found.
4. "summary": a briefing of 3 to 5 sentences read to the detective when the case opens. It must not reveal the culprit.
5. "suspects": an array of EXACTLY three suspect objects, each with the keys "name", "motive", "description", and "statement". "statement" is what the suspect claims in their own words.
6. "culprit": the "name" of exactly one of the three suspects.

Every suspect must be plausibly guilty. Keep all text in English.`

func casePrompt(difficulty models.Difficulty) string {
	return fmt.Sprintf("Difficulty: %s. %s Invent the case now.",
		difficultyLabel(difficulty), difficultyTone(difficulty))
}

const investigateSystemPrompt = `You are the narrator of a noir murder mystery game. The detective performs one investigation action and you narrate what they find.

You MUST respond with a single valid JSON object and nothing else. The object must have these keys:
1. "description": 2 to 4 sentences narrating what the detective experiences while performing the action.
2. "clue": one concrete piece of evidence the action uncovers, phrased as a single sentence.
3. "speaker": the name of the person the clue came from, or an empty string when it came from the scene.

The clue must be consistent with the case facts and must not name the culprit outright. Stay in the noir register.`

func investigatePrompt(c *models.Case, action string, difficulty models.Difficulty) string {
	return fmt.Sprintf("CASE FACTS (the \"culprit\" field is secret, never reveal it directly):\n%s\n\nDifficulty: %s. %s\n\nTHE DETECTIVE'S ACTION: %s",
		caseContext(c), difficultyLabel(difficulty), difficultyTone(difficulty), action)
}

const hintSystemPrompt = `You are the detective's loyal companion in a noir murder mystery game. Offer one short hint, at most two sentences, nudging the detective towards a promising line of investigation. Speak in character, address the detective directly, and never name the culprit. Respond with the hint text only.`

func hintPrompt(c *models.Case, difficulty models.Difficulty) string {
	return fmt.Sprintf("CASE FACTS (the \"culprit\" field is secret, never reveal it directly):\n%s\n\nDifficulty: %s. %s\n\nGive the detective a hint now.",
		caseContext(c), difficultyLabel(difficulty), difficultyTone(difficulty))
}

const resolveSystemPrompt = `You are the narrator of a noir murder mystery game. The detective has made their accusation and the case is closing.

You MUST respond with a single valid JSON object and nothing else. The object must have this key:
1. "narrative": 3 to 6 sentences revealing what actually happened on the night of the murder, whether the detective accused the right suspect, and how the case concludes.

Be dramatic but consistent with the case facts.`

func resolvePrompt(c *models.Case, accusedName string, correct bool) string {
	verdict := "wrong"
	if correct {
		verdict = "right"
	}
	return fmt.Sprintf("CASE FACTS:\n%s\n\nTHE DETECTIVE ACCUSES: %s\nThe accusation is %s: the culprit is %s.",
		caseContext(c), accusedName, verdict, c.Culprit)
}

// caseContext renders the case record for the model. The record never leaves
// the server except through these prompts.
func caseContext(c *models.Case) string {
	data, err := json.Marshal(c)
	if err != nil {
		// models.Case marshals without error; fall back to the summary anyway.
		return c.Summary
	}
	return string(data)
}

func difficultyLabel(difficulty models.Difficulty) string {
	if difficulty == "" {
		return string(models.DifficultyMedium)
	}
	return string(difficulty)
}
