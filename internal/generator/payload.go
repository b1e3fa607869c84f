package generator

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/myrjola/gumshoe/internal/models"
)

// suspectCount is the number of suspects every case must have.
const suspectCount = 3

type suspectPayload struct {
	Name        string `json:"name"`
	Motive      string `json:"motive"`
	Description string `json:"description"`
	Statement   string `json:"statement"`
}

type casePayload struct {
	Title    string           `json:"title"`
	Victim   string           `json:"victim"`
	Location string           `json:"location"`
	Summary  string           `json:"summary"`
	Suspects []suspectPayload `json:"suspects"`
	Culprit  string           `json:"culprit"`
}

type findingPayload struct {
	Description string `json:"description"`
	Clue        string `json:"clue"`
	Speaker     string `json:"speaker"`
}

type resolutionPayload struct {
	Narrative string `json:"narrative"`
}

// parseCase validates a generated case payload. The payload must parse,
// contain exactly three suspects, and name one of them as the culprit.
func parseCase(raw string) (*models.Case, error) {
	var payload casePayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return nil, generationError(err, "parse case payload")
	}
	if payload.Title == "" || payload.Victim == "" || payload.Summary == "" {
		return nil, generationError(nil, "case payload missing required fields")
	}
	if len(payload.Suspects) != suspectCount {
		return nil, generationError(nil, "wrong suspect count",
			slog.Int("suspects", len(payload.Suspects)))
	}

	c := models.Case{
		Title:    payload.Title,
		Victim:   payload.Victim,
		Location: payload.Location,
		Summary:  payload.Summary,
		Suspects: make([]models.Suspect, suspectCount),
		Culprit:  payload.Culprit,
	}
	for i, suspect := range payload.Suspects {
		if suspect.Name == "" {
			return nil, generationError(nil, "suspect missing name", slog.Int("index", i))
		}
		c.Suspects[i] = models.Suspect{
			Name:        suspect.Name,
			Motive:      suspect.Motive,
			Description: suspect.Description,
			Statement:   suspect.Statement,
		}
	}
	if !c.HasSuspect(c.Culprit) {
		return nil, generationError(nil, "culprit is not one of the suspects",
			slog.String("culprit", c.Culprit))
	}
	return &c, nil
}

func parseFinding(raw string) (models.Finding, error) {
	var payload findingPayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return models.Finding{}, generationError(err, "parse finding payload")
	}
	if payload.Clue == "" {
		return models.Finding{}, generationError(nil, "finding payload missing clue")
	}
	description := payload.Description
	if description == "" {
		description = payload.Clue
	}
	return models.Finding{
		Description: description,
		Clue:        payload.Clue,
		Speaker:     payload.Speaker,
	}, nil
}

func parseResolution(raw string) (string, error) {
	var payload resolutionPayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return "", generationError(err, "parse resolution payload")
	}
	if payload.Narrative == "" {
		return "", generationError(nil, "resolution payload missing narrative")
	}
	return payload.Narrative, nil
}

// stripFences removes a surrounding markdown code fence that some models
// insist on emitting around JSON.
func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
