package generator

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/internal/session"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Gemini generates cases through the Gemini API with response schemas
// constraining the output shape.
type Gemini struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

var _ session.Generator = (*Gemini)(nil)

func NewGemini(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	if model == "" {
		model = "gemini-2.5-pro"
	}
	return &Gemini{
		client: client,
		model:  model,
		logger: logger.With("source", "generator.Gemini"),
	}, nil
}

// Close releases the underlying API connection.
func (g *Gemini) Close() error {
	if err := g.client.Close(); err != nil {
		return errors.Wrap(err, "close gemini client")
	}
	return nil
}

var suspectSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":        {Type: genai.TypeString},
		"motive":      {Type: genai.TypeString},
		"description": {Type: genai.TypeString},
		"statement":   {Type: genai.TypeString},
	},
	Required: []string{"name", "motive", "description", "statement"},
}

var caseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":    {Type: genai.TypeString},
		"victim":   {Type: genai.TypeString},
		"location": {Type: genai.TypeString},
		"summary":  {Type: genai.TypeString},
		"suspects": {Type: genai.TypeArray, Items: suspectSchema},
		"culprit":  {Type: genai.TypeString},
	},
	Required: []string{"title", "victim", "location", "summary", "suspects", "culprit"},
}

var findingSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"description": {Type: genai.TypeString},
		"clue":        {Type: genai.TypeString},
		"speaker":     {Type: genai.TypeString},
	},
	Required: []string{"description", "clue"},
}

var resolutionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"narrative": {Type: genai.TypeString},
	},
	Required: []string{"narrative"},
}

func (g *Gemini) GenerateCase(ctx context.Context, difficulty models.Difficulty) (*models.Case, error) {
	raw, err := g.generateJSON(ctx, caseSchema, caseSystemPrompt, casePrompt(difficulty))
	if err != nil {
		return nil, err
	}
	return parseCase(raw)
}

func (g *Gemini) Investigate(
	ctx context.Context,
	c *models.Case,
	action string,
	difficulty models.Difficulty,
) (models.Finding, error) {
	raw, err := g.generateJSON(ctx, findingSchema, investigateSystemPrompt, investigatePrompt(c, action, difficulty))
	if err != nil {
		return models.Finding{}, err
	}
	return parseFinding(raw)
}

func (g *Gemini) Hint(
	ctx context.Context,
	c *models.Case,
	difficulty models.Difficulty,
	onDelta func(string),
) (string, error) {
	model := g.newModel(hintSystemPrompt, nil)
	prompt := genai.Text(hintPrompt(c, difficulty))

	if onDelta == nil {
		response, err := model.GenerateContent(ctx, prompt)
		if err != nil {
			return "", generationError(err, "generate hint")
		}
		return responseText(response)
	}

	var hint strings.Builder
	iter := model.GenerateContentStream(ctx, prompt)
	for {
		response, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return "", generationError(err, "receive hint stream chunk")
		}
		delta, err := responseText(response)
		if err != nil {
			continue
		}
		hint.WriteString(delta)
		onDelta(delta)
	}
	if hint.Len() == 0 {
		return "", generationError(nil, "empty hint stream")
	}
	return hint.String(), nil
}

func (g *Gemini) Resolve(ctx context.Context, c *models.Case, accusedName string) (models.Resolution, error) {
	correct := accusedName == c.Culprit
	raw, err := g.generateJSON(ctx, resolutionSchema, resolveSystemPrompt, resolvePrompt(c, accusedName, correct))
	if err != nil {
		return models.Resolution{}, err
	}
	narrative, err := parseResolution(raw)
	if err != nil {
		return models.Resolution{}, err
	}
	return models.Resolution{Correct: correct, Narrative: narrative}, nil
}

func (g *Gemini) newModel(systemPrompt string, schema *genai.Schema) *genai.GenerativeModel {
	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	if schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = schema
	}
	return model
}

func (g *Gemini) generateJSON(
	ctx context.Context,
	schema *genai.Schema,
	systemPrompt, userPrompt string,
) (string, error) {
	response, err := g.newModel(systemPrompt, schema).GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", generationError(err, "generate content")
	}
	return responseText(response)
}

func responseText(response *genai.GenerateContentResponse) (string, error) {
	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", generationError(nil, "no candidates in response")
	}
	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	if text.Len() == 0 {
		return "", generationError(nil, "no text parts in response")
	}
	return text.String(), nil
}
